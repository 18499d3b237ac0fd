package cacheinfra

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GuRuGuMaWaRu/jobprep/cache"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(cache.Config{}); err == nil {
		t.Fatal("expected error for zero config")
	}
}

func TestGetOrComputeCachesValue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	computes := 0
	compute := func(context.Context) (any, error) {
		computes++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		got, err := s.GetOrCompute(ctx, "k", []string{"t"}, compute)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got != "value" {
			t.Fatalf("got %v, want value", got)
		}
	}
	if computes != 1 {
		t.Errorf("compute ran %d times, want 1", computes)
	}
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	calls := 0
	compute := func(context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return "ok", nil
	}

	if _, err := s.GetOrCompute(ctx, "k", nil, compute); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err := s.GetOrCompute(ctx, "k", nil, compute)
	if err != nil || got != "ok" {
		t.Fatalf("got %v, %v; want ok", got, err)
	}
}

func TestInvalidateEvictsTaggedKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	computes := map[string]int{}
	get := func(key string, tags ...string) {
		t.Helper()
		if _, err := s.GetOrCompute(ctx, key, tags, func(context.Context) (any, error) {
			computes[key]++
			return key, nil
		}); err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
	}

	get("a", "shared", "only-a")
	get("b", "shared")
	get("c", "only-c")

	if err := s.Invalidate(ctx, "shared"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	get("a", "shared", "only-a")
	get("b", "shared")
	get("c", "only-c")

	if computes["a"] != 2 || computes["b"] != 2 {
		t.Errorf("tagged keys not recomputed: %v", computes)
	}
	if computes["c"] != 1 {
		t.Errorf("untagged key recomputed: %v", computes)
	}
}

func TestInvalidateIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetOrCompute(ctx, "k", []string{"t"}, func(context.Context) (any, error) {
		return 1, nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.Invalidate(ctx, "t"); err != nil {
		t.Fatalf("first invalidate: %v", err)
	}
	if err := s.Invalidate(ctx, "t"); err != nil {
		t.Fatalf("second invalidate: %v", err)
	}
	if got := s.Size(); got != 0 {
		t.Errorf("size = %d, want 0", got)
	}
}

func TestInvalidateUnknownTag(t *testing.T) {
	s := newTestStore(t)
	if err := s.Invalidate(context.Background(), "never-seen"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
}

// A computation that starts before an invalidation and finishes after it
// must not put its value into the cache: the next read has to recompute.
func TestStaleComputationNotCommitted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, err := s.GetOrCompute(ctx, "k", []string{"t"}, func(context.Context) (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
		if err != nil {
			t.Errorf("get: %v", err)
		}
		// The caller still gets the value it computed.
		if got != "stale" {
			t.Errorf("got %v, want stale", got)
		}
	}()

	<-started
	if err := s.Invalidate(ctx, "t"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	close(release)
	wg.Wait()

	recomputed := false
	got, err := s.GetOrCompute(ctx, "k", []string{"t"}, func(context.Context) (any, error) {
		recomputed = true
		return "fresh", nil
	})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !recomputed || got != "fresh" {
		t.Errorf("stale value survived invalidation: got %v, recomputed=%v", got, recomputed)
	}
}

func TestCollectedTagsParticipateInInvalidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	computes := 0
	get := func() {
		t.Helper()
		if _, err := s.GetOrCompute(ctx, "k", []string{"declared"}, func(cctx context.Context) (any, error) {
			computes++
			cache.AddTags(cctx, "discovered")
			return "v", nil
		}); err != nil {
			t.Fatal(err)
		}
	}

	get()
	if err := s.Invalidate(ctx, "discovered"); err != nil {
		t.Fatal(err)
	}
	get()

	if computes != 2 {
		t.Errorf("compute ran %d times, want 2", computes)
	}
}

func TestConcurrentReadersAndInvalidators(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if _, err := s.GetOrCompute(ctx, "k", []string{"t"}, func(context.Context) (any, error) {
					return "v", nil
				}); err != nil {
					t.Errorf("get: %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if err := s.Invalidate(ctx, "t"); err != nil {
					t.Errorf("invalidate: %v", err)
					return
				}
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(stop)
	wg.Wait()
}
