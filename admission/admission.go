// Package admission gates resource creation: a plan-limit check followed by
// a per-user token bucket. The two refusals surface as distinct error kinds
// so the action layer can tell "upgrade your plan" from "slow down".
package admission

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/time/rate"

	"github.com/GuRuGuMaWaRu/jobprep/datacache"
	"github.com/GuRuGuMaWaRu/jobprep/errs"
)

// Checker decides whether a caller may create another resource of a kind.
// A nil return admits the request; refusals are errs.ErrPermissionDenied
// (plan) or errs.ErrRateLimited (rate).
type Checker interface {
	Check(ctx context.Context, userID string, kind datacache.Kind) error
}

// AllowAll admits every request. Useful as a default and in tests.
type AllowAll struct{}

func (AllowAll) Check(context.Context, string, datacache.Kind) error { return nil }

// PlanFunc reports whether the user's plan allows creating another resource
// of the kind. An error from the underlying lookup is returned unchanged.
type PlanFunc func(ctx context.Context, userID string, kind datacache.Kind) (bool, error)

// Limiter is the production Checker: an optional plan policy plus one token
// bucket per (user, kind).
type Limiter struct {
	plan    PlanFunc
	rps     rate.Limit
	burst   int
	buckets *xsync.MapOf[string, *rate.Limiter]
}

var _ Checker = (*Limiter)(nil)

// NewLimiter creates a Limiter admitting rps requests per second with the
// given burst per (user, kind). plan may be nil to skip plan checks.
func NewLimiter(rps rate.Limit, burst int, plan PlanFunc) *Limiter {
	return &Limiter{
		plan:    plan,
		rps:     rps,
		burst:   burst,
		buckets: xsync.NewMapOf[string, *rate.Limiter](),
	}
}

// Check implements Checker. The plan check runs first so a capped user sees
// the plan refusal even when they are also out of tokens.
func (l *Limiter) Check(ctx context.Context, userID string, kind datacache.Kind) error {
	if l.plan != nil {
		allowed, err := l.plan(ctx, userID, kind)
		if err != nil {
			return err
		}
		if !allowed {
			return errs.ErrPermissionDenied
		}
	}

	bucket, _ := l.buckets.LoadOrCompute(userID+"/"+string(kind), func() *rate.Limiter {
		return rate.NewLimiter(l.rps, l.burst)
	})
	if !bucket.Allow() {
		return errs.ErrRateLimited
	}
	return nil
}
