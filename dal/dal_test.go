package dal

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GuRuGuMaWaRu/jobprep/cache"
	"github.com/GuRuGuMaWaRu/jobprep/datacache"
	"github.com/GuRuGuMaWaRu/jobprep/internal/cacheinfra"
	"github.com/GuRuGuMaWaRu/jobprep/model"
	"github.com/GuRuGuMaWaRu/jobprep/storage"
	"github.com/GuRuGuMaWaRu/jobprep/storage/memstore"
)

func ptr[T any](v T) *T { return &v }

// countingTable wraps a storage.Table and counts source-of-truth reads, so
// tests can tell a cache hit from a recomputation.
type countingTable[T any] struct {
	storage.Table[T]
	loads      atomic.Int64
	loadWheres atomic.Int64
}

func (c *countingTable[T]) Load(ctx context.Context, id string) (T, bool, error) {
	c.loads.Add(1)
	return c.Table.Load(ctx, id)
}

func (c *countingTable[T]) LoadWhere(ctx context.Context, f storage.Filter) ([]T, error) {
	c.loadWheres.Add(1)
	return c.Table.LoadWhere(ctx, f)
}

type env struct {
	store *cacheinfra.Store
	deps  Deps

	usersMem      *memstore.Table[model.User]
	jobInfosMem   *memstore.Table[model.JobInfo]
	interviewsMem *memstore.Table[model.Interview]
	questionsMem  *memstore.Table[model.Question]

	users      *countingTable[model.User]
	jobInfos   *countingTable[model.JobInfo]
	interviews *countingTable[model.Interview]
	questions  *countingTable[model.Question]

	userDAL      *UserDAL
	jobInfoDAL   *JobInfoDAL
	interviewDAL *InterviewDAL
	questionDAL  *QuestionDAL
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store, err := cacheinfra.New(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	e := &env{
		store: store,
		usersMem: memstore.New(memstore.Options[model.User]{
			ID: func(u model.User) string { return u.ID },
		}),
		jobInfosMem: memstore.New(memstore.Options[model.JobInfo]{
			ID: func(j model.JobInfo) string { return j.ID },
			Match: func(j model.JobInfo, f storage.Filter) bool {
				return f.OwnerID == "" || j.UserID == f.OwnerID
			},
		}),
		interviewsMem: memstore.New(memstore.Options[model.Interview]{
			ID: func(i model.Interview) string { return i.ID },
			Match: func(i model.Interview, f storage.Filter) bool {
				return f.ParentID == "" || i.JobInfoID == f.ParentID
			},
		}),
		questionsMem: memstore.New(memstore.Options[model.Question]{
			ID: func(q model.Question) string { return q.ID },
			Match: func(q model.Question, f storage.Filter) bool {
				return f.ParentID == "" || q.JobInfoID == f.ParentID
			},
		}),
	}
	e.users = &countingTable[model.User]{Table: e.usersMem}
	e.jobInfos = &countingTable[model.JobInfo]{Table: e.jobInfosMem}
	e.interviews = &countingTable[model.Interview]{Table: e.interviewsMem}
	e.questions = &countingTable[model.Question]{Table: e.questionsMem}

	var seq atomic.Int64
	deps := Deps{
		Cache:      store,
		Revalidate: datacache.NewDispatcher(store),
		NewID: func() string {
			return fmt.Sprintf("id-%d", seq.Add(1))
		},
		Now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	}

	e.deps = deps
	e.userDAL = NewUserDAL(e.users, deps)
	e.jobInfoDAL = NewJobInfoDAL(e.jobInfos, deps)
	e.interviewDAL = NewInterviewDAL(e.interviews, e.jobInfos, deps)
	e.questionDAL = NewQuestionDAL(e.questions, e.jobInfos, deps)
	return e
}

func (e *env) mustCreateJobInfo(t *testing.T, ownerID, name string) model.JobInfo {
	t.Helper()
	rec, err := e.jobInfoDAL.Insert(context.Background(), model.JobInfoDraft{
		UserID:          ownerID,
		Name:            name,
		Description:     "desc",
		ExperienceLevel: model.ExperienceMid,
	})
	if err != nil {
		t.Fatalf("insert job info: %v", err)
	}
	return rec
}

func (e *env) mustCreateInterview(t *testing.T, jobInfo model.JobInfo) model.Interview {
	t.Helper()
	rec, err := e.interviewDAL.Insert(context.Background(), model.InterviewDraft{
		JobInfoID: jobInfo.ID,
		OwnerID:   jobInfo.UserID,
	})
	if err != nil {
		t.Fatalf("insert interview: %v", err)
	}
	return rec
}
