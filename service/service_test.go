package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GuRuGuMaWaRu/jobprep/admission"
	"github.com/GuRuGuMaWaRu/jobprep/auth"
	"github.com/GuRuGuMaWaRu/jobprep/cache"
	"github.com/GuRuGuMaWaRu/jobprep/dal"
	"github.com/GuRuGuMaWaRu/jobprep/datacache"
	"github.com/GuRuGuMaWaRu/jobprep/internal/cacheinfra"
	"github.com/GuRuGuMaWaRu/jobprep/model"
	"github.com/GuRuGuMaWaRu/jobprep/storage"
	"github.com/GuRuGuMaWaRu/jobprep/storage/memstore"
)

func ptr[T any](v T) *T { return &v }

func asUser(id string) context.Context {
	return auth.WithUser(context.Background(), id)
}

// checkerFunc adapts a function to admission.Checker.
type checkerFunc func(ctx context.Context, userID string, kind datacache.Kind) error

func (f checkerFunc) Check(ctx context.Context, userID string, kind datacache.Kind) error {
	return f(ctx, userID, kind)
}

type svcEnv struct {
	users      *UserService
	jobInfos   *JobInfoService
	interviews *InterviewService
	questions  *QuestionService

	interviewsMem *memstore.Table[model.Interview]
}

type svcOptions struct {
	checker  admission.Checker
	feedback FeedbackGenerator
	question QuestionGenerator
}

func newSvcEnv(t *testing.T, opts svcOptions) *svcEnv {
	t.Helper()

	store, err := cacheinfra.New(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	usersTbl := memstore.New(memstore.Options[model.User]{
		ID: func(u model.User) string { return u.ID },
	})
	jobInfosTbl := memstore.New(memstore.Options[model.JobInfo]{
		ID: func(j model.JobInfo) string { return j.ID },
		Match: func(j model.JobInfo, f storage.Filter) bool {
			return f.OwnerID == "" || j.UserID == f.OwnerID
		},
	})
	interviewsTbl := memstore.New(memstore.Options[model.Interview]{
		ID: func(i model.Interview) string { return i.ID },
		Match: func(i model.Interview, f storage.Filter) bool {
			return f.ParentID == "" || i.JobInfoID == f.ParentID
		},
	})
	questionsTbl := memstore.New(memstore.Options[model.Question]{
		ID: func(q model.Question) string { return q.ID },
		Match: func(q model.Question, f storage.Filter) bool {
			return f.ParentID == "" || q.JobInfoID == f.ParentID
		},
	})

	var seq atomic.Int64
	deps := dal.Deps{
		Cache:      store,
		Revalidate: datacache.NewDispatcher(store),
		NewID:      func() string { return fmt.Sprintf("id-%d", seq.Add(1)) },
		Now:        func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}

	e := &svcEnv{interviewsMem: interviewsTbl}
	e.users = NewUserService(dal.NewUserDAL(usersTbl, deps))
	e.jobInfos = NewJobInfoService(dal.NewJobInfoDAL(jobInfosTbl, deps))
	e.interviews = NewInterviewService(
		dal.NewInterviewDAL(interviewsTbl, jobInfosTbl, deps),
		e.jobInfos, e.users, opts.checker, opts.feedback,
	)
	e.questions = NewQuestionService(
		dal.NewQuestionDAL(questionsTbl, jobInfosTbl, deps),
		e.jobInfos, opts.checker, opts.question,
	)
	return e
}

func (e *svcEnv) mustCreateJobInfo(t *testing.T, ctx context.Context, name string) model.JobInfo {
	t.Helper()
	rec, err := e.jobInfos.Create(ctx, model.JobInfoDraft{
		Name:            name,
		Description:     "desc",
		ExperienceLevel: model.ExperienceMid,
	})
	if err != nil {
		t.Fatalf("create job info: %v", err)
	}
	return rec
}
