package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/GuRuGuMaWaRu/jobprep/datacache"
	"github.com/GuRuGuMaWaRu/jobprep/errs"
	"github.com/GuRuGuMaWaRu/jobprep/model"
)

func TestInterviewCreateChecksJobInfoOwnership(t *testing.T) {
	e := newSvcEnv(t, svcOptions{})

	jobInfo := e.mustCreateJobInfo(t, asUser("u1"), "Backend Role")

	rec, err := e.interviews.Create(asUser("u1"), jobInfo.ID)
	if err != nil {
		t.Fatalf("owner create: %v", err)
	}
	if rec.JobInfoID != jobInfo.ID {
		t.Errorf("created %+v", rec)
	}

	if _, err := e.interviews.Create(asUser("u2"), jobInfo.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("foreign create: %v, want ErrNotFound", err)
	}
}

func TestInterviewCreateAdmission(t *testing.T) {
	tests := []struct {
		name    string
		refusal error
	}{
		{"plan limit", errs.ErrPermissionDenied},
		{"rate limit", errs.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var checkedKind datacache.Kind
			e := newSvcEnv(t, svcOptions{
				checker: checkerFunc(func(_ context.Context, _ string, kind datacache.Kind) error {
					checkedKind = kind
					return tt.refusal
				}),
			})
			jobInfo := e.mustCreateJobInfo(t, asUser("u1"), "Backend Role")

			_, err := e.interviews.Create(asUser("u1"), jobInfo.ID)
			if !errors.Is(err, tt.refusal) {
				t.Errorf("create: %v, want %v", err, tt.refusal)
			}
			if checkedKind != datacache.KindInterview {
				t.Errorf("checked kind %q", checkedKind)
			}
		})
	}
}

func TestInterviewUpdateOwnership(t *testing.T) {
	e := newSvcEnv(t, svcOptions{})

	jobInfo := e.mustCreateJobInfo(t, asUser("u1"), "Backend Role")
	rec, err := e.interviews.Create(asUser("u1"), jobInfo.ID)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.interviews.Update(asUser("u2"), rec.ID, model.InterviewPatch{
		Duration: ptr("00:10:00"),
	}); err == nil {
		t.Error("foreign update succeeded")
	}

	updated, err := e.interviews.Update(asUser("u1"), rec.ID, model.InterviewPatch{
		Duration:   ptr("00:10:00"),
		HumeChatID: ptr("chat-1"),
	})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Duration != "00:10:00" {
		t.Errorf("updated %+v", updated)
	}
}

func TestGenerateFeedback(t *testing.T) {
	e := newSvcEnv(t, svcOptions{
		feedback: FeedbackFunc(func(_ context.Context, req FeedbackRequest) (string, error) {
			return fmt.Sprintf("feedback for %s on %s via %s", req.UserName, req.JobInfo.Name, req.HumeChatID), nil
		}),
	})

	if _, err := e.users.Upsert(asUser("u1"), model.UserDraft{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatal(err)
	}
	jobInfo := e.mustCreateJobInfo(t, asUser("u1"), "Backend Role")
	rec, err := e.interviews.Create(asUser("u1"), jobInfo.ID)
	if err != nil {
		t.Fatal(err)
	}

	// Without a recorded session there is nothing to grade.
	if _, err := e.interviews.GenerateFeedback(asUser("u1"), rec.ID); !errors.Is(err, ErrInterviewNotCompleted) {
		t.Errorf("incomplete interview: %v, want ErrInterviewNotCompleted", err)
	}

	if _, err := e.interviews.Update(asUser("u1"), rec.ID, model.InterviewPatch{
		HumeChatID: ptr("chat-7"),
	}); err != nil {
		t.Fatal(err)
	}

	got, err := e.interviews.GenerateFeedback(asUser("u1"), rec.ID)
	if err != nil {
		t.Fatalf("generate feedback: %v", err)
	}
	want := "feedback for Alice on Backend Role via chat-7"
	if got.Feedback == nil || *got.Feedback != want {
		t.Errorf("feedback = %v, want %q", got.Feedback, want)
	}

	// The persisted interview carries the feedback on the next read.
	again, err := e.interviews.Get(asUser("u1"), rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Feedback == nil || *again.Feedback != want {
		t.Errorf("persisted feedback = %v", again.Feedback)
	}
}

func TestGenerateFeedbackForeignInterview(t *testing.T) {
	e := newSvcEnv(t, svcOptions{
		feedback: FeedbackFunc(func(context.Context, FeedbackRequest) (string, error) {
			return "never", nil
		}),
	})

	jobInfo := e.mustCreateJobInfo(t, asUser("u1"), "Backend Role")
	rec, err := e.interviews.Create(asUser("u1"), jobInfo.ID)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.interviews.GenerateFeedback(asUser("u2"), rec.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("foreign feedback: %v, want ErrNotFound", err)
	}
}

func TestGenerateFeedbackWithoutGenerator(t *testing.T) {
	e := newSvcEnv(t, svcOptions{})

	if _, err := e.users.Upsert(asUser("u1"), model.UserDraft{Name: "Alice", Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	jobInfo := e.mustCreateJobInfo(t, asUser("u1"), "Backend Role")
	rec, err := e.interviews.Create(asUser("u1"), jobInfo.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.interviews.Update(asUser("u1"), rec.ID, model.InterviewPatch{
		HumeChatID: ptr("chat-1"),
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := e.interviews.GenerateFeedback(asUser("u1"), rec.ID); !errors.Is(err, ErrGeneratorUnavailable) {
		t.Errorf("got %v, want ErrGeneratorUnavailable", err)
	}
}

func TestInterviewListAcrossJobInfos(t *testing.T) {
	e := newSvcEnv(t, svcOptions{})

	first := e.mustCreateJobInfo(t, asUser("u1"), "Backend Role")
	second := e.mustCreateJobInfo(t, asUser("u1"), "Platform Role")

	if _, err := e.interviews.Create(asUser("u1"), first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.interviews.Create(asUser("u1"), second.ID); err != nil {
		t.Fatal(err)
	}

	all, err := e.interviews.List(asUser("u1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("list returned %d interviews", len(all))
	}

	scoped, err := e.interviews.ListForJobInfo(asUser("u1"), first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(scoped) != 1 || scoped[0].JobInfoID != first.ID {
		t.Errorf("scoped list: %+v", scoped)
	}

	if _, err := e.interviews.ListForJobInfo(asUser("u2"), first.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("foreign scoped list: %v, want ErrNotFound", err)
	}
}
