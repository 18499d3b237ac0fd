package service

import (
	"context"
	"errors"
	"testing"

	"github.com/GuRuGuMaWaRu/jobprep/errs"
	"github.com/GuRuGuMaWaRu/jobprep/model"
)

func TestJobInfoRequiresSignIn(t *testing.T) {
	e := newSvcEnv(t, svcOptions{})
	ctx := context.Background()

	if _, err := e.jobInfos.List(ctx); !errors.Is(err, errs.ErrUnauthorized) {
		t.Errorf("List: %v, want ErrUnauthorized", err)
	}
	if _, err := e.jobInfos.Get(ctx, "j1"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Errorf("Get: %v, want ErrUnauthorized", err)
	}
	if _, err := e.jobInfos.Create(ctx, model.JobInfoDraft{}); !errors.Is(err, errs.ErrUnauthorized) {
		t.Errorf("Create: %v, want ErrUnauthorized", err)
	}
}

func TestJobInfoCreateStampsCaller(t *testing.T) {
	e := newSvcEnv(t, svcOptions{})

	rec, err := e.jobInfos.Create(asUser("u1"), model.JobInfoDraft{
		UserID:          "someone-else",
		Name:            "Backend Role",
		Description:     "desc",
		ExperienceLevel: model.ExperienceJunior,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.UserID != "u1" {
		t.Errorf("owner = %q, want the caller", rec.UserID)
	}
}

func TestJobInfoGetMergesAbsenceAndForeignOwnership(t *testing.T) {
	e := newSvcEnv(t, svcOptions{})

	rec := e.mustCreateJobInfo(t, asUser("u1"), "Backend Role")

	if _, err := e.jobInfos.Get(asUser("u2"), rec.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("foreign get: %v, want ErrNotFound", err)
	}
	if _, err := e.jobInfos.Get(asUser("u2"), "no-such-id"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("missing get: %v, want ErrNotFound", err)
	}

	if _, ok, err := e.jobInfos.GetOwned(asUser("u2"), rec.ID); err != nil || ok {
		t.Errorf("foreign GetOwned: ok=%v err=%v, want absent without error", ok, err)
	}
}

func TestJobInfoUpdateOwnership(t *testing.T) {
	e := newSvcEnv(t, svcOptions{})

	rec := e.mustCreateJobInfo(t, asUser("u1"), "Backend Role")

	if _, err := e.jobInfos.Update(asUser("u2"), rec.ID, model.JobInfoPatch{
		Name: ptr("hijacked"),
	}); !errors.Is(err, errs.ErrForbidden) {
		t.Errorf("foreign update: %v, want ErrForbidden", err)
	}

	if _, err := e.jobInfos.Update(asUser("u1"), "no-such-id", model.JobInfoPatch{
		Name: ptr("x"),
	}); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("missing update: %v, want ErrNotFound", err)
	}

	updated, err := e.jobInfos.Update(asUser("u1"), rec.ID, model.JobInfoPatch{
		Name: ptr("Renamed Role"),
	})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != "Renamed Role" {
		t.Errorf("updated %+v", updated)
	}
}

func TestJobInfoListScopedToCaller(t *testing.T) {
	e := newSvcEnv(t, svcOptions{})

	e.mustCreateJobInfo(t, asUser("u1"), "Backend Role")
	e.mustCreateJobInfo(t, asUser("u2"), "Frontend Role")

	got, err := e.jobInfos.List(asUser("u1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Backend Role" {
		t.Errorf("u1 list: %+v", got)
	}
}

func TestVerifyAccess(t *testing.T) {
	e := newSvcEnv(t, svcOptions{})

	rec := e.mustCreateJobInfo(t, asUser("u1"), "Backend Role")

	jobInfo, userID, err := e.jobInfos.VerifyAccess(asUser("u1"), rec.ID)
	if err != nil {
		t.Fatalf("owner access: %v", err)
	}
	if jobInfo.ID != rec.ID || userID != "u1" {
		t.Errorf("got %+v, %q", jobInfo, userID)
	}

	if _, _, err := e.jobInfos.VerifyAccess(asUser("u2"), rec.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("foreign access: %v, want ErrNotFound", err)
	}
}
