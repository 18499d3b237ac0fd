package service

import (
	"context"

	"github.com/GuRuGuMaWaRu/jobprep/auth"
	"github.com/GuRuGuMaWaRu/jobprep/dal"
	"github.com/GuRuGuMaWaRu/jobprep/errs"
	"github.com/GuRuGuMaWaRu/jobprep/model"
)

// JobInfoService exposes job info operations to the action layer.
type JobInfoService struct {
	dal *dal.JobInfoDAL
}

// NewJobInfoService creates a JobInfoService.
func NewJobInfoService(d *dal.JobInfoDAL) *JobInfoService {
	return &JobInfoService{dal: d}
}

// Get returns the caller's job info or errs.ErrNotFound. A job info owned
// by someone else reports exactly like a missing one.
func (s *JobInfoService) Get(ctx context.Context, id string) (model.JobInfo, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.JobInfo{}, err
	}
	rec, ok, err := s.dal.FindByIDForOwner(ctx, id, userID)
	if err != nil {
		return model.JobInfo{}, err
	}
	if !ok {
		return model.JobInfo{}, errs.ErrNotFound
	}
	return rec, nil
}

// GetOwned is Get with absence reported as a bool instead of an error, for
// callers that treat "not yours" as an empty result rather than a failure.
func (s *JobInfoService) GetOwned(ctx context.Context, id string) (model.JobInfo, bool, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.JobInfo{}, false, err
	}
	return s.dal.FindByIDForOwner(ctx, id, userID)
}

// List returns every job info the caller owns, newest first.
func (s *JobInfoService) List(ctx context.Context) ([]model.JobInfo, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.dal.FindAllForOwner(ctx, userID)
}

// Create stores a new job info owned by the caller. Any owner on the draft
// is overwritten with the authenticated caller.
func (s *JobInfoService) Create(ctx context.Context, draft model.JobInfoDraft) (model.JobInfo, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.JobInfo{}, err
	}
	draft.UserID = userID
	return s.dal.Insert(ctx, draft)
}

// Update applies the patch to the caller's job info. A located row owned by
// someone else fails errs.ErrForbidden; an absent row fails
// errs.ErrNotFound.
func (s *JobInfoService) Update(ctx context.Context, id string, patch model.JobInfoPatch) (model.JobInfo, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.JobInfo{}, err
	}

	existing, ok, err := s.dal.FindByID(ctx, id)
	if err != nil {
		return model.JobInfo{}, err
	}
	if !ok {
		return model.JobInfo{}, errs.ErrNotFound
	}
	if existing.UserID != userID {
		return model.JobInfo{}, errs.ErrForbidden
	}

	return s.dal.Update(ctx, id, patch)
}

// VerifyAccess asserts the caller owns the job info and returns it together
// with the caller's id. Interview and question operations use it as their
// ownership gate.
func (s *JobInfoService) VerifyAccess(ctx context.Context, id string) (model.JobInfo, string, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.JobInfo{}, "", err
	}
	rec, ok, err := s.dal.FindByIDForOwner(ctx, id, userID)
	if err != nil {
		return model.JobInfo{}, "", err
	}
	if !ok {
		return model.JobInfo{}, "", errs.ErrNotFound
	}
	return rec, userID, nil
}
