package service

import (
	"context"
	"fmt"

	"github.com/GuRuGuMaWaRu/jobprep/admission"
	"github.com/GuRuGuMaWaRu/jobprep/auth"
	"github.com/GuRuGuMaWaRu/jobprep/dal"
	"github.com/GuRuGuMaWaRu/jobprep/datacache"
	"github.com/GuRuGuMaWaRu/jobprep/errs"
	"github.com/GuRuGuMaWaRu/jobprep/model"
)

// InterviewService exposes interview operations to the action layer.
type InterviewService struct {
	dal       *dal.InterviewDAL
	jobInfos  *JobInfoService
	users     *UserService
	admission admission.Checker
	feedback  FeedbackGenerator
}

// NewInterviewService creates an InterviewService. checker may be nil to
// admit everything; feedback may be nil when feedback generation is not
// wired.
func NewInterviewService(d *dal.InterviewDAL, jobInfos *JobInfoService, users *UserService, checker admission.Checker, feedback FeedbackGenerator) *InterviewService {
	if checker == nil {
		checker = admission.AllowAll{}
	}
	return &InterviewService{
		dal:       d,
		jobInfos:  jobInfos,
		users:     users,
		admission: checker,
		feedback:  feedback,
	}
}

// Get returns the caller's interview or errs.ErrNotFound.
func (s *InterviewService) Get(ctx context.Context, id string) (model.Interview, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.Interview{}, err
	}
	rec, ok, err := s.dal.FindByIDForOwner(ctx, id, userID)
	if err != nil {
		return model.Interview{}, err
	}
	if !ok {
		return model.Interview{}, errs.ErrNotFound
	}
	return rec, nil
}

// GetOwned is Get with absence reported as a bool instead of an error.
func (s *InterviewService) GetOwned(ctx context.Context, id string) (model.Interview, bool, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.Interview{}, false, err
	}
	return s.dal.FindByIDForOwner(ctx, id, userID)
}

// List returns every interview under the caller's job infos.
func (s *InterviewService) List(ctx context.Context) ([]model.Interview, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.dal.FindAllForOwner(ctx, userID)
}

// ListForJobInfo returns the interviews under one of the caller's job
// infos, gating on job info ownership first.
func (s *InterviewService) ListForJobInfo(ctx context.Context, jobInfoID string) ([]model.Interview, error) {
	if _, _, err := s.jobInfos.VerifyAccess(ctx, jobInfoID); err != nil {
		return nil, err
	}
	return s.dal.ListForJobInfo(ctx, jobInfoID)
}

// Create starts a new interview under one of the caller's job infos. The
// admission check (plan limit, then rate limit) runs before the ownership
// gate so capped callers are refused cheaply.
func (s *InterviewService) Create(ctx context.Context, jobInfoID string) (model.Interview, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.Interview{}, err
	}
	if err := s.admission.Check(ctx, userID, datacache.KindInterview); err != nil {
		return model.Interview{}, err
	}

	jobInfo, _, err := s.jobInfos.VerifyAccess(ctx, jobInfoID)
	if err != nil {
		return model.Interview{}, err
	}

	return s.dal.Insert(ctx, model.InterviewDraft{
		JobInfoID: jobInfo.ID,
		OwnerID:   userID,
	})
}

// Update applies the patch to the caller's interview. The parent job info
// carries the ownership, so a located interview with a foreign job info
// fails errs.ErrForbidden.
func (s *InterviewService) Update(ctx context.Context, id string, patch model.InterviewPatch) (model.Interview, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.Interview{}, err
	}

	existing, ok, err := s.dal.FindByID(ctx, id)
	if err != nil {
		return model.Interview{}, err
	}
	if !ok {
		return model.Interview{}, errs.ErrNotFound
	}
	if _, ownerOK, err := s.jobInfos.dal.FindByIDForOwner(ctx, existing.JobInfoID, userID); err != nil {
		return model.Interview{}, err
	} else if !ownerOK {
		return model.Interview{}, errs.ErrForbidden
	}

	return s.dal.Update(ctx, id, patch)
}

// GenerateFeedback runs the feedback generator over a completed interview
// and persists the result. Interviews without a recorded session fail
// ErrInterviewNotCompleted.
func (s *InterviewService) GenerateFeedback(ctx context.Context, id string) (model.Interview, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.Interview{}, err
	}

	rec, ok, err := s.dal.FindByIDForOwner(ctx, id, userID)
	if err != nil {
		return model.Interview{}, err
	}
	if !ok {
		return model.Interview{}, errs.ErrNotFound
	}
	if rec.HumeChatID == nil || *rec.HumeChatID == "" {
		return model.Interview{}, ErrInterviewNotCompleted
	}
	if s.feedback == nil {
		return model.Interview{}, ErrGeneratorUnavailable
	}

	jobInfo, _, err := s.jobInfos.VerifyAccess(ctx, rec.JobInfoID)
	if err != nil {
		return model.Interview{}, err
	}
	user, err := s.users.Get(ctx)
	if err != nil {
		return model.Interview{}, err
	}

	feedback, err := s.feedback.Generate(ctx, FeedbackRequest{
		HumeChatID: *rec.HumeChatID,
		JobInfo:    jobInfo,
		UserName:   user.Name,
	})
	if err != nil {
		return model.Interview{}, fmt.Errorf("generate feedback: %w", err)
	}

	return s.dal.Update(ctx, id, model.InterviewPatch{Feedback: &feedback})
}
