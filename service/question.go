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

// QuestionService exposes question operations to the action layer.
type QuestionService struct {
	dal       *dal.QuestionDAL
	jobInfos  *JobInfoService
	admission admission.Checker
	generator QuestionGenerator
}

// NewQuestionService creates a QuestionService. checker may be nil to admit
// everything; generator may be nil when question generation is not wired.
func NewQuestionService(d *dal.QuestionDAL, jobInfos *JobInfoService, checker admission.Checker, generator QuestionGenerator) *QuestionService {
	if checker == nil {
		checker = admission.AllowAll{}
	}
	return &QuestionService{
		dal:       d,
		jobInfos:  jobInfos,
		admission: checker,
		generator: generator,
	}
}

// Get returns the caller's question or errs.ErrNotFound.
func (s *QuestionService) Get(ctx context.Context, id string) (model.Question, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.Question{}, err
	}
	rec, ok, err := s.dal.FindByIDForOwner(ctx, id, userID)
	if err != nil {
		return model.Question{}, err
	}
	if !ok {
		return model.Question{}, errs.ErrNotFound
	}
	return rec, nil
}

// GetOwned is Get with absence reported as a bool instead of an error.
func (s *QuestionService) GetOwned(ctx context.Context, id string) (model.Question, bool, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.Question{}, false, err
	}
	return s.dal.FindByIDForOwner(ctx, id, userID)
}

// List returns every question under the caller's job infos.
func (s *QuestionService) List(ctx context.Context) ([]model.Question, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.dal.FindAllForOwner(ctx, userID)
}

// ListForJobInfo returns the questions under one of the caller's job infos.
func (s *QuestionService) ListForJobInfo(ctx context.Context, jobInfoID string) ([]model.Question, error) {
	if _, _, err := s.jobInfos.VerifyAccess(ctx, jobInfoID); err != nil {
		return nil, err
	}
	return s.dal.ListForJobInfo(ctx, jobInfoID)
}

// Update applies the patch to the caller's question. The parent job info
// carries the ownership, so a located question with a foreign job info
// fails errs.ErrForbidden.
func (s *QuestionService) Update(ctx context.Context, id string, patch model.QuestionPatch) (model.Question, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.Question{}, err
	}

	existing, ok, err := s.dal.FindByID(ctx, id)
	if err != nil {
		return model.Question{}, err
	}
	if !ok {
		return model.Question{}, errs.ErrNotFound
	}
	if _, ownerOK, err := s.jobInfos.dal.FindByIDForOwner(ctx, existing.JobInfoID, userID); err != nil {
		return model.Question{}, err
	} else if !ownerOK {
		return model.Question{}, errs.ErrForbidden
	}

	return s.dal.Update(ctx, id, patch)
}

// Generate produces a new practice question for one of the caller's job
// infos and persists it. Admission runs before ownership, like interview
// creation.
func (s *QuestionService) Generate(ctx context.Context, jobInfoID string, difficulty model.QuestionDifficulty) (model.Question, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.Question{}, err
	}
	if err := s.admission.Check(ctx, userID, datacache.KindQuestion); err != nil {
		return model.Question{}, err
	}

	jobInfo, _, err := s.jobInfos.VerifyAccess(ctx, jobInfoID)
	if err != nil {
		return model.Question{}, err
	}
	if s.generator == nil {
		return model.Question{}, ErrGeneratorUnavailable
	}

	text, err := s.generator.Generate(ctx, QuestionRequest{
		JobInfo:    jobInfo,
		Difficulty: difficulty,
	})
	if err != nil {
		return model.Question{}, fmt.Errorf("generate question: %w", err)
	}

	return s.dal.Insert(ctx, model.QuestionDraft{
		JobInfoID:  jobInfo.ID,
		Text:       text,
		Difficulty: difficulty,
		OwnerID:    userID,
	})
}
