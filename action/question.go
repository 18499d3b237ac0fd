package action

import (
	"context"
	"io"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/GuRuGuMaWaRu/jobprep/model"
	"github.com/GuRuGuMaWaRu/jobprep/service"
)

// QuestionGenerateInput is the untrusted shape for generating a question.
type QuestionGenerateInput struct {
	JobInfoID  string `json:"jobInfoId"`
	Difficulty string `json:"difficulty"`
}

func (in QuestionGenerateInput) Validate() error {
	return asInputError(validation.ValidateStruct(&in,
		validation.Field(&in.JobInfoID, validation.Required),
		validation.Field(&in.Difficulty, validation.Required, validation.In(
			string(model.DifficultyEasy),
			string(model.DifficultyMedium),
			string(model.DifficultyHard),
		)),
	))
}

// QuestionUpdateInput carries the fields a question update may change. Nil
// fields are left untouched.
type QuestionUpdateInput struct {
	Text       *string `json:"text"`
	Difficulty *string `json:"difficulty"`
}

func (in QuestionUpdateInput) Validate() error {
	return asInputError(validation.ValidateStruct(&in,
		validation.Field(&in.Text, validation.NilOrNotEmpty),
		validation.Field(&in.Difficulty, validation.NilOrNotEmpty, validation.In(
			string(model.DifficultyEasy),
			string(model.DifficultyMedium),
			string(model.DifficultyHard),
		)),
	))
}

// QuestionActions is the caller-facing module for questions.
type QuestionActions struct {
	svc *service.QuestionService
	log *slog.Logger
}

// NewQuestionActions creates a QuestionActions. log may be nil to discard.
func NewQuestionActions(svc *service.QuestionService, log *slog.Logger) *QuestionActions {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &QuestionActions{svc: svc, log: log}
}

// Generate produces and stores a new question under one of the caller's job
// infos.
func (a *QuestionActions) Generate(ctx context.Context, in QuestionGenerateInput) Result[model.Question] {
	if err := in.Validate(); err != nil {
		return fail[model.Question](ctx, a.log, err)
	}
	rec, err := a.svc.Generate(ctx, in.JobInfoID, model.QuestionDifficulty(in.Difficulty))
	if err != nil {
		return fail[model.Question](ctx, a.log, err)
	}
	return succeed(rec)
}

// Update applies the given fields to the caller's question.
func (a *QuestionActions) Update(ctx context.Context, id string, in QuestionUpdateInput) Result[string] {
	if err := in.Validate(); err != nil {
		return fail[string](ctx, a.log, err)
	}
	patch := model.QuestionPatch{Text: in.Text}
	if in.Difficulty != nil {
		difficulty := model.QuestionDifficulty(*in.Difficulty)
		patch.Difficulty = &difficulty
	}
	rec, err := a.svc.Update(ctx, id, patch)
	if err != nil {
		return fail[string](ctx, a.log, err)
	}
	return succeed(rec.ID)
}

// Get returns the caller's question or errs.ErrNotFound.
func (a *QuestionActions) Get(ctx context.Context, id string) (model.Question, error) {
	return a.svc.Get(ctx, id)
}

// GetOwned is Get with absence reported as a bool.
func (a *QuestionActions) GetOwned(ctx context.Context, id string) (model.Question, bool, error) {
	return a.svc.GetOwned(ctx, id)
}

// List returns every question under the caller's job infos.
func (a *QuestionActions) List(ctx context.Context) ([]model.Question, error) {
	return a.svc.List(ctx)
}

// ListForJobInfo returns the questions under one of the caller's job infos.
func (a *QuestionActions) ListForJobInfo(ctx context.Context, jobInfoID string) ([]model.Question, error) {
	return a.svc.ListForJobInfo(ctx, jobInfoID)
}
