package action

import (
	"context"
	"io"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/GuRuGuMaWaRu/jobprep/model"
	"github.com/GuRuGuMaWaRu/jobprep/service"
)

// JobInfoInput is the untrusted shape for creating or updating a job info.
type JobInfoInput struct {
	Name            string  `json:"name"`
	Title           *string `json:"title"`
	Description     string  `json:"description"`
	ExperienceLevel string  `json:"experienceLevel"`
}

// Validate checks the input shape before it reaches the service layer.
func (in JobInfoInput) Validate() error {
	return asInputError(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Title, validation.Length(1, 255)),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.ExperienceLevel, validation.Required, validation.In(experienceLevelValues()...)),
	))
}

func experienceLevelValues() []any {
	levels := model.ExperienceLevels()
	vals := make([]any, len(levels))
	for i, l := range levels {
		vals[i] = string(l)
	}
	return vals
}

// JobInfoActions is the caller-facing module for job infos.
type JobInfoActions struct {
	svc *service.JobInfoService
	log *slog.Logger
}

// NewJobInfoActions creates a JobInfoActions. log may be nil to discard.
func NewJobInfoActions(svc *service.JobInfoService, log *slog.Logger) *JobInfoActions {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &JobInfoActions{svc: svc, log: log}
}

// Create validates the input and stores a new job info, returning its id.
func (a *JobInfoActions) Create(ctx context.Context, in JobInfoInput) Result[string] {
	if err := in.Validate(); err != nil {
		return fail[string](ctx, a.log, err)
	}
	rec, err := a.svc.Create(ctx, model.JobInfoDraft{
		Name:            in.Name,
		Title:           in.Title,
		Description:     in.Description,
		ExperienceLevel: model.ExperienceLevel(in.ExperienceLevel),
	})
	if err != nil {
		return fail[string](ctx, a.log, err)
	}
	return succeed(rec.ID)
}

// Update validates the input and replaces the job info's editable fields.
func (a *JobInfoActions) Update(ctx context.Context, id string, in JobInfoInput) Result[string] {
	if err := in.Validate(); err != nil {
		return fail[string](ctx, a.log, err)
	}
	level := model.ExperienceLevel(in.ExperienceLevel)
	rec, err := a.svc.Update(ctx, id, model.JobInfoPatch{
		Name:            &in.Name,
		Title:           in.Title,
		Description:     &in.Description,
		ExperienceLevel: &level,
	})
	if err != nil {
		return fail[string](ctx, a.log, err)
	}
	return succeed(rec.ID)
}

// Get returns the caller's job info or errs.ErrNotFound.
func (a *JobInfoActions) Get(ctx context.Context, id string) (model.JobInfo, error) {
	return a.svc.Get(ctx, id)
}

// GetOwned is Get with absence reported as a bool. A job info owned by
// someone else looks identical to one that does not exist.
func (a *JobInfoActions) GetOwned(ctx context.Context, id string) (model.JobInfo, bool, error) {
	return a.svc.GetOwned(ctx, id)
}

// List returns the caller's job infos, newest first.
func (a *JobInfoActions) List(ctx context.Context) ([]model.JobInfo, error) {
	return a.svc.List(ctx)
}
