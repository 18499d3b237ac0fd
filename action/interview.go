package action

import (
	"context"
	"io"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/GuRuGuMaWaRu/jobprep/model"
	"github.com/GuRuGuMaWaRu/jobprep/service"
)

var durationPattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

// InterviewCreateInput is the untrusted shape for starting an interview.
type InterviewCreateInput struct {
	JobInfoID string `json:"jobInfoId"`
}

func (in InterviewCreateInput) Validate() error {
	return asInputError(validation.ValidateStruct(&in,
		validation.Field(&in.JobInfoID, validation.Required),
	))
}

// InterviewUpdateInput carries the fields an interview update may change.
// Nil fields are left untouched. Duration is HH:MM:SS.
type InterviewUpdateInput struct {
	Duration   *string `json:"duration"`
	HumeChatID *string `json:"humeChatId"`
}

func (in InterviewUpdateInput) Validate() error {
	return asInputError(validation.ValidateStruct(&in,
		validation.Field(&in.Duration, validation.Match(durationPattern)),
		validation.Field(&in.HumeChatID, validation.Length(1, 255)),
	))
}

// InterviewActions is the caller-facing module for interviews.
type InterviewActions struct {
	svc *service.InterviewService
	log *slog.Logger
}

// NewInterviewActions creates an InterviewActions. log may be nil to discard.
func NewInterviewActions(svc *service.InterviewService, log *slog.Logger) *InterviewActions {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &InterviewActions{svc: svc, log: log}
}

// Create starts a new interview under one of the caller's job infos and
// returns its id.
func (a *InterviewActions) Create(ctx context.Context, in InterviewCreateInput) Result[string] {
	if err := in.Validate(); err != nil {
		return fail[string](ctx, a.log, err)
	}
	rec, err := a.svc.Create(ctx, in.JobInfoID)
	if err != nil {
		return fail[string](ctx, a.log, err)
	}
	return succeed(rec.ID)
}

// Update applies the given fields to the caller's interview.
func (a *InterviewActions) Update(ctx context.Context, id string, in InterviewUpdateInput) Result[string] {
	if err := in.Validate(); err != nil {
		return fail[string](ctx, a.log, err)
	}
	rec, err := a.svc.Update(ctx, id, model.InterviewPatch{
		Duration:   in.Duration,
		HumeChatID: in.HumeChatID,
	})
	if err != nil {
		return fail[string](ctx, a.log, err)
	}
	return succeed(rec.ID)
}

// GenerateFeedback produces and persists feedback for a completed interview.
func (a *InterviewActions) GenerateFeedback(ctx context.Context, id string) Result[model.Interview] {
	rec, err := a.svc.GenerateFeedback(ctx, id)
	if err != nil {
		return fail[model.Interview](ctx, a.log, err)
	}
	return succeed(rec)
}

// Get returns the caller's interview or errs.ErrNotFound.
func (a *InterviewActions) Get(ctx context.Context, id string) (model.Interview, error) {
	return a.svc.Get(ctx, id)
}

// GetOwned is Get with absence reported as a bool.
func (a *InterviewActions) GetOwned(ctx context.Context, id string) (model.Interview, bool, error) {
	return a.svc.GetOwned(ctx, id)
}

// List returns every interview under the caller's job infos.
func (a *InterviewActions) List(ctx context.Context) ([]model.Interview, error) {
	return a.svc.List(ctx)
}

// ListForJobInfo returns the interviews under one of the caller's job infos.
func (a *InterviewActions) ListForJobInfo(ctx context.Context, jobInfoID string) ([]model.Interview, error) {
	return a.svc.ListForJobInfo(ctx, jobInfoID)
}
