package action

import (
	"context"
	"io"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/GuRuGuMaWaRu/jobprep/model"
	"github.com/GuRuGuMaWaRu/jobprep/service"
)

// UserInput is the untrusted shape for syncing the caller's profile from
// the identity provider.
type UserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (in UserInput) Validate() error {
	return asInputError(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
	))
}

// UserActions is the caller-facing module for the caller's own account.
type UserActions struct {
	svc *service.UserService
	log *slog.Logger
}

// NewUserActions creates a UserActions. log may be nil to discard.
func NewUserActions(svc *service.UserService, log *slog.Logger) *UserActions {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &UserActions{svc: svc, log: log}
}

// Upsert creates or refreshes the caller's record and returns its id.
func (a *UserActions) Upsert(ctx context.Context, in UserInput) Result[string] {
	if err := in.Validate(); err != nil {
		return fail[string](ctx, a.log, err)
	}
	rec, err := a.svc.Upsert(ctx, model.UserDraft{Name: in.Name, Email: in.Email})
	if err != nil {
		return fail[string](ctx, a.log, err)
	}
	return succeed(rec.ID)
}

// Remove deletes the caller's record and returns the removed id.
func (a *UserActions) Remove(ctx context.Context) Result[string] {
	id, err := a.svc.Remove(ctx)
	if err != nil {
		return fail[string](ctx, a.log, err)
	}
	return succeed(id)
}

// Get returns the caller's record or errs.ErrNotFound.
func (a *UserActions) Get(ctx context.Context) (model.User, error) {
	return a.svc.Get(ctx)
}
