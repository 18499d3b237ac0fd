// Package action is the boundary invoked by callers. It validates untrusted
// input, runs the matching service operation, and folds every error into a
// Result carrying one of a closed set of user-safe messages. Internal error
// detail is logged here and never included in a Result.
package action

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/GuRuGuMaWaRu/jobprep/errs"
)

// User-safe messages. Result.Message is always one of these or an
// invalid-input message listing field names.
const (
	MsgSignInRequired   = "You must be signed in to do this."
	MsgPermissionDenied = "You don't have permission to do this."
	MsgPlanLimit        = "You have reached your plan limit."
	MsgRateLimited      = "You are making too many requests. Please try again later."
	MsgUnexpected       = "Something went wrong. Please try again later."
)

// Result is the outcome of a mutation. When OK is false, Message holds the
// user-safe explanation and Value is the zero value.
type Result[T any] struct {
	OK      bool
	Value   T
	Message string
}

func succeed[T any](v T) Result[T] {
	return Result[T]{OK: true, Value: v}
}

// fail translates err into a failed Result. It is the single point where
// internal error kinds become user-facing text; anything outside the known
// taxonomy is logged and reported as MsgUnexpected.
func fail[T any](ctx context.Context, log *slog.Logger, err error) Result[T] {
	var (
		verr *errs.ValidationError
		serr *errs.StorageError
	)
	switch {
	case errors.As(err, &verr):
		return Result[T]{Message: "Invalid input: " + strings.Join(verr.FieldNames(), ", ") + "."}
	case errors.Is(err, errs.ErrUnauthorized):
		return Result[T]{Message: MsgSignInRequired}
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrForbidden):
		return Result[T]{Message: MsgPermissionDenied}
	case errors.Is(err, errs.ErrPermissionDenied):
		return Result[T]{Message: MsgPlanLimit}
	case errors.Is(err, errs.ErrRateLimited):
		return Result[T]{Message: MsgRateLimited}
	case errors.As(err, &serr):
		log.ErrorContext(ctx, "storage failure", "op", serr.Op, "error", serr.Err)
		return Result[T]{Message: MsgUnexpected}
	default:
		log.ErrorContext(ctx, "unexpected error", "error", err)
		return Result[T]{Message: MsgUnexpected}
	}
}

// asInputError converts an ozzo validation result into a ValidationError so
// fail can enumerate the offending fields.
func asInputError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return &errs.ValidationError{Fields: map[string]string{"input": err.Error()}}
	}
	fields := make(map[string]string, len(verrs))
	for name, ferr := range verrs {
		fields[name] = ferr.Error()
	}
	return &errs.ValidationError{Fields: fields}
}
