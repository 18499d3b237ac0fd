// Package auth carries the caller's identity through the context. The
// identity provider itself (sessions, tokens) lives outside this core; by
// the time a request reaches the action layer the provider has either
// attached a user id or left the context anonymous.
package auth

import (
	"context"

	"github.com/GuRuGuMaWaRu/jobprep/errs"
)

// contextKey is unexported so no other package can forge the value.
type contextKey struct{}

// WithUser returns a context identifying the caller as userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the identified caller, if any.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// RequireUser returns the identified caller or errs.ErrUnauthorized.
func RequireUser(ctx context.Context) (string, error) {
	id, ok := UserID(ctx)
	if !ok {
		return "", errs.ErrUnauthorized
	}
	return id, nil
}
