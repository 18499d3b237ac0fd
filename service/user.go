package service

import (
	"context"

	"github.com/GuRuGuMaWaRu/jobprep/auth"
	"github.com/GuRuGuMaWaRu/jobprep/dal"
	"github.com/GuRuGuMaWaRu/jobprep/errs"
	"github.com/GuRuGuMaWaRu/jobprep/model"
)

// UserService exposes operations on the calling user's own record. There
// is no cross-user lookup; the identity in the context is the only user
// this layer will touch.
type UserService struct {
	dal *dal.UserDAL
}

// NewUserService creates a UserService over the given DAL.
func NewUserService(d *dal.UserDAL) *UserService {
	return &UserService{dal: d}
}

// Get returns the caller's user record or errs.ErrNotFound.
func (s *UserService) Get(ctx context.Context) (model.User, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.User{}, err
	}
	rec, ok, err := s.dal.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	return rec, nil
}

// Upsert creates or refreshes the caller's record. The draft's ID is
// overwritten with the authenticated identity so a caller can never write
// another user's row.
func (s *UserService) Upsert(ctx context.Context, draft model.UserDraft) (model.User, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return model.User{}, err
	}
	draft.ID = userID
	return s.dal.Upsert(ctx, draft)
}

// Remove deletes the caller's record and returns the removed id.
func (s *UserService) Remove(ctx context.Context) (string, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return "", err
	}
	if err := s.dal.Remove(ctx, userID); err != nil {
		return "", err
	}
	return userID, nil
}
