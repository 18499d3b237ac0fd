// Package service is the business-rule layer: one module per entity kind.
// Every operation establishes the caller's identity first; ownership
// failures are merged into errs.ErrNotFound so existence never leaks, and
// errs.ErrForbidden is used only where existence is already known (a
// located row failing its ownership check on a mutation).
//
// StorageErrors from the DAL pass through unchanged; this layer adds only
// the kinds it is responsible for.
package service

import (
	"context"
	"errors"

	"github.com/GuRuGuMaWaRu/jobprep/model"
)

// ErrInterviewNotCompleted is returned when feedback is requested for an
// interview that has no recorded session yet.
var ErrInterviewNotCompleted = errors.New("interview has no recorded session")

// ErrGeneratorUnavailable is returned by generator-backed operations when
// no generator was wired in.
var ErrGeneratorUnavailable = errors.New("generator not configured")

// FeedbackRequest is the input to a FeedbackGenerator.
type FeedbackRequest struct {
	HumeChatID string
	JobInfo    model.JobInfo
	UserName   string
}

// FeedbackGenerator produces interview feedback text. The generative AI
// integration behind it is opaque to this core.
type FeedbackGenerator interface {
	Generate(ctx context.Context, req FeedbackRequest) (string, error)
}

// QuestionRequest is the input to a QuestionGenerator.
type QuestionRequest struct {
	JobInfo    model.JobInfo
	Difficulty model.QuestionDifficulty
}

// QuestionGenerator produces practice question text, equally opaque.
type QuestionGenerator interface {
	Generate(ctx context.Context, req QuestionRequest) (string, error)
}

// FeedbackFunc adapts a function to the FeedbackGenerator interface.
type FeedbackFunc func(ctx context.Context, req FeedbackRequest) (string, error)

func (f FeedbackFunc) Generate(ctx context.Context, req FeedbackRequest) (string, error) {
	return f(ctx, req)
}

// QuestionFunc adapts a function to the QuestionGenerator interface.
type QuestionFunc func(ctx context.Context, req QuestionRequest) (string, error)

func (f QuestionFunc) Generate(ctx context.Context, req QuestionRequest) (string, error) {
	return f(ctx, req)
}
