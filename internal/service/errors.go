package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the API layer as 400-equivalent failures.
var (
	// ErrSourceTextLength indicates the generation input is outside the
	// accepted 1000-10000 character range.
	ErrSourceTextLength = errors.New("source text must be between 1000 and 10000 characters")

	// ErrEmptyFlashcardBatch indicates a flashcard create request carried
	// no flashcards.
	ErrEmptyFlashcardBatch = errors.New("at least one flashcard is required")
)

// GenerationError wraps a failed generation attempt. It preserves the
// internal classification code for logs while carrying the user-facing
// message the API returns for known remote-service failure classes.
// The generation service is the single place that produces these.
type GenerationError struct {
	// Code is the machine-readable classification (e.g. "TIMEOUT_ERROR",
	// "DATABASE_ERROR"), kept for logging and analytics.
	Code string

	// UserMessage is safe to show to the caller.
	UserMessage string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Code, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *GenerationError) Unwrap() error {
	return e.Err
}
