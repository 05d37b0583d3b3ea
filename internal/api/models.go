package api

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/tenexcards/tenex-api/internal/domain"
)

// Common request/response structures

// GenerateFlashcardsRequest defines the payload for the generation endpoint.
type GenerateFlashcardsRequest struct {
	SourceText string `json:"source_text" validate:"required,min=1000,max=10000"`
}

// FlashcardProposalResponse is one AI-proposed flashcard awaiting user review.
type FlashcardProposalResponse struct {
	Front  string `json:"front"`
	Back   string `json:"back"`
	Source string `json:"source"`
}

// GenerateFlashcardsResponse defines the successful response for the
// generation endpoint.
type GenerateFlashcardsResponse struct {
	GenerationID   uuid.UUID                   `json:"generation_id"`
	Proposals      []FlashcardProposalResponse `json:"flashcards_proposals"`
	GeneratedCount int                         `json:"generated_count"`
}

// CreateFlashcardInput is one flashcard in a batch-create request.
//
// GenerationID is required when source is ai-full or ai-edited and must
// be absent for manual cards; the pairing is enforced by the struct-level
// validation registered in RegisterValidations.
type CreateFlashcardInput struct {
	Front        string     `json:"front"         validate:"required,max=200"`
	Back         string     `json:"back"          validate:"required,max=500"`
	Source       string     `json:"source"        validate:"required,oneof=ai-full ai-edited manual"`
	GenerationID *uuid.UUID `json:"generation_id"`
}

// CreateFlashcardsRequest defines the payload for the flashcard
// batch-create endpoint.
type CreateFlashcardsRequest struct {
	Flashcards []CreateFlashcardInput `json:"flashcards" validate:"required,min=1,dive"`
}

// FlashcardResponse defines the representation of a stored flashcard.
type FlashcardResponse struct {
	ID           uuid.UUID  `json:"id"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Source       string     `json:"source"`
	GenerationID *uuid.UUID `json:"generation_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateFlashcardsResponse defines the successful response for the
// flashcard batch-create endpoint.
type CreateFlashcardsResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
}

// RegisterValidations installs the struct-level validations the request
// models need on the given validator. Call once at startup.
func RegisterValidations(v *validator.Validate) {
	v.RegisterStructValidation(validateCreateFlashcardInput, CreateFlashcardInput{})
}

// validateCreateFlashcardInput enforces that ai-sourced cards carry a
// generation_id and manual cards do not.
func validateCreateFlashcardInput(sl validator.StructLevel) {
	input := sl.Current().Interface().(CreateFlashcardInput)

	manual := input.Source == string(domain.SourceManual)
	hasGeneration := input.GenerationID != nil

	if manual && hasGeneration {
		sl.ReportError(input.GenerationID, "generation_id", "GenerationID", "excluded_for_manual", "")
	}
	if !manual && !hasGeneration {
		sl.ReportError(input.GenerationID, "generation_id", "GenerationID", "required_for_ai", "")
	}
}
