package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Limits on flashcard content.
const (
	// FlashcardFrontMaxLen is the maximum length of a flashcard's front side.
	FlashcardFrontMaxLen = 200

	// FlashcardBackMaxLen is the maximum length of a flashcard's back side.
	FlashcardBackMaxLen = 500
)

// FlashcardSource identifies how a flashcard came to exist.
type FlashcardSource string

// Valid flashcard sources.
const (
	// SourceAIFull marks a proposal accepted exactly as the model produced it.
	SourceAIFull FlashcardSource = "ai-full"

	// SourceAIEdited marks a proposal the user edited before accepting.
	SourceAIEdited FlashcardSource = "ai-edited"

	// SourceManual marks a flashcard the user wrote from scratch.
	SourceManual FlashcardSource = "manual"
)

// IsValid reports whether s is one of the known flashcard sources.
func (s FlashcardSource) IsValid() bool {
	switch s {
	case SourceAIFull, SourceAIEdited, SourceManual:
		return true
	}
	return false
}

// Flashcard-specific validation errors
var (
	// ErrFlashcardIDEmpty is returned when a flashcard ID is empty or nil.
	ErrFlashcardIDEmpty = errors.New("flashcard ID cannot be empty")

	// ErrFlashcardUserIDEmpty is returned when a flashcard's user ID is empty or nil.
	ErrFlashcardUserIDEmpty = errors.New("flashcard user ID cannot be empty")

	// ErrFlashcardFrontEmpty is returned when a flashcard's front side is empty.
	ErrFlashcardFrontEmpty = errors.New("flashcard front cannot be empty")

	// ErrFlashcardFrontTooLong is returned when a flashcard's front side exceeds 200 characters.
	ErrFlashcardFrontTooLong = errors.New("flashcard front cannot exceed 200 characters")

	// ErrFlashcardBackEmpty is returned when a flashcard's back side is empty.
	ErrFlashcardBackEmpty = errors.New("flashcard back cannot be empty")

	// ErrFlashcardBackTooLong is returned when a flashcard's back side exceeds 500 characters.
	ErrFlashcardBackTooLong = errors.New("flashcard back cannot exceed 500 characters")

	// ErrFlashcardSourceInvalid is returned when a flashcard's source is not
	// one of ai-full, ai-edited, manual.
	ErrFlashcardSourceInvalid = errors.New("flashcard source must be one of: ai-full, ai-edited, manual")

	// ErrFlashcardGenerationIDMismatch is returned when the generation_id does
	// not agree with the source: manual cards must not reference a generation,
	// AI-sourced cards must reference one.
	ErrFlashcardGenerationIDMismatch = errors.New(
		"generation ID must be null for manual flashcards and non-null for AI-sourced flashcards",
	)
)

// Flashcard represents a persisted flashcard owned by a single user.
// AI-sourced flashcards reference the generation attempt that produced them.
type Flashcard struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	GenerationID *uuid.UUID      `json:"generation_id"`
	Front        string          `json:"front"`
	Back         string          `json:"back"`
	Source       FlashcardSource `json:"source"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewFlashcard creates a new Flashcard with the given owner, content, source,
// and optional generation reference. It generates a new UUID for the flashcard
// ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewFlashcard(
	userID uuid.UUID,
	front, back string,
	source FlashcardSource,
	generationID *uuid.UUID,
) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		ID:           uuid.New(),
		UserID:       userID,
		GenerationID: generationID,
		Front:        front,
		Back:         back,
		Source:       source,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation, including the
// source/generation_id cross-field invariant.
func (f *Flashcard) Validate() error {
	if f.ID == uuid.Nil {
		return ErrFlashcardIDEmpty
	}

	if f.UserID == uuid.Nil {
		return ErrFlashcardUserIDEmpty
	}

	if f.Front == "" {
		return ErrFlashcardFrontEmpty
	}

	if utf8.RuneCountInString(f.Front) > FlashcardFrontMaxLen {
		return ErrFlashcardFrontTooLong
	}

	if f.Back == "" {
		return ErrFlashcardBackEmpty
	}

	if utf8.RuneCountInString(f.Back) > FlashcardBackMaxLen {
		return ErrFlashcardBackTooLong
	}

	if !f.Source.IsValid() {
		return ErrFlashcardSourceInvalid
	}

	// manual ⟺ no generation reference
	if (f.Source == SourceManual) != (f.GenerationID == nil) {
		return ErrFlashcardGenerationIDMismatch
	}

	return nil
}

// FlashcardProposal is a candidate flashcard produced by the remote model.
// Proposals are returned to the caller for review and are never persisted
// directly; accepting one creates a Flashcard.
type FlashcardProposal struct {
	Front  string          `json:"front"`
	Back   string          `json:"back"`
	Source FlashcardSource `json:"source"`
}
