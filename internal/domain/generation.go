package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Source text length limits for a generation attempt, counted in
// characters rather than bytes.
const (
	// SourceTextMinLen is the minimum source text length accepted for generation.
	SourceTextMinLen = 1000

	// SourceTextMaxLen is the maximum source text length accepted for generation.
	SourceTextMaxLen = 10000
)

// Generation-specific validation errors
var (
	// ErrGenerationIDEmpty is returned when a generation ID is empty or nil.
	ErrGenerationIDEmpty = errors.New("generation ID cannot be empty")

	// ErrGenerationUserIDEmpty is returned when a generation's user ID is empty or nil.
	ErrGenerationUserIDEmpty = errors.New("generation user ID cannot be empty")

	// ErrGenerationModelEmpty is returned when a generation's model identifier is empty.
	ErrGenerationModelEmpty = errors.New("generation model cannot be empty")

	// ErrGenerationHashEmpty is returned when a generation's source text hash is empty.
	ErrGenerationHashEmpty = errors.New("generation source text hash cannot be empty")

	// ErrGenerationSourceLengthInvalid is returned when the recorded source text
	// length is outside the accepted range.
	ErrGenerationSourceLengthInvalid = errors.New(
		"generation source text length must be between 1000 and 10000 characters",
	)
)

// Generation records a successful generation attempt: which user asked,
// which model answered, how many proposals came back, and a content hash
// of the source text for deduplication and analytics.
//
// AcceptedUneditedCount and AcceptedEditedCount stay nil until the user
// reviews the proposals; the review flow updates them later.
type Generation struct {
	ID                    uuid.UUID  `json:"id"`
	UserID                uuid.UUID  `json:"user_id"`
	Model                 string     `json:"model"`
	GeneratedCount        int        `json:"generated_count"`
	AcceptedUneditedCount *int       `json:"accepted_unedited_count"`
	AcceptedEditedCount   *int       `json:"accepted_edited_count"`
	SourceTextHash        string     `json:"source_text_hash"`
	SourceTextLength      int        `json:"source_text_length"`
	GenerationDuration    int64      `json:"generation_duration"` // milliseconds
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// NewGeneration creates a new Generation for a completed model call.
// It generates a new UUID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewGeneration(
	userID uuid.UUID,
	model string,
	generatedCount int,
	sourceTextHash string,
	sourceTextLength int,
	durationMillis int64,
) (*Generation, error) {
	now := time.Now().UTC()
	gen := &Generation{
		ID:                 uuid.New(),
		UserID:             userID,
		Model:              model,
		GeneratedCount:     generatedCount,
		SourceTextHash:     sourceTextHash,
		SourceTextLength:   sourceTextLength,
		GenerationDuration: durationMillis,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := gen.Validate(); err != nil {
		return nil, err
	}

	return gen, nil
}

// Validate checks if the Generation has valid data.
func (g *Generation) Validate() error {
	if g.ID == uuid.Nil {
		return ErrGenerationIDEmpty
	}

	if g.UserID == uuid.Nil {
		return ErrGenerationUserIDEmpty
	}

	if g.Model == "" {
		return ErrGenerationModelEmpty
	}

	if g.SourceTextHash == "" {
		return ErrGenerationHashEmpty
	}

	if g.SourceTextLength < SourceTextMinLen || g.SourceTextLength > SourceTextMaxLen {
		return ErrGenerationSourceLengthInvalid
	}

	return nil
}

// GenerationErrorLog records a generation attempt that failed after input
// validation. Rows are append-only: the application never updates or
// deletes them.
type GenerationErrorLog struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Model            string    `json:"model"`
	SourceTextHash   string    `json:"source_text_hash"`
	SourceTextLength int       `json:"source_text_length"`
	ErrorCode        string    `json:"error_code"`
	ErrorMessage     string    `json:"error_message"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewGenerationErrorLog creates a new error log entry for a failed attempt.
// Unlike the other constructors it does not validate length bounds: the
// log must capture whatever the failed attempt actually carried.
func NewGenerationErrorLog(
	userID uuid.UUID,
	model string,
	sourceTextHash string,
	sourceTextLength int,
	errorCode string,
	errorMessage string,
) *GenerationErrorLog {
	return &GenerationErrorLog{
		ID:               uuid.New(),
		UserID:           userID,
		Model:            model,
		SourceTextHash:   sourceTextHash,
		SourceTextLength: sourceTextLength,
		ErrorCode:        errorCode,
		ErrorMessage:     errorMessage,
		CreatedAt:        time.Now().UTC(),
	}
}
