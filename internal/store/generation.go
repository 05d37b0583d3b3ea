package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenexcards/tenex-api/internal/domain"
)

// GenerationStore defines the interface for generation-attempt persistence.
type GenerationStore interface {
	// Create saves a new generation record to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Generation if data is invalid.
	Create(ctx context.Context, generation *domain.Generation) error

	// GetByID retrieves a generation by its unique ID, scoped to its owner.
	// Returns ErrGenerationNotFound if the generation does not exist or
	// belongs to a different user.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Generation, error)
}

// GenerationErrorLogStore defines the interface for the append-only
// error-log table. Entries are written best-effort when a generation
// attempt fails; the application never updates or deletes them.
type GenerationErrorLogStore interface {
	// Create appends a new error log entry.
	Create(ctx context.Context, entry *domain.GenerationErrorLog) error
}
