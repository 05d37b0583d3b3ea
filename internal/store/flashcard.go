package store

import (
	"context"
	"database/sql"

	"github.com/tenexcards/tenex-api/internal/domain"
)

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// CreateMultiple saves multiple flashcards in a single batch insert and
	// returns the persisted rows (ids and timestamps included).
	//
	// The insert is all-or-nothing: run it within a transaction via WithTx
	// and store.RunInTransaction. A nil-error result with zero returned
	// rows is reported as ErrNoRowsAffected, never as success.
	//
	// All flashcards must be valid according to domain validation rules,
	// including the source/generation_id invariant.
	CreateMultiple(ctx context.Context, flashcards []*domain.Flashcard) ([]*domain.Flashcard, error)

	// WithTx returns a new FlashcardStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) FlashcardStore
}
