package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tenexcards/tenex-api/internal/domain"
	"github.com/tenexcards/tenex-api/internal/platform/logger"
	"github.com/tenexcards/tenex-api/internal/store"
)

// flashcardColumnCount is the number of bound parameters per inserted row.
const flashcardColumnCount = 8

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the
// FlashcardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// WithTx implements store.FlashcardStore.WithTx
// It returns a new FlashcardStore bound to the provided transaction.
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

// CreateMultiple implements store.FlashcardStore.CreateMultiple
// It saves all flashcards in a single multi-row INSERT so the write is
// atomic within the caller's transaction, and returns the persisted rows.
// Returns store.ErrNoRowsAffected if the insert reports success but no
// rows come back.
func (s *PostgresFlashcardStore) CreateMultiple(
	ctx context.Context,
	flashcards []*domain.Flashcard,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(flashcards) == 0 {
		return nil, fmt.Errorf("%w: no flashcards to insert", store.ErrInvalidEntity)
	}

	for _, card := range flashcards {
		if err := card.Validate(); err != nil {
			log.Warn("flashcard validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", card.ID.String()))
			return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	var query strings.Builder
	query.WriteString(`
		INSERT INTO flashcards (id, user_id, generation_id, front, back, source, created_at, updated_at)
		VALUES `)

	args := make([]any, 0, len(flashcards)*flashcardColumnCount)
	for i, card := range flashcards {
		if i > 0 {
			query.WriteString(", ")
		}
		base := i * flashcardColumnCount
		query.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		args = append(args,
			card.ID,
			card.UserID,
			card.GenerationID,
			card.Front,
			card.Back,
			card.Source,
			card.CreatedAt,
			card.UpdatedAt,
		)
	}

	query.WriteString(`
		RETURNING id, user_id, generation_id, front, back, source, created_at, updated_at`)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgForeignKeyViolationCode:
				log.Warn("foreign key violation during flashcard batch create",
					slog.String("error", err.Error()))
				return nil, fmt.Errorf("%w: referenced generation not found",
					store.ErrInvalidEntity)
			case pgCheckViolationCode:
				log.Warn("check constraint violation during flashcard batch create",
					slog.String("error", err.Error()),
					slog.String("constraint", pgErr.ConstraintName))
				return nil, fmt.Errorf("%w: %s", store.ErrInvalidEntity, pgErr.ConstraintName)
			}
		}

		log.Error("failed to batch create flashcards",
			slog.String("error", err.Error()),
			slog.Int("count", len(flashcards)))
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	persisted := make([]*domain.Flashcard, 0, len(flashcards))
	for rows.Next() {
		var card domain.Flashcard
		var source string
		if err := rows.Scan(
			&card.ID,
			&card.UserID,
			&card.GenerationID,
			&card.Front,
			&card.Back,
			&source,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			log.Error("failed to scan persisted flashcard",
				slog.String("error", err.Error()))
			return nil, err
		}
		card.Source = domain.FlashcardSource(source)
		persisted = append(persisted, &card)
	}

	if err := rows.Err(); err != nil {
		log.Error("row iteration failed during flashcard batch create",
			slog.String("error", err.Error()))
		return nil, err
	}

	if len(persisted) == 0 {
		log.Error("flashcard batch insert returned no rows without an error",
			slog.Int("expected", len(flashcards)))
		return nil, fmt.Errorf("%w: expected %d flashcards", store.ErrNoRowsAffected, len(flashcards))
	}

	log.Info("flashcards created successfully",
		slog.Int("count", len(persisted)),
		slog.String("user_id", persisted[0].UserID.String()))
	return persisted, nil
}
