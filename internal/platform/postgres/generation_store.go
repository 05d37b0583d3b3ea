// Package postgres implements the store interfaces using a PostgreSQL
// database as the storage backend.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tenexcards/tenex-api/internal/domain"
	"github.com/tenexcards/tenex-api/internal/platform/logger"
	"github.com/tenexcards/tenex-api/internal/store"
)

// PostgreSQL error codes
const (
	pgForeignKeyViolationCode = "23503"
	pgCheckViolationCode      = "23514"
)

// PostgresGenerationStore implements the store.GenerationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationStore creates a new PostgreSQL implementation of the
// GenerationStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresGenerationStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_store")),
	}
}

// Ensure PostgresGenerationStore implements store.GenerationStore interface
var _ store.GenerationStore = (*PostgresGenerationStore)(nil)

// Create implements store.GenerationStore.Create
// It saves a new generation record to the database, handling domain validation.
// Returns store.ErrInvalidEntity if a constraint is violated.
func (s *PostgresGenerationStore) Create(ctx context.Context, generation *domain.Generation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := generation.Validate(); err != nil {
		log.Warn("generation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("generation_id", generation.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO generations (
			id, user_id, model, generated_count,
			accepted_unedited_count, accepted_edited_count,
			source_text_hash, source_text_length, generation_duration_ms,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		generation.ID,
		generation.UserID,
		generation.Model,
		generation.GeneratedCount,
		generation.AcceptedUneditedCount,
		generation.AcceptedEditedCount,
		generation.SourceTextHash,
		generation.SourceTextLength,
		generation.GenerationDuration,
		generation.CreatedAt,
		generation.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgForeignKeyViolationCode:
				log.Warn("foreign key violation during generation creation",
					slog.String("error", err.Error()),
					slog.String("generation_id", generation.ID.String()),
					slog.String("user_id", generation.UserID.String()))
				return fmt.Errorf("%w: user with ID %s not found",
					store.ErrInvalidEntity, generation.UserID)
			case pgCheckViolationCode:
				log.Warn("check constraint violation during generation creation",
					slog.String("error", err.Error()),
					slog.String("generation_id", generation.ID.String()))
				return fmt.Errorf("%w: %s", store.ErrInvalidEntity, pgErr.ConstraintName)
			}
		}

		log.Error("failed to create generation",
			slog.String("error", err.Error()),
			slog.String("generation_id", generation.ID.String()),
			slog.String("user_id", generation.UserID.String()))
		return err
	}

	log.Info("generation created successfully",
		slog.String("generation_id", generation.ID.String()),
		slog.String("user_id", generation.UserID.String()),
		slog.Int("generated_count", generation.GeneratedCount))
	return nil
}

// GetByID implements store.GenerationStore.GetByID
// It retrieves a generation by its unique ID, scoped to its owner.
// Returns store.ErrGenerationNotFound if no matching row exists.
func (s *PostgresGenerationStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Generation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, model, generated_count,
		       accepted_unedited_count, accepted_edited_count,
		       source_text_hash, source_text_length, generation_duration_ms,
		       created_at, updated_at
		FROM generations
		WHERE id = $1 AND user_id = $2
	`

	var gen domain.Generation
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&gen.ID,
		&gen.UserID,
		&gen.Model,
		&gen.GeneratedCount,
		&gen.AcceptedUneditedCount,
		&gen.AcceptedEditedCount,
		&gen.SourceTextHash,
		&gen.SourceTextLength,
		&gen.GenerationDuration,
		&gen.CreatedAt,
		&gen.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("generation not found",
				slog.String("generation_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrGenerationNotFound
		}
		log.Error("failed to get generation by ID",
			slog.String("error", err.Error()),
			slog.String("generation_id", id.String()))
		return nil, err
	}

	return &gen, nil
}
