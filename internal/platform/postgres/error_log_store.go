package postgres

import (
	"context"
	"log/slog"

	"github.com/tenexcards/tenex-api/internal/domain"
	"github.com/tenexcards/tenex-api/internal/platform/logger"
	"github.com/tenexcards/tenex-api/internal/store"
)

// PostgresGenerationErrorLogStore implements the store.GenerationErrorLogStore
// interface. The table is append-only, so this store only inserts.
type PostgresGenerationErrorLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationErrorLogStore creates a new PostgreSQL implementation
// of the GenerationErrorLogStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresGenerationErrorLogStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationErrorLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationErrorLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_error_log_store")),
	}
}

// Ensure the interface is implemented
var _ store.GenerationErrorLogStore = (*PostgresGenerationErrorLogStore)(nil)

// Create implements store.GenerationErrorLogStore.Create
// It appends a new error log entry. Callers treat failures here as
// best-effort; this method still reports them so the caller can decide.
func (s *PostgresGenerationErrorLogStore) Create(ctx context.Context, entry *domain.GenerationErrorLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO generation_error_logs (
			id, user_id, model, source_text_hash, source_text_length,
			error_code, error_message, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.Model,
		entry.SourceTextHash,
		entry.SourceTextLength,
		entry.ErrorCode,
		entry.ErrorMessage,
		entry.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create generation error log",
			slog.String("error", err.Error()),
			slog.String("user_id", entry.UserID.String()),
			slog.String("error_code", entry.ErrorCode))
		return err
	}

	log.Debug("generation error log created",
		slog.String("user_id", entry.UserID.String()),
		slog.String("error_code", entry.ErrorCode))
	return nil
}
