package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tenexcards/tenex-api/internal/domain"
	"github.com/tenexcards/tenex-api/internal/platform/logger"
	"github.com/tenexcards/tenex-api/internal/store"
)

// NewFlashcardData carries the caller-supplied fields for one flashcard
// to be created. Ownership is not part of this value: the service stamps
// every card with the authenticated user's id.
type NewFlashcardData struct {
	Front        string
	Back         string
	Source       domain.FlashcardSource
	GenerationID *uuid.UUID
}

// FlashcardService persists batches of user-approved flashcards.
type FlashcardService interface {
	// CreateFlashcards persists the batch in a single transaction and
	// returns the stored rows with ids and timestamps.
	//
	// The input must be non-empty (ErrEmptyFlashcardBatch otherwise).
	// Each card's owner is forced to userID regardless of any value the
	// request carried, so a client cannot write into another user's
	// collection. A referenced generation must exist and belong to
	// userID; otherwise the batch fails with store.ErrGenerationNotFound.
	CreateFlashcards(ctx context.Context, userID uuid.UUID, cards []NewFlashcardData) ([]*domain.Flashcard, error)
}

// flashcardServiceImpl implements the FlashcardService interface.
type flashcardServiceImpl struct {
	db          *sql.DB
	flashcards  store.FlashcardStore
	generations store.GenerationStore
	logger      *slog.Logger

	// runInTx is store.RunInTransaction, injectable for tests.
	runInTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewFlashcardService creates a FlashcardService.
// db is needed to open the transaction the batch insert runs in;
// generations backs the ownership check on referenced generations.
func NewFlashcardService(
	db *sql.DB,
	flashcards store.FlashcardStore,
	generations store.GenerationStore,
	log *slog.Logger,
) FlashcardService {
	if log == nil {
		log = slog.Default()
	}
	return &flashcardServiceImpl{
		db:          db,
		flashcards:  flashcards,
		generations: generations,
		logger:      log.With(slog.String("component", "flashcard_service")),
		runInTx:     store.RunInTransaction,
	}
}

// CreateFlashcards implements FlashcardService.CreateFlashcards.
func (s *flashcardServiceImpl) CreateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	cards []NewFlashcardData,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil, ErrEmptyFlashcardBatch
	}

	toInsert := make([]*domain.Flashcard, 0, len(cards))
	for _, data := range cards {
		card, err := domain.NewFlashcard(userID, data.Front, data.Back, data.Source, data.GenerationID)
		if err != nil {
			// Domain validation errors map to 400 at the API layer.
			return nil, err
		}
		toInsert = append(toInsert, card)
	}

	if err := s.verifyGenerations(ctx, userID, toInsert); err != nil {
		return nil, err
	}

	var persisted []*domain.Flashcard
	err := s.runInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.flashcards.WithTx(tx)
		var txErr error
		persisted, txErr = txStore.CreateMultiple(ctx, toInsert)
		return txErr
	})
	if err != nil {
		log.Error("failed to persist flashcard batch",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("count", len(cards)))
		return nil, err
	}

	log.Info("flashcard batch persisted",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(persisted)))
	return persisted, nil
}

// verifyGenerations checks that every generation referenced by an
// AI-sourced card exists and is owned by userID. The lookup is scoped
// by owner, so a reference to another user's generation reads the same
// as a missing one: store.ErrGenerationNotFound.
func (s *flashcardServiceImpl) verifyGenerations(
	ctx context.Context,
	userID uuid.UUID,
	cards []*domain.Flashcard,
) error {
	checked := make(map[uuid.UUID]bool)
	for _, card := range cards {
		if card.GenerationID == nil || checked[*card.GenerationID] {
			continue
		}
		if _, err := s.generations.GetByID(ctx, *card.GenerationID, userID); err != nil {
			return err
		}
		checked[*card.GenerationID] = true
	}
	return nil
}
