package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenexcards/tenex-api/internal/domain"
	"github.com/tenexcards/tenex-api/internal/store"
)

// newTestFlashcardService wires the fake stores with a pass-through
// transaction runner so no real database is needed.
func newTestFlashcardService(flashcards *fakeFlashcardStore, generations *fakeGenerationStore) *flashcardServiceImpl {
	return &flashcardServiceImpl{
		flashcards:  flashcards,
		generations: generations,
		logger:      slog.Default(),
		runInTx: func(ctx context.Context, _ *sql.DB, fn store.TxFn) error {
			return fn(ctx, nil)
		},
	}
}

// ownedGeneration seeds a generation store with a generation belonging
// to userID and returns its id.
func ownedGeneration(generations *fakeGenerationStore, userID uuid.UUID) uuid.UUID {
	gen := &domain.Generation{ID: uuid.New(), UserID: userID}
	if generations.byID == nil {
		generations.byID = make(map[uuid.UUID]*domain.Generation)
	}
	generations.byID[gen.ID] = gen
	return gen.ID
}

func TestCreateFlashcardsSuccess(t *testing.T) {
	t.Parallel()

	flashcards := &fakeFlashcardStore{}
	generations := &fakeGenerationStore{}
	svc := newTestFlashcardService(flashcards, generations)

	userID := uuid.New()
	generationID := ownedGeneration(generations, userID)
	cards := []NewFlashcardData{
		{Front: "What is a goroutine?", Back: "A lightweight thread.", Source: domain.SourceAIFull, GenerationID: &generationID},
		{Front: "What is a channel?", Back: "A typed conduit.", Source: domain.SourceAIEdited, GenerationID: &generationID},
		{Front: "What is an interface?", Back: "A method set contract.", Source: domain.SourceManual},
	}

	persisted, err := svc.CreateFlashcards(context.Background(), userID, cards)
	require.NoError(t, err)
	require.Len(t, persisted, 3)

	// The batch reached the store inside the transaction.
	require.Len(t, flashcards.received, 3)
	for i, card := range persisted {
		assert.Equal(t, userID, card.UserID)
		assert.Equal(t, cards[i].Front, card.Front)
		assert.Equal(t, cards[i].Back, card.Back)
		assert.Equal(t, cards[i].Source, card.Source)
		assert.NotEqual(t, uuid.Nil, card.ID)
	}
}

func TestCreateFlashcardsEmptyBatch(t *testing.T) {
	t.Parallel()

	flashcards := &fakeFlashcardStore{}
	svc := newTestFlashcardService(flashcards, &fakeGenerationStore{})

	tests := []struct {
		name  string
		cards []NewFlashcardData
	}{
		{name: "nil slice", cards: nil},
		{name: "empty slice", cards: []NewFlashcardData{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			persisted, err := svc.CreateFlashcards(context.Background(), uuid.New(), tc.cards)
			assert.ErrorIs(t, err, ErrEmptyFlashcardBatch)
			assert.Nil(t, persisted)
			assert.Nil(t, flashcards.received)
		})
	}
}

func TestCreateFlashcardsOwnerIsForced(t *testing.T) {
	t.Parallel()

	flashcards := &fakeFlashcardStore{}
	svc := newTestFlashcardService(flashcards, &fakeGenerationStore{})

	userID := uuid.New()
	cards := []NewFlashcardData{
		{Front: "Q", Back: "A", Source: domain.SourceManual},
	}

	persisted, err := svc.CreateFlashcards(context.Background(), userID, cards)
	require.NoError(t, err)
	require.Len(t, persisted, 1)

	// Ownership comes from the authenticated user, never the payload.
	assert.Equal(t, userID, persisted[0].UserID)
}

func TestCreateFlashcardsDomainValidation(t *testing.T) {
	t.Parallel()

	generationID := uuid.New()
	tests := []struct {
		name    string
		card    NewFlashcardData
		wantErr error
	}{
		{
			name:    "empty front",
			card:    NewFlashcardData{Front: "", Back: "A", Source: domain.SourceManual},
			wantErr: domain.ErrFlashcardFrontEmpty,
		},
		{
			name:    "invalid source",
			card:    NewFlashcardData{Front: "Q", Back: "A", Source: domain.FlashcardSource("bogus")},
			wantErr: domain.ErrFlashcardSourceInvalid,
		},
		{
			name:    "manual card with generation id",
			card:    NewFlashcardData{Front: "Q", Back: "A", Source: domain.SourceManual, GenerationID: &generationID},
			wantErr: domain.ErrFlashcardGenerationIDMismatch,
		},
		{
			name:    "ai card without generation id",
			card:    NewFlashcardData{Front: "Q", Back: "A", Source: domain.SourceAIFull},
			wantErr: domain.ErrFlashcardGenerationIDMismatch,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			flashcards := &fakeFlashcardStore{}
			svc := newTestFlashcardService(flashcards, &fakeGenerationStore{})

			persisted, err := svc.CreateFlashcards(context.Background(), uuid.New(), []NewFlashcardData{tc.card})
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, persisted)
			// Nothing reaches the store when any card is invalid.
			assert.Nil(t, flashcards.received)
		})
	}
}

func TestCreateFlashcardsStoreFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("insert failed")
	flashcards := &fakeFlashcardStore{createErr: storeErr}
	svc := newTestFlashcardService(flashcards, &fakeGenerationStore{})

	persisted, err := svc.CreateFlashcards(context.Background(), uuid.New(), []NewFlashcardData{
		{Front: "Q", Back: "A", Source: domain.SourceManual},
	})
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, persisted)
}

func TestCreateFlashcardsGenerationOwnership(t *testing.T) {
	t.Parallel()

	t.Run("unknown generation rejects the batch", func(t *testing.T) {
		t.Parallel()

		flashcards := &fakeFlashcardStore{}
		svc := newTestFlashcardService(flashcards, &fakeGenerationStore{})

		unknown := uuid.New()
		persisted, err := svc.CreateFlashcards(context.Background(), uuid.New(), []NewFlashcardData{
			{Front: "Q", Back: "A", Source: domain.SourceAIFull, GenerationID: &unknown},
		})
		assert.ErrorIs(t, err, store.ErrGenerationNotFound)
		assert.Nil(t, persisted)
		assert.Nil(t, flashcards.received)
	})

	t.Run("another user's generation reads as not found", func(t *testing.T) {
		t.Parallel()

		flashcards := &fakeFlashcardStore{}
		generations := &fakeGenerationStore{}
		svc := newTestFlashcardService(flashcards, generations)

		// Generation owned by someone else entirely.
		foreignID := ownedGeneration(generations, uuid.New())

		persisted, err := svc.CreateFlashcards(context.Background(), uuid.New(), []NewFlashcardData{
			{Front: "Q", Back: "A", Source: domain.SourceAIEdited, GenerationID: &foreignID},
		})
		assert.ErrorIs(t, err, store.ErrGenerationNotFound)
		assert.Nil(t, persisted)
		assert.Nil(t, flashcards.received)
	})

	t.Run("repeated references are checked once", func(t *testing.T) {
		t.Parallel()

		flashcards := &fakeFlashcardStore{}
		generations := &fakeGenerationStore{}
		svc := newTestFlashcardService(flashcards, generations)

		userID := uuid.New()
		generationID := ownedGeneration(generations, userID)

		persisted, err := svc.CreateFlashcards(context.Background(), userID, []NewFlashcardData{
			{Front: "Q1", Back: "A1", Source: domain.SourceAIFull, GenerationID: &generationID},
			{Front: "Q2", Back: "A2", Source: domain.SourceAIFull, GenerationID: &generationID},
			{Front: "Q3", Back: "A3", Source: domain.SourceManual},
		})
		require.NoError(t, err)
		assert.Len(t, persisted, 3)
		assert.Equal(t, []uuid.UUID{generationID}, generations.lookups)
	})
}
