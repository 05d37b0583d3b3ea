package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenexcards/tenex-api/internal/domain"
)

func TestNewGeneration(t *testing.T) {
	userID := uuid.New()

	t.Run("valid generation", func(t *testing.T) {
		gen, err := domain.NewGeneration(userID, "openai/gpt-4o-mini", 5, "abc123", 1500, 820)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, gen.ID)
		assert.Equal(t, userID, gen.UserID)
		assert.Equal(t, 5, gen.GeneratedCount)
		assert.Nil(t, gen.AcceptedUneditedCount)
		assert.Nil(t, gen.AcceptedEditedCount)
		assert.Equal(t, int64(820), gen.GenerationDuration)
		assert.False(t, gen.CreatedAt.IsZero())
	})

	tests := []struct {
		name    string
		userID  uuid.UUID
		model   string
		hash    string
		length  int
		wantErr error
	}{
		{
			name:   "missing user ID",
			userID: uuid.Nil, model: "m", hash: "h", length: 1500,
			wantErr: domain.ErrGenerationUserIDEmpty,
		},
		{
			name:   "missing model",
			userID: userID, model: "", hash: "h", length: 1500,
			wantErr: domain.ErrGenerationModelEmpty,
		},
		{
			name:   "missing hash",
			userID: userID, model: "m", hash: "", length: 1500,
			wantErr: domain.ErrGenerationHashEmpty,
		},
		{
			name:   "source text too short",
			userID: userID, model: "m", hash: "h", length: domain.SourceTextMinLen - 1,
			wantErr: domain.ErrGenerationSourceLengthInvalid,
		},
		{
			name:   "source text too long",
			userID: userID, model: "m", hash: "h", length: domain.SourceTextMaxLen + 1,
			wantErr: domain.ErrGenerationSourceLengthInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewGeneration(tt.userID, tt.model, 5, tt.hash, tt.length, 100)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("length boundaries are accepted", func(t *testing.T) {
		_, err := domain.NewGeneration(userID, "m", 5, "h", domain.SourceTextMinLen, 100)
		assert.NoError(t, err)

		_, err = domain.NewGeneration(userID, "m", 5, "h", domain.SourceTextMaxLen, 100)
		assert.NoError(t, err)
	})
}

func TestNewGenerationErrorLog(t *testing.T) {
	userID := uuid.New()

	entry := domain.NewGenerationErrorLog(userID, "openai/gpt-4o-mini", "hash", 2000, "TIMEOUT_ERROR", "request timed out")
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, "TIMEOUT_ERROR", entry.ErrorCode)
	assert.Equal(t, "request timed out", entry.ErrorMessage)
	assert.False(t, entry.CreatedAt.IsZero())

	// Out-of-range lengths still produce a log entry; the log records
	// what the failed attempt carried.
	entry = domain.NewGenerationErrorLog(userID, "m", "hash", 50, "VALIDATION", "too short")
	assert.Equal(t, 50, entry.SourceTextLength)
}
