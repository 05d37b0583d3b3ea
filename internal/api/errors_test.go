package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tenexcards/tenex-api/internal/api"
	"github.com/tenexcards/tenex-api/internal/domain"
	"github.com/tenexcards/tenex-api/internal/service"
	"github.com/tenexcards/tenex-api/internal/service/auth"
	"github.com/tenexcards/tenex-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: http.StatusInternalServerError},
		{name: "invalid token", err: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{name: "expired token", err: auth.ErrExpiredToken, want: http.StatusUnauthorized},
		{name: "wrong token type", err: auth.ErrWrongTokenType, want: http.StatusUnauthorized},
		{name: "generation not found", err: store.ErrGenerationNotFound, want: http.StatusNotFound},
		{name: "flashcard not found", err: store.ErrFlashcardNotFound, want: http.StatusNotFound},
		{name: "source text length", err: service.ErrSourceTextLength, want: http.StatusBadRequest},
		{name: "empty batch", err: service.ErrEmptyFlashcardBatch, want: http.StatusBadRequest},
		{name: "invalid entity", err: store.ErrInvalidEntity, want: http.StatusBadRequest},
		{
			name: "domain validation",
			err:  domain.ErrFlashcardGenerationIDMismatch,
			want: http.StatusBadRequest,
		},
		{
			name: "wrapped domain validation",
			err:  fmt.Errorf("creating card: %w", domain.ErrFlashcardFrontTooLong),
			want: http.StatusBadRequest,
		},
		{
			name: "generation error",
			err:  &service.GenerationError{Code: "TIMEOUT_ERROR", UserMessage: "m", Err: assert.AnError},
			want: http.StatusInternalServerError,
		},
		{name: "unknown error", err: assert.AnError, want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, api.MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error", err: nil, want: "An unexpected error occurred"},
		{name: "expired token", err: auth.ErrExpiredToken, want: "Token expired"},
		{name: "invalid token", err: auth.ErrInvalidToken, want: "Invalid token"},
		{
			name: "generation error carries its own message",
			err: &service.GenerationError{
				Code:        "RATE_LIMIT_ERROR",
				UserMessage: "The AI service is receiving too many requests. Please try again in a moment.",
				Err:         assert.AnError,
			},
			want: "The AI service is receiving too many requests. Please try again in a moment.",
		},
		{
			name: "domain validation echoed",
			err:  domain.ErrFlashcardFrontEmpty,
			want: domain.ErrFlashcardFrontEmpty.Error(),
		},
		{name: "unknown error sanitized", err: assert.AnError, want: "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, api.GetSafeErrorMessage(tc.err))
		})
	}
}
