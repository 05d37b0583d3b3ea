package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tenexcards/tenex-api/internal/domain"
	"github.com/tenexcards/tenex-api/internal/platform/openrouter"
	"github.com/tenexcards/tenex-api/internal/store"
)

// fakeChatClient returns a canned result or error and records the
// requests it received.
type fakeChatClient struct {
	result *openrouter.ChatResult
	meta   *openrouter.RequestMetadata
	err    error

	requests []openrouter.ChatRequest
}

func (c *fakeChatClient) Send(
	_ context.Context,
	req openrouter.ChatRequest,
) (*openrouter.ChatResult, *openrouter.RequestMetadata, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.meta, c.err
	}
	return c.result, c.meta, nil
}

// fakeGenerationStore records created generations and serves lookups
// from an in-memory owner-scoped map. Either operation can be forced to
// fail.
type fakeGenerationStore struct {
	createErr error
	created   []*domain.Generation

	getErr  error
	byID    map[uuid.UUID]*domain.Generation
	lookups []uuid.UUID
}

func (s *fakeGenerationStore) Create(_ context.Context, generation *domain.Generation) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, generation)
	return nil
}

func (s *fakeGenerationStore) GetByID(_ context.Context, id, userID uuid.UUID) (*domain.Generation, error) {
	s.lookups = append(s.lookups, id)
	if s.getErr != nil {
		return nil, s.getErr
	}
	gen, ok := s.byID[id]
	if !ok || gen.UserID != userID {
		return nil, store.ErrGenerationNotFound
	}
	return gen, nil
}

// fakeErrorLogStore records appended error-log entries and can be forced
// to fail to exercise the best-effort path.
type fakeErrorLogStore struct {
	createErr error
	entries   []*domain.GenerationErrorLog
}

func (s *fakeErrorLogStore) Create(_ context.Context, entry *domain.GenerationErrorLog) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

// fakeFlashcardStore records the batch passed to CreateMultiple. WithTx
// returns the same instance so transaction-bound calls land in the same
// recorder.
type fakeFlashcardStore struct {
	createErr error
	received  []*domain.Flashcard
}

func (s *fakeFlashcardStore) CreateMultiple(
	_ context.Context,
	flashcards []*domain.Flashcard,
) ([]*domain.Flashcard, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.received = flashcards
	return flashcards, nil
}

func (s *fakeFlashcardStore) WithTx(_ *sql.Tx) store.FlashcardStore {
	return s
}
