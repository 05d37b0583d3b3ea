// Package service implements the application's use cases on top of the
// store interfaces and the remote model client.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tenexcards/tenex-api/internal/domain"
	"github.com/tenexcards/tenex-api/internal/platform/logger"
	"github.com/tenexcards/tenex-api/internal/platform/openrouter"
	"github.com/tenexcards/tenex-api/internal/store"
)

// expectedProposalCount is the number of flashcards the system prompt
// asks the model for. Responses with a different count are accepted
// with a warning rather than rejected; the user reviews proposals
// anyway, so a short or long batch is still useful.
const expectedProposalCount = 5

// generationSystemPrompt instructs the model to answer with a strict
// JSON envelope so the response can be parsed mechanically.
const generationSystemPrompt = `You are a flashcard creation assistant. Given a text, create exactly 5 flashcards that capture its most important facts and concepts.

Respond with a JSON object of exactly this shape and nothing else:
{"flashcards":[{"front":"question text","back":"answer text"}]}

Rules:
- exactly 5 flashcards
- each front is a single clear question of at most 200 characters
- each back is a concise answer of at most 500 characters
- use the language of the source text`

// userMessageTemplate frames the source text for the model.
const userMessageTemplate = "Create flashcards from the following text:\n\n%s"

// Internal classification codes for failures that do not come from the
// remote client.
const (
	errCodeDatabase        = "DATABASE_ERROR"
	errCodeInvalidResponse = string(openrouter.ErrCodeInvalidResponse)
)

// User-facing messages for the known remote-service failure classes.
// Everything else gets the generic message.
var userFacingMessages = map[openrouter.ErrorCode]string{
	openrouter.ErrCodeAuthentication: "The AI service rejected our credentials. Please contact support.",
	openrouter.ErrCodeRateLimit:      "The AI service is receiving too many requests. Please try again in a moment.",
	openrouter.ErrCodeTimeout:        "The AI service took too long to respond. Please try again.",
	openrouter.ErrCodeNetwork:        "The AI service could not be reached. Please try again.",
}

// genericGenerationMessage is returned for unexpected or internal failures.
const genericGenerationMessage = "Failed to generate flashcards. Please try again."

// ChatClient is the slice of the remote model client the generation
// service depends on.
type ChatClient interface {
	Send(ctx context.Context, req openrouter.ChatRequest) (*openrouter.ChatResult, *openrouter.RequestMetadata, error)
}

// GenerationResult is the outcome of a successful generation attempt.
type GenerationResult struct {
	GenerationID   uuid.UUID
	Proposals      []domain.FlashcardProposal
	GeneratedCount int
}

// GenerationService drives one end-to-end generation attempt.
type GenerationService interface {
	// GenerateFlashcards calls the remote model for the given source text,
	// persists a generation record, and returns the flashcard proposals.
	//
	// Failures after input validation are recorded in the error log
	// (best-effort) and returned as *GenerationError with a user-facing
	// message. Validation failures return ErrSourceTextLength and are
	// never logged to the error-log table.
	GenerateFlashcards(ctx context.Context, userID uuid.UUID, sourceText string) (*GenerationResult, error)
}

// proposalsEnvelope is the JSON shape the system prompt demands.
type proposalsEnvelope struct {
	Flashcards []struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	} `json:"flashcards"`
}

// generationServiceImpl implements the GenerationService interface.
type generationServiceImpl struct {
	client      ChatClient
	generations store.GenerationStore
	errorLogs   store.GenerationErrorLogStore
	model       string
	timeout     time.Duration
	logger      *slog.Logger
}

// NewGenerationService creates a GenerationService.
// model is the model identifier recorded with every attempt; timeout is
// the per-attempt timeout for generation calls (longer than the client's
// general default because flashcard generation tolerates slow answers).
func NewGenerationService(
	client ChatClient,
	generations store.GenerationStore,
	errorLogs store.GenerationErrorLogStore,
	model string,
	timeout time.Duration,
	log *slog.Logger,
) GenerationService {
	if log == nil {
		log = slog.Default()
	}
	return &generationServiceImpl{
		client:      client,
		generations: generations,
		errorLogs:   errorLogs,
		model:       model,
		timeout:     timeout,
		logger:      log.With(slog.String("component", "generation_service")),
	}
}

// GenerateFlashcards implements GenerationService.GenerateFlashcards.
func (s *generationServiceImpl) GenerateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	sourceText string,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Lengths count characters, not bytes, so multibyte text is not
	// penalized. Matches the min/max rules on the request model.
	sourceLen := utf8.RuneCountInString(sourceText)
	if sourceLen < domain.SourceTextMinLen || sourceLen > domain.SourceTextMaxLen {
		return nil, ErrSourceTextLength
	}

	sourceHash := HashSourceText(sourceText)
	start := time.Now()

	result, meta, err := s.client.Send(ctx, openrouter.ChatRequest{
		Model:         s.model,
		SystemMessage: generationSystemPrompt,
		UserMessage:   fmt.Sprintf(userMessageTemplate, sourceText),
		JSONMode:      true,
		Timeout:       s.timeout,
	})
	if err != nil {
		code := openrouter.CodeOf(err)
		s.logGenerationFailure(ctx, userID, sourceHash, sourceLen, string(code), err)
		return nil, s.remapError(code, err)
	}

	proposals, parseErr := s.parseProposals(ctx, result.JSON)
	if parseErr != nil {
		s.logGenerationFailure(ctx, userID, sourceHash, sourceLen, errCodeInvalidResponse, parseErr)
		return nil, s.remapError(openrouter.ErrCodeInvalidResponse, parseErr)
	}

	// Prefer the client's measured duration; fall back to wall clock.
	duration := time.Since(start)
	if meta != nil && meta.Duration > 0 {
		duration = meta.Duration
	}

	generation, err := domain.NewGeneration(
		userID,
		s.model,
		len(proposals),
		sourceHash,
		sourceLen,
		duration.Milliseconds(),
	)
	if err != nil {
		s.logGenerationFailure(ctx, userID, sourceHash, sourceLen, errCodeDatabase, err)
		return nil, s.remapError("", err)
	}

	// A generation id is required downstream to associate accepted
	// flashcards, so a persistence failure fails the whole attempt.
	if err := s.generations.Create(ctx, generation); err != nil {
		s.logGenerationFailure(ctx, userID, sourceHash, sourceLen, errCodeDatabase, err)
		return nil, s.remapError("", err)
	}

	log.Info("generation completed",
		slog.String("generation_id", generation.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("generated_count", len(proposals)),
		slog.Int64("duration_ms", duration.Milliseconds()))

	return &GenerationResult{
		GenerationID:   generation.ID,
		Proposals:      proposals,
		GeneratedCount: len(proposals),
	}, nil
}

// parseProposals validates the decoded model payload and converts it
// into flashcard proposals, truncating overlong content defensively.
func (s *generationServiceImpl) parseProposals(
	ctx context.Context,
	payload json.RawMessage,
) ([]domain.FlashcardProposal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var envelope proposalsEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("model response does not match the expected envelope: %w", err)
	}

	if envelope.Flashcards == nil {
		return nil, fmt.Errorf("model response is missing the flashcards array")
	}

	if len(envelope.Flashcards) == 0 {
		return nil, fmt.Errorf("model response contains no flashcards")
	}

	if len(envelope.Flashcards) != expectedProposalCount {
		// Accepted on purpose: the user reviews proposals either way.
		log.Warn("model returned unexpected flashcard count",
			slog.Int("expected", expectedProposalCount),
			slog.Int("actual", len(envelope.Flashcards)))
	}

	proposals := make([]domain.FlashcardProposal, 0, len(envelope.Flashcards))
	for _, card := range envelope.Flashcards {
		front := truncateRunes(card.Front, domain.FlashcardFrontMaxLen)
		back := truncateRunes(card.Back, domain.FlashcardBackMaxLen)
		proposals = append(proposals, domain.FlashcardProposal{
			Front:  front,
			Back:   back,
			Source: domain.SourceAIFull,
		})
	}

	return proposals, nil
}

// truncateRunes cuts s to at most max characters on a rune boundary so
// truncation never produces invalid UTF-8.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// logGenerationFailure appends an error-log row for a failed attempt.
// The write is best-effort: its own failure is logged and swallowed so
// it can never mask the original error.
func (s *generationServiceImpl) logGenerationFailure(
	ctx context.Context,
	userID uuid.UUID,
	sourceHash string,
	sourceLen int,
	code string,
	cause error,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entry := domain.NewGenerationErrorLog(userID, s.model, sourceHash, sourceLen, code, cause.Error())
	if err := s.errorLogs.Create(ctx, entry); err != nil {
		log.Warn("failed to write generation error log",
			slog.String("error", err.Error()),
			slog.String("original_error_code", code),
			slog.String("user_id", userID.String()))
	}
}

// remapError converts an internal failure into the *GenerationError the
// API layer returns, translating known remote-service failure classes
// into actionable user-facing messages.
func (s *generationServiceImpl) remapError(code openrouter.ErrorCode, err error) error {
	message := genericGenerationMessage
	if m, ok := userFacingMessages[code]; ok {
		message = m
	}

	errCode := string(code)
	if errCode == "" {
		errCode = errCodeDatabase
	}

	return &GenerationError{
		Code:        errCode,
		UserMessage: message,
		Err:         err,
	}
}
