package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tenexcards/tenex-api/internal/api/shared"
	"github.com/tenexcards/tenex-api/internal/domain"
	"github.com/tenexcards/tenex-api/internal/service"
)

// FlashcardHandler handles flashcard HTTP requests.
type FlashcardHandler struct {
	flashcardService service.FlashcardService
}

// NewFlashcardHandler creates a new FlashcardHandler.
func NewFlashcardHandler(flashcardService service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{flashcardService: flashcardService}
}

// CreateFlashcards handles POST /api/flashcards requests.
func (h *FlashcardHandler) CreateFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, err)
		return
	}

	cards := make([]service.NewFlashcardData, 0, len(req.Flashcards))
	for _, input := range req.Flashcards {
		cards = append(cards, service.NewFlashcardData{
			Front:        input.Front,
			Back:         input.Back,
			Source:       domain.FlashcardSource(input.Source),
			GenerationID: input.GenerationID,
		})
	}

	persisted, err := h.flashcardService.CreateFlashcards(r.Context(), userID, cards)
	if err != nil {
		status := MapErrorToStatusCode(err)
		message := GetSafeErrorMessage(err)
		if status >= http.StatusInternalServerError {
			shared.RespondWithErrorAndLog(w, r, status, message, err)
		} else {
			shared.RespondWithError(w, r, status, message)
		}
		return
	}

	slog.Debug("flashcard batch created",
		"user_id", userID,
		"count", len(persisted))

	shared.RespondWithJSON(w, r, http.StatusCreated, flashcardsToResponse(persisted))
}

// flashcardsToResponse converts stored flashcards to the API response shape.
func flashcardsToResponse(cards []*domain.Flashcard) CreateFlashcardsResponse {
	out := make([]FlashcardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, FlashcardResponse{
			ID:           card.ID,
			Front:        card.Front,
			Back:         card.Back,
			Source:       string(card.Source),
			GenerationID: card.GenerationID,
			CreatedAt:    card.CreatedAt,
			UpdatedAt:    card.UpdatedAt,
		})
	}
	return CreateFlashcardsResponse{Flashcards: out}
}
