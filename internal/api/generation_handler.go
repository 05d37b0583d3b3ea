package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tenexcards/tenex-api/internal/api/shared"
	"github.com/tenexcards/tenex-api/internal/service"
)

// GenerationHandler handles flashcard-generation HTTP requests.
type GenerationHandler struct {
	generationService service.GenerationService
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationService: generationService}
}

// GenerateFlashcards handles POST /api/generations requests.
func (h *GenerationHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req GenerateFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, err)
		return
	}

	result, err := h.generationService.GenerateFlashcards(r.Context(), userID, req.SourceText)
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

	slog.Debug("generation request completed",
		"generation_id", result.GenerationID,
		"generated_count", result.GeneratedCount)

	shared.RespondWithJSON(w, r, http.StatusCreated, generationToResponse(result))
}

// generationToResponse converts a service GenerationResult to the API
// response shape.
func generationToResponse(result *service.GenerationResult) GenerateFlashcardsResponse {
	proposals := make([]FlashcardProposalResponse, 0, len(result.Proposals))
	for _, p := range result.Proposals {
		proposals = append(proposals, FlashcardProposalResponse{
			Front:  p.Front,
			Back:   p.Back,
			Source: string(p.Source),
		})
	}
	return GenerateFlashcardsResponse{
		GenerationID:   result.GenerationID,
		Proposals:      proposals,
		GeneratedCount: result.GeneratedCount,
	}
}
