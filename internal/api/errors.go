package api

import (
	"errors"
	"net/http"

	"github.com/tenexcards/tenex-api/internal/domain"
	"github.com/tenexcards/tenex-api/internal/service"
	"github.com/tenexcards/tenex-api/internal/service/auth"
	"github.com/tenexcards/tenex-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrGenerationNotFound),
		errors.Is(err, store.ErrFlashcardNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, service.ErrSourceTextLength),
		errors.Is(err, service.ErrEmptyFlashcardBatch),
		errors.Is(err, store.ErrInvalidEntity),
		isDomainValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	// A GenerationError already carries its user-facing message.
	var genErr *service.GenerationError
	if errors.As(err, &genErr) {
		return genErr.UserMessage
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, store.ErrGenerationNotFound):
		return "Generation not found"

	case errors.Is(err, store.ErrFlashcardNotFound):
		return "Flashcard not found"

	case errors.Is(err, service.ErrSourceTextLength):
		return "Source text must be between 1000 and 10000 characters"

	case errors.Is(err, service.ErrEmptyFlashcardBatch):
		return "At least one flashcard is required"

	case isDomainValidationError(err):
		// Domain sentinels describe the invalid field without internals.
		return err.Error()

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid data provided"

	default:
		return "An unexpected error occurred"
	}
}

// isDomainValidationError reports whether err is one of the domain
// validation sentinels, all of which are safe to echo to the client.
func isDomainValidationError(err error) bool {
	domainErrs := []error{
		domain.ErrFlashcardFrontEmpty,
		domain.ErrFlashcardFrontTooLong,
		domain.ErrFlashcardBackEmpty,
		domain.ErrFlashcardBackTooLong,
		domain.ErrFlashcardSourceInvalid,
		domain.ErrFlashcardGenerationIDMismatch,
		domain.ErrGenerationSourceLengthInvalid,
	}
	for _, domainErr := range domainErrs {
		if errors.Is(err, domainErr) {
			return true
		}
	}
	return false
}
