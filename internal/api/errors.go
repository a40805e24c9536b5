package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/notecards-app/notecards-api/internal/api/shared"
	"github.com/notecards-app/notecards-api/internal/domain"
	"github.com/notecards-app/notecards-api/internal/generation"
	"github.com/notecards-app/notecards-api/internal/service/auth"
	deckservice "github.com/notecards-app/notecards-api/internal/service/deck"
	practiceservice "github.com/notecards-app/notecards-api/internal/service/practice"
	"github.com/notecards-app/notecards-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes. Ownership failures deliberately map to 404, never 403, so a
// caller cannot probe for the existence of other users' decks.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors (including not-owned, see above)
	case errors.Is(err, deckservice.ErrDeckNotFound),
		errors.Is(err, deckservice.ErrCardNotFound),
		errors.Is(err, practiceservice.ErrDeckNotFound),
		errors.Is(err, practiceservice.ErrCardNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, deckservice.ErrDuplicateTitle):
		return http.StatusConflict

	// Resource limit errors
	case errors.Is(err, deckservice.ErrDeckLimitReached):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, deckservice.ErrCloneOwnDeck),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, generation.ErrEmptyTopic):
		return http.StatusBadRequest

	// Special cases: nothing to practice
	case errors.Is(err, practiceservice.ErrNoCards),
		errors.Is(err, practiceservice.ErrNoWeakCards):
		return http.StatusNoContent

	// Upstream LLM failures
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

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

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	// Not found errors
	case errors.Is(err, deckservice.ErrDeckNotFound),
		errors.Is(err, practiceservice.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, deckservice.ErrCardNotFound),
		errors.Is(err, practiceservice.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, deckservice.ErrDuplicateTitle):
		return "You already have a deck with this title"

	case errors.Is(err, deckservice.ErrDeckLimitReached):
		return "Deck limit reached"

	case errors.Is(err, deckservice.ErrCloneOwnDeck):
		return "You cannot clone your own deck"

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	case errors.Is(err, generation.ErrEmptyTopic):
		return "Topic is required"

	case errors.Is(err, generation.ErrContentBlocked):
		return "Suggestion request was blocked"

	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrGenerationFailed):
		return "Suggestion service unavailable"

	// Empty-selection cases are handled separately with StatusNoContent

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the standard mapped response for an internal
// error. When fallbackMessage is non-empty it replaces the generic
// message for 5xx responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	statusCode := MapErrorToStatusCode(err)
	if statusCode == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	message := GetSafeErrorMessage(err)
	if fallbackMessage != "" && statusCode >= http.StatusInternalServerError {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, statusCode, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format:
	// "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
