package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/logger"
)

// Client-facing messages. Internal error details are only logged.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidQueryParam     = "Invalid %s query parameter"
	ErrMsgMissingPlayerID       = "Missing player id"

	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnavailableError   = "Player is busy, please retry"
	ErrMsgItemNotFound       = "Item not found"
	ErrMsgBadgeNotFound      = "Badge not found"
	ErrMsgStackLimit         = "Not enough room in that inventory slot"
	ErrMsgInsufficientItems  = "Not enough items"
	ErrMsgNotConsumable      = "That item cannot be used"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists the fields that failed validation
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// mapServiceErrorToUserMessage picks the status and client message for an
// engine error. Specific sentinels are checked before their categories.
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFound
	case errors.Is(err, domain.ErrBadgeNotFound):
		return http.StatusNotFound, ErrMsgBadgeNotFound
	case errors.Is(err, domain.ErrStackLimitExceeded):
		return http.StatusConflict, ErrMsgStackLimit
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return http.StatusConflict, ErrMsgInsufficientItems
	case errors.Is(err, domain.ErrItemNotConsumable):
		return http.StatusConflict, ErrMsgNotConsumable
	case errors.Is(err, domain.ErrLockTimeout):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	case errors.Is(err, domain.ErrValidation):
		// Validation messages name fields and limits, never internals
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrBusinessRule):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}
}

// respondServiceError logs err and writes the mapped response. Server side
// failures are logged at error level, caller mistakes at warn.
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgOperationFailed, "operation", op, "status", status, "error", err)
	} else {
		log.Warn(LogMsgOperationRejected, "operation", op, "status", status, "error", err)
	}
	respondError(w, status, msg)
}
