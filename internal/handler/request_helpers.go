package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/validation"
)

// DecodeAndValidateRequest decodes a JSON request body into req and validates
// its tags. On failure the response has already been written and the handler
// should return.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		log.Warn(LogMsgDecodeFailed, "action", actionName, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	if err := validation.Struct(req); err != nil {
		log.Warn(LogMsgValidationFailed, "action", actionName, "error", err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: validation.FormatValidationError(err),
		})
		return err
	}

	return nil
}

// playerID returns the trimmed {playerID} URL parameter. On failure the
// response has already been written.
func playerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, ParamPlayerID))
	if id == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingPlayerID)
		return "", false
	}
	return id, true
}

// GetIntQueryParam parses an optional integer query parameter clamped to
// [1, max]. A missing parameter yields def.
func GetIntQueryParam(w http.ResponseWriter, r *http.Request, name string, def, max int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, name))
		return 0, false
	}
	if v > max {
		v = max
	}
	return v, true
}
