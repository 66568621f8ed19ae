package handler

import (
	"context"
	"net/http"

	"github.com/osse101/brandish-progression/internal/logger"
)

// CacheInvalidator drops cached catalog definitions
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// HandleInvalidateCatalog makes the next reads go to the store, after a
// catalog sync run by another process
func HandleInvalidateCatalog(cache CacheInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache.Invalidate(r.Context())
		logger.FromContext(r.Context()).Info(LogMsgCatalogInvalidated)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: LogMsgCatalogInvalidated})
	}
}
