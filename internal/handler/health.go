package handler

import (
	"context"
	"net/http"
	"sort"

	"github.com/osse101/brandish-progression/internal/logger"
)

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Pinger is anything /readyz can probe: the postgres store, the Redis client
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HandleHealthz provides a basic liveness check
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// HandleReadyz pings every named dependency and reports 503 when any of them
// fails. Nil pingers are skipped so optional dependencies can be passed as-is.
func HandleReadyz(deps map[string]Pinger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name, p := range deps {
		if p != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
		defer cancel()

		log := logger.FromContext(ctx)
		resp := HealthResponse{Status: StatusOK, Checks: make(map[string]string, len(names))}
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				log.Error(LogMsgReadinessCheckFailed, "dependency", name, "error", err)
				resp.Status = StatusUnavailable
				resp.Message = MsgDependencyUnavailable
				resp.Checks[name] = StatusUnavailable
				continue
			}
			resp.Checks[name] = StatusOK
		}

		if resp.Status != StatusOK {
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
