package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const readinessTimeout = 2 * time.Second

type healthStatus struct {
	Status string `json:"status"`
}

// ReadinessFunc reports whether a dependency the board needs is reachable.
type ReadinessFunc func(ctx context.Context) error

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, r, http.StatusOK, healthStatus{Status: "ok"})
}

// readinessHandler runs the readiness check; without one the process is always ready.
func readinessHandler(check ReadinessFunc, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if check == nil {
			WriteJSON(w, r, http.StatusOK, healthStatus{Status: "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := check(ctx); err != nil {
			if logger != nil {
				logger.WarnContext(r.Context(), "readiness check failed", slog.Any("error", err))
			}
			WriteJSON(w, r, http.StatusServiceUnavailable, healthStatus{Status: "unavailable"})
			return
		}
		WriteJSON(w, r, http.StatusOK, healthStatus{Status: "ok"})
	}
}
