package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks map[string]Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a health handler over named dependency checks.
func NewHealthHandler(checks map[string]Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger}
}

// Healthz reports process liveness.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports readiness: every registered dependency must respond.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	statuses := make(map[string]string, len(h.checks))
	ready := true
	for name, check := range h.checks {
		if err := check.Health(r.Context()); err != nil {
			h.logger.Warn("readiness check failed",
				slog.String("dependency", name),
				slog.String("error", err.Error()),
			)
			statuses[name] = "unavailable"
			ready = false
			continue
		}
		statuses[name] = "ok"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"ready": ready, "dependencies": statuses})
}
