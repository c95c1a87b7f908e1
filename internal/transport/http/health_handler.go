package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"gamelens/internal/analytics"
)

// DatasetStatus reports whether the dataset backing the API is usable.
type DatasetStatus interface {
	All(ctx context.Context) ([]analytics.GameRecord, error)
	Dir() string
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	dataset DatasetStatus
	logger  *slog.Logger
	version string
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(dataset DatasetStatus, logger *slog.Logger, version string) *HealthHandler {
	return &HealthHandler{
		dataset: dataset,
		logger:  logger.With(slog.String("handler", "health")),
		version: version,
		started: time.Now(),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	records, err := h.dataset.All(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "health check failed",
			slog.String("error", err.Error()))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":      "healthy",
		"version":     h.version,
		"dataset_dir": h.dataset.Dir(),
		"records":     len(records),
		"uptime":      time.Since(h.started).Round(time.Second).String(),
	})
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{"status": "alive"})
}

// ReadinessCheck handles GET /api/health/ready
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := h.dataset.All(r.Context()); err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]interface{}{"status": "not ready"})
		return
	}
	render.JSON(w, r, map[string]interface{}{"status": "ready"})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{"version": h.version})
}
