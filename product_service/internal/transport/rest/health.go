package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/inventario/inventario/pkg/web"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	store   Pinger
	timeout time.Duration
	logger  *slog.Logger
}

func NewHealthHandler(store Pinger, timeout time.Duration, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, timeout: timeout, logger: logger.With("component", "health")}
}

func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.HealthCheck)
	r.Get("/readyz", h.ReadinessCheck)
}

// HealthCheck is a simple health check endpoint.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ReadinessCheck answers 503 while the store cannot be reached.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.logger.WarnContext(r.Context(), "Store is not reachable", "error", err)
		web.RespondError(w, h.logger, http.StatusServiceUnavailable, "Store unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
}
