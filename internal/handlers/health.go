package handlers

import (
	"log/slog"
	"net/http"
)

// ReadinessReporter reports whether the messaging session handle is set.
type ReadinessReporter interface {
	Ready() bool
}

// HealthHandler provides the liveness endpoint
type HealthHandler struct {
	session ReadinessReporter
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(session ReadinessReporter, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		session: session,
		logger:  logger,
	}
}

// HealthResponse represents the health check response. WhatsappReady
// reflects whether the session handle is set, not live connectivity.
type HealthResponse struct {
	Status        string `json:"status"`
	WhatsappReady bool   `json:"whatsappReady"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:        "Server running",
		WhatsappReady: h.session.Ready(),
	}, h.logger)
}
