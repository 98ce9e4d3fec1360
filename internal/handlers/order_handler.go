package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/ruralcart/order-relay/internal/assets"
	"github.com/ruralcart/order-relay/internal/metrics"
	"github.com/ruralcart/order-relay/internal/models"
	"github.com/ruralcart/order-relay/internal/service"
)

// Stable error kinds carried in failure responses alongside the
// human-readable message.
const (
	KindInvalidOrder       = "invalid_order"
	KindSessionUnavailable = "session_unavailable"
	KindAssetMissing       = "asset_missing"
	KindDeliveryFailed     = "delivery_failed"
)

// OrderHandler handles order relay HTTP requests
type OrderHandler struct {
	relay *service.RelayService
	log   *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(relay *service.RelayService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		relay: relay,
		log:   log,
	}
}

// SendOrder handles POST /send-order
func (h *OrderHandler) SendOrder(w http.ResponseWriter, r *http.Request) {
	var order models.Order

	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		h.log.Error("failed to decode order request", "error", err)
		metrics.RelaysTotal.WithLabelValues(KindInvalidOrder).Inc()
		WriteError(w, http.StatusBadRequest, KindInvalidOrder, "Invalid request body", h.log)
		return
	}

	relayID := uuid.New().String()
	h.log.Info("received order request",
		"relay_id", relayID,
		"items_count", len(order.Items),
		"from", order.FromNumber,
	)

	if err := h.relay.RelayOrder(r.Context(), order); err != nil {
		h.log.Error("failed to relay order", "relay_id", relayID, "error", err)

		var missing *assets.MissingError
		var delivery *service.DeliveryError

		switch {
		case errors.Is(err, service.ErrEmptyOrder),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrInvalidPrice),
			errors.Is(err, service.ErrInvalidName):
			metrics.RelaysTotal.WithLabelValues(KindInvalidOrder).Inc()
			WriteError(w, http.StatusBadRequest, KindInvalidOrder, err.Error(), h.log)
		case errors.Is(err, service.ErrSessionUnavailable):
			metrics.RelaysTotal.WithLabelValues(KindSessionUnavailable).Inc()
			WriteError(w, http.StatusInternalServerError, KindSessionUnavailable, "WhatsApp client not ready", h.log)
		case errors.As(err, &missing):
			metrics.RelaysTotal.WithLabelValues(KindAssetMissing).Inc()
			WriteError(w, http.StatusInternalServerError, KindAssetMissing, "Failed to send order: "+missing.Error(), h.log)
		case errors.As(err, &delivery):
			metrics.RelaysTotal.WithLabelValues(KindDeliveryFailed).Inc()
			WriteError(w, http.StatusInternalServerError, KindDeliveryFailed, "Failed to send order: "+delivery.Error(), h.log)
		default:
			metrics.RelaysTotal.WithLabelValues(KindDeliveryFailed).Inc()
			WriteError(w, http.StatusInternalServerError, KindDeliveryFailed, "Failed to send order: "+err.Error(), h.log)
		}
		return
	}

	metrics.RelaysTotal.WithLabelValues("success").Inc()
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true}, h.log)
	h.log.Info("order relayed successfully", "relay_id", relayID, "items_count", len(order.Items))
}
