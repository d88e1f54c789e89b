package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/flytire/backend/internal/models"
	"github.com/Lixing-Zhang/flytire/backend/internal/notification"
	"github.com/Lixing-Zhang/flytire/backend/internal/service"
)

const maxOrderBodySize = 1 << 20

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// TelegramErrorResponse is returned when the messaging API refuses an order.
type TelegramErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details"`
}

// CreateOrder handles POST /api/order
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOrderBodySize)).Decode(&req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	h.log.Info("incoming order",
		"tire", req.Tire,
		"size", req.Size,
		"quantity", req.Quantity.Or(0),
	)

	result, err := h.orderService.SubmitOrder(r.Context(), req)
	if err != nil {
		var validationErr *service.ValidationError
		var upstreamErr *notification.UpstreamError

		switch {
		case errors.As(err, &validationErr):
			h.log.Warn("order rejected", "fields", validationErr.Fields)
			WriteError(w, http.StatusBadRequest, validationErr.Message, h.log)
		case errors.As(err, &upstreamErr):
			WriteJSON(w, http.StatusInternalServerError, TelegramErrorResponse{
				Error:   "Telegram error",
				Details: rawDetails(upstreamErr.Body),
			}, h.log)
		default:
			h.log.Error("failed to submit order", "error", err)
			WriteError(w, http.StatusInternalServerError, "Server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, models.OrderResponse{
		Success:       true,
		OrderID:       result.OrderID,
		OrderDateTime: result.OrderDateTime,
	}, h.log)
}

// SendTest handles GET /api/test. The messaging API response is relayed
// verbatim, including refusals.
func (h *OrderHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	body, err := h.orderService.SendTestMessage(r.Context())
	if err != nil {
		var upstreamErr *notification.UpstreamError
		if !errors.As(err, &upstreamErr) || len(body) == 0 {
			h.log.Error("test message failed", "error", err)
			WriteError(w, http.StatusInternalServerError, "Test failed", h.log)
			return
		}
		h.log.Warn("messaging api refused test message", "status", upstreamErr.StatusCode)
	}

	WriteRaw(w, http.StatusOK, body, h.log)
}
