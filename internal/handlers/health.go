package handlers

import (
	"log/slog"
	"net/http"
)

// HealthHandler provides health check endpoint
type HealthHandler struct {
	service string
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{Status: "OK", Service: h.service}, h.logger)
}
