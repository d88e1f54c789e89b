package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/flytire/backend/internal/middleware"
	"github.com/Lixing-Zhang/flytire/backend/internal/service"
)

// AdminHandler serves the admin login and session endpoints.
type AdminHandler struct {
	auth *service.AuthService
	log  *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(auth *service.AuthService, log *slog.Logger) *AdminHandler {
	return &AdminHandler{auth: auth, log: log}
}

// LoginRequest is the body of POST /api/admin/login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// AdminResponse is the envelope used by every admin endpoint.
type AdminResponse struct {
	Success   bool       `json:"success"`
	Error     string     `json:"error,omitempty"`
	Token     string     `json:"token,omitempty"`
	Login     string     `json:"login,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, AdminResponse{Error: "Missing credentials"}, h.log)
		return
	}

	sess, err := h.auth.Login(req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			WriteJSON(w, http.StatusBadRequest, AdminResponse{Error: "Missing credentials"}, h.log)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.log.Warn("admin login failed", "remote_addr", r.RemoteAddr)
			WriteJSON(w, http.StatusUnauthorized, AdminResponse{Error: "Invalid credentials"}, h.log)
		default:
			h.log.Error("admin login error", "error", err)
			WriteJSON(w, http.StatusInternalServerError, AdminResponse{Error: "Server error"}, h.log)
		}
		return
	}

	h.log.Info("admin logged in", "session_id", sess.ID)
	WriteJSON(w, http.StatusOK, AdminResponse{
		Success:   true,
		Token:     sess.Token,
		ExpiresAt: &sess.ExpiresAt,
	}, h.log)
}

// Session handles GET /api/admin/session. Must run behind middleware.SessionAuth.
func (h *AdminHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, AdminResponse{Error: "Unauthorized"}, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, AdminResponse{
		Success:   true,
		Login:     sess.Login,
		ExpiresAt: &sess.ExpiresAt,
	}, h.log)
}

// Logout handles POST /api/admin/logout. Must run behind middleware.SessionAuth.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, AdminResponse{Error: "Unauthorized"}, h.log)
		return
	}

	if err := h.auth.Logout(sess.Token); err != nil {
		WriteJSON(w, http.StatusUnauthorized, AdminResponse{Error: "Invalid session"}, h.log)
		return
	}

	h.log.Info("admin logged out", "session_id", sess.ID)
	WriteJSON(w, http.StatusOK, AdminResponse{Success: true}, h.log)
}
