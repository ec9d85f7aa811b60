package handler

import (
	"net/http"

	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/middleware"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
	"github.com/AchilleasB/classbank/ledger-service/internal/logging"
)

type AuthHandler struct {
	sessions ports.SessionService
}

func NewAuthHandler(sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// LoginRequest leaves Class empty for admin and developer logins.
type LoginRequest struct {
	Class    string `json:"class"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.sessions.Login(r.Context(), req.Class, req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logging.FromCtx(r.Context()).Info("login", "user", session.Identity.Username, "role", session.Identity.Role, "class", session.Identity.Class)
	writeJSON(w, http.StatusOK, session)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "not logged in"})
		return
	}

	if err := h.sessions.Logout(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		logging.FromCtx(r.Context()).Error("logout failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "logout failed"})
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful"})
}
