package handler

import (
	"net/http"
	"strings"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decode(r, &req); err != nil {
		h.writeFault(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		h.writeFault(w, domain.ErrBadRequest.WithDetails("username and password are required"))
		return
	}

	tok, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.log.Warn("login rejected", "username", req.Username)
		h.writeFault(w, err)
		return
	}

	h.log.Info("login succeeded", "username", req.Username, "role", tok.Role)
	h.writeJSON(w, http.StatusOK, domain.LoginResponse{
		AccessToken: tok.Value,
		TokenType:   tok.TokenType,
		ExpiresIn:   int64(tok.ExpiresAt.Sub(tok.IssuedAt).Seconds()),
	})
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := h.auth.Logout(r.Context(), bearer); err != nil {
		h.writeFault(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
