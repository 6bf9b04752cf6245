package handler

import (
	"log/slog"
	"net/http"

	"github.com/OSMA-D/osma-server/internal/service"
)

// AuthHandler serves the public /auth endpoints: signup and signin.
// Both are open to anonymous callers — they're how a session token is
// obtained in the first place.
type AuthHandler struct {
	identity *service.Identity
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(identity *service.Identity, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{identity: identity, logger: logger}
}

type signupRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// HandleSignup registers a new account and returns a session token.
//
// HTTP: POST /auth/signup
// BODY: {"name": ..., "password": ..., "email": ...}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.identity.Register(r.Context(), req.Name, req.Password, req.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeToken(w, token)
}

type signinRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// HandleSignin authenticates an existing account and returns a session token.
//
// HTTP: POST /auth/signin
// BODY: {"name": ..., "password": ...}
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.identity.Authenticate(r.Context(), req.Name, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeToken(w, token)
}
