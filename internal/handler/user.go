package handler

import (
	"log/slog"
	"net/http"

	"github.com/OSMA-D/osma-server/internal/model"
	"github.com/OSMA-D/osma-server/internal/service"
)

// UserHandler serves the account-mutation endpoints. The acting user is
// always the one named by the verified session token — the request body
// never chooses whose account is touched.
type UserHandler struct {
	identity *service.Identity
	logger   *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(identity *service.Identity, logger *slog.Logger) *UserHandler {
	return &UserHandler{identity: identity, logger: logger}
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// HandleChangePassword replaces the caller's password after verifying the
// old one.
//
// HTTP: POST /api/change_password (capability: user, admin)
func (h *UserHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := authorize(w, r, model.RoleUser, model.RoleAdmin)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.identity.ChangePassword(r.Context(), id.Name, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeOK(w, "user information updated")
}

type updateProfileRequest struct {
	Email string `json:"email"`
	Img   string `json:"img"`
}

// HandleUpdate overwrites the caller's profile fields.
//
// HTTP: POST /api/update (capability: user, admin)
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := authorize(w, r, model.RoleUser, model.RoleAdmin)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.identity.UpdateProfile(r.Context(), id.Name, req.Email, req.Img); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeOK(w, "user information updated")
}
