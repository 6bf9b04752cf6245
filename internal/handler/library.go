package handler

import (
	"log/slog"
	"net/http"

	"github.com/OSMA-D/osma-server/internal/model"
	"github.com/OSMA-D/osma-server/internal/service"
)

// LibraryHandler serves the personal-library endpoints. The library owner is
// always the token identity.
type LibraryHandler struct {
	library *service.Library
	logger  *slog.Logger
}

// NewLibraryHandler creates a LibraryHandler.
func NewLibraryHandler(library *service.Library, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{library: library, logger: logger}
}

type libraryAppRequest struct {
	AppID string `json:"app_id"`
}

// HandleList returns the caller's library as a bare array of app ids.
//
// HTTP: GET /api/personal_library (capability: user, admin)
func (h *LibraryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := authorize(w, r, model.RoleUser, model.RoleAdmin)
	if !ok {
		return
	}

	apps, err := h.library.List(r.Context(), id.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeBody(w, apps)
}

// HandleAdd appends an app to the caller's library.
//
// HTTP: POST /api/add_app_to_personal_library (capability: user, admin)
// BODY: {"app_id": ...}
func (h *LibraryHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := authorize(w, r, model.RoleUser, model.RoleAdmin)
	if !ok {
		return
	}

	var req libraryAppRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.library.Add(r.Context(), id.Name, req.AppID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeOK(w, "app added to personal library")
}

// HandleRemove deletes every occurrence of an app from the caller's library.
//
// HTTP: POST /api/delete_app_from_personal_library (capability: user, admin)
// BODY: {"app_id": ...}
func (h *LibraryHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := authorize(w, r, model.RoleUser, model.RoleAdmin)
	if !ok {
		return
	}

	var req libraryAppRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.library.Remove(r.Context(), id.Name, req.AppID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeOK(w, "app deleted from personal library")
}
