package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/OSMA-D/osma-server/internal/model"
	"github.com/OSMA-D/osma-server/internal/service"
)

// CatalogHandler serves the read-only catalog endpoints. Every one requires
// the {user, admin} capability; list endpoints return bare JSON arrays,
// single-record endpoints return the bare record.
type CatalogHandler struct {
	catalog *service.Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog *service.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// HandleApps lists every app.
//
// HTTP: GET /api/apps (capability: user, admin)
func (h *CatalogHandler) HandleApps(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, model.RoleUser, model.RoleAdmin); !ok {
		return
	}

	apps, err := h.catalog.ListApps(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeBody(w, apps)
}

type appsByTagsRequest struct {
	Tags []string `json:"tags"`
}

// HandleAppsByTags lists apps carrying at least one of the requested tags.
//
// HTTP: POST /api/apps_by_tag (capability: user, admin)
// BODY: {"tags": ["games", "tools"]}
func (h *CatalogHandler) HandleAppsByTags(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, model.RoleUser, model.RoleAdmin); !ok {
		return
	}

	var req appsByTagsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	apps, err := h.catalog.FilterAppsByTags(r.Context(), req.Tags)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeBody(w, apps)
}

// HandleApp returns a single app.
//
// HTTP: GET /api/app/{app_id} (capability: user, admin)
func (h *CatalogHandler) HandleApp(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, model.RoleUser, model.RoleAdmin); !ok {
		return
	}

	app, err := h.catalog.GetApp(r.Context(), chi.URLParam(r, "app_id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeBody(w, app)
}

// HandleVersions lists an app's versions, newest first.
//
// HTTP: GET /api/versions/{app_id} (capability: user, admin)
func (h *CatalogHandler) HandleVersions(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, model.RoleUser, model.RoleAdmin); !ok {
		return
	}

	versions, err := h.catalog.ListVersions(r.Context(), chi.URLParam(r, "app_id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeBody(w, versions)
}

// HandleLatestVersion returns the newest version of an app.
//
// HTTP: GET /api/latest_version/{app_id} (capability: user, admin)
func (h *CatalogHandler) HandleLatestVersion(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, model.RoleUser, model.RoleAdmin); !ok {
		return
	}

	version, err := h.catalog.LatestVersion(r.Context(), chi.URLParam(r, "app_id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeBody(w, version)
}

// HandleReviews lists an app's reviews.
//
// HTTP: GET /api/reviews/{app_id} (capability: user, admin)
func (h *CatalogHandler) HandleReviews(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, model.RoleUser, model.RoleAdmin); !ok {
		return
	}

	reviews, err := h.catalog.ListReviews(r.Context(), chi.URLParam(r, "app_id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeBody(w, reviews)
}

// HandleRating returns the mean review score of an app. An app with zero
// reviews answers denied, not a zero rating.
//
// HTTP: GET /api/rating/{app_id} (capability: user, admin)
func (h *CatalogHandler) HandleRating(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, model.RoleUser, model.RoleAdmin); !ok {
		return
	}

	rating, err := h.catalog.GetRating(r.Context(), chi.URLParam(r, "app_id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeBody(w, rating)
}
