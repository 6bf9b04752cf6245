package handler

import (
	"log/slog"
	"net/http"

	"github.com/OSMA-D/osma-server/internal/model"
	"github.com/OSMA-D/osma-server/internal/service"
)

// ReviewHandler serves the review-write endpoint.
type ReviewHandler struct {
	reviews *service.Review
	logger  *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviews *service.Review, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

type writeReviewRequest struct {
	AppID string `json:"app_id"`
	Score int    `json:"score"`
	Text  string `json:"text"`
}

// HandleWrite upserts the caller's review for an app. The review author is
// the token identity, never a field of the body.
//
// HTTP: POST /api/write_review (capability: user, admin)
// BODY: {"app_id": ..., "score": 4, "text": ...}
func (h *ReviewHandler) HandleWrite(w http.ResponseWriter, r *http.Request) {
	id, ok := authorize(w, r, model.RoleUser, model.RoleAdmin)
	if !ok {
		return
	}

	var req writeReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.reviews.Write(r.Context(), id.Name, req.AppID, req.Score, req.Text); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeOK(w, "the review is written")
}
