// Package handler is the HTTP surface of the marketplace. Handlers parse
// requests, run the capability check for their operation, call one service
// method and hand the tagged outcome to the response helpers below — no
// handler interprets outcomes on its own.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/OSMA-D/osma-server/internal/apperror"
	"github.com/OSMA-D/osma-server/internal/auth"
	"github.com/OSMA-D/osma-server/internal/model"
)

// envelope is the {"code": ..., "msg"/"token": ...} wrapper used by every
// response except bare-payload reads.
type envelope struct {
	Code  string `json:"code"`
	Msg   string `json:"msg,omitempty"`
	Token string `json:"token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; nothing left to do but log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeOK sends the "ok" envelope with a confirmation message.
func writeOK(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, envelope{Code: "ok", Msg: msg})
}

// writeToken sends the "ok" envelope carrying a freshly minted session token.
func writeToken(w http.ResponseWriter, token string) {
	writeJSON(w, http.StatusOK, envelope{Code: "ok", Token: token})
}

// writeBody sends a bare payload — the "ok_body" shape. Reads return their
// data directly without the envelope.
func writeBody(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

func writeDenied(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusForbidden, envelope{Code: "denied", Msg: msg})
}

// writeError is the single point where tagged outcomes become transport
// status. Business denials and absent entities are both 403 "denied" —
// the operation surface treats "no such app" the same as "not allowed".
// Everything else is an infrastructure failure: 500 with a generic message,
// the detail stays in the logs.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrDenied), errors.Is(err, apperror.ErrNotFound):
			writeDenied(w, appErr.Message)
			return
		}
	}

	logger.Error("request failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, envelope{Code: "err", Msg: "unknown error"})
}

// authorize runs the operation-level capability check. The gate middleware
// has already resolved the identity (or left the request anonymous); here
// the operation decides. A missing identity or a role outside the set gets
// the denied envelope and (zero, false).
func authorize(w http.ResponseWriter, r *http.Request, roles ...model.Role) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok || !id.In(roles...) {
		writeDenied(w, "insufficient permissions")
		return auth.Identity{}, false
	}
	return id, true
}

// decodeJSON parses the request body into dst, answering 400 itself on
// malformed input. Returns false when the handler should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Code: "err", Msg: "invalid JSON body"})
		return false
	}
	return true
}
