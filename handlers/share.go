// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/propose/metrics"
	"github.com/danielhkuo/propose/middleware"
	"github.com/danielhkuo/propose/models"
	"github.com/danielhkuo/propose/snapshot"
	"github.com/danielhkuo/propose/store"
)

type ShareHandler struct {
	composer *snapshot.Composer
}

func NewShareHandler(db *sql.DB, m *metrics.Metrics) *ShareHandler {
	return &ShareHandler{
		composer: snapshot.NewComposer(store.NewRecords(db), store.NewAnswers(db), m),
	}
}

// GetShare handles GET /share/:token
// Public, no session. The token is the only credential.
func (h *ShareHandler) GetShare(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	snap, err := h.composer.Resolve(r.Context(), token)
	if errors.Is(err, models.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "This link is invalid or has been revoked")
		return
	}
	if errors.Is(err, snapshot.ErrNotConfigured) {
		slog.Error("share view has no store configured")
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Sharing is not configured on this server")
		return
	}
	if err != nil {
		slog.Error("failed to resolve share token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Could not load the shared proposal")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ShareResponse{Proposal: *snap})
}
