// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/danielhkuo/propose/cliparse"
	"github.com/danielhkuo/propose/middleware"
	"github.com/danielhkuo/propose/models"
	"github.com/danielhkuo/propose/store"
)

type ProposalHandler struct {
	records *store.Records
	answers *store.Answers
	cfg     cliparse.Config
}

func NewProposalHandler(db *sql.DB, cfg cliparse.Config) *ProposalHandler {
	return &ProposalHandler{
		records: store.NewRecords(db),
		answers: store.NewAnswers(db),
		cfg:     cfg,
	}
}

// GetProposal handles GET /proposals/:id
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}
	proposalID := r.PathValue("id")

	proposal, err := h.records.GetProposal(r.Context(), identity.UserID, proposalID)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Proposal not found")
		return
	}

	doc, found, err := h.answers.Get(r.Context(), proposalID)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Proposal not found")
		return
	}

	resp := models.ProposalDetail{Proposal: proposal}
	if found {
		resp.Answers = &doc
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// UpdateStatus handles POST /proposals/:id/status
func (h *ProposalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}
	proposalID := r.PathValue("id")

	var req models.UpdateStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !models.IsValidStatus(req.Status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be one of draft, sent, accepted, declined")
		return
	}

	proposal, err := h.records.UpdateStatus(r.Context(), identity.UserID, proposalID, req.Status)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Proposal not found")
		return
	}

	slog.Info("proposal status updated", "proposal_id", proposalID, "status", req.Status)
	middleware.JSONResponse(w, http.StatusOK, proposal)
}

// EnableSharing handles POST /proposals/:id/share
// Returns the existing link if the proposal is already shared.
func (h *ProposalHandler) EnableSharing(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}
	proposalID := r.PathValue("id")

	proposal, err := h.records.EnableSharing(r.Context(), identity.UserID, proposalID)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Proposal not found")
		return
	}
	if proposal.ShareToken == nil {
		slog.Error("shared proposal has no token", "proposal_id", proposalID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to enable sharing")
		return
	}

	token := *proposal.ShareToken
	slog.Info("sharing enabled", "proposal_id", proposalID)
	middleware.JSONResponse(w, http.StatusOK, models.ShareLinkResponse{
		ShareToken: token,
		ShareURL:   shareURL(h.cfg.PublicBaseURL, token),
	})
}

// RevokeSharing handles DELETE /proposals/:id/share
// The old link stops resolving immediately.
func (h *ProposalHandler) RevokeSharing(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}
	proposalID := r.PathValue("id")

	if err := h.records.RevokeSharing(r.Context(), identity.UserID, proposalID); err != nil {
		middleware.ErrorFromErr(w, err, "Proposal not found")
		return
	}

	slog.Info("sharing revoked", "proposal_id", proposalID)
	w.WriteHeader(http.StatusNoContent)
}

func shareURL(base, token string) string {
	return strings.TrimRight(base, "/") + "/share/" + url.PathEscape(token)
}
