// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/propose/cliparse"
	"github.com/danielhkuo/propose/middleware"
	"github.com/danielhkuo/propose/models"
	"github.com/danielhkuo/propose/store"
)

type ClientHandler struct {
	records *store.Records
	cfg     cliparse.Config
}

func NewClientHandler(db *sql.DB, cfg cliparse.Config) *ClientHandler {
	return &ClientHandler{records: store.NewRecords(db), cfg: cfg}
}

// CreateClient handles POST /clients
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}

	var req models.CreateClientRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	client, err := h.records.CreateClient(r.Context(), identity.UserID, name)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Client not found")
		return
	}

	slog.Info("client created", "client_id", client.ID, "user_id", identity.UserID)
	middleware.JSONResponse(w, http.StatusCreated, client)
}

// ListClients handles GET /clients
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}

	clients, err := h.records.ListClients(r.Context(), identity.UserID)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Client not found")
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListClientsResponse{Clients: clients})
}

// GetClient handles GET /clients/:id
// Returns the client with its proposals, newest first.
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}
	clientID := r.PathValue("id")

	client, err := h.records.GetClient(r.Context(), identity.UserID, clientID)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Client not found")
		return
	}

	proposals, err := h.records.ListProposals(r.Context(), identity.UserID, clientID)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Client not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ClientWithProposals{
		Client:    client,
		Proposals: proposals,
	})
}

// ArchiveClient handles POST /clients/:id/archive
func (h *ClientHandler) ArchiveClient(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}
	clientID := r.PathValue("id")

	if err := h.records.ArchiveClient(r.Context(), identity.UserID, clientID); err != nil {
		middleware.ErrorFromErr(w, err, "Client not found")
		return
	}

	client, err := h.records.GetClient(r.Context(), identity.UserID, clientID)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Client not found")
		return
	}

	slog.Info("client archived", "client_id", clientID)
	middleware.JSONResponse(w, http.StatusOK, client)
}

// CreateProposal handles POST /clients/:id/proposals
// New proposals start as drafts with no answers.
func (h *ClientHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}
	clientID := r.PathValue("id")

	var req models.CreateProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	proposal, err := h.records.CreateProposal(r.Context(), identity.UserID, clientID, name)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Client not found")
		return
	}

	slog.Info("proposal created", "proposal_id", proposal.ID, "client_id", clientID)
	middleware.JSONResponse(w, http.StatusCreated, proposal)
}
