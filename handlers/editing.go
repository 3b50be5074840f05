// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/propose/auth"
	"github.com/danielhkuo/propose/cliparse"
	"github.com/danielhkuo/propose/editor"
	"github.com/danielhkuo/propose/middleware"
	"github.com/danielhkuo/propose/models"
)

// EditHandler serves the wizard. Every call needs the session token of the
// user who opened the edit session.
type EditHandler struct {
	editors *editor.Manager
	cfg     cliparse.Config
}

func NewEditHandler(editors *editor.Manager, cfg cliparse.Config) *EditHandler {
	return &EditHandler{editors: editors, cfg: cfg}
}

// OpenSession handles POST /proposals/:id/edit
func (h *EditHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}

	sess, err := h.editors.Open(r.Context(), identity, r.PathValue("id"))
	if err != nil {
		middleware.ErrorFromErr(w, err, "Proposal not found")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, sess.State())
}

// GetSession handles GET /edit/:session
func (h *EditHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sess.State())
}

// SetAnswer handles PUT /edit/:session/answers/:key
// The body value is a string for text steps and a list for multi-select.
func (h *EditHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.SetAnswerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	value, err := models.DecodeValue(req.Value)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if value == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "value is required")
		return
	}

	state, err := sess.SetAnswer(r.PathValue("key"), value)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Step not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// ToggleOption handles POST /edit/:session/answers/:key/toggle
func (h *EditHandler) ToggleOption(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.ToggleOptionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Option == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option is required")
		return
	}

	state, err := sess.Toggle(r.PathValue("key"), req.Option)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Step not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// Advance handles POST /edit/:session/advance
func (h *EditHandler) Advance(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sess.Advance())
}

// Retreat handles POST /edit/:session/retreat
func (h *EditHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sess.Retreat())
}

// RetrySave handles POST /edit/:session/retry
// Writes the current answers now instead of waiting for the next edit.
func (h *EditHandler) RetrySave(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	state, err := sess.Retry(r.Context())
	if err != nil {
		middleware.ErrorFromErr(w, err, "Proposal not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// CloseSession handles DELETE /edit/:session
// A save still waiting for its quiet period is dropped.
func (h *EditHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}

	if err := h.editors.Close(identity, r.PathValue("session")); err != nil {
		middleware.ErrorFromErr(w, err, "Edit session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EditHandler) session(w http.ResponseWriter, r *http.Request) (*editor.Session, bool) {
	identity, ok := requireIdentity(w, r, h.cfg.SessionSalt)
	if !ok {
		return nil, false
	}
	return h.lookup(w, identity, r.PathValue("session"))
}

func (h *EditHandler) lookup(w http.ResponseWriter, identity auth.Identity, sessionID string) (*editor.Session, bool) {
	sess, err := h.editors.Get(identity, sessionID)
	if err != nil {
		middleware.ErrorFromErr(w, err, "Edit session not found")
		return nil, false
	}
	return sess, true
}
