// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/propose/cliparse"
	"github.com/danielhkuo/propose/editor"
	"github.com/danielhkuo/propose/handlers"
	"github.com/danielhkuo/propose/metrics"
	"github.com/danielhkuo/propose/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, editors *editor.Manager, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	shareHandler := handlers.NewShareHandler(db, m)
	clientHandler := handlers.NewClientHandler(db, cfg)
	proposalHandler := handlers.NewProposalHandler(db, cfg)
	editHandler := handlers.NewEditHandler(editors, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", m.Handler())

	// Public share view (token only, no session)
	mux.HandleFunc("GET /share/{token}", middleware.WithLogging(shareHandler.GetShare))

	// Clients
	mux.HandleFunc("POST /clients", middleware.WithLogging(clientHandler.CreateClient))
	mux.HandleFunc("GET /clients", middleware.WithLogging(clientHandler.ListClients))
	mux.HandleFunc("GET /clients/{id}", middleware.WithLogging(clientHandler.GetClient))
	mux.HandleFunc("POST /clients/{id}/archive", middleware.WithLogging(clientHandler.ArchiveClient))
	mux.HandleFunc("POST /clients/{id}/proposals", middleware.WithLogging(clientHandler.CreateProposal))

	// Proposals
	mux.HandleFunc("GET /proposals/{id}", middleware.WithLogging(proposalHandler.GetProposal))
	mux.HandleFunc("POST /proposals/{id}/status", middleware.WithLogging(proposalHandler.UpdateStatus))
	mux.HandleFunc("POST /proposals/{id}/share", middleware.WithLogging(proposalHandler.EnableSharing))
	mux.HandleFunc("DELETE /proposals/{id}/share", middleware.WithLogging(proposalHandler.RevokeSharing))

	// Edit sessions (wizard + autosave)
	mux.HandleFunc("POST /proposals/{id}/edit", middleware.WithLogging(editHandler.OpenSession))
	mux.HandleFunc("GET /edit/{session}", middleware.WithLogging(editHandler.GetSession))
	mux.HandleFunc("PUT /edit/{session}/answers/{key}", middleware.WithLogging(editHandler.SetAnswer))
	mux.HandleFunc("POST /edit/{session}/answers/{key}/toggle", middleware.WithLogging(editHandler.ToggleOption))
	mux.HandleFunc("POST /edit/{session}/advance", middleware.WithLogging(editHandler.Advance))
	mux.HandleFunc("POST /edit/{session}/retreat", middleware.WithLogging(editHandler.Retreat))
	mux.HandleFunc("POST /edit/{session}/retry", middleware.WithLogging(editHandler.RetrySave))
	mux.HandleFunc("DELETE /edit/{session}", middleware.WithLogging(editHandler.CloseSession))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("propose API v1"))
	})

	return mux
}
