// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the propose API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, editors, metrics)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Share view (public, token only):

	GET /share/{token} - Proposal snapshot with answers

Clients (requires Authorization: Bearer):

	POST /clients                  - Create client
	GET  /clients                  - List active clients
	GET  /clients/{id}             - Client with proposals
	POST /clients/{id}/archive     - Hide from the list
	POST /clients/{id}/proposals   - Create draft proposal

Proposals (requires Authorization: Bearer):

	GET    /proposals/{id}        - Proposal with saved answers
	POST   /proposals/{id}/status - Set draft/sent/accepted/declined
	POST   /proposals/{id}/share  - Enable share link
	DELETE /proposals/{id}/share  - Revoke share link

Editing (requires Authorization: Bearer):

	POST   /proposals/{id}/edit                    - Open edit session
	GET    /edit/{session}                         - Current state
	PUT    /edit/{session}/answers/{key}           - Replace an answer
	POST   /edit/{session}/answers/{key}/toggle    - Toggle an option
	POST   /edit/{session}/advance                 - Next step
	POST   /edit/{session}/retreat                 - Previous step
	POST   /edit/{session}/retry                   - Save now
	DELETE /edit/{session}                         - Close session

# Handler Initialization

Record handlers are built from the database connection and configuration.
Editing handlers share one editor.Manager so sessions survive across requests.
*/
package router
