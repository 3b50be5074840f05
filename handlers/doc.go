// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the propose API.

# Handler Types

  - ShareHandler: Public share view
  - ClientHandler: Clients and new proposals
  - ProposalHandler: Proposal status and share links
  - EditHandler: Edit sessions (wizard steps and autosave)

Record handlers are created from *sql.DB and Config:

	clientHandler := handlers.NewClientHandler(db, cfg)

# Sessions

Every route except the share view needs a session token:

	Authorization: Bearer <user-id>.<signature>

A missing or forged token is a 401. Records of other users read as 404.

# Share View

	GET /share/{token} → GetShare

Unknown or revoked tokens are 404. A shared proposal with no saved answers
is a 200 with "answers": null. Store failures are 500.

# Editing

	POST /proposals/{id}/edit            → OpenSession (returns session_id)
	PUT  /edit/{session}/answers/{key}   → SetAnswer
	POST /edit/{session}/answers/{key}/toggle → ToggleOption

Edits return the session state immediately and are saved after the
autosave delay. The state carries the save status and an unsaved flag.
*/
package handlers
