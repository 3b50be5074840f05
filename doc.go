// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the propose API server.

propose lets a user build proposals for their clients through a step-by-step
questionnaire. Answers are saved continuously while the user types, and a
proposal can be shared read-only through an unguessable link.

# Starting the Server

The server reads flags, environment variables, and an optional .env file:

	DATABASE_URL=propose.db SESSION_SALT=dev go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --session-salt dev

Print a session token for a user (local testing):

	SESSION_SALT=dev go run . token user-1

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - SESSION_SALT (--session-salt): Secret for session token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - AUTOSAVE_DELAY (--autosave): Quiet period before a save (default: 600ms)
  - SESSION_IDLE_TIMEOUT (--idle): Idle edit sessions are closed after this (default: 30m)
  - WIZARD_STEPS (--steps): YAML file replacing the built-in questions
  - PUBLIC_BASE_URL (--base-url): Prefix for share links

# Architecture

  - handlers: HTTP request handlers (clients, proposals, editing, share view)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, error mapping
  - editor: Open edit sessions (wizard + autosave per user and proposal)
  - wizard: Step state machine and question catalog
  - draftsync: Debounced, serialized answer saves
  - snapshot: Public share view composition
  - store: SQL access for clients, proposals, and answers
  - metrics: Prometheus collectors
  - models: Domain, request, and response types
  - auth: Session and share token generation
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
