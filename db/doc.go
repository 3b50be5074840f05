// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open selects the driver from the database type:

	conn, err := db.Open(db.TypePostgres, "postgres://...")  // lib/pq
	conn, err := db.Open(db.TypeSQLite, "./propose.db")      // modernc.org/sqlite

SQLite connections run with foreign keys enabled and a single pooled
connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - client: Clients owned by a user
  - proposal: Proposal metadata, status, and optional share token
  - proposal_answers: The answer document of a proposal

# Relationships

	client 1──* proposal
	proposal 1──0..1 proposal_answers

Answers live in their own table keyed by proposal_id, so autosaves never
touch proposal rows. The answer row is created by the first save, not when
the proposal is created. All foreign keys use ON DELETE CASCADE.

# Indexes

  - client.user_id
  - proposal.client_id
  - proposal.user_id
  - proposal.share_token (unique)
*/
package db
