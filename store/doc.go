// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists clients, proposals, and answer documents.

# Answers

Answers is the answer store client used by autosave and the share view:

	answers := store.NewAnswers(db)
	doc, ok, err := answers.Get(ctx, proposalID)   // ok == false: nothing saved yet
	err = answers.Upsert(ctx, proposalID, doc)     // create or fully replace

Upsert uses INSERT ... ON CONFLICT (proposal_id) DO UPDATE, so repeating a
call with the same document changes nothing.

# Records

Records is the owner-scoped record store. Every query filters on the
caller's user ID, except FindByShareToken which serves the public share view.

# Errors

Missing rows wrap models.ErrNotFound. Driver failures wrap models.ErrStore
together with the driver error.

Queries use $n placeholders, which both lib/pq and modernc.org/sqlite accept.
*/
package store
