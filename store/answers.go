// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/propose/models"
)

// Answers reads and writes answer documents keyed by proposal ID.
type Answers struct {
	db *sql.DB
}

func NewAnswers(db *sql.DB) *Answers {
	return &Answers{db: db}
}

// Get returns the answer document for a proposal. The bool is false when no
// document has been saved yet; that is not an error.
func (a *Answers) Get(ctx context.Context, proposalID string) (models.Document, bool, error) {
	var raw []byte
	err := a.db.QueryRowContext(ctx, `
		SELECT answers FROM proposal_answers WHERE proposal_id = $1
	`, proposalID).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeErr("query answers", err)
	}

	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, storeErr("decode answers", err)
	}
	if doc == nil {
		doc = models.Document{}
	}
	return doc, true, nil
}

// Upsert creates the answer document or fully replaces it.
// Repeating the call with the same document leaves the same stored state.
func (a *Answers) Upsert(ctx context.Context, proposalID string, doc models.Document) error {
	if doc == nil {
		doc = models.Document{}
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode answers: %v", models.ErrValidation, err)
	}

	// Use INSERT ... ON CONFLICT so the first save creates the row
	_, err = a.db.ExecContext(ctx, `
		INSERT INTO proposal_answers (proposal_id, answers, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (proposal_id) DO UPDATE SET
			answers = EXCLUDED.answers,
			updated_at = EXCLUDED.updated_at
	`, proposalID, string(payload), time.Now().UTC())
	if err != nil {
		return storeErr("upsert answers", err)
	}

	return nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrStore, err)
}
