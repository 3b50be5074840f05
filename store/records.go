// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/propose/auth"
	"github.com/danielhkuo/propose/models"
)

// Records manages clients and proposals. Every method except
// FindByShareToken only sees rows owned by the given user.
type Records struct {
	db *sql.DB
}

func NewRecords(db *sql.DB) *Records {
	return &Records{db: db}
}

const proposalColumns = `id, client_id, user_id, name, status, created_at, updated_at, share_token`

type scanner interface {
	Scan(dest ...any) error
}

func scanProposal(row scanner) (models.Proposal, error) {
	var p models.Proposal
	err := row.Scan(&p.ID, &p.ClientID, &p.UserID, &p.Name, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.ShareToken)
	return p, err
}

// CreateClient inserts a client owned by userID.
func (s *Records) CreateClient(ctx context.Context, userID, name string) (models.Client, error) {
	c := models.Client{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client (id, user_id, name, archived, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.UserID, c.Name, false, c.CreatedAt)
	if err != nil {
		return models.Client{}, storeErr("insert client", err)
	}

	return c, nil
}

// ListClients returns the user's non-archived clients, newest first.
func (s *Records) ListClients(ctx context.Context, userID string) ([]models.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, archived, created_at
		FROM client
		WHERE user_id = $1 AND archived = $2
		ORDER BY created_at DESC
	`, userID, false)
	if err != nil {
		return nil, storeErr("query clients", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Archived, &c.CreatedAt); err != nil {
			return nil, storeErr("scan client", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate clients", err)
	}

	return clients, nil
}

// GetClient returns one client owned by userID.
func (s *Records) GetClient(ctx context.Context, userID, clientID string) (models.Client, error) {
	var c models.Client
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, archived, created_at
		FROM client
		WHERE id = $1 AND user_id = $2
	`, clientID, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.Archived, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, fmt.Errorf("client %s: %w", clientID, models.ErrNotFound)
	}
	if err != nil {
		return models.Client{}, storeErr("query client", err)
	}

	return c, nil
}

// ArchiveClient hides a client from ListClients. Its proposals are kept.
func (s *Records) ArchiveClient(ctx context.Context, userID, clientID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE client SET archived = $1 WHERE id = $2 AND user_id = $3
	`, true, clientID, userID)
	if err != nil {
		return storeErr("archive client", err)
	}
	return expectOneRow(res, "client", clientID)
}

// CreateProposal inserts a draft proposal for one of the user's clients.
func (s *Records) CreateProposal(ctx context.Context, userID, clientID, name string) (models.Proposal, error) {
	if _, err := s.GetClient(ctx, userID, clientID); err != nil {
		return models.Proposal{}, err
	}

	now := time.Now().UTC()
	p := models.Proposal{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		UserID:    userID,
		Name:      name,
		Status:    models.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO proposal (id, client_id, user_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.ClientID, p.UserID, p.Name, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return models.Proposal{}, storeErr("insert proposal", err)
	}

	return p, nil
}

// ListProposals returns the proposals of one client, newest first.
func (s *Records) ListProposals(ctx context.Context, userID, clientID string) ([]models.Proposal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+proposalColumns+`
		FROM proposal
		WHERE client_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`, clientID, userID)
	if err != nil {
		return nil, storeErr("query proposals", err)
	}
	defer rows.Close()

	proposals := []models.Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, storeErr("scan proposal", err)
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate proposals", err)
	}

	return proposals, nil
}

// GetProposal returns one proposal owned by userID.
func (s *Records) GetProposal(ctx context.Context, userID, proposalID string) (models.Proposal, error) {
	p, err := scanProposal(s.db.QueryRowContext(ctx, `
		SELECT `+proposalColumns+`
		FROM proposal
		WHERE id = $1 AND user_id = $2
	`, proposalID, userID))

	if errors.Is(err, sql.ErrNoRows) {
		return models.Proposal{}, fmt.Errorf("proposal %s: %w", proposalID, models.ErrNotFound)
	}
	if err != nil {
		return models.Proposal{}, storeErr("query proposal", err)
	}

	return p, nil
}

// OwnsProposal reports whether userID owns the proposal.
func (s *Records) OwnsProposal(ctx context.Context, userID, proposalID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM proposal WHERE id = $1 AND user_id = $2
	`, proposalID, userID).Scan(&one)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeErr("check proposal owner", err)
	}
	return true, nil
}

// UpdateStatus sets the proposal status and bumps updated_at.
func (s *Records) UpdateStatus(ctx context.Context, userID, proposalID, status string) (models.Proposal, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE proposal SET status = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`, status, time.Now().UTC(), proposalID, userID)
	if err != nil {
		return models.Proposal{}, storeErr("update proposal status", err)
	}
	if err := expectOneRow(res, "proposal", proposalID); err != nil {
		return models.Proposal{}, err
	}
	return s.GetProposal(ctx, userID, proposalID)
}

// EnableSharing gives the proposal a share token. A proposal that is already
// shared keeps its current token.
func (s *Records) EnableSharing(ctx context.Context, userID, proposalID string) (models.Proposal, error) {
	p, err := s.GetProposal(ctx, userID, proposalID)
	if err != nil {
		return models.Proposal{}, err
	}
	if p.ShareToken != nil {
		return p, nil
	}

	token, err := auth.GenerateShareToken()
	if err != nil {
		return models.Proposal{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE proposal SET share_token = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4 AND share_token IS NULL
	`, token, time.Now().UTC(), proposalID, userID)
	if err != nil {
		return models.Proposal{}, storeErr("enable sharing", err)
	}

	// Re-read so a concurrent enable returns whichever token won
	return s.GetProposal(ctx, userID, proposalID)
}

// RevokeSharing clears the share token; the old link stops resolving.
func (s *Records) RevokeSharing(ctx context.Context, userID, proposalID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE proposal SET share_token = NULL, updated_at = $1
		WHERE id = $2 AND user_id = $3
	`, time.Now().UTC(), proposalID, userID)
	if err != nil {
		return storeErr("revoke sharing", err)
	}
	return expectOneRow(res, "proposal", proposalID)
}

// FindByShareToken returns the proposals whose share token equals token.
// It is not owner-scoped. At most two rows are read, which is enough for the
// caller to tell a unique match from an inconsistent one.
func (s *Records) FindByShareToken(ctx context.Context, token string) ([]models.Proposal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+proposalColumns+`
		FROM proposal
		WHERE share_token = $1
		LIMIT 2
	`, token)
	if err != nil {
		return nil, storeErr("query proposal by share token", err)
	}
	defer rows.Close()

	var matches []models.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, storeErr("scan proposal", err)
		}
		matches = append(matches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate proposals", err)
	}

	return matches, nil
}

func expectOneRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
	}
	return nil
}
