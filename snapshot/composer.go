// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/propose/metrics"
	"github.com/danielhkuo/propose/models"
)

// ErrNotConfigured is returned when the composer has no stores to read from.
var ErrNotConfigured = fmt.Errorf("%w: share view is not configured", models.ErrStore)

// ProposalFinder looks proposals up by share token. store.Records implements it.
type ProposalFinder interface {
	FindByShareToken(ctx context.Context, token string) ([]models.Proposal, error)
}

// AnswerReader loads answer documents. store.Answers implements it.
type AnswerReader interface {
	Get(ctx context.Context, proposalID string) (models.Document, bool, error)
}

// Composer assembles the public view of a shared proposal.
type Composer struct {
	proposals ProposalFinder
	answers   AnswerReader
	metrics   *metrics.Metrics
}

func NewComposer(proposals ProposalFinder, answers AnswerReader, m *metrics.Metrics) *Composer {
	return &Composer{proposals: proposals, answers: answers, metrics: m}
}

// Resolve returns the snapshot for token. It fails with models.ErrNotFound
// when no proposal carries the token and with models.ErrStore when a store
// fails or more than one proposal carries it. A proposal with no saved
// answers resolves with nil Answers.
//
// The proposal and its answers are read separately, not in one transaction.
func (c *Composer) Resolve(ctx context.Context, token string) (*models.SharedProposal, error) {
	snap, err := c.resolve(ctx, token)
	switch {
	case err == nil:
		c.metrics.ObserveShareResolution(metrics.OutcomeFound)
	case errors.Is(err, models.ErrNotFound):
		c.metrics.ObserveShareResolution(metrics.OutcomeNotFound)
	default:
		c.metrics.ObserveShareResolution(metrics.OutcomeError)
	}
	return snap, err
}

func (c *Composer) resolve(ctx context.Context, token string) (*models.SharedProposal, error) {
	if c == nil || c.proposals == nil || c.answers == nil {
		return nil, ErrNotConfigured
	}
	if token == "" {
		return nil, fmt.Errorf("share token: %w", models.ErrNotFound)
	}

	matches, err := c.proposals.FindByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("share token: %w", models.ErrNotFound)
	case 1:
	default:
		slog.Error("share token matches more than one proposal",
			"first_id", matches[0].ID,
			"second_id", matches[1].ID)
		return nil, fmt.Errorf("%w: share token matches %d proposals", models.ErrStore, len(matches))
	}
	p := matches[0]

	doc, ok, err := c.answers.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	snap := &models.SharedProposal{
		ID:         p.ID,
		Name:       p.Name,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		ShareToken: token,
	}
	if ok {
		snap.Answers = &doc
	}
	return snap, nil
}
