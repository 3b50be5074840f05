// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/propose/auth"
	"github.com/danielhkuo/propose/draftsync"
	"github.com/danielhkuo/propose/metrics"
	"github.com/danielhkuo/propose/models"
	"github.com/danielhkuo/propose/wizard"
)

// Proposals is the owner-scoped proposal lookup. store.Records implements it.
type Proposals interface {
	GetProposal(ctx context.Context, userID, proposalID string) (models.Proposal, error)
	OwnsProposal(ctx context.Context, userID, proposalID string) (bool, error)
}

// Answers loads and saves answer documents. store.Answers implements it.
type Answers interface {
	Get(ctx context.Context, proposalID string) (models.Document, bool, error)
	Upsert(ctx context.Context, proposalID string, doc models.Document) error
}

type Config struct {
	Proposals Proposals
	Answers   Answers
	Steps     []wizard.Step
	Delay     time.Duration
	Scheduler draftsync.Scheduler
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

// Manager tracks open edit sessions by ID.
type Manager struct {
	cfg Config

	mu       sync.Mutex
	steps    []wizard.Step
	sessions map[string]*Session
}

func NewManager(cfg Config) *Manager {
	if cfg.Steps == nil {
		cfg.Steps = wizard.DefaultSteps()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		cfg:      cfg,
		steps:    cfg.Steps,
		sessions: make(map[string]*Session),
	}
}

// SetSteps swaps the question catalog used by sessions opened from now on.
// Open sessions keep the catalog they started with.
func (m *Manager) SetSteps(steps []wizard.Step) error {
	if err := wizard.ValidateSteps(steps); err != nil {
		return err
	}
	m.mu.Lock()
	m.steps = steps
	m.mu.Unlock()
	return nil
}

// Open starts an edit session for a proposal the identity owns. The stored
// answers seed the wizard; a proposal with none starts empty. An earlier
// session of the same identity on the same proposal is closed first.
func (m *Manager) Open(ctx context.Context, identity auth.Identity, proposalID string) (*Session, error) {
	if identity.IsZero() {
		return nil, fmt.Errorf("%w: no authenticated session", models.ErrUnauthorized)
	}

	proposal, err := m.cfg.Proposals.GetProposal(ctx, identity.UserID, proposalID)
	if err != nil {
		return nil, err
	}

	doc, _, err := m.cfg.Answers.Get(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStore, err)
	}

	syncer, err := draftsync.New(draftsync.Config{
		ProposalID: proposalID,
		Identity:   identity,
		Store:      m.cfg.Answers,
		Authorizer: m.cfg.Proposals,
		Delay:      m.cfg.Delay,
		Scheduler:  m.cfg.Scheduler,
		Metrics:    m.cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	syncer.Subscribe(func(st draftsync.Status) {
		if st.Unauthorized() {
			slog.Warn("edit session lost access to proposal",
				"session_id", id,
				"proposal_id", proposalID,
				"user_id", identity.UserID)
		}
	})

	m.mu.Lock()
	steps := m.steps
	m.mu.Unlock()

	wiz, err := wizard.New(steps, doc, func(d models.Document) {
		syncer.ScheduleSave(proposalID, d)
	})
	if err != nil {
		return nil, err
	}

	sess := &Session{
		id:       id,
		identity: identity,
		proposal: proposal,
		now:      m.cfg.Now,
		wiz:      wiz,
		sync:     syncer,
		lastUsed: m.cfg.Now(),
	}

	m.mu.Lock()
	for sid, other := range m.sessions {
		if other.identity == identity && other.proposal.ID == proposalID {
			delete(m.sessions, sid)
			m.closeSession(other, "reopened")
		}
	}
	m.sessions[id] = sess
	m.cfg.Metrics.SetEditSessions(len(m.sessions))
	m.mu.Unlock()

	slog.Info("edit session opened",
		"session_id", id,
		"proposal_id", proposalID,
		"answers", len(doc))

	return sess, nil
}

// Get returns a session owned by identity. Sessions of other users read as
// not found.
func (m *Manager) Get(identity auth.Identity, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok || identity.IsZero() || sess.identity != identity {
		return nil, fmt.Errorf("%w: edit session %s", models.ErrNotFound, sessionID)
	}
	return sess, nil
}

// Close tears down one session. Its pending save, if any, is dropped.
func (m *Manager) Close(identity auth.Identity, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok || identity.IsZero() || sess.identity != identity {
		return fmt.Errorf("%w: edit session %s", models.ErrNotFound, sessionID)
	}
	delete(m.sessions, sessionID)
	m.closeSession(sess, "closed")
	m.cfg.Metrics.SetEditSessions(len(m.sessions))
	return nil
}

// Sweep closes sessions unused for longer than idle and returns how many.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.cfg.Now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, sess := range m.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			m.closeSession(sess, "idle")
			n++
		}
	}
	m.cfg.Metrics.SetEditSessions(len(m.sessions))
	return n
}

// CloseAll tears down every session. Used on shutdown.
func (m *Manager) CloseAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.sessions)
	for id, sess := range m.sessions {
		delete(m.sessions, id)
		m.closeSession(sess, "shutdown")
	}
	m.cfg.Metrics.SetEditSessions(0)
	return n
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// closeSession is called with m.mu held.
func (m *Manager) closeSession(sess *Session, reason string) {
	dropped := sess.close()
	slog.Info("edit session closed",
		"session_id", sess.id,
		"proposal_id", sess.proposal.ID,
		"reason", reason,
		"dropped_pending_save", dropped)
}
