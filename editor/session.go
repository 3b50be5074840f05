// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

import (
	"context"
	"sync"
	"time"

	"github.com/danielhkuo/propose/auth"
	"github.com/danielhkuo/propose/draftsync"
	"github.com/danielhkuo/propose/models"
	"github.com/danielhkuo/propose/wizard"
)

// Session is one open editor on one proposal. It is safe for concurrent use.
type Session struct {
	id       string
	identity auth.Identity
	proposal models.Proposal
	now      func() time.Time

	mu       sync.Mutex
	wiz      *wizard.Wizard
	sync     *draftsync.Synchronizer
	lastUsed time.Time
}

// State is the JSON view of a session returned by the edit endpoints.
type State struct {
	SessionID    string           `json:"session_id"`
	ProposalID   string           `json:"proposal_id"`
	ProposalName string           `json:"proposal_name"`
	StepIndex    int              `json:"step_index"`
	StepCount    int              `json:"step_count"`
	Step         wizard.Step      `json:"step"`
	Progress     int              `json:"progress"`
	Answers      models.Document  `json:"answers"`
	Save         draftsync.Status `json:"save"`
	Unsaved      bool             `json:"unsaved"`
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) ProposalID() string {
	return s.proposal.ID
}

// State returns the current view of the session. Reading it counts as use,
// so a client that only polls is not swept as idle.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.stateLocked()
}

// SetAnswer replaces the answer for key and schedules a save.
func (s *Session) SetAnswer(key string, value models.Value) (State, error) {
	return s.edit(func() error { return s.wiz.SetAnswer(key, value) })
}

// Toggle flips one option of a multi-select step and schedules a save.
func (s *Session) Toggle(key, option string) (State, error) {
	return s.edit(func() error { return s.wiz.Toggle(key, option) })
}

func (s *Session) Advance() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.wiz.Advance()
	return s.stateLocked()
}

func (s *Session) Retreat() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.wiz.Retreat()
	return s.stateLocked()
}

// Retry writes the current answers now. The returned state reflects the
// outcome whether or not the write failed.
func (s *Session) Retry(ctx context.Context) (State, error) {
	s.mu.Lock()
	s.touch()
	s.mu.Unlock()

	err := s.sync.Retry(ctx)
	return s.State(), err
}

func (s *Session) edit(fn func() error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if err := fn(); err != nil {
		return State{}, err
	}
	return s.stateLocked(), nil
}

func (s *Session) stateLocked() State {
	return State{
		SessionID:    s.id,
		ProposalID:   s.proposal.ID,
		ProposalName: s.proposal.Name,
		StepIndex:    s.wiz.Index(),
		StepCount:    len(s.wiz.Steps()),
		Step:         s.wiz.Current(),
		Progress:     s.wiz.Progress(),
		Answers:      s.wiz.Answers(),
		Save:         s.sync.Status(),
		Unsaved:      s.sync.Dirty(),
	}
}

func (s *Session) touch() {
	s.lastUsed = s.now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// close tears down the synchronizer and reports whether a pending save was dropped.
func (s *Session) close() bool {
	return s.sync.Close()
}
