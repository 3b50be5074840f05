// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draftsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/propose/auth"
	"github.com/danielhkuo/propose/metrics"
	"github.com/danielhkuo/propose/models"
	"github.com/dustin/go-humanize"
)

const (
	DefaultDelay       = 600 * time.Millisecond
	DefaultSaveTimeout = 10 * time.Second
)

// ErrClosed is returned by Retry after Close.
var ErrClosed = errors.New("synchronizer closed")

// Saver persists a full answer document for a proposal.
type Saver interface {
	Upsert(ctx context.Context, proposalID string, doc models.Document) error
}

// Authorizer answers whether a user owns a proposal.
type Authorizer interface {
	OwnsProposal(ctx context.Context, userID, proposalID string) (bool, error)
}

type Config struct {
	ProposalID string
	Identity   auth.Identity
	Store      Saver
	Authorizer Authorizer

	// Delay is the quiet period after the last edit before a save starts.
	Delay time.Duration
	// SaveTimeout bounds a timer-driven write.
	SaveTimeout time.Duration
	Scheduler   Scheduler
	Metrics     *metrics.Metrics
}

// Synchronizer debounces document edits into single writes. At most one
// timer is pending at any time and writes never run concurrently, so a
// later document is never overwritten by an earlier one.
type Synchronizer struct {
	identity auth.Identity
	store    Saver
	authz    Authorizer
	sched    Scheduler
	metrics  *metrics.Metrics
	delay    time.Duration
	timeout  time.Duration

	// saveMu is held for the whole of a write. Acquire before mu.
	saveMu sync.Mutex

	mu         sync.Mutex
	proposalID string
	candidate  models.Document
	dirty      bool
	timer      Timer
	gen        uint64
	closed     bool
	status     Status
	listeners  []func(Status)
}

func New(cfg Config) (*Synchronizer, error) {
	if cfg.Store == nil || cfg.Authorizer == nil {
		return nil, errors.New("draftsync: store and authorizer are required")
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = DefaultSaveTimeout
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = WallClock{}
	}

	return &Synchronizer{
		identity:   cfg.Identity,
		store:      cfg.Store,
		authz:      cfg.Authorizer,
		sched:      cfg.Scheduler,
		metrics:    cfg.Metrics,
		delay:      cfg.Delay,
		timeout:    cfg.SaveTimeout,
		proposalID: cfg.ProposalID,
	}, nil
}

// ScheduleSave records doc as the latest candidate for proposalID and
// restarts the quiet period. A different proposalID drops the pending save
// for the previous one. Calls after Close are ignored.
func (s *Synchronizer) ScheduleSave(proposalID string, doc models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if proposalID != s.proposalID {
		slog.Debug("autosave target changed", "from", s.proposalID, "to", proposalID)
		s.proposalID = proposalID
	}

	s.stopTimerLocked()
	s.gen++
	gen := s.gen
	s.candidate = doc.Clone()
	s.dirty = true
	s.timer = s.sched.AfterFunc(s.delay, func() { s.fire(gen) })
}

// Retry writes the latest candidate now, cancelling any pending timer. It
// returns nil without writing when nothing is unsaved.
func (s *Synchronizer) Retry(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	s.stopTimerLocked()
	s.gen++
	gen := s.gen
	proposalID, doc := s.proposalID, s.candidate
	s.mu.Unlock()

	return s.save(ctx, gen, proposalID, doc)
}

// Close drops the pending save, if any, and ignores later edits. A write
// already in progress runs to completion. Close reports whether a pending
// save was dropped.
func (s *Synchronizer) Close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.closed = true
	s.gen++
	return s.stopTimerLocked()
}

func (s *Synchronizer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Dirty reports whether the latest candidate has not been written yet.
func (s *Synchronizer) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Subscribe registers fn to be called with every status change.
func (s *Synchronizer) Subscribe(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Synchronizer) fire(gen uint64) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	proposalID, doc := s.proposalID, s.candidate
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_ = s.save(ctx, gen, proposalID, doc)
}

// save runs one write. The caller holds saveMu.
func (s *Synchronizer) save(ctx context.Context, gen uint64, proposalID string, doc models.Document) error {
	s.setStatus(func(st *Status) {
		st.State = StateSaving
		st.Reason = nil
	})

	start := time.Now()
	err := s.write(ctx, proposalID, doc)
	took := time.Since(start)

	if err != nil {
		result := metrics.ResultFailed
		if errors.Is(err, models.ErrUnauthorized) {
			result = metrics.ResultUnauthorized
		}
		s.metrics.ObserveAutosave(result, took)
		slog.Error("failed to save answers", "proposal_id", proposalID, "error", err)

		s.setStatus(func(st *Status) {
			st.State = StateFailed
			st.Reason = err
		})
		return err
	}

	s.metrics.ObserveAutosave(metrics.ResultSaved, took)
	slog.Info("answers saved",
		"proposal_id", proposalID,
		"answers", len(doc),
		"size", humanize.Bytes(documentSize(doc)),
		"duration_ms", took.Milliseconds())

	s.setStatus(func(st *Status) {
		if s.gen == gen {
			s.dirty = false
		}
		st.State = StateSaved
		st.Reason = nil
		st.SavedAt = time.Now()
	})
	return nil
}

func (s *Synchronizer) write(ctx context.Context, proposalID string, doc models.Document) error {
	if s.identity.IsZero() {
		return fmt.Errorf("%w: no authenticated session", models.ErrUnauthorized)
	}

	owns, err := s.authz.OwnsProposal(ctx, s.identity.UserID, proposalID)
	if err != nil {
		return err
	}
	if !owns {
		return fmt.Errorf("%w: session does not own proposal %s", models.ErrUnauthorized, proposalID)
	}

	return s.store.Upsert(ctx, proposalID, doc)
}

// setStatus applies fn under mu and notifies listeners after releasing it.
func (s *Synchronizer) setStatus(fn func(*Status)) {
	s.mu.Lock()
	fn(&s.status)
	st := s.status
	listeners := append([]func(Status){}, s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(st)
	}
}

func (s *Synchronizer) stopTimerLocked() bool {
	if s.timer == nil {
		return false
	}
	stopped := s.timer.Stop()
	s.timer = nil
	return stopped
}

func documentSize(doc models.Document) uint64 {
	b, err := json.Marshal(doc)
	if err != nil {
		return 0
	}
	return uint64(len(b))
}
