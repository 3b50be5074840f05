// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draftsync

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/danielhkuo/propose/models"
)

// State is the autosave state shown next to the editor.
type State int

const (
	StateIdle State = iota
	StateSaving
	StateSaved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Status is a point-in-time view of the synchronizer.
type Status struct {
	State State
	// Reason is set when State is StateFailed.
	Reason error
	// SavedAt is the time of the last successful write, zero if none.
	SavedAt time.Time
}

// Unauthorized reports whether the last save failed the ownership check.
func (s Status) Unauthorized() bool {
	return s.State == StateFailed && errors.Is(s.Reason, models.ErrUnauthorized)
}

// Message is the user-facing text for a failed save. Store details stay in
// the server log.
func (s Status) Message() string {
	switch {
	case s.State != StateFailed:
		return ""
	case s.Unauthorized():
		return "session no longer owns this proposal"
	}
	return "Autosave failed"
}

func (s Status) MarshalJSON() ([]byte, error) {
	out := struct {
		State        string     `json:"state"`
		Reason       string     `json:"reason,omitempty"`
		Unauthorized bool       `json:"unauthorized,omitempty"`
		SavedAt      *time.Time `json:"saved_at,omitempty"`
	}{
		State:        s.State.String(),
		Reason:       s.Message(),
		Unauthorized: s.Unauthorized(),
	}
	if !s.SavedAt.IsZero() {
		out.SavedAt = &s.SavedAt
	}
	return json.Marshal(out)
}
