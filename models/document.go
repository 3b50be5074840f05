// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is a single answer. It is either Text or Selection.
type Value interface {
	isValue()
}

// Text answers text and long-text questions.
type Text string

// Selection answers multi-select questions. It behaves as a set that keeps
// the order options were first selected in.
type Selection []string

func (Text) isValue()      {}
func (Selection) isValue() {}

// Contains reports whether option is selected.
func (s Selection) Contains(option string) bool {
	for _, o := range s {
		if o == option {
			return true
		}
	}
	return false
}

// Toggle returns a new selection with option removed if present, appended otherwise.
func (s Selection) Toggle(option string) Selection {
	out := make(Selection, 0, len(s)+1)
	found := false
	for _, o := range s {
		if o == option {
			found = true
			continue
		}
		out = append(out, o)
	}
	if !found {
		out = append(out, option)
	}
	return out
}

// MarshalJSON encodes an empty or nil selection as [] so that a deselected
// multi-select stays distinguishable from an unanswered one.
func (s Selection) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// NewSelection builds a selection, dropping duplicates.
func NewSelection(options ...string) Selection {
	out := make(Selection, 0, len(options))
	for _, o := range options {
		if !out.Contains(o) {
			out = append(out, o)
		}
	}
	return out
}

// Document maps question keys to answers. Absent keys are unanswered.
type Document map[string]Value

// Clone returns a copy that shares no mutable state with d.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		if sel, ok := v.(Selection); ok {
			v = append(Selection{}, sel...)
		}
		out[k] = v
	}
	return out
}

// Text returns the text answer for key.
func (d Document) Text(key string) (string, bool) {
	t, ok := d[key].(Text)
	return string(t), ok
}

// Selection returns the multi-select answer for key.
func (d Document) Selection(key string) (Selection, bool) {
	s, ok := d[key].(Selection)
	return s, ok
}

// UnmarshalJSON reads a stored answer document. Null members are treated as
// unanswered and skipped.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: answers must be an object: %v", ErrValidation, err)
	}

	doc := make(Document, len(raw))
	for key, msg := range raw {
		v, err := DecodeValue(msg)
		if err != nil {
			return fmt.Errorf("answer %q: %w", key, err)
		}
		if v != nil {
			doc[key] = v
		}
	}
	*d = doc
	return nil
}

// DecodeValue decodes a JSON string into Text and a JSON array of strings
// into Selection. JSON null decodes to a nil Value.
func DecodeValue(msg json.RawMessage) (Value, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return nil, nil
	}

	switch msg[0] {
	case '"':
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return Text(s), nil
	case '[':
		var list []string
		if err := json.Unmarshal(msg, &list); err != nil {
			return nil, fmt.Errorf("%w: expected a list of strings", ErrValidation)
		}
		return NewSelection(list...), nil
	}
	return nil, fmt.Errorf("%w: expected a string or a list of strings", ErrValidation)
}
