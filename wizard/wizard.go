// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"errors"
	"fmt"
	"math"

	"github.com/danielhkuo/propose/models"
)

var ErrInvalidSteps = errors.New("invalid steps")

// Wizard walks an ordered list of steps and edits an answer document.
// It is not safe for concurrent use.
type Wizard struct {
	steps    []Step
	index    int
	doc      models.Document
	onChange func(models.Document)
}

// New starts a wizard at the first step. doc is the document loaded for the
// proposal; nil starts from an empty one. onChange, if set, receives a copy of
// the document after every successful edit. Navigation never calls it.
func New(steps []Step, doc models.Document, onChange func(models.Document)) (*Wizard, error) {
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = models.Document{}
	}
	return &Wizard{
		steps:    append([]Step(nil), steps...),
		doc:      doc.Clone(),
		onChange: onChange,
	}, nil
}

func (w *Wizard) Steps() []Step {
	return append([]Step(nil), w.steps...)
}

func (w *Wizard) Index() int {
	return w.index
}

func (w *Wizard) Current() Step {
	return w.steps[w.index]
}

// Advance moves to the next step. At the last step it does nothing.
func (w *Wizard) Advance() int {
	if w.index < len(w.steps)-1 {
		w.index++
	}
	return w.index
}

// Retreat moves to the previous step. At the first step it does nothing.
func (w *Wizard) Retreat() int {
	if w.index > 0 {
		w.index--
	}
	return w.index
}

// Progress is round(100 * (index+1) / N).
func (w *Wizard) Progress() int {
	return int(math.Round(100 * float64(w.index+1) / float64(len(w.steps))))
}

// Answers returns a copy of the document being edited.
func (w *Wizard) Answers() models.Document {
	return w.doc.Clone()
}

// SetText replaces the answer of a text or long-text step.
func (w *Wizard) SetText(key, text string) error {
	step, err := w.step(key)
	if err != nil {
		return err
	}
	if step.Kind == KindMultiSelect {
		return fmt.Errorf("%w: step %q takes a selection, not text", models.ErrValidation, key)
	}

	w.doc[key] = models.Text(text)
	w.changed()
	return nil
}

// SetSelection replaces the answer of a multi-select step. Duplicates are dropped.
func (w *Wizard) SetSelection(key string, options []string) error {
	step, err := w.step(key)
	if err != nil {
		return err
	}
	if step.Kind != KindMultiSelect {
		return fmt.Errorf("%w: step %q takes text, not a selection", models.ErrValidation, key)
	}
	for _, o := range options {
		if !step.HasOption(o) {
			return fmt.Errorf("%w: %q is not an option of step %q", models.ErrValidation, o, key)
		}
	}

	w.doc[key] = models.NewSelection(options...)
	w.changed()
	return nil
}

// SetAnswer replaces the answer for key with a Text or Selection value.
func (w *Wizard) SetAnswer(key string, value models.Value) error {
	switch v := value.(type) {
	case models.Text:
		return w.SetText(key, string(v))
	case models.Selection:
		return w.SetSelection(key, v)
	}
	return fmt.Errorf("%w: step %q: no answer given", models.ErrValidation, key)
}

// Toggle selects option if it is not selected and deselects it otherwise.
// Deselecting the last option leaves an empty selection, not an absent answer.
func (w *Wizard) Toggle(key, option string) error {
	step, err := w.step(key)
	if err != nil {
		return err
	}
	if step.Kind != KindMultiSelect {
		return fmt.Errorf("%w: step %q is not multi-select", models.ErrValidation, key)
	}
	if !step.HasOption(option) {
		return fmt.Errorf("%w: %q is not an option of step %q", models.ErrValidation, option, key)
	}

	current, _ := w.doc.Selection(key)
	w.doc[key] = current.Toggle(option)
	w.changed()
	return nil
}

func (w *Wizard) step(key string) (Step, error) {
	for _, s := range w.steps {
		if s.Key == key {
			return s, nil
		}
	}
	return Step{}, fmt.Errorf("%w: unknown step %q", models.ErrValidation, key)
}

func (w *Wizard) changed() {
	if w.onChange != nil {
		w.onChange(w.doc.Clone())
	}
}
