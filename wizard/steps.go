// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind is the input type of a step.
type Kind string

const (
	KindText        Kind = "text"
	KindLongText    Kind = "long-text"
	KindMultiSelect Kind = "multi-select"
)

// Step is one question of the wizard.
type Step struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
	Kind  Kind   `yaml:"kind" json:"kind"`
	// Options lists the allowed choices of a multi-select step. Empty means any.
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
}

// HasOption reports whether option is allowed for the step.
func (s Step) HasOption(option string) bool {
	if len(s.Options) == 0 {
		return true
	}
	for _, o := range s.Options {
		if o == option {
			return true
		}
	}
	return false
}

type stepsFile struct {
	Steps []Step `yaml:"steps"`
}

//go:embed steps.yaml
var defaultStepsYAML []byte

// DefaultSteps returns the built-in five-step questionnaire.
func DefaultSteps() []Step {
	steps, err := LoadSteps(bytes.NewReader(defaultStepsYAML))
	if err != nil {
		panic("wizard: invalid embedded steps: " + err.Error())
	}
	return steps
}

// LoadStepsFile reads a steps YAML file.
func LoadStepsFile(path string) ([]Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open steps file: %w", err)
	}
	defer f.Close()
	return LoadSteps(f)
}

// LoadSteps decodes and validates a steps document.
func LoadSteps(r io.Reader) ([]Step, error) {
	var file stepsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode steps: %w", err)
	}
	if err := ValidateSteps(file.Steps); err != nil {
		return nil, err
	}
	return file.Steps, nil
}

// ValidateSteps checks that there is at least one step, keys are unique and
// non-empty, and every kind is known.
func ValidateSteps(steps []Step) error {
	if len(steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidSteps)
	}

	seen := make(map[string]bool, len(steps))
	for i, s := range steps {
		if s.Key == "" {
			return fmt.Errorf("%w: step %d has no key", ErrInvalidSteps, i)
		}
		if seen[s.Key] {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidSteps, s.Key)
		}
		seen[s.Key] = true

		switch s.Kind {
		case KindText, KindLongText:
			if len(s.Options) > 0 {
				return fmt.Errorf("%w: step %q: options only apply to %s", ErrInvalidSteps, s.Key, KindMultiSelect)
			}
		case KindMultiSelect:
		default:
			return fmt.Errorf("%w: step %q: unknown kind %q", ErrInvalidSteps, s.Key, s.Kind)
		}
	}
	return nil
}
