// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"errors"
	"fmt"
)

var (
	ErrNoQuestions       = errors.New("survey has no questions")
	ErrDuplicateQuestion = errors.New("duplicate question id")
	ErrMissingCondition  = errors.New("question has no condition")
	ErrOptionMismatch    = errors.New("questions must share the same number of options")
	ErrTooFewOptions     = errors.New("questions need at least 2 options")
	ErrBooleanOptions    = errors.New("boolean surveys need exactly 2 options")
	ErrUnknownScale      = errors.New("unknown answer scale")
)

// Scale says how option indexes are read. On an ordinal scale the index is
// the score. On a boolean scale index 0 is "yes" and index 1 is "no".
type Scale string

const (
	ScaleOrdinal Scale = "ordinal"
	ScaleBoolean Scale = "boolean"
)

// Question is a single screening prompt bound to one condition.
type Question struct {
	ID        string   `json:"id" yaml:"id"`
	Text      string   `json:"text" yaml:"text"`
	Condition string   `json:"condition" yaml:"condition"`
	Options   []string `json:"options" yaml:"options"`
}

// Model is the static questionnaire for a run. It is immutable once validated.
type Model struct {
	Name      string
	Scale     Scale
	questions []Question
	index     map[string]int
}

// New builds and validates an ordinal model. The question slice is copied.
func New(name string, questions []Question) (*Model, error) {
	return NewWithScale(name, ScaleOrdinal, questions)
}

// NewWithScale is New for a model whose options are read on scale.
func NewWithScale(name string, scale Scale, questions []Question) (*Model, error) {
	m := &Model{
		Name:      name,
		Scale:     scale,
		questions: make([]Question, len(questions)),
		index:     make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		m.questions[i] = q
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	for i, q := range m.questions {
		m.index[q.ID] = i
	}
	return m, nil
}

// Validate checks the invariants every scoring policy relies on.
func (m *Model) Validate() error {
	if len(m.questions) == 0 {
		return ErrNoQuestions
	}
	seen := make(map[string]bool, len(m.questions))
	want := len(m.questions[0].Options)
	for _, q := range m.questions {
		if q.ID == "" || seen[q.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateQuestion, q.ID)
		}
		seen[q.ID] = true
		if q.Condition == "" {
			return fmt.Errorf("%w: %s", ErrMissingCondition, q.ID)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: %s", ErrTooFewOptions, q.ID)
		}
		if len(q.Options) != want {
			return fmt.Errorf("%w: %s has %d, expected %d", ErrOptionMismatch, q.ID, len(q.Options), want)
		}
	}
	switch m.Scale {
	case ScaleOrdinal:
	case ScaleBoolean:
		if want != 2 {
			return fmt.Errorf("%w: have %d", ErrBooleanOptions, want)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScale, m.Scale)
	}
	return nil
}

// Questions returns the questions in declaration order.
func (m *Model) Questions() []Question {
	out := make([]Question, len(m.questions))
	for i, q := range m.questions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// OptionCount is the number of answer options shared by every question.
func (m *Model) OptionCount() int {
	return len(m.questions[0].Options)
}

func (m *Model) Question(id string) (Question, bool) {
	i, ok := m.index[id]
	if !ok {
		return Question{}, false
	}
	q := m.questions[i]
	q.Options = append([]string(nil), q.Options...)
	return q, true
}

// Conditions lists condition labels in order of first appearance.
func (m *Model) Conditions() []string {
	var out []string
	seen := make(map[string]bool)
	for _, q := range m.questions {
		if !seen[q.Condition] {
			seen[q.Condition] = true
			out = append(out, q.Condition)
		}
	}
	return out
}

// QuestionsFor counts the questions mapped to a condition.
func (m *Model) QuestionsFor(condition string) int {
	n := 0
	for _, q := range m.questions {
		if q.Condition == condition {
			n++
		}
	}
	return n
}

// ValidOption reports whether option is a selectable index.
func (m *Model) ValidOption(option int) bool {
	return option >= 0 && option < m.OptionCount()
}
