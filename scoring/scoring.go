// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/danielhkuo/peerscreen/store"
	"github.com/danielhkuo/peerscreen/survey"
)

// Policy names
const (
	PolicyOrdinalSum   = "ordinal-sum"
	PolicyWeightedDrag = "weighted-drag"
	PolicyBooleanCount = "boolean-count"
)

// ErrIncompatiblePolicy means a policy cannot read the survey's answer scale.
var ErrIncompatiblePolicy = errors.New("scoring policy does not fit the survey scale")

// DefaultLimit is how many conditions a result list keeps.
const DefaultLimit = 3

// ConditionScore is the unrounded outcome of a policy for one condition.
// Percentage is the headline value results are ranked by.
type ConditionScore struct {
	Condition  string
	Self       float64
	Peer       float64
	Percentage float64
}

// Policy folds one participant's answers into per-condition scores, in
// condition declaration order. Scale is the answer scale the policy reads.
type Policy interface {
	Name() string
	Scale() survey.Scale
	Score(model *survey.Model, snap store.Snapshot) []ConditionScore
}

// Result is the externally visible score of one condition.
type Result struct {
	Condition  string `json:"condition"`
	Percentage int    `json:"percentage"`
	Self       int    `json:"self_percentage"`
	Peer       int    `json:"peer_percentage"`
}

type Engine struct {
	Policy Policy
	Limit  int
}

func NewEngine(p Policy) *Engine {
	return &Engine{Policy: p, Limit: DefaultLimit}
}

// Results ranks conditions by percentage, highest first. Ties keep
// declaration order.
func (e *Engine) Results(model *survey.Model, snap store.Snapshot) []Result {
	scores := e.Policy.Score(model, snap)

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Percentage > scores[j].Percentage
	})

	limit := e.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(scores) > limit {
		scores = scores[:limit]
	}

	return toResults(scores)
}

// Breakdown returns every condition's score without ranking or truncation.
func (e *Engine) Breakdown(model *survey.Model, snap store.Snapshot) []Result {
	scores := e.Policy.Score(model, snap)
	return toResults(scores)
}

// PolicyByName resolves a configured policy.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case PolicyOrdinalSum:
		return OrdinalSum{}, nil
	case PolicyWeightedDrag:
		return WeightedDrag{}, nil
	case PolicyBooleanCount:
		return BooleanCount{}, nil
	}
	return nil, fmt.Errorf("unknown scoring policy %q", name)
}

// Compatible reports whether p can score answers to model.
func Compatible(p Policy, model *survey.Model) error {
	if p.Scale() != model.Scale {
		return fmt.Errorf("%w: %s reads %s answers, survey %s is %s",
			ErrIncompatiblePolicy, p.Name(), p.Scale(), model.Name, model.Scale)
	}
	return nil
}

// DefaultFor is the policy a survey is scored with when none is configured.
func DefaultFor(model *survey.Model) Policy {
	if model.Scale == survey.ScaleBoolean {
		return BooleanCount{}
	}
	return OrdinalSum{}
}

// Resolve picks the policy named by name for model, or the model's default
// when name is empty.
func Resolve(name string, model *survey.Model) (Policy, error) {
	if name == "" {
		return DefaultFor(model), nil
	}
	p, err := PolicyByName(name)
	if err != nil {
		return nil, err
	}
	if err := Compatible(p, model); err != nil {
		return nil, err
	}
	return p, nil
}

// percent is num/den*100, or 0 when nothing can be scored.
func percent(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den * 100
}

func toResults(scores []ConditionScore) []Result {
	results := make([]Result, len(scores))
	for i, s := range scores {
		results[i] = Result{
			Condition:  s.Condition,
			Percentage: toPercent(s.Percentage),
			Self:       toPercent(s.Self),
			Peer:       toPercent(s.Peer),
		}
	}
	return results
}

func toPercent(v float64) int {
	p := int(math.Round(v))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// tally accumulates totals per condition in declaration order.
type tally struct {
	conditions []string
	self       map[string]float64
	peer       map[string]float64
}

func newTally(model *survey.Model) *tally {
	return &tally{
		conditions: model.Conditions(),
		self:       make(map[string]float64),
		peer:       make(map[string]float64),
	}
}
