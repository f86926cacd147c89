// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"github.com/danielhkuo/peerscreen/store"
	"github.com/danielhkuo/peerscreen/survey"
)

// OrdinalSum scores each answer by its option index and sums them per
// condition. Unanswered questions add 0 but stay in the denominator.
//
//	self% = self / (nq * (k-1)) * 100
//	peer% = peer / (nq * (k-1) * (n-1)) * 100
//	headline = (self + peer) / (nq * (k-1) * n) * 100
type OrdinalSum struct{}

func (OrdinalSum) Name() string { return PolicyOrdinalSum }

func (OrdinalSum) Scale() survey.Scale { return survey.ScaleOrdinal }

func (OrdinalSum) Score(model *survey.Model, snap store.Snapshot) []ConditionScore {
	t := newTally(model)
	for _, q := range model.Questions() {
		if v, ok := snap.SelfAnswer(q.ID); ok {
			t.self[q.Condition] += float64(v)
		}
	}
	for _, a := range snap.Peers {
		if q, ok := model.Question(a.QuestionID); ok {
			t.peer[q.Condition] += float64(a.Option)
		}
	}

	maxScore := float64(model.OptionCount() - 1)
	n := float64(snap.ParticipantCount)
	scores := make([]ConditionScore, len(t.conditions))
	for i, c := range t.conditions {
		nq := float64(model.QuestionsFor(c))
		scores[i] = ConditionScore{
			Condition:  c,
			Self:       percent(t.self[c], nq*maxScore),
			Peer:       percent(t.peer[c], nq*maxScore*(n-1)),
			Percentage: percent(t.self[c]+t.peer[c], nq*maxScore*n),
		}
	}
	return scores
}

// WeightedDrag treats peer judgments as bucket placements. Each question's
// peer value is the occupancy-weighted mean bucket index, so peers count
// once per question regardless of how many were placed. Self and peer are
// two voices; the headline is their mean, so its denominator is twice the
// one used for self% and peer%.
//
//	peer(q) = sum(bucket * count) / sum(count), 0 when nobody was placed
//	self% = self / (nq * (k-1)) * 100
//	peer% = sum(peer(q)) / (nq * (k-1)) * 100
//	headline = (self + sum(peer(q))) / (2 * nq * (k-1)) * 100
type WeightedDrag struct{}

func (WeightedDrag) Name() string { return PolicyWeightedDrag }

func (WeightedDrag) Scale() survey.Scale { return survey.ScaleOrdinal }

func (WeightedDrag) Score(model *survey.Model, snap store.Snapshot) []ConditionScore {
	t := newTally(model)
	for _, q := range model.Questions() {
		if v, ok := snap.SelfAnswer(q.ID); ok {
			t.self[q.Condition] += float64(v)
		}
	}

	weighted := make(map[string]float64)
	placed := make(map[string]float64)
	for _, a := range snap.Peers {
		weighted[a.QuestionID] += float64(a.Option)
		placed[a.QuestionID]++
	}
	for _, q := range model.Questions() {
		if placed[q.ID] > 0 {
			t.peer[q.Condition] += weighted[q.ID] / placed[q.ID]
		}
	}

	maxScore := float64(model.OptionCount() - 1)
	scores := make([]ConditionScore, len(t.conditions))
	for i, c := range t.conditions {
		nq := float64(model.QuestionsFor(c))
		scores[i] = ConditionScore{
			Condition:  c,
			Self:       percent(t.self[c], nq*maxScore),
			Peer:       percent(t.peer[c], nq*maxScore),
			Percentage: percent(t.self[c]+t.peer[c], 2*nq*maxScore),
		}
	}
	return scores
}

// BooleanCount counts "yes" answers. The participant is one possible voice
// and every other participant is another.
//
//	headline = yes / (nq * (1 + (n-1))) * 100
type BooleanCount struct {
	// YesOption is the option index that counts as "yes".
	YesOption int
}

func (BooleanCount) Name() string { return PolicyBooleanCount }

func (BooleanCount) Scale() survey.Scale { return survey.ScaleBoolean }

func (b BooleanCount) Score(model *survey.Model, snap store.Snapshot) []ConditionScore {
	t := newTally(model)
	for _, q := range model.Questions() {
		if v, ok := snap.SelfAnswer(q.ID); ok && v == b.YesOption {
			t.self[q.Condition]++
		}
	}
	for _, a := range snap.Peers {
		if a.Option != b.YesOption {
			continue
		}
		if q, ok := model.Question(a.QuestionID); ok {
			t.peer[q.Condition]++
		}
	}

	raters := float64(snap.ParticipantCount - 1)
	scores := make([]ConditionScore, len(t.conditions))
	for i, c := range t.conditions {
		nq := float64(model.QuestionsFor(c))
		scores[i] = ConditionScore{
			Condition:  c,
			Self:       percent(t.self[c], nq),
			Peer:       percent(t.peer[c], nq*raters),
			Percentage: percent(t.self[c]+t.peer[c], nq*(1+raters)),
		}
	}
	return scores
}
