// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/danielhkuo/peerscreen/store"
)

// TurnSubmission is everything one participant answers on their turn:
// their own answers and where they placed each peer.
type TurnSubmission struct {
	Participant string
	Self        map[string]int            // question ID -> option
	Peers       map[string]map[string]int // subject -> question ID -> option
}

// SubmitTurn records a whole turn for the current participant and hands
// the turn to the next one. After the last participant the run moves to
// results. The turn is written in one store call, so nothing is recorded
// unless all of it is, and the turn does not advance on failure.
func (s *Session) SubmitTurn(ctx context.Context, sub TurnSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhase(PhaseTesting); err != nil {
		return err
	}
	names, err := s.store.Participants(ctx)
	if err != nil {
		return err
	}
	if s.turn >= len(names) {
		return fmt.Errorf("%w: every participant has had a turn", ErrWrongPhase)
	}
	if current := names[s.turn]; sub.Participant != current {
		return fmt.Errorf("%w: waiting for %s", ErrNotYourTurn, current)
	}

	if err := s.validateTurn(sub, names); err != nil {
		return err
	}

	err = s.store.SetAnswers(ctx, store.AnswerBatch{
		Participant: sub.Participant,
		Self:        sub.Self,
		Peers:       sub.Peers,
	})
	if err != nil {
		return err
	}

	s.turn++
	if s.turn >= len(names) {
		s.phase = PhaseResults
	}
	return nil
}

func (s *Session) validateTurn(sub TurnSubmission, names []string) error {
	for _, q := range sortedKeys(sub.Self) {
		if err := s.checkAnswer(q, sub.Self[q]); err != nil {
			return err
		}
	}
	for _, subject := range sortedKeys(sub.Peers) {
		if subject == sub.Participant {
			return store.ErrSelfRating
		}
		if !slices.Contains(names, subject) {
			return fmt.Errorf("%w: %s", store.ErrUnknownParticipant, subject)
		}
		answers := sub.Peers[subject]
		for _, q := range sortedKeys(answers) {
			if err := s.checkAnswer(q, answers[q]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) checkAnswer(questionID string, option int) error {
	if _, ok := s.model.Question(questionID); !ok {
		return fmt.Errorf("%w: %s", store.ErrUnknownQuestion, questionID)
	}
	if !s.model.ValidOption(option) {
		return fmt.Errorf("%w: %d", store.ErrInvalidOption, option)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
