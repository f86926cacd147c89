// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/danielhkuo/peerscreen/survey"
)

var (
	ErrDuplicateName      = errors.New("participant name already registered")
	ErrEmptyName          = fmt.Errorf("%w: name is empty", ErrDuplicateName)
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrUnknownQuestion    = errors.New("unknown question")
	ErrInvalidOption      = errors.New("option index out of range")
	ErrSelfRating         = errors.New("participants cannot rate themselves")
)

// Store holds every self and peer answer of one run.
// A rejected write leaves the store unchanged.
type Store interface {
	RegisterParticipant(ctx context.Context, name string) error
	Participants(ctx context.Context) ([]string, error)

	SetSelfAnswer(ctx context.Context, participant, questionID string, option int) error
	SetPeerAnswer(ctx context.Context, rater, subject, questionID string, option int) error
	// SetAnswers records a whole batch or, on any error, none of it.
	SetAnswers(ctx context.Context, batch AnswerBatch) error

	// MoveParticipantToBucket places participant into the option bucket of
	// (subject, question), leaving every other bucket of that pair.
	MoveParticipantToBucket(ctx context.Context, participant, subject, questionID string, option int) error
	ClearPeerAnswer(ctx context.Context, rater, subject, questionID string) error
	Buckets(ctx context.Context, subject, questionID string) ([][]string, error)

	Snapshot(ctx context.Context, participant string) (Snapshot, error)
	Reset(ctx context.Context) error
}

// AnswerBatch is everything one participant answers in a single turn.
type AnswerBatch struct {
	Participant string
	Self        map[string]int            // question ID -> option
	Peers       map[string]map[string]int // subject -> question ID -> option
}

// PeerAnswer is one rater's judgment about the snapshot's participant.
type PeerAnswer struct {
	Rater      string `json:"rater"`
	QuestionID string `json:"question_id"`
	Option     int    `json:"option"`
}

// Snapshot is a copy of everything recorded about one participant.
type Snapshot struct {
	Participant      string
	ParticipantCount int
	Self             map[string]int // question ID -> option index
	Peers            []PeerAnswer
}

// SelfAnswer returns the participant's own answer, if any.
func (s Snapshot) SelfAnswer(questionID string) (int, bool) {
	v, ok := s.Self[questionID]
	return v, ok
}

// NormalizeName trims surrounding whitespace; names are stored trimmed.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

func checkOption(model *survey.Model, questionID string, option int) error {
	if _, ok := model.Question(questionID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if !model.ValidOption(option) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidOption, option, model.OptionCount())
	}
	return nil
}

func checkQuestion(model *survey.Model, questionID string) error {
	if _, ok := model.Question(questionID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	return nil
}

func unknown(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownParticipant, name)
}

// sortPeers orders peer answers by rater registration order, then question
// declaration order.
func sortPeers(peers []PeerAnswer, position map[string]int, model *survey.Model) {
	qpos := make(map[string]int)
	for i, q := range model.Questions() {
		qpos[q.ID] = i
	}
	sort.SliceStable(peers, func(i, j int) bool {
		a, b := peers[i], peers[j]
		if position[a.Rater] != position[b.Rater] {
			return position[a.Rater] < position[b.Rater]
		}
		return qpos[a.QuestionID] < qpos[b.QuestionID]
	})
}

func emptyBuckets(n int) [][]string {
	buckets := make([][]string, n)
	for i := range buckets {
		buckets[i] = []string{}
	}
	return buckets
}

// Factory builds the store for a new run.
type Factory func(runID string, model *survey.Model) Store

// MemoryFactory gives every run its own Memory store.
func MemoryFactory() Factory {
	return func(_ string, model *survey.Model) Store {
		return NewMemory(model)
	}
}
