// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sync"

	"github.com/danielhkuo/peerscreen/survey"
)

type peerKey struct {
	rater, subject, question string
}

// Memory is the default in-process Store.
type Memory struct {
	mu    sync.RWMutex
	model *survey.Model

	order    []string
	position map[string]int
	self     map[string]map[string]int
	peers    map[peerKey]int
}

func NewMemory(model *survey.Model) *Memory {
	m := &Memory{model: model}
	m.clear()
	return m
}

func (m *Memory) clear() {
	m.order = nil
	m.position = make(map[string]int)
	m.self = make(map[string]map[string]int)
	m.peers = make(map[peerKey]int)
}

func (m *Memory) RegisterParticipant(_ context.Context, name string) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.position[name]; ok {
		return ErrDuplicateName
	}
	m.position[name] = len(m.order)
	m.order = append(m.order, name)
	return nil
}

func (m *Memory) Participants(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.order...), nil
}

func (m *Memory) SetSelfAnswer(_ context.Context, participant, questionID string, option int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.position[participant]; !ok {
		return unknown(participant)
	}
	if err := checkOption(m.model, questionID, option); err != nil {
		return err
	}

	answers := m.self[participant]
	if answers == nil {
		answers = make(map[string]int)
		m.self[participant] = answers
	}
	answers[questionID] = option
	return nil
}

func (m *Memory) SetPeerAnswer(_ context.Context, rater, subject, questionID string, option int) error {
	if rater == subject {
		return ErrSelfRating
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkPair(rater, subject); err != nil {
		return err
	}
	if err := checkOption(m.model, questionID, option); err != nil {
		return err
	}
	m.peers[peerKey{rater, subject, questionID}] = option
	return nil
}

func (m *Memory) SetAnswers(_ context.Context, batch AnswerBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.position[batch.Participant]; !ok {
		return unknown(batch.Participant)
	}
	for q, option := range batch.Self {
		if err := checkOption(m.model, q, option); err != nil {
			return err
		}
	}
	for subject, answers := range batch.Peers {
		if subject == batch.Participant {
			return ErrSelfRating
		}
		if _, ok := m.position[subject]; !ok {
			return unknown(subject)
		}
		for q, option := range answers {
			if err := checkOption(m.model, q, option); err != nil {
				return err
			}
		}
	}

	if len(batch.Self) > 0 && m.self[batch.Participant] == nil {
		m.self[batch.Participant] = make(map[string]int)
	}
	for q, option := range batch.Self {
		m.self[batch.Participant][q] = option
	}
	for subject, answers := range batch.Peers {
		for q, option := range answers {
			m.peers[peerKey{batch.Participant, subject, q}] = option
		}
	}
	return nil
}

// One entry per (rater, subject, question) is what keeps buckets exclusive.
func (m *Memory) MoveParticipantToBucket(ctx context.Context, participant, subject, questionID string, option int) error {
	return m.SetPeerAnswer(ctx, participant, subject, questionID, option)
}

func (m *Memory) ClearPeerAnswer(_ context.Context, rater, subject, questionID string) error {
	if rater == subject {
		return ErrSelfRating
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkPair(rater, subject); err != nil {
		return err
	}
	if err := checkQuestion(m.model, questionID); err != nil {
		return err
	}
	delete(m.peers, peerKey{rater, subject, questionID})
	return nil
}

func (m *Memory) Buckets(_ context.Context, subject, questionID string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.position[subject]; !ok {
		return nil, unknown(subject)
	}
	if err := checkQuestion(m.model, questionID); err != nil {
		return nil, err
	}

	buckets := emptyBuckets(m.model.OptionCount())
	for _, rater := range m.order {
		if option, ok := m.peers[peerKey{rater, subject, questionID}]; ok {
			buckets[option] = append(buckets[option], rater)
		}
	}
	return buckets, nil
}

func (m *Memory) Snapshot(_ context.Context, participant string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.position[participant]; !ok {
		return Snapshot{}, unknown(participant)
	}

	snap := Snapshot{
		Participant:      participant,
		ParticipantCount: len(m.order),
		Self:             make(map[string]int, len(m.self[participant])),
		Peers:            []PeerAnswer{},
	}
	for q, v := range m.self[participant] {
		snap.Self[q] = v
	}
	for k, v := range m.peers {
		if k.subject == participant {
			snap.Peers = append(snap.Peers, PeerAnswer{Rater: k.rater, QuestionID: k.question, Option: v})
		}
	}
	sortPeers(snap.Peers, m.position, m.model)
	return snap, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
	return nil
}

func (m *Memory) checkPair(rater, subject string) error {
	if _, ok := m.position[rater]; !ok {
		return unknown(rater)
	}
	if _, ok := m.position[subject]; !ok {
		return unknown(subject)
	}
	return nil
}
