// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/danielhkuo/peerscreen/ids"
	"github.com/danielhkuo/peerscreen/scoring"
	"github.com/danielhkuo/peerscreen/store"
	"github.com/danielhkuo/peerscreen/survey"
)

type Phase string

const (
	PhaseRegistration Phase = "registration"
	PhaseTesting      Phase = "testing"
	PhaseResults      Phase = "results"
)

// MinParticipants is the smallest group that can start testing.
const MinParticipants = 2

var (
	ErrWrongPhase            = errors.New("operation not allowed in the current phase")
	ErrNotEnoughParticipants = fmt.Errorf("at least %d participants are required", MinParticipants)
	ErrResultsSealed         = errors.New("results are available once testing has finished")
	ErrNotYourTurn           = errors.New("it is not this participant's turn")
)

// Options configures a new Session.
type Options struct {
	Slug     string
	Model    *survey.Model
	Policy   scoring.Policy
	NewStore store.Factory
}

// Session is one screening run: a group of participants that registers,
// answers about itself and each other, then sees ranked results.
type Session struct {
	mu sync.Mutex

	slug     string
	runID    string
	model    *survey.Model
	engine   *scoring.Engine
	newStore store.Factory
	store    store.Store
	phase    Phase
	turn     int
}

func New(opts Options) *Session {
	if opts.Model == nil {
		opts.Model = survey.Ordinal()
	}
	if opts.Policy == nil {
		opts.Policy = scoring.DefaultFor(opts.Model)
	}
	if opts.NewStore == nil {
		opts.NewStore = store.MemoryFactory()
	}

	runID := ids.NewRunID()
	return &Session{
		slug:     opts.Slug,
		runID:    runID,
		model:    opts.Model,
		engine:   scoring.NewEngine(opts.Policy),
		newStore: opts.NewStore,
		store:    opts.NewStore(runID, opts.Model),
		phase:    PhaseRegistration,
	}
}

func (s *Session) Slug() string { return s.slug }

func (s *Session) Model() *survey.Model { return s.model }

func (s *Session) PolicyName() string { return s.engine.Policy.Name() }

func (s *Session) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) requirePhase(p Phase) error {
	if s.phase != p {
		return fmt.Errorf("%w: run is in %s, not %s", ErrWrongPhase, s.phase, p)
	}
	return nil
}

func (s *Session) Register(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhase(PhaseRegistration); err != nil {
		return "", err
	}
	name, err := store.NormalizeName(name)
	if err != nil {
		return "", err
	}
	if err := s.store.RegisterParticipant(ctx, name); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Session) Participants(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Participants(ctx)
}

// StartTesting closes registration. The turn cursor starts at the first
// registered participant.
func (s *Session) StartTesting(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhase(PhaseRegistration); err != nil {
		return err
	}
	names, err := s.store.Participants(ctx)
	if err != nil {
		return err
	}
	if len(names) < MinParticipants {
		return fmt.Errorf("%w: have %d", ErrNotEnoughParticipants, len(names))
	}

	s.phase = PhaseTesting
	s.turn = 0
	return nil
}

func (s *Session) AnswerSelf(ctx context.Context, participant, questionID string, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhase(PhaseTesting); err != nil {
		return err
	}
	return s.store.SetSelfAnswer(ctx, participant, questionID, option)
}

func (s *Session) AnswerPeer(ctx context.Context, rater, subject, questionID string, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhase(PhaseTesting); err != nil {
		return err
	}
	return s.store.SetPeerAnswer(ctx, rater, subject, questionID, option)
}

// MoveToBucket drags participant into an option bucket of subject's question.
func (s *Session) MoveToBucket(ctx context.Context, participant, subject, questionID string, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhase(PhaseTesting); err != nil {
		return err
	}
	return s.store.MoveParticipantToBucket(ctx, participant, subject, questionID, option)
}

func (s *Session) ClearPlacement(ctx context.Context, participant, subject, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhase(PhaseTesting); err != nil {
		return err
	}
	return s.store.ClearPeerAnswer(ctx, participant, subject, questionID)
}

// Buckets lists who has been placed in each option bucket. Readable in any
// phase after registration.
func (s *Session) Buckets(ctx context.Context, subject, questionID string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseRegistration {
		return nil, fmt.Errorf("%w: testing has not started", ErrWrongPhase)
	}
	return s.store.Buckets(ctx, subject, questionID)
}

// CurrentTurn names the participant expected to submit the next turn.
// It reports false outside the testing phase.
func (s *Session) CurrentTurn(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseTesting {
		return "", false, nil
	}
	names, err := s.store.Participants(ctx)
	if err != nil {
		return "", false, err
	}
	if s.turn >= len(names) {
		return "", false, nil
	}
	return names[s.turn], true, nil
}

func (s *Session) Finish(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhase(PhaseTesting); err != nil {
		return err
	}
	s.phase = PhaseResults
	return nil
}

// Results returns participant's top conditions.
func (s *Session) Results(ctx context.Context, participant string) ([]scoring.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseResults {
		return nil, ErrResultsSealed
	}
	snap, err := s.store.Snapshot(ctx, participant)
	if err != nil {
		return nil, err
	}
	return s.engine.Results(s.model, snap), nil
}

// ParticipantResults pairs a participant with their ranked conditions.
type ParticipantResults struct {
	Participant string           `json:"participant"`
	Results     []scoring.Result `json:"results"`
}

// AllResults returns results for every participant in registration order.
func (s *Session) AllResults(ctx context.Context) ([]ParticipantResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseResults {
		return nil, ErrResultsSealed
	}
	names, err := s.store.Participants(ctx)
	if err != nil {
		return nil, err
	}

	all := make([]ParticipantResults, 0, len(names))
	for _, name := range names {
		snap, err := s.store.Snapshot(ctx, name)
		if err != nil {
			return nil, err
		}
		all = append(all, ParticipantResults{
			Participant: name,
			Results:     s.engine.Results(s.model, snap),
		})
	}
	return all, nil
}

// Reset discards every participant and answer and starts a new run under
// the same slug.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(ctx); err != nil {
		return err
	}

	s.runID = ids.NewRunID()
	s.store = s.newStore(s.runID, s.model)
	s.phase = PhaseRegistration
	s.turn = 0
	return nil
}

// State is a consistent view of the run for clients.
type State struct {
	RunID        string
	Slug         string
	Phase        Phase
	Policy       string
	Participants []string
	CurrentTurn  string
}

func (s *Session) State(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.store.Participants(ctx)
	if err != nil {
		return State{}, err
	}

	st := State{
		RunID:        s.runID,
		Slug:         s.slug,
		Phase:        s.phase,
		Policy:       s.engine.Policy.Name(),
		Participants: names,
	}
	if s.phase == PhaseTesting && s.turn < len(names) {
		st.CurrentTurn = names[s.turn]
	}
	return st, nil
}
