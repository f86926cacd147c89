// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/peerscreen/db"
	"github.com/danielhkuo/peerscreen/survey"
)

// backends runs each test against every Store implementation.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemory(survey.Ordinal())
		},
		"sqlite": func(t *testing.T) Store {
			dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
			conn, err := db.Open(context.Background(), db.DriverSQLite, dsn)
			if err != nil {
				t.Fatalf("Failed to open test database: %v", err)
			}
			t.Cleanup(func() { conn.Close() })
			return NewSQL(conn, uuid.NewString(), survey.Ordinal())
		},
	}
}

func register(t *testing.T, s Store, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := s.RegisterParticipant(context.Background(), name); err != nil {
			t.Fatalf("Failed to register %q: %v", name, err)
		}
	}
}

func snapshot(t *testing.T, s Store, name string) Snapshot {
	t.Helper()
	snap, err := s.Snapshot(context.Background(), name)
	if err != nil {
		t.Fatalf("Snapshot(%q) failed: %v", name, err)
	}
	return snap
}

func TestRegisterParticipant(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			register(t, s, "Ana", "  Beto ", "Carla")

			tests := []struct {
				name    string
				input   string
				wantErr error
			}{
				{"duplicate", "Ana", ErrDuplicateName},
				{"duplicate after trim", " Beto", ErrDuplicateName},
				{"empty", "", ErrDuplicateName},
				{"whitespace only", "   ", ErrEmptyName},
			}
			for _, tt := range tests {
				if err := s.RegisterParticipant(ctx, tt.input); !errors.Is(err, tt.wantErr) {
					t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
				}
			}

			got, err := s.Participants(ctx)
			if err != nil {
				t.Fatal(err)
			}
			want := []string{"Ana", "Beto", "Carla"}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Expected registration order %v, got %v", want, got)
			}
		})
	}
}

func TestSetSelfAnswer(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			register(t, s, "Ana", "Beto")

			errTests := []struct {
				name        string
				participant string
				question    string
				option      int
				wantErr     error
			}{
				{"unknown participant", "Zoe", "q1", 1, ErrUnknownParticipant},
				{"unknown question", "Ana", "q99", 1, ErrUnknownQuestion},
				{"negative option", "Ana", "q1", -1, ErrInvalidOption},
				{"option too large", "Ana", "q1", 4, ErrInvalidOption},
			}
			for _, tt := range errTests {
				if err := s.SetSelfAnswer(ctx, tt.participant, tt.question, tt.option); !errors.Is(err, tt.wantErr) {
					t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
				}
			}
			if snap := snapshot(t, s, "Ana"); len(snap.Self) != 0 {
				t.Errorf("Rejected writes must not mutate the store, got %v", snap.Self)
			}

			// Idempotence
			for i := 0; i < 2; i++ {
				if err := s.SetSelfAnswer(ctx, "Ana", "q1", 2); err != nil {
					t.Fatal(err)
				}
			}
			snap := snapshot(t, s, "Ana")
			if !reflect.DeepEqual(snap.Self, map[string]int{"q1": 2}) {
				t.Errorf("Expected {q1:2}, got %v", snap.Self)
			}

			// Overwrite law
			if err := s.SetSelfAnswer(ctx, "Ana", "q1", 0); err != nil {
				t.Fatal(err)
			}
			snap = snapshot(t, s, "Ana")
			if v, ok := snap.SelfAnswer("q1"); !ok || v != 0 || len(snap.Self) != 1 {
				t.Errorf("Expected only q1=0 after overwrite, got %v", snap.Self)
			}
		})
	}
}

func TestSetPeerAnswer(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			register(t, s, "Ana", "Beto", "Carla")

			errTests := []struct {
				name           string
				rater, subject string
				question       string
				option         int
				wantErr        error
			}{
				{"self rating", "Ana", "Ana", "q1", 1, ErrSelfRating},
				{"self rating with bad option", "Ana", "Ana", "q1", 9, ErrSelfRating},
				{"unknown rater", "Zoe", "Ana", "q1", 1, ErrUnknownParticipant},
				{"unknown subject", "Ana", "Zoe", "q1", 1, ErrUnknownParticipant},
				{"unknown question", "Beto", "Ana", "nope", 1, ErrUnknownQuestion},
				{"invalid option", "Beto", "Ana", "q1", 7, ErrInvalidOption},
			}
			for _, tt := range errTests {
				if err := s.SetPeerAnswer(ctx, tt.rater, tt.subject, tt.question, tt.option); !errors.Is(err, tt.wantErr) {
					t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
				}
			}
			if snap := snapshot(t, s, "Ana"); len(snap.Peers) != 0 {
				t.Errorf("Rejected writes must not mutate the store, got %v", snap.Peers)
			}

			must := func(err error) {
				t.Helper()
				if err != nil {
					t.Fatal(err)
				}
			}
			must(s.SetPeerAnswer(ctx, "Carla", "Ana", "q3", 1))
			must(s.SetPeerAnswer(ctx, "Beto", "Ana", "q1", 1))
			must(s.SetPeerAnswer(ctx, "Beto", "Ana", "q1", 3)) // replaces
			must(s.SetPeerAnswer(ctx, "Carla", "Ana", "q1", 2))
			must(s.SetPeerAnswer(ctx, "Ana", "Beto", "q1", 0))

			snap := snapshot(t, s, "Ana")
			want := []PeerAnswer{
				{Rater: "Beto", QuestionID: "q1", Option: 3},
				{Rater: "Carla", QuestionID: "q1", Option: 2},
				{Rater: "Carla", QuestionID: "q3", Option: 1},
			}
			if !reflect.DeepEqual(snap.Peers, want) {
				t.Errorf("Expected peers %v, got %v", want, snap.Peers)
			}
			if snap.ParticipantCount != 3 {
				t.Errorf("Expected participant count 3, got %d", snap.ParticipantCount)
			}
		})
	}
}

func TestMoveParticipantToBucket(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			register(t, s, "Ana", "Beto", "Carla")

			if err := s.MoveParticipantToBucket(ctx, "Beto", "Ana", "q2", 1); err != nil {
				t.Fatal(err)
			}
			if err := s.MoveParticipantToBucket(ctx, "Carla", "Ana", "q2", 1); err != nil {
				t.Fatal(err)
			}
			if err := s.MoveParticipantToBucket(ctx, "Beto", "Ana", "q2", 3); err != nil {
				t.Fatal(err)
			}
			if err := s.MoveParticipantToBucket(ctx, "Ana", "Ana", "q2", 3); !errors.Is(err, ErrSelfRating) {
				t.Errorf("Expected ErrSelfRating, got %v", err)
			}

			buckets, err := s.Buckets(ctx, "Ana", "q2")
			if err != nil {
				t.Fatal(err)
			}
			want := [][]string{{}, {"Carla"}, {}, {"Beto"}}
			if !reflect.DeepEqual(buckets, want) {
				t.Errorf("Expected buckets %v, got %v", want, buckets)
			}

			// Dragging out of every bucket
			if err := s.ClearPeerAnswer(ctx, "Beto", "Ana", "q2"); err != nil {
				t.Fatal(err)
			}
			if err := s.ClearPeerAnswer(ctx, "Beto", "Ana", "q2"); err != nil {
				t.Errorf("Clearing an absent placement should be a no-op, got %v", err)
			}
			buckets, _ = s.Buckets(ctx, "Ana", "q2")
			want = [][]string{{}, {"Carla"}, {}, {}}
			if !reflect.DeepEqual(buckets, want) {
				t.Errorf("Expected buckets %v after clear, got %v", want, buckets)
			}

			if _, err := s.Buckets(ctx, "Zoe", "q2"); !errors.Is(err, ErrUnknownParticipant) {
				t.Errorf("Expected ErrUnknownParticipant, got %v", err)
			}
			if _, err := s.Buckets(ctx, "Ana", "q42"); !errors.Is(err, ErrUnknownQuestion) {
				t.Errorf("Expected ErrUnknownQuestion, got %v", err)
			}
		})
	}
}

func TestSnapshotIsolation(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			register(t, s, "Ana", "Beto")
			if err := s.SetSelfAnswer(ctx, "Ana", "q1", 1); err != nil {
				t.Fatal(err)
			}

			snap := snapshot(t, s, "Ana")
			snap.Self["q1"] = 3
			snap.Self["q2"] = 3

			again := snapshot(t, s, "Ana")
			if !reflect.DeepEqual(again.Self, map[string]int{"q1": 1}) {
				t.Errorf("Snapshot mutation leaked into store: %v", again.Self)
			}

			if _, err := s.Snapshot(ctx, "Zoe"); !errors.Is(err, ErrUnknownParticipant) {
				t.Errorf("Expected ErrUnknownParticipant, got %v", err)
			}
		})
	}
}

func TestReset(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			register(t, s, "Ana", "Beto")
			if err := s.SetPeerAnswer(ctx, "Ana", "Beto", "q1", 2); err != nil {
				t.Fatal(err)
			}

			if err := s.Reset(ctx); err != nil {
				t.Fatal(err)
			}
			names, _ := s.Participants(ctx)
			if len(names) != 0 {
				t.Errorf("Expected no participants after reset, got %v", names)
			}

			// Names are free again and old answers are gone.
			register(t, s, "Beto", "Ana")
			snap := snapshot(t, s, "Beto")
			if len(snap.Peers) != 0 {
				t.Errorf("Expected no peer answers after reset, got %v", snap.Peers)
			}
		})
	}
}

func TestSQLRunsAreIsolated(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer conn.Close()

	a := NewSQL(conn, "run-a", survey.Ordinal())
	b := NewSQL(conn, "run-b", survey.Ordinal())
	register(t, a, "Ana", "Beto")
	register(t, b, "Ana")

	if err := a.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	names, err := b.Participants(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"Ana"}) {
		t.Errorf("Reset of one run touched another: %v", names)
	}
}

func TestSetAnswers(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			register(t, s, "Ana", "Beto", "Carla")

			err := s.SetAnswers(ctx, AnswerBatch{
				Participant: "Ana",
				Self:        map[string]int{"q1": 3, "q2": 1},
				Peers:       map[string]map[string]int{"Beto": {"q1": 2}, "Carla": {"q1": 0}},
			})
			if err != nil {
				t.Fatalf("SetAnswers failed: %v", err)
			}

			if got := snapshot(t, s, "Ana").Self; !reflect.DeepEqual(got, map[string]int{"q1": 3, "q2": 1}) {
				t.Errorf("Unexpected self answers: %v", got)
			}
			want := []PeerAnswer{{Rater: "Ana", QuestionID: "q1", Option: 2}}
			if got := snapshot(t, s, "Beto").Peers; !reflect.DeepEqual(got, want) {
				t.Errorf("Expected %v, got %v", want, got)
			}
		})
	}
}

func TestSetAnswers_AllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		batch   AnswerBatch
		wantErr error
	}{
		{"unknown rater", AnswerBatch{Participant: "Zoe", Self: map[string]int{"q1": 1}}, ErrUnknownParticipant},
		{"unknown subject", AnswerBatch{
			Participant: "Ana",
			Self:        map[string]int{"q1": 1},
			Peers:       map[string]map[string]int{"Beto": {"q1": 1}, "Zoe": {"q1": 1}},
		}, ErrUnknownParticipant},
		{"self rating", AnswerBatch{
			Participant: "Ana",
			Self:        map[string]int{"q1": 1},
			Peers:       map[string]map[string]int{"Ana": {"q1": 1}},
		}, ErrSelfRating},
		{"bad option after good ones", AnswerBatch{
			Participant: "Ana",
			Self:        map[string]int{"q1": 1},
			Peers:       map[string]map[string]int{"Beto": {"q1": 1, "q2": 9}},
		}, ErrInvalidOption},
		{"unknown question", AnswerBatch{
			Participant: "Ana",
			Self:        map[string]int{"q1": 1, "q99": 0},
		}, ErrUnknownQuestion},
	}

	for name, open := range backends(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				ctx := context.Background()
				s := open(t)
				register(t, s, "Ana", "Beto")

				if err := s.SetAnswers(ctx, tt.batch); !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				if got := snapshot(t, s, "Ana").Self; len(got) != 0 {
					t.Errorf("Expected no self answers, got %v", got)
				}
				if got := snapshot(t, s, "Beto").Peers; len(got) != 0 {
					t.Errorf("Expected no peer answers, got %v", got)
				}
			})
		}
	}
}

// A database failure halfway through a batch must roll back what was
// already written.
func TestSQLSetAnswers_RollsBackOnDatabaseError(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `
		CREATE TRIGGER reject_q2 BEFORE INSERT ON peer_answer
		WHEN NEW.question_id = 'q2'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END
	`)
	if err != nil {
		t.Fatalf("Failed to create trigger: %v", err)
	}

	s := NewSQL(conn, uuid.NewString(), survey.Ordinal())
	register(t, s, "Ana", "Beto")

	err = s.SetAnswers(ctx, AnswerBatch{
		Participant: "Ana",
		Self:        map[string]int{"q1": 3},
		Peers:       map[string]map[string]int{"Beto": {"q1": 2, "q2": 2}},
	})
	if err == nil {
		t.Fatal("Expected database error")
	}

	if got := snapshot(t, s, "Ana").Self; len(got) != 0 {
		t.Errorf("Self answers survived rollback: %v", got)
	}
	if got := snapshot(t, s, "Beto").Peers; len(got) != 0 {
		t.Errorf("Peer answers survived rollback: %v", got)
	}
}
