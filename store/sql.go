// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"

	"github.com/danielhkuo/peerscreen/survey"
)

// SQL keeps one run's answers in the tables created by db.CreateSchema.
// Several runs may share a database; every row is scoped by run ID.
type SQL struct {
	db    *sql.DB
	runID string
	model *survey.Model
}

func NewSQL(db *sql.DB, runID string, model *survey.Model) *SQL {
	return &SQL{db: db, runID: runID, model: model}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQL) exists(ctx context.Context, q queryer, name string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM participant
			WHERE run_id = $1 AND name = $2
		)
	`, s.runID, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up participant: %w", err)
	}
	return exists, nil
}

func (s *SQL) RegisterParticipant(ctx context.Context, name string) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	found, err := s.exists(ctx, tx, name)
	if err != nil {
		return err
	}
	if found {
		return ErrDuplicateName
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM participant WHERE run_id = $1
	`, s.runID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count participants: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO participant (run_id, name, seq)
		VALUES ($1, $2, $3)
	`, s.runID, name, count)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	return tx.Commit()
}

func (s *SQL) Participants(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM participant
		WHERE run_id = $1
		ORDER BY seq
	`, s.runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQL) positions(ctx context.Context) (map[string]int, error) {
	names, err := s.Participants(ctx)
	if err != nil {
		return nil, err
	}
	position := make(map[string]int, len(names))
	for i, name := range names {
		position[name] = i
	}
	return position, nil
}

func (s *SQL) SetSelfAnswer(ctx context.Context, participant, questionID string, option int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	found, err := s.exists(ctx, tx, participant)
	if err != nil {
		return err
	}
	if !found {
		return unknown(participant)
	}
	if err := checkOption(s.model, questionID, option); err != nil {
		return err
	}

	if err := s.upsertSelf(ctx, tx, participant, questionID, option); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQL) checkPair(ctx context.Context, tx *sql.Tx, rater, subject string) error {
	for _, name := range []string{rater, subject} {
		found, err := s.exists(ctx, tx, name)
		if err != nil {
			return err
		}
		if !found {
			return unknown(name)
		}
	}
	return nil
}

func (s *SQL) SetPeerAnswer(ctx context.Context, rater, subject, questionID string, option int) error {
	if rater == subject {
		return ErrSelfRating
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.checkPair(ctx, tx, rater, subject); err != nil {
		return err
	}
	if err := checkOption(s.model, questionID, option); err != nil {
		return err
	}

	if err := s.upsertPeer(ctx, tx, rater, subject, questionID, option); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQL) upsertSelf(ctx context.Context, tx *sql.Tx, participant, questionID string, option int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO self_answer (run_id, participant, question_id, option_index)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_id, participant, question_id)
		DO UPDATE SET option_index = EXCLUDED.option_index
	`, s.runID, participant, questionID, option)
	if err != nil {
		return fmt.Errorf("failed to save self answer: %w", err)
	}
	return nil
}

func (s *SQL) upsertPeer(ctx context.Context, tx *sql.Tx, rater, subject, questionID string, option int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO peer_answer (run_id, rater, subject, question_id, option_index)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id, rater, subject, question_id)
		DO UPDATE SET option_index = EXCLUDED.option_index
	`, s.runID, rater, subject, questionID, option)
	if err != nil {
		return fmt.Errorf("failed to save peer answer: %w", err)
	}
	return nil
}

// SetAnswers writes the batch in one transaction, in sorted key order.
func (s *SQL) SetAnswers(ctx context.Context, batch AnswerBatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	found, err := s.exists(ctx, tx, batch.Participant)
	if err != nil {
		return err
	}
	if !found {
		return unknown(batch.Participant)
	}

	for _, q := range slices.Sorted(maps.Keys(batch.Self)) {
		if err := checkOption(s.model, q, batch.Self[q]); err != nil {
			return err
		}
		if err := s.upsertSelf(ctx, tx, batch.Participant, q, batch.Self[q]); err != nil {
			return err
		}
	}
	for _, subject := range slices.Sorted(maps.Keys(batch.Peers)) {
		if subject == batch.Participant {
			return ErrSelfRating
		}
		if err := s.checkPair(ctx, tx, batch.Participant, subject); err != nil {
			return err
		}
		answers := batch.Peers[subject]
		for _, q := range slices.Sorted(maps.Keys(answers)) {
			if err := checkOption(s.model, q, answers[q]); err != nil {
				return err
			}
			if err := s.upsertPeer(ctx, tx, batch.Participant, subject, q, answers[q]); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (s *SQL) MoveParticipantToBucket(ctx context.Context, participant, subject, questionID string, option int) error {
	return s.SetPeerAnswer(ctx, participant, subject, questionID, option)
}

func (s *SQL) ClearPeerAnswer(ctx context.Context, rater, subject, questionID string) error {
	if rater == subject {
		return ErrSelfRating
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.checkPair(ctx, tx, rater, subject); err != nil {
		return err
	}
	if err := checkQuestion(s.model, questionID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM peer_answer
		WHERE run_id = $1 AND rater = $2 AND subject = $3 AND question_id = $4
	`, s.runID, rater, subject, questionID)
	if err != nil {
		return fmt.Errorf("failed to clear peer answer: %w", err)
	}

	return tx.Commit()
}

func (s *SQL) Buckets(ctx context.Context, subject, questionID string) ([][]string, error) {
	found, err := s.exists(ctx, s.db, subject)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, unknown(subject)
	}
	if err := checkQuestion(s.model, questionID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.rater, a.option_index
		FROM peer_answer a
		JOIN participant p ON p.run_id = a.run_id AND p.name = a.rater
		WHERE a.run_id = $1 AND a.subject = $2 AND a.question_id = $3
		ORDER BY p.seq
	`, s.runID, subject, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query buckets: %w", err)
	}
	defer rows.Close()

	buckets := emptyBuckets(s.model.OptionCount())
	for rows.Next() {
		var rater string
		var option int
		if err := rows.Scan(&rater, &option); err != nil {
			return nil, err
		}
		if option < len(buckets) {
			buckets[option] = append(buckets[option], rater)
		}
	}
	return buckets, rows.Err()
}

func (s *SQL) Snapshot(ctx context.Context, participant string) (Snapshot, error) {
	position, err := s.positions(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if _, ok := position[participant]; !ok {
		return Snapshot{}, unknown(participant)
	}

	snap := Snapshot{
		Participant:      participant,
		ParticipantCount: len(position),
		Self:             make(map[string]int),
		Peers:            []PeerAnswer{},
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, option_index FROM self_answer
		WHERE run_id = $1 AND participant = $2
	`, s.runID, participant)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to query self answers: %w", err)
	}
	for rows.Next() {
		var q string
		var v int
		if err := rows.Scan(&q, &v); err != nil {
			rows.Close()
			return Snapshot{}, err
		}
		snap.Self[q] = v
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT rater, question_id, option_index FROM peer_answer
		WHERE run_id = $1 AND subject = $2
	`, s.runID, participant)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to query peer answers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a PeerAnswer
		if err := rows.Scan(&a.Rater, &a.QuestionID, &a.Option); err != nil {
			return Snapshot{}, err
		}
		snap.Peers = append(snap.Peers, a)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}

	sortPeers(snap.Peers, position, s.model)
	return snap, nil
}

func (s *SQL) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"peer_answer", "self_answer", "participant"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id = $1", s.runID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// SQLFactory scopes every run to its own rows in db.
func SQLFactory(db *sql.DB) Factory {
	return func(runID string, model *survey.Model) Store {
		return NewSQL(db, runID, model)
	}
}
