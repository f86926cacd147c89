// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"   // driver: postgres
	_ "modernc.org/sqlite" // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DefaultSQLiteDSN is a shared in-memory database that lives as long as the
// process keeps a connection open.
const DefaultSQLiteDSN = "file:peerscreen?mode=memory&cache=shared"

// Open connects to the backend and recreates the schema.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres requires a database URL")
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	conn, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// An in-memory database disappears with its last connection.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// CreateSchema drops and recreates all tables. Runs never outlive the
// process, so nothing from a previous start is kept.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
DROP TABLE IF EXISTS peer_answer;
DROP TABLE IF EXISTS self_answer;
DROP TABLE IF EXISTS participant;

-- Participants, in registration order per run
CREATE TABLE participant (
    run_id TEXT NOT NULL,
    name TEXT NOT NULL,
    seq INTEGER NOT NULL,
    PRIMARY KEY (run_id, name)
);

CREATE INDEX idx_participant_run_seq ON participant(run_id, seq);

-- Self answers
CREATE TABLE self_answer (
    run_id TEXT NOT NULL,
    participant TEXT NOT NULL,
    question_id TEXT NOT NULL,
    option_index INTEGER NOT NULL CHECK (option_index >= 0),
    PRIMARY KEY (run_id, participant, question_id)
);

-- Peer answers and bucket placements (one row per rater, subject, question)
CREATE TABLE peer_answer (
    run_id TEXT NOT NULL,
    rater TEXT NOT NULL,
    subject TEXT NOT NULL,
    question_id TEXT NOT NULL,
    option_index INTEGER NOT NULL CHECK (option_index >= 0),
    PRIMARY KEY (run_id, rater, subject, question_id),
    CHECK (rater <> subject)
);

CREATE INDEX idx_peer_answer_subject ON peer_answer(run_id, subject, question_id);
`
