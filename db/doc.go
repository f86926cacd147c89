// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the SQL backend used by the response store.

# Drivers

Two database/sql drivers are registered:

  - sqlite: modernc.org/sqlite, in-memory by default (DefaultSQLiteDSN)
  - postgres: github.com/lib/pq, requires a connection URL

	conn, err := db.Open(ctx, db.DriverSQLite, "")

# Schema Creation

Open calls CreateSchema, which drops and recreates every table. Runs are
process-lifetime only; the database is working memory for the store, not
durable state.

# Tables

  - participant: run_id, name, seq (registration order)
  - self_answer: one row per (run, participant, question)
  - peer_answer: one row per (run, rater, subject, question)

A peer_answer row is both a form judgment and a drag-and-drop bucket
placement. The primary key is what keeps a rater in at most one bucket per
subject and question.
*/
package db
