// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the peerscreen API server.

peerscreen runs a small-group mental-health screening exercise: every
participant answers a short questionnaire about themselves and places each
other participant into an answer bucket per question. Once everyone is done,
each participant gets the conditions their answers point to most, ranked by
percentage.

# Starting the Server

	SLUG_SALT=change-me go run .

Or with flags:

	go run . -p 3318 -b sqlite -slug-salt change-me -policy weighted-drag

A .env file in the working directory is loaded first; real environment
variables win over it.

# Configuration

Required settings:

  - SLUG_SALT (-slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - STORE_BACKEND (-b): memory, sqlite or postgres (default: memory)
  - DATABASE_URL (-d): required for postgres; sqlite defaults to in-memory
  - SURVEY_FILE (-s) or SURVEY (-survey): questionnaire to use
  - SCORING_POLICY (-policy): ordinal-sum, weighted-drag or boolean-count
  - CORS_ORIGINS (-cors-origins): allowed browser origins

The SQL schema is recreated at startup; nothing survives a restart.

# Architecture

  - survey: questionnaire model, built-ins and YAML loading
  - store: answer storage (memory or SQL)
  - scoring: scoring policies and result ranking
  - session: phase state machine, turns and the run registry
  - handlers, router, middleware, models: the HTTP API
  - ids: run IDs and share slugs
  - db: connection and schema
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
