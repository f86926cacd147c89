// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session runs the screening state machine on top of a store.

# Phases

A Session moves one way through three phases:

	registration -> testing -> results

Participants can only register during registration, and testing needs at
least MinParticipants of them. Answers, bucket placements and turns are
accepted only while testing. Results stay sealed (ErrResultsSealed) until
the run reaches results, either through Finish or after the last
participant submits a turn.

Reset is the only way back: it clears the store, issues a new run ID and
returns to registration under the same share slug.

# Turns

SubmitTurn follows registration order. A submission from anyone other than
the current participant fails with ErrNotYourTurn, and a submission with any
invalid entry records nothing.

# Registry

Registry keeps runs by share slug. Slugs come from ids.ShareSlug, keyed with
the server's slug salt.
*/
package session
