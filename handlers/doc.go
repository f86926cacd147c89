// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the screening API.

# Handler Types

Each handler is a struct over the run registry:

  - RunHandler: run lifecycle (create, start, finish, reset, state)
  - ParticipantHandler: registration, answers and whole turns
  - BucketHandler: drag-and-drop placement of peers into option buckets
  - ResultsHandler: sealed per-participant results

	runHandler := handlers.NewRunHandler(registry, cfg, model)

# Run Lifecycle

Runs progress through three phases: registration → testing → results

	POST /runs               → CreateRun (returns share_slug)
	POST /runs/{slug}/start  → StartTesting (2+ participants)
	POST /runs/{slug}/finish → Finish
	POST /runs/{slug}/reset  → Reset (new run ID, same slug)

# Answers

Participants answer about themselves and place every other participant
into one option bucket per question:

	PUT  /runs/{slug}/participants/{name}/answers/{question}
	PUT  /runs/{slug}/participants/{name}/ratings/{subject}/{question}
	POST /runs/{slug}/buckets
	POST /runs/{slug}/turns

# Errors

Domain errors map to status codes in one place (statusFor): validation
failures are 400, unknown names and questions 404, phase and turn
violations 409, and sealed results 403.
*/
package handlers
