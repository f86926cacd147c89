// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the screening API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(registry, cfg, model)

# Endpoints

Health:

	GET /health

Run lifecycle:

	POST /runs                - Create run
	GET  /runs/{slug}         - Phase, participants, questions, current turn
	POST /runs/{slug}/start   - Close registration
	POST /runs/{slug}/finish  - Open results
	POST /runs/{slug}/reset   - Start over under the same slug

Participants:

	POST /runs/{slug}/participants                                 - Register
	PUT  /runs/{slug}/participants/{name}/answers/{question}       - Self answer
	PUT  /runs/{slug}/participants/{name}/ratings/{subject}/{question} - Peer answer
	POST /runs/{slug}/turns                                        - Whole turn

Buckets:

	POST   /runs/{slug}/buckets                                   - Drag into bucket
	GET    /runs/{slug}/buckets/{subject}/{question}              - Bucket contents
	DELETE /runs/{slug}/buckets/{subject}/{question}/{participant} - Remove from bucket

Results (403 until the results phase):

	GET /runs/{slug}/results        - Every participant
	GET /runs/{slug}/results/{name} - One participant
*/
package router
