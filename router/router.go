// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/peerscreen/cliparse"
	"github.com/danielhkuo/peerscreen/handlers"
	"github.com/danielhkuo/peerscreen/middleware"
	"github.com/danielhkuo/peerscreen/session"
	"github.com/danielhkuo/peerscreen/survey"
)

func NewRouter(registry *session.Registry, cfg cliparse.Config, model *survey.Model) *http.ServeMux {
	mux := http.NewServeMux()

	runHandler := handlers.NewRunHandler(registry, cfg, model)
	participantHandler := handlers.NewParticipantHandler(registry)
	bucketHandler := handlers.NewBucketHandler(registry)
	resultsHandler := handlers.NewResultsHandler(registry)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Run lifecycle
	mux.HandleFunc("POST /runs", middleware.WithLogging(runHandler.CreateRun))
	mux.HandleFunc("GET /runs/{slug}", middleware.WithLogging(runHandler.GetRun))
	mux.HandleFunc("POST /runs/{slug}/start", middleware.WithLogging(runHandler.StartTesting))
	mux.HandleFunc("POST /runs/{slug}/finish", middleware.WithLogging(runHandler.Finish))
	mux.HandleFunc("POST /runs/{slug}/reset", middleware.WithLogging(runHandler.Reset))

	// Participants and answers
	mux.HandleFunc("POST /runs/{slug}/participants", middleware.WithLogging(participantHandler.Register))
	mux.HandleFunc("PUT /runs/{slug}/participants/{name}/answers/{question}", middleware.WithLogging(participantHandler.AnswerSelf))
	mux.HandleFunc("PUT /runs/{slug}/participants/{name}/ratings/{subject}/{question}", middleware.WithLogging(participantHandler.AnswerPeer))
	mux.HandleFunc("POST /runs/{slug}/turns", middleware.WithLogging(participantHandler.SubmitTurn))

	// Drag-and-drop buckets
	mux.HandleFunc("POST /runs/{slug}/buckets", middleware.WithLogging(bucketHandler.Move))
	mux.HandleFunc("GET /runs/{slug}/buckets/{subject}/{question}", middleware.WithLogging(bucketHandler.List))
	mux.HandleFunc("DELETE /runs/{slug}/buckets/{subject}/{question}/{participant}", middleware.WithLogging(bucketHandler.Clear))

	// Results (sealed until the results phase)
	mux.HandleFunc("GET /runs/{slug}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /runs/{slug}/results/{name}", middleware.WithLogging(resultsHandler.GetParticipantResults))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("peerscreen API v1"))
	})

	return mux
}
