// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/peerscreen/middleware"
	"github.com/danielhkuo/peerscreen/models"
	"github.com/danielhkuo/peerscreen/session"
)

type ResultsHandler struct {
	registry *session.Registry
}

func NewResultsHandler(registry *session.Registry) *ResultsHandler {
	return &ResultsHandler{registry: registry}
}

// GetResults handles GET /runs/{slug}/results
// Returns 403 until the run reaches the results phase (results are sealed)
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}

	all, err := s.AllResults(r.Context())
	if err != nil {
		writeError(w, err, "failed to compute results", "slug", s.Slug())
		return
	}

	resp := models.ResultsResponse{
		Policy:     s.PolicyName(),
		ComputedAt: time.Now().UTC(),
		Results:    make([]models.ParticipantResults, len(all)),
	}
	for i, pr := range all {
		resp.Results[i] = models.ParticipantResults{Participant: pr.Participant, Results: pr.Results}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetParticipantResults handles GET /runs/{slug}/results/{name}
func (h *ResultsHandler) GetParticipantResults(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}

	name := r.PathValue("name")
	results, err := s.Results(r.Context(), name)
	if err != nil {
		writeError(w, err, "failed to compute results", "slug", s.Slug(), "participant", name)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Policy:     s.PolicyName(),
		ComputedAt: time.Now().UTC(),
		Results:    []models.ParticipantResults{{Participant: name, Results: results}},
	})
}
