// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/peerscreen/middleware"
	"github.com/danielhkuo/peerscreen/models"
	"github.com/danielhkuo/peerscreen/session"
)

type ParticipantHandler struct {
	registry *session.Registry
}

func NewParticipantHandler(registry *session.Registry) *ParticipantHandler {
	return &ParticipantHandler{registry: registry}
}

// Register handles POST /runs/{slug}/participants
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}

	var req models.RegisterParticipantRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name, err := s.Register(r.Context(), req.Name)
	if err != nil {
		writeError(w, err, "failed to register participant", "slug", s.Slug())
		return
	}

	names, err := s.Participants(r.Context())
	if err != nil {
		writeError(w, err, "failed to list participants", "slug", s.Slug())
		return
	}

	slog.Info("participant registered", "slug", s.Slug(), "participant", name, "count", len(names))

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterParticipantResponse{
		Name:         name,
		Participants: names,
	})
}

// AnswerSelf handles PUT /runs/{slug}/participants/{name}/answers/{question}
func (h *ParticipantHandler) AnswerSelf(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}

	option, ok := parseOption(w, r)
	if !ok {
		return
	}

	if err := s.AnswerSelf(r.Context(), r.PathValue("name"), r.PathValue("question"), option); err != nil {
		writeError(w, err, "failed to record self answer", "slug", s.Slug())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AnswerPeer handles PUT /runs/{slug}/participants/{name}/ratings/{subject}/{question}
func (h *ParticipantHandler) AnswerPeer(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}

	option, ok := parseOption(w, r)
	if !ok {
		return
	}

	err := s.AnswerPeer(r.Context(), r.PathValue("name"), r.PathValue("subject"), r.PathValue("question"), option)
	if err != nil {
		writeError(w, err, "failed to record peer answer", "slug", s.Slug())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubmitTurn handles POST /runs/{slug}/turns
// Records a whole turn and returns the run state with the next turn.
func (h *ParticipantHandler) SubmitTurn(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}

	var req models.TurnRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Participant == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant is required")
		return
	}

	err := s.SubmitTurn(r.Context(), session.TurnSubmission{
		Participant: req.Participant,
		Self:        req.Self,
		Peers:       req.Peers,
	})
	if err != nil {
		writeError(w, err, "failed to submit turn", "slug", s.Slug())
		return
	}

	slog.Info("turn submitted", "slug", s.Slug(), "participant", req.Participant)
	respondState(w, r.Context(), s, http.StatusOK)
}

func parseOption(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req models.AnswerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return 0, false
	}
	if req.Option == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option is required")
		return 0, false
	}
	return *req.Option, true
}
