// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/peerscreen/cliparse"
	"github.com/danielhkuo/peerscreen/middleware"
	"github.com/danielhkuo/peerscreen/models"
	"github.com/danielhkuo/peerscreen/scoring"
	"github.com/danielhkuo/peerscreen/session"
	"github.com/danielhkuo/peerscreen/survey"
)

type RunHandler struct {
	registry *session.Registry
	cfg      cliparse.Config
	model    *survey.Model
}

// NewRunHandler creates runs with model unless a request names a built-in
// survey. A nil model means the built-in ordinal survey.
func NewRunHandler(registry *session.Registry, cfg cliparse.Config, model *survey.Model) *RunHandler {
	if model == nil {
		model = survey.Ordinal()
	}
	return &RunHandler{registry: registry, cfg: cfg, model: model}
}

// CreateRun handles POST /runs
// The body is optional; an empty body uses the server's survey and policy.
// A policy that cannot read the survey's answers is rejected with 400.
func (h *RunHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRunRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	model := h.model
	if req.Survey != "" {
		m, err := survey.ByName(req.Survey)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		model = m
	}

	// The server's policy applies only where it can read the survey;
	// otherwise the survey's own default does.
	policyName := req.Policy
	if policyName == "" {
		if p, err := scoring.PolicyByName(h.cfg.ScoringPolicy); err == nil && scoring.Compatible(p, model) == nil {
			policyName = p.Name()
		}
	}
	policy, err := scoring.Resolve(policyName, model)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s := h.registry.Create(session.Options{Model: model, Policy: policy})

	slog.Info("run created", "slug", s.Slug(), "run_id", s.RunID(), "survey", model.Name, "policy", policy.Name())

	middleware.JSONResponse(w, http.StatusCreated, models.CreateRunResponse{
		ShareSlug: s.Slug(),
		RunID:     s.RunID(),
		Phase:     string(s.Phase()),
	})
}

// GetRun handles GET /runs/{slug}
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}
	respondState(w, r.Context(), s, http.StatusOK)
}

// StartTesting handles POST /runs/{slug}/start
func (h *RunHandler) StartTesting(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}

	if err := s.StartTesting(r.Context()); err != nil {
		writeError(w, err, "failed to start testing", "slug", s.Slug())
		return
	}

	slog.Info("testing started", "slug", s.Slug(), "run_id", s.RunID())
	respondState(w, r.Context(), s, http.StatusOK)
}

// Finish handles POST /runs/{slug}/finish
// Unsubmitted turns are skipped; their answers count as missing.
func (h *RunHandler) Finish(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}

	if err := s.Finish(r.Context()); err != nil {
		writeError(w, err, "failed to finish run", "slug", s.Slug())
		return
	}

	slog.Info("run finished", "slug", s.Slug(), "run_id", s.RunID())
	respondState(w, r.Context(), s, http.StatusOK)
}

// Reset handles POST /runs/{slug}/reset
func (h *RunHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}

	oldRun := s.RunID()
	if err := s.Reset(r.Context()); err != nil {
		writeError(w, err, "failed to reset run", "slug", s.Slug())
		return
	}

	slog.Info("run reset", "slug", s.Slug(), "old_run_id", oldRun, "run_id", s.RunID())
	respondState(w, r.Context(), s, http.StatusOK)
}

func respondState(w http.ResponseWriter, ctx context.Context, s *session.Session, status int) {
	st, err := s.State(ctx)
	if err != nil {
		writeError(w, err, "failed to load run state", "slug", s.Slug())
		return
	}

	questions := s.Model().Questions()
	middleware.JSONResponse(w, status, models.RunState{
		RunID:        st.RunID,
		ShareSlug:    st.Slug,
		Phase:        string(st.Phase),
		Survey:       s.Model().Name,
		Policy:       st.Policy,
		Participants: st.Participants,
		CurrentTurn:  st.CurrentTurn,
		Options:      questions[0].Options,
		Questions:    questions,
	})
}
