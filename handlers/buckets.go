// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/peerscreen/middleware"
	"github.com/danielhkuo/peerscreen/models"
	"github.com/danielhkuo/peerscreen/session"
	"github.com/danielhkuo/peerscreen/store"
)

// BucketHandler serves the drag-and-drop view: each question about a subject
// has one bucket per option and every other participant sits in at most one.
type BucketHandler struct {
	registry *session.Registry
}

func NewBucketHandler(registry *session.Registry) *BucketHandler {
	return &BucketHandler{registry: registry}
}

// Move handles POST /runs/{slug}/buckets
func (h *BucketHandler) Move(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}

	var req models.BucketRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Option == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option is required")
		return
	}

	err := s.MoveToBucket(r.Context(), req.Participant, req.Subject, req.QuestionID, *req.Option)
	if err != nil {
		writeError(w, err, "failed to move participant", "slug", s.Slug())
		return
	}

	h.respondBuckets(w, r, s, req.Subject, req.QuestionID)
}

// Clear handles DELETE /runs/{slug}/buckets/{subject}/{question}/{participant}
func (h *BucketHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}

	subject, question := r.PathValue("subject"), r.PathValue("question")
	if err := s.ClearPlacement(r.Context(), r.PathValue("participant"), subject, question); err != nil {
		writeError(w, err, "failed to clear placement", "slug", s.Slug())
		return
	}

	h.respondBuckets(w, r, s, subject, question)
}

// List handles GET /runs/{slug}/buckets/{subject}/{question}
func (h *BucketHandler) List(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupRun(w, r, h.registry)
	if !ok {
		return
	}
	h.respondBuckets(w, r, s, r.PathValue("subject"), r.PathValue("question"))
}

func (h *BucketHandler) respondBuckets(w http.ResponseWriter, r *http.Request, s *session.Session, subject, questionID string) {
	buckets, err := s.Buckets(r.Context(), subject, questionID)
	if err != nil {
		writeError(w, err, "failed to load buckets", "slug", s.Slug())
		return
	}

	q, ok := s.Model().Question(questionID)
	if !ok {
		writeError(w, store.ErrUnknownQuestion, "unknown question")
		return
	}

	resp := models.BucketsResponse{
		Subject:    subject,
		QuestionID: questionID,
		Buckets:    make([]models.Bucket, len(buckets)),
	}
	for i, names := range buckets {
		resp.Buckets[i] = models.Bucket{Option: i, Label: q.Options[i], Participants: names}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
