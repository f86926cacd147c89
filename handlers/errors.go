// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/peerscreen/middleware"
	"github.com/danielhkuo/peerscreen/session"
	"github.com/danielhkuo/peerscreen/store"
)

// statusFor maps domain errors to HTTP status codes. ErrEmptyName wraps
// ErrDuplicateName, so it must be checked first.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrEmptyName),
		errors.Is(err, store.ErrInvalidOption),
		errors.Is(err, store.ErrSelfRating):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrDuplicateName),
		errors.Is(err, session.ErrWrongPhase),
		errors.Is(err, session.ErrNotEnoughParticipants),
		errors.Is(err, session.ErrNotYourTurn):
		return http.StatusConflict
	case errors.Is(err, store.ErrUnknownParticipant),
		errors.Is(err, store.ErrUnknownQuestion),
		errors.Is(err, session.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrResultsSealed):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// writeError responds with the status for err. Unexpected errors are logged
// and their details are not sent to the client.
func writeError(w http.ResponseWriter, err error, msg string, args ...any) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(msg, append(args, "error", err)...)
		middleware.ErrorResponse(w, status, "Internal error")
		return
	}
	middleware.ErrorResponse(w, status, err.Error())
}

// lookupRun resolves the {slug} path value, writing the error response itself
// when the run does not exist.
func lookupRun(w http.ResponseWriter, r *http.Request, reg *session.Registry) (*session.Session, bool) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return nil, false
	}

	s, err := reg.Get(slug)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Run not found")
		return nil, false
	}
	return s, true
}
