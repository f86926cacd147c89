// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/danielhkuo/peerscreen/models"
	"github.com/danielhkuo/peerscreen/session"
	"github.com/danielhkuo/peerscreen/testutil"
)

func intPtr(v int) *int { return &v }

func TestRegisterParticipant(t *testing.T) {
	reg := testutil.SetupRegistry(t)
	handler := NewParticipantHandler(reg)

	open := testutil.CreateTestRun(t, reg, session.PhaseRegistration, "Ana")
	started := testutil.CreateTestRun(t, reg, session.PhaseTesting, "Ana", "Bea")

	tests := []struct {
		name           string
		slug           string
		body           any
		expectedStatus int
	}{
		{"new name", open.Slug(), models.RegisterParticipantRequest{Name: " Bea "}, http.StatusCreated},
		{"duplicate name", open.Slug(), models.RegisterParticipantRequest{Name: "Ana"}, http.StatusConflict},
		{"empty name", open.Slug(), models.RegisterParticipantRequest{Name: "  "}, http.StatusBadRequest},
		{"after start", started.Slug(), models.RegisterParticipantRequest{Name: "Cam"}, http.StatusConflict},
		{"unknown run", "nope", models.RegisterParticipantRequest{Name: "Cam"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/runs/"+tt.slug+"/participants", tt.body, nil)
			req.SetPathValue("slug", tt.slug)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	names, _ := open.Participants(context.Background())
	if !reflect.DeepEqual(names, []string{"Ana", "Bea"}) {
		t.Errorf("Expected [Ana Bea], got %v", names)
	}
}

func TestAnswerSelf(t *testing.T) {
	reg := testutil.SetupRegistry(t)
	handler := NewParticipantHandler(reg)
	s := testutil.CreateTestRun(t, reg, session.PhaseTesting, "Ana", "Bea")
	waiting := testutil.CreateTestRun(t, reg, session.PhaseRegistration, "Ana", "Bea")

	tests := []struct {
		name           string
		slug           string
		participant    string
		question       string
		body           any
		expectedStatus int
	}{
		{"valid answer", s.Slug(), "Ana", "q1", models.AnswerRequest{Option: intPtr(3)}, http.StatusNoContent},
		{"option zero", s.Slug(), "Ana", "q2", models.AnswerRequest{Option: intPtr(0)}, http.StatusNoContent},
		{"missing option", s.Slug(), "Ana", "q1", map[string]string{}, http.StatusBadRequest},
		{"option out of range", s.Slug(), "Ana", "q1", models.AnswerRequest{Option: intPtr(4)}, http.StatusBadRequest},
		{"negative option", s.Slug(), "Ana", "q1", models.AnswerRequest{Option: intPtr(-1)}, http.StatusBadRequest},
		{"unknown question", s.Slug(), "Ana", "q42", models.AnswerRequest{Option: intPtr(1)}, http.StatusNotFound},
		{"unknown participant", s.Slug(), "Zoe", "q1", models.AnswerRequest{Option: intPtr(1)}, http.StatusNotFound},
		{"before testing", waiting.Slug(), "Ana", "q1", models.AnswerRequest{Option: intPtr(1)}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("PUT", "/runs/"+tt.slug+"/participants/"+tt.participant+"/answers/"+tt.question, tt.body, nil)
			req.SetPathValue("slug", tt.slug)
			req.SetPathValue("name", tt.participant)
			req.SetPathValue("question", tt.question)
			w := httptest.NewRecorder()

			handler.AnswerSelf(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestAnswerPeer(t *testing.T) {
	reg := testutil.SetupRegistry(t)
	handler := NewParticipantHandler(reg)
	s := testutil.CreateTestRun(t, reg, session.PhaseTesting, "Ana", "Bea")

	tests := []struct {
		name           string
		rater          string
		subject        string
		question       string
		option         int
		expectedStatus int
	}{
		{"valid rating", "Ana", "Bea", "q1", 2, http.StatusNoContent},
		{"self rating", "Ana", "Ana", "q1", 2, http.StatusBadRequest},
		{"unknown subject", "Ana", "Zoe", "q1", 2, http.StatusNotFound},
		{"invalid option", "Ana", "Bea", "q1", 9, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := models.AnswerRequest{Option: intPtr(tt.option)}
			req := testutil.MakeRequest("PUT", "/runs/"+s.Slug()+"/participants/"+tt.rater+"/ratings/"+tt.subject+"/"+tt.question, body, nil)
			req.SetPathValue("slug", s.Slug())
			req.SetPathValue("name", tt.rater)
			req.SetPathValue("subject", tt.subject)
			req.SetPathValue("question", tt.question)
			w := httptest.NewRecorder()

			handler.AnswerPeer(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func submitTurn(t *testing.T, handler *ParticipantHandler, slug string, turn models.TurnRequest) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.MakeRequest("POST", "/runs/"+slug+"/turns", turn, nil)
	req.SetPathValue("slug", slug)
	w := httptest.NewRecorder()
	handler.SubmitTurn(w, req)
	return w
}

func TestSubmitTurn(t *testing.T) {
	reg := testutil.SetupRegistry(t)
	handler := NewParticipantHandler(reg)
	s := testutil.CreateTestRun(t, reg, session.PhaseTesting, "Ana", "Bea")

	// Bea is not up yet
	w := submitTurn(t, handler, s.Slug(), models.TurnRequest{Participant: "Bea"})
	testutil.AssertStatus(t, w, http.StatusConflict)

	w = submitTurn(t, handler, s.Slug(), models.TurnRequest{})
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Invalid entry records nothing and keeps the turn
	w = submitTurn(t, handler, s.Slug(), models.TurnRequest{
		Participant: "Ana",
		Self:        map[string]int{"q1": 3},
		Peers:       map[string]map[string]int{"Bea": {"q1": 7}},
	})
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = submitTurn(t, handler, s.Slug(), models.TurnRequest{
		Participant: "Ana",
		Self:        map[string]int{"q1": 3},
		Peers:       map[string]map[string]int{"Bea": {"q1": 2}},
	})
	testutil.AssertStatus(t, w, http.StatusOK)

	var st models.RunState
	testutil.AssertJSON(t, w, &st)
	if st.CurrentTurn != "Bea" || st.Phase != "testing" {
		t.Errorf("Expected Bea's turn in testing, got %+v", st)
	}

	w = submitTurn(t, handler, s.Slug(), models.TurnRequest{Participant: "Bea"})
	testutil.AssertStatus(t, w, http.StatusOK)

	st = models.RunState{}
	testutil.AssertJSON(t, w, &st)
	if st.Phase != "results" || st.CurrentTurn != "" {
		t.Errorf("Expected results after the last turn, got %+v", st)
	}
}
