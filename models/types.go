// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/peerscreen/scoring"
	"github.com/danielhkuo/peerscreen/survey"
)

// Request types

// Survey names a built-in survey ("ordinal" or "boolean"); empty uses the
// server default. Policy works the same way for scoring policies.
type CreateRunRequest struct {
	Survey string `json:"survey"`
	Policy string `json:"policy"`
}

type RegisterParticipantRequest struct {
	Name string `json:"name"`
}

// Option is a pointer so a missing field is told apart from option 0.
type AnswerRequest struct {
	Option *int `json:"option"`
}

type BucketRequest struct {
	Participant string `json:"participant"`
	Subject     string `json:"subject"`
	QuestionID  string `json:"question_id"`
	Option      *int   `json:"option"`
}

// participant's own answers plus subject -> question -> option
type TurnRequest struct {
	Participant string                    `json:"participant"`
	Self        map[string]int            `json:"self"`
	Peers       map[string]map[string]int `json:"peers"`
}

// Response types

type CreateRunResponse struct {
	ShareSlug string `json:"share_slug"`
	RunID     string `json:"run_id,omitempty"`
	Phase     string `json:"phase"`
}

type RegisterParticipantResponse struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

type RunState struct {
	RunID        string            `json:"run_id"`
	ShareSlug    string            `json:"share_slug"`
	Phase        string            `json:"phase"`
	Survey       string            `json:"survey"`
	Policy       string            `json:"policy"`
	Participants []string          `json:"participants"`
	CurrentTurn  string            `json:"current_turn,omitempty"`
	Options      []string          `json:"options"`
	Questions    []survey.Question `json:"questions"`
}

type Bucket struct {
	Option       int      `json:"option"`
	Label        string   `json:"label"`
	Participants []string `json:"participants"`
}

type BucketsResponse struct {
	Subject    string   `json:"subject"`
	QuestionID string   `json:"question_id"`
	Buckets    []Bucket `json:"buckets"`
}

type ParticipantResults struct {
	Participant string           `json:"participant"`
	Results     []scoring.Result `json:"results"`
}

type ResultsResponse struct {
	Policy     string               `json:"policy"`
	ComputedAt time.Time            `json:"computed_at"`
	Results    []ParticipantResults `json:"results"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
