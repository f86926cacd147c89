// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

  - CreateRunRequest: survey, policy
  - RegisterParticipantRequest: name
  - AnswerRequest: option
  - BucketRequest: participant, subject, question_id, option
  - TurnRequest: participant, self, peers

# Response Types

  - CreateRunResponse: share_slug, run_id, phase
  - RegisterParticipantResponse: name, participants
  - RunState: phase, participants, current turn, questions and options
  - BucketsResponse: who sits in each option bucket of one question
  - ResultsResponse: ranked conditions per participant
  - ErrorResponse: error, message

Option indices are zero-based positions in the survey's option list.
*/
package models
