// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scoring turns a participant's answers into ranked per-condition
percentages.

# Policies

Three interchangeable policies implement Policy:

  - OrdinalSum ("ordinal-sum"): option index is the score, self and peer
    sums normalised by question count, scale maximum and rater count
  - WeightedDrag ("weighted-drag"): peer value per question is the mean
    bucket index of everyone placed there
  - BooleanCount ("boolean-count"): counts "yes" answers over one self voice
    plus every possible rater

OrdinalSum and WeightedDrag read ordinal surveys, BooleanCount reads
boolean ones. Compatible rejects any other pairing and DefaultFor picks the
policy for a survey when none is configured.

Each policy reports self, peer and a headline percentage per condition.
Unanswered questions contribute 0 and are not removed from denominators.
A zero denominator scores 0.

# Engine

	engine := scoring.NewEngine(scoring.OrdinalSum{})
	results := engine.Results(model, snapshot)

Results sorts by headline percentage, highest first, keeps declaration
order on ties and truncates to Limit (3 by default). Percentages are
rounded to the nearest integer and clamped to 0..100.
*/
package scoring
