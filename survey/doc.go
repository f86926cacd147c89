// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package survey defines the static questionnaire a run is scored against.

Each question maps to exactly one condition and every question in a model
shares the same ordered option list, so the option index doubles as the
answer's score:

	m := survey.Ordinal()   // Nunca, Ocasionalmente, Frecuentemente, Siempre
	m := survey.Boolean()   // Sí, No

Custom questionnaires are loaded from YAML:

	name: team-check
	options: [Nunca, A veces, Siempre]
	questions:
	  - id: sleep
	    text: ¿Duermes mal?
	    condition: Insomnio

Conditions are reported in order of first appearance; scoring uses that
order to break ties.
*/
package survey
