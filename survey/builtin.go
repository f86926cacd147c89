// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import "fmt"

const (
	ConditionDepression = "Depresión mayor"
	ConditionBipolar    = "Trastorno bipolar"
	ConditionSocial     = "Ansiedad social"
	ConditionOCD        = "TOC"
	ConditionAnxiety    = "Ansiedad generalizada"
)

// Frequency scale used by the ordinal questionnaire; index is the score.
var FrequencyOptions = []string{"Nunca", "Ocasionalmente", "Frecuentemente", "Siempre"}

// Yes/no scale; index 0 counts as "yes".
var YesNoOptions = []string{"Sí", "No"}

var prompts = []struct {
	id, text, condition string
}{
	{"q1", "¿Con qué frecuencia te sientes triste o sin esperanza?", ConditionDepression},
	{"q2", "¿Has perdido el interés por actividades que antes disfrutabas?", ConditionDepression},
	{"q3", "¿Tienes pensamientos acelerados o cambios de humor extremos?", ConditionBipolar},
	{"q4", "¿Evitas situaciones sociales por miedo a ser juzgado o rechazado?", ConditionSocial},
	{"q5", "¿Sientes la necesidad de repetir acciones o comprobar cosas una y otra vez?", ConditionOCD},
	{"q6", "¿Te preocupas en exceso por situaciones cotidianas?", ConditionAnxiety},
}

func build(name string, scale Scale, options []string) *Model {
	qs := make([]Question, len(prompts))
	for i, p := range prompts {
		qs[i] = Question{ID: p.id, Text: p.text, Condition: p.condition, Options: options}
	}
	m, err := NewWithScale(name, scale, qs)
	if err != nil {
		panic(fmt.Sprintf("survey: built-in model %s: %v", name, err))
	}
	return m
}

// Ordinal is the four-option frequency questionnaire.
func Ordinal() *Model { return build("ordinal", ScaleOrdinal, FrequencyOptions) }

// Boolean is the yes/no questionnaire.
func Boolean() *Model { return build("boolean", ScaleBoolean, YesNoOptions) }

// ByName resolves a built-in model.
func ByName(name string) (*Model, error) {
	switch name {
	case "ordinal":
		return Ordinal(), nil
	case "boolean":
		return Boolean(), nil
	}
	return nil, fmt.Errorf("unknown survey %q (use ordinal or boolean)", name)
}
