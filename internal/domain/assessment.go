package domain

import "fmt"

// Direction indica si un item se puntua tal cual o invertido (6 - valor).
type Direction string

const (
	DirectionNormal   Direction = "normal"
	DirectionReversed Direction = "reversed"
)

const (
	// LikertMin y LikertMax delimitan la escala de acuerdo.
	LikertMin = 1
	LikertMax = 5

	// InstrumentSize es la cantidad fija de items del cuestionario.
	InstrumentSize = 20
	// ItemsPerTrait es la cantidad fija de items por rasgo.
	ItemsPerTrait = 4

	// MethodologyVersion etiqueta la metodologia de evaluacion hibrida.
	MethodologyVersion = "hybrid-v1"
)

// AssessmentItem es un enunciado del cuestionario.
type AssessmentItem struct {
	ID        string    `json:"id"`
	Trait     Trait     `json:"trait"`
	Direction Direction `json:"direction"`
	Text      string    `json:"text"`
}

// Keyed aplica la inversion del item si corresponde.
func (i AssessmentItem) Keyed(value int) int {
	if i.Direction == DirectionReversed {
		return (LikertMin + LikertMax) - value
	}
	return value
}

// AssessmentResponse mapea id de item a un valor entero en [1,5].
type AssessmentResponse map[string]int

// Instrument es el cuestionario fijo: 20 items, 4 por rasgo (2 directos y 2 invertidos).
var Instrument = []AssessmentItem{
	{ID: "q1", Trait: TraitOpenness, Direction: DirectionNormal, Text: "I have a vivid imagination."},
	{ID: "q2", Trait: TraitConscientiousness, Direction: DirectionNormal, Text: "I get important tasks done right away."},
	{ID: "q3", Trait: TraitExtraversion, Direction: DirectionNormal, Text: "I feel energized when I am around other people."},
	{ID: "q4", Trait: TraitAgreeableness, Direction: DirectionNormal, Text: "I sympathize with other people's feelings."},
	{ID: "q5", Trait: TraitNeuroticism, Direction: DirectionNormal, Text: "I have frequent mood swings."},
	{ID: "q6", Trait: TraitOpenness, Direction: DirectionReversed, Text: "I am not interested in abstract ideas."},
	{ID: "q7", Trait: TraitConscientiousness, Direction: DirectionReversed, Text: "I often forget to put things back in their proper place."},
	{ID: "q8", Trait: TraitExtraversion, Direction: DirectionReversed, Text: "I prefer to stay in the background at meetings."},
	{ID: "q9", Trait: TraitAgreeableness, Direction: DirectionReversed, Text: "I am not really interested in other people's problems."},
	{ID: "q10", Trait: TraitNeuroticism, Direction: DirectionReversed, Text: "I stay relaxed most of the time, even under pressure."},
	{ID: "q11", Trait: TraitOpenness, Direction: DirectionNormal, Text: "I enjoy experimenting with new ways of doing things."},
	{ID: "q12", Trait: TraitConscientiousness, Direction: DirectionNormal, Text: "I plan my work and follow the plan."},
	{ID: "q13", Trait: TraitExtraversion, Direction: DirectionNormal, Text: "I find it easy to start conversations with strangers."},
	{ID: "q14", Trait: TraitAgreeableness, Direction: DirectionNormal, Text: "I go out of my way to make colleagues feel at ease."},
	{ID: "q15", Trait: TraitNeuroticism, Direction: DirectionNormal, Text: "I get stressed out easily."},
	{ID: "q16", Trait: TraitOpenness, Direction: DirectionReversed, Text: "I prefer familiar routines over new experiences."},
	{ID: "q17", Trait: TraitConscientiousness, Direction: DirectionReversed, Text: "I tend to leave work unfinished when it gets boring."},
	{ID: "q18", Trait: TraitExtraversion, Direction: DirectionReversed, Text: "I keep quiet when I am in a large group."},
	{ID: "q19", Trait: TraitAgreeableness, Direction: DirectionReversed, Text: "I can be blunt to the point of being unkind."},
	{ID: "q20", Trait: TraitNeuroticism, Direction: DirectionReversed, Text: "I rarely feel anxious about the future."},
}

// ItemsForTrait devuelve los items del instrumento que miden un rasgo.
func ItemsForTrait(t Trait) []AssessmentItem {
	out := make([]AssessmentItem, 0, ItemsPerTrait)
	for _, item := range Instrument {
		if item.Trait == t {
			out = append(out, item)
		}
	}
	return out
}

// ValidateInstrument verifica el invariante 20 items / 4 por rasgo / ids unicos.
func ValidateInstrument(items []AssessmentItem) error {
	if len(items) != InstrumentSize {
		return fmt.Errorf("instrument has %d items, want %d", len(items), InstrumentSize)
	}
	seen := make(map[string]struct{}, len(items))
	perTrait := make(map[Trait]int, len(Traits))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("instrument item %s is duplicated", item.ID)
		}
		seen[item.ID] = struct{}{}
		if _, ok := ParseTrait(string(item.Trait)); !ok {
			return fmt.Errorf("instrument item %s has unknown trait %q", item.ID, item.Trait)
		}
		if item.Direction != DirectionNormal && item.Direction != DirectionReversed {
			return fmt.Errorf("instrument item %s has unknown direction %q", item.ID, item.Direction)
		}
		perTrait[item.Trait]++
	}
	for _, t := range Traits {
		if perTrait[t] != ItemsPerTrait {
			return fmt.Errorf("trait %s has %d items, want %d", t, perTrait[t], ItemsPerTrait)
		}
	}
	return nil
}
