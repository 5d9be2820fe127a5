package domain

import "time"

// Trait identifica una de las cinco dimensiones del modelo Big Five (OCEAN).
type Trait string

const (
	TraitOpenness          Trait = "openness"
	TraitConscientiousness Trait = "conscientiousness"
	TraitExtraversion      Trait = "extraversion"
	TraitAgreeableness     Trait = "agreeableness"
	TraitNeuroticism       Trait = "neuroticism"
)

// Traits mantiene el orden canonico O-C-E-A-N.
var Traits = []Trait{
	TraitOpenness,
	TraitConscientiousness,
	TraitExtraversion,
	TraitAgreeableness,
	TraitNeuroticism,
}

// ParseTrait normaliza el nombre de un rasgo; devuelve false si no es OCEAN.
func ParseTrait(name string) (Trait, bool) {
	switch Trait(name) {
	case TraitOpenness, TraitConscientiousness, TraitExtraversion, TraitAgreeableness, TraitNeuroticism:
		return Trait(name), true
	}
	return "", false
}

// Categorias de fila en la tabla traits: una por fuente de puntaje.
const (
	TraitCategoryLikert    = "LIKERT"
	TraitCategoryNarrative = "NARRATIVE"
	TraitCategoryFused     = "FUSED"
)

// TraitScore es una fila persistida de puntaje por rasgo y fuente.
type TraitScore struct {
	ID         string    `json:"id"`
	ProfileID  string    `json:"profile_id"`
	Category   string    `json:"category"`
	Trait      Trait     `json:"trait"`
	Value      int       `json:"value"`
	Confidence *float64  `json:"confidence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
