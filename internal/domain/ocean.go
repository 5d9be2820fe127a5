package domain

import "math"

// OceanScores son cinco puntajes en [0,100]. Alto significa "mas del rasgo
// tal como se nombra"; neuroticismo no se invierte a este nivel.
type OceanScores struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// Get devuelve el puntaje de un rasgo.
func (s OceanScores) Get(t Trait) float64 {
	switch t {
	case TraitOpenness:
		return s.Openness
	case TraitConscientiousness:
		return s.Conscientiousness
	case TraitExtraversion:
		return s.Extraversion
	case TraitAgreeableness:
		return s.Agreeableness
	case TraitNeuroticism:
		return s.Neuroticism
	}
	return 0
}

// Set asigna el puntaje de un rasgo. Rasgos desconocidos se ignoran.
func (s *OceanScores) Set(t Trait, v float64) {
	switch t {
	case TraitOpenness:
		s.Openness = v
	case TraitConscientiousness:
		s.Conscientiousness = v
	case TraitExtraversion:
		s.Extraversion = v
	case TraitAgreeableness:
		s.Agreeableness = v
	case TraitNeuroticism:
		s.Neuroticism = v
	}
}

// Clamped devuelve una copia con cada rasgo acotado a [0,100].
func (s OceanScores) Clamped() OceanScores {
	var out OceanScores
	for _, t := range Traits {
		out.Set(t, ClampScore(s.Get(t)))
	}
	return out
}

// Big5Profile es el perfil fusionado final: enteros en [0,100].
type Big5Profile struct {
	Openness          int `json:"openness"`          // Creatividad vs. pragmatismo
	Conscientiousness int `json:"conscientiousness"` // Orden vs. improvisacion
	Extraversion      int `json:"extraversion"`      // Energia social
	Agreeableness     int `json:"agreeableness"`     // Cooperacion
	Neuroticism       int `json:"neuroticism"`       // Reactividad emocional
}

// Get devuelve el valor entero de un rasgo.
func (p Big5Profile) Get(t Trait) int {
	switch t {
	case TraitOpenness:
		return p.Openness
	case TraitConscientiousness:
		return p.Conscientiousness
	case TraitExtraversion:
		return p.Extraversion
	case TraitAgreeableness:
		return p.Agreeableness
	case TraitNeuroticism:
		return p.Neuroticism
	}
	return 0
}

// Set asigna el valor entero de un rasgo.
func (p *Big5Profile) Set(t Trait, v int) {
	switch t {
	case TraitOpenness:
		p.Openness = v
	case TraitConscientiousness:
		p.Conscientiousness = v
	case TraitExtraversion:
		p.Extraversion = v
	case TraitAgreeableness:
		p.Agreeableness = v
	case TraitNeuroticism:
		p.Neuroticism = v
	}
}

// Scores convierte el perfil entero a OceanScores.
func (p Big5Profile) Scores() OceanScores {
	var s OceanScores
	for _, t := range Traits {
		s.Set(t, float64(p.Get(t)))
	}
	return s
}

// ClampScore acota un puntaje a [0,100]; NaN se trata como 0.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampUnit acota un valor a [0,1]; NaN se trata como 0.
func ClampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
