package personality

import (
	"math"

	"resume-persona/internal/domain"
)

const (
	agreementWeight   = 0.6
	consistencyWeight = 0.4

	// Una diferencia media de 50 puntos o mas equivale a acuerdo nulo.
	disagreementCeiling = 50.0

	// Varianza maxima de 4 valores en [1,5]: dos 1 y dos 5.
	maxItemVariance = 4.0
)

// ConfidenceBreakdown expone las dos senales y el escalar final.
type ConfidenceBreakdown struct {
	Agreement   float64 `json:"agreement"`
	Consistency float64 `json:"consistency"`
	Confidence  float64 `json:"confidence"`
}

// EstimateConfidence combina acuerdo entre fuentes y consistencia interna del
// cuestionario. Es simetrica respecto del orden de a y b.
func EstimateConfidence(a, b domain.OceanScores, responses domain.AssessmentResponse) ConfidenceBreakdown {
	agreement := CrossSourceAgreement(a, b)
	consistency := InternalConsistency(responses)
	return ConfidenceBreakdown{
		Agreement:   agreement,
		Consistency: consistency,
		Confidence:  domain.ClampUnit(agreementWeight*agreement + consistencyWeight*consistency),
	}
}

// CrossSourceAgreement invierte la diferencia absoluta media por rasgo:
// 0 puntos -> 1.0, 50 o mas -> 0.
func CrossSourceAgreement(a, b domain.OceanScores) float64 {
	ac := a.Clamped()
	bc := b.Clamped()
	var total float64
	for _, t := range domain.Traits {
		total += math.Abs(ac.Get(t) - bc.Get(t))
	}
	mean := total / float64(len(domain.Traits))
	return domain.ClampUnit(1 - mean/disagreementCeiling)
}

// InternalConsistency promedia, por rasgo, 1 - varianza/varianzaMaxima de los
// items ya invertidos. Rasgos con menos de dos respuestas validas no cuentan.
func InternalConsistency(responses domain.AssessmentResponse) float64 {
	var total float64
	counted := 0
	for _, t := range domain.Traits {
		values := KeyedValues(responses, t)
		if len(values) < 2 {
			continue
		}
		total += 1 - variance(values)/maxItemVariance
		counted++
	}
	if counted == 0 {
		return 0
	}
	return domain.ClampUnit(total / float64(counted))
}

func variance(values []int) float64 {
	var mean float64
	for _, v := range values {
		mean += float64(v)
	}
	mean /= float64(len(values))
	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return sq / float64(len(values))
}
