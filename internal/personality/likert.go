// Package personality implementa el puntaje hibrido Big Five: cuestionario
// Likert, fusion con la narrativa, confianza y etiquetas derivadas.
// Todas las funciones son puras sobre sus entradas.
package personality

import "resume-persona/internal/domain"

// ValidateResponses exige los 20 items del instrumento con valores en [1,5].
func ValidateResponses(responses domain.AssessmentResponse) error {
	var missing, invalid []string
	for _, item := range domain.Instrument {
		v, ok := responses[item.ID]
		if !ok {
			missing = append(missing, item.ID)
			continue
		}
		if v < domain.LikertMin || v > domain.LikertMax {
			invalid = append(invalid, item.ID)
		}
	}
	if len(missing) > 0 || len(invalid) > 0 {
		return domain.NewIncompleteQuestionnaire(missing, invalid)
	}
	return nil
}

// ScoreLikert promedia los 4 items de cada rasgo (invirtiendo los reversed con
// 6 - valor) y reescala el promedio 1-5 a 0-100.
func ScoreLikert(responses domain.AssessmentResponse) (domain.OceanScores, error) {
	if err := ValidateResponses(responses); err != nil {
		return domain.OceanScores{}, err
	}
	var scores domain.OceanScores
	for _, t := range domain.Traits {
		values := KeyedValues(responses, t)
		sum := 0
		for _, v := range values {
			sum += v
		}
		avg := float64(sum) / float64(len(values))
		scale := float64(domain.LikertMax - domain.LikertMin)
		scores.Set(t, domain.ClampScore((avg-domain.LikertMin)/scale*100))
	}
	return scores, nil
}

// KeyedValues devuelve los valores ya invertidos de los items respondidos de un rasgo.
func KeyedValues(responses domain.AssessmentResponse, t domain.Trait) []int {
	items := domain.ItemsForTrait(t)
	out := make([]int, 0, len(items))
	for _, item := range items {
		v, ok := responses[item.ID]
		if !ok || v < domain.LikertMin || v > domain.LikertMax {
			continue
		}
		out = append(out, item.Keyed(v))
	}
	return out
}
