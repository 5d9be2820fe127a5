package personality

import (
	"math"

	"resume-persona/internal/domain"
)

// Fuse combina ambas fuentes rasgo a rasgo: round(likert*w.Likert + narrative*w.Narrative),
// acotado a [0,100]. Los pesos se reciben por llamada.
func Fuse(likert, narrative domain.OceanScores, w domain.FusionWeights) (domain.Big5Profile, error) {
	if err := w.Validate(); err != nil {
		return domain.Big5Profile{}, err
	}
	l := likert.Clamped()
	n := narrative.Clamped()

	var fused domain.Big5Profile
	for _, t := range domain.Traits {
		v := math.Round(l.Get(t)*w.Likert + n.Get(t)*w.Narrative)
		fused.Set(t, int(domain.ClampScore(v)))
	}
	return fused, nil
}
