package personality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-persona/internal/domain"
)

func TestEstimateConfidence_IsSymmetric(t *testing.T) {
	a := domain.OceanScores{Openness: 90, Conscientiousness: 10, Extraversion: 40, Agreeableness: 60, Neuroticism: 30}
	b := domain.OceanScores{Openness: 50, Conscientiousness: 35, Extraversion: 70, Agreeableness: 60, Neuroticism: 55}
	r := uniformResponses(3)

	ab := EstimateConfidence(a, b, r)
	ba := EstimateConfidence(b, a, r)
	assert.InDelta(t, ab.Confidence, ba.Confidence, 1e-12)
	assert.InDelta(t, ab.Agreement, ba.Agreement, 1e-12)
}

func TestEstimateConfidence_AgreementBeatsDivergence(t *testing.T) {
	likert := domain.OceanScores{Openness: 80, Conscientiousness: 70, Extraversion: 30, Agreeableness: 60, Neuroticism: 20}
	divergent := domain.OceanScores{Openness: 20, Conscientiousness: 10, Extraversion: 90, Agreeableness: 0, Neuroticism: 80}
	r := uniformResponses(3)

	same := EstimateConfidence(likert, likert, r)
	diff := EstimateConfidence(likert, divergent, r)
	assert.Greater(t, same.Confidence, diff.Confidence)
	assert.InDelta(t, 1.0, same.Agreement, 1e-12)
	assert.InDelta(t, 0.0, diff.Agreement, 1e-12)
}

func TestEstimateConfidence_StaysInUnitRange(t *testing.T) {
	extremes := []domain.OceanScores{uniformScores(0), uniformScores(100), uniformScores(-30), uniformScores(250)}
	for _, a := range extremes {
		for _, b := range extremes {
			c := EstimateConfidence(a, b, uniformResponses(5)).Confidence
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, 1.0)
		}
	}
}

func TestInternalConsistency(t *testing.T) {
	// Todas las respuestas uniformes: los items invertidos generan varianza.
	// Con 3 en todo la varianza es 0.
	assert.InDelta(t, 1.0, InternalConsistency(uniformResponses(3)), 1e-12)

	// 1 en todo: valores ya invertidos 1,5,1,5 -> varianza 4 -> consistencia 0.
	assert.InDelta(t, 0.0, InternalConsistency(uniformResponses(1)), 1e-12)

	assert.Equal(t, 0.0, InternalConsistency(domain.AssessmentResponse{}))
	assert.Equal(t, 0.0, InternalConsistency(domain.AssessmentResponse{"q1": 5}))
}
