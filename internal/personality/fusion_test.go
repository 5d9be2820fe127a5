package personality

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-persona/internal/domain"
)

func uniformScores(v float64) domain.OceanScores {
	var s domain.OceanScores
	for _, t := range domain.Traits {
		s.Set(t, v)
	}
	return s
}

func TestFuse_DefaultWeights(t *testing.T) {
	got, err := Fuse(uniformScores(100), uniformScores(0), domain.DefaultFusionWeights)
	require.NoError(t, err)
	assert.Equal(t, 70, got.Openness)
	assert.Equal(t, 70, got.Neuroticism)

	got, err = Fuse(uniformScores(0), uniformScores(100), domain.DefaultFusionWeights)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Conscientiousness)
}

func TestFuse_EqualWeightsAverage(t *testing.T) {
	likert := domain.OceanScores{Openness: 80, Conscientiousness: 20, Extraversion: 55, Agreeableness: 0, Neuroticism: 100}
	narrative := domain.OceanScores{Openness: 40, Conscientiousness: 60, Extraversion: 46, Agreeableness: 100, Neuroticism: 100}
	got, err := Fuse(likert, narrative, domain.FusionWeights{Likert: 0.5, Narrative: 0.5})
	require.NoError(t, err)
	assert.Equal(t, domain.Big5Profile{
		Openness: 60, Conscientiousness: 40, Extraversion: 51, Agreeableness: 50, Neuroticism: 100,
	}, got)
}

func TestFuse_ClampsOutOfRangeInputs(t *testing.T) {
	likert := domain.OceanScores{Openness: 140, Conscientiousness: -20}
	got, err := Fuse(likert, uniformScores(100), domain.DefaultFusionWeights)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Openness)
	assert.Equal(t, 30, got.Conscientiousness)
	for _, tr := range domain.Traits {
		v := got.Get(tr)
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 100)
	}
}

func TestFuse_RejectsInvalidWeights(t *testing.T) {
	cases := []domain.FusionWeights{
		{Likert: 0.7, Narrative: 0.7},
		{Likert: -0.2, Narrative: 1.2},
		{Likert: 0, Narrative: 0},
	}
	for _, w := range cases {
		_, err := Fuse(uniformScores(50), uniformScores(50), w)
		assert.True(t, errors.Is(err, domain.ErrInvalidFusionWeights), "weights %+v", w)
	}
}

func TestFuse_SingleSourceWeights(t *testing.T) {
	likert := domain.OceanScores{Openness: 12.4, Conscientiousness: 87.6}
	got, err := Fuse(likert, uniformScores(50), domain.FusionWeights{Likert: 1, Narrative: 0})
	require.NoError(t, err)
	assert.Equal(t, 12, got.Openness)
	assert.Equal(t, 88, got.Conscientiousness)
}
