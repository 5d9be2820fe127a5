package personality

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-persona/internal/domain"
)

// responsesKeyed responde cada item de modo que su valor ya invertido sea keyed.
func responsesKeyed(keyed map[domain.Trait]int) domain.AssessmentResponse {
	out := domain.AssessmentResponse{}
	for _, item := range domain.Instrument {
		v := keyed[item.Trait]
		if item.Direction == domain.DirectionReversed {
			v = 6 - v
		}
		out[item.ID] = v
	}
	return out
}

func uniformResponses(v int) domain.AssessmentResponse {
	out := domain.AssessmentResponse{}
	for _, item := range domain.Instrument {
		out[item.ID] = v
	}
	return out
}

func TestScoreLikert_KeyedExtremes(t *testing.T) {
	high := responsesKeyed(map[domain.Trait]int{
		domain.TraitOpenness: 5, domain.TraitConscientiousness: 5, domain.TraitExtraversion: 5,
		domain.TraitAgreeableness: 5, domain.TraitNeuroticism: 5,
	})
	scores, err := ScoreLikert(high)
	require.NoError(t, err)
	for _, tr := range domain.Traits {
		assert.InDelta(t, 100, scores.Get(tr), 1e-9, "trait %s", tr)
	}

	low := responsesKeyed(map[domain.Trait]int{
		domain.TraitOpenness: 1, domain.TraitConscientiousness: 1, domain.TraitExtraversion: 1,
		domain.TraitAgreeableness: 1, domain.TraitNeuroticism: 1,
	})
	scores, err = ScoreLikert(low)
	require.NoError(t, err)
	for _, tr := range domain.Traits {
		assert.InDelta(t, 0, scores.Get(tr), 1e-9, "trait %s", tr)
	}
}

func TestScoreLikert_UniformAnswersLandInTheMiddle(t *testing.T) {
	// Dos items normales y dos invertidos por rasgo: respuestas uniformes dan 50.
	for _, v := range []int{1, 3, 5} {
		scores, err := ScoreLikert(uniformResponses(v))
		require.NoError(t, err)
		for _, tr := range domain.Traits {
			assert.InDelta(t, 50, scores.Get(tr), 1e-9, "value %d trait %s", v, tr)
		}
	}
}

func TestScoreLikert_ReversedItemsAreInverted(t *testing.T) {
	r := uniformResponses(3)
	r["q6"] = 1 // openness invertido: cuenta como 5
	scores, err := ScoreLikert(r)
	require.NoError(t, err)
	assert.InDelta(t, 62.5, scores.Openness, 1e-9)

	r["q6"] = 5
	scores, err = ScoreLikert(r)
	require.NoError(t, err)
	assert.InDelta(t, 37.5, scores.Openness, 1e-9)
}

func TestScoreLikert_MissingAndInvalidItems(t *testing.T) {
	r := uniformResponses(3)
	delete(r, "q4")
	r["q7"] = 6
	r["q9"] = 0

	_, err := ScoreLikert(r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIncompleteAssessment))

	var inc *domain.IncompleteAssessmentError
	require.True(t, errors.As(err, &inc))
	assert.Equal(t, domain.SectionQuestionnaire, inc.Section)
	assert.Equal(t, []string{"q4"}, inc.MissingItems)
	assert.Equal(t, []string{"q7", "q9"}, inc.InvalidItems)
}

func TestScoreLikert_EmptyResponses(t *testing.T) {
	_, err := ScoreLikert(domain.AssessmentResponse{})
	var inc *domain.IncompleteAssessmentError
	require.True(t, errors.As(err, &inc))
	assert.Len(t, inc.MissingItems, domain.InstrumentSize)
}

func TestKeyedValues_SkipsUnanswered(t *testing.T) {
	r := domain.AssessmentResponse{"q1": 4, "q6": 2}
	assert.Equal(t, []int{4, 4}, KeyedValues(r, domain.TraitOpenness))
	assert.Empty(t, KeyedValues(r, domain.TraitNeuroticism))
}
