package service

import (
	"fmt"
	"strings"

	"resume-persona/internal/domain"
)

type bigFiveOutput struct {
	Openness          *float64          `json:"openness" validate:"required"`
	Conscientiousness *float64          `json:"conscientiousness" validate:"required"`
	Extraversion      *float64          `json:"extraversion" validate:"required"`
	Agreeableness     *float64          `json:"agreeableness" validate:"required"`
	Neuroticism       *float64          `json:"neuroticism" validate:"required"`
	Confidence        *float64          `json:"confidence" validate:"required"`
	Reasoning         string            `json:"reasoning"`
	DerivedLabels     map[string]string `json:"derived_labels" validate:"omitempty,dive,keys,oneof=workStyle communicationStyle leadershipStyle motivationType decisionMaking work_style communication_style leadership_style motivation_type decision_making,endkeys,required"`
}

// AdaptBigFive valida la inferencia Big Five del modelo. Los cinco rasgos y la
// confianza son obligatorios; los valores fuera de rango se acotan.
func AdaptBigFive(raw string) (domain.NarrativeAssessment, error) {
	var out bigFiveOutput
	if err := decodeModelJSON(raw, &out); err != nil {
		return domain.NarrativeAssessment{}, err
	}

	scores := domain.OceanScores{
		Openness:          *out.Openness,
		Conscientiousness: *out.Conscientiousness,
		Extraversion:      *out.Extraversion,
		Agreeableness:     *out.Agreeableness,
		Neuroticism:       *out.Neuroticism,
	}
	return domain.NarrativeAssessment{
		Scores:        scores.Clamped(),
		Confidence:    domain.ClampUnit(*out.Confidence),
		Reasoning:     strings.TrimSpace(out.Reasoning),
		DerivedLabels: out.DerivedLabels,
		Source:        domain.NarrativeSourceModel,
	}, nil
}

type traitSignalsOutput struct {
	Openness          *float64 `json:"openness" validate:"required"`
	Conscientiousness *float64 `json:"conscientiousness" validate:"required"`
	Extraversion      *float64 `json:"extraversion" validate:"required"`
	Agreeableness     *float64 `json:"agreeableness" validate:"required"`
	Neuroticism       *float64 `json:"neuroticism" validate:"required"`
}

type storyAnalysisOutput struct {
	Summary      string              `json:"summary" validate:"required"`
	Category     string              `json:"category" validate:"required"`
	Themes       []string            `json:"themes" validate:"required,min=2,dive,required"`
	Skills       []string            `json:"skills" validate:"required,min=3,dive,required"`
	TraitSignals *traitSignalsOutput `json:"trait_signals" validate:"required"`
}

// StoryAnalysis es el resultado normalizado del analisis de una historia.
type StoryAnalysis struct {
	Summary string
	Signal  domain.NarrativeSignal
}

// AdaptStoryAnalysis valida la salida del analisis por historia: entre 2 y 5
// temas, entre 3 y 7 habilidades y senales acotadas a [0,1]. Las listas largas
// se recortan; las cortas, contadas sin repetidos, se rechazan.
func AdaptStoryAnalysis(raw string) (StoryAnalysis, error) {
	var out storyAnalysisOutput
	if err := decodeModelJSON(raw, &out); err != nil {
		return StoryAnalysis{}, err
	}
	themes := normalizeKeywords(out.Themes, maxStoryThemes)
	skills := normalizeKeywords(out.Skills, maxStorySkills)
	if len(themes) < minStoryThemes || len(skills) < minStorySkills {
		return StoryAnalysis{}, fmt.Errorf("%w: %d distinct themes and %d distinct skills, want at least %d and %d",
			domain.ErrMalformedModelOutput, len(themes), len(skills), minStoryThemes, minStorySkills)
	}
	ts := out.TraitSignals
	return StoryAnalysis{
		Summary: strings.TrimSpace(out.Summary),
		Signal: domain.NarrativeSignal{
			Category: strings.ToLower(strings.TrimSpace(out.Category)),
			Themes:   themes,
			Skills:   skills,
			TraitSignals: domain.TraitSignals{
				Openness:          domain.ClampUnit(*ts.Openness),
				Conscientiousness: domain.ClampUnit(*ts.Conscientiousness),
				Extraversion:      domain.ClampUnit(*ts.Extraversion),
				Agreeableness:     domain.ClampUnit(*ts.Agreeableness),
				Neuroticism:       domain.ClampUnit(*ts.Neuroticism),
			},
			Source: domain.NarrativeSourceModel,
		},
	}, nil
}

const (
	minStoryThemes = 2
	maxStoryThemes = 5
	minStorySkills = 3
	maxStorySkills = 7
)

func normalizeKeywords(in []string, limit int) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
		if len(out) == limit {
			break
		}
	}
	return out
}
