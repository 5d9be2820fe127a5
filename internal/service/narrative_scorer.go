package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"resume-persona/internal/domain"
	"resume-persona/internal/llm"
	"resume-persona/internal/personality"
)

// NarrativeScorer estima OCEAN a partir de las historias del usuario.
type NarrativeScorer interface {
	Score(ctx context.Context, stories []domain.Story) (domain.NarrativeAssessment, error)
}

// ModelNarrativeScorer delega la inferencia al modelo y valida su salida.
type ModelNarrativeScorer struct {
	llmClient llm.LLMClient
}

func NewModelNarrativeScorer(llmClient llm.LLMClient) *ModelNarrativeScorer {
	return &ModelNarrativeScorer{llmClient: llmClient}
}

func (s *ModelNarrativeScorer) Score(ctx context.Context, stories []domain.Story) (domain.NarrativeAssessment, error) {
	if len(stories) == 0 {
		return domain.NarrativeAssessment{}, errors.New("no stories to score")
	}
	prompt := fmt.Sprintf(bigFivePromptTemplate, buildStoriesText(stories))
	raw, err := s.llmClient.Generate(ctx, prompt)
	if err != nil {
		return domain.NarrativeAssessment{}, fmt.Errorf("llm generate: %w", err)
	}
	return AdaptBigFive(raw)
}

// LexiconNarrativeScorer no llama al modelo y nunca falla. Las historias que ya
// tienen senales del modelo guardadas aportan esas senales; el resto se estima
// con palabras clave. La confianza esta acotada a personality.LexiconMaxConfidence.
type LexiconNarrativeScorer struct{}

func (LexiconNarrativeScorer) Score(_ context.Context, stories []domain.Story) (domain.NarrativeAssessment, error) {
	var texts []string
	var stored []domain.OceanScores
	for _, st := range stories {
		if st.Signal != nil && st.Signal.Source == domain.NarrativeSourceModel {
			stored = append(stored, st.Signal.TraitSignals.AsScores())
			continue
		}
		texts = append(texts, st.Text)
	}
	est := personality.ScoreLexicon(texts...)
	if len(stored) == 0 {
		return domain.NarrativeAssessment{
			Scores:     est.Scores,
			Confidence: est.Confidence,
			Reasoning:  fmt.Sprintf("keyword estimate from %d matches", est.Hits),
			Source:     domain.NarrativeSourceLexicon,
		}, nil
	}

	// Cada historia pesa lo mismo, venga de senales guardadas o de palabras clave.
	total := float64(len(stored) + len(texts))
	var scores domain.OceanScores
	for _, t := range domain.Traits {
		sum := est.Scores.Get(t) * float64(len(texts))
		for _, sc := range stored {
			sum += sc.Get(t)
		}
		scores.Set(t, domain.ClampScore(sum/total))
	}
	confidence := (personality.LexiconMaxConfidence*float64(len(stored)) + est.Confidence*float64(len(texts))) / total
	return domain.NarrativeAssessment{
		Scores:     scores,
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("stored signals from %d stories, keyword estimate from %d matches", len(stored), est.Hits),
		Source:     domain.NarrativeSourceLexicon,
	}, nil
}

// FallbackNarrativeScorer es el unico punto de decision del modo degradado:
// reintenta el primario y, si sigue fallando, usa el respaldo.
type FallbackNarrativeScorer struct {
	primary  NarrativeScorer
	fallback NarrativeScorer
	retries  int
	logger   *zap.Logger
}

func NewFallbackNarrativeScorer(primary, fallback NarrativeScorer, retries int, logger *zap.Logger) *FallbackNarrativeScorer {
	if retries < 0 {
		retries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackNarrativeScorer{primary: primary, fallback: fallback, retries: retries, logger: logger}
}

func (s *FallbackNarrativeScorer) Score(ctx context.Context, stories []domain.Story) (domain.NarrativeAssessment, error) {
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.NarrativeAssessment{}, err
		}
		res, err := s.primary.Score(ctx, stories)
		if err == nil {
			return res, nil
		}
		lastErr = err
		s.logger.Debug("narrative model attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}

	s.logger.Warn("narrative model unavailable, using lexicon fallback",
		zap.Int("attempts", s.retries+1),
		zap.Error(lastErr),
	)
	return s.fallback.Score(ctx, stories)
}

func buildStoriesText(stories []domain.Story) string {
	var b strings.Builder
	for i, st := range stories {
		fmt.Fprintf(&b, "Story %d (%s): %s\n", i+1, st.PromptType, strings.TrimSpace(st.PromptText))
		b.WriteString(strings.TrimSpace(st.Text))
		b.WriteString("\n---\n")
	}
	return b.String()
}
