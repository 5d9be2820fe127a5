package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-persona/internal/domain"
	"resume-persona/internal/llm"
	"resume-persona/internal/personality"
	"resume-persona/internal/repository"
)

var ErrStoryInvalidInput = errors.New("story invalid input")

// StoryEmbedder es la parte del EmbeddingService que necesita el enriquecimiento.
type StoryEmbedder interface {
	EmbedStory(ctx context.Context, story domain.Story) error
}

// StoryService crea historias y las enriquece con analisis narrativo y embedding.
type StoryService struct {
	llmClient llm.LLMClient
	storyRepo repository.StoryRepository
	embedder  StoryEmbedder
	logger    *zap.Logger
}

func NewStoryService(llmClient llm.LLMClient, storyRepo repository.StoryRepository, embedder StoryEmbedder, logger *zap.Logger) *StoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoryService{llmClient: llmClient, storyRepo: storyRepo, embedder: embedder, logger: logger}
}

// CreateStory persiste la respuesta tal cual; el enriquecimiento es posterior.
func (s *StoryService) CreateStory(ctx context.Context, userID, promptType, promptText, text string) (domain.Story, error) {
	userID = strings.TrimSpace(userID)
	promptType = strings.ToLower(strings.TrimSpace(promptType))
	text = strings.TrimSpace(text)
	if userID == "" || promptType == "" || text == "" {
		return domain.Story{}, ErrStoryInvalidInput
	}

	now := storyVersion()
	story := domain.Story{
		ID:         uuid.NewString(),
		UserID:     userID,
		PromptType: promptType,
		PromptText: strings.TrimSpace(promptText),
		Text:       text,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return domain.Story{}, fmt.Errorf("create story: %w", err)
	}
	return story, nil
}

// AnalyzeStory obtiene la senal narrativa de una historia. Si el modelo falla
// usa el analizador por palabras clave; el resultado siempre es utilizable.
func (s *StoryService) AnalyzeStory(ctx context.Context, story domain.Story) StoryAnalysis {
	if s.llmClient != nil {
		prompt := fmt.Sprintf(storyAnalysisPromptTemplate, story.PromptType, story.PromptText, story.Text)
		raw, err := s.llmClient.Generate(ctx, prompt)
		if err == nil {
			analysis, perr := AdaptStoryAnalysis(raw)
			if perr == nil {
				return analysis
			}
			err = perr
		}
		s.logger.Warn("story analysis fell back to lexicon", zap.String("story_id", story.ID), zap.Error(err))
	}
	return lexiconStoryAnalysis(story)
}

func lexiconStoryAnalysis(story domain.Story) StoryAnalysis {
	return StoryAnalysis{
		Signal: domain.NarrativeSignal{
			Category:     story.PromptType,
			Themes:       personality.ExtractThemes(story.Text),
			Skills:       personality.ExtractSkills(story.Text),
			TraitSignals: personality.LexiconSignals(story.Text),
			Source:       domain.NarrativeSourceLexicon,
		},
	}
}

// EnrichStory analiza, guarda la senal y vuelve a calcular el embedding.
// Es el unico escritor de estos campos para la historia.
func (s *StoryService) EnrichStory(ctx context.Context, storyID string) (domain.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return domain.Story{}, err
	}

	analysis := s.AnalyzeStory(ctx, story)
	signal := analysis.Signal
	story.Summary = analysis.Summary
	story.Category = signal.Category
	story.Themes = signal.Themes
	story.Skills = signal.Skills
	story.Signal = &signal
	story.Embedding = nil
	story.UpdatedAt = storyVersion()

	if err := s.storyRepo.UpdateAnalysis(ctx, story); err != nil {
		return domain.Story{}, fmt.Errorf("update analysis: %w", err)
	}
	if s.embedder != nil {
		if err := s.embedder.EmbedStory(ctx, story); err != nil {
			s.logger.Warn("story embedding deferred", zap.String("story_id", story.ID), zap.Error(err))
			return story, err
		}
	}
	s.logger.Info("story enriched",
		zap.String("story_id", story.ID),
		zap.String("source", signal.Source),
		zap.Int("themes", len(signal.Themes)),
		zap.Int("skills", len(signal.Skills)),
	)
	return story, nil
}

// storyVersion usa la precision de timestamptz para que updated_at sirva
// como version al comparar contra la fila.
func storyVersion() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// ListStories devuelve las historias del usuario en orden de creacion.
func (s *StoryService) ListStories(ctx context.Context, userID string) ([]domain.Story, error) {
	return s.storyRepo.ListByUser(ctx, userID)
}

// OwnedStory devuelve la historia solo si pertenece al usuario.
func (s *StoryService) OwnedStory(ctx context.Context, userID, storyID string) (domain.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return domain.Story{}, err
	}
	if story.UserID != userID {
		return domain.Story{}, domain.ErrStoryNotFound
	}
	return story, nil
}
