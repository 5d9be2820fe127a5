package service

import (
	"context"

	"go.uber.org/zap"

	"resume-persona/internal/domain"
	"resume-persona/internal/repository"
)

// UsageService registra el consumo de historias recuperadas. Es un efecto
// lateral no critico: nunca devuelve error al flujo que lo invoca.
type UsageService struct {
	storyRepo repository.StoryRepository
	logger    *zap.Logger
}

func NewUsageService(storyRepo repository.StoryRepository, logger *zap.Logger) *UsageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsageService{storyRepo: storyRepo, logger: logger}
}

func (s *UsageService) RecordUsage(ctx context.Context, storyID string, kind domain.UsageKind) {
	if err := s.storyRepo.IncrementUsage(ctx, storyID, kind); err != nil {
		s.logger.Warn("usage tracking failed",
			zap.String("story_id", storyID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

// RecordMatches marca como usadas todas las historias de un resultado.
func (s *UsageService) RecordMatches(ctx context.Context, matches []domain.StoryMatch, kind domain.UsageKind) {
	for _, m := range matches {
		s.RecordUsage(ctx, m.Story.ID, kind)
	}
}
