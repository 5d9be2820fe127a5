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
	"resume-persona/internal/personality"
	"resume-persona/internal/repository"
)

// Un perfil sostenido solo por palabras clave pierde parte de su confianza.
const lexiconConfidencePenalty = 0.8

var ErrAssessmentInvalidInput = errors.New("assessment invalid input")

// AssessmentService orquesta el pipeline Likert -> narrativa -> fusion ->
// confianza -> etiquetas y persiste el perfil resultante.
type AssessmentService struct {
	scorer         NarrativeScorer
	storyRepo      repository.StoryRepository
	profileRepo    repository.ProfileRepository
	defaultWeights domain.FusionWeights
	logger         *zap.Logger
	now            func() time.Time
}

func NewAssessmentService(
	scorer NarrativeScorer,
	storyRepo repository.StoryRepository,
	profileRepo repository.ProfileRepository,
	defaultWeights domain.FusionWeights,
	logger *zap.Logger,
) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		scorer:         scorer,
		storyRepo:      storyRepo,
		profileRepo:    profileRepo,
		defaultWeights: defaultWeights,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// AssessmentRequest es la entrada de una evaluacion completa.
type AssessmentRequest struct {
	Responses domain.AssessmentResponse
	StoryIDs  []string
	Weights   *domain.FusionWeights
}

// ComputeAssessment es puro salvo por la llamada al modelo narrativo: no persiste nada.
func (s *AssessmentService) ComputeAssessment(
	ctx context.Context,
	userID string,
	responses domain.AssessmentResponse,
	stories []domain.Story,
	weights *domain.FusionWeights,
) (domain.PersonalityProfile, error) {
	likert, err := personality.ScoreLikert(responses)
	if err != nil {
		return domain.PersonalityProfile{}, err
	}
	if len(stories) == 0 {
		return domain.PersonalityProfile{}, &domain.IncompleteAssessmentError{Section: domain.SectionStories}
	}

	w := s.defaultWeights
	if weights != nil {
		w = *weights
	}
	if err := w.Validate(); err != nil {
		return domain.PersonalityProfile{}, err
	}

	narrative, err := s.scorer.Score(ctx, stories)
	if err != nil {
		return domain.PersonalityProfile{}, fmt.Errorf("narrative scoring: %w", err)
	}

	fused, err := personality.Fuse(likert, narrative.Scores, w)
	if err != nil {
		return domain.PersonalityProfile{}, err
	}

	breakdown := personality.EstimateConfidence(likert, narrative.Scores, responses)
	if narrative.Source == domain.NarrativeSourceLexicon {
		breakdown.Confidence *= lexiconConfidencePenalty
	}

	derived := personality.DeriveTraits(fused)
	now := s.now()

	return domain.PersonalityProfile{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Scores:             fused,
		LikertScores:       likert,
		NarrativeScores:    narrative.Scores,
		NarrativeSource:    narrative.Source,
		NarrativeConf:      narrative.Confidence,
		Confidence:         domain.ClampUnit(breakdown.Confidence),
		Derived:            derived,
		Summary:            personality.BuildSummary(fused, derived),
		KeyInsights:        personality.BuildInsights(fused, breakdown),
		Weights:            w,
		MethodologyVersion: domain.MethodologyVersion,
		Completed:          true,
		CompletedAt:        &now,
		CreatedAt:          now,
	}, nil
}

// CompleteAssessment carga las historias del usuario, calcula el perfil y lo
// escribe de forma atomica. Un ciclo nuevo siempre crea un perfil nuevo.
func (s *AssessmentService) CompleteAssessment(ctx context.Context, userID string, req AssessmentRequest) (domain.PersonalityProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.PersonalityProfile{}, ErrAssessmentInvalidInput
	}

	var stories []domain.Story
	var err error
	if len(req.StoryIDs) > 0 {
		stories, err = s.storyRepo.ListByIDs(ctx, userID, req.StoryIDs)
	} else {
		stories, err = s.storyRepo.ListByUser(ctx, userID)
	}
	if err != nil {
		return domain.PersonalityProfile{}, fmt.Errorf("load stories: %w", err)
	}

	s.logger.Info("computing assessment",
		zap.String("user_id", userID),
		zap.Int("stories", len(stories)),
	)

	profile, err := s.ComputeAssessment(ctx, userID, req.Responses, stories, req.Weights)
	if err != nil {
		return domain.PersonalityProfile{}, err
	}

	if err := s.profileRepo.CreateCompleted(ctx, profile); err != nil {
		s.logger.Error("profile persist failed", zap.String("user_id", userID), zap.Error(err))
		return domain.PersonalityProfile{}, fmt.Errorf("persist profile: %w", err)
	}

	s.logger.Info("assessment completed",
		zap.String("user_id", userID),
		zap.String("profile_id", profile.ID),
		zap.Float64("confidence", profile.Confidence),
		zap.String("narrative_source", profile.NarrativeSource),
	)
	return profile, nil
}

// LatestProfile devuelve el ultimo perfil completo del usuario.
func (s *AssessmentService) LatestProfile(ctx context.Context, userID string) (domain.PersonalityProfile, error) {
	return s.profileRepo.GetLatestCompleted(ctx, userID)
}
