package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"resume-persona/internal/domain"
	"resume-persona/internal/repository"
	"resume-persona/internal/vector"
)

// QueryEmbedder genera vectores transitorios para consultas ad hoc.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RetrieveOptions acota una busqueda. Limit <= 0 devuelve una lista vacia.
type RetrieveOptions struct {
	Limit         int
	MinSimilarity float64
	Categories    []string
	PromptTypes   []string
}

// RetrievalPolicy especializa Retrieve para un tipo de documento.
type RetrievalPolicy struct {
	Name          string
	PromptTypes   []string
	MinSimilarity float64
}

var (
	// Los CV necesitan amplitud: mas tipos y un piso mas bajo.
	ResumePolicy = RetrievalPolicy{
		Name: "resume",
		PromptTypes: []string{
			domain.PromptTypeAchievement,
			domain.PromptTypeInnovation,
			domain.PromptTypeTeam,
			domain.PromptTypeLearning,
			domain.PromptTypeLeadership,
		},
		MinSimilarity: 0.3,
	}
	// Las cartas necesitan precision: piso mas alto.
	CoverLetterPolicy = RetrievalPolicy{
		Name: "cover_letter",
		PromptTypes: []string{
			domain.PromptTypePassion,
			domain.PromptTypeValues,
			domain.PromptTypeHelping,
		},
		MinSimilarity: 0.5,
	}
)

const (
	minCandidates        = 20
	candidatesPerResult  = 4
	defaultPolicyResults = 5
)

// RetrievalService responde "historias mas relevantes para X" por similitud coseno,
// siempre dentro de las historias del propio usuario.
type RetrievalService struct {
	embedder  QueryEmbedder
	storyRepo repository.StoryRepository
	logger    *zap.Logger
}

func NewRetrievalService(embedder QueryEmbedder, storyRepo repository.StoryRepository, logger *zap.Logger) *RetrievalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetrievalService{embedder: embedder, storyRepo: storyRepo, logger: logger}
}

// Retrieve embebe la consulta, filtra candidatos, los ordena por similitud
// descendente, descarta los que no llegan a MinSimilarity y corta en Limit.
func (s *RetrievalService) Retrieve(ctx context.Context, userID, query string, opts RetrieveOptions) ([]domain.StoryMatch, error) {
	if opts.Limit <= 0 || strings.TrimSpace(query) == "" {
		return []domain.StoryMatch{}, nil
	}
	qv, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.rank(ctx, userID, qv, opts, nil)
}

func (s *RetrievalService) rank(ctx context.Context, userID string, qv []float32, opts RetrieveOptions, exclude map[string]struct{}) ([]domain.StoryMatch, error) {
	candidates, err := s.storyRepo.SearchByEmbedding(ctx, userID, pgvector.NewVector(qv), repository.StorySearch{
		PromptTypes: opts.PromptTypes,
		Categories:  opts.Categories,
		Limit:       max(minCandidates, opts.Limit*candidatesPerResult),
	})
	if err != nil {
		return nil, fmt.Errorf("search stories: %w", err)
	}

	matches := make([]domain.StoryMatch, 0, len(candidates))
	for _, st := range candidates {
		if st.UserID != userID || !st.HasEmbedding() {
			continue
		}
		if _, skip := exclude[st.ID]; skip {
			continue
		}
		sim, err := vector.Cosine(qv, st.Embedding.Slice())
		if err != nil {
			return nil, fmt.Errorf("story %s: %w", st.ID, err)
		}
		if sim < opts.MinSimilarity {
			continue
		}
		matches = append(matches, domain.StoryMatch{Story: st, Similarity: sim})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, nil
}

// RetrieveWithPolicy busca primero en los tipos preferidos por la politica y
// completa con el resto de las historias que superen el mismo piso. Nunca
// devuelve error: ante una falla registra y devuelve una lista vacia.
func (s *RetrievalService) RetrieveWithPolicy(ctx context.Context, policy RetrievalPolicy, userID, query string, count int) []domain.StoryMatch {
	if count <= 0 {
		count = defaultPolicyResults
	}
	if strings.TrimSpace(query) == "" {
		s.logger.Info("empty retrieval query", zap.String("policy", policy.Name), zap.String("user_id", userID))
		return []domain.StoryMatch{}
	}

	qv, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("retrieval degraded to empty result",
			zap.String("policy", policy.Name),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return []domain.StoryMatch{}
	}

	preferred, err := s.rank(ctx, userID, qv, RetrieveOptions{
		Limit:         count,
		MinSimilarity: policy.MinSimilarity,
		PromptTypes:   policy.PromptTypes,
	}, nil)
	if err != nil {
		s.logger.Warn("retrieval degraded to empty result",
			zap.String("policy", policy.Name),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return []domain.StoryMatch{}
	}

	matches := preferred
	if len(matches) < count {
		seen := make(map[string]struct{}, len(matches))
		for _, m := range matches {
			seen[m.Story.ID] = struct{}{}
		}
		rest, err := s.rank(ctx, userID, qv, RetrieveOptions{
			Limit:         count - len(matches),
			MinSimilarity: policy.MinSimilarity,
		}, seen)
		if err != nil {
			s.logger.Warn("retrieval top-up failed", zap.String("policy", policy.Name), zap.Error(err))
		} else {
			matches = append(matches, rest...)
		}
	}

	if len(matches) == 0 {
		s.logger.Info("no stories matched",
			zap.String("policy", policy.Name),
			zap.String("user_id", userID),
		)
	}
	return matches
}

// RetrieveForResume elige historias para un CV a partir de la descripcion del puesto.
func (s *RetrievalService) RetrieveForResume(ctx context.Context, userID, jobDescription string, count int) []domain.StoryMatch {
	return s.RetrieveWithPolicy(ctx, ResumePolicy, userID, jobDescription, count)
}

// RetrieveForCoverLetter elige historias para una carta a partir de la informacion de la empresa.
func (s *RetrievalService) RetrieveForCoverLetter(ctx context.Context, userID, companyInfo string, count int) []domain.StoryMatch {
	return s.RetrieveWithPolicy(ctx, CoverLetterPolicy, userID, companyInfo, count)
}
