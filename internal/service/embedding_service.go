package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"resume-persona/internal/domain"
	"resume-persona/internal/llm"
	"resume-persona/internal/repository"
	"resume-persona/internal/vector"
)

const (
	defaultEmbedMaxChars   = 10000
	defaultEmbedBatchSize  = 5
	defaultEmbedBatchDelay = time.Second

	// Un resumen mas corto que esto no se considera confiable para el embedding.
	minSummaryChars = 50
)

// EmbeddingOptions configura truncado y throttling del embedding por lotes.
type EmbeddingOptions struct {
	MaxChars   int
	BatchSize  int
	BatchDelay time.Duration
}

// EmbeddingService convierte texto en vectores de 768 dimensiones y los persiste.
type EmbeddingService struct {
	client    llm.EmbeddingClient
	storyRepo repository.StoryRepository
	opts      EmbeddingOptions
	logger    *zap.Logger
}

func NewEmbeddingService(client llm.EmbeddingClient, storyRepo repository.StoryRepository, opts EmbeddingOptions, logger *zap.Logger) *EmbeddingService {
	if opts.MaxChars <= 0 {
		opts.MaxChars = defaultEmbedMaxChars
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultEmbedBatchSize
	}
	if opts.BatchDelay < 0 {
		opts.BatchDelay = defaultEmbedBatchDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmbeddingService{client: client, storyRepo: storyRepo, opts: opts, logger: logger}
}

// Embed trunca la entrada si excede el limite (solo se registra en el log) y
// exige que el vector devuelto tenga la dimension fija y no sea nulo.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("embed: empty text")
	}
	if n := utf8.RuneCountInString(text); n > s.opts.MaxChars {
		s.logger.Warn("embedding input truncated",
			zap.Int("original_len", n),
			zap.Int("max_chars", s.opts.MaxChars),
		)
		text = string([]rune(text)[:s.opts.MaxChars])
	}

	vec, err := s.client.CreateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if err := vector.CheckDimensions(vec, domain.EmbeddingDimensions); err != nil {
		return nil, err
	}
	// Un vector nulo no tiene direccion y daria similitud 0 contra todo.
	if vector.IsZero(vec) {
		return nil, errors.New("embed: provider returned a zero vector")
	}
	return vec, nil
}

// StoryEmbeddingText prefiere resumen + texto cuando el resumen es suficientemente
// largo; si no, usa prompt + texto.
func StoryEmbeddingText(story domain.Story) string {
	summary := strings.TrimSpace(story.Summary)
	text := strings.TrimSpace(story.Text)
	if utf8.RuneCountInString(summary) >= minSummaryChars {
		return summary + "\n\n" + text
	}
	prompt := strings.TrimSpace(story.PromptText)
	if prompt == "" {
		return text
	}
	return prompt + "\n\n" + text
}

// EmbedStory calcula y guarda el vector de una historia. La escritura se
// descarta con domain.ErrStoryChanged si la historia cambio desde que se leyo.
func (s *EmbeddingService) EmbedStory(ctx context.Context, story domain.Story) error {
	vec, err := s.Embed(ctx, StoryEmbeddingText(story))
	if err != nil {
		return fmt.Errorf("embed story %s: %w", story.ID, err)
	}
	if err := s.storyRepo.UpdateEmbedding(ctx, story.ID, pgvector.NewVector(vec), story.UpdatedAt); err != nil {
		return fmt.Errorf("store embedding for story %s: %w", story.ID, err)
	}
	return nil
}

// EmbedReport resume un embedding por lotes.
type EmbedReport struct {
	Total    int `json:"total"`
	Embedded int `json:"embedded"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// EmbedStories procesa en lotes de BatchSize llamadas concurrentes con una
// pausa de BatchDelay entre lotes. Los errores operacionales se cuentan y se
// registran; un error de dimension aborta todo el proceso. Las historias que
// cambiaron mientras se vectorizaban se cuentan como omitidas.
func (s *EmbeddingService) EmbedStories(ctx context.Context, stories []domain.Story) (EmbedReport, error) {
	report := EmbedReport{Total: len(stories)}
	if len(stories) == 0 {
		return report, nil
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if s.opts.BatchDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(s.opts.BatchDelay), 1)
	}

	var embedded, failed, skipped atomic.Int64
	for start := 0; start < len(stories); start += s.opts.BatchSize {
		if err := limiter.Wait(ctx); err != nil {
			return s.finish(report, &embedded, &failed, &skipped), err
		}
		end := min(start+s.opts.BatchSize, len(stories))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.opts.BatchSize)
		for _, story := range stories[start:end] {
			g.Go(func() error {
				err := s.EmbedStory(gctx, story)
				switch {
				case err == nil:
					embedded.Add(1)
					return nil
				case errors.Is(err, domain.ErrEmbeddingDimensionMismatch):
					return err
				case errors.Is(err, domain.ErrStoryChanged):
					skipped.Add(1)
					s.logger.Info("story changed during embedding, skipped", zap.String("story_id", story.ID))
					return nil
				default:
					failed.Add(1)
					s.logger.Warn("story embedding failed", zap.String("story_id", story.ID), zap.Error(err))
					return nil
				}
			})
		}
		if err := g.Wait(); err != nil {
			return s.finish(report, &embedded, &failed, &skipped), err
		}
	}

	report = s.finish(report, &embedded, &failed, &skipped)
	s.logger.Info("batch embedding finished",
		zap.Int("total", report.Total),
		zap.Int("embedded", report.Embedded),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

func (s *EmbeddingService) finish(r EmbedReport, embedded, failed, skipped *atomic.Int64) EmbedReport {
	r.Embedded = int(embedded.Load())
	r.Failed = int(failed.Load())
	r.Skipped = int(skipped.Load())
	return r
}

// EmbedMissing vectoriza las historias analizadas que aun no tienen embedding.
// userID vacio recorre todos.
func (s *EmbeddingService) EmbedMissing(ctx context.Context, userID string, limit int) (EmbedReport, error) {
	stories, err := s.storyRepo.ListMissingEmbedding(ctx, userID, limit)
	if err != nil {
		return EmbedReport{}, fmt.Errorf("list stories without embedding: %w", err)
	}
	return s.EmbedStories(ctx, stories)
}
