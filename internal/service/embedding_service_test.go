package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"resume-persona/internal/domain"
	"resume-persona/internal/llm"
)

func TestEmbedTruncatesLongInput(t *testing.T) {
	client := &llm.MockClient{Embedding: basisVec(map[int]float32{0: 1})}
	svc := NewEmbeddingService(client, newFakeStoryRepo(), EmbeddingOptions{MaxChars: 10}, zap.NewNop())

	vec, err := svc.Embed(context.Background(), strings.Repeat("ñ", 25))
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}
	if len(vec) != domain.EmbeddingDimensions {
		t.Fatalf("expected %d dims, got %d", domain.EmbeddingDimensions, len(vec))
	}
	if got := utf8.RuneCountInString(client.EmbedInputs[0]); got != 10 {
		t.Fatalf("expected input truncated to 10 runes, got %d", got)
	}
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	client := &llm.MockClient{Embedding: basisVec(nil)}
	svc := NewEmbeddingService(client, newFakeStoryRepo(), EmbeddingOptions{}, nil)
	if _, err := svc.Embed(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty text")
	}
	if client.EmbedCalls() != 0 {
		t.Fatalf("provider must not be called for empty text")
	}
}

func TestEmbedDimensionMismatch(t *testing.T) {
	client := &llm.MockClient{Embedding: []float32{1, 2, 3}}
	svc := NewEmbeddingService(client, newFakeStoryRepo(), EmbeddingOptions{}, nil)
	_, err := svc.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingDimensionMismatch) {
		t.Fatalf("expected ErrEmbeddingDimensionMismatch, got %v", err)
	}
}

func TestEmbedRejectsZeroVector(t *testing.T) {
	repo := newFakeStoryRepo(unembedded("s1", "u1", "one"))
	client := &llm.MockClient{Embedding: basisVec(nil)}
	svc := NewEmbeddingService(client, repo, EmbeddingOptions{BatchDelay: 0}, nil)

	if _, err := svc.Embed(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error for zero vector")
	}
	report, err := svc.EmbedMissing(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("zero vector must not abort the batch, got %v", err)
	}
	if report.Failed != 1 || repo.get("s1").HasEmbedding() {
		t.Fatalf("expected zero vector counted as failure, got %+v", report)
	}
}

func TestStoryEmbeddingText(t *testing.T) {
	longSummary := strings.Repeat("s", 60)
	cases := []struct {
		name  string
		story domain.Story
		want  string
	}{
		{"long summary wins", domain.Story{Summary: longSummary, PromptText: "prompt", Text: "body"}, longSummary + "\n\nbody"},
		{"short summary uses prompt", domain.Story{Summary: "short", PromptText: "prompt", Text: "body"}, "prompt\n\nbody"},
		{"text only", domain.Story{Text: " body "}, "body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StoryEmbeddingText(tc.story); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

// unembedded es una historia ya analizada por palabras clave, sin vector.
func unembedded(id, userID, text string) domain.Story {
	return domain.Story{
		ID:         id,
		UserID:     userID,
		PromptType: domain.PromptTypeAchievement,
		Text:       text,
		Signal:     &domain.NarrativeSignal{Category: domain.PromptTypeAchievement, Source: domain.NarrativeSourceLexicon},
	}
}

func TestEmbedStoriesCountsFailures(t *testing.T) {
	repo := newFakeStoryRepo(
		unembedded("s1", "u1", "one"),
		unembedded("s2", "u1", "two"),
		unembedded("s3", "u1", "broken"),
		unembedded("s4", "u1", "four"),
		unembedded("s5", "u1", "five"),
		unembedded("s6", "u1", "six"),
		unembedded("s7", "u1", "seven"),
	)
	client := &llm.MockClient{
		EmbedFn: func(ctx context.Context, text string) ([]float32, error) {
			if text == "broken" {
				return nil, errors.New("provider rejected input")
			}
			return basisVec(map[int]float32{1: 1}), nil
		},
	}
	svc := NewEmbeddingService(client, repo, EmbeddingOptions{BatchSize: 3, BatchDelay: 0}, zap.NewNop())

	stories, _ := repo.ListByUser(context.Background(), "u1")
	report, err := svc.EmbedStories(context.Background(), stories)
	if err != nil {
		t.Fatalf("EmbedStories error: %v", err)
	}
	if report.Total != 7 || report.Embedded != 6 || report.Failed != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if client.EmbedCalls() != 7 {
		t.Fatalf("expected 7 provider calls, got %d", client.EmbedCalls())
	}
	if repo.get("s3").HasEmbedding() || !repo.get("s7").HasEmbedding() {
		t.Fatalf("expected only successful stories to carry embeddings")
	}
}

func TestEmbedStoriesAbortsOnDimensionMismatch(t *testing.T) {
	repo := newFakeStoryRepo(unembedded("s1", "u1", "one"), unembedded("s2", "u1", "two"))
	client := &llm.MockClient{Embedding: []float32{1, 0}}
	svc := NewEmbeddingService(client, repo, EmbeddingOptions{BatchSize: 1, BatchDelay: 0}, nil)

	stories, _ := repo.ListByUser(context.Background(), "u1")
	_, err := svc.EmbedStories(context.Background(), stories)
	if !errors.Is(err, domain.ErrEmbeddingDimensionMismatch) {
		t.Fatalf("expected dimension mismatch to abort, got %v", err)
	}
	if client.EmbedCalls() != 1 {
		t.Fatalf("expected processing to stop after first batch, got %d calls", client.EmbedCalls())
	}
}

func TestEmbedStoriesHonoursCancellation(t *testing.T) {
	repo := newFakeStoryRepo(unembedded("s1", "u1", "one"))
	client := &llm.MockClient{Embedding: basisVec(nil)}
	svc := NewEmbeddingService(client, repo, EmbeddingOptions{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stories, _ := repo.ListByUser(context.Background(), "u1")
	if _, err := svc.EmbedStories(ctx, stories); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEmbedMissingScopesToUser(t *testing.T) {
	done := embeddedStory("s0", "u1", domain.PromptTypeTeam, basisVec(map[int]float32{0: 1}))
	repo := newFakeStoryRepo(
		done,
		unembedded("s1", "u1", "one"),
		unembedded("s2", "u1", "two"),
		unembedded("s3", "u2", "three"),
	)
	client := &llm.MockClient{Embedding: basisVec(map[int]float32{2: 1})}
	svc := NewEmbeddingService(client, repo, EmbeddingOptions{BatchDelay: 0}, nil)

	report, err := svc.EmbedMissing(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("EmbedMissing error: %v", err)
	}
	if report.Total != 2 || report.Embedded != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if repo.get("s3").HasEmbedding() {
		t.Fatalf("other users' stories must not be touched")
	}

	report, err = svc.EmbedMissing(context.Background(), "", 0)
	if err != nil || report.Total != 1 {
		t.Fatalf("expected remaining story across users, got %+v err=%v", report, err)
	}
}

func TestEmbedMissingLeavesPendingStoriesToEnrichment(t *testing.T) {
	pending := unembedded("s2", "u1", "fresh story")
	pending.Signal = nil
	repo := newFakeStoryRepo(unembedded("s1", "u1", "analyzed story"), pending)
	client := &llm.MockClient{Embedding: basisVec(map[int]float32{2: 1})}
	svc := NewEmbeddingService(client, repo, EmbeddingOptions{BatchDelay: 0}, nil)

	report, err := svc.EmbedMissing(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("EmbedMissing error: %v", err)
	}
	if report.Total != 1 || report.Embedded != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if repo.get("s2").HasEmbedding() {
		t.Fatalf("story awaiting analysis must not be embedded by the batch")
	}
}

func TestEmbedMissingKeepsNewerEnrichmentVector(t *testing.T) {
	stale := unembedded("s1", "u1", "I prototyped a tool for onboarding.")
	stale.PromptText = "Describe something you built"
	stale.UpdatedAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeStoryRepo(stale)

	started := make(chan struct{})
	release := make(chan struct{})
	batchClient := &llm.MockClient{EmbedFn: func(ctx context.Context, text string) ([]float32, error) {
		close(started)
		<-release
		return basisVec(map[int]float32{2: 1}), nil
	}}
	batch := NewEmbeddingService(batchClient, repo, EmbeddingOptions{BatchDelay: 0}, nil)
	stories, _ := newTestStoryService(&llm.MockClient{Response: storyAnalysisJSON}, repo)

	type result struct {
		report EmbedReport
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := batch.EmbedMissing(context.Background(), "u1", 0)
		done <- result{report: report, err: err}
	}()

	<-started
	if _, err := stories.EnrichStory(context.Background(), "s1"); err != nil {
		t.Fatalf("EnrichStory error: %v", err)
	}
	close(release)
	res := <-done

	if res.err != nil {
		t.Fatalf("EmbedMissing error: %v", res.err)
	}
	if res.report.Embedded != 0 || res.report.Skipped != 1 {
		t.Fatalf("expected stale write to be skipped, got %+v", res.report)
	}
	stored := repo.get("s1")
	if !stored.HasEmbedding() {
		t.Fatalf("expected enrichment embedding to be stored")
	}
	if vec := stored.Embedding.Slice(); vec[3] != 1 || vec[2] != 0 {
		t.Fatalf("summary vector was overwritten: vec[2]=%v vec[3]=%v", vec[2], vec[3])
	}
}
