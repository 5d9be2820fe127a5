package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"resume-persona/internal/domain"
	"resume-persona/internal/llm"
)

const storyAnalysisJSON = "```json\n" + `{
  "summary": "Built an internal prototype that cut onboarding time in half.",
  "category": "Innovation",
  "themes": ["Innovation", "innovation", "growth"],
  "skills": ["prototyping", "research", "onboarding"],
  "trait_signals": {"openness": 0.9, "conscientiousness": 0.7, "extraversion": 0.4, "agreeableness": 0.5, "neuroticism": 1.3}
}` + "\n```"

func newTestStoryService(generate *llm.MockClient, repo *fakeStoryRepo) (*StoryService, *llm.MockClient) {
	embedClient := &llm.MockClient{Embedding: basisVec(map[int]float32{3: 1})}
	embedder := NewEmbeddingService(embedClient, repo, EmbeddingOptions{BatchDelay: 0}, zap.NewNop())
	return NewStoryService(generate, repo, embedder, zap.NewNop()), embedClient
}

func TestCreateStoryValidation(t *testing.T) {
	repo := newFakeStoryRepo()
	svc, _ := newTestStoryService(&llm.MockClient{}, repo)

	if _, err := svc.CreateStory(context.Background(), "u1", "achievement", "prompt", "  "); !errors.Is(err, ErrStoryInvalidInput) {
		t.Fatalf("expected ErrStoryInvalidInput, got %v", err)
	}
	story, err := svc.CreateStory(context.Background(), "u1", " Achievement ", "Describe a win", "I shipped it.")
	if err != nil {
		t.Fatalf("CreateStory error: %v", err)
	}
	if story.PromptType != domain.PromptTypeAchievement || story.ID == "" {
		t.Fatalf("unexpected story %+v", story)
	}
	if repo.get(story.ID).Text != "I shipped it." {
		t.Fatalf("expected story persisted")
	}
}

func TestEnrichStoryWithModelAnalysis(t *testing.T) {
	repo := newFakeStoryRepo(unembedded("s1", "u1", "I prototyped a tool for onboarding."))
	svc, embedClient := newTestStoryService(&llm.MockClient{Response: storyAnalysisJSON}, repo)

	story, err := svc.EnrichStory(context.Background(), "s1")
	if err != nil {
		t.Fatalf("EnrichStory error: %v", err)
	}
	if story.Signal == nil || story.Signal.Source != domain.NarrativeSourceModel {
		t.Fatalf("expected model signal, got %+v", story.Signal)
	}
	if story.Category != "innovation" || len(story.Themes) != 2 {
		t.Fatalf("expected normalized category and themes, got %q %v", story.Category, story.Themes)
	}
	if story.Signal.TraitSignals.Neuroticism != 1 {
		t.Fatalf("expected clamped signal, got %v", story.Signal.TraitSignals.Neuroticism)
	}

	stored := repo.get("s1")
	if !stored.HasEmbedding() || stored.Summary == "" {
		t.Fatalf("expected stored summary and embedding")
	}
	want := "Built an internal prototype that cut onboarding time in half.\n\nI prototyped a tool for onboarding."
	if embedClient.EmbedInputs[0] != want {
		t.Fatalf("expected summary and text in embedding input, got %q", embedClient.EmbedInputs[0])
	}
}

func TestEnrichStoryFallsBackToLexicon(t *testing.T) {
	repo := newFakeStoryRepo(unembedded("s1", "u1", "I was leading the team and mentored two junior engineers through a tough launch."))
	svc, _ := newTestStoryService(&llm.MockClient{Response: "not json at all"}, repo)

	story, err := svc.EnrichStory(context.Background(), "s1")
	if err != nil {
		t.Fatalf("EnrichStory error: %v", err)
	}
	if story.Signal.Source != domain.NarrativeSourceLexicon {
		t.Fatalf("expected lexicon fallback, got %s", story.Signal.Source)
	}
	if story.Category != domain.PromptTypeAchievement {
		t.Fatalf("expected prompt type as category, got %q", story.Category)
	}
	if len(story.Skills) == 0 || story.Skills[0] != "leadership" {
		t.Fatalf("expected leadership skill, got %v", story.Skills)
	}
	if !repo.get("s1").HasEmbedding() {
		t.Fatalf("expected embedding even on fallback")
	}
}

func TestEnrichStoryEmbeddingFailureKeepsAnalysis(t *testing.T) {
	repo := newFakeStoryRepo(unembedded("s1", "u1", "text"))
	embedClient := &llm.MockClient{EmbedErr: errors.New("quota")}
	embedder := NewEmbeddingService(embedClient, repo, EmbeddingOptions{}, nil)
	svc := NewStoryService(&llm.MockClient{Response: storyAnalysisJSON}, repo, embedder, nil)

	story, err := svc.EnrichStory(context.Background(), "s1")
	if err == nil {
		t.Fatalf("expected embedding error")
	}
	if story.Signal == nil || repo.get("s1").Signal == nil {
		t.Fatalf("analysis must be stored even when embedding fails")
	}
	if repo.get("s1").HasEmbedding() {
		t.Fatalf("no embedding expected")
	}
}

func TestOwnedStory(t *testing.T) {
	repo := newFakeStoryRepo(unembedded("s1", "u1", "text"))
	svc, _ := newTestStoryService(&llm.MockClient{}, repo)

	if _, err := svc.OwnedStory(context.Background(), "u1", "s1"); err != nil {
		t.Fatalf("OwnedStory error: %v", err)
	}
	if _, err := svc.OwnedStory(context.Background(), "u2", "s1"); !errors.Is(err, domain.ErrStoryNotFound) {
		t.Fatalf("expected ErrStoryNotFound for foreign story, got %v", err)
	}
}
