package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"resume-persona/internal/config"
	"resume-persona/internal/db"
	"resume-persona/internal/domain"
	"resume-persona/internal/llm"
	"resume-persona/internal/repository"
	"resume-persona/internal/service"
)

type seedStory struct {
	Key        string
	PromptType string
	PromptText string
	Text       string
}

type Scenario struct {
	Name        string
	CoverLetter bool
	Query       string
	ExpectTop   string
}

var seeds = []seedStory{
	{
		Key:        "migration",
		PromptType: domain.PromptTypeAchievement,
		PromptText: "Describe an achievement you are proud of.",
		Text:       "I led the migration of our payment backend from a monolith to Go microservices, cutting p99 latency by 60% and shipping two weeks early.",
	},
	{
		Key:        "mentoring",
		PromptType: domain.PromptTypeTeam,
		PromptText: "Tell us about working in a team.",
		Text:       "I set up a weekly pairing rotation and mentored three junior engineers until they owned on-call for the data pipeline.",
	},
	{
		Key:        "foodbank",
		PromptType: domain.PromptTypeHelping,
		PromptText: "When did you help someone?",
		Text:       "Every weekend I volunteer at the neighborhood food bank, and I rebuilt their donation tracking spreadsheet so families wait less.",
	},
	{
		Key:        "climate",
		PromptType: domain.PromptTypePassion,
		PromptText: "What are you passionate about?",
		Text:       "Climate data fascinates me; I spend evenings contributing to an open source project that maps urban heat islands.",
	},
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		log.Fatalf("db ping: %v", err)
	}

	logger := zap.NewNop()
	llmClient, err := llm.NewClient(ctx, cfg.ProviderConfig(), logger)
	if err != nil {
		log.Fatalf("llm client: %v", err)
	}

	userRepo := repository.NewPgUserRepository(pool)
	storyRepo := repository.NewPgStoryRepository(pool)
	embeddingSvc := service.NewEmbeddingService(llmClient, storyRepo, cfg.EmbeddingOptions(), logger)
	storySvc := service.NewStoryService(llmClient, storyRepo, embeddingSvc, logger)
	retrievalSvc := service.NewRetrievalService(embeddingSvc, storyRepo, logger)

	userID := uuid.NewString()
	user := domain.User{
		ID:          userID,
		Email:       fmt.Sprintf("retrieval_%s@example.com", userID),
		DisplayName: "Retrieval Check",
		ResumeLimit: 3,
		CreatedAt:   time.Now().UTC(),
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("create user: %v", err)
	}

	storyIDs := make(map[string]string, len(seeds))
	for _, seed := range seeds {
		story, err := storySvc.CreateStory(ctx, userID, seed.PromptType, seed.PromptText, seed.Text)
		if err != nil {
			log.Fatalf("create story %s: %v", seed.Key, err)
		}
		runCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		_, err = storySvc.EnrichStory(runCtx, story.ID)
		cancel()
		if err != nil {
			log.Fatalf("enrich story %s: %v", seed.Key, err)
		}
		storyIDs[story.ID] = seed.Key
	}

	scenarios := []Scenario{
		{Name: "Backend role", Query: "Senior Go engineer to scale low-latency payment services", ExpectTop: "migration"},
		{Name: "Engineering manager", Query: "Engineering lead who grows junior developers and builds team culture", ExpectTop: "mentoring"},
		{Name: "Nonprofit mission", CoverLetter: true, Query: "Our nonprofit connects volunteers with families facing food insecurity", ExpectTop: "foodbank"},
		{Name: "Climate startup", CoverLetter: true, Query: "We build open climate datasets to help cities adapt to extreme heat", ExpectTop: "climate"},
	}

	passed := 0
	total := len(scenarios)

	for _, sc := range scenarios {
		fmt.Printf("=== Running: %s ===\n", sc.Name)

		runCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		var matches []domain.StoryMatch
		if sc.CoverLetter {
			matches = retrievalSvc.RetrieveForCoverLetter(runCtx, userID, sc.Query, 3)
		} else {
			matches = retrievalSvc.RetrieveForResume(runCtx, userID, sc.Query, 3)
		}
		cancel()

		for i, m := range matches {
			fmt.Printf("  %d. %-10s similarity=%.3f\n", i+1, storyIDs[m.Story.ID], m.Similarity)
		}

		got := ""
		if len(matches) > 0 {
			got = storyIDs[matches[0].Story.ID]
		}
		if got == sc.ExpectTop {
			fmt.Printf("✅ PASS [%s] top=%s\n\n", sc.Name, got)
			passed++
		} else {
			fmt.Printf("❌ FAIL [%s] expected=%s got=%q\n\n", sc.Name, sc.ExpectTop, got)
		}
	}

	fmt.Printf("Checks: %d/%d passed\n", passed, total)
	if passed != total {
		os.Exit(1)
	}
	os.Exit(0)
}
