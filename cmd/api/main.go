package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"resume-persona/internal/config"
	"resume-persona/internal/db"
	apihttp "resume-persona/internal/http"
	"resume-persona/internal/llm"
	"resume-persona/internal/repository"
	"resume-persona/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	llmClient, err := llm.NewClient(ctx, cfg.ProviderConfig(), logger)
	if err != nil {
		logger.Fatal("llm client", zap.Error(err))
	}

	fusionWeights, err := cfg.FusionWeights()
	if err != nil {
		logger.Fatal("fusion weights", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	storyRepo := repository.NewPgStoryRepository(pool)
	profileRepo := repository.NewPgProfileRepository(pool)

	embeddingSvc := service.NewEmbeddingService(llmClient, storyRepo, cfg.EmbeddingOptions(), logger)
	storySvc := service.NewStoryService(llmClient, storyRepo, embeddingSvc, logger)
	scorer := service.NewFallbackNarrativeScorer(
		service.NewModelNarrativeScorer(llmClient),
		service.LexiconNarrativeScorer{},
		cfg.NarrativeModelRetries,
		logger,
	)
	assessmentSvc := service.NewAssessmentService(scorer, storyRepo, profileRepo, fusionWeights, logger)
	retrievalSvc := service.NewRetrievalService(embeddingSvc, storyRepo, logger)
	usageSvc := service.NewUsageService(storyRepo, logger)
	quotaSvc := service.NewQuotaService(userRepo, logger)

	var retrievalLimiter service.RateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, retrieval is not rate limited", zap.Error(err))
		} else {
			retrievalLimiter = service.NewRedisRateLimiter(redisClient, "rl:retrieve:", cfg.RetrievalRateWindow, cfg.RetrievalRateLimit)
		}
		cancel()
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, 24*time.Hour)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	userHandler := apihttp.NewUserHandler(logger, userRepo, jwtSvc, quotaSvc)
	assessmentHandler := apihttp.NewAssessmentHandler(logger, assessmentSvc)
	storyHandler := apihttp.NewStoryHandler(logger, storySvc, embeddingSvc, retrievalSvc, usageSvc)
	router := apihttp.NewRouter(logger, jwtSvc, retrievalLimiter, userHandler, assessmentHandler, storyHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("llm_provider", cfg.LLMProvider),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
