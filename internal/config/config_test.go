package config

import (
	"errors"
	"testing"
	"time"

	"resume-persona/internal/domain"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("LLM_API_KEY", "key")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.EmbedMaxChars != 10000 || cfg.EmbedBatchSize != 5 || cfg.EmbedBatchDelay != time.Second {
		t.Fatalf("unexpected embed defaults: %+v", cfg)
	}
	if cfg.RetrievalRateWindow != time.Minute || cfg.RetrievalRateLimit != 30 {
		t.Fatalf("unexpected rate defaults: %+v", cfg)
	}
	if cfg.HNSWEfSearch != 200 {
		t.Fatalf("expected ef_search default 200, got %d", cfg.HNSWEfSearch)
	}
	w, err := cfg.FusionWeights()
	if err != nil {
		t.Fatalf("FusionWeights error: %v", err)
	}
	if w != domain.DefaultFusionWeights {
		t.Fatalf("expected default weights, got %+v", w)
	}
}

func TestLoadConfigRejectsBadEfSearch(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("LLM_API_KEY", "key")
	t.Setenv("HNSW_EF_SEARCH", "0")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for ef_search 0")
	}
}

func TestLoadConfigRejectsBadWeights(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("LLM_API_KEY", "key")
	t.Setenv("FUSION_LIKERT_WEIGHT", "0.9")

	_, err := LoadConfig()
	if !errors.Is(err, domain.ErrInvalidFusionWeights) {
		t.Fatalf("expected ErrInvalidFusionWeights, got %v", err)
	}
}

func TestLoadConfigRejectsOtherDimensions(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("LLM_API_KEY", "key")
	t.Setenv("EMBEDDING_DIMENSIONS", "1536")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unsupported dimensions")
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LLM_API_KEY", "key")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing")
	}
}

func TestProviderConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("LLM_API_KEY", "key")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("EMBEDDING_MODEL", "text-embedding-004")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	pc := cfg.ProviderConfig()
	if pc.Provider != "gemini" || pc.APIKey != "key" || pc.EmbeddingModel != "text-embedding-004" || pc.Dimensions != 768 {
		t.Fatalf("unexpected provider config %+v", pc)
	}
	if opts := cfg.EmbeddingOptions(); opts.BatchSize != 5 || opts.MaxChars != 10000 {
		t.Fatalf("unexpected embedding options %+v", opts)
	}
}
