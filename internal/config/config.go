package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"resume-persona/internal/domain"
	"resume-persona/internal/llm"
	"resume-persona/internal/service"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	// Candidatos que explora el indice HNSW; el filtro por usuario se aplica despues.
	HNSWEfSearch int `env:"HNSW_EF_SEARCH" envDefault:"200"`

	LLMProvider    string        `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey      string        `env:"LLM_API_KEY,required,notEmpty"`
	LLMBaseURL     string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	EmbeddingModel string        `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	EmbeddingDimensions int           `env:"EMBEDDING_DIMENSIONS" envDefault:"768"`
	EmbedMaxChars       int           `env:"EMBED_MAX_CHARS" envDefault:"10000"`
	EmbedBatchSize      int           `env:"EMBED_BATCH_SIZE" envDefault:"5"`
	EmbedBatchDelay     time.Duration `env:"EMBED_BATCH_DELAY" envDefault:"1s"`

	FusionLikertWeight    float64 `env:"FUSION_LIKERT_WEIGHT" envDefault:"0.7"`
	FusionNarrativeWeight float64 `env:"FUSION_NARRATIVE_WEIGHT" envDefault:"0.3"`
	NarrativeModelRetries int     `env:"NARRATIVE_MODEL_RETRIES" envDefault:"2"`

	RedisAddr           string        `env:"REDIS_ADDR"`
	RedisPassword       string        `env:"REDIS_PASSWORD"`
	RedisDB             int           `env:"REDIS_DB" envDefault:"0"`
	RetrievalRateLimit  int           `env:"RETRIEVAL_RATE_LIMIT" envDefault:"30"`
	RetrievalRateWindow time.Duration `env:"RETRIEVAL_RATE_WINDOW" envDefault:"1m"`

	JWTSecret string `env:"JWT_SECRET"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.EmbeddingDimensions != domain.EmbeddingDimensions {
		return nil, fmt.Errorf("EMBEDDING_DIMENSIONS=%d not supported, stories are stored as vector(%d)",
			cfg.EmbeddingDimensions, domain.EmbeddingDimensions)
	}
	if _, err := cfg.FusionWeights(); err != nil {
		return nil, err
	}
	if cfg.HNSWEfSearch < 1 || cfg.HNSWEfSearch > 1000 {
		return nil, fmt.Errorf("HNSW_EF_SEARCH=%d out of range [1,1000]", cfg.HNSWEfSearch)
	}
	return &cfg, nil
}

// FusionWeights devuelve los pesos por defecto ya validados.
func (c *Config) FusionWeights() (domain.FusionWeights, error) {
	w := domain.FusionWeights{Likert: c.FusionLikertWeight, Narrative: c.FusionNarrativeWeight}
	if err := w.Validate(); err != nil {
		return domain.FusionWeights{}, err
	}
	return w, nil
}

// ProviderConfig arma la configuracion del cliente de modelo.
func (c *Config) ProviderConfig() llm.ProviderConfig {
	return llm.ProviderConfig{
		Provider:       c.LLMProvider,
		APIKey:         c.LLMAPIKey,
		BaseURL:        c.LLMBaseURL,
		Model:          c.LLMModel,
		EmbeddingModel: c.EmbeddingModel,
		Dimensions:     c.EmbeddingDimensions,
		Timeout:        c.LLMTimeout,
	}
}

// EmbeddingOptions traduce la configuracion de lotes al servicio de embedding.
func (c *Config) EmbeddingOptions() service.EmbeddingOptions {
	return service.EmbeddingOptions{
		MaxChars:   c.EmbedMaxChars,
		BatchSize:  c.EmbedBatchSize,
		BatchDelay: c.EmbedBatchDelay,
	}
}
