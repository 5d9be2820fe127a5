// Package main vectoriza en lote las historias analizadas que aun no tienen embedding.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resume-persona/internal/config"
	"resume-persona/internal/db"
	"resume-persona/internal/llm"
	"resume-persona/internal/repository"
	"resume-persona/internal/service"
)

var errStoriesFailed = errors.New("some stories could not be embedded")

var rootCmd = &cobra.Command{
	Use:          "embed_backfill",
	Short:        "Embed stories that are still missing a vector",
	Long:         "Embeds analyzed stories without a vector in throttled batches and prints a total/embedded/failed/skipped report.",
	SilenceUsage: true,
	RunE:         runBackfill,
}

var (
	backfillUserID  string
	backfillLimit   int
	backfillTimeout time.Duration
)

func init() {
	rootCmd.Flags().StringVarP(&backfillUserID, "user", "u", "", "Embed only this user's stories (empty = all users)")
	rootCmd.Flags().IntVarP(&backfillLimit, "limit", "l", 500, "Maximum stories to embed in this run")
	rootCmd.Flags().DurationVarP(&backfillTimeout, "timeout", "t", 30*time.Minute, "Overall timeout")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errStoriesFailed) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), backfillTimeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db pool: %w", err)
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	llmClient, err := llm.NewClient(ctx, cfg.ProviderConfig(), logger)
	if err != nil {
		return fmt.Errorf("llm client: %w", err)
	}

	storyRepo := repository.NewPgStoryRepository(pool)
	embeddingSvc := service.NewEmbeddingService(llmClient, storyRepo, cfg.EmbeddingOptions(), logger)

	report, err := embeddingSvc.EmbedMissing(ctx, backfillUserID, backfillLimit)
	fmt.Fprintf(cmd.OutOrStdout(), "Stories: %d total, %d embedded, %d failed, %d skipped\n",
		report.Total, report.Embedded, report.Failed, report.Skipped)
	if err != nil {
		return fmt.Errorf("backfill aborted: %w", err)
	}
	if report.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", errStoriesFailed, report.Failed, report.Total)
	}
	return nil
}
