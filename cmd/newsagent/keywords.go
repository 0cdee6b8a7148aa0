package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-news/internal/llm"
	"github.com/jonathan/career-news/internal/observability"
	"github.com/jonathan/career-news/internal/types"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Preview the search keywords resolved for a job profile",
	Long:  "Resolves the keyword set the collector would search for. Without an API key only the static table is used.",
	RunE:  runKeywords,
}

var (
	keywordsFlags      commonFlags
	keywordsStaticOnly bool
)

func init() {
	keywordsFlags.register(keywordsCmd.Flags())
	keywordsCmd.Flags().BoolVar(&keywordsStaticOnly, "static", false, "Skip AI expansion even when an API key is available")
	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, _ []string) error {
	cfg, err := keywordsFlags.resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	if cfg.JobGroup == "" {
		return fmt.Errorf("--group is required (via flag or config)")
	}

	ctx := context.Background()
	logger := newLogger(cfg)

	var client llm.Client
	if cfg.APIKey != "" && !keywordsStaticOnly {
		client, err = llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
	}

	cache, closeCache := newKeywordCache(ctx, cfg, logger)
	defer closeCache()

	profile := types.JobProfile{JobGroup: cfg.JobGroup, JobRole: cfg.JobRole}
	kws := newResolver(client, cache, logger).Resolve(ctx, profile)

	observability.NewPrinter(os.Stdout).PrintKeywords(profile, kws)
	return nil
}
