package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-news/internal/db"
	"github.com/jonathan/career-news/internal/llm"
	"github.com/jonathan/career-news/internal/metrics"
	"github.com/jonathan/career-news/internal/observability"
	"github.com/jonathan/career-news/internal/pipeline"
	"github.com/jonathan/career-news/internal/types"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect, analyze and store news for one or more job profiles",
	Long: `Resolves search keywords for the job profile, searches news for each keyword, removes duplicates,
keeps hiring-relevant articles, then summarizes, neutralizes and tags each one before storing it.

Configuration can be loaded from a JSON or YAML file using --config. Command-line arguments override config file values.
When the config lists several owners they are collected concurrently.`,
	RunE: runCollect,
}

var (
	collectFlags       commonFlags
	collectLimit       int
	collectRelevance   string
	collectThreshold   int
	collectUseBrowser  bool
	collectSource      string
	collectNoRobots    bool
	collectDryRun      bool
	collectMetricsFile string
)

func init() {
	collectFlags.register(collectCmd.Flags())
	collectCmd.Flags().IntVarP(&collectLimit, "limit", "l", 0, "Search results per keyword (1-100, default 10)")
	collectCmd.Flags().StringVar(&collectRelevance, "relevance", "", "Relevance policy: boolean or score")
	collectCmd.Flags().IntVar(&collectThreshold, "threshold", 0, "Minimum relevance score in score mode (default 15)")
	collectCmd.Flags().BoolVar(&collectUseBrowser, "use-browser", false, "Render pages with headless Chrome when static HTML has no article body")
	collectCmd.Flags().StringVar(&collectSource, "source", "", "News source: naver, rss or all (default naver)")
	collectCmd.Flags().BoolVar(&collectNoRobots, "ignore-robots", false, "Scrape article pages even when robots.txt disallows them")
	collectCmd.Flags().BoolVar(&collectDryRun, "dry-run", false, "Keep records in memory instead of PostgreSQL")
	collectCmd.Flags().StringVar(&collectMetricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file after the run")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, _ []string) error {
	cfg, err := collectFlags.resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("limit") {
		cfg.LimitPerKeyword = collectLimit
	}
	if cmd.Flags().Changed("relevance") {
		cfg.RelevanceMode = collectRelevance
	}
	if cmd.Flags().Changed("threshold") {
		cfg.RelevanceThreshold = collectThreshold
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = collectUseBrowser
	}
	if cmd.Flags().Changed("source") {
		cfg.Source = collectSource
	}
	if cmd.Flags().Changed("ignore-robots") {
		cfg.IgnoreRobots = collectNoRobots
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	owners := cfg.BatchOwners()
	if len(owners) == 0 {
		return fmt.Errorf("--owner and --group are required (via flag or config)")
	}
	for _, o := range owners {
		if o.JobGroup == "" {
			return fmt.Errorf("--group is required for owner %s", o.OwnerID)
		}
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	if cfg.UsesNaver() && (cfg.NaverClientID == "" || cfg.NaverClientSecret == "") {
		return fmt.Errorf("NAVER_CLIENT_ID and NAVER_CLIENT_SECRET environment variables are required")
	}
	if cfg.DatabaseURL == "" && !collectDryRun {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required (or use --dry-run)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg)
	printer := observability.NewPrinter(os.Stdout)

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	cache, closeCache := newKeywordCache(ctx, cfg, logger)
	defer closeCache()

	d := deps{client: client, cache: cache}
	if collectDryRun {
		d.store = pipeline.NewMemoryStore()
	} else {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		d.store = database
		d.runs = database
	}

	registry := prometheus.NewRegistry()
	d.metrics = metrics.New(registry)
	if cfg.Verbose {
		d.onState = func(ownerID string, s pipeline.State) {
			_, _ = fmt.Fprintf(os.Stdout, "[%s] %s\n", ownerID, s)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Config: %s\n", cfg.String())
	}

	orch, err := buildOrchestrator(cfg, d, logger)
	if err != nil {
		return err
	}

	jobs := make([]pipeline.Job, 0, len(owners))
	for _, o := range owners {
		jobs = append(jobs, pipeline.Job{
			OwnerID:         o.OwnerID,
			Profile:         types.JobProfile{JobGroup: o.JobGroup, JobRole: o.JobRole},
			LimitPerKeyword: cfg.LimitPerKeyword,
		})
	}

	reports, err := orch.RunMany(ctx, jobs, cfg.Concurrency)
	for _, rep := range reports {
		if rep == nil {
			continue
		}
		if cfg.Verbose {
			printer.PrintKeywords(rep.Profile, rep.Keywords)
			printer.PrintRecords(rep.Records)
		}
		printer.PrintRunSummary(rep.OwnerID, rep.Summary, rep.Cancelled)
	}
	if len(reports) > 1 {
		total := pipeline.Total(reports)
		_, _ = fmt.Fprintf(os.Stdout, "Total: %s\n", total.String())
	}

	if collectMetricsFile != "" {
		if werr := prometheus.WriteToTextfile(collectMetricsFile, registry); werr != nil {
			logger.Warn("failed to write metrics file", "path", collectMetricsFile, "error", werr)
		}
	}

	if err != nil {
		return fmt.Errorf("collection interrupted: %w", err)
	}
	return nil
}
