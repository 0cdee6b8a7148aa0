package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/career-news/internal/analysis"
	"github.com/jonathan/career-news/internal/config"
	"github.com/jonathan/career-news/internal/enrich"
	"github.com/jonathan/career-news/internal/fetch"
	"github.com/jonathan/career-news/internal/keywords"
	"github.com/jonathan/career-news/internal/llm"
	"github.com/jonathan/career-news/internal/metrics"
	"github.com/jonathan/career-news/internal/pipeline"
	"github.com/jonathan/career-news/internal/ratelimit"
	"github.com/jonathan/career-news/internal/relevance"
	"github.com/jonathan/career-news/internal/search"
)

const (
	keywordCacheSize = 256
	browserTimeout   = 30 * time.Second
)

// newKeywordCache returns the shared Redis cache when configured, otherwise an
// in-process one. An unreachable Redis falls back to memory.
func newKeywordCache(ctx context.Context, cfg config.Config, logger *slog.Logger) (keywords.Cache, func()) {
	if cfg.RedisURL != "" {
		rc, err := keywords.NewRedisCacheFromURL(ctx, cfg.RedisURL, cfg.KeywordCacheTTL(), logger)
		if err == nil {
			return rc, func() { _ = rc.Close() }
		}
		logger.Warn("redis keyword cache unavailable, using memory cache", "error", err)
	}
	return keywords.NewMemoryCache(keywordCacheSize, cfg.KeywordCacheTTL()), func() {}
}

// newResolver builds the keyword resolver. A nil client resolves from the
// static table only.
func newResolver(client llm.Client, cache keywords.Cache, logger *slog.Logger) *keywords.Resolver {
	return keywords.NewResolver(client, keywords.Options{Cache: cache}, logger)
}

// deps are the externally provided parts of an orchestrator.
type deps struct {
	client  llm.Client
	cache   keywords.Cache
	fetcher pipeline.Fetcher
	store   pipeline.Store
	runs    pipeline.RunRecorder
	metrics *metrics.Metrics
	onState pipeline.StateCallback
}

// newSources returns the configured news search sources.
func newSources(cfg config.Config, logger *slog.Logger) pipeline.Fetcher {
	naver := search.New(search.Config{
		Endpoint:     cfg.SearchEndpoint,
		ClientID:     cfg.NaverClientID,
		ClientSecret: cfg.NaverClientSecret,
	}, logger)
	feed := search.NewFeed(search.FeedConfig{Endpoint: cfg.FeedEndpoint})

	switch cfg.Source {
	case config.SourceRSS:
		return feed
	case config.SourceAll:
		return search.Sources{naver, feed}
	default:
		return naver
	}
}

func buildOrchestrator(cfg config.Config, d deps, logger *slog.Logger) (*pipeline.Orchestrator, error) {
	if d.client == nil {
		return nil, fmt.Errorf("an LLM client is required")
	}

	fetcher := d.fetcher
	if fetcher == nil {
		fetcher = newSources(cfg, logger)
	}

	var renderer fetch.Renderer
	if cfg.UseBrowser {
		renderer = fetch.NewBrowserRenderer(browserTimeout, logger)
	}
	var robots *fetch.RobotsPolicy
	if !cfg.IgnoreRobots {
		robots = fetch.NewRobotsPolicy("", nil, 0, logger)
	}

	return pipeline.New(pipeline.Components{
		Keywords: newResolver(d.client, d.cache, logger),
		Fetcher:  fetcher,
		Gate: relevance.New(d.client, relevance.Config{
			Mode:      relevance.Mode(cfg.RelevanceMode),
			Threshold: cfg.RelevanceThreshold,
		}, logger),
		Enricher: enrich.New(enrich.Config{
			MinRunes:     cfg.MinSnippetRunes,
			Renderer:     renderer,
			Cache:        fetch.NewTextCache(0, 0),
			Robots:       robots,
			HostInterval: cfg.HostInterval(),
		}, logger),
		Analyzer:    analysis.NewAnalyzer(d.client, logger),
		Neutralizer: analysis.NewNeutralizer(d.client, logger),
		Extractor:   analysis.NewKeywordExtractor(d.client, logger),
		Store:       d.store,
		Runs:        d.runs,
		Limiter:     ratelimit.NewInterval(cfg.RequestInterval()),
		Metrics:     d.metrics,
	}, pipeline.Options{
		Sort:    search.Sort(cfg.Sort),
		OnState: d.onState,
	}, logger)
}
