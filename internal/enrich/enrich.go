// Package enrich replaces short search snippets with the full article body
// scraped from the origin page. It never fails: any miss keeps the snippet.
package enrich

import (
	"context"
	"log/slog"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/jonathan/career-news/internal/fetch"
	"github.com/jonathan/career-news/internal/ratelimit"
	"github.com/jonathan/career-news/internal/types"
)

// DefaultMinRunes is the snippet length below which scraping is attempted.
const DefaultMinRunes = 200

// Method names how the text of a Result was obtained.
type Method string

const (
	MethodSnippet     Method = "snippet"
	MethodCache       Method = "cache"
	MethodPublisher   Method = "publisher"
	MethodSelector    Method = "selector"
	MethodReadability Method = "readability"
	MethodBrowser     Method = "browser"
)

// Result is the body text chosen for an article.
type Result struct {
	Text     string
	Enriched bool
	Method   Method
}

// Config configures the enricher.
type Config struct {
	MinRunes int
	Fetch    *fetch.Options
	// Renderer is consulted when static HTML yields nothing; nil disables it.
	Renderer fetch.Renderer
	Cache    *fetch.TextCache
	// Robots, when set, vetoes pages the publisher disallows.
	Robots *fetch.RobotsPolicy
	// HostInterval spaces requests to the same publisher host.
	HostInterval time.Duration
}

// Enricher scrapes article bodies.
type Enricher struct {
	minRunes int
	opts     *fetch.Options
	renderer fetch.Renderer
	cache    *fetch.TextCache
	robots   *fetch.RobotsPolicy
	hosts    *ratelimit.Keyed
	logger   *slog.Logger
}

// New creates an enricher.
func New(cfg Config, logger *slog.Logger) *Enricher {
	if cfg.MinRunes <= 0 {
		cfg.MinRunes = DefaultMinRunes
	}
	if cfg.Fetch == nil {
		cfg.Fetch = fetch.DefaultOptions()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Enricher{
		minRunes: cfg.MinRunes,
		opts:     cfg.Fetch,
		renderer: cfg.Renderer,
		cache:    cfg.Cache,
		robots:   cfg.Robots,
		hosts:    ratelimit.NewKeyed(cfg.HostInterval, 256),
		logger:   logger.With("component", "enrich"),
	}
}

// NeedsEnrichment reports whether the snippet is short enough to scrape.
func (e *Enricher) NeedsEnrichment(snippet string) bool {
	return utf8.RuneCountInString(snippet) < e.minRunes
}

// Enrich returns the article body to analyze.
func (e *Enricher) Enrich(ctx context.Context, article types.CandidateArticle) Result {
	keep := Result{Text: article.Snippet, Method: MethodSnippet}
	if !e.NeedsEnrichment(article.Snippet) {
		return keep
	}

	if text, ok := e.cache.Get(article.SourceURL); ok {
		return e.accept(article, text, MethodCache)
	}

	if e.robots != nil && !e.robots.Allowed(ctx, article.SourceURL) {
		e.logger.Debug("robots.txt disallows page, keeping snippet", "url", article.SourceURL)
		return keep
	}

	if host := hostOf(article.SourceURL); host != "" {
		if err := e.hosts.Wait(ctx, host); err != nil {
			return keep
		}
	}

	res, err := fetch.URL(ctx, article.SourceURL, e.opts)
	if err != nil {
		e.logger.Debug("page fetch failed, keeping snippet", "url", article.SourceURL, "error", err)
		return keep
	}

	text, method := e.extract(res.HTML, article.SourceURL)
	if text == "" && e.renderer != nil {
		html, err := e.renderer.Render(ctx, article.SourceURL)
		if err != nil {
			e.logger.Debug("browser render failed, keeping snippet", "url", article.SourceURL, "error", err)
			return keep
		}
		if text, _ = e.extract(html, article.SourceURL); text != "" {
			method = MethodBrowser
		}
	}
	if text == "" {
		e.logger.Debug("no article body found, keeping snippet", "url", article.SourceURL)
		return keep
	}

	return e.accept(article, text, method)
}

// accept keeps text only when it is longer than the snippet it replaces.
func (e *Enricher) accept(article types.CandidateArticle, text string, method Method) Result {
	if utf8.RuneCountInString(text) <= utf8.RuneCountInString(article.Snippet) {
		return Result{Text: article.Snippet, Method: MethodSnippet}
	}
	e.cache.Put(article.SourceURL, text)
	return Result{Text: text, Enriched: true, Method: method}
}

// extract tries publisher selectors, then generic selectors, then readability.
func (e *Enricher) extract(html, pageURL string) (string, Method) {
	publisher := fetch.DetectPublisher(pageURL)
	noise := fetch.PublisherNoiseSelectors(publisher)

	if selectors := fetch.PublisherSelectors(publisher); len(selectors) > 0 {
		if text, ok, err := fetch.ExtractSelected(html, selectors, noise...); err == nil && ok {
			return text, MethodPublisher
		}
	}

	if text, ok, err := fetch.ExtractSelected(html, fetch.ArticleSelectors(), noise...); err == nil && ok {
		return text, MethodSelector
	}

	if text, err := fetch.ExtractReadable(html, pageURL); err == nil && text != "" {
		return text, MethodReadability
	}
	return "", ""
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
