// Package pipeline runs one collection pass for an owner: it resolves search
// keywords for a job profile, gathers and filters candidate articles, analyzes
// the relevant ones and stores the results.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-news/internal/analysis"
	"github.com/jonathan/career-news/internal/dedup"
	"github.com/jonathan/career-news/internal/enrich"
	"github.com/jonathan/career-news/internal/metrics"
	"github.com/jonathan/career-news/internal/ratelimit"
	"github.com/jonathan/career-news/internal/relevance"
	"github.com/jonathan/career-news/internal/search"
	"github.com/jonathan/career-news/internal/types"
)

// Run status values reported to the RunRecorder and metrics.
const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// DefaultLimitPerKeyword is used when Run is given a non-positive limit.
const DefaultLimitPerKeyword = 10

// Components are the stages an Orchestrator sequences. Enricher, Runs and
// Metrics are optional.
type Components struct {
	Keywords    KeywordSource
	Fetcher     Fetcher
	Gate        *relevance.Gate
	Enricher    *enrich.Enricher
	Analyzer    *analysis.Analyzer
	Neutralizer *analysis.Neutralizer
	Extractor   *analysis.KeywordExtractor
	Store       Store
	Runs        RunRecorder
	// Limiter is awaited before every search call and before each article's
	// analysis. Nil means ratelimit.DefaultInterval.
	Limiter ratelimit.Limiter
	Metrics *metrics.Metrics
}

// StateCallback is called when a run enters a new state
type StateCallback func(ownerID string, state State)

// Options holds per-orchestrator run settings
type Options struct {
	Sort    search.Sort
	OnState StateCallback
	Now     func() time.Time
}

// RunReport is the full outcome of one run.
type RunReport struct {
	RunID    uuid.UUID
	OwnerID  string
	Profile  types.JobProfile
	Summary  types.RunSummary
	States   []State
	Keywords types.KeywordSet
	Records  []types.NewsRecord
	// Cancelled is set when the context ended the run early. Candidates not
	// reached are not counted, so Summary need not balance.
	Cancelled bool
}

// Orchestrator sequences the pipeline stages. It holds no per-run state and
// may serve concurrent runs.
type Orchestrator struct {
	c      Components
	opts   Options
	logger *slog.Logger
}

// New validates the components and creates an orchestrator.
func New(c Components, opts Options, logger *slog.Logger) (*Orchestrator, error) {
	switch {
	case c.Keywords == nil:
		return nil, errors.New("pipeline: keyword source is required")
	case c.Fetcher == nil:
		return nil, errors.New("pipeline: fetcher is required")
	case c.Gate == nil:
		return nil, errors.New("pipeline: relevance gate is required")
	case c.Analyzer == nil:
		return nil, errors.New("pipeline: analyzer is required")
	case c.Neutralizer == nil:
		return nil, errors.New("pipeline: neutralizer is required")
	case c.Extractor == nil:
		return nil, errors.New("pipeline: keyword extractor is required")
	case c.Store == nil:
		return nil, errors.New("pipeline: store is required")
	}
	if c.Limiter == nil {
		c.Limiter = ratelimit.NewInterval(ratelimit.DefaultInterval)
	}
	if opts.Sort == "" {
		opts.Sort = search.SortDate
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{c: c, opts: opts, logger: logger.With("component", "pipeline")}, nil
}

// Run collects news for one owner and returns the run's counters. It never
// fails; per-article problems are counted in Errors.
func (o *Orchestrator) Run(ctx context.Context, ownerID string, profile types.JobProfile, limitPerKeyword int) types.RunSummary {
	return o.RunWithReport(ctx, ownerID, profile, limitPerKeyword).Summary
}

// RunWithReport is Run returning the state history, keywords and stored records.
func (o *Orchestrator) RunWithReport(ctx context.Context, ownerID string, profile types.JobProfile, limitPerKeyword int) *RunReport {
	r := &run{
		o:      o,
		limit:  clampLimit(limitPerKeyword),
		logger: o.logger.With("owner_id", ownerID, "job_group", profile.JobGroup, "job_role", profile.JobRole),
		report: &RunReport{OwnerID: ownerID, Profile: profile},
	}
	r.execute(ctx)
	return r.report
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimitPerKeyword
	case n > search.MaxDisplay:
		return search.MaxDisplay
	default:
		return n
	}
}

// run is the mutable state of a single collection pass.
type run struct {
	o      *Orchestrator
	limit  int
	logger *slog.Logger
	report *RunReport
}

type outcome int

const (
	outcomeAnalyzed outcome = iota
	outcomeDuplicate
	outcomeError
)

func (r *run) execute(ctx context.Context) {
	c := r.o.c
	rep := r.report
	started := time.Now()

	r.advance(StateResolving)
	rep.Keywords = c.Keywords.Resolve(ctx, rep.Profile)
	c.Metrics.RecordKeywords(len(rep.Keywords))
	r.startRecord(ctx)

	r.advance(StateFetching)
	candidates := r.fetchAll(ctx)

	if !rep.Cancelled {
		r.advance(StateDeduplicating)
		kept, removed := dedup.Deduplicate(candidates)
		rep.Summary.DuplicatesRemoved += removed

		r.advance(StateFiltering)
		relevant := r.filter(ctx, kept)

		for _, article := range relevant {
			if ctx.Err() != nil {
				rep.Cancelled = true
				break
			}
			if err := c.Limiter.Wait(ctx); err != nil {
				rep.Cancelled = true
				break
			}
			switch r.process(context.WithoutCancel(ctx), article) {
			case outcomeAnalyzed:
				rep.Summary.Analyzed++
			case outcomeDuplicate:
				rep.Summary.DuplicatesRemoved++
			case outcomeError:
				rep.Summary.Errors++
			}
		}
	}

	r.advance(StateDone)
	status := StatusCompleted
	if rep.Cancelled {
		status = StatusCancelled
	}
	r.finishRecord(context.WithoutCancel(ctx), status)
	c.Metrics.RecordRun(status, rep.Summary)

	r.logger.Info("run finished",
		"status", status,
		"keywords", len(rep.Keywords),
		"collected", rep.Summary.Collected,
		"duplicates_removed", rep.Summary.DuplicatesRemoved,
		"filtered_out", rep.Summary.FilteredOut,
		"analyzed", rep.Summary.Analyzed,
		"errors", rep.Summary.Errors,
		"duration", time.Since(started).Round(time.Millisecond),
	)
}

// advance moves the run forward to s, recording every state passed on the way.
func (r *run) advance(s State) {
	next := StateResolving
	if n := len(r.report.States); n > 0 {
		next = r.report.States[n-1] + 1
	}
	for ; next <= s; next++ {
		r.report.States = append(r.report.States, next)
		r.logger.Debug("state", "state", next.String())
		if r.o.opts.OnState != nil {
			r.o.opts.OnState(r.report.OwnerID, next)
		}
	}
}

func (r *run) fetchAll(ctx context.Context) []types.CandidateArticle {
	var all []types.CandidateArticle
	for _, kw := range r.report.Keywords {
		if err := r.o.c.Limiter.Wait(ctx); err != nil {
			r.report.Cancelled = true
			break
		}
		found, err := r.o.c.Fetcher.Fetch(ctx, kw, r.limit, r.o.opts.Sort)
		if err != nil {
			r.logger.Warn("search failed", "keyword", kw, "error", err)
			r.o.c.Metrics.RecordSearchError()
		}
		all = append(all, found...)
	}
	r.report.Summary.Collected = len(all)
	return all
}

// filter drops candidates the owner already has and those the gate rejects.
func (r *run) filter(ctx context.Context, candidates []types.CandidateArticle) []types.CandidateArticle {
	c := r.o.c
	sum := &r.report.Summary
	var relevant []types.CandidateArticle

	for _, article := range candidates {
		if ctx.Err() != nil {
			r.report.Cancelled = true
			return nil
		}

		exists, err := c.Store.ExistsByURL(ctx, r.report.OwnerID, article.SourceURL)
		if err != nil {
			r.articleFailed(article, stageExists, err)
			sum.Errors++
			continue
		}
		if exists {
			sum.DuplicatesRemoved++
			continue
		}

		start := time.Now()
		verdict, err := c.Gate.Check(ctx, article, "", r.report.Keywords)
		c.Metrics.ObserveStage(stageGate, time.Since(start))
		if err != nil {
			r.logger.Warn("relevance check failed, treating as irrelevant", "url", article.SourceURL, "error", err)
		}
		if !verdict.Relevant {
			r.logger.Debug("filtered out", "url", article.SourceURL, "stage", string(verdict.Stage), "reason", verdict.Reason)
			sum.FilteredOut++
			continue
		}
		relevant = append(relevant, article)
	}
	return relevant
}

// process runs enrich, analyze, neutralize, extract and persist for one
// article, stopping at the first failure.
func (r *run) process(ctx context.Context, candidate types.CandidateArticle) outcome {
	c := r.o.c
	article := types.AnalyzedArticle{CandidateArticle: candidate}

	r.advance(StateEnriching)
	if c.Enricher != nil {
		start := time.Now()
		res := c.Enricher.Enrich(ctx, candidate)
		c.Metrics.ObserveStage(stageEnrich, time.Since(start))
		if res.Enriched {
			article.FullText = res.Text
		}
	}

	r.advance(StateAnalyzing)
	start := time.Now()
	result, err := c.Analyzer.Analyze(ctx, candidate.Title, article.Content())
	c.Metrics.ObserveStage(stageAnalyze, time.Since(start))
	if err != nil {
		return r.articleFailed(candidate, stageAnalyze, err)
	}
	article.Analysis = result

	neutral, err := analysis.NeutralizeIfBiased(ctx, c.Neutralizer, result)
	if err != nil {
		return r.articleFailed(candidate, stageNeutralize, err)
	}
	article.SummaryText, article.DetailSummary = analysis.Summaries(result, neutral)

	start = time.Now()
	tags, err := c.Extractor.Extract(ctx, article.SummaryText)
	c.Metrics.ObserveStage(stageExtract, time.Since(start))
	if err != nil {
		return r.articleFailed(candidate, stageExtract, err)
	}
	article.Keywords = tags

	r.advance(StatePersisting)
	exists, err := c.Store.ExistsByURL(ctx, r.report.OwnerID, candidate.SourceURL)
	if err != nil {
		return r.articleFailed(candidate, stagePersist, err)
	}
	if exists {
		return outcomeDuplicate
	}

	rec := &types.NewsRecord{
		AnalyzedArticle: article,
		OwnerID:         r.report.OwnerID,
		CreatedAt:       r.o.opts.Now(),
	}
	id, inserted, err := c.Store.InsertNews(ctx, rec)
	if err != nil {
		return r.articleFailed(candidate, stagePersist, err)
	}
	if !inserted {
		r.logger.Debug("record already stored by a concurrent run", "url", candidate.SourceURL)
		return outcomeDuplicate
	}
	rec.ID = id
	r.report.Records = append(r.report.Records, *rec)
	return outcomeAnalyzed
}

func (r *run) articleFailed(article types.CandidateArticle, stage string, err error) outcome {
	r.logger.Warn("article failed", "url", article.SourceURL, "stage", stage, "error", err)
	return outcomeError
}

func (r *run) startRecord(ctx context.Context) {
	if r.o.c.Runs == nil {
		return
	}
	id, err := r.o.c.Runs.CreateRun(ctx, r.report.OwnerID, r.report.Profile)
	if err != nil {
		r.logger.Warn("failed to record run start", "error", err)
		return
	}
	r.report.RunID = id
}

func (r *run) finishRecord(ctx context.Context, status string) {
	if r.o.c.Runs == nil || r.report.RunID == uuid.Nil {
		return
	}
	if err := r.o.c.Runs.CompleteRun(ctx, r.report.RunID, status, r.report.Summary); err != nil {
		r.logger.Warn("failed to record run completion", "run_id", r.report.RunID, "error", err)
	}
}
