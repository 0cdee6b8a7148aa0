// Package keywords resolves a job profile into the set of news search
// keywords used for one pipeline run.
package keywords

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jonathan/career-news/internal/llm"
	"github.com/jonathan/career-news/internal/prompts"
	"github.com/jonathan/career-news/internal/schemas"
	"github.com/jonathan/career-news/internal/types"
)

// Keyword set bounds.
const (
	MinKeywords     = 5
	MaxKeywords     = 30
	MinKeywordRunes = 2
	MaxKeywordRunes = 15
)

var errExpansionDisabled = errors.New("AI expansion disabled")

// Options configures a Resolver.
type Options struct {
	// Table overrides DefaultTable.
	Table map[string][]string
	// Cache stores AI expansions; nil disables caching.
	Cache Cache
}

// Resolver combines a static job-group table with an AI expansion.
type Resolver struct {
	client llm.Client
	table  map[string][]string
	cache  Cache
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil client disables AI expansion.
func NewResolver(client llm.Client, opts Options, logger *slog.Logger) *Resolver {
	if opts.Table == nil {
		opts.Table = DefaultTable
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		client: client,
		table:  opts.Table,
		cache:  opts.Cache,
		logger: logger.With("component", "keywords"),
	}
}

// CoreTerms returns the static terms for a profile: the group's table entry
// (or GenericTerms when unknown) followed by a role-specific hiring term.
func (r *Resolver) CoreTerms(profile types.JobProfile) []string {
	terms, ok := lookup(r.table, profile.JobGroup)
	if !ok {
		terms = GenericTerms
	}
	core := append([]string(nil), terms...)
	if role := strings.TrimSpace(profile.JobRole); role != "" {
		core = append(core, role+" 채용")
	}
	return core
}

// Resolve returns between MinKeywords and MaxKeywords keywords. It never fails:
// an expansion error falls back to the core terms plus GenericTerms.
func (r *Resolver) Resolve(ctx context.Context, profile types.JobProfile) types.KeywordSet {
	core := r.CoreTerms(profile)

	expansion, err := r.expansion(ctx, profile, core)
	if errors.Is(err, errExpansionDisabled) {
		expansion = GenericTerms
	} else if err != nil {
		r.logger.Warn("keyword expansion failed, using static terms", "job_group", profile.JobGroup, "error", err)
		expansion = GenericTerms
	}

	merged := Merge(core, expansion)
	if len(merged) < MinKeywords {
		merged = Merge(merged, PaddingTerms, GenericTerms)
	}

	r.logger.Debug("resolved keywords", "job_group", profile.JobGroup, "job_role", profile.JobRole, "count", len(merged))
	return merged
}

func (r *Resolver) expansion(ctx context.Context, profile types.JobProfile, core []string) ([]string, error) {
	if r.client == nil {
		return nil, errExpansionDisabled
	}

	key := profile.Key()
	if r.cache != nil {
		if terms, ok := r.cache.Get(ctx, key); ok {
			return terms, nil
		}
	}

	terms, err := r.Expand(ctx, profile, core)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Set(ctx, key, terms)
	}
	return terms, nil
}

// Expand asks the model for additional keywords and returns them filtered.
func (r *Resolver) Expand(ctx context.Context, profile types.JobProfile, core []string) ([]string, error) {
	prompt, err := prompts.Render(prompts.KeywordsFile, "expand", map[string]string{
		"JobGroup":  profile.JobGroup,
		"JobRole":   profile.JobRole,
		"CoreTerms": strings.Join(core, ", "),
	})
	if err != nil {
		return nil, err
	}

	raw, err := r.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("keyword expansion call failed: %w", err)
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.KeywordExpansion, cleaned); err != nil {
		return nil, &llm.ParseError{Raw: raw, Message: "expansion is not a string array", Cause: err}
	}
	terms, err := llm.ParseJSON[[]string](cleaned)
	if err != nil {
		return nil, err
	}

	filtered := Merge(terms)
	if len(filtered) == 0 {
		return nil, &llm.ParseError{Raw: raw, Message: "expansion has no usable keyword"}
	}
	return filtered, nil
}

// Merge concatenates lists, normalizes whitespace and Unicode composition, drops entries outside the
// rune bounds, removes duplicates keeping first-seen order and caps the result
// at MaxKeywords.
func Merge(lists ...[]string) types.KeywordSet {
	seen := make(map[string]struct{})
	out := make(types.KeywordSet, 0, MaxKeywords)

	for _, list := range lists {
		for _, kw := range list {
			kw = norm.NFC.String(strings.Join(strings.Fields(kw), " "))
			n := utf8.RuneCountInString(kw)
			if n < MinKeywordRunes || n > MaxKeywordRunes {
				continue
			}
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
			if len(out) == MaxKeywords {
				return out
			}
		}
	}
	return out
}
