package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan/career-news/internal/llm"
	"github.com/jonathan/career-news/internal/prompts"
	"github.com/jonathan/career-news/internal/types"
)

// Neutralizer rewrites a biased summary in neutral language.
type Neutralizer struct {
	client llm.Client
	logger *slog.Logger
}

// NewNeutralizer creates a neutralizer.
func NewNeutralizer(client llm.Client, logger *slog.Logger) *Neutralizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Neutralizer{client: client, logger: logger.With("component", "neutralizer")}
}

// Neutralize returns the rewritten summary.
func (n *Neutralizer) Neutralize(ctx context.Context, summary string) (string, error) {
	prompt, err := prompts.Render(prompts.AnalysisFile, "neutralize", map[string]string{
		"Summary": summary,
	})
	if err != nil {
		return "", err
	}

	raw, err := n.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", fmt.Errorf("neutralization call failed: %w", err)
	}

	text := cleanRewrite(raw)
	if text == "" {
		return "", &llm.ParseError{Raw: raw, Message: "empty neutral rewrite", Cause: llm.ErrEmptyResponse}
	}
	return text, nil
}

// NeutralizeIfBiased invokes the neutralizer only for biased analyses. A nil
// result means no rewrite took place.
func NeutralizeIfBiased(ctx context.Context, n *Neutralizer, analysis types.Analysis) (*string, error) {
	if !analysis.BiasDetected {
		return nil, nil
	}
	text, err := n.Neutralize(ctx, analysis.Summary)
	if err != nil {
		return nil, err
	}
	return &text, nil
}

// Summaries returns the stored summary text and the detail summary. The
// detail summary is always the analyzer's own; the summary text is the
// neutral rewrite when there is one.
func Summaries(analysis types.Analysis, neutral *string) (summaryText, detailSummary string) {
	if neutral != nil {
		return *neutral, analysis.Summary
	}
	return analysis.Summary, analysis.Summary
}

// cleanRewrite drops code fences, wrapping quotes and a leading label line.
func cleanRewrite(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "\"“”")
	for _, label := range []string{"Summary:", "요약:", "중립 요약:"} {
		text = strings.TrimPrefix(text, label)
	}
	return strings.TrimSpace(text)
}
