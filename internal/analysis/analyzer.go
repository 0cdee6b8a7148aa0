// Package analysis runs the language-model stages applied to every relevant
// article: content analysis, bias neutralization and keyword extraction.
// Model output is untrusted; every stage validates it before use.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/jonathan/career-news/internal/llm"
	"github.com/jonathan/career-news/internal/prompts"
	"github.com/jonathan/career-news/internal/schemas"
	"github.com/jonathan/career-news/internal/types"
)

// SummarySentences is the number of sentences kept in an analysis summary.
const SummarySentences = 3

// DefaultMaxContentRunes caps the article text sent for analysis.
const DefaultMaxContentRunes = 6000

var (
	// ErrEmptySummary is returned when the analysis summary has no sentence.
	ErrEmptySummary = errors.New("analysis summary is empty")
	// ErrShortSummary is returned when the summary has fewer sentences than required.
	ErrShortSummary = errors.New("analysis summary is too short")
)

// analysisPayload mirrors analysis.schema.json.
type analysisPayload struct {
	Summary      string  `json:"summary"`
	Sentiment    string  `json:"sentiment"`
	TrustScore   int     `json:"trust_score"`
	BiasDetected bool    `json:"bias_detected"`
	BiasType     *string `json:"bias_type"`
	Category     string  `json:"category"`
}

// Analyzer produces the fixed-shape analysis of one article.
type Analyzer struct {
	client          llm.Client
	maxContentRunes int
	logger          *slog.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(client llm.Client, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{
		client:          client,
		maxContentRunes: DefaultMaxContentRunes,
		logger:          logger.With("component", "analyzer"),
	}
}

// Analyze returns the validated analysis. Malformed or out-of-contract model
// output yields a *llm.ParseError.
func (a *Analyzer) Analyze(ctx context.Context, title, content string) (types.Analysis, error) {
	prompt, err := prompts.Render(prompts.AnalysisFile, "analyze", map[string]string{
		"Title":   title,
		"Content": truncateRunes(content, a.maxContentRunes),
	})
	if err != nil {
		return types.Analysis{}, err
	}

	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return types.Analysis{}, fmt.Errorf("analysis call failed: %w", err)
	}

	return parseAnalysis(raw)
}

func parseAnalysis(raw string) (types.Analysis, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.Analysis, cleaned); err != nil {
		return types.Analysis{}, &llm.ParseError{Raw: raw, Message: "analysis does not match schema", Cause: err}
	}

	payload, err := llm.ParseJSON[analysisPayload](cleaned)
	if err != nil {
		return types.Analysis{}, err
	}

	summary, err := NormalizeSummary(payload.Summary, SummarySentences)
	if err != nil {
		return types.Analysis{}, &llm.ParseError{Raw: raw, Message: "invalid summary", Cause: err}
	}

	analysis := types.Analysis{
		Summary:      summary,
		Sentiment:    types.Sentiment(payload.Sentiment),
		TrustScore:   payload.TrustScore,
		BiasDetected: payload.BiasDetected,
		Category:     types.Category(payload.Category),
	}
	if payload.BiasType != nil && payload.BiasDetected {
		analysis.BiasType = strings.TrimSpace(*payload.BiasType)
	}

	if err := analysis.Validate(); err != nil {
		return types.Analysis{}, &llm.ParseError{Raw: raw, Message: "analysis failed validation", Cause: err}
	}
	return analysis, nil
}

// NormalizeSummary returns exactly n sentences. Longer summaries are trimmed;
// shorter ones are an error.
func NormalizeSummary(summary string, n int) (string, error) {
	sentences := SplitSentences(summary)
	switch {
	case len(sentences) == 0:
		return "", ErrEmptySummary
	case len(sentences) < n:
		return "", fmt.Errorf("%w: %d of %d sentences", ErrShortSummary, len(sentences), n)
	}
	if len(sentences) > n {
		sentences = sentences[:n]
	}
	return strings.Join(sentences, " "), nil
}

// SplitSentences splits text after '.', '!', '?' or '。' when followed by
// whitespace or the end of text, so decimals such as "3.5%" stay intact.
func SplitSentences(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	var sentences []string
	start := 0
	for i, r := range runes {
		endsSentence := isTerminal(r) || (isClosing(r) && i > 0 && isTerminal(runes[i-1]))
		if !endsSentence {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '。'
}

func isClosing(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == '”' || r == '’'
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
