// Package relevance decides whether a candidate article is worth analyzing for
// a job seeker. A cheap title heuristic runs first; only titles that pass it
// are sent to the language model.
package relevance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jonathan/career-news/internal/llm"
	"github.com/jonathan/career-news/internal/prompts"
	"github.com/jonathan/career-news/internal/types"
)

// Mode selects how the model expresses its judgment.
type Mode string

const (
	// ModeBoolean expects the bare token "true" or "false"
	ModeBoolean Mode = "boolean"
	// ModeScore expects an integer 0-100 compared against a threshold
	ModeScore Mode = "score"
)

// DefaultThreshold is the minimum accepted score in ModeScore.
const DefaultThreshold = 15

// DefaultMaxContentRunes caps the article text embedded in the prompt.
const DefaultMaxContentRunes = 1500

// Stage names the check that produced a verdict.
type Stage string

const (
	// StageHeuristic is the title substring check
	StageHeuristic Stage = "heuristic"
	// StageAI is the model judgment
	StageAI Stage = "ai"
)

// DefaultDomainTerms is the hiring and employment vocabulary a title must contain.
var DefaultDomainTerms = []string{
	"채용", "취업", "공채", "구인", "구직", "일자리", "고용", "인재", "신입", "경력",
	"개발자", "인턴", "연봉", "이직", "직무", "인력",
	"hiring", "recruit", "job", "career", "talent",
}

// Verdict is the outcome of a relevance check.
type Verdict struct {
	Relevant bool
	Stage    Stage
	// Score is set in ModeScore after a successful model call.
	Score  int
	Reason string
}

// Config configures the gate.
type Config struct {
	Mode            Mode
	Threshold       int
	DomainTerms     []string
	MaxContentRunes int
}

// DefaultConfig returns the boolean policy with the default vocabulary.
func DefaultConfig() Config {
	return Config{
		Mode:            ModeBoolean,
		Threshold:       DefaultThreshold,
		DomainTerms:     DefaultDomainTerms,
		MaxContentRunes: DefaultMaxContentRunes,
	}
}

// Gate is the two-stage relevance filter.
type Gate struct {
	client llm.Client
	config Config
	terms  []string
	logger *slog.Logger
}

// New creates a gate. Zero-valued config fields take their defaults.
func New(client llm.Client, config Config, logger *slog.Logger) *Gate {
	defaults := DefaultConfig()
	if config.Mode == "" {
		config.Mode = defaults.Mode
	}
	if config.Threshold <= 0 {
		config.Threshold = defaults.Threshold
	}
	if len(config.DomainTerms) == 0 {
		config.DomainTerms = defaults.DomainTerms
	}
	if config.MaxContentRunes <= 0 {
		config.MaxContentRunes = defaults.MaxContentRunes
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	terms := make([]string, 0, len(config.DomainTerms))
	for _, t := range config.DomainTerms {
		if t = strings.ToLower(norm.NFC.String(strings.TrimSpace(t))); t != "" {
			terms = append(terms, t)
		}
	}

	return &Gate{
		client: client,
		config: config,
		terms:  terms,
		logger: logger.With("component", "relevance"),
	}
}

// MatchTitle reports whether the lower-cased, NFC-composed title contains a domain term,
// and which one.
func (g *Gate) MatchTitle(title string) (string, bool) {
	lower := strings.ToLower(norm.NFC.String(title))
	for _, term := range g.terms {
		if strings.Contains(lower, term) {
			return term, true
		}
	}
	return "", false
}

// Check runs the heuristic and, when it passes, the model judgment. The
// verdict is always usable: a model failure yields a not-relevant verdict
// together with the error so callers can log it.
func (g *Gate) Check(ctx context.Context, article types.CandidateArticle, content string, keywords types.KeywordSet) (Verdict, error) {
	if _, ok := g.MatchTitle(article.Title); !ok {
		return Verdict{Stage: StageHeuristic, Reason: "title has no hiring term"}, nil
	}

	if content == "" {
		content = article.Snippet
	}

	key := "judge-boolean"
	if g.config.Mode == ModeScore {
		key = "judge-score"
	}
	prompt, err := prompts.Render(prompts.RelevanceFile, key, map[string]string{
		"Title":    article.Title,
		"Content":  truncateRunes(content, g.config.MaxContentRunes),
		"Keywords": strings.Join(keywords, ", "),
	})
	if err != nil {
		return Verdict{Stage: StageAI, Reason: "prompt unavailable"}, err
	}

	raw, err := g.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return Verdict{Stage: StageAI, Reason: "model call failed"}, fmt.Errorf("relevance judgment: %w", err)
	}

	if g.config.Mode == ModeScore {
		return g.scoreVerdict(raw), nil
	}
	return g.boolVerdict(raw), nil
}

func (g *Gate) boolVerdict(raw string) Verdict {
	ok, err := llm.ParseBool(raw)
	if err != nil {
		g.logger.Debug("unparsable relevance token treated as false", "raw", raw)
		return Verdict{Stage: StageAI, Reason: "unparsable answer"}
	}
	if !ok {
		return Verdict{Stage: StageAI, Reason: "model judged irrelevant"}
	}
	return Verdict{Relevant: true, Stage: StageAI}
}

func (g *Gate) scoreVerdict(raw string) Verdict {
	score, err := llm.ParseScore(raw)
	if err != nil {
		g.logger.Debug("unparsable relevance score treated as irrelevant", "raw", raw)
		return Verdict{Stage: StageAI, Reason: "unparsable answer"}
	}
	if score < g.config.Threshold {
		return Verdict{Stage: StageAI, Score: score, Reason: fmt.Sprintf("score %d below %d", score, g.config.Threshold)}
	}
	return Verdict{Relevant: true, Stage: StageAI, Score: score}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
