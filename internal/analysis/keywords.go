package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan/career-news/internal/llm"
	"github.com/jonathan/career-news/internal/prompts"
	"github.com/jonathan/career-news/internal/schemas"
	"github.com/jonathan/career-news/internal/types"
)

// DefaultImportance is assigned when the model omits a score.
const DefaultImportance = 0.5

// ErrNoKeywords is returned when no usable tag survives cleaning.
var ErrNoKeywords = errors.New("no keywords extracted")

type tagPayload struct {
	Keyword         string   `json:"keyword"`
	Type            *string  `json:"type"`
	ImportanceScore *float64 `json:"importance_score"`
}

// KeywordExtractor tags the salient keywords of a summary.
type KeywordExtractor struct {
	client llm.Client
	logger *slog.Logger
}

// NewKeywordExtractor creates a keyword extractor.
func NewKeywordExtractor(client llm.Client, logger *slog.Logger) *KeywordExtractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &KeywordExtractor{client: client, logger: logger.With("component", "keywords")}
}

// Extract returns between 1 and types.MaxKeywordTags tags. A blank summary
// returns an empty slice without calling the model.
func (k *KeywordExtractor) Extract(ctx context.Context, summary string) ([]types.KeywordTag, error) {
	if strings.TrimSpace(summary) == "" {
		return []types.KeywordTag{}, nil
	}

	prompt, err := prompts.Render(prompts.AnalysisFile, "extract-keywords", map[string]string{
		"Summary": summary,
	})
	if err != nil {
		return nil, err
	}

	raw, err := k.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("keyword extraction call failed: %w", err)
	}

	return k.parse(raw)
}

func (k *KeywordExtractor) parse(raw string) ([]types.KeywordTag, error) {
	cleaned := llm.CleanJSONBlock(raw)

	var payload []tagPayload
	if err := schemas.Validate(schemas.KeywordTags, cleaned); err == nil {
		payload, err = llm.ParseJSON[[]tagPayload](cleaned)
		if err != nil {
			return nil, err
		}
	} else {
		// Some answers are a bare list of strings
		words, werr := llm.ParseJSON[[]string](cleaned)
		if werr != nil {
			return nil, &llm.ParseError{Raw: raw, Message: "keywords do not match schema", Cause: err}
		}
		k.logger.Debug("keyword answer was a plain string list", "count", len(words))
		for _, w := range words {
			payload = append(payload, tagPayload{Keyword: w})
		}
	}

	tags := cleanTags(payload)
	if len(tags) == 0 {
		return nil, &llm.ParseError{Raw: raw, Message: "no usable keyword tags", Cause: ErrNoKeywords}
	}
	return tags, nil
}

// cleanTags drops blank and duplicate keywords, maps unknown types to other,
// clamps importance to [0,1] and keeps at most types.MaxKeywordTags.
func cleanTags(payload []tagPayload) []types.KeywordTag {
	seen := make(map[string]struct{}, len(payload))
	tags := make([]types.KeywordTag, 0, types.MaxKeywordTags)

	for _, p := range payload {
		keyword := strings.Join(strings.Fields(p.Keyword), " ")
		if keyword == "" {
			continue
		}
		key := strings.ToLower(keyword)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		tags = append(tags, types.KeywordTag{
			Keyword:         keyword,
			Type:            normalizeType(p.Type),
			ImportanceScore: clamp(p.ImportanceScore),
		})
		if len(tags) == types.MaxKeywordTags {
			break
		}
	}
	return tags
}

func normalizeType(t *string) types.KeywordType {
	if t == nil {
		return types.KeywordTypeOther
	}
	switch kt := types.KeywordType(strings.ToLower(strings.TrimSpace(*t))); kt {
	case types.KeywordTypeRole, types.KeywordTypeSkill, types.KeywordTypeIndustry:
		return kt
	default:
		return types.KeywordTypeOther
	}
}

func clamp(score *float64) float64 {
	if score == nil {
		return DefaultImportance
	}
	switch {
	case *score < 0:
		return 0
	case *score > 1:
		return 1
	default:
		return *score
	}
}
