package types

import (
	"time"

	"github.com/google/uuid"
)

// Sentiment is the tone assigned to an article by the analysis stage.
type Sentiment string

// Sentiment values accepted from the analyzer.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Category is the coarse topic bucket of an article.
type Category string

// Category values accepted from the analyzer.
const (
	CategoryIT       Category = "IT"
	CategoryEconomy  Category = "economy"
	CategorySociety  Category = "society"
	CategoryPolitics Category = "politics"
	CategoryOther    Category = "other"
)

// KeywordType classifies an extracted keyword tag.
type KeywordType string

// Keyword tag types.
const (
	KeywordTypeRole     KeywordType = "role"
	KeywordTypeSkill    KeywordType = "skill"
	KeywordTypeIndustry KeywordType = "industry"
	KeywordTypeOther    KeywordType = "other"
)

// MaxKeywordTags is the upper bound of keyword tags kept per article.
const MaxKeywordTags = 5

// CandidateArticle is a raw search hit. Its identity is SourceURL.
type CandidateArticle struct {
	Title       string    `json:"title"`
	Snippet     string    `json:"snippet"`
	SourceURL   string    `json:"source_url" validate:"required"`
	SourceName  string    `json:"source_name"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// Analysis is the fixed-shape result of the content analysis stage.
type Analysis struct {
	Summary      string    `json:"summary" validate:"required"`
	Sentiment    Sentiment `json:"sentiment" validate:"required,oneof=positive neutral negative"`
	TrustScore   int       `json:"trust_score" validate:"min=0,max=100"`
	BiasDetected bool      `json:"bias_detected"`
	BiasType     string    `json:"bias_type,omitempty"`
	Category     Category  `json:"category" validate:"required,oneof=IT economy society politics other"`
}

// KeywordTag is one salient keyword extracted from an analyzed article.
type KeywordTag struct {
	Keyword         string      `json:"keyword" validate:"required"`
	Type            KeywordType `json:"type" validate:"required,oneof=role skill industry other"`
	ImportanceScore float64     `json:"importance_score" validate:"min=0,max=1"`
}

// AnalyzedArticle is a candidate that went through enrichment, analysis,
// optional neutralization and keyword extraction. Stages only add fields.
type AnalyzedArticle struct {
	CandidateArticle
	FullText      string       `json:"full_text,omitempty"`
	SummaryText   string       `json:"summary_text"`
	DetailSummary string       `json:"detail_summary"`
	Analysis      Analysis     `json:"analysis"`
	Keywords      []KeywordTag `json:"keywords" validate:"max=5,dive"`
}

// Content returns the best available body text: the enriched full text when
// present, otherwise the search snippet.
func (a *AnalyzedArticle) Content() string {
	if a.FullText != "" {
		return a.FullText
	}
	return a.Snippet
}

// NewsRecord is the persisted form of an analyzed article. At most one record
// exists per (OwnerID, SourceURL).
type NewsRecord struct {
	AnalyzedArticle
	ID        uuid.UUID `json:"id"`
	OwnerID   string    `json:"owner_id" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}
