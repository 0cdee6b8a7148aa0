// Package search queries a Naver-compatible news search API and turns its
// items into candidate articles.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jonathan/career-news/internal/types"
)

// DefaultEndpoint is the Naver news search endpoint.
const DefaultEndpoint = "https://openapi.naver.com/v1/search/news.json"

// DefaultTimeout bounds one search request.
const DefaultTimeout = 10 * time.Second

// MaxDisplay is the largest page size the API accepts.
const MaxDisplay = 100

// pubDateLayout is the RFC 1123 form used by the API, e.g. "Mon, 02 Jan 2006 15:04:05 +0900".
const pubDateLayout = time.RFC1123Z

// Sort is the result ordering requested from the API.
type Sort string

const (
	// SortDate orders by recency
	SortDate Sort = "date"
	// SortSimilarity orders by relevance to the query
	SortSimilarity Sort = "sim"
)

// Error is a soft search failure for one keyword.
type Error struct {
	Keyword    string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("search %q: %s", e.Keyword, e.Message)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Config configures the search client.
type Config struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// Client fetches candidate articles for one keyword per call. It never sleeps;
// throttling is the caller's job.
type Client struct {
	endpoint     string
	clientID     string
	clientSecret string
	http         *http.Client
	policy       *bluemonday.Policy
	logger       *slog.Logger
}

// New creates a search client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		endpoint:     cfg.Endpoint,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		http:         httpClient,
		policy:       bluemonday.StrictPolicy(),
		logger:       logger.With("component", "search"),
	}
}

type response struct {
	Items []item `json:"items"`
}

type item struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	OriginalLink string `json:"originallink"`
	PubDate      string `json:"pubDate"`
}

// Fetch performs one search request. On any failure it returns an empty,
// non-nil slice together with a *Error.
func (c *Client) Fetch(ctx context.Context, keyword string, limit int, sort Sort) ([]types.CandidateArticle, error) {
	empty := []types.CandidateArticle{}

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return empty, &Error{Keyword: keyword, Message: "empty keyword"}
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > MaxDisplay {
		limit = MaxDisplay
	}
	if sort != SortSimilarity {
		sort = SortDate
	}

	q := url.Values{}
	q.Set("query", keyword)
	q.Set("display", strconv.Itoa(limit))
	q.Set("start", "1")
	q.Set("sort", string(sort))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return empty, &Error{Keyword: keyword, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return empty, &Error{Keyword: keyword, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return empty, &Error{Keyword: keyword, StatusCode: resp.StatusCode, Message: "unexpected status"}
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return empty, &Error{Keyword: keyword, StatusCode: resp.StatusCode, Message: "invalid response body", Cause: err}
	}

	articles := make([]types.CandidateArticle, 0, len(body.Items))
	for _, it := range body.Items {
		article, ok := c.toCandidate(it)
		if !ok {
			c.logger.Debug("dropping item without URL", "keyword", keyword, "title", it.Title)
			continue
		}
		articles = append(articles, article)
		if len(articles) == limit {
			break
		}
	}

	c.logger.Debug("search complete", "keyword", keyword, "items", len(body.Items), "kept", len(articles))
	return articles, nil
}

func (c *Client) toCandidate(it item) (types.CandidateArticle, bool) {
	link := strings.TrimSpace(it.OriginalLink)
	if link == "" {
		link = strings.TrimSpace(it.Link)
	}
	if link == "" {
		return types.CandidateArticle{}, false
	}

	article := types.CandidateArticle{
		Title:      c.clean(it.Title),
		Snippet:    c.clean(it.Description),
		SourceURL:  link,
		SourceName: sourceName(link),
	}
	if ts, err := time.Parse(pubDateLayout, strings.TrimSpace(it.PubDate)); err == nil {
		article.PublishedAt = ts
	}
	return article, true
}

// clean strips tags, unescapes entities and collapses whitespace.
func (c *Client) clean(s string) string {
	s = c.policy.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

func sourceName(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
