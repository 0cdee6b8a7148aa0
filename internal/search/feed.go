package search

import (
	"context"
	"errors"
	"html"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/jonathan/career-news/internal/types"
)

// DefaultFeedEndpoint is the Google News RSS search endpoint for Korean results.
const DefaultFeedEndpoint = "https://news.google.com/rss/search"

// FeedConfig configures an RSS search source.
type FeedConfig struct {
	Endpoint string
	// Params are appended to every query, e.g. hl=ko.
	Params     url.Values
	HTTPClient *http.Client
}

// FeedClient searches an RSS endpoint that accepts the keyword as the q parameter.
type FeedClient struct {
	endpoint string
	params   url.Values
	parser   *gofeed.Parser
	policy   *bluemonday.Policy
}

// NewFeed creates an RSS search source.
func NewFeed(cfg FeedConfig) *FeedClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultFeedEndpoint
		if cfg.Params == nil {
			cfg.Params = url.Values{"hl": {"ko"}, "gl": {"KR"}, "ceid": {"KR:ko"}}
		}
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	fp := gofeed.NewParser()
	fp.Client = httpClient
	return &FeedClient{
		endpoint: cfg.Endpoint,
		params:   cfg.Params,
		parser:   fp,
		policy:   bluemonday.StrictPolicy(),
	}
}

// Fetch reads the feed for keyword. SortDate orders items newest first;
// SortSimilarity keeps feed order.
func (f *FeedClient) Fetch(ctx context.Context, keyword string, limit int, sort Sort) ([]types.CandidateArticle, error) {
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

	q := url.Values{}
	for k, v := range f.params {
		q[k] = v
	}
	q.Set("q", keyword)

	feed, err := f.parser.ParseURLWithContext(f.endpoint+"?"+q.Encode(), ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return empty, &Error{Keyword: keyword, StatusCode: httpErr.StatusCode, Message: "unexpected status"}
		}
		return empty, &Error{Keyword: keyword, Message: "feed request failed", Cause: err}
	}

	items := feed.Items
	if sort != SortSimilarity {
		items = slices.Clone(items)
		slices.SortStableFunc(items, func(a, b *gofeed.Item) int {
			return publishedAt(b).Compare(publishedAt(a))
		})
	}

	articles := make([]types.CandidateArticle, 0, min(limit, len(items)))
	for _, it := range items {
		link := strings.TrimSpace(it.Link)
		if link == "" {
			continue
		}
		article := types.CandidateArticle{
			Title:      f.clean(it.Title),
			Snippet:    f.clean(it.Description),
			SourceURL:  link,
			SourceName: sourceName(link),
		}
		if it.PublishedParsed != nil {
			article.PublishedAt = *it.PublishedParsed
		}
		articles = append(articles, article)
		if len(articles) == limit {
			break
		}
	}
	return articles, nil
}

func (f *FeedClient) clean(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(f.policy.Sanitize(s))), " ")
}

func publishedAt(it *gofeed.Item) time.Time {
	if it.PublishedParsed == nil {
		return time.Time{}
	}
	return *it.PublishedParsed
}

// Source is anything that returns candidate articles for a keyword.
type Source interface {
	Fetch(ctx context.Context, keyword string, limit int, sort Sort) ([]types.CandidateArticle, error)
}

// Sources queries several sources in turn and concatenates their results.
// A failing source does not hide the results of the others.
type Sources []Source

// Fetch asks every source for up to limit articles.
func (s Sources) Fetch(ctx context.Context, keyword string, limit int, sort Sort) ([]types.CandidateArticle, error) {
	all := []types.CandidateArticle{}
	var errs []error
	for _, src := range s {
		found, err := src.Fetch(ctx, keyword, limit, sort)
		if err != nil {
			errs = append(errs, err)
		}
		all = append(all, found...)
	}
	return all, errors.Join(errs...)
}
