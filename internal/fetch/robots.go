package fetch

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/temoto/robotstxt"
)

// DefaultRobotsAgent is the product token matched against robots.txt groups.
const DefaultRobotsAgent = "careernews"

// RobotsPolicy answers whether a page may be scraped according to its
// host's robots.txt. Rules are fetched once per origin and kept in an LRU.
type RobotsPolicy struct {
	agent  string
	opts   *Options
	rules  *lru.Cache[string, *robotstxt.RobotsData]
	logger *slog.Logger
}

// allowAll stands in for an origin whose robots.txt is missing.
var allowAll, _ = robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)

// NewRobotsPolicy creates a policy. An empty agent uses DefaultRobotsAgent.
func NewRobotsPolicy(agent string, opts *Options, size int, logger *slog.Logger) *RobotsPolicy {
	if agent == "" {
		agent = DefaultRobotsAgent
	}
	if size <= 0 {
		size = 256
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rules, _ := lru.New[string, *robotstxt.RobotsData](size)
	return &RobotsPolicy{agent: agent, opts: opts, rules: rules, logger: logger.With("component", "robots")}
}

// Allowed reports whether pageURL may be fetched. Unparseable URLs are refused.
func (p *RobotsPolicy) Allowed(ctx context.Context, pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return false
	}
	origin := u.Scheme + "://" + u.Host

	data, ok := p.rules.Get(origin)
	if !ok {
		var cacheable bool
		data, cacheable = p.load(ctx, origin)
		if cacheable {
			p.rules.Add(origin, data)
		}
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.TestAgent(path, p.agent)
}

// load fetches robots.txt for origin. HTTP answers follow the usual status
// rules. Transport failures allow the page and 5xx answers refuse it; neither
// verdict is cached, so the origin is asked again on its next page.
func (p *RobotsPolicy) load(ctx context.Context, origin string) (*robotstxt.RobotsData, bool) {
	res, err := URL(ctx, origin+"/robots.txt", p.opts)
	if res == nil {
		p.logger.Debug("robots.txt unreachable", "origin", origin, "error", err)
		return allowAll, false
	}
	transient := res.StatusCode >= http.StatusInternalServerError
	data, perr := robotstxt.FromStatusAndBytes(res.StatusCode, []byte(res.HTML))
	if perr != nil {
		p.logger.Debug("robots.txt unparseable", "origin", origin, "error", perr)
		return allowAll, !transient
	}
	if transient {
		p.logger.Debug("robots.txt server error", "origin", origin, "status", res.StatusCode)
	}
	return data, !transient
}
