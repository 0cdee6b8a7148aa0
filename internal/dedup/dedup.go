// Package dedup collapses candidate articles that point at the same source URL.
package dedup

import (
	"net/url"
	"strings"

	"github.com/jonathan/career-news/internal/types"
)

// Key returns the identity of an article URL: surrounding whitespace and the
// fragment are dropped, scheme and host are lower-cased. Path and query are
// kept verbatim since publishers use them to address distinct articles.
func Key(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// Deduplicate keeps the first occurrence of each URL key in input order and
// reports how many candidates were dropped. Candidates without a URL are
// dropped and counted as well. Kept candidates carry the key as their
// SourceURL so later lookups and inserts use the same identity.
func Deduplicate(candidates []types.CandidateArticle) (kept []types.CandidateArticle, removed int) {
	seen := make(map[string]struct{}, len(candidates))
	kept = make([]types.CandidateArticle, 0, len(candidates))

	for _, c := range candidates {
		key := Key(c.SourceURL)
		if key == "" {
			removed++
			continue
		}
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		c.SourceURL = key
		kept = append(kept, c)
	}
	return kept, removed
}
