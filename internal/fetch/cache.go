// Package fetch - cache.go keeps recently extracted article text in memory so
// concurrent runs for different owners do not scrape the same page twice.
package fetch

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultPageCacheSize and DefaultPageCacheTTL bound the in-memory text cache.
const (
	DefaultPageCacheSize = 512
	DefaultPageCacheTTL  = 6 * time.Hour
)

// TextCache maps an article URL to its extracted body text.
type TextCache struct {
	lru *expirable.LRU[string, string]
}

// NewTextCache creates a cache holding up to size entries for ttl each.
func NewTextCache(size int, ttl time.Duration) *TextCache {
	if size <= 0 {
		size = DefaultPageCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultPageCacheTTL
	}
	return &TextCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

// Get returns the cached text for url.
func (c *TextCache) Get(url string) (string, bool) {
	if c == nil {
		return "", false
	}
	return c.lru.Get(url)
}

// Put stores text for url. Empty text is not cached.
func (c *TextCache) Put(url, text string) {
	if c == nil || text == "" {
		return
	}
	c.lru.Add(url, text)
}

// Len reports the number of live entries.
func (c *TextCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
