// Package ratelimit throttles calls to external services (search API, scraped
// publishers, language model) on behalf of the pipeline.
package ratelimit

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// DefaultInterval is the spacing between external calls of one run.
const DefaultInterval = 500 * time.Millisecond

// Limiter blocks until the next call is allowed or ctx ends.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Interval admits one call per fixed interval.
type Interval struct {
	limiter *rate.Limiter
}

// NewInterval returns a limiter that spaces calls at least every apart.
// The first call is admitted immediately. A non-positive interval disables throttling.
func NewInterval(every time.Duration) *Interval {
	if every <= 0 {
		return &Interval{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Interval{limiter: rate.NewLimiter(rate.Every(every), 1)}
}

// Wait blocks until the next call is allowed.
func (i *Interval) Wait(ctx context.Context) error {
	return i.limiter.Wait(ctx)
}

// Noop never blocks. Use it in tests.
type Noop struct{}

// Wait returns ctx.Err() without blocking.
func (Noop) Wait(ctx context.Context) error {
	return ctx.Err()
}

// Keyed keeps one interval limiter per key, e.g. per publisher host.
type Keyed struct {
	limit    rate.Limit
	limiters *lru.Cache[string, *rate.Limiter]
	mu       sync.Mutex
}

// NewKeyed creates a per-key limiter. When more than maxKeys keys are
// tracked, the least recently used one is forgotten.
func NewKeyed(every time.Duration, maxKeys int) *Keyed {
	if maxKeys <= 0 {
		maxKeys = 1024
	}
	limit := rate.Inf
	if every > 0 {
		limit = rate.Every(every)
	}
	limiters, _ := lru.New[string, *rate.Limiter](maxKeys)
	return &Keyed{limit: limit, limiters: limiters}
}

// Wait blocks until a call for key is allowed.
func (k *Keyed) Wait(ctx context.Context, key string) error {
	return k.get(key).Wait(ctx)
}

// Len reports how many keys are currently tracked.
func (k *Keyed) Len() int {
	return k.limiters.Len()
}

func (k *Keyed) get(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	if l, ok := k.limiters.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(k.limit, 1)
	k.limiters.Add(key, l)
	return l
}
