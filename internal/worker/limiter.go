package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// WriteLimiter paces persistence writes per database path so a large
// batch fanning out over many workers does not hammer a single SQLite
// file. Each path gets its own token bucket.
type WriteLimiter struct {
	mu           sync.RWMutex
	limiters     map[string]*rate.Limiter
	defaultRate  rate.Limit
	defaultBurst int
}

// NewWriteLimiter creates a limiter allowing writesPerSecond with the
// given burst per database path
func NewWriteLimiter(writesPerSecond float64, burst int) *WriteLimiter {
	if burst <= 0 {
		burst = 5
	}
	return &WriteLimiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(writesPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until a write to the given path is allowed or ctx ends
func (l *WriteLimiter) Wait(ctx context.Context, path string) error {
	return l.limiter(path).Wait(ctx)
}

// Allow reports whether a write is allowed right now without waiting
func (l *WriteLimiter) Allow(path string) bool {
	return l.limiter(path).Allow()
}

func (l *WriteLimiter) limiter(path string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[path]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.limiters[path]; ok {
		return lim
	}
	lim = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[path] = lim
	return lim
}
