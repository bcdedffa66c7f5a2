// Package ratelimiter implements a token bucket used to cap how often the
// generate endpoint can be triggered. Requests that exceed the cap are
// rejected immediately; there is no waiting or retry.
package ratelimiter

import (
	"sync"
	"time"
)

// TokenBucket implements a token bucket rate limit algorithm.
type TokenBucket struct {
	mu             sync.Mutex
	capacity       int
	remaining      int
	refillInterval time.Duration
	lastRefill     time.Time
}

// NewTokenBucket creates a full bucket that refills to capacity every
// refillInterval.
func NewTokenBucket(capacity int, refillInterval time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:       capacity,
		remaining:      capacity,
		refillInterval: refillInterval,
		lastRefill:     time.Now(),
	}
}

// TryConsume atomically checks capacity and consumes tokens if available.
// Returns false when the bucket cannot cover the request.
func (tb *TokenBucket) TryConsume(tokens int) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	if now.Sub(tb.lastRefill) >= tb.refillInterval {
		tb.remaining = tb.capacity
		tb.lastRefill = now
	}
	if tokens <= tb.remaining {
		tb.remaining -= tokens
		return true
	}
	return false
}

// TimeUntilAvailable returns how long until the given number of tokens would
// be available. Read-only; use for informational purposes such as a
// Retry-After header.
func (tb *TokenBucket) TimeUntilAvailable(tokens int) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tokens <= tb.remaining || tokens > tb.capacity {
		return 0
	}

	elapsed := time.Since(tb.lastRefill)
	if elapsed >= tb.refillInterval {
		return 0
	}
	return tb.refillInterval - elapsed
}
