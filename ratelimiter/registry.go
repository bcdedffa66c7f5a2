package ratelimiter

import (
	"sync"
	"time"
)

// Registry hands out one bucket per key (typically a client IP), all sharing
// the same capacity and refill interval.
type Registry struct {
	mu       sync.Mutex
	buckets  map[string]*TokenBucket
	capacity int
	interval time.Duration
}

// NewRegistry creates a registry whose buckets allow capacity requests per
// interval.
func NewRegistry(capacity int, interval time.Duration) *Registry {
	return &Registry{
		buckets:  make(map[string]*TokenBucket),
		capacity: capacity,
		interval: interval,
	}
}

// Allow consumes one request from the bucket for key, creating the bucket on
// first sight.
func (r *Registry) Allow(key string) bool {
	return r.bucket(key).TryConsume(1)
}

// RetryAfter reports how long the caller behind key should wait before the
// next request would be accepted.
func (r *Registry) RetryAfter(key string) time.Duration {
	return r.bucket(key).TimeUntilAvailable(1)
}

func (r *Registry) bucket(key string) *TokenBucket {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[key]
	if !ok {
		b = NewTokenBucket(r.capacity, r.interval)
		r.buckets[key] = b
	}
	return b
}
