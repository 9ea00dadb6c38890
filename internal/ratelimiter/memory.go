package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// bucketState is one key's token bucket.
type bucketState struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// Buckets untouched this long are dropped during sweeps.
const staleThreshold = time.Hour

// MemoryStore implements Store in process memory. Stale buckets are swept
// opportunistically during writes, so no background goroutine is needed.
type MemoryStore struct {
	mu        sync.Mutex
	buckets   map[string]*bucketState
	lastSweep time.Time
	now       func() time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryStoreClock overrides the time source. Used by tests.
func WithMemoryStoreClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets: make(map[string]*bucketState),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

// ConsumeTokens refills the bucket for elapsed intervals, then consumes the
// requested tokens. Remaining goes negative on denial; the refill schedule
// recovers it.
func (ms *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	ms.sweepStale(now)

	b, ok := ms.buckets[key]
	if !ok {
		b = &bucketState{tokens: config.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}

	// Cap counted intervals so a long-idle bucket cannot overflow the math.
	elapsed := now.Sub(b.lastRefill)
	maxIntervals := int64(config.Capacity/config.RefillRate + 1)
	intervals := int(min(int64(elapsed/config.RefillInterval), maxIntervals))
	if intervals > 0 {
		b.tokens = min(b.tokens+intervals*config.RefillRate, config.Capacity)
		b.lastRefill = now
	}

	b.tokens -= tokens
	b.lastAccess = now

	return b.tokens, b.lastRefill.Add(config.RefillInterval), nil
}

// Reset drops the bucket for key.
func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.buckets, key)
	return nil
}

// sweepStale removes long-idle buckets. Runs at most once per threshold
// window; caller holds the lock.
func (ms *MemoryStore) sweepStale(now time.Time) {
	if now.Sub(ms.lastSweep) < staleThreshold {
		return
	}
	ms.lastSweep = now
	for key, b := range ms.buckets {
		if now.Sub(b.lastAccess) > staleThreshold {
			delete(ms.buckets, key)
		}
	}
}
