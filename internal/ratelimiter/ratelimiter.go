// Package ratelimiter implements token bucket rate limiting with pluggable
// storage backends. The in-memory store serves a single instance; the Redis
// store shares limits across instances.
package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is the consumer-facing contract.
type RateLimiter interface {
	// Allow consumes one token for key.
	Allow(ctx context.Context, key string) (*Result, error)
	// AllowN consumes n tokens for key.
	AllowN(ctx context.Context, key string, n int) (*Result, error)
}

// Store persists bucket state. ConsumeTokens applies the refill-then-consume
// step atomically and may return a negative remaining count when the bucket
// is overdrawn.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// Config defines the token bucket parameters: a bucket holds up to Capacity
// tokens and gains RefillRate tokens every RefillInterval.
type Config struct {
	Capacity       int
	RefillRate     int
	RefillInterval time.Duration
}

// Validate checks the configuration parameters.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// Result reports the outcome of a token consumption attempt.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // tokens left; negative when the request was denied
	ResetAt   time.Time // when the next refill lands
}

// Allowed reports whether the consumption succeeded.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long the caller should wait before retrying.
// Zero when the request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	if wait := time.Until(r.ResetAt); wait > 0 {
		return wait
	}
	return 0
}

// Bucket implements RateLimiter over a Store.
type Bucket struct {
	store  Store
	config Config
}

// NewBucket creates a token bucket limiter with the given store and config.
func NewBucket(store Store, config Config) (*Bucket, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, config: config}, nil
}

// Allow consumes one token for key.
func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN consumes n tokens for key.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTokenCount, n)
	}

	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.config)
	if err != nil {
		return nil, err
	}

	return &Result{
		Limit:     b.config.Capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the bucket for key.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}
