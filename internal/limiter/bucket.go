// Package limiter implements the per-consumer rate-limiter cache: a set of
// leaky buckets materialized lazily from a consumer's tier, invalidated on
// tier reload or port update.
package limiter

import (
	"context"
	"time"
)

// Bucket is a leaky bucket that refills fully to limit every interval,
// rather than trickling continuously. golang.org/x/time/rate models only
// the continuous trickle, so this is hand-rolled (see DESIGN.md).
type Bucket struct {
	limit    int
	interval time.Duration
	tokens   chan struct{}
	stop     chan struct{}
}

// NewBucket starts a bucket's refill goroutine and returns it full.
func NewBucket(limit int, interval time.Duration) *Bucket {
	b := &Bucket{
		limit:    limit,
		interval: interval,
		tokens:   make(chan struct{}, limit),
		stop:     make(chan struct{}),
	}
	for i := 0; i < limit; i++ {
		b.tokens <- struct{}{}
	}
	go b.refillLoop()
	return b
}

func (b *Bucket) refillLoop() {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.fill()
		}
	}
}

func (b *Bucket) fill() {
	for {
		select {
		case b.tokens <- struct{}{}:
		default:
			return
		}
	}
}

// Acquire blocks until a token is available or ctx is cancelled.
func (b *Bucket) Acquire(ctx context.Context) error {
	select {
	case <-b.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop terminates the refill goroutine. Buckets are never reused once
// stopped; the cache always constructs a fresh one on invalidation.
func (b *Bucket) Stop() {
	close(b.stop)
}
