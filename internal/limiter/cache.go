package limiter

import (
	"context"
	"errors"
	"sync"

	"github.com/demeter-run/ext-ogmios/internal/registry"
	"github.com/demeter-run/ext-ogmios/internal/tiers"
)

// ErrPortDeleted is returned when the consumer no longer exists in the
// registry by the time a bucket set would be materialized.
var ErrPortDeleted = errors.New("limiter: port deleted")

// ErrInvalidTier is returned when the consumer's tier is absent from the tier store.
var ErrInvalidTier = errors.New("limiter: invalid tier")

// Cache is a hash_key -> []*Bucket map. It is owned by the proxy process; a
// cache entry may be reaped without invalidating the corresponding registry
// entry (a weak relation), but it never outlives the consumer it was built
// for in the other direction: an invalidate event always drops it first.
type Cache struct {
	mu      sync.RWMutex
	buckets map[string][]*Bucket
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{buckets: make(map[string][]*Bucket)}
}

// Acquire withdraws one token from every bucket in the consumer's tier,
// materializing the bucket set on first use. Cancelling ctx cancels every
// outstanding sub-acquisition.
func (c *Cache) Acquire(ctx context.Context, reg *registry.Registry, store *tiers.Store, hashKey string) error {
	buckets, err := c.bucketsFor(reg, store, hashKey)
	if err != nil {
		return err
	}
	return acquireAll(ctx, buckets)
}

func (c *Cache) bucketsFor(reg *registry.Registry, store *tiers.Store, hashKey string) ([]*Bucket, error) {
	c.mu.RLock()
	cached, ok := c.buckets[hashKey]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if buckets, ok := c.buckets[hashKey]; ok {
		return buckets, nil
	}

	consumer, ok := reg.Get(hashKey)
	if !ok {
		return nil, ErrPortDeleted
	}
	tier, ok := store.Get(consumer.Tier)
	if !ok {
		return nil, ErrInvalidTier
	}

	buckets := make([]*Bucket, len(tier.Rates))
	for i, r := range tier.Rates {
		buckets[i] = NewBucket(r.Limit, r.Interval)
	}
	c.buckets[hashKey] = buckets
	return buckets, nil
}

func acquireAll(ctx context.Context, buckets []*Bucket) error {
	if len(buckets) == 0 {
		return nil
	}
	errCh := make(chan error, len(buckets))
	for _, b := range buckets {
		go func(bucket *Bucket) { errCh <- bucket.Acquire(ctx) }(b)
	}
	var firstErr error
	for range buckets {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// InvalidateAll drops every materialized bucket set, stopping their refill
// goroutines. Called on registry snapshot/restart and on tier reload.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, buckets := range c.buckets {
		stopAll(buckets)
	}
	c.buckets = make(map[string][]*Bucket)
}

// Invalidate drops the bucket set for a single consumer, if any.
func (c *Cache) Invalidate(hashKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if buckets, ok := c.buckets[hashKey]; ok {
		stopAll(buckets)
		delete(c.buckets, hashKey)
	}
}

func stopAll(buckets []*Bucket) {
	for _, b := range buckets {
		b.Stop()
	}
}

// Len reports how many consumers currently have a materialized bucket set
// (mainly for tests).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buckets)
}
