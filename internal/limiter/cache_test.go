package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demeter-run/ext-ogmios/internal/registry"
	"github.com/demeter-run/ext-ogmios/internal/tiers"
)

func TestAcquire_PortDeleted(t *testing.T) {
	reg := registry.New()
	store := tiers.NewStore()
	cache := NewCache()

	err := cache.Acquire(context.Background(), reg, store, "preprod.6.missing")
	assert.ErrorIs(t, err, ErrPortDeleted)
}

func TestAcquire_InvalidTier(t *testing.T) {
	reg := registry.New()
	store := tiers.NewStore()
	cache := NewCache()

	c := registry.Consumer{Network: "preprod", Version: 6, Key: "k", Tier: "missing-tier"}
	reg.Apply(c)

	err := cache.Acquire(context.Background(), reg, store, c.HashKey())
	assert.ErrorIs(t, err, ErrInvalidTier)
}

// TestAcquire_SecondCallSuspends mirrors scenario 4: a single-rate tier with
// limit=1 interval=1s forces the second rapid acquisition to wait roughly
// one second for the refill.
func TestAcquire_SecondCallSuspends(t *testing.T) {
	reg := registry.New()
	store := tiers.NewStore()
	cache := NewCache()

	c := registry.Consumer{Network: "preprod", Version: 6, Key: "k", Tier: "t"}
	reg.Apply(c)
	store.Replace(map[string]tiers.Tier{
		"t": {Name: "t", Rates: []tiers.Rate{{Limit: 1, Interval: time.Second}}},
	})

	require.NoError(t, cache.Acquire(context.Background(), reg, store, c.HashKey()))

	start := time.Now()
	require.NoError(t, cache.Acquire(context.Background(), reg, store, c.HashKey()))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 900*time.Millisecond)
}

func TestInvalidate_DropsBucketSet(t *testing.T) {
	reg := registry.New()
	store := tiers.NewStore()
	cache := NewCache()

	c := registry.Consumer{Network: "preprod", Version: 6, Key: "k", Tier: "t"}
	reg.Apply(c)
	store.Replace(map[string]tiers.Tier{
		"t": {Name: "t", Rates: []tiers.Rate{{Limit: 1, Interval: time.Hour}}},
	})

	require.NoError(t, cache.Acquire(context.Background(), reg, store, c.HashKey()))
	assert.Equal(t, 1, cache.Len())

	cache.Invalidate(c.HashKey())
	assert.Equal(t, 0, cache.Len())
}
