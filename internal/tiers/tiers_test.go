package tiers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[[tiers]]
name = "gold"
rates = [ { limit = 100, interval = "1s" }, { limit = 5000, interval = "1h" } ]

[[tiers]]
name = "bronze"
rates = [ { limit = 10, interval = "7d" } ]
`

func TestParse(t *testing.T) {
	m, err := parse([]byte(sampleTOML))
	require.NoError(t, err)
	require.Len(t, m, 2)

	gold := m["gold"]
	require.Len(t, gold.Rates, 2)
	assert.Equal(t, 100, gold.Rates[0].Limit)
	assert.Equal(t, time.Second, gold.Rates[0].Interval)
	assert.Equal(t, time.Hour, gold.Rates[1].Interval)

	bronze := m["bronze"]
	assert.Equal(t, 7*24*time.Hour, bronze.Rates[0].Interval)
}

func TestParse_MissingTiersKeyIsEmpty(t *testing.T) {
	m, err := parse([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestParse_BadInterval(t *testing.T) {
	_, err := parse([]byte(`
[[tiers]]
name = "bad"
rates = [ { limit = 1, interval = "1x" } ]
`))
	require.Error(t, err)
}

func TestStore_ReplaceAndGet(t *testing.T) {
	s := NewStore()
	m, err := parse([]byte(sampleTOML))
	require.NoError(t, err)
	s.Replace(m)

	tier, ok := s.Get("gold")
	require.True(t, ok)
	assert.Equal(t, "gold", tier.Name)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}
