package hostproxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHost_NoKey(t *testing.T) {
	cfg := BuildConfig{IngressClass: "ogmios-v1", DNSZone: "demeter.run"}
	got := BuildHost("port1", "abc", nil, cfg)
	assert.Equal(t, "port1-abc.ogmios-v1.demeter.run", got)
}

func TestBuildHost_WithKey(t *testing.T) {
	cfg := BuildConfig{IngressClass: "ogmios-v1", DNSZone: "demeter.run"}
	key := "dmtr_k"
	got := BuildHost("port1", "abc", &key, cfg)
	assert.Equal(t, "dmtr_k.port1-abc.ogmios-v1.demeter.run", got)
}

func TestParseHost(t *testing.T) {
	result, err := ParseHost("dmtr_k.preprod-v6.ogmios-v1.demeter.run")
	require.NoError(t, err)
	require.NotNil(t, result.Key)
	assert.Equal(t, "dmtr_k", *result.Key)
	assert.Equal(t, "preprod", result.Network)
	assert.Equal(t, 6, result.Version)
}

func TestParseHost_NoKey(t *testing.T) {
	result, err := ParseHost("preprod-v6.ogmios-v1.demeter.run")
	require.NoError(t, err)
	assert.Nil(t, result.Key)
	assert.Equal(t, "preprod", result.Network)
	assert.Equal(t, 6, result.Version)
}

func TestParseHost_Invalid(t *testing.T) {
	_, err := ParseHost("not-a-valid-host")
	require.Error(t, err)
	var parseErr *ErrHostParse
	assert.ErrorAs(t, err, &parseErr)
}

// The round-trip property (testable property §8) holds whenever the build
// inputs encode a network-version pair: name is the network and projectID
// is "v{version}", the shape the operator feeds into the codec when
// generating a port's routing hostname.
func TestHostRoundTrip(t *testing.T) {
	cfg := BuildConfig{IngressClass: "ogmios-v1", DNSZone: "demeter.run"}
	key := "dmtr_abcd1234"
	host := BuildHost("preprod", "v6", &key, cfg)
	assert.Equal(t, "dmtr_abcd1234.preprod-v6.ogmios-v1.demeter.run", host)

	result, err := ParseHost(host)
	require.NoError(t, err)
	require.NotNil(t, result.Key)
	assert.Equal(t, key, *result.Key)
	assert.Equal(t, "preprod", result.Network)
	assert.Equal(t, 6, result.Version)
}

func TestProjectID(t *testing.T) {
	assert.Equal(t, "abc", ProjectID("prj-abc"))
	assert.Equal(t, "dash", ProjectID("no-dash"))
	assert.Equal(t, "nodash", ProjectID("nodash"))
}

func TestRoutingTarget(t *testing.T) {
	assert.Equal(t, "ogmios-preprod-v6.ogmios.svc.cluster.local:1337",
		RoutingTarget("preprod", 6, "ogmios.svc.cluster.local", "1337"))
}
