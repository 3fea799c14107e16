// Package hostproxy implements the TLS-terminating reverse proxy: hostname
// routing, HTTP pass-through, and the WebSocket bidirectional pipe.
package hostproxy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var hostPattern = regexp.MustCompile(`^(dmtr_[\w\d-]+)?\.?([\w-]+)-v(\d+).+$`)

// ParseResult is the decoded form of an inbound Host header.
type ParseResult struct {
	Key     *string
	Network string
	Version int
}

// ErrHostParse is returned when a Host header does not match the routing
// pattern. The proxy maps it to a 502 Bad Gateway.
type ErrHostParse struct {
	Host string
}

func (e *ErrHostParse) Error() string {
	return fmt.Sprintf("hostproxy: cannot parse host %q", e.Host)
}

// ParseHost decodes a Host header into (key?, network, version).
func ParseHost(host string) (*ParseResult, error) {
	m := hostPattern.FindStringSubmatch(host)
	if m == nil {
		return nil, &ErrHostParse{Host: host}
	}

	version, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, &ErrHostParse{Host: host}
	}

	result := &ParseResult{Network: m[2], Version: version}
	if m[1] != "" {
		key := m[1]
		result.Key = &key
	}
	return result, nil
}

// ProjectID extracts the DNS-label project id from a namespace: the suffix
// after the first '-'.
func ProjectID(namespace string) string {
	idx := strings.Index(namespace, "-")
	if idx < 0 {
		return namespace
	}
	return namespace[idx+1:]
}

// BuildConfig carries the static pieces needed to build a canonical hostname.
type BuildConfig struct {
	IngressClass string
	DNSZone      string
}

// BuildHost constructs `{name}-{project-id}.{ingress_class}.{dns_zone}`,
// optionally prefixed with `{key}.` when a key is present. projectID is
// typically the result of ProjectID(namespace).
func BuildHost(name, projectID string, key *string, cfg BuildConfig) string {
	host := fmt.Sprintf("%s-%s.%s.%s", name, projectID, cfg.IngressClass, cfg.DNSZone)
	if key != nil && *key != "" {
		host = *key + "." + host
	}
	return host
}

// BuildPortHost builds the canonical hostname for a port's (network,
// version), the shape that round-trips through ParseHost.
func BuildPortHost(network string, version int, key *string, cfg BuildConfig) string {
	return BuildHost(network, fmt.Sprintf("v%d", version), key, cfg)
}

// RoutingTarget builds the backend address for a (network, version) pair.
func RoutingTarget(network string, version int, ogmiosDNS, ogmiosPort string) string {
	return fmt.Sprintf("ogmios-%s-v%d.%s:%s", network, version, ogmiosDNS, ogmiosPort)
}
