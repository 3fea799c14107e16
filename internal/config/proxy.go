package config

import (
	"strconv"
	"time"
)

// Proxy holds the proxy binary's environment-derived configuration.
type Proxy struct {
	Addr              string
	Namespace         string
	TiersPath         string
	TiersPollInterval time.Duration
	PrometheusAddr    string
	SSLCrtPath        string
	SSLKeyPath        string
	OgmiosPort        string
	OgmiosDNS         string
}

// LoadProxy reads and validates the proxy's environment variables.
func LoadProxy() (*Proxy, error) {
	cfg := &Proxy{
		Addr:           envOr("PROXY_ADDR", "0.0.0.0:8443"),
		PrometheusAddr: envOr("PROMETHEUS_ADDR", "0.0.0.0:9090"),
	}

	var err error
	if cfg.Namespace, err = require("PROXY_NAMESPACE"); err != nil {
		return nil, err
	}
	if cfg.TiersPath, err = require("PROXY_TIERS_PATH"); err != nil {
		return nil, err
	}
	if cfg.SSLCrtPath, err = require("SSL_CRT_PATH"); err != nil {
		return nil, err
	}
	if cfg.SSLKeyPath, err = require("SSL_KEY_PATH"); err != nil {
		return nil, err
	}
	if cfg.OgmiosPort, err = require("OGMIOS_PORT"); err != nil {
		return nil, err
	}
	if cfg.OgmiosDNS, err = require("OGMIOS_DNS"); err != nil {
		return nil, err
	}

	pollSeconds := envOr("PROXY_TIERS_POLL_INTERVAL", "2")
	seconds, convErr := strconv.Atoi(pollSeconds)
	if convErr != nil {
		return nil, &Error{Var: "PROXY_TIERS_POLL_INTERVAL", Err: convErr}
	}
	cfg.TiersPollInterval = time.Duration(seconds) * time.Second

	return cfg, nil
}
