package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Operator holds the operator binary's environment-derived configuration.
type Operator struct {
	DNSZone       string
	Namespace     string
	IngressClass  string
	APIKeySalt    []byte
	ExtensionName string
	DCUPerFrame   map[string]float64
	MetricsDelay  time.Duration
	PrometheusURL string
	Addr          string
}

// LoadOperator reads and validates the operator's environment variables.
func LoadOperator() (*Operator, error) {
	cfg := &Operator{
		Addr: envOr("ADDR", "0.0.0.0:8080"),
	}

	var err error
	if cfg.DNSZone, err = require("DNS_ZONE"); err != nil {
		return nil, err
	}
	if cfg.Namespace, err = require("NAMESPACE"); err != nil {
		return nil, err
	}
	if cfg.IngressClass, err = require("INGRESS_CLASS"); err != nil {
		return nil, err
	}
	if cfg.ExtensionName, err = require("EXTENSION_NAME"); err != nil {
		return nil, err
	}

	salt, err := require("API_KEY_SALT")
	if err != nil {
		return nil, err
	}
	cfg.APIKeySalt = []byte(salt)

	cfg.PrometheusURL = os.Getenv("PROMETHEUS_URL")

	delaySeconds := envOr("METRICS_DELAY", "60")
	seconds, convErr := strconv.Atoi(delaySeconds)
	if convErr != nil {
		return nil, &Error{Var: "METRICS_DELAY", Err: convErr}
	}
	cfg.MetricsDelay = time.Duration(seconds) * time.Second

	cfg.DCUPerFrame, err = parseDCUPerFrame(os.Getenv("DCU_PER_FRAME"))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseDCUPerFrame parses a comma-separated "net=float" list, e.g.
// "mainnet=1.0,preprod=0.5".
func parseDCUPerFrame(raw string) (map[string]float64, error) {
	out := make(map[string]float64)
	if raw == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, &Error{Var: "DCU_PER_FRAME", Err: fmt.Errorf("malformed pair %q", pair)}
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, &Error{Var: "DCU_PER_FRAME", Err: err}
		}
		out[strings.TrimSpace(parts[0])] = weight
	}
	return out, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func require(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", missing(name)
	}
	return v, nil
}
