package tiers

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type tomlFile struct {
	Tiers []tomlTier `toml:"tiers"`
}

type tomlTier struct {
	Name  string     `toml:"name"`
	Rates []tomlRate `toml:"rates"`
}

type tomlRate struct {
	Limit    int    `toml:"limit"`
	Interval string `toml:"interval"`
}

// Load parses the tiers file at path into a tier-name -> Tier map. A file
// with no `tiers` table is not an error; it yields an empty map.
func Load(path string) (map[string]Tier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tiers: read %s: %w", path, err)
	}
	return parse(raw)
}

func parse(raw []byte) (map[string]Tier, error) {
	var file tomlFile
	if _, err := toml.Decode(string(raw), &file); err != nil {
		return nil, fmt.Errorf("tiers: parse toml: %w", err)
	}

	out := make(map[string]Tier, len(file.Tiers))
	for _, t := range file.Tiers {
		rates := make([]Rate, 0, len(t.Rates))
		for _, r := range t.Rates {
			interval, err := parseInterval(r.Interval)
			if err != nil {
				return nil, fmt.Errorf("tiers: tier %q: %w", t.Name, err)
			}
			rates = append(rates, Rate{Limit: r.Limit, Interval: interval})
		}
		out[t.Name] = Tier{Name: t.Name, Rates: rates}
	}
	return out, nil
}

// parseInterval accepts the suffixes the spec names: s, m, h, d. Anything
// else is a parse error.
func parseInterval(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid day interval %q: %w", s, err)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if s == "" || !strings.ContainsAny(s[len(s)-1:], "smh") {
		return 0, fmt.Errorf("invalid interval %q: unknown suffix", s)
	}
	if _, err := strconv.Atoi(s[:len(s)-1]); err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	return d, nil
}
