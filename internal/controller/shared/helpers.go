package shared

import (
	"fmt"
	"time"
)

// GenerateResourceName generates a resource name with a suffix, following the
// {base}-{suffix} convention used for every artefact owned by an OgmiosPort.
func GenerateResourceName(baseName, suffix string) string {
	return fmt.Sprintf("%s-%s", baseName, suffix)
}

// ParseDurationWithDefault parses a duration string, returning the default if
// the string is empty or fails to parse.
func ParseDurationWithDefault(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	parsed, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return parsed
}
