package cli

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const envDataDir = "BOOKSCRIPT_DATA_DIR"

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func boolEnvDefault(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	switch strings.ToLower(v) {
	case "y", "yes", "on":
		return true
	case "n", "no", "off":
		return false
	default:
		return def
	}
}

// durationEnvDefault accepts Go durations ("90s") or bare seconds ("90").
func durationEnvDefault(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
