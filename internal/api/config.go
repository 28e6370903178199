package api

import (
	"os"
	"strconv"
	"strings"
)

// Config contains HTTP boundary settings.
type Config struct {
	// MaxBodyBytes bounds request body size for JSON endpoints.
	MaxBodyBytes int64
}

// LoadConfigFromEnv loads Config from environment variables with defaults.
func LoadConfigFromEnv() Config {
	return Config{
		MaxBodyBytes: envInt64("IDENFLOW_API_MAX_BODY_BYTES", 1<<20),
	}
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
