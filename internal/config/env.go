package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// applyEnv layers PULLWATCH_* environment variables over defaults. A .env
// file in the working directory is honored when present and silently
// skipped when absent.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	c.Logging.Level = getEnvString("PULLWATCH_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnvString("PULLWATCH_LOG_FORMAT", c.Logging.Format)
	c.Logging.Output = getEnvString("PULLWATCH_LOG_FILE", c.Logging.Output)

	c.UI.CollapseThreshold = getEnvInt("PULLWATCH_COLLAPSE_THRESHOLD", c.UI.CollapseThreshold)

	c.Sync.Timeout = getEnvDuration("PULLWATCH_SYNC_TIMEOUT", c.Sync.Timeout)
	c.Sync.GracePeriod = getEnvDuration("PULLWATCH_GRACE_PERIOD", c.Sync.GracePeriod)
	if getEnvBool("PULLWATCH_NO_CLONE", false) {
		c.Sync.CloneMissing = false
	}
}

func getEnvString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
