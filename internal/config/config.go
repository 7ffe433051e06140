package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	FetchTimeout   time.Duration
	FetchRateLimit float64 // requests per second, 0 = unlimited
	UserAgent      string

	StoreTimeout time.Duration
	MongoDB      string

	HTTPListen string // status API address, used with a repeat interval
}

func Load() *Config {
	_ = godotenv.Load() // optional

	return &Config{
		FetchTimeout:   getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		FetchRateLimit: getEnvFloat("FETCH_RATE_LIMIT", 0),
		UserAgent:      getEnv("USER_AGENT", ""),
		StoreTimeout:   getEnvDuration("STORE_TIMEOUT", 10*time.Second),
		MongoDB:        getEnv("MONGO_DB", "addon_stats"),
		HTTPListen:     getEnv("HTTP_LISTEN", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
