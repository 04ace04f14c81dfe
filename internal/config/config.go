package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	APIBaseURL        string
	VerifierBaseURL   string
	StatePath         string
	CacheVersion      string
	RequestTimeout    time.Duration
	CODFee            decimal.Decimal
	FreeDeliveryAbove decimal.Decimal
	Debug             bool
}

// Load reads configuration from the environment, with an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:        getEnv("API_BASE_URL", "http://localhost:8080/api/v1"),
		VerifierBaseURL:   getEnv("VERIFIER_BASE_URL", "http://localhost:8090"),
		StatePath:         getEnv("STATE_PATH", defaultStatePath()),
		CacheVersion:      getEnv("CACHE_VERSION", "v1"),
		RequestTimeout:    getDuration("REQUEST_TIMEOUT", 30*time.Second),
		CODFee:            getDecimal("COD_FEE", decimal.NewFromInt(50)),
		FreeDeliveryAbove: getDecimal("FREE_DELIVERY_ABOVE", decimal.NewFromInt(500)),
		Debug:             os.Getenv("DEBUG") != "",
	}
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storefront.db"
	}
	return dir + "/storefront/state.db"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
