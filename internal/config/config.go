package config

import (
	"os"
	"strconv"
	"time"

	"chit-auction/utils"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config is the process configuration read from the environment
type Config struct {
	Port              string
	LogLevel          string
	StoreDriver       string
	SQLiteDSN         string
	StorePollInterval time.Duration
	SeedFile          string
	BidRatePerSec     float64
	BidRateBurst      int
	AdminPrefix       string
}

// Load reads .env when present, then the environment, applying defaults
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Debug("no .env file, using process environment", nil)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		StoreDriver:       getEnv("STORE_DRIVER", DriverMemory),
		SQLiteDSN:         getEnv("SQLITE_DSN", "file:chit-auction.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"),
		StorePollInterval: getDuration("STORE_POLL_INTERVAL", 500*time.Millisecond),
		SeedFile:          getEnv("SEED_FILE", ""),
		BidRatePerSec:     getFloat("BID_RATE_PER_SEC", 2),
		BidRateBurst:      getInt("BID_RATE_BURST", 4),
		AdminPrefix:       getEnv("ADMIN_PREFIX", "ADMIN"),
	}
	if cfg.StoreDriver != DriverMemory && cfg.StoreDriver != DriverSQLite {
		utils.Warn("unknown STORE_DRIVER, using memory", map[string]any{"driver": cfg.StoreDriver})
		cfg.StoreDriver = DriverMemory
	}
	return cfg
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		utils.Warn("invalid duration, using default", map[string]any{"key": key, "value": raw})
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		utils.Warn("invalid number, using default", map[string]any{"key": key, "value": raw})
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		utils.Warn("invalid integer, using default", map[string]any{"key": key, "value": raw})
		return fallback
	}
	return n
}
