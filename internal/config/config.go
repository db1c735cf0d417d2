package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Ingest   IngestConfig
	Backfill BackfillConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// IngestConfig controls how brokerage exports are turned into orders.
type IngestConfig struct {
	ExcludedTickers map[string]struct{}
	DefaultUserID   int64
}

// BackfillConfig controls the scheduled daily price backfill.
// An empty Schedule disables scheduling.
type BackfillConfig struct {
	Schedule    string
	Concurrency int
}

// IsExcluded reports whether ticker is on the exclusion list.
func (c IngestConfig) IsExcluded(ticker string) bool {
	_, ok := c.ExcludedTickers[strings.ToUpper(ticker)]
	return ok
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	userID, err := getEnvInt("DEFAULT_USER_ID", 1)
	if err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, fmt.Errorf("DEFAULT_USER_ID must be positive, got %d", userID)
	}

	concurrency, err := getEnvInt("PRICE_BACKFILL_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("PRICE_BACKFILL_CONCURRENCY must be positive, got %d", concurrency)
	}

	config := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/stock_analysis.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Ingest: IngestConfig{
			ExcludedTickers: tickerSet(splitList(getEnv("EXCLUDED_TICKERS", "UAA,UA,CASY,AMT"))),
			DefaultUserID:   userID,
		},
		Backfill: BackfillConfig{
			Schedule:    os.Getenv("PRICE_BACKFILL_SCHEDULE"),
			Concurrency: int(concurrency),
		},
	}
	if _, set := os.LookupEnv("PRICE_BACKFILL_SCHEDULE"); !set {
		config.Backfill.Schedule = "0 22 * * 1-5"
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func tickerSet(tickers []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		set[strings.ToUpper(t)] = struct{}{}
	}
	return set
}
