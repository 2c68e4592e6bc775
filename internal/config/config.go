package config

import (
	"os"
	"strconv"

	"peoplestats/internal/errors"
	"peoplestats/internal/scoring"
)

// Config is the complete application configuration.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Scoring  ScoringConfig
	Data     DataConfig
	Batch    BatchConfig
}

// DatabaseConfig holds database connection settings. URL may be empty; the
// application then runs without persistence.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings.
type ServerConfig struct {
	Port string
}

// ScoringConfig selects the default scoring model.
type ScoringConfig struct {
	Model     scoring.Model
	Normalize bool
}

// DataConfig holds ingestion paths.
type DataConfig struct {
	EvaluationsFile string
}

// BatchConfig bounds batch analysis fan-out.
type BatchConfig struct {
	Concurrency int
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Scoring: ScoringConfig{
			Model:     scoring.Model(getEnvOrDefault("SCORING_MODEL", string(scoring.ModelNPS))),
			Normalize: getEnvBoolOrDefault("NORMALIZE_SCORES", false),
		},
		Data: DataConfig{
			EvaluationsFile: os.Getenv("EVALUATIONS_FILE"),
		},
		Batch: BatchConfig{
			Concurrency: getEnvIntOrDefault("BATCH_CONCURRENCY", 4),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Scoring.Model {
	case scoring.ModelTraditional, scoring.ModelNPS:
	default:
		return errors.ConfigInvalid("SCORING_MODEL must be traditional or nps")
	}
	if cfg.Batch.Concurrency < 1 {
		return errors.ConfigInvalid("BATCH_CONCURRENCY must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
