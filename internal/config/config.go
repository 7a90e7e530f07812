package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/irizaika/jonny-cashflow/internal/logger"
)

type Config struct {
	// Output Configuration
	OutputDir string

	// DefaultVATRate is the VAT rate (in percent) applied when a record does
	// not specify one.
	DefaultVATRate decimal.Decimal

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		OutputDir:     getEnv("OUTPUT_DIR", "."),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}

	rate := getEnv("DEFAULT_VAT_RATE", "20")
	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: DEFAULT_VAT_RATE %q is not a number", rate)
	}
	config.DefaultVATRate = parsed

	return config, nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
