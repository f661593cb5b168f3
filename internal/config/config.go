package config

import (
	"os"
	"strconv"

	"statreport/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Report ReportConfig
	Server ServerConfig
}

// ReportConfig holds report generation settings
type ReportConfig struct {
	OutputPath string  // workbook destination
	Alpha      float64 // significance level for every test
}

// ServerConfig holds web form settings
type ServerConfig struct {
	Port string
}

// DefaultOutputPath is used when REPORT_OUTPUT is unset.
const DefaultOutputPath = "out/report_pro.xlsx"

// DefaultAlpha is the significance level when REPORT_ALPHA is unset.
const DefaultAlpha = 0.05

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Report: ReportConfig{
			OutputPath: getEnvOrDefault("REPORT_OUTPUT", DefaultOutputPath),
			Alpha:      getEnvFloatOrDefault("REPORT_ALPHA", DefaultAlpha),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Report.OutputPath == "" {
		return errors.ConfigInvalid("report output path is required")
	}
	if config.Report.Alpha <= 0 || config.Report.Alpha >= 1 {
		return errors.ConfigInvalid("alpha must be in (0, 1)")
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
