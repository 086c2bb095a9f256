package main

import (
	"os"
	"strings"

	"go.uber.org/zap/zapcore"

	"cnunits/logging"
)

// Config holds the environment-driven settings of the validator CLI.
type Config struct {
	LogLevel     zapcore.Level
	LogFile      string
	RegistryFile string
	DevMode      bool
}

// LoadConfig reads configuration from the environment. Every setting has a
// working default; a .env file, when present, is loaded by main before this
// runs.
func LoadConfig() Config {
	return Config{
		LogLevel:     logging.ParseLogLevel("CNUNITS_LOG_LEVEL", logging.InfoLevel),
		LogFile:      GetEnvOrDefault("CNUNITS_LOG_FILE", ""),
		RegistryFile: GetEnvOrDefault("CNUNITS_REGISTRY_FILE", ""),
		DevMode:      ParseBoolEnv("CNUNITS_DEV_MODE", false),
	}
}

// GetEnvOrDefault returns the value of an environment variable or a default
// value. This is a pure function with no side effects beyond reading env vars.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseBoolEnv parses an environment variable as a boolean.
// Accepts case-insensitive: "true", "1", "yes", "on" as true values.
// Accepts case-insensitive: "false", "0", "no", "off" as false values.
// Returns the default value if the variable is not set or cannot be parsed.
func ParseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}
