package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func GetEnvTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvTrimmedOrDefault(key, defaultValue string) string {
	v := strings.TrimSpace(os.Getenv(key))

	if v == "" {
		return defaultValue
	}

	return v
}

// GetEnvPositiveIntOrDefault ignores values that do not parse or are not > 0.
func GetEnvPositiveIntOrDefault(key string, defaultValue int) int {
	v := GetEnvTrimmed(key)
	if v == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return defaultValue
	}

	return parsed
}

// GetEnvDurationOrDefault ignores values that do not parse or are not > 0.
func GetEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	v := GetEnvTrimmed(key)
	if v == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(v)
	if err != nil || parsed <= 0 {
		return defaultValue
	}

	return parsed
}

// GetEnvBoolOrDefault falls back to defaultValue when the variable is unset or not a valid bool.
func GetEnvBoolOrDefault(key string, defaultValue bool) bool {
	v := GetEnvTrimmed(key)
	if v == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}

	return parsed
}
