package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Getenv returns the environment variable named by key, or fallback when it is unset or empty.
func Getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// GetenvInt reads an integer environment variable.
// A missing or unparseable value yields the fallback.
func GetenvInt(key string, fallback int) int {
	raw := strings.TrimSpace(Getenv(key, ""))
	if raw == "" {
		return fallback
	}
	num, err := strconv.Atoi(raw)
	if err != nil {
		LogWarn(err, "ignoring non-integer environment value", map[string]interface{}{"key": key, "value": raw})
		return fallback
	}
	return num
}

// GetenvBool reads a boolean environment variable ("true", "1", "false", "0", ...).
func GetenvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(Getenv(key, ""))
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		LogWarn(err, "ignoring non-boolean environment value", map[string]interface{}{"key": key, "value": raw})
		return fallback
	}
	return b
}

// GetenvMillis reads a duration expressed in milliseconds.
func GetenvMillis(key string, fallback time.Duration) time.Duration {
	ms := GetenvInt(key, -1)
	if ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
