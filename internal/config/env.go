package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by [ApplyEnv].
const (
	EnvConfig     = "KANASHELF_CONFIG"
	EnvExtensions = "KANASHELF_EXTENSIONS" // Comma-separated, e.g. ".zip,.cbz".
	EnvColor      = "KANASHELF_COLOR"
	EnvLogFile    = "KANASHELF_LOG_FILE"
	EnvVerbose    = "KANASHELF_VERBOSE"
)

// LoadDotEnv loads ./.env into the process environment. Variables already
// set win over the file, and a missing file is not an error.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides cfg with any KANASHELF_* variables that are set.
func ApplyEnv(cfg *Config) {
	cfg.ConfigFile = getEnv(EnvConfig, cfg.ConfigFile)
	if v := getEnv(EnvExtensions, ""); v != "" {
		cfg.Extensions = NormalizeExtensions(strings.Split(v, ","))
	}
	if v := getEnv(EnvColor, ""); v != "" {
		cfg.ColorMode = ColorMode(strings.ToLower(strings.TrimSpace(v)))
	}
	cfg.LogFile = getEnv(EnvLogFile, cfg.LogFile)
	cfg.Verbose = getEnvBool(EnvVerbose, cfg.Verbose)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
