package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the symptom checker service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	MetricsNamespace         string

	AllowAnyOrigin bool

	OracleMode    string
	OracleAPIKey  string
	OracleModel   string
	OracleBaseURL string
	OracleTimeout time.Duration

	TranslateURL     string
	TranslateAPIKey  string
	TranslateTimeout time.Duration

	ConfidenceThreshold  int
	ClassifyAttemptLimit int

	ReportDir      string
	ReportFontPath string

	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "medmind"),
		AllowAnyOrigin:   false,
		OracleMode:       envOrDefault("ORACLE_MODE", "auto"),
		OracleAPIKey:     stringsTrimSpace("ORACLE_API_KEY"),
		OracleModel:      stringsTrimSpace("ORACLE_MODEL"),
		OracleBaseURL:    stringsTrimSpace("ORACLE_BASE_URL"),
		TranslateURL:     stringsTrimSpace("TRANSLATE_URL"),
		TranslateAPIKey:  stringsTrimSpace("TRANSLATE_API_KEY"),
		ReportDir:        stringsTrimSpace("REPORT_DIR"),
		ReportFontPath:   stringsTrimSpace("REPORT_FONT_PATH"),
		DatabaseURL:      stringsTrimSpace("DATABASE_URL"),

		ConfidenceThreshold:  6,
		ClassifyAttemptLimit: 3,

		ShutdownTimeout:          15 * time.Second,
		SessionInactivityTimeout: 30 * time.Minute,
		OracleTimeout:            30 * time.Second,
		TranslateTimeout:         10 * time.Second,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.OracleTimeout, err = durationFromEnv("ORACLE_TIMEOUT", cfg.OracleTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.TranslateTimeout, err = durationFromEnv("TRANSLATE_TIMEOUT", cfg.TranslateTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ConfidenceThreshold, err = intFromEnv("TRIAGE_CONFIDENCE_THRESHOLD", cfg.ConfidenceThreshold)
	if err != nil {
		return Config{}, err
	}
	cfg.ClassifyAttemptLimit, err = intFromEnv("TRIAGE_CLASSIFY_ATTEMPTS", cfg.ClassifyAttemptLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.ConfidenceThreshold < 1 || cfg.ConfidenceThreshold > 10 {
		return Config{}, fmt.Errorf("TRIAGE_CONFIDENCE_THRESHOLD must be in 1..10")
	}
	if cfg.ClassifyAttemptLimit <= 0 {
		return Config{}, fmt.Errorf("TRIAGE_CLASSIFY_ATTEMPTS must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return trimSpace(os.Getenv(key))
}

func trimSpace(v string) string {
	for len(v) > 0 && (v[0] == ' ' || v[0] == '\n' || v[0] == '\t' || v[0] == '\r') {
		v = v[1:]
	}
	for len(v) > 0 {
		c := v[len(v)-1]
		if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			v = v[:len(v)-1]
			continue
		}
		break
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
