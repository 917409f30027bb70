package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":9090")
	}
	if cfg.OracleMode != "auto" {
		t.Fatalf("OracleMode = %q, want %q", cfg.OracleMode, "auto")
	}
	if cfg.ConfidenceThreshold != 6 {
		t.Fatalf("ConfidenceThreshold = %d, want 6", cfg.ConfidenceThreshold)
	}
	if cfg.ClassifyAttemptLimit != 3 {
		t.Fatalf("ClassifyAttemptLimit = %d, want 3", cfg.ClassifyAttemptLimit)
	}
	if cfg.SessionInactivityTimeout != 30*time.Minute {
		t.Fatalf("SessionInactivityTimeout = %v, want 30m", cfg.SessionInactivityTimeout)
	}
	if cfg.TranslateURL != "" {
		t.Fatalf("TranslateURL = %q, want empty default", cfg.TranslateURL)
	}
}

func TestLoadUsesExplicitTranslateURL(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("TRANSLATE_URL", "http://localhost:5000/translate")
	t.Setenv("TRANSLATE_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TranslateURL != "http://localhost:5000/translate" {
		t.Fatalf("TranslateURL = %q, want explicit value", cfg.TranslateURL)
	}
	if cfg.TranslateTimeout != 2*time.Second {
		t.Fatalf("TranslateTimeout = %v, want 2s", cfg.TranslateTimeout)
	}
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("TRIAGE_CONFIDENCE_THRESHOLD", "11")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want threshold range error")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("ORACLE_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want duration parse error")
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_SESSION_INACTIVITY_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"ORACLE_MODE",
		"ORACLE_API_KEY",
		"ORACLE_MODEL",
		"ORACLE_BASE_URL",
		"ORACLE_TIMEOUT",
		"TRANSLATE_URL",
		"TRANSLATE_API_KEY",
		"TRANSLATE_TIMEOUT",
		"TRIAGE_CONFIDENCE_THRESHOLD",
		"TRIAGE_CLASSIFY_ATTEMPTS",
		"REPORT_DIR",
		"REPORT_FONT_PATH",
		"DATABASE_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
