package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.CandidateSessionMaxAge != 30*24*time.Hour {
		t.Errorf("CandidateSessionMaxAge = %v, want 720h", cfg.CandidateSessionMaxAge)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		t.Error("expected default CORS origins")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CANDIDATE_SESSION_DAYS", "7")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SCORING_KEYWORDS", "kafka, terraform ,grpc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want 9090", cfg.ServerPort)
	}
	if cfg.CandidateSessionMaxAge != 7*24*time.Hour {
		t.Errorf("CandidateSessionMaxAge = %v, want 168h", cfg.CandidateSessionMaxAge)
	}
	if !cfg.SecureCookies {
		t.Error("expected secure cookies outside development")
	}
	want := []string{"kafka", "terraform", "grpc"}
	if len(cfg.ScoringKeywords) != len(want) {
		t.Fatalf("ScoringKeywords = %v, want %v", cfg.ScoringKeywords, want)
	}
	for i, kw := range want {
		if cfg.ScoringKeywords[i] != kw {
			t.Errorf("ScoringKeywords[%d] = %q, want %q", i, cfg.ScoringKeywords[i], kw)
		}
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid SERVER_PORT")
	}
}
