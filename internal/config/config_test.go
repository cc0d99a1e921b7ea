package config

import (
	"os"
	"testing"
)

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	// Ensure envs are clean to use defaults
	os.Unsetenv("DB_PATH")
	os.Unsetenv("HTTP_ADDRESS")
	os.Unsetenv("JWT_SECRET")
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.HTTP.Address == "" || cfg.Database.Path == "" || cfg.Auth.JWTSecret == "" {
		t.Fatalf("unexpected empty defaults: %+v", cfg)
	}
	if cfg.Bootstrap.AdminUsername != "admin" {
		t.Fatalf("unexpected bootstrap admin: %q", cfg.Bootstrap.AdminUsername)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	// Clear JWT_SECRET ensures error
	os.Unsetenv("JWT_SECRET")
	// Other vars can be set or default
	t.Setenv("DB_PATH", "test.db")
	t.Setenv("HTTP_ADDRESS", ":1234")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is not set")
	}
	// When set, it should succeed
	t.Setenv("JWT_SECRET", "x")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with secret set: %v", err)
	}
}

func TestScoringWeights_Defaults(t *testing.T) {
	os.Unsetenv("SCORE_WEIGHT_COMPLETION")
	os.Unsetenv("SCORE_WEIGHT_ONTIME")
	os.Unsetenv("SCORE_WEIGHT_PROGRESS")
	os.Unsetenv("SCORE_WEIGHT_OVERDUE")
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.Scoring.CompletionWeight != 0.4 || cfg.Scoring.OnTimeWeight != 0.25 ||
		cfg.Scoring.ProgressWeight != 0.2 || cfg.Scoring.OverdueWeight != 0.15 {
		t.Fatalf("unexpected default weights: %+v", cfg.Scoring)
	}
}

func TestScoringWeights_Override(t *testing.T) {
	t.Setenv("SCORE_WEIGHT_COMPLETION", "0.5")
	t.Setenv("SCORE_WEIGHT_OVERDUE", "0.0")
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.Scoring.CompletionWeight != 0.5 || cfg.Scoring.OverdueWeight != 0 {
		t.Fatalf("weights not overridden: %+v", cfg.Scoring)
	}
	t.Setenv("SCORE_WEIGHT_ONTIME", "not-a-float")
	if _, err := LoadWithDefaults(); err == nil {
		t.Fatalf("expected error for malformed weight")
	}
}
