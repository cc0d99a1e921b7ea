package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig
	HTTP      HTTPConfig
	Auth      AuthConfig
	Bootstrap BootstrapConfig
	Scoring   ScoringConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Address string // HTTP listen address (e.g., ":8080")
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret string // JWT signing secret
}

// BootstrapConfig controls the admin account seeded on first run.
type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
}

// ScoringConfig carries the efficiency score weights. The weighting is a
// policy value, not a fixed law; operators may tune it per deployment.
type ScoringConfig struct {
	CompletionWeight float64
	OnTimeWeight     float64
	ProgressWeight   float64
	OverdueWeight    float64
}

// Load loads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg, err := loadCommon()
	if err != nil {
		return nil, err
	}
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "")

	// Validate critical settings
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	cfg, err := loadCommon()
	if err != nil {
		return nil, err
	}
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "dev-secret-change-me")
	return cfg, nil
}

func loadCommon() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "planner.db"),
		},
		HTTP: HTTPConfig{
			Address: getEnv("HTTP_ADDRESS", ":8080"),
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: getEnv("BOOTSTRAP_ADMIN_USER", "admin"),
			AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", "admin123"),
		},
	}
	var err error
	if cfg.Scoring.CompletionWeight, err = getEnvFloat("SCORE_WEIGHT_COMPLETION", 0.4); err != nil {
		return nil, err
	}
	if cfg.Scoring.OnTimeWeight, err = getEnvFloat("SCORE_WEIGHT_ONTIME", 0.25); err != nil {
		return nil, err
	}
	if cfg.Scoring.ProgressWeight, err = getEnvFloat("SCORE_WEIGHT_PROGRESS", 0.2); err != nil {
		return nil, err
	}
	if cfg.Scoring.OverdueWeight, err = getEnvFloat("SCORE_WEIGHT_OVERDUE", 0.15); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvFloat retrieves an environment variable as a float with a default fallback.
func getEnvFloat(key string, defaultVal float64) (float64, error) {
	if value, exists := os.LookupEnv(key); exists {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid float for %s: %w", key, err)
		}
		return f, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, Auth: *** (masked) ***, Admin: %s}",
		c.Database.Path, c.HTTP.Address, c.Bootstrap.AdminUsername)
}
