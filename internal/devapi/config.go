package devapi

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config configures the development server
type Config struct {
	Port          int
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
	Seed          bool
}

// LoadConfig reads the server configuration from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          envInt("PORT", 3000),
		JWTSecret:     envStr("JWT_SECRET", "cm-admin-dev-secret"),
		TokenTTL:      envDuration("TOKEN_TTL", 8*time.Hour),
		AdminUsername: envStr("ADMIN_USERNAME", "admin"),
		AdminPassword: envStr("ADMIN_PASSWORD", "admin123"),
		Seed:          envBool("SEED", true),
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.AdminUsername == "" || c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must not be empty")
	}
	return nil
}

// withDefaults fills zero fields so tests can pass Config{}
func (c Config) withDefaults() Config {
	if c.JWTSecret == "" {
		c.JWTSecret = "cm-admin-dev-secret"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 8 * time.Hour
	}
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	if c.AdminPassword == "" {
		c.AdminPassword = "admin123"
	}
	return c
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
