package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	dirName  = ".cmadmin"
	fileName = "config.yaml"
)

// Config represents the client's configuration
type Config struct {
	APIURL      string        `yaml:"api_url"`
	Timeout     time.Duration `yaml:"timeout"`
	Storage     string        `yaml:"storage"`      // file | sqlite | memory
	StoragePath string        `yaml:"storage_path"` // defaults under ~/.cmadmin
	LogLevel    string        `yaml:"log_level"`
	LogFile     string        `yaml:"log_file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		APIURL:   "http://localhost:3000",
		Timeout:  30 * time.Second,
		Storage:  "file",
		LogLevel: "info",
	}
}

// globalConfigDir returns the global config directory path (~/.cmadmin)
func globalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

// projectConfigPath returns the project-level config path (.cmadmin/config.yaml in cwd)
func projectConfigPath() string {
	return filepath.Join(dirName, fileName)
}

// Load reads the config from disk, checking project config first, then global,
// then applies environment overrides
func Load() (*Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	if err := cfg.fillPaths(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadFile() (*Config, error) {
	if cfg, err := readFile(projectConfigPath()); err == nil {
		return cfg, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	dir, err := globalConfigDir()
	if err != nil {
		return DefaultConfig(), nil
	}
	cfg, err := readFile(filepath.Join(dir, fileName))
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// readFile decodes a YAML file on top of the defaults, so missing keys keep
// their default values
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.APIURL = envStr("CM_API_URL", cfg.APIURL)
	cfg.Storage = envStr("CM_STORAGE", cfg.Storage)
	cfg.StoragePath = envStr("CM_STORAGE_PATH", cfg.StoragePath)
	cfg.Timeout = envDuration("CM_TIMEOUT", cfg.Timeout)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = envStr("CM_LOG_FILE", cfg.LogFile)
}

func (c *Config) fillPaths() error {
	if c.StoragePath != "" && c.LogFile != "" {
		return nil
	}
	dir, err := globalConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if c.StoragePath == "" {
		switch c.Storage {
		case "sqlite":
			c.StoragePath = filepath.Join(dir, "session.db")
		default:
			c.StoragePath = filepath.Join(dir, "session.json")
		}
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(dir, "cm-admin.log")
	}
	return nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CM_API_URL must be an absolute URL, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("CM_TIMEOUT must be positive, got %s", c.Timeout)
	}
	switch c.Storage {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("CM_STORAGE must be file, sqlite or memory, got %q", c.Storage)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// Save writes the config to the global location (~/.cmadmin/config.yaml)
func Save(cfg *Config) error {
	dir, err := globalConfigDir()
	if err != nil {
		return err
	}
	return SaveTo(cfg, filepath.Join(dir, fileName))
}

// SaveTo writes the config as YAML to path
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envDuration accepts Go durations ("15s") or a bare number of seconds
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
