package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at fresh temp dirs and
// clears every override variable
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"CM_API_URL", "CM_STORAGE", "CM_STORAGE_PATH", "CM_TIMEOUT", "LOG_LEVEL", "CM_LOG_FILE"} {
		t.Setenv(key, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(project); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home, project
}

func writeYAML(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://localhost:3000" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if want := filepath.Join(home, ".cmadmin", "session.json"); cfg.StoragePath != want {
		t.Errorf("StoragePath = %q, want %q", cfg.StoragePath, want)
	}
	if want := filepath.Join(home, ".cmadmin", "cm-admin.log"); cfg.LogFile != want {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, want)
	}
}

func TestLoadProjectBeforeGlobal(t *testing.T) {
	home, project := isolate(t)
	writeYAML(t, filepath.Join(home, ".cmadmin", "config.yaml"), "api_url: http://global:1\n")
	writeYAML(t, filepath.Join(project, ".cmadmin", "config.yaml"), "api_url: http://project:2\ntimeout: 5s\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://project:2" {
		t.Errorf("APIURL = %q, want project value", cfg.APIURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	// keys absent from the file keep their defaults
	if cfg.Storage != "file" {
		t.Errorf("Storage = %q, want file", cfg.Storage)
	}
}

func TestLoadGlobalFallback(t *testing.T) {
	home, _ := isolate(t)
	writeYAML(t, filepath.Join(home, ".cmadmin", "config.yaml"), "api_url: http://global:1\nstorage: sqlite\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://global:1" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if !strings.HasSuffix(cfg.StoragePath, "session.db") {
		t.Errorf("StoragePath = %q, want sqlite default", cfg.StoragePath)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CM_API_URL", "https://api.example.com")
	t.Setenv("CM_TIMEOUT", "12")
	t.Setenv("CM_STORAGE", "memory")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Timeout != 12*time.Second {
		t.Errorf("Timeout = %v, want 12s", cfg.Timeout)
	}
	if cfg.Storage != "memory" || cfg.LogLevel != "debug" {
		t.Errorf("Storage/LogLevel = %q/%q", cfg.Storage, cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "relative url", mutate: func(c *Config) { c.APIURL = "localhost:3000" }, wantErr: "CM_API_URL"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: "CM_TIMEOUT"},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage = "redis" }, wantErr: "CM_STORAGE"},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.APIURL = "http://saved:9"
	cfg.Timeout = 45 * time.Second

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := readFile(path)
	if err != nil {
		t.Fatalf("readFile: %v", err)
	}
	if got.APIURL != cfg.APIURL || got.Timeout != cfg.Timeout {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}
