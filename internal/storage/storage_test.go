package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := OpenFile(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("failed to open file store: %v", err)
	}
	sqlite, err := OpenSQLite(filepath.Join(dir, "session.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": sqlite,
	}
}

func TestStoreContract(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get("authToken"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get on empty store: err = %v, want ErrNotFound", err)
			}

			if err := s.Set("authToken", "abc"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set("authToken", "def"); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, err := s.Get("authToken")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != "def" {
				t.Errorf("Get = %q, want %q", got, "def")
			}

			if err := s.Delete("authToken"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get("authToken"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
			}

			// deleting a missing key is not an error
			if err := s.Delete("missing"); err != nil {
				t.Errorf("Delete missing: %v", err)
			}
		})
	}
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	first, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := first.Set("user", `{"username":"admin"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	second, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := second.Get("user")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `{"username":"admin"}` {
		t.Errorf("Get = %q", got)
	}
}

func TestFileRejectsCorruptContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := first.Set("authToken", "tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	first.Close()

	second, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	got, err := second.Get("authToken")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "tok" {
		t.Errorf("Get = %q, want tok", got)
	}
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		backend Backend
		path    string
		wantErr bool
	}{
		{name: "default is file", backend: "", path: filepath.Join(dir, "a.json")},
		{name: "file", backend: BackendFile, path: filepath.Join(dir, "b.json")},
		{name: "sqlite", backend: BackendSQLite, path: filepath.Join(dir, "c.db")},
		{name: "memory ignores path", backend: BackendMemory},
		{name: "unknown", backend: "redis", wantErr: true},
		{name: "file without path", backend: BackendFile, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.backend, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
