package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dbmrq/globe/internal/config"
	gerrors "github.com/dbmrq/globe/internal/errors"
)

func backends(t *testing.T) map[string]func() Storage {
	t.Helper()
	dir := t.TempDir()
	return map[string]func() Storage{
		"file": func() Storage { return NewFileStorage(filepath.Join(dir, "storage.json")) },
		"sqlite": func() Storage {
			s, err := OpenSQLite(filepath.Join(dir, "storage.db"))
			if err != nil {
				t.Fatalf("OpenSQLite() error = %v", err)
			}
			return s
		},
		"memory": func() Storage { return NewMemory() },
	}
}

func TestStorage_SetGetRemove(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			defer s.Close()

			if _, ok, err := s.Get("authToken"); err != nil || ok {
				t.Fatalf("Get() on empty store = ok %v, err %v", ok, err)
			}

			if err := s.Set("authToken", "abc"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := s.Set("user", `{"email":"a@b.c"}`); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := s.Set("authToken", "def"); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}

			v, ok, err := s.Get("authToken")
			if err != nil || !ok || v != "def" {
				t.Errorf("Get(authToken) = %q, %v, %v; want def", v, ok, err)
			}

			if err := s.Remove("authToken", "user", "missing"); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if _, ok, _ := s.Get("authToken"); ok {
				t.Error("authToken should be removed")
			}
			if _, ok, _ := s.Get("user"); ok {
				t.Error("user should be removed")
			}
		})
	}
}

func TestStorage_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(dir, "s.json")
		if err := NewFileStorage(path).Set("theme", "light"); err != nil {
			t.Fatal(err)
		}
		v, ok, err := NewFileStorage(path).Get("theme")
		if err != nil || !ok || v != "light" {
			t.Errorf("after reopen Get(theme) = %q, %v, %v", v, ok, err)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(dir, "s.db")
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Set("theme", "light"); err != nil {
			t.Fatal(err)
		}
		s.Close()

		s, err = OpenSQLite(path)
		if err != nil {
			t.Fatal(err)
		}
		defer s.Close()
		v, ok, err := s.Get("theme")
		if err != nil || !ok || v != "light" {
			t.Errorf("after reopen Get(theme) = %q, %v, %v", v, ok, err)
		}
	})
}

func TestFileStorage_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	s := NewFileStorage(path)
	if err := s.Set("authToken", "secret"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
}

func TestPather_OnlyFileBackend(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	backends := []struct {
		name   string
		s      Storage
		pather bool
	}{
		{"file", NewFileStorage(filepath.Join(t.TempDir(), "storage.json")), true},
		{"sqlite", db, false},
		{"memory", NewMemory(), false},
	}
	for _, b := range backends {
		if _, ok := b.s.(Pather); ok != b.pather {
			t.Errorf("%s implements Pather = %v, want %v", b.name, ok, b.pather)
		}
	}
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	_, _, err := NewFileStorage(path).Get("authToken")
	if err == nil {
		t.Fatal("expected error for corrupt file")
	}
	if !errors.Is(err, gerrors.ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}

func TestFileStorage_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := NewFileStorage(path).Get("x"); err != nil || ok {
		t.Errorf("empty file should read as empty store, got ok=%v err=%v", ok, err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		want    string
		wantErr bool
	}{
		{"file", config.StorageConfig{Backend: config.StorageFile, Path: filepath.Join(dir, "a.json")}, "*storage.FileStorage", false},
		{"default", config.StorageConfig{Path: filepath.Join(dir, "b.json")}, "*storage.FileStorage", false},
		{"sqlite", config.StorageConfig{Backend: config.StorageSQLite, Path: filepath.Join(dir, "c.db")}, "*storage.SQLiteStorage", false},
		{"memory", config.StorageConfig{Backend: config.StorageMemory}, "*storage.Memory", false},
		{"unknown", config.StorageConfig{Backend: "redis"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer s.Close()
			var got string
			switch s.(type) {
			case *FileStorage:
				got = "*storage.FileStorage"
			case *SQLiteStorage:
				got = "*storage.SQLiteStorage"
			case *Memory:
				got = "*storage.Memory"
			}
			if got != tt.want {
				t.Errorf("Open() type = %s, want %s", got, tt.want)
			}
		})
	}
}
