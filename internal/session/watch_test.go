package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/dbmrq/globe/internal/storage"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}

func TestWatch_NoFileBackendReturnsImmediately(t *testing.T) {
	s := New(storage.NewMemory())
	if err := s.Watch(context.Background(), nil); err != nil {
		t.Errorf("Watch() on memory storage = %v, want nil", err)
	}
}

func TestWatch_SQLiteBackendReturnsImmediately(t *testing.T) {
	for _, path := range []string{":memory:", filepath.Join(t.TempDir(), "storage.db")} {
		db, err := storage.OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite(%q) error = %v", path, err)
		}
		s := New(db)

		done := make(chan error, 1)
		go func() { done <- s.Watch(context.Background(), nil) }()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Watch() on sqlite storage %q = %v, want nil", path, err)
			}
		case <-time.After(time.Second):
			t.Fatalf("Watch() on sqlite storage %q did not return", path)
		}
		db.Close()
	}
}

func TestWatch_SeesOtherProcessSignIn(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "storage.json")
	ours := New(storage.NewFileStorage(path))
	ours.Restore()

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- ours.Watch(ctx, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	theirs := New(storage.NewFileStorage(path))
	if err := theirs.Login(User{"email": "other@example.com"}, "t"); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("onChange was not called")
	}

	if !ours.IsAuthenticated() {
		t.Error("watching store should pick up the new session")
	}
	if ours.Email() != "other@example.com" {
		t.Errorf("Email() = %q", ours.Email())
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() returned %v", err)
	}
}
