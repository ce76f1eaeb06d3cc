package session

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dbmrq/globe/internal/storage"
)

// watchDebounce batches the create/write/rename burst of one save.
const watchDebounce = 150 * time.Millisecond

// Watch re-restores the session whenever the backing storage file changes,
// for example when another globe process signs in or out, and then calls
// onChange. It blocks until ctx is done. Backends without a file return nil
// immediately.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	p, ok := s.storage.(storage.Pather)
	if !ok || p.Path() == "" {
		return nil
	}
	path := filepath.Clean(p.Path())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// The file is replaced by rename on every save, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	s.log.Debug("watching session storage", "path", path)

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("session watcher error", "error", err)

		case <-timer.C:
			s.Restore()
			if onChange != nil {
				onChange()
			}
		}
	}
}
