package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	gerrors "github.com/dbmrq/globe/internal/errors"
)

// DefaultFilename is the default file name for file storage.
const DefaultFilename = "storage.json"

// fileData is the on-disk layout of FileStorage.
type fileData struct {
	UpdatedAt time.Time         `json:"updated_at"`
	Values    map[string]string `json:"values"`
}

// FileStorage keeps every key in one JSON file.
// The file is re-read on each access so that writes from another globe
// process are seen.
type FileStorage struct {
	path string
	mu   sync.RWMutex
}

// NewFileStorage creates a FileStorage for path. The file is created lazily
// on the first Set.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the file path of the store.
func (s *FileStorage) Path() string {
	return s.path
}

// load reads the file. A missing file is an empty store.
func (s *FileStorage) load() (*fileData, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileData{Values: map[string]string{}}, nil
		}
		return nil, gerrors.StorageFailure(s.path, err)
	}
	if len(data) == 0 {
		return &fileData{Values: map[string]string{}}, nil
	}

	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, gerrors.StorageFailure(s.path, err)
	}
	if fd.Values == nil {
		fd.Values = map[string]string{}
	}
	return &fd, nil
}

// save writes fd through a temp file and rename.
func (s *FileStorage) save(fd *fileData) error {
	fd.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(fd, "", "  ")
	if err != nil {
		return gerrors.StorageFailure(s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return gerrors.StorageFailure(s.path, err)
	}

	tmp, err := os.CreateTemp(dir, ".storage-*.tmp")
	if err != nil {
		return gerrors.StorageFailure(s.path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return gerrors.StorageFailure(s.path, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return gerrors.StorageFailure(s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return gerrors.StorageFailure(s.path, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return gerrors.StorageFailure(s.path, err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *FileStorage) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fd, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := fd.Values[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fd, err := s.load()
	if err != nil {
		return err
	}
	fd.Values[key] = value
	return s.save(fd)
}

// Remove deletes keys. Missing keys are ignored.
func (s *FileStorage) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fd, err := s.load()
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := fd.Values[k]; ok {
			delete(fd.Values, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(fd)
}

// Close is a no-op; FileStorage holds no open handles.
func (s *FileStorage) Close() error {
	return nil
}
