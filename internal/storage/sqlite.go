package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	gerrors "github.com/dbmrq/globe/internal/errors"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteStorage keeps keys in a SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStorage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, gerrors.StorageFailure(path, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, gerrors.StorageFailure(path, err)
	}
	// One connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, gerrors.StorageFailure(path, err)
	}
	return &SQLiteStorage{db: db, path: path}, nil
}

// Get returns the value stored under key.
func (s *SQLiteStorage) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, gerrors.StorageFailure(s.path, err)
	}
	return value, true, nil
}

// Set stores value under key.
func (s *SQLiteStorage) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return gerrors.StorageFailure(s.path, err)
	}
	return nil
}

// Remove deletes keys. Missing keys are ignored.
func (s *SQLiteStorage) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return gerrors.StorageFailure(s.path, err)
	}
	for _, k := range keys {
		if _, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, k); err != nil {
			_ = tx.Rollback()
			return gerrors.StorageFailure(s.path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return gerrors.StorageFailure(s.path, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
