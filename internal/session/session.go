// Package session holds the signed-in user and bearer token, persisted in
// local storage so a session survives restarts.
package session

import (
	"encoding/json"
	"sync"

	"github.com/dbmrq/globe/internal/logging"
	"github.com/dbmrq/globe/internal/storage"
)

// Storage keys.
const (
	KeyToken = "authToken"
	KeyUser  = "user"
)

// User is the server-provided user record. Its shape is not fixed.
type User map[string]any

// Store is the authentication session.
// The zero value is not usable; create one with New.
type Store struct {
	storage storage.Storage
	log     *logging.Logger

	mu       sync.RWMutex
	user     User
	token    string
	restored bool
}

// New creates a Store backed by s. Call Restore before reading it.
func New(s storage.Storage) *Store {
	return &Store{
		storage: s,
		log:     logging.With("component", "session"),
	}
}

// Restore loads the persisted token and user. When both are present and the
// user record parses, the session becomes authenticated. A user record that
// does not parse clears both keys. Restore never fails; storage errors leave
// the session signed out. The store is marked restored in every case.
func (s *Store) Restore() {
	user, token := s.read()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.restored = true
}

func (s *Store) read() (User, string) {
	token, okToken, err := s.storage.Get(KeyToken)
	if err != nil {
		s.log.Debug("failed to read token", "error", err)
		return nil, ""
	}
	raw, okUser, err := s.storage.Get(KeyUser)
	if err != nil {
		s.log.Debug("failed to read user", "error", err)
		return nil, ""
	}
	if !okToken || !okUser {
		return nil, ""
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user == nil {
		s.log.Debug("discarding unreadable user record", "error", err)
		if err := s.storage.Remove(KeyToken, KeyUser); err != nil {
			s.log.Debug("failed to clear session", "error", err)
		}
		return nil, ""
	}
	return user, token
}

// Login persists the token, then the user, and activates the session.
func (s *Store) Login(user User, token string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.storage.Set(KeyToken, token); err != nil {
		return err
	}
	if err := s.storage.Set(KeyUser, string(data)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.restored = true
	return nil
}

// Logout clears the in-memory and persisted session.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.storage.Remove(KeyToken, KeyUser); err != nil {
		s.log.Warn("failed to clear persisted session", "error", err)
	}
}

// IsAuthenticated reports whether a token and a user are both present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// AuthHeaders returns the headers for authenticated requests, or an empty
// map when there is no token.
func (s *Store) AuthHeaders() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return map[string]string{}
	}
	return map[string]string{
		"Authorization": "Bearer " + s.token,
		"Content-Type":  "application/json",
	}
}

// User returns the current user, or nil.
func (s *Store) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token returns the current token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Restored reports whether Restore or Login has run.
func (s *Store) Restored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restored
}

// Email returns the user's email if it is a string.
func (s *Store) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	email, _ := s.user["email"].(string)
	return email
}
