package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// Session is the stored platform identity of the signed-in user.
type Session struct {
	Username      string `yaml:"username"`
	SessionSecret string `yaml:"session_secret"`
}

// SessionStore persists the Session with user-only permissions.
type SessionStore struct {
	path string
	mu   sync.Mutex
}

// NewSessionStore returns a store backed by the file at path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionStore returns the store at the OS-specific session path.
func DefaultSessionStore() (*SessionStore, error) {
	path, err := GetSessionPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get session path: %w", err)
	}
	return NewSessionStore(path), nil
}

// Load returns the stored session, or nil when signed out.
func (s *SessionStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var session Session
	found, err := readYAML(s.path, &session)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !found || session.SessionSecret == "" {
		return nil, nil
	}
	return &session, nil
}

// Save stores the session.
func (s *SessionStore) Save(session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := marshalYAML(session)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
