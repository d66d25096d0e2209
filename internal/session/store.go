// Package session persists the operator's API credentials and UI state
// between runs, standing in for the browser's local storage.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store holds the access and refresh tokens plus the last-selected tab,
// mirrored to a JSON file on every mutation. Repository code reads tokens
// through TokenSource; only the login and logout flows mutate the store.
type Store struct {
	mu   sync.RWMutex
	path string
	data persisted
}

type persisted struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	LastTab      string `json:"lastTab,omitempty"`
}

// TokenSource is the read-only view the API client gets of the store.
type TokenSource interface {
	AccessToken() string
}

// Open loads the session file at path, creating parent directories as
// needed. A missing file is an empty (logged-out) session, not an error.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", path, err)
	}
	return s, nil
}

// SetTokens stores a fresh token pair after a successful login.
func (s *Store) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.AccessToken = access
	s.data.RefreshToken = refresh
	return s.flush()
}

// Clear wipes the whole session on logout, tab selection included.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = persisted{}
	return s.flush()
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.AccessToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.RefreshToken
}

// Authenticated reports whether an access token is present. It says nothing
// about whether the API will still accept it.
func (s *Store) Authenticated() bool {
	return s.AccessToken() != ""
}

func (s *Store) SetLastTab(tab string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.LastTab = tab
	return s.flush()
}

func (s *Store) LastTab() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.LastTab
}

// ExpiresAt returns the access token's exp claim, read without signature
// verification: the API is the verifier, this is display only. Returns the
// zero time when there is no token or no parseable exp claim.
func (s *Store) ExpiresAt() time.Time {
	token := s.AccessToken()
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func (s *Store) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	// 0600: the file holds bearer credentials.
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
