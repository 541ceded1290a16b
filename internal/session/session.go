// ABOUTME: Login session holding the current user's email.
// ABOUTME: Screens read the email from here instead of a process-wide global.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/fitlife/internal/models"
)

const (
	keyEmail     = "current_user_email"
	keySessionID = "current_session_id"
)

// ErrNoSession is returned when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// Session owns the current-user key of a Store.
type Session struct {
	store Store
}

// New wraps a store.
func New(store Store) *Session {
	return &Session{store: store}
}

// Login records email as the current user and starts a new session id.
func (s *Session) Login(email string) (string, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("login: email is required")
	}

	id := uuid.New().String()
	if err := s.store.Set(keySessionID, []byte(id)); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if err := s.store.Set(keyEmail, []byte(email)); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return id, nil
}

// Logout clears the current user. Logging out twice is not an error.
func (s *Session) Logout() error {
	for _, key := range []string{keyEmail, keySessionID} {
		if err := s.store.Delete(key); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
	}
	return nil
}

// CurrentEmail returns the logged-in email or ErrNoSession.
func (s *Session) CurrentEmail() (string, error) {
	return s.get(keyEmail)
}

// ID returns the current session id or ErrNoSession.
func (s *Session) ID() (string, error) {
	return s.get(keySessionID)
}

func (s *Session) get(key string) (string, error) {
	val, err := s.store.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	v := strings.TrimSpace(string(val))
	if v == "" {
		return "", ErrNoSession
	}
	return v, nil
}

// Close closes the underlying store.
func (s *Session) Close() error {
	return s.store.Close()
}
