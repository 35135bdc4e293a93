// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package auth holds the login session used to authorize backend calls.
// A session is a bearer token plus the user it was issued to; it replaces a
// bare "authenticated" flag with something that expires and can be revoked.
package auth

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/regdesk/internal/apperr"
)

// ErrNoSession is returned when no valid session exists.
var ErrNoSession = errors.New("not logged in")

const defaultTTL = 12 * time.Hour

// Session is an authenticated login.
type Session struct {
	User      string    `json:"user" yaml:"user"`
	Token     string    `json:"-" yaml:"-"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// Valid reports whether the session has a token and has not expired at now.
func (s Session) Valid(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// Store persists at most one session.
type Store interface {
	Save(ctx context.Context, s Session) error
	// Load returns ErrNoSession when nothing is stored.
	Load(ctx context.Context) (Session, error)
	Delete(ctx context.Context) error
}

// Manager is the auth context consulted by the gateway and the CLI.
type Manager struct {
	store Store
	ttl   time.Duration
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewManager returns a Manager backed by store. A ttl of zero uses 12h.
func NewManager(store Store, ttl time.Duration, log logrus.FieldLogger) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Manager{store: store, ttl: ttl, log: log, now: time.Now}
}

// Login stores a new session for user with token.
func (m *Manager) Login(ctx context.Context, user, token string) (Session, error) {
	var missing []string
	if strings.TrimSpace(user) == "" {
		missing = append(missing, "user")
	}
	if strings.TrimSpace(token) == "" {
		missing = append(missing, "token")
	}
	if len(missing) > 0 {
		return Session{}, apperr.Missing(missing...)
	}

	now := m.now()
	s := Session{
		User:      strings.TrimSpace(user),
		Token:     strings.TrimSpace(token),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, err
	}
	m.log.WithField("user", s.User).Info("logged in")
	return s, nil
}

// Logout removes the stored session. Logging out without a session is not
// an error.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx); err != nil {
		return err
	}
	m.log.Info("logged out")
	return nil
}

// Current returns the stored session if it is still valid. Expired sessions
// are deleted and reported as ErrNoSession.
func (m *Manager) Current(ctx context.Context) (Session, error) {
	s, err := m.store.Load(ctx)
	if err != nil {
		return Session{}, err
	}
	if !s.Valid(m.now()) {
		m.log.WithField("user", s.User).Info("session expired")
		if err := m.store.Delete(ctx); err != nil {
			return Session{}, err
		}
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Token returns the bearer token of the current session, or "" when there
// is none. It satisfies the gateway's token source.
func (m *Manager) Token(ctx context.Context) (string, error) {
	s, err := m.Current(ctx)
	if errors.Is(err, ErrNoSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

// MemoryStore keeps the session in memory.
type MemoryStore struct {
	mu sync.Mutex
	s  *Session
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = &s
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return Session{}, ErrNoSession
	}
	return *m.s, nil
}

func (m *MemoryStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}
