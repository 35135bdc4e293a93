// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps the session in a single-row SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates the session database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS session (
		slot INTEGER PRIMARY KEY CHECK (slot = 1),
		user TEXT NOT NULL,
		token TEXT NOT NULL,
		created_at TEXT NOT NULL,
		expires_at TEXT
	)`)
	return err
}

// Save replaces the stored session.
func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	var expires sql.NullString
	if !sess.ExpiresAt.IsZero() {
		expires = sql.NullString{String: sess.ExpiresAt.UTC().Format(time.RFC3339Nano), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (slot, user, token, created_at, expires_at) VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET user=excluded.user, token=excluded.token,
		   created_at=excluded.created_at, expires_at=excluded.expires_at`,
		sess.User, sess.Token, sess.CreatedAt.UTC().Format(time.RFC3339Nano), expires,
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the stored session or ErrNoSession.
func (s *SQLiteStore) Load(ctx context.Context) (Session, error) {
	var (
		sess    Session
		created string
		expires sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user, token, created_at, expires_at FROM session WHERE slot = 1`,
	).Scan(&sess.User, &sess.Token, &created, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("loading session: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		sess.CreatedAt = t
	}
	if expires.Valid {
		if t, err := time.Parse(time.RFC3339Nano, expires.String); err == nil {
			sess.ExpiresAt = t
		}
	}
	return sess, nil
}

// Delete removes the stored session.
func (s *SQLiteStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
