// Package tokens implements SQLite persistence for the Spotify credential.
//
// The store holds exactly one row: the latest access/refresh token pair and
// its expiry. It exists so the gateway can restart without forcing an
// immediate refresh exchange, and so refresh-token rotation survives the
// process. Implements [spotify.TokenStore].
package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

const schema = `
CREATE TABLE IF NOT EXISTS credential (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	access_token TEXT NOT NULL DEFAULT '',
	refresh_token TEXT NOT NULL DEFAULT '',
	expiry INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL
);`

// Store persists the single process credential in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over an open database handle and ensures the
// credential table exists.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize credential table: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the stored credential, or (nil, nil) when none has been saved.
func (s *Store) Load(ctx context.Context) (*oauth2.Token, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token, expiry FROM credential WHERE id = 1`)

	var access, refresh string
	var expiry int64
	if err := row.Scan(&access, &refresh, &expiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
	}
	if expiry > 0 {
		token.Expiry = time.Unix(expiry, 0)
	}

	return token, nil
}

// Save upserts the credential row.
func (s *Store) Save(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("nil token")
	}

	var expiry int64
	if !token.Expiry.IsZero() {
		expiry = token.Expiry.Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credential (id, access_token, refresh_token, expiry, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at`,
		token.AccessToken, token.RefreshToken, expiry, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	return nil
}
