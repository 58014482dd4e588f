// Package sessionstore persists the client's session state (bearer token and
// the email it was issued for) in a small local SQLite database so that a
// session survives restarts.
package sessionstore

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

// Repository is a key/value store for session metadata.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SaveSession stores the token and email in a single transaction so a
	// crash cannot leave a token without the email it belongs to.
	SaveSession(ctx context.Context, token, email string) error
	Clear(ctx context.Context) error
}

// Well-known keys.
const (
	KeyToken = "token"
	KeyEmail = "email"
)

// InitDatabase opens (or creates) the session database at dsn and ensures
// the schema exists.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
