package main

import (
	"database/sql"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/fmpulse/fmpulse/internal/errors"

	_ "github.com/mattn/go-sqlite3" // Enable sqlite3 driver
)

// lastCodeSessionKey remembers the last successfully opened access code so
// that a bare /report re-opens the report.
const lastCodeSessionKey = "lastCode"

const sessionsSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

func openSessionManager(url string) (*scs.SessionManager, error) {
	db, err := sql.Open("sqlite3", url)
	if err != nil {
		return nil, errors.Wrap(err, "open session database")
	}
	// A single connection keeps in-memory databases from fragmenting into
	// per-connection instances.
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(sessionsSchema); err != nil {
		return nil, errors.Wrap(err, "initialize session schema")
	}

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour
	return sessionManager, nil
}
