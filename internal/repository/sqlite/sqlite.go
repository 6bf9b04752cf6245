// Package sqlite implements the repository interfaces on an embedded SQLite
// database.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so no
// CGo and no external database process. A single file (or ":memory:" in
// tests) holds every collection. All writes here are single-row statements;
// the only atomicity the services rely on is SQLite's per-statement
// atomicity, matching the per-document guarantee of a document store.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps the connection pool and implements every repository interface.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for a throwaway in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if dbPath == ":memory:" {
		// Each pooled connection would otherwise get its own empty
		// in-memory database.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — the server
	// handles each request on its own goroutine against this one pool.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent.
func (db *DB) migrate() error {
	// users.name is the business key — the UNIQUE constraint is what turns
	// a duplicate signup into a denial instead of a second account.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			email         TEXT NOT NULL DEFAULT '',
			img           TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL DEFAULT 'user'
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// Apps and versions are written by the publishing process; this server
	// only reads them. tags is a JSON array of strings.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS apps (
			id          TEXT PRIMARY KEY,
			app_id      TEXT NOT NULL UNIQUE,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			platform    TEXT NOT NULL DEFAULT '',
			tags        TEXT NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS app_versions (
			id        TEXT PRIMARY KEY,
			app_id    TEXT NOT NULL,
			version   TEXT NOT NULL,
			url       TEXT NOT NULL DEFAULT '',
			notes     TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_app_versions_app_id
			ON app_versions(app_id, timestamp DESC);
	`)
	if err != nil {
		return fmt.Errorf("creating catalog tables: %w", err)
	}

	// UNIQUE(user_name) is the review upsert key — one review per user,
	// regardless of app. See ReviewRepository.Upsert.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS reviews (
			id        TEXT PRIMARY KEY,
			user_name TEXT NOT NULL UNIQUE,
			app_id    TEXT NOT NULL,
			score     INTEGER NOT NULL,
			text      TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_reviews_app_id ON reviews(app_id);
	`)
	if err != nil {
		return fmt.Errorf("creating reviews table: %w", err)
	}

	// libraries records that a library exists (created empty at signup);
	// library_apps holds the entries. The split keeps "empty library"
	// distinct from "no such owner", and entries are a multiset — the same
	// app_id can appear twice.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS libraries (
			owner TEXT PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS library_apps (
			id     TEXT PRIMARY KEY,
			owner  TEXT NOT NULL REFERENCES libraries(owner),
			app_id TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_library_apps_owner ON library_apps(owner);
	`)
	if err != nil {
		return fmt.Errorf("creating library tables: %w", err)
	}

	return nil
}
