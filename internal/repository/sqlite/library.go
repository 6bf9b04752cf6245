package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"

	"github.com/OSMA-D/osma-server/internal/apperror"
	"github.com/OSMA-D/osma-server/internal/repository"
)

var _ repository.LibraryRepository = (*DB)(nil)

// CreateFor creates the empty personal library a user receives at signup.
func (db *DB) CreateFor(ctx context.Context, owner string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO libraries (owner) VALUES (?)`, owner,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating library for %q: %w", owner, apperror.Infra(err))
	}
	return nil
}

// Add appends an app id to the owner's library. No deduplication: adding the
// same app twice stores two entries (the collection is a multiset).
func (db *DB) Add(ctx context.Context, owner, appID string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO library_apps (id, owner, app_id) VALUES (?, ?, ?)`,
		xid.New().String(), owner, appID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding %q to library of %q: %w", appID, owner, apperror.Infra(err))
	}
	return nil
}

// Remove deletes EVERY occurrence of appID from the owner's library — the
// multiset counterpart of a pull, not a single-entry delete. Removing an
// app that isn't in the library is a no-op, not an error.
func (db *DB) Remove(ctx context.Context, owner, appID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM library_apps WHERE owner = ? AND app_id = ?`,
		owner, appID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing %q from library of %q: %w", appID, owner, apperror.Infra(err))
	}
	return nil
}

// List returns the owner's app ids. An owner with a library and no entries
// gets an empty slice; an owner with no library row at all gets
// apperror.ErrNotFound — the two cases are distinct on purpose.
func (db *DB) List(ctx context.Context, owner string) ([]string, error) {
	var exists int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM libraries WHERE owner = ?`, owner,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user", owner)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking library of %q: %w", owner, apperror.Infra(err))
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT app_id FROM library_apps WHERE owner = ?`, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing library of %q: %w", owner, apperror.Infra(err))
	}
	defer rows.Close()

	apps := []string{}
	for rows.Next() {
		var appID string
		if err := rows.Scan(&appID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning library entry: %w", apperror.Infra(err))
		}
		apps = append(apps, appID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating library of %q: %w", owner, apperror.Infra(err))
	}

	return apps, nil
}
