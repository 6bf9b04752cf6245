package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/OSMA-D/osma-server/internal/apperror"
	"github.com/OSMA-D/osma-server/internal/model"
	"github.com/OSMA-D/osma-server/internal/repository"
)

var _ repository.CatalogRepository = (*DB)(nil)

// ListApps returns every app in the catalog.
func (db *DB) ListApps(ctx context.Context) ([]model.App, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, app_id, name, description, platform, tags FROM apps`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing apps: %w", apperror.Infra(err))
	}
	defer rows.Close()

	return scanApps(rows)
}

// GetApp retrieves a single app by its app_id.
// Returns apperror.ErrNotFound if the app doesn't exist.
func (db *DB) GetApp(ctx context.Context, appID string) (*model.App, error) {
	var a model.App
	var tagsJSON string

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, app_id, name, description, platform, tags
		 FROM apps WHERE app_id = ?`,
		appID,
	).Scan(&a.ID, &a.AppID, &a.Name, &a.Description, &a.Platform, &tagsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("app", appID)
		}
		return nil, fmt.Errorf("sqlite: getting app %q: %w", appID, apperror.Infra(err))
	}

	if err := json.Unmarshal([]byte(tagsJSON), &a.Tags); err != nil {
		return nil, fmt.Errorf("sqlite: decoding tags for %q: %w", appID, apperror.Infra(err))
	}

	return &a, nil
}

// AppExists probes for an app without loading the record — the review and
// library services call this before every write that references an app.
func (db *DB) AppExists(ctx context.Context, appID string) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM apps WHERE app_id = ?`, appID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking app %q: %w", appID, apperror.Infra(err))
	}
	return true, nil
}

// FilterAppsByTags returns apps whose tag set intersects the given tags.
// Matching is any-of: one shared tag is enough.
//
// Tags live in a JSON array column; json_each unnests it so the membership
// test is plain SQL. An empty tag list matches nothing.
func (db *DB) FilterAppsByTags(ctx context.Context, tags []string) ([]model.App, error) {
	if len(tags) == 0 {
		return []model.App{}, nil
	}

	placeholders := strings.Repeat("?,", len(tags)-1) + "?"
	args := make([]any, len(tags))
	for i, t := range tags {
		args[i] = t
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, app_id, name, description, platform, tags FROM apps
		 WHERE EXISTS (
			SELECT 1 FROM json_each(apps.tags)
			WHERE json_each.value IN (`+placeholders+`)
		 )`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: filtering apps by tags: %w", apperror.Infra(err))
	}
	defer rows.Close()

	return scanApps(rows)
}

// ListVersions returns every version of an app, newest first.
func (db *DB) ListVersions(ctx context.Context, appID string) ([]model.AppVersion, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, app_id, version, url, notes, timestamp
		 FROM app_versions WHERE app_id = ?
		 ORDER BY timestamp DESC`,
		appID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing versions for %q: %w", appID, apperror.Infra(err))
	}
	defer rows.Close()

	versions := []model.AppVersion{}
	for rows.Next() {
		var v model.AppVersion
		if err := rows.Scan(&v.ID, &v.AppID, &v.Version, &v.URL, &v.Notes, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("sqlite: scanning version: %w", apperror.Infra(err))
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating versions: %w", apperror.Infra(err))
	}

	return versions, nil
}

// LatestVersion returns the newest version of an app — the head of the
// timestamp-descending ordering, limit 1.
// Returns apperror.ErrNotFound when the app has no versions.
func (db *DB) LatestVersion(ctx context.Context, appID string) (*model.AppVersion, error) {
	var v model.AppVersion

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, app_id, version, url, notes, timestamp
		 FROM app_versions WHERE app_id = ?
		 ORDER BY timestamp DESC LIMIT 1`,
		appID,
	).Scan(&v.ID, &v.AppID, &v.Version, &v.URL, &v.Notes, &v.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("versions of app", appID)
		}
		return nil, fmt.Errorf("sqlite: getting latest version of %q: %w", appID, apperror.Infra(err))
	}

	return &v, nil
}

// scanApps reads app rows, decoding the JSON tags column per row.
func scanApps(rows *sql.Rows) ([]model.App, error) {
	apps := []model.App{}
	for rows.Next() {
		var a model.App
		var tagsJSON string
		if err := rows.Scan(&a.ID, &a.AppID, &a.Name, &a.Description, &a.Platform, &tagsJSON); err != nil {
			return nil, fmt.Errorf("sqlite: scanning app: %w", apperror.Infra(err))
		}
		if err := json.Unmarshal([]byte(tagsJSON), &a.Tags); err != nil {
			return nil, fmt.Errorf("sqlite: decoding tags: %w", apperror.Infra(err))
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating apps: %w", apperror.Infra(err))
	}
	return apps, nil
}
