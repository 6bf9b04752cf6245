package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"github.com/OSMA-D/osma-server/internal/apperror"
	"github.com/OSMA-D/osma-server/internal/model"
)

// newTestDB opens an in-memory database that lives for one test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// seedApp inserts an app the way the external publishing process would —
// directly into the store, bypassing this server's read-only surface.
func seedApp(t *testing.T, db *DB, appID string, tagsJSON string) {
	t.Helper()
	_, err := db.conn.Exec(
		`INSERT INTO apps (id, app_id, name, description, platform, tags)
		 VALUES (?, ?, ?, '', 'linux', ?)`,
		xid.New().String(), appID, "App "+appID, tagsJSON,
	)
	require.NoError(t, err)
}

func seedVersion(t *testing.T, db *DB, appID, version string, timestamp int64) {
	t.Helper()
	_, err := db.conn.Exec(
		`INSERT INTO app_versions (id, app_id, version, url, notes, timestamp)
		 VALUES (?, ?, ?, '', '', ?)`,
		xid.New().String(), appID, version, timestamp,
	)
	require.NoError(t, err)
}

// ---------------------------------------------------------------------------
// users
// ---------------------------------------------------------------------------

func TestUserCreate_DuplicateNameDenied(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &model.User{Name: "alice", PasswordHash: "h1", Email: "a@example.com", Role: model.RoleUser}
	require.NoError(t, db.Create(ctx, first))

	second := &model.User{Name: "alice", PasswordHash: "h2", Role: model.RoleUser}
	err := db.Create(ctx, second)
	require.ErrorIs(t, err, apperror.ErrDenied)

	// The first record is intact.
	got, err := db.GetByName(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "h1", got.PasswordHash)
	require.Equal(t, "a@example.com", got.Email)
}

func TestUserGetByName_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByName(context.Background(), "nobody")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUserUpdatePasswordAndProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(ctx, &model.User{Name: "alice", PasswordHash: "old", Role: model.RoleUser}))

	require.NoError(t, db.UpdatePassword(ctx, "alice", "new"))
	require.NoError(t, db.UpdateProfile(ctx, "alice", "a@example.com", "img-url"))

	got, err := db.GetByName(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "new", got.PasswordHash)
	require.Equal(t, "a@example.com", got.Email)
	require.Equal(t, "img-url", got.Img)
}

// ---------------------------------------------------------------------------
// catalog
// ---------------------------------------------------------------------------

func TestCatalog_GetAndExists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedApp(t, db, "com.example.todo", `["productivity","tools"]`)

	app, err := db.GetApp(ctx, "com.example.todo")
	require.NoError(t, err)
	require.Equal(t, []string{"productivity", "tools"}, app.Tags)

	_, err = db.GetApp(ctx, "com.example.missing")
	require.ErrorIs(t, err, apperror.ErrNotFound)

	exists, err := db.AppExists(ctx, "com.example.todo")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = db.AppExists(ctx, "com.example.missing")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestCatalog_FilterAppsByTags(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedApp(t, db, "game", `["games","retro"]`)
	seedApp(t, db, "editor", `["tools"]`)
	seedApp(t, db, "untagged", `[]`)

	apps, err := db.FilterAppsByTags(ctx, []string{"games", "media"})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, "game", apps[0].AppID)

	// No tags matches nothing.
	apps, err = db.FilterAppsByTags(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, apps)
}

func TestCatalog_VersionsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedVersion(t, db, "app-a", "1.0", 100)
	seedVersion(t, db, "app-a", "3.0", 300)
	seedVersion(t, db, "app-a", "2.0", 200)

	versions, err := db.ListVersions(ctx, "app-a")
	require.NoError(t, err)
	require.Len(t, versions, 3)
	require.Equal(t, "3.0", versions[0].Version)
	require.Equal(t, "2.0", versions[1].Version)
	require.Equal(t, "1.0", versions[2].Version)

	latest, err := db.LatestVersion(ctx, "app-a")
	require.NoError(t, err)
	require.Equal(t, "3.0", latest.Version)

	_, err = db.LatestVersion(ctx, "app-without-versions")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

// ---------------------------------------------------------------------------
// reviews
// ---------------------------------------------------------------------------

func TestReviewUpsert_ReplacesByUserName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Upsert(ctx, &model.Review{
		UserName: "alice", AppID: "app-a", Score: 5, Text: "first", Timestamp: 100,
	}))
	// Same user, different app: replaces the existing row — user_name is
	// the whole upsert key.
	require.NoError(t, db.Upsert(ctx, &model.Review{
		UserName: "alice", AppID: "app-b", Score: 2, Text: "second", Timestamp: 200,
	}))

	forA, err := db.ListByApp(ctx, "app-a")
	require.NoError(t, err)
	require.Empty(t, forA)

	forB, err := db.ListByApp(ctx, "app-b")
	require.NoError(t, err)
	require.Len(t, forB, 1)
	require.Equal(t, "second", forB[0].Text)
	require.Equal(t, int64(200), forB[0].Timestamp)
}

func TestReviewAverageScore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i, score := range []int{3, 4, 5} {
		require.NoError(t, db.Upsert(ctx, &model.Review{
			UserName: string(rune('a' + i)), AppID: "app-a", Score: score, Timestamp: 1,
		}))
	}

	avg, err := db.AverageScore(ctx, "app-a")
	require.NoError(t, err)
	require.Equal(t, 4.0, avg)

	// Zero reviews is not-found, never 0.
	_, err = db.AverageScore(ctx, "app-unrated")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

// ---------------------------------------------------------------------------
// libraries
// ---------------------------------------------------------------------------

func TestLibrary_MultisetAddAndRemove(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateFor(ctx, "alice"))

	require.NoError(t, db.Add(ctx, "alice", "app-a"))
	require.NoError(t, db.Add(ctx, "alice", "app-a"))
	require.NoError(t, db.Add(ctx, "alice", "app-b"))

	apps, err := db.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, apps, 3, "duplicates are kept")

	// One Remove pulls every occurrence.
	require.NoError(t, db.Remove(ctx, "alice", "app-a"))

	apps, err = db.List(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"app-b"}, apps)
}

func TestLibrary_EmptyVsMissing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateFor(ctx, "alice"))

	// Existing owner, empty library: empty slice, no error.
	apps, err := db.List(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, apps)

	// Unknown owner: not found.
	_, err = db.List(ctx, "nobody")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestIsUniqueViolation_OtherErrors(t *testing.T) {
	require.False(t, isUniqueViolation(errors.New("plain error")))
	require.False(t, isUniqueViolation(nil))
}
