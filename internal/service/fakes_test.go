package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/OSMA-D/osma-server/internal/apperror"
	"github.com/OSMA-D/osma-server/internal/auth"
	"github.com/OSMA-D/osma-server/internal/model"
)

// Hand-written in-memory fakes for the repository interfaces. A fake (not a
// mock framework) keeps the tests dependency-free and readable: what the
// fake does is exactly what you see.

type fakeUserRepo struct {
	users map[string]*model.User // keyed by name
	// set to simulate a store failure
	createErr error
	getErr    error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[user.Name]; ok {
		return apperror.Denied("user with this name already exists")
	}
	user.ID = "id-" + user.Name
	stored := *user
	f.users[user.Name] = &stored
	return nil
}

func (f *fakeUserRepo) GetByName(_ context.Context, name string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[name]
	if !ok {
		return nil, apperror.NotFound("user", name)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, name, hash string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if u, ok := f.users[name]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, name, email, img string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if u, ok := f.users[name]; ok {
		u.Email = email
		u.Img = img
	}
	return nil
}

type fakeLibraryRepo struct {
	libraries map[string][]string // owner → app ids, multiset
	createErr error
	addErr    error
}

func newFakeLibraryRepo() *fakeLibraryRepo {
	return &fakeLibraryRepo{libraries: make(map[string][]string)}
}

func (f *fakeLibraryRepo) CreateFor(_ context.Context, owner string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.libraries[owner] = []string{}
	return nil
}

func (f *fakeLibraryRepo) Add(_ context.Context, owner, appID string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.libraries[owner] = append(f.libraries[owner], appID)
	return nil
}

func (f *fakeLibraryRepo) Remove(_ context.Context, owner, appID string) error {
	kept := []string{}
	for _, id := range f.libraries[owner] {
		if id != appID {
			kept = append(kept, id)
		}
	}
	f.libraries[owner] = kept
	return nil
}

func (f *fakeLibraryRepo) List(_ context.Context, owner string) ([]string, error) {
	apps, ok := f.libraries[owner]
	if !ok {
		return nil, apperror.NotFound("user", owner)
	}
	return apps, nil
}

type fakeCatalogRepo struct {
	apps      map[string]*model.App         // keyed by app_id
	versions  map[string][]model.AppVersion // keyed by app_id, newest first
	existsErr error
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		apps:     make(map[string]*model.App),
		versions: make(map[string][]model.AppVersion),
	}
}

func (f *fakeCatalogRepo) ListApps(_ context.Context) ([]model.App, error) {
	apps := []model.App{}
	for _, a := range f.apps {
		apps = append(apps, *a)
	}
	return apps, nil
}

func (f *fakeCatalogRepo) GetApp(_ context.Context, appID string) (*model.App, error) {
	a, ok := f.apps[appID]
	if !ok {
		return nil, apperror.NotFound("app", appID)
	}
	copied := *a
	return &copied, nil
}

func (f *fakeCatalogRepo) AppExists(_ context.Context, appID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.apps[appID]
	return ok, nil
}

func (f *fakeCatalogRepo) FilterAppsByTags(_ context.Context, tags []string) ([]model.App, error) {
	apps := []model.App{}
	for _, a := range f.apps {
		for _, want := range tags {
			if hasTag(a.Tags, want) {
				apps = append(apps, *a)
				break
			}
		}
	}
	return apps, nil
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func (f *fakeCatalogRepo) ListVersions(_ context.Context, appID string) ([]model.AppVersion, error) {
	return f.versions[appID], nil
}

func (f *fakeCatalogRepo) LatestVersion(_ context.Context, appID string) (*model.AppVersion, error) {
	vs := f.versions[appID]
	if len(vs) == 0 {
		return nil, apperror.NotFound("versions of app", appID)
	}
	copied := vs[0]
	return &copied, nil
}

type fakeReviewRepo struct {
	reviews   map[string]*model.Review // keyed by user_name (the upsert key)
	upsertErr error
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*model.Review)}
}

func (f *fakeReviewRepo) ListByApp(_ context.Context, appID string) ([]model.Review, error) {
	reviews := []model.Review{}
	for _, r := range f.reviews {
		if r.AppID == appID {
			reviews = append(reviews, *r)
		}
	}
	return reviews, nil
}

func (f *fakeReviewRepo) Upsert(_ context.Context, review *model.Review) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	stored := *review
	f.reviews[review.UserName] = &stored
	return nil
}

func (f *fakeReviewRepo) AverageScore(_ context.Context, appID string) (float64, error) {
	var sum, n int
	for _, r := range f.reviews {
		if r.AppID == appID {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		return 0, apperror.NotFound("rating for app", appID)
	}
	return float64(sum) / float64(n), nil
}

// testLogger discards anything below error so test output stays clean.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testHasher(t *testing.T) *auth.Hasher {
	t.Helper()
	h, err := auth.NewHasher("test-salt")
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	return h
}

func testTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}
