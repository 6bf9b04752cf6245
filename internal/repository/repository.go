// Package repository declares the storage capability the services are built
// on. Each interface is the find/update/aggregate/insert surface one service
// needs — nothing more. The sqlite subpackage implements all of them;
// services receive the interfaces, never the concrete store.
package repository

import (
	"context"

	"github.com/OSMA-D/osma-server/internal/model"
)

// UserRepository owns user records. Name is the unique key; Create returns
// apperror.ErrDenied when a user with the same name already exists (the
// store's uniqueness constraint enforces it, there is no racy pre-check).
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByName(ctx context.Context, name string) (*model.User, error)
	UpdatePassword(ctx context.Context, name, passwordHash string) error
	// UpdateProfile overwrites email and img unconditionally; no prior
	// value is read or merged.
	UpdateProfile(ctx context.Context, name, email, img string) error
}

// CatalogRepository is the read-only surface over apps and their versions.
// Apps are owned by an external publishing process; this server never
// writes them.
type CatalogRepository interface {
	ListApps(ctx context.Context) ([]model.App, error)
	GetApp(ctx context.Context, appID string) (*model.App, error)
	// AppExists is the cheap existence probe used by read-before-write
	// validation in the review and library services.
	AppExists(ctx context.Context, appID string) (bool, error)
	// FilterAppsByTags returns apps carrying at least one of the given tags.
	FilterAppsByTags(ctx context.Context, tags []string) ([]model.App, error)
	// ListVersions returns versions newest-first by timestamp.
	ListVersions(ctx context.Context, appID string) ([]model.AppVersion, error)
	LatestVersion(ctx context.Context, appID string) (*model.AppVersion, error)
}

// ReviewRepository owns review records.
type ReviewRepository interface {
	ListByApp(ctx context.Context, appID string) ([]model.Review, error)
	// Upsert inserts the review, or fully replaces the existing one matched
	// on UserName ALONE — a user's review for app A is overwritten by a
	// later review for app B. This mirrors the long-observed production
	// behavior; whether the key should be (user, app) is an open decision
	// for the system owner.
	Upsert(ctx context.Context, review *model.Review) error
	// AverageScore returns the mean review score for the app, or
	// apperror.ErrNotFound when it has zero reviews. No reviews is not a
	// zero rating.
	AverageScore(ctx context.Context, appID string) (float64, error)
}

// LibraryRepository owns per-user app membership. The collection is a
// multiset: Add never deduplicates, Remove deletes every occurrence.
type LibraryRepository interface {
	// CreateFor creates the empty library a user gets at signup.
	CreateFor(ctx context.Context, owner string) error
	Add(ctx context.Context, owner, appID string) error
	Remove(ctx context.Context, owner, appID string) error
	// List returns the owner's app ids, or apperror.ErrNotFound when the
	// owner has no library (never signed up here).
	List(ctx context.Context, owner string) ([]string, error)
}
