package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/OSMA-D/osma-server/internal/apperror"
	"github.com/OSMA-D/osma-server/internal/repository"
)

// Library manages per-user app membership. Entries form a multiset: adding
// twice stores two entries, removing deletes all of them.
type Library struct {
	libraries repository.LibraryRepository
	catalog   repository.CatalogRepository
	logger    *slog.Logger
}

// NewLibrary creates the library service.
func NewLibrary(
	libraries repository.LibraryRepository,
	catalog repository.CatalogRepository,
	logger *slog.Logger,
) *Library {
	return &Library{
		libraries: libraries,
		catalog:   catalog,
		logger:    logger,
	}
}

// Add appends an app to the owner's library after confirming the app exists.
// A denied outcome from the existence check leaves the library untouched.
func (s *Library) Add(ctx context.Context, owner, appID string) error {
	exists, err := s.catalog.AppExists(ctx, appID)
	if err != nil {
		return fmt.Errorf("service/library: checking app %q: %w", appID, err)
	}
	if !exists {
		return fmt.Errorf("service/library: adding %q: %w", appID,
			apperror.Denied("this app does not exist"))
	}

	if err := s.libraries.Add(ctx, owner, appID); err != nil {
		return fmt.Errorf("service/library: adding %q for %q: %w", appID, owner, err)
	}

	s.logger.Info("app added to library",
		slog.String("owner", owner),
		slog.String("appID", appID),
	)

	return nil
}

// Remove deletes every occurrence of the app from the owner's library.
// No existence check here — removing an absent app is a harmless no-op.
func (s *Library) Remove(ctx context.Context, owner, appID string) error {
	if err := s.libraries.Remove(ctx, owner, appID); err != nil {
		return fmt.Errorf("service/library: removing %q for %q: %w", appID, owner, err)
	}

	s.logger.Info("app removed from library",
		slog.String("owner", owner),
		slog.String("appID", appID),
	)

	return nil
}

// List returns the owner's app ids, or not-found when the owner has no
// library at all.
func (s *Library) List(ctx context.Context, owner string) ([]string, error) {
	apps, err := s.libraries.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("service/library: listing library of %q: %w", owner, err)
	}
	return apps, nil
}
