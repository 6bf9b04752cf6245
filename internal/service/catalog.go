package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/OSMA-D/osma-server/internal/model"
	"github.com/OSMA-D/osma-server/internal/repository"
)

// Catalog is the read-only surface over apps, versions, reviews and the
// rating aggregate. It performs no writes and holds no state beyond its
// injected repositories.
type Catalog struct {
	catalog repository.CatalogRepository
	reviews repository.ReviewRepository
	logger  *slog.Logger
}

// NewCatalog creates the catalog service.
func NewCatalog(
	catalog repository.CatalogRepository,
	reviews repository.ReviewRepository,
	logger *slog.Logger,
) *Catalog {
	return &Catalog{
		catalog: catalog,
		reviews: reviews,
		logger:  logger,
	}
}

// ListApps returns every app in the catalog.
func (s *Catalog) ListApps(ctx context.Context) ([]model.App, error) {
	apps, err := s.catalog.ListApps(ctx)
	if err != nil {
		s.logger.Error("listing apps failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/catalog: listing apps: %w", err)
	}
	return apps, nil
}

// GetApp returns one app by id, or a not-found outcome.
func (s *Catalog) GetApp(ctx context.Context, appID string) (*model.App, error) {
	app, err := s.catalog.GetApp(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: getting app %q: %w", appID, err)
	}
	return app, nil
}

// FilterAppsByTags returns apps carrying at least one of the given tags.
func (s *Catalog) FilterAppsByTags(ctx context.Context, tags []string) ([]model.App, error) {
	apps, err := s.catalog.FilterAppsByTags(ctx, tags)
	if err != nil {
		s.logger.Error("filtering apps failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/catalog: filtering apps by tags: %w", err)
	}
	return apps, nil
}

// ListVersions returns an app's versions, newest first.
func (s *Catalog) ListVersions(ctx context.Context, appID string) ([]model.AppVersion, error) {
	versions, err := s.catalog.ListVersions(ctx, appID)
	if err != nil {
		s.logger.Error("listing versions failed",
			slog.String("appID", appID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/catalog: listing versions of %q: %w", appID, err)
	}
	return versions, nil
}

// LatestVersion returns the newest version of an app, or not-found when the
// app has no versions.
func (s *Catalog) LatestVersion(ctx context.Context, appID string) (*model.AppVersion, error) {
	v, err := s.catalog.LatestVersion(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: latest version of %q: %w", appID, err)
	}
	return v, nil
}

// ListReviews returns every review for an app.
func (s *Catalog) ListReviews(ctx context.Context, appID string) ([]model.Review, error) {
	reviews, err := s.reviews.ListByApp(ctx, appID)
	if err != nil {
		s.logger.Error("listing reviews failed",
			slog.String("appID", appID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/catalog: listing reviews of %q: %w", appID, err)
	}
	return reviews, nil
}

// Rating is the aggregated mean review score for an app.
type Rating struct {
	AppID  string  `json:"app_id"`
	Rating float64 `json:"rating"`
}

// GetRating averages the review scores for an app.
//
// Zero reviews yields a not-found outcome, never a zero rating. An app that
// exists but was never reviewed and an app that doesn't exist both surface
// as not-found here: the absence of a rating is the answer, not an error to
// tell apart.
func (s *Catalog) GetRating(ctx context.Context, appID string) (*Rating, error) {
	avg, err := s.reviews.AverageScore(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: rating of %q: %w", appID, err)
	}
	return &Rating{AppID: appID, Rating: avg}, nil
}
