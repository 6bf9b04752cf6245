package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/OSMA-D/osma-server/internal/apperror"
	"github.com/OSMA-D/osma-server/internal/model"
	"github.com/OSMA-D/osma-server/internal/repository"
)

// Review handles writing reviews. Reading them lives on Catalog — the write
// path is the only one with rules to enforce.
type Review struct {
	reviews repository.ReviewRepository
	catalog repository.CatalogRepository
	logger  *slog.Logger
	now     func() time.Time
}

// NewReview creates the review service.
func NewReview(
	reviews repository.ReviewRepository,
	catalog repository.CatalogRepository,
	logger *slog.Logger,
) *Review {
	return &Review{
		reviews: reviews,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// Write upserts the caller's review for an app.
//
// The app's existence is confirmed first so a review of a nonexistent app is
// denied precisely instead of surfacing as a storage error. The timestamp is
// stamped here from the server clock; whatever the client sent is ignored.
func (s *Review) Write(ctx context.Context, userName, appID string, score int, text string) error {
	exists, err := s.catalog.AppExists(ctx, appID)
	if err != nil {
		return fmt.Errorf("service/review: checking app %q: %w", appID, err)
	}
	if !exists {
		return fmt.Errorf("service/review: writing review for %q: %w", appID,
			apperror.Denied("this app does not exist"))
	}

	review := &model.Review{
		UserName:  userName,
		AppID:     appID,
		Score:     score,
		Text:      text,
		Timestamp: s.now().Unix(),
	}
	if err := s.reviews.Upsert(ctx, review); err != nil {
		return fmt.Errorf("service/review: writing review by %q: %w", userName, err)
	}

	s.logger.Info("review written",
		slog.String("user", userName),
		slog.String("appID", appID),
		slog.Int("score", score),
	)

	return nil
}
