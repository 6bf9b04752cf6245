package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"

	"github.com/OSMA-D/osma-server/internal/apperror"
	"github.com/OSMA-D/osma-server/internal/model"
	"github.com/OSMA-D/osma-server/internal/repository"
)

var _ repository.ReviewRepository = (*DB)(nil)

// ListByApp returns every review written for the given app.
func (db *DB) ListByApp(ctx context.Context, appID string) ([]model.Review, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_name, app_id, score, text, timestamp
		 FROM reviews WHERE app_id = ?`,
		appID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reviews for %q: %w", appID, apperror.Infra(err))
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.UserName, &r.AppID, &r.Score, &r.Text, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("sqlite: scanning review: %w", apperror.Infra(err))
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reviews: %w", apperror.Infra(err))
	}

	return reviews, nil
}

// Upsert inserts the review or fully replaces the existing one.
//
// UPSERT KEY:
// The conflict target is user_name ALONE (the UNIQUE constraint on
// reviews.user_name). A user holds at most one review in the whole store;
// reviewing a second app replaces the review of the first. Every observed
// production revision behaves this way — keying on (user_name, app_id)
// instead is a decision for the system owner, not a bug fix to slip in here.
func (db *DB) Upsert(ctx context.Context, review *model.Review) error {
	review.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO reviews (id, user_name, app_id, score, text, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_name) DO UPDATE SET
			app_id    = excluded.app_id,
			score     = excluded.score,
			text      = excluded.text,
			timestamp = excluded.timestamp`,
		review.ID,
		review.UserName,
		review.AppID,
		review.Score,
		review.Text,
		review.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting review by %q: %w", review.UserName, apperror.Infra(err))
	}

	return nil
}

// AverageScore groups reviews on app_id and averages their scores.
// Returns apperror.ErrNotFound when the app has zero reviews — callers must
// not see an unrated app as a zero-rated one.
func (db *DB) AverageScore(ctx context.Context, appID string) (float64, error) {
	var avg float64

	err := db.conn.QueryRowContext(ctx,
		`SELECT AVG(score) FROM reviews WHERE app_id = ? GROUP BY app_id`,
		appID,
	).Scan(&avg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperror.NotFound("rating for app", appID)
		}
		return 0, fmt.Errorf("sqlite: averaging rating for %q: %w", appID, apperror.Infra(err))
	}

	return avg, nil
}
