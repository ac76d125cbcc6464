package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
)

type pinnedRepository struct {
	db *sql.DB
}

// NewPinnedRepository creates a new PinnedRepository implementation
func NewPinnedRepository(db *sql.DB) repository.PinnedRepository {
	return &pinnedRepository{db: db}
}

func (r *pinnedRepository) Get(ctx context.Context, userID, unitID int64) (*models.PinnedReview, error) {
	log := logger.FromContext(ctx).WithPrefix("pinned_repo")
	log.Debug("getting pin: user_id=%d, unit_id=%d", userID, unitID)

	var p models.PinnedReview
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, unit_id, review_at
FROM pinned_reviews
WHERE user_id = ? AND unit_id = ?
`, userID, unitID).Scan(&p.ID, &p.UserID, &p.UnitID, &p.ReviewAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get pin: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *pinnedRepository) Upsert(ctx context.Context, pin models.PinnedReview) error {
	log := logger.FromContext(ctx).WithPrefix("pinned_repo")
	log.Debug("upserting pin: user_id=%d, unit_id=%d, review_at=%s", pin.UserID, pin.UnitID, pin.ReviewAt)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO pinned_reviews (user_id, unit_id, review_at)
VALUES (?, ?, ?)
ON CONFLICT(user_id, unit_id) DO UPDATE SET review_at = excluded.review_at
`, pin.UserID, pin.UnitID, pin.ReviewAt)
	if err != nil {
		log.Error("failed to upsert pin: %v", err)
	}
	return err
}

func (r *pinnedRepository) Delete(ctx context.Context, userID, unitID int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("pinned_repo")
	log.Debug("deleting pin: user_id=%d, unit_id=%d", userID, unitID)

	res, err := r.db.ExecContext(ctx, `
DELETE FROM pinned_reviews
WHERE user_id = ? AND unit_id = ?
`, userID, unitID)
	if err != nil {
		log.Error("failed to delete pin: %v", err)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *pinnedRepository) ListByUser(ctx context.Context, userID int64) ([]models.PinnedReviewDetail, error) {
	log := logger.FromContext(ctx).WithPrefix("pinned_repo")
	log.Debug("listing pins: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT p.id, p.user_id, p.unit_id, p.review_at, u.title
FROM pinned_reviews p
JOIN knowledge_units u ON u.id = p.unit_id
WHERE p.user_id = ?
ORDER BY p.review_at ASC
`, userID)
	if err != nil {
		log.Error("failed to list pins: %v", err)
		return nil, err
	}
	defer rows.Close()

	var pins []models.PinnedReviewDetail
	for rows.Next() {
		var p models.PinnedReviewDetail
		if err := rows.Scan(&p.ID, &p.UserID, &p.UnitID, &p.ReviewAt, &p.Title); err != nil {
			log.Error("failed to scan pin row: %v", err)
			return nil, err
		}
		pins = append(pins, p)
	}
	log.Debug("found %d pins", len(pins))
	return pins, rows.Err()
}
