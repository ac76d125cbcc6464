package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

const progressColumns = `id, user_id, unit_id, stage, review_count, successful_reviews, tracking_intensity, last_reviewed_at, next_review_at, updated_at`

func (r *progressRepository) Get(ctx context.Context, userID, unitID int64) (*models.UnitProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: user_id=%d, unit_id=%d", userID, unitID)

	var p models.UnitProgress
	err := r.db.QueryRowContext(ctx, `
SELECT `+progressColumns+`
FROM user_unit_progress
WHERE user_id = ? AND unit_id = ?
`, userID, unitID).Scan(&p.ID, &p.UserID, &p.UnitID, &p.Stage, &p.ReviewCount, &p.SuccessfulReviews,
		&p.Intensity, &p.LastReviewedAt, &p.NextReviewAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("progress not found: user_id=%d, unit_id=%d", userID, unitID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) Upsert(ctx context.Context, p models.UnitProgress) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("upserting progress: user_id=%d, unit_id=%d", p.UserID, p.UnitID)

	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO user_unit_progress (user_id, unit_id, stage, review_count, successful_reviews, tracking_intensity, last_reviewed_at, next_review_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, unit_id) DO UPDATE SET
    stage = excluded.stage,
    review_count = excluded.review_count,
    successful_reviews = excluded.successful_reviews,
    tracking_intensity = excluded.tracking_intensity,
    last_reviewed_at = excluded.last_reviewed_at,
    next_review_at = excluded.next_review_at,
    updated_at = excluded.updated_at
RETURNING id
`, p.UserID, p.UnitID, p.Stage, p.ReviewCount, p.SuccessfulReviews, p.Intensity,
		p.LastReviewedAt, p.NextReviewAt, p.UpdatedAt).Scan(&id)
	if err != nil {
		log.Error("failed to upsert progress: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *progressRepository) Update(ctx context.Context, p models.UnitProgress) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("updating progress: id=%d, reviews=%d, successful=%d", p.ID, p.ReviewCount, p.SuccessfulReviews)

	_, err := r.db.ExecContext(ctx, `
UPDATE user_unit_progress
SET stage = ?, review_count = ?, successful_reviews = ?, tracking_intensity = ?,
    last_reviewed_at = ?, next_review_at = ?, updated_at = ?
WHERE id = ?
`, p.Stage, p.ReviewCount, p.SuccessfulReviews, p.Intensity, p.LastReviewedAt, p.NextReviewAt, p.UpdatedAt, p.ID)
	if err != nil {
		log.Error("failed to update progress: %v", err)
	}
	return err
}

func (r *progressRepository) UpdateStage(ctx context.Context, userID, unitID int64, stage models.Stage) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("updating stage: user_id=%d, unit_id=%d, stage=%s", userID, unitID, stage)

	_, err := r.db.ExecContext(ctx, `
UPDATE user_unit_progress
SET stage = ?, updated_at = CURRENT_TIMESTAMP
WHERE user_id = ? AND unit_id = ?
`, stage, userID, unitID)
	if err != nil {
		log.Error("failed to update stage: %v", err)
	}
	return err
}

func (r *progressRepository) ListByUser(ctx context.Context, userID int64) ([]models.UnitProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing progress: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+progressColumns+`
FROM user_unit_progress
WHERE user_id = ?
`, userID)
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, err
	}
	defer rows.Close()

	var progresses []models.UnitProgress
	for rows.Next() {
		var p models.UnitProgress
		if err := rows.Scan(&p.ID, &p.UserID, &p.UnitID, &p.Stage, &p.ReviewCount, &p.SuccessfulReviews,
			&p.Intensity, &p.LastReviewedAt, &p.NextReviewAt, &p.UpdatedAt); err != nil {
			log.Error("failed to scan progress row: %v", err)
			return nil, err
		}
		progresses = append(progresses, p)
	}
	log.Debug("found %d progress records", len(progresses))
	return progresses, rows.Err()
}

func (r *progressRepository) InsertHistory(ctx context.Context, userID, unitID int64, criterionID *int64, isCorrect bool, reviewedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("inserting review history: user_id=%d, unit_id=%d, correct=%t", userID, unitID, isCorrect)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (user_id, unit_id, criterion_id, is_correct, reviewed_at)
VALUES (?, ?, ?, ?, ?)
`, userID, unitID, criterionID, isCorrect, reviewedAt)
	if err != nil {
		log.Error("failed to insert review history: %v", err)
	}
	return err
}
