package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
)

type summaryRepository struct {
	db *sql.DB
}

// NewSummaryRepository creates a new SummaryRepository implementation
func NewSummaryRepository(db *sql.DB) repository.SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) Upsert(ctx context.Context, s models.DailySummary) error {
	log := logger.FromContext(ctx).WithPrefix("summary_repo")
	log.Debug("upserting summary: user_id=%d, unit_id=%d, mastery=%.3f", s.UserID, s.UnitID, s.WeightedMastery)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO daily_summaries (user_id, unit_id, title, stage, weighted_mastery, total_criteria, mastered_criteria, next_review_at, can_progress, last_calculated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, unit_id) DO UPDATE SET
    title = excluded.title,
    stage = excluded.stage,
    weighted_mastery = excluded.weighted_mastery,
    total_criteria = excluded.total_criteria,
    mastered_criteria = excluded.mastered_criteria,
    next_review_at = excluded.next_review_at,
    can_progress = excluded.can_progress,
    last_calculated = excluded.last_calculated
`, s.UserID, s.UnitID, s.Title, s.Stage, s.WeightedMastery, s.TotalCriteria, s.MasteredCriteria,
		s.NextReviewAt, s.CanProgress, s.LastCalculated)
	if err != nil {
		log.Error("failed to upsert summary: %v", err)
	}
	return err
}

func (r *summaryRepository) ListDue(ctx context.Context, userID int64, now time.Time) ([]models.DailySummary, error) {
	log := logger.FromContext(ctx).WithPrefix("summary_repo")
	log.Debug("listing due summaries: user_id=%d, now=%s", userID, now.Format("2006-01-02"))

	query := sqlBuilder.
		Select("user_id", "unit_id", "title", "stage", "weighted_mastery", "total_criteria",
			"mastered_criteria", "next_review_at", "can_progress", "last_calculated").
		From("daily_summaries").
		Where(squirrel.Eq{"user_id": userID}).
		Where("next_review_at IS NOT NULL").
		Where(squirrel.LtOrEq{"next_review_at": now}).
		OrderBy("next_review_at ASC", "weighted_mastery ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	return r.list(ctx, sqlStr, args...)
}

func (r *summaryRepository) ListByUser(ctx context.Context, userID int64) ([]models.DailySummary, error) {
	log := logger.FromContext(ctx).WithPrefix("summary_repo")
	log.Debug("listing summaries: user_id=%d", userID)

	query := sqlBuilder.
		Select("user_id", "unit_id", "title", "stage", "weighted_mastery", "total_criteria",
			"mastered_criteria", "next_review_at", "can_progress", "last_calculated").
		From("daily_summaries").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("next_review_at ASC", "weighted_mastery ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	return r.list(ctx, sqlStr, args...)
}

func (r *summaryRepository) list(ctx context.Context, query string, args ...any) ([]models.DailySummary, error) {
	log := logger.FromContext(ctx).WithPrefix("summary_repo")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query summaries: %v", err)
		return nil, err
	}
	defer rows.Close()

	var summaries []models.DailySummary
	for rows.Next() {
		var s models.DailySummary
		if err := rows.Scan(&s.UserID, &s.UnitID, &s.Title, &s.Stage, &s.WeightedMastery, &s.TotalCriteria,
			&s.MasteredCriteria, &s.NextReviewAt, &s.CanProgress, &s.LastCalculated); err != nil {
			log.Error("failed to scan summary row: %v", err)
			return nil, err
		}
		summaries = append(summaries, s)
	}
	log.Debug("found %d summaries", len(summaries))
	return summaries, rows.Err()
}
