package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
)

type preferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new PreferenceRepository implementation
func NewPreferenceRepository(db *sql.DB) repository.PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Get(ctx context.Context, userID int64) (*models.BucketPreferences, error) {
	log := logger.FromContext(ctx).WithPrefix("preference_repo")
	log.Debug("getting preferences: user_id=%d", userID)

	var p models.BucketPreferences
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, critical_size, core_size, plus_size, add_more_increment, max_daily_limit, threshold
FROM bucket_preferences
WHERE user_id = ?
`, userID).Scan(&p.UserID, &p.CriticalSize, &p.CoreSize, &p.PlusSize, &p.AddMoreIncrement, &p.MaxDailyLimit, &p.Threshold)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("preferences not found: user_id=%d", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get preferences: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, p models.BucketPreferences) error {
	log := logger.FromContext(ctx).WithPrefix("preference_repo")
	log.Debug("upserting preferences: user_id=%d", p.UserID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO bucket_preferences (user_id, critical_size, core_size, plus_size, add_more_increment, max_daily_limit, threshold)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    critical_size = excluded.critical_size,
    core_size = excluded.core_size,
    plus_size = excluded.plus_size,
    add_more_increment = excluded.add_more_increment,
    max_daily_limit = excluded.max_daily_limit,
    threshold = excluded.threshold
`, p.UserID, p.CriticalSize, p.CoreSize, p.PlusSize, p.AddMoreIncrement, p.MaxDailyLimit, p.Threshold)
	if err != nil {
		log.Error("failed to upsert preferences: %v", err)
	}
	return err
}
