package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
)

type masteryRepository struct {
	db *sql.DB
}

// NewMasteryRepository creates a new MasteryRepository implementation
func NewMasteryRepository(db *sql.DB) repository.MasteryRepository {
	return &masteryRepository{db: db}
}

const masteryColumns = `id, user_id, criterion_id, score, is_mastered, consecutive_count, attempt_count, successful_attempts, history, last_attempt_at, mastered_at, updated_at`

func (r *masteryRepository) Get(ctx context.Context, userID, criterionID int64) (*models.CriterionMastery, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("getting mastery: user_id=%d, criterion_id=%d", userID, criterionID)

	row := r.db.QueryRowContext(ctx, `
SELECT `+masteryColumns+`
FROM user_criterion_mastery
WHERE user_id = ? AND criterion_id = ?
`, userID, criterionID)

	m, err := scanMastery(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("mastery not found: user_id=%d, criterion_id=%d", userID, criterionID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get mastery: %v", err)
		return nil, err
	}
	return m, nil
}

func (r *masteryRepository) GetOrCreate(ctx context.Context, userID, criterionID int64) (*models.CriterionMastery, error) {
	m, err := r.Get(ctx, userID, criterionID)
	if err != nil {
		return nil, err
	}
	if m != nil {
		return m, nil
	}

	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("creating mastery record: user_id=%d, criterion_id=%d", userID, criterionID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO user_criterion_mastery (user_id, criterion_id)
VALUES (?, ?)
`, userID, criterionID)
	if err != nil {
		log.Error("failed to create mastery record: %v", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.CriterionMastery{ID: id, UserID: userID, CriterionID: criterionID, History: nil}, nil
}

func (r *masteryRepository) Update(ctx context.Context, m models.CriterionMastery) error {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("updating mastery: id=%d, score=%.3f, mastered=%t", m.ID, m.Score, m.IsMastered)

	_, err := r.db.ExecContext(ctx, `
UPDATE user_criterion_mastery
SET score = ?, is_mastered = ?, consecutive_count = ?, attempt_count = ?, successful_attempts = ?,
    history = ?, last_attempt_at = ?, mastered_at = ?, updated_at = ?
WHERE id = ?
`, m.Score, m.IsMastered, m.ConsecutiveCount, m.AttemptCount, m.SuccessfulAttempts,
		encodeHistory(m.History), m.LastAttemptAt, m.MasteredAt, m.UpdatedAt, m.ID)
	if err != nil {
		log.Error("failed to update mastery: %v", err)
	}
	return err
}

func (r *masteryRepository) ListByUnit(ctx context.Context, userID, unitID int64) ([]models.CriterionMastery, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("listing masteries: user_id=%d, unit_id=%d", userID, unitID)

	rows, err := r.db.QueryContext(ctx, `
SELECT m.id, m.user_id, m.criterion_id, m.score, m.is_mastered, m.consecutive_count, m.attempt_count,
       m.successful_attempts, m.history, m.last_attempt_at, m.mastered_at, m.updated_at
FROM user_criterion_mastery m
JOIN mastery_criteria c ON c.id = m.criterion_id
WHERE m.user_id = ? AND c.unit_id = ?
`, userID, unitID)
	if err != nil {
		log.Error("failed to list masteries: %v", err)
		return nil, err
	}
	defer rows.Close()

	var masteries []models.CriterionMastery
	for rows.Next() {
		m, err := scanMastery(rows)
		if err != nil {
			log.Error("failed to scan mastery row: %v", err)
			return nil, err
		}
		masteries = append(masteries, *m)
	}
	log.Debug("found %d masteries", len(masteries))
	return masteries, rows.Err()
}

func (r *masteryRepository) ResetAtOrAboveStage(ctx context.Context, userID, unitID int64, stage models.Stage) error {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("resetting masteries: user_id=%d, unit_id=%d, stage=%s", userID, unitID, stage)

	stages := stagesAtOrAbove(stage)
	args := []any{userID, unitID}
	for _, s := range stages {
		args = append(args, string(s))
	}
	query := `
UPDATE user_criterion_mastery
SET is_mastered = 0, consecutive_count = 0, mastered_at = NULL
WHERE user_id = ? AND criterion_id IN (
    SELECT id FROM mastery_criteria
    WHERE unit_id = ? AND stage IN (` + strings.Repeat("?, ", len(stages)-1) + `?)
)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to reset masteries: %v", err)
		return err
	}
	return nil
}

func stagesAtOrAbove(stage models.Stage) []models.Stage {
	var out []models.Stage
	for _, s := range []models.Stage{models.StageUnderstand, models.StageUse, models.StageExplore} {
		if s.Rank() >= stage.Rank() {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = append(out, models.StageUnderstand, models.StageUse, models.StageExplore)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMastery(row rowScanner) (*models.CriterionMastery, error) {
	var m models.CriterionMastery
	var history string
	err := row.Scan(&m.ID, &m.UserID, &m.CriterionID, &m.Score, &m.IsMastered, &m.ConsecutiveCount,
		&m.AttemptCount, &m.SuccessfulAttempts, &history, &m.LastAttemptAt, &m.MasteredAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.History = decodeHistory(history)
	return &m, nil
}
