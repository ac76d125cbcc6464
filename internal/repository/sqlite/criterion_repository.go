package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
)

type criterionRepository struct {
	db *sql.DB
}

// NewCriterionRepository creates a new CriterionRepository implementation
func NewCriterionRepository(db *sql.DB) repository.CriterionRepository {
	return &criterionRepository{db: db}
}

func (r *criterionRepository) Get(ctx context.Context, id int64) (*models.MasteryCriterion, error) {
	log := logger.FromContext(ctx).WithPrefix("criterion_repo")
	log.Debug("getting criterion: id=%d", id)

	var c models.MasteryCriterion
	err := r.db.QueryRowContext(ctx, `
SELECT id, unit_id, stage, weight, mastery_threshold, description, created_at
FROM mastery_criteria
WHERE id = ?
`, id).Scan(&c.ID, &c.UnitID, &c.Stage, &c.Weight, &c.MasteryThreshold, &c.Description, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("criterion not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get criterion: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *criterionRepository) ListByUnit(ctx context.Context, unitID int64) ([]models.MasteryCriterion, error) {
	return r.list(ctx, `
SELECT id, unit_id, stage, weight, mastery_threshold, description, created_at
FROM mastery_criteria
WHERE unit_id = ?
ORDER BY weight DESC, created_at ASC
`, unitID)
}

func (r *criterionRepository) ListByUnitStage(ctx context.Context, unitID int64, stage models.Stage) ([]models.MasteryCriterion, error) {
	return r.list(ctx, `
SELECT id, unit_id, stage, weight, mastery_threshold, description, created_at
FROM mastery_criteria
WHERE unit_id = ? AND stage = ?
ORDER BY weight DESC, created_at ASC
`, unitID, stage)
}

func (r *criterionRepository) list(ctx context.Context, query string, args ...any) ([]models.MasteryCriterion, error) {
	log := logger.FromContext(ctx).WithPrefix("criterion_repo")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list criteria: %v", err)
		return nil, err
	}
	defer rows.Close()

	var criteria []models.MasteryCriterion
	for rows.Next() {
		var c models.MasteryCriterion
		if err := rows.Scan(&c.ID, &c.UnitID, &c.Stage, &c.Weight, &c.MasteryThreshold, &c.Description, &c.CreatedAt); err != nil {
			log.Error("failed to scan criterion row: %v", err)
			return nil, err
		}
		criteria = append(criteria, c)
	}
	log.Debug("found %d criteria", len(criteria))
	return criteria, rows.Err()
}

func (r *criterionRepository) ListForSelection(ctx context.Context, unitID int64, stage models.Stage, userID int64) ([]models.CriterionWithQuestions, error) {
	log := logger.FromContext(ctx).WithPrefix("criterion_repo")
	log.Debug("listing criteria for selection: unit_id=%d, stage=%s, user_id=%d", unitID, stage, userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.unit_id, c.stage, c.weight, c.mastery_threshold, c.description, c.created_at,
       COALESCE(m.is_mastered, 0)
FROM mastery_criteria c
LEFT JOIN user_criterion_mastery m ON m.criterion_id = c.id AND m.user_id = ?
WHERE c.unit_id = ? AND c.stage = ?
ORDER BY c.weight DESC, c.created_at ASC
`, userID, unitID, stage)
	if err != nil {
		log.Error("failed to list criteria for selection: %v", err)
		return nil, err
	}
	defer rows.Close()

	var criteria []models.CriterionWithQuestions
	for rows.Next() {
		var c models.CriterionWithQuestions
		if err := rows.Scan(&c.ID, &c.UnitID, &c.Stage, &c.Weight, &c.MasteryThreshold, &c.Description, &c.CreatedAt, &c.IsMastered); err != nil {
			log.Error("failed to scan criterion row: %v", err)
			return nil, err
		}
		criteria = append(criteria, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach questions oldest first for coverage.
	for i := range criteria {
		questions, err := r.listQuestions(ctx, criteria[i].ID)
		if err != nil {
			return nil, err
		}
		criteria[i].Questions = questions
	}
	log.Debug("found %d criteria for selection", len(criteria))
	return criteria, nil
}

func (r *criterionRepository) listQuestions(ctx context.Context, criterionID int64) ([]models.Question, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, criterion_id, prompt, created_at
FROM questions
WHERE criterion_id = ?
ORDER BY created_at ASC, id ASC
`, criterionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.CriterionID, &q.Prompt, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *criterionRepository) Insert(ctx context.Context, c models.MasteryCriterion) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("criterion_repo")
	log.Debug("inserting criterion: unit_id=%d, stage=%s, weight=%.2f", c.UnitID, c.Stage, c.Weight)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO mastery_criteria (unit_id, stage, weight, mastery_threshold, description)
VALUES (?, ?, ?, ?, ?)
`, c.UnitID, c.Stage, c.Weight, c.MasteryThreshold, c.Description)
	if err != nil {
		log.Error("failed to insert criterion: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *criterionRepository) InsertQuestion(ctx context.Context, q models.Question) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("criterion_repo")
	log.Debug("inserting question: criterion_id=%d", q.CriterionID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO questions (criterion_id, prompt)
VALUES (?, ?)
`, q.CriterionID, q.Prompt)
	if err != nil {
		log.Error("failed to insert question: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}
