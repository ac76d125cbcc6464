package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
)

type unitRepository struct {
	db *sql.DB
}

// NewUnitRepository creates a new UnitRepository implementation
func NewUnitRepository(db *sql.DB) repository.UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) Get(ctx context.Context, id int64) (*models.KnowledgeUnit, error) {
	log := logger.FromContext(ctx).WithPrefix("unit_repo")
	log.Debug("getting unit: id=%d", id)

	var u models.KnowledgeUnit
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, unit_type, difficulty, created_at
FROM knowledge_units
WHERE id = ?
`, id).Scan(&u.ID, &u.UserID, &u.Title, &u.UnitType, &u.Difficulty, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("unit not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get unit: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *unitRepository) ListByUser(ctx context.Context, userID int64) ([]models.KnowledgeUnit, error) {
	log := logger.FromContext(ctx).WithPrefix("unit_repo")
	log.Debug("listing units: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, title, unit_type, difficulty, created_at
FROM knowledge_units
WHERE user_id = ?
ORDER BY created_at ASC
`, userID)
	if err != nil {
		log.Error("failed to list units: %v", err)
		return nil, err
	}
	defer rows.Close()

	var units []models.KnowledgeUnit
	for rows.Next() {
		var u models.KnowledgeUnit
		if err := rows.Scan(&u.ID, &u.UserID, &u.Title, &u.UnitType, &u.Difficulty, &u.CreatedAt); err != nil {
			log.Error("failed to scan unit row: %v", err)
			return nil, err
		}
		units = append(units, u)
	}
	log.Debug("found %d units", len(units))
	return units, rows.Err()
}

func (r *unitRepository) Insert(ctx context.Context, unit models.KnowledgeUnit) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("unit_repo")
	log.Debug("inserting unit: title=%s", unit.Title)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO knowledge_units (user_id, title, unit_type, difficulty)
VALUES (?, ?, ?, ?)
`, unit.UserID, unit.Title, unit.UnitType, unit.Difficulty)
	if err != nil {
		log.Error("failed to insert unit: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get unit id: %v", err)
		return 0, err
	}
	log.Debug("unit inserted: id=%d", id)
	return id, nil
}
