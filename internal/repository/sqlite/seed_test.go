package sqlite_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomaz/masterly/internal/models"
)

// Seed helpers shared by the repository suites. They insert directly so the
// tests exercise one repository at a time.

func seedUser(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO users (name) VALUES (?)`, "learner")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedUnit(t *testing.T, db *sql.DB, userID int64, title string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO knowledge_units (user_id, title) VALUES (?, ?)`, userID, title)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedCriterion(t *testing.T, db *sql.DB, unitID int64, stage models.Stage, weight float64) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO mastery_criteria (unit_id, stage, weight) VALUES (?, ?, ?)`,
		unitID, string(stage), weight)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedQuestion(t *testing.T, db *sql.DB, criterionID int64, prompt string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO questions (criterion_id, prompt) VALUES (?, ?)`, criterionID, prompt)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
