package repository

import (
	"context"
	"time"

	"github.com/tomaz/masterly/internal/models"
)

// UnitRepository handles knowledge unit data access
type UnitRepository interface {
	Get(ctx context.Context, id int64) (*models.KnowledgeUnit, error)
	ListByUser(ctx context.Context, userID int64) ([]models.KnowledgeUnit, error)
	Insert(ctx context.Context, unit models.KnowledgeUnit) (int64, error)
}

// CriterionRepository handles mastery criterion and question data access
type CriterionRepository interface {
	Get(ctx context.Context, id int64) (*models.MasteryCriterion, error)
	ListByUnit(ctx context.Context, unitID int64) ([]models.MasteryCriterion, error)
	ListByUnitStage(ctx context.Context, unitID int64, stage models.Stage) ([]models.MasteryCriterion, error)
	// ListForSelection returns a stage's criteria with their questions and
	// the user's mastery flag, ordered by weight descending then criterion
	// age ascending; question lists are oldest first.
	ListForSelection(ctx context.Context, unitID int64, stage models.Stage, userID int64) ([]models.CriterionWithQuestions, error)
	Insert(ctx context.Context, criterion models.MasteryCriterion) (int64, error)
	InsertQuestion(ctx context.Context, question models.Question) (int64, error)
}

// MasteryRepository handles per-user criterion mastery state
type MasteryRepository interface {
	Get(ctx context.Context, userID, criterionID int64) (*models.CriterionMastery, error)
	GetOrCreate(ctx context.Context, userID, criterionID int64) (*models.CriterionMastery, error)
	Update(ctx context.Context, mastery models.CriterionMastery) error
	ListByUnit(ctx context.Context, userID, unitID int64) ([]models.CriterionMastery, error)
	// ResetAtOrAboveStage clears mastery certification for the user's
	// criteria of the unit at or above the given stage.
	ResetAtOrAboveStage(ctx context.Context, userID, unitID int64, stage models.Stage) error
}

// ProgressRepository handles per-user unit scheduling state
type ProgressRepository interface {
	Get(ctx context.Context, userID, unitID int64) (*models.UnitProgress, error)
	Upsert(ctx context.Context, progress models.UnitProgress) (int64, error)
	Update(ctx context.Context, progress models.UnitProgress) error
	UpdateStage(ctx context.Context, userID, unitID int64, stage models.Stage) error
	ListByUser(ctx context.Context, userID int64) ([]models.UnitProgress, error)
	InsertHistory(ctx context.Context, userID, unitID int64, criterionID *int64, isCorrect bool, reviewedAt time.Time) error
}

// PinnedRepository handles pinned review overrides
type PinnedRepository interface {
	Get(ctx context.Context, userID, unitID int64) (*models.PinnedReview, error)
	Upsert(ctx context.Context, pin models.PinnedReview) error
	// Delete removes the pin; removed is false when there was nothing to
	// remove (a no-op, not an error).
	Delete(ctx context.Context, userID, unitID int64) (removed bool, err error)
	ListByUser(ctx context.Context, userID int64) ([]models.PinnedReviewDetail, error)
}

// SummaryRepository handles the derived daily summary snapshots
type SummaryRepository interface {
	Upsert(ctx context.Context, summary models.DailySummary) error
	// ListDue returns tracked summaries with next_review_at <= now, most
	// overdue and least mastered first.
	ListDue(ctx context.Context, userID int64, now time.Time) ([]models.DailySummary, error)
	ListByUser(ctx context.Context, userID int64) ([]models.DailySummary, error)
}

// PreferenceRepository handles per-user bucket preferences
type PreferenceRepository interface {
	Get(ctx context.Context, userID int64) (*models.BucketPreferences, error)
	Upsert(ctx context.Context, prefs models.BucketPreferences) error
}
