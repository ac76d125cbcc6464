package tasks_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/tasks"
)

func TestBucketFor_Boundaries(t *testing.T) {
	cfg := tasks.DefaultConfig()

	tests := []struct {
		mastery float64
		want    models.Bucket
	}{
		{0.0, models.BucketCritical},
		{0.39, models.BucketCritical},
		{0.4, models.BucketCore},
		{0.79, models.BucketCore},
		{0.8, models.BucketPlus},
		{1.0, models.BucketPlus},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.BucketFor(tt.mastery), "mastery %.2f", tt.mastery)
	}
}

func summaryWithMastery(unitID int64, mastery float64) models.DailySummary {
	return models.DailySummary{
		UnitID:          unitID,
		Title:           fmt.Sprintf("Unit %d", unitID),
		Stage:           models.StageUnderstand,
		WeightedMastery: mastery,
	}
}

func TestBucketize_SkipsWhenFull(t *testing.T) {
	cfg := tasks.DefaultConfig()

	// Twelve critical-scoring units with a cap of ten: the last two are
	// skipped, not pushed into another bucket.
	var summaries []models.DailySummary
	for i := int64(1); i <= 12; i++ {
		summaries = append(summaries, summaryWithMastery(i, 0.1))
	}
	summaries = append(summaries, summaryWithMastery(13, 0.5))

	b := cfg.Bucketize(summaries, tasks.Caps{Critical: 10, Core: 5, Plus: 5})

	require.Len(t, b.Critical, 10)
	assert.Equal(t, int64(1), b.Critical[0].UnitID)
	assert.Equal(t, int64(10), b.Critical[9].UnitID)
	require.Len(t, b.Core, 1)
	assert.Equal(t, int64(13), b.Core[0].UnitID)
	assert.Empty(t, b.Plus)
}

func TestBucketize_PreservesInputOrder(t *testing.T) {
	cfg := tasks.DefaultConfig()

	summaries := []models.DailySummary{
		summaryWithMastery(1, 0.9),
		summaryWithMastery(2, 0.1),
		summaryWithMastery(3, 0.5),
		summaryWithMastery(4, 0.2),
	}
	b := cfg.Bucketize(summaries, tasks.Caps{Critical: 10, Core: 10, Plus: 10})

	require.Len(t, b.Critical, 2)
	assert.Equal(t, int64(2), b.Critical[0].UnitID)
	assert.Equal(t, int64(4), b.Critical[1].UnitID)
	require.Len(t, b.Core, 1)
	require.Len(t, b.Plus, 1)

	selected := b.Selected()
	require.Len(t, selected, 4)
	assert.Equal(t, int64(2), selected[0].UnitID, "critical first")
	assert.Equal(t, int64(1), selected[3].UnitID, "plus last")
}

func TestQuestionCount(t *testing.T) {
	cfg := tasks.DefaultConfig()

	// Base share 10/5 = 2, multiplier 1.2 + 0.8*(1-0.2) = 1.84, round(3.68) = 4.
	assert.Equal(t, 4, cfg.QuestionCount(0.2, 10, 5))
	// Fully mastered unit still gets the minimum multiplier: round(2*1.2) = 2.
	assert.Equal(t, 2, cfg.QuestionCount(1.0, 10, 5))
	// Tiny cap floors at one question.
	assert.Equal(t, 1, cfg.QuestionCount(1.0, 1, 5))
	// Zero units in bucket treated as one.
	assert.Equal(t, 12, cfg.QuestionCount(1.0, 10, 0))
}

func criterionWithQuestions(id int64, weight float64, mastered bool, questionCount int) models.CriterionWithQuestions {
	cr := models.CriterionWithQuestions{
		MasteryCriterion: models.MasteryCriterion{
			ID:     id,
			Weight: weight,
		},
		IsMastered: mastered,
	}
	for i := 0; i < questionCount; i++ {
		cr.Questions = append(cr.Questions, models.Question{
			ID:          id*100 + int64(i),
			CriterionID: id,
		})
	}
	return cr
}

func TestSelectQuestions_PhaseOrder(t *testing.T) {
	cfg := tasks.DefaultConfig()

	criteria := []models.CriterionWithQuestions{
		criterionWithQuestions(1, 0.9, false, 3), // phase 1: up to 2
		criterionWithQuestions(2, 0.9, true, 3),  // mastered, skips phase 1
		criterionWithQuestions(3, 0.5, false, 2), // phase 2: 1
		criterionWithQuestions(4, 0.1, false, 2), // phase 3: 1
	}

	selected := cfg.SelectQuestions(criteria, 10)
	require.Len(t, selected, 5)

	// High-weight unmastered first, two questions.
	assert.Equal(t, int64(1), selected[0].CriterionID)
	assert.Equal(t, int64(1), selected[1].CriterionID)
	// Medium weight next, one question.
	assert.Equal(t, int64(3), selected[2].CriterionID)
	// Phase 3 picks up anything unused with questions, in order. Criteria
	// consumed in earlier phases are skipped.
	assert.Equal(t, int64(2), selected[3].CriterionID)
	assert.Equal(t, int64(4), selected[4].CriterionID)
}

func TestSelectQuestions_QuotaLimits(t *testing.T) {
	cfg := tasks.DefaultConfig()

	criteria := []models.CriterionWithQuestions{
		criterionWithQuestions(1, 0.9, false, 5),
		criterionWithQuestions(2, 0.8, false, 5),
	}
	selected := cfg.SelectQuestions(criteria, 3)
	require.Len(t, selected, 3)
	assert.Equal(t, int64(1), selected[0].CriterionID)
	assert.Equal(t, int64(1), selected[1].CriterionID)
	assert.Equal(t, int64(2), selected[2].CriterionID)
}

func TestSelectQuestions_EmptyQuestionSets(t *testing.T) {
	cfg := tasks.DefaultConfig()

	criteria := []models.CriterionWithQuestions{
		criterionWithQuestions(1, 0.9, false, 0),
		criterionWithQuestions(2, 0.5, false, 0),
	}
	selected := cfg.SelectQuestions(criteria, 5)
	assert.Empty(t, selected)
}

func taskList(bucket models.Bucket, n int) []models.DailyTask {
	tasksOut := make([]models.DailyTask, n)
	for i := range tasksOut {
		tasksOut[i] = models.DailyTask{
			UnitID: int64(i + 1),
			Bucket: bucket,
		}
	}
	return tasksOut
}

func TestPickAdditional_DailyCapReached(t *testing.T) {
	cfg := tasks.DefaultConfig()

	result := cfg.PickAdditional(tasks.AddMoreInput{
		Critical: taskList(models.BucketCritical, 20),
		Completion: models.CompletionState{
			Critical: models.BucketCompletion{TotalAssigned: 10, CompletedCount: 10},
			Core:     models.BucketCompletion{TotalAssigned: 10, CompletedCount: 5},
			Plus:     models.BucketCompletion{TotalAssigned: 5, CompletedCount: 0},
		},
		Increment: 5,
		MaxDaily:  25,
	})

	assert.False(t, result.CanAddMore)
	assert.Empty(t, result.Tasks)
	assert.Contains(t, result.Message, "daily limit")
}

func TestPickAdditional_CriticalSource(t *testing.T) {
	cfg := tasks.DefaultConfig()

	result := cfg.PickAdditional(tasks.AddMoreInput{
		Critical: taskList(models.BucketCritical, 10),
		Core:     taskList(models.BucketCore, 5),
		Completion: models.CompletionState{
			Critical: models.BucketCompletion{TotalAssigned: 5, CompletedCount: 5},
			Core:     models.BucketCompletion{TotalAssigned: 3, CompletedCount: 0},
		},
		Increment: 3,
		MaxDaily:  25,
	})

	assert.Equal(t, "critical", result.BucketSource)
	require.Len(t, result.Tasks, 3)
	// Picks resume past the already-assigned prefix.
	assert.Equal(t, int64(6), result.Tasks[0].UnitID)
	assert.True(t, result.CanAddMore)
	assert.Equal(t, 3, result.IncrementSize)
	assert.InDelta(t, 1.0, result.CompletionRates[models.BucketCritical], 1e-9)
	assert.Contains(t, result.Message, "critical")
}

func TestPickAdditional_MixedFallback(t *testing.T) {
	cfg := tasks.DefaultConfig()

	result := cfg.PickAdditional(tasks.AddMoreInput{
		Critical: taskList(models.BucketCritical, 10),
		Core:     taskList(models.BucketCore, 10),
		Plus:     taskList(models.BucketPlus, 10),
		Completion: models.CompletionState{
			Critical: models.BucketCompletion{TotalAssigned: 4, CompletedCount: 1},
			Core:     models.BucketCompletion{TotalAssigned: 4, CompletedCount: 1},
			Plus:     models.BucketCompletion{TotalAssigned: 2, CompletedCount: 0},
		},
		Increment: 5,
		MaxDaily:  25,
	})

	assert.Equal(t, "mixed", result.BucketSource)
	require.Len(t, result.Tasks, 5)
	// ceil(5*0.4)=2 critical, 2 core, then the plus share is trimmed to
	// the increment.
	assert.Equal(t, models.BucketCritical, result.Tasks[0].Bucket)
	assert.Equal(t, models.BucketCritical, result.Tasks[1].Bucket)
	assert.Equal(t, models.BucketCore, result.Tasks[2].Bucket)
	assert.Equal(t, models.BucketCore, result.Tasks[3].Bucket)
	assert.Equal(t, models.BucketPlus, result.Tasks[4].Bucket)
}

func TestPickAdditional_IncrementClampedToRemaining(t *testing.T) {
	cfg := tasks.DefaultConfig()

	result := cfg.PickAdditional(tasks.AddMoreInput{
		Critical: taskList(models.BucketCritical, 20),
		Completion: models.CompletionState{
			Critical: models.BucketCompletion{TotalAssigned: 10, CompletedCount: 9},
		},
		Increment: 5,
		MaxDaily:  12,
	})

	assert.Equal(t, "critical", result.BucketSource)
	assert.Len(t, result.Tasks, 2, "only two slots remain under the daily cap")
	assert.False(t, result.CanAddMore)
}

func TestPickAdditional_ExhaustedPool(t *testing.T) {
	cfg := tasks.DefaultConfig()

	// High critical rate but the pool is fully assigned already: falls
	// through to the mixed blend, which also has nothing to give.
	result := cfg.PickAdditional(tasks.AddMoreInput{
		Critical: taskList(models.BucketCritical, 5),
		Completion: models.CompletionState{
			Critical: models.BucketCompletion{TotalAssigned: 5, CompletedCount: 5},
		},
		Increment: 3,
		MaxDaily:  25,
	})

	assert.Equal(t, "mixed", result.BucketSource)
	assert.Empty(t, result.Tasks)
	assert.Equal(t, 0, result.IncrementSize)
}
