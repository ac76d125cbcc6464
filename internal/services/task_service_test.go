package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tomaz/masterly/internal/clock"
	apperrors "github.com/tomaz/masterly/internal/errors"
	"github.com/tomaz/masterly/internal/mastery"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/services"
	"github.com/tomaz/masterly/internal/tasks"
	"github.com/tomaz/masterly/internal/testutil/mocks"
)

var taskNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type taskFixture struct {
	unitRepo     *mocks.MockUnitRepository
	critRepo     *mocks.MockCriterionRepository
	masteryRepo  *mocks.MockMasteryRepository
	progressRepo *mocks.MockProgressRepository
	summaryRepo  *mocks.MockSummaryRepository
	prefRepo     *mocks.MockPreferenceRepository
	svc          services.TaskService
}

func newTaskFixture() *taskFixture {
	f := &taskFixture{
		unitRepo:     new(mocks.MockUnitRepository),
		critRepo:     new(mocks.MockCriterionRepository),
		masteryRepo:  new(mocks.MockMasteryRepository),
		progressRepo: new(mocks.MockProgressRepository),
		summaryRepo:  new(mocks.MockSummaryRepository),
		prefRepo:     new(mocks.MockPreferenceRepository),
	}
	f.svc = services.NewTaskService(
		f.unitRepo, f.critRepo, f.masteryRepo, f.progressRepo, f.summaryRepo, f.prefRepo,
		tasks.DefaultConfig(),
		mastery.DefaultThresholds(),
		clock.NewFixed(taskNow),
	)
	return f
}

// expectEmptyRefresh satisfies the summary refresh that runs before task
// generation without seeding any units.
func (f *taskFixture) expectEmptyRefresh() {
	f.unitRepo.On("ListByUser", mock.Anything, int64(7)).Return(nil, nil)
	f.progressRepo.On("ListByUser", mock.Anything, int64(7)).Return(nil, nil)
	f.prefRepo.On("Get", mock.Anything, int64(7)).Return(nil, nil)
}

func TestRefreshSummaries_ComputesWeightedMastery(t *testing.T) {
	f := newTaskFixture()
	next := taskNow.AddDate(0, 0, 2)

	f.unitRepo.On("ListByUser", mock.Anything, int64(7)).Return([]models.KnowledgeUnit{
		{ID: 3, UserID: 7, Title: "Maps"},
	}, nil)
	f.progressRepo.On("ListByUser", mock.Anything, int64(7)).Return([]models.UnitProgress{
		{UnitID: 3, UserID: 7, Stage: models.StageUse, NextReviewAt: &next},
	}, nil)
	f.prefRepo.On("Get", mock.Anything, int64(7)).Return(nil, nil)
	f.critRepo.On("ListByUnitStage", mock.Anything, int64(3), models.StageUse).Return([]models.MasteryCriterion{
		{ID: 1, UnitID: 3, Stage: models.StageUse, Weight: 0.6},
		{ID: 2, UnitID: 3, Stage: models.StageUse, Weight: 0.4},
	}, nil)
	f.masteryRepo.On("ListByUnit", mock.Anything, int64(7), int64(3)).Return([]models.CriterionMastery{
		{CriterionID: 1, IsMastered: true},
	}, nil)
	f.summaryRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s models.DailySummary) bool {
		return s.UnitID == 3 &&
			s.Stage == models.StageUse &&
			s.TotalCriteria == 2 &&
			s.MasteredCriteria == 1 &&
			s.WeightedMastery > 0.59 && s.WeightedMastery < 0.61 &&
			!s.CanProgress &&
			s.NextReviewAt != nil &&
			s.LastCalculated.Equal(taskNow)
	})).Return(nil)

	require.NoError(t, f.svc.RefreshSummaries(context.Background(), 7))
	f.summaryRepo.AssertExpectations(t)
}

func TestRefreshSummaries_FullMasteryCanProgress(t *testing.T) {
	f := newTaskFixture()

	f.unitRepo.On("ListByUser", mock.Anything, int64(7)).Return([]models.KnowledgeUnit{
		{ID: 3, UserID: 7, Title: "Maps"},
	}, nil)
	// No progress record: the unit sits at the first stage untracked.
	f.progressRepo.On("ListByUser", mock.Anything, int64(7)).Return(nil, nil)
	f.prefRepo.On("Get", mock.Anything, int64(7)).Return(nil, nil)
	f.critRepo.On("ListByUnitStage", mock.Anything, int64(3), models.StageUnderstand).Return([]models.MasteryCriterion{
		{ID: 1, UnitID: 3, Stage: models.StageUnderstand, Weight: 1.0},
	}, nil)
	f.masteryRepo.On("ListByUnit", mock.Anything, int64(7), int64(3)).Return([]models.CriterionMastery{
		{CriterionID: 1, IsMastered: true},
	}, nil)
	f.summaryRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s models.DailySummary) bool {
		return s.Stage == models.StageUnderstand &&
			s.WeightedMastery == 1.0 &&
			s.CanProgress &&
			s.NextReviewAt == nil
	})).Return(nil)

	require.NoError(t, f.svc.RefreshSummaries(context.Background(), 7))
	f.summaryRepo.AssertExpectations(t)
}

func TestGenerateDailyTasks_BucketsAndQuestions(t *testing.T) {
	f := newTaskFixture()
	f.expectEmptyRefresh()

	f.summaryRepo.On("ListDue", mock.Anything, int64(7), taskNow).Return([]models.DailySummary{
		{UserID: 7, UnitID: 1, Title: "Weak", Stage: models.StageUnderstand, WeightedMastery: 0.2},
		{UserID: 7, UnitID: 2, Title: "Middling", Stage: models.StageUnderstand, WeightedMastery: 0.5},
		{UserID: 7, UnitID: 3, Title: "Strong", Stage: models.StageUse, WeightedMastery: 0.9},
	}, nil)

	f.critRepo.On("ListForSelection", mock.Anything, int64(1), models.StageUnderstand, int64(7)).Return(
		[]models.CriterionWithQuestions{
			{
				MasteryCriterion: models.MasteryCriterion{ID: 10, UnitID: 1, Weight: 0.9},
				Questions: []models.Question{
					{ID: 100, CriterionID: 10, Prompt: "q1"},
					{ID: 101, CriterionID: 10, Prompt: "q2"},
				},
			},
		}, nil)
	// A unit with no authored questions still gets a task entry.
	f.critRepo.On("ListForSelection", mock.Anything, int64(2), models.StageUnderstand, int64(7)).Return(nil, nil)
	f.critRepo.On("ListForSelection", mock.Anything, int64(3), models.StageUse, int64(7)).Return(
		[]models.CriterionWithQuestions{
			{
				MasteryCriterion: models.MasteryCriterion{ID: 30, UnitID: 3, Weight: 0.5},
				Questions:        []models.Question{{ID: 300, CriterionID: 30, Prompt: "q3"}},
			},
		}, nil)

	list, err := f.svc.GenerateDailyTasks(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 3, list.TotalTasks)
	assert.Equal(t, map[models.Bucket]int{
		models.BucketCritical: 1,
		models.BucketCore:     1,
		models.BucketPlus:     1,
	}, list.BucketBreakdown)

	require.Len(t, list.Tasks, 3)
	assert.Equal(t, models.BucketCritical, list.Tasks[0].Bucket, "critical tasks lead the list")
	assert.Equal(t, int64(1), list.Tasks[0].UnitID)
	assert.Len(t, list.Tasks[0].Questions, 2)

	assert.Equal(t, int64(2), list.Tasks[1].UnitID)
	assert.NotNil(t, list.Tasks[1].Questions)
	assert.Empty(t, list.Tasks[1].Questions)

	assert.Equal(t, models.BucketPlus, list.Tasks[2].Bucket)
	assert.Len(t, list.Tasks[2].Questions, 1)
}

func TestGenerateDailyTasks_NothingDue(t *testing.T) {
	f := newTaskFixture()
	f.expectEmptyRefresh()

	f.summaryRepo.On("ListDue", mock.Anything, int64(7), taskNow).Return(nil, nil)

	list, err := f.svc.GenerateDailyTasks(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, list.TotalTasks)
	assert.NotNil(t, list.Tasks)
}

func TestAddMoreTasks_RejectsBadCompletionCounts(t *testing.T) {
	f := newTaskFixture()

	_, err := f.svc.AddMoreTasks(context.Background(), 7, models.CompletionState{
		Critical: models.BucketCompletion{TotalAssigned: 2, CompletedCount: 5},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))

	_, err = f.svc.AddMoreTasks(context.Background(), 7, models.CompletionState{
		Plus: models.BucketCompletion{TotalAssigned: -1},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))

	// Validation happens before any data access.
	f.unitRepo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestAddMoreTasks_DrawsFromBestCompletedBucket(t *testing.T) {
	f := newTaskFixture()
	f.expectEmptyRefresh()

	f.summaryRepo.On("ListDue", mock.Anything, int64(7), taskNow).Return([]models.DailySummary{
		{UserID: 7, UnitID: 1, Title: "A", Stage: models.StageUnderstand, WeightedMastery: 0.1},
		{UserID: 7, UnitID: 2, Title: "B", Stage: models.StageUnderstand, WeightedMastery: 0.2},
		{UserID: 7, UnitID: 3, Title: "C", Stage: models.StageUnderstand, WeightedMastery: 0.3},
	}, nil)
	f.critRepo.On("ListForSelection", mock.Anything, mock.Anything, models.StageUnderstand, int64(7)).Return(nil, nil)

	result, err := f.svc.AddMoreTasks(context.Background(), 7, models.CompletionState{
		Critical: models.BucketCompletion{TotalAssigned: 1, CompletedCount: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "critical", result.BucketSource)
	require.Len(t, result.Tasks, 2, "the already-assigned prefix is skipped")
	assert.Equal(t, int64(2), result.Tasks[0].UnitID)
	assert.Equal(t, int64(3), result.Tasks[1].UnitID)
	assert.True(t, result.CanAddMore)
}
