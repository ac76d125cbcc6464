package services

import (
	"context"

	"github.com/tomaz/masterly/internal/clock"
	"github.com/tomaz/masterly/internal/errors"
	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/mastery"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
	"github.com/tomaz/masterly/internal/tasks"
)

// TaskService generates daily review task lists from the summary snapshots.
type TaskService interface {
	// RefreshSummaries recomputes every per-unit summary for the user from
	// the authoritative mastery and progress records.
	RefreshSummaries(ctx context.Context, userID int64) error
	GenerateDailyTasks(ctx context.Context, userID int64) (*models.DailyTaskList, error)
	AddMoreTasks(ctx context.Context, userID int64, completion models.CompletionState) (*models.AddMoreResult, error)
}

type taskService struct {
	unitRepo      repository.UnitRepository
	criterionRepo repository.CriterionRepository
	masteryRepo   repository.MasteryRepository
	progressRepo  repository.ProgressRepository
	summaryRepo   repository.SummaryRepository
	prefRepo      repository.PreferenceRepository
	alloc         tasks.Config
	thresholds    mastery.Thresholds
	clk           clock.Clock
}

// NewTaskService creates a new TaskService
func NewTaskService(
	unitRepo repository.UnitRepository,
	criterionRepo repository.CriterionRepository,
	masteryRepo repository.MasteryRepository,
	progressRepo repository.ProgressRepository,
	summaryRepo repository.SummaryRepository,
	prefRepo repository.PreferenceRepository,
	alloc tasks.Config,
	thresholds mastery.Thresholds,
	clk clock.Clock,
) TaskService {
	return &taskService{
		unitRepo:      unitRepo,
		criterionRepo: criterionRepo,
		masteryRepo:   masteryRepo,
		progressRepo:  progressRepo,
		summaryRepo:   summaryRepo,
		prefRepo:      prefRepo,
		alloc:         alloc,
		thresholds:    thresholds,
		clk:           clk,
	}
}

func (s *taskService) RefreshSummaries(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("refreshing summaries: user_id=%d", userID)

	units, err := s.unitRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list units: %v", err)
		return errors.NewInternalError(err)
	}

	progressList, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list unit progress: %v", err)
		return errors.NewInternalError(err)
	}
	progressByUnit := make(map[int64]models.UnitProgress, len(progressList))
	for _, p := range progressList {
		progressByUnit[p.UnitID] = p
	}

	prefs, err := s.preferences(ctx, userID)
	if err != nil {
		return err
	}
	threshold := s.thresholds.For(prefs.Threshold)
	now := s.clk.Now()

	for _, unit := range units {
		stage := models.StageUnderstand
		var progress *models.UnitProgress
		if p, ok := progressByUnit[unit.ID]; ok {
			stage = p.Stage
			progress = &p
		}

		criteria, err := s.criterionRepo.ListByUnitStage(ctx, unit.ID, stage)
		if err != nil {
			log.Error("failed to list criteria: unit_id=%d: %v", unit.ID, err)
			return errors.NewInternalError(err)
		}

		masteries, err := s.masteryRepo.ListByUnit(ctx, userID, unit.ID)
		if err != nil {
			log.Error("failed to list mastery records: unit_id=%d: %v", unit.ID, err)
			return errors.NewInternalError(err)
		}
		masteredByCriterion := make(map[int64]bool, len(masteries))
		for _, m := range masteries {
			masteredByCriterion[m.CriterionID] = m.IsMastered
		}

		var totalWeight, masteredWeight float64
		masteredCount := 0
		for _, c := range criteria {
			totalWeight += c.Weight
			if masteredByCriterion[c.ID] {
				masteredWeight += c.Weight
				masteredCount++
			}
		}
		weighted := mastery.WeightedMastery(totalWeight, masteredWeight)
		canProgress := len(criteria) > 0 && masteredCount == len(criteria) && weighted >= threshold

		summary := models.DailySummary{
			UserID:           userID,
			UnitID:           unit.ID,
			Title:            unit.Title,
			Stage:            stage,
			WeightedMastery:  weighted,
			TotalCriteria:    len(criteria),
			MasteredCriteria: masteredCount,
			CanProgress:      canProgress,
			LastCalculated:   now,
		}
		if progress != nil {
			summary.NextReviewAt = progress.NextReviewAt
		}

		if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
			log.Error("failed to upsert summary: unit_id=%d: %v", unit.ID, err)
			return errors.NewInternalError(err)
		}
	}

	log.Debug("refreshed %d summaries", len(units))
	return nil
}

func (s *taskService) GenerateDailyTasks(ctx context.Context, userID int64) (*models.DailyTaskList, error) {
	log := logger.FromContext(ctx)
	log.Debug("generating daily tasks: user_id=%d", userID)

	if err := s.RefreshSummaries(ctx, userID); err != nil {
		return nil, err
	}

	prefs, err := s.preferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	caps := tasks.Caps{Critical: prefs.CriticalSize, Core: prefs.CoreSize, Plus: prefs.PlusSize}

	due, err := s.summaryRepo.ListDue(ctx, userID, s.clk.Now())
	if err != nil {
		log.Error("failed to list due summaries: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("%d units due for review", len(due))

	buckets := s.alloc.Bucketize(due, caps)

	list := &models.DailyTaskList{
		Tasks:           []models.DailyTask{},
		BucketBreakdown: map[models.Bucket]int{},
	}
	appendBucket := func(bucket models.Bucket, summaries []models.DailySummary, capacity int) error {
		for _, summary := range summaries {
			task, err := s.buildTask(ctx, userID, summary, bucket, capacity, len(summaries))
			if err != nil {
				return err
			}
			list.Tasks = append(list.Tasks, *task)
		}
		list.BucketBreakdown[bucket] = len(summaries)
		return nil
	}
	if err := appendBucket(models.BucketCritical, buckets.Critical, caps.Critical); err != nil {
		return nil, err
	}
	if err := appendBucket(models.BucketCore, buckets.Core, caps.Core); err != nil {
		return nil, err
	}
	if err := appendBucket(models.BucketPlus, buckets.Plus, caps.Plus); err != nil {
		return nil, err
	}
	list.TotalTasks = len(list.Tasks)

	log.Info("generated %d daily tasks: critical=%d core=%d plus=%d",
		list.TotalTasks,
		list.BucketBreakdown[models.BucketCritical],
		list.BucketBreakdown[models.BucketCore],
		list.BucketBreakdown[models.BucketPlus])
	return list, nil
}

func (s *taskService) AddMoreTasks(ctx context.Context, userID int64, completion models.CompletionState) (*models.AddMoreResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding more tasks: user_id=%d", userID)

	for _, bc := range []models.BucketCompletion{completion.Critical, completion.Core, completion.Plus} {
		if bc.TotalAssigned < 0 || bc.CompletedCount < 0 {
			return nil, errors.NewValidationError("completion", "counts cannot be negative")
		}
		if bc.CompletedCount > bc.TotalAssigned {
			return nil, errors.NewValidationError("completion", "completed count cannot exceed assigned count")
		}
	}

	if err := s.RefreshSummaries(ctx, userID); err != nil {
		return nil, err
	}

	prefs, err := s.preferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	due, err := s.summaryRepo.ListDue(ctx, userID, s.clk.Now())
	if err != nil {
		log.Error("failed to list due summaries: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Uncapped per-bucket pools; the allocator skips what was already
	// assigned and enforces the daily limit.
	pools := map[models.Bucket][]models.DailySummary{}
	for _, summary := range due {
		b := s.alloc.BucketFor(summary.WeightedMastery)
		pools[b] = append(pools[b], summary)
	}

	buildPool := func(bucket models.Bucket, capacity int) ([]models.DailyTask, error) {
		summaries := pools[bucket]
		out := make([]models.DailyTask, 0, len(summaries))
		for _, summary := range summaries {
			task, err := s.buildTask(ctx, userID, summary, bucket, capacity, len(summaries))
			if err != nil {
				return nil, err
			}
			out = append(out, *task)
		}
		return out, nil
	}
	critical, err := buildPool(models.BucketCritical, prefs.CriticalSize)
	if err != nil {
		return nil, err
	}
	core, err := buildPool(models.BucketCore, prefs.CoreSize)
	if err != nil {
		return nil, err
	}
	plus, err := buildPool(models.BucketPlus, prefs.PlusSize)
	if err != nil {
		return nil, err
	}

	result := s.alloc.PickAdditional(tasks.AddMoreInput{
		Critical:   critical,
		Core:       core,
		Plus:       plus,
		Completion: completion,
		Increment:  prefs.AddMoreIncrement,
		MaxDaily:   prefs.MaxDailyLimit,
	})

	log.Info("add-more picked %d tasks from %s", len(result.Tasks), result.BucketSource)
	return &result, nil
}

// buildTask sizes the question quota for a due unit and runs question
// selection over its current-stage criteria.
func (s *taskService) buildTask(ctx context.Context, userID int64, summary models.DailySummary, bucket models.Bucket, bucketCap, unitsInBucket int) (*models.DailyTask, error) {
	log := logger.FromContext(ctx)

	quota := s.alloc.QuestionCount(summary.WeightedMastery, bucketCap, unitsInBucket)

	criteria, err := s.criterionRepo.ListForSelection(ctx, summary.UnitID, summary.Stage, userID)
	if err != nil {
		log.Error("failed to load criteria for selection: unit_id=%d: %v", summary.UnitID, err)
		return nil, errors.NewInternalError(err)
	}
	questions := s.alloc.SelectQuestions(criteria, quota)
	if questions == nil {
		// A unit with no authored questions still appears in the list.
		questions = []models.Question{}
	}

	return &models.DailyTask{
		UnitID:          summary.UnitID,
		Title:           summary.Title,
		Stage:           summary.Stage,
		WeightedMastery: summary.WeightedMastery,
		NextReviewAt:    summary.NextReviewAt,
		Bucket:          bucket,
		QuestionCount:   quota,
		Questions:       questions,
	}, nil
}

// preferences returns the user's stored preferences, falling back to the
// defaults without persisting them.
func (s *taskService) preferences(ctx context.Context, userID int64) (models.BucketPreferences, error) {
	prefs, err := s.prefRepo.Get(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get preferences: %v", err)
		return models.BucketPreferences{}, errors.NewInternalError(err)
	}
	if prefs == nil {
		return models.DefaultBucketPreferences(userID), nil
	}
	return *prefs, nil
}
