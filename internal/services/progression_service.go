package services

import (
	"context"
	"fmt"

	"github.com/tomaz/masterly/internal/errors"
	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/mastery"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
)

// ProgressionService moves units along the stage ladder.
type ProgressionService interface {
	// CanProgress is side-effect free: it reports whether every criterion
	// at the unit's current stage is mastered and the weighted mastery
	// clears the user's threshold profile.
	CanProgress(ctx context.Context, userID, unitID int64) (*models.ProgressionStatus, error)
	// Progress advances the unit one stage when eligible. Repeated calls
	// and calls at the final stage return no-op results.
	Progress(ctx context.Context, userID, unitID int64) (*models.ProgressionResult, error)
	// Reset moves the unit back to the target stage and clears mastery
	// certification for criteria at or above it. Only an explicit reset
	// does this; outcome processing never demotes a stage.
	Reset(ctx context.Context, userID, unitID int64, target models.Stage) error
}

type progressionService struct {
	unitRepo      repository.UnitRepository
	criterionRepo repository.CriterionRepository
	masteryRepo   repository.MasteryRepository
	progressRepo  repository.ProgressRepository
	prefRepo      repository.PreferenceRepository
	thresholds    mastery.Thresholds
}

// NewProgressionService creates a new ProgressionService
func NewProgressionService(
	unitRepo repository.UnitRepository,
	criterionRepo repository.CriterionRepository,
	masteryRepo repository.MasteryRepository,
	progressRepo repository.ProgressRepository,
	prefRepo repository.PreferenceRepository,
	thresholds mastery.Thresholds,
) ProgressionService {
	return &progressionService{
		unitRepo:      unitRepo,
		criterionRepo: criterionRepo,
		masteryRepo:   masteryRepo,
		progressRepo:  progressRepo,
		prefRepo:      prefRepo,
		thresholds:    thresholds,
	}
}

func (s *progressionService) CanProgress(ctx context.Context, userID, unitID int64) (*models.ProgressionStatus, error) {
	log := logger.FromContext(ctx)
	log.Debug("checking progression: unit_id=%d", unitID)

	unit, err := s.unitRepo.Get(ctx, unitID)
	if err != nil {
		log.Error("failed to get unit: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if unit == nil {
		return nil, errors.NewNotFoundError("knowledge unit", unitID)
	}

	stage := models.StageUnderstand
	progress, err := s.progressRepo.Get(ctx, userID, unitID)
	if err != nil {
		log.Error("failed to get unit progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if progress != nil {
		stage = progress.Stage
	}

	criteria, err := s.criterionRepo.ListByUnitStage(ctx, unitID, stage)
	if err != nil {
		log.Error("failed to list criteria: %v", err)
		return nil, errors.NewInternalError(err)
	}

	masteries, err := s.masteryRepo.ListByUnit(ctx, userID, unitID)
	if err != nil {
		log.Error("failed to list mastery records: %v", err)
		return nil, errors.NewInternalError(err)
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

	threshold, err := s.threshold(ctx, userID)
	if err != nil {
		return nil, err
	}

	_, hasNext := stage.Next()
	status := &models.ProgressionStatus{
		UnitID:           unitID,
		Stage:            stage,
		AtMaxStage:       !hasNext,
		WeightedMastery:  weighted,
		Threshold:        threshold,
		TotalCriteria:    len(criteria),
		MasteredCriteria: masteredCount,
	}
	status.CanProgress = hasNext &&
		len(criteria) > 0 &&
		masteredCount == len(criteria) &&
		weighted >= threshold
	return status, nil
}

func (s *progressionService) Progress(ctx context.Context, userID, unitID int64) (*models.ProgressionResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("attempting progression: unit_id=%d", unitID)

	status, err := s.CanProgress(ctx, userID, unitID)
	if err != nil {
		return nil, err
	}

	result := &models.ProgressionResult{
		UnitID:        unitID,
		PreviousStage: status.Stage,
		Stage:         status.Stage,
	}
	if status.AtMaxStage {
		result.Message = "unit is already at the final stage"
		return result, nil
	}
	if !status.CanProgress {
		result.Message = fmt.Sprintf("not eligible: %d/%d criteria mastered, weighted mastery %.2f (threshold %.2f)",
			status.MasteredCriteria, status.TotalCriteria, status.WeightedMastery, status.Threshold)
		return result, nil
	}

	next, _ := status.Stage.Next()
	if err := s.progressRepo.UpdateStage(ctx, userID, unitID, next); err != nil {
		log.Error("failed to update stage: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("unit advanced: unit_id=%d, %s -> %s", unitID, status.Stage, next)
	result.Stage = next
	result.Advanced = true
	result.Message = fmt.Sprintf("advanced to %s", next)
	return result, nil
}

func (s *progressionService) Reset(ctx context.Context, userID, unitID int64, target models.Stage) error {
	log := logger.FromContext(ctx)
	log.Debug("resetting progression: unit_id=%d, target=%s", unitID, target)

	if !target.Valid() {
		return errors.NewValidationError("stage", fmt.Sprintf("unknown stage %q", target))
	}

	progress, err := s.progressRepo.Get(ctx, userID, unitID)
	if err != nil {
		log.Error("failed to get unit progress: %v", err)
		return errors.NewInternalError(err)
	}
	if progress == nil {
		return errors.NewNotFoundError("unit progress", unitID)
	}

	if err := s.progressRepo.UpdateStage(ctx, userID, unitID, target); err != nil {
		log.Error("failed to update stage: %v", err)
		return errors.NewInternalError(err)
	}
	if err := s.masteryRepo.ResetAtOrAboveStage(ctx, userID, unitID, target); err != nil {
		log.Error("failed to reset mastery records: %v", err)
		return errors.NewInternalError(err)
	}

	log.Info("unit reset: unit_id=%d, %s -> %s", unitID, progress.Stage, target)
	return nil
}

func (s *progressionService) threshold(ctx context.Context, userID int64) (float64, error) {
	prefs, err := s.prefRepo.Get(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get preferences: %v", err)
		return 0, errors.NewInternalError(err)
	}
	profile := models.DefaultBucketPreferences(userID).Threshold
	if prefs != nil {
		profile = prefs.Threshold
	}
	return s.thresholds.For(profile), nil
}
