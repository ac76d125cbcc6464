package services

import (
	"context"
	"fmt"

	"github.com/tomaz/masterly/internal/errors"
	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
)

// PreferenceService handles per-user bucket preferences.
type PreferenceService interface {
	// GetPreferences returns the stored preferences, creating the defaults
	// on first access.
	GetPreferences(ctx context.Context, userID int64) (*models.BucketPreferences, error)
	UpdatePreferences(ctx context.Context, prefs models.BucketPreferences) (*models.BucketPreferences, error)
}

type preferenceService struct {
	prefRepo repository.PreferenceRepository
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(prefRepo repository.PreferenceRepository) PreferenceService {
	return &preferenceService{prefRepo: prefRepo}
}

func (s *preferenceService) GetPreferences(ctx context.Context, userID int64) (*models.BucketPreferences, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting preferences: user_id=%d", userID)

	prefs, err := s.prefRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get preferences: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if prefs != nil {
		return prefs, nil
	}

	defaults := models.DefaultBucketPreferences(userID)
	if err := s.prefRepo.Upsert(ctx, defaults); err != nil {
		log.Error("failed to store default preferences: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("created default preferences: user_id=%d", userID)
	return &defaults, nil
}

func (s *preferenceService) UpdatePreferences(ctx context.Context, prefs models.BucketPreferences) (*models.BucketPreferences, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating preferences: user_id=%d", prefs.UserID)

	if err := validatePreferences(prefs); err != nil {
		return nil, err
	}

	if err := s.prefRepo.Upsert(ctx, prefs); err != nil {
		log.Error("failed to update preferences: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &prefs, nil
}

func validatePreferences(prefs models.BucketPreferences) error {
	if prefs.CriticalSize < 0 || prefs.CoreSize < 0 || prefs.PlusSize < 0 {
		return errors.NewValidationError("bucket sizes", "cannot be negative")
	}
	if prefs.AddMoreIncrement < 1 {
		return errors.NewValidationError("add_more_increment", "must be at least 1")
	}
	if prefs.MaxDailyLimit < 1 {
		return errors.NewValidationError("max_daily_limit", "must be at least 1")
	}
	if prefs.CriticalSize+prefs.CoreSize+prefs.PlusSize > prefs.MaxDailyLimit {
		return errors.NewValidationError("bucket sizes", "combined size cannot exceed max_daily_limit")
	}
	if !prefs.Threshold.Valid() {
		return errors.NewValidationError("threshold", fmt.Sprintf("unknown profile %q", prefs.Threshold))
	}
	return nil
}
