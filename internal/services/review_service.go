package services

import (
	"context"
	"time"

	"github.com/tomaz/masterly/internal/clock"
	"github.com/tomaz/masterly/internal/errors"
	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/mastery"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
	"github.com/tomaz/masterly/internal/scheduler"
	"github.com/tomaz/masterly/internal/worker"
)

// ReviewService handles single review outcomes and pinned review overrides.
type ReviewService interface {
	ProcessOutcome(ctx context.Context, userID int64, outcome models.ReviewOutcome) (*models.ReviewResult, error)
	PinReview(ctx context.Context, userID, unitID int64, reviewAt time.Time) error
	UnpinReview(ctx context.Context, userID, unitID int64) (bool, error)
	ListPinnedReviews(ctx context.Context, userID int64) ([]models.PinnedReviewDetail, error)
}

type reviewService struct {
	unitRepo      repository.UnitRepository
	criterionRepo repository.CriterionRepository
	masteryRepo   repository.MasteryRepository
	progressRepo  repository.ProgressRepository
	pinnedRepo    repository.PinnedRepository
	scorer        *mastery.Scorer
	sched         *scheduler.Scheduler
	clk           clock.Clock
	minGapDays    int
	pool          *worker.Pool
	refresher     worker.SummaryRefresher
}

// NewReviewService creates a new ReviewService. pool and refresher may be
// nil, in which case summary refresh is skipped (tests exercise it directly).
func NewReviewService(
	unitRepo repository.UnitRepository,
	criterionRepo repository.CriterionRepository,
	masteryRepo repository.MasteryRepository,
	progressRepo repository.ProgressRepository,
	pinnedRepo repository.PinnedRepository,
	scorer *mastery.Scorer,
	sched *scheduler.Scheduler,
	clk clock.Clock,
	minGapDays int,
	pool *worker.Pool,
	refresher worker.SummaryRefresher,
) ReviewService {
	return &reviewService{
		unitRepo:      unitRepo,
		criterionRepo: criterionRepo,
		masteryRepo:   masteryRepo,
		progressRepo:  progressRepo,
		pinnedRepo:    pinnedRepo,
		scorer:        scorer,
		sched:         sched,
		clk:           clk,
		minGapDays:    minGapDays,
		pool:          pool,
		refresher:     refresher,
	}
}

func (s *reviewService) ProcessOutcome(ctx context.Context, userID int64, outcome models.ReviewOutcome) (*models.ReviewResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("processing review outcome: unit_id=%d, correct=%t", outcome.UnitID, outcome.IsCorrect)

	now := s.clk.Now()
	if outcome.Timestamp != nil {
		now = *outcome.Timestamp
	}

	progress, err := s.progressRepo.Get(ctx, userID, outcome.UnitID)
	if err != nil {
		log.Error("failed to get unit progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if progress == nil {
		return nil, errors.NewNotFoundError("unit progress", outcome.UnitID)
	}

	// Criterion state goes first: a too-soon attempt rejects the whole
	// outcome before anything is written.
	if outcome.CriterionID != nil {
		if err := s.applyCriterionAttempt(ctx, userID, *outcome.CriterionID, outcome.IsCorrect, now); err != nil {
			return nil, err
		}
	}

	pinnedAt, err := s.pinnedDate(ctx, userID, outcome.UnitID)
	if err != nil {
		return nil, err
	}

	out := s.sched.Next(*progress, outcome.IsCorrect, pinnedAt, now)
	scheduler.Apply(progress, out, now)

	if err := s.progressRepo.Update(ctx, *progress); err != nil {
		log.Error("failed to update unit progress: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if err := s.progressRepo.InsertHistory(ctx, userID, outcome.UnitID, outcome.CriterionID, outcome.IsCorrect, now); err != nil {
		log.Warn("failed to store review history: %v", err)
		// Don't fail the review if history storage fails
	}

	s.enqueueRefresh(userID)

	log.Debug("scheduled next review in %d days (pinned=%t)", out.IntervalDays, out.Pinned)
	return &models.ReviewResult{
		UnitID:            outcome.UnitID,
		NextReviewAt:      out.NextReviewAt,
		IntervalDays:      out.IntervalDays,
		ReviewCount:       out.ReviewCount,
		SuccessfulReviews: out.SuccessfulReviews,
		Pinned:            out.Pinned,
	}, nil
}

func (s *reviewService) applyCriterionAttempt(ctx context.Context, userID, criterionID int64, isCorrect bool, now time.Time) error {
	log := logger.FromContext(ctx)

	criterion, err := s.criterionRepo.Get(ctx, criterionID)
	if err != nil {
		log.Error("failed to get criterion: %v", err)
		return errors.NewInternalError(err)
	}
	if criterion == nil {
		return errors.NewNotFoundError("mastery criterion", criterionID)
	}

	state, err := s.masteryRepo.GetOrCreate(ctx, userID, criterionID)
	if err != nil {
		log.Error("failed to load mastery state: %v", err)
		return errors.NewInternalError(err)
	}

	sample := 0.0
	if isCorrect {
		sample = 1.0
	}
	res, err := s.scorer.Apply(*state, sample, criterion.MasteryThreshold, now)
	if err == mastery.ErrTooSoon {
		log.Debug("attempt too soon: criterion_id=%d", criterionID)
		return errors.NewTooSoonError(s.minGapDays)
	}
	if err != nil {
		return errors.NewInternalError(err)
	}
	if res.NewlyMastered {
		log.Info("criterion mastered: criterion_id=%d, score=%.2f", criterionID, res.State.Score)
	}

	if err := s.masteryRepo.Update(ctx, res.State); err != nil {
		log.Error("failed to update mastery state: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *reviewService) pinnedDate(ctx context.Context, userID, unitID int64) (*time.Time, error) {
	pin, err := s.pinnedRepo.Get(ctx, userID, unitID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get pinned review: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if pin == nil {
		return nil, nil
	}
	return &pin.ReviewAt, nil
}

func (s *reviewService) PinReview(ctx context.Context, userID, unitID int64, reviewAt time.Time) error {
	log := logger.FromContext(ctx)
	log.Debug("pinning review: unit_id=%d, review_at=%s", unitID, reviewAt.Format(time.RFC3339))

	if reviewAt.IsZero() {
		return errors.NewValidationError("review_at", "cannot be zero")
	}

	unit, err := s.unitRepo.Get(ctx, unitID)
	if err != nil {
		log.Error("failed to get unit: %v", err)
		return errors.NewInternalError(err)
	}
	if unit == nil {
		return errors.NewNotFoundError("knowledge unit", unitID)
	}

	if err := s.pinnedRepo.Upsert(ctx, models.PinnedReview{
		UserID:   userID,
		UnitID:   unitID,
		ReviewAt: reviewAt,
	}); err != nil {
		log.Error("failed to pin review: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *reviewService) UnpinReview(ctx context.Context, userID, unitID int64) (bool, error) {
	log := logger.FromContext(ctx)
	log.Debug("unpinning review: unit_id=%d", unitID)

	removed, err := s.pinnedRepo.Delete(ctx, userID, unitID)
	if err != nil {
		log.Error("failed to unpin review: %v", err)
		return false, errors.NewInternalError(err)
	}
	if !removed {
		log.Debug("no pin to remove: unit_id=%d", unitID)
	}
	return removed, nil
}

func (s *reviewService) ListPinnedReviews(ctx context.Context, userID int64) ([]models.PinnedReviewDetail, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing pinned reviews")

	pins, err := s.pinnedRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list pinned reviews: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return pins, nil
}

func (s *reviewService) enqueueRefresh(userID int64) {
	if s.pool == nil || s.refresher == nil {
		return
	}
	s.pool.Submit(&worker.SummaryRefreshJob{Refresher: s.refresher, UserID: userID})
}
