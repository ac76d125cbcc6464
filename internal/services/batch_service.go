package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tomaz/masterly/internal/clock"
	"github.com/tomaz/masterly/internal/db"
	"github.com/tomaz/masterly/internal/errors"
	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/scheduler"
	"github.com/tomaz/masterly/internal/worker"
)

// BatchService processes a batch of review outcomes in one transaction.
type BatchService interface {
	ProcessBatch(ctx context.Context, userID int64, outcomes []models.ReviewOutcome) ([]models.OutcomeResult, error)
}

type batchService struct {
	db        *db.DB
	sched     *scheduler.Scheduler
	clk       clock.Clock
	validate  *validator.Validate
	pool      *worker.Pool
	refresher worker.SummaryRefresher
}

// NewBatchService creates a new BatchService. pool and refresher may be nil.
func NewBatchService(database *db.DB, sched *scheduler.Scheduler, clk clock.Clock, pool *worker.Pool, refresher worker.SummaryRefresher) BatchService {
	return &batchService{
		db:        database,
		sched:     sched,
		clk:       clk,
		validate:  validator.New(),
		pool:      pool,
		refresher: refresher,
	}
}

// stagedProgress holds a scheduling decision until the end-of-transaction
// write pass.
type stagedProgress struct {
	progress models.UnitProgress
}

type stagedMastery struct {
	criterionID        int64
	attemptCount       int
	successfulAttempts int
	isMastered         bool
	stampMasteredAt    bool
	reviewedAt         time.Time
}

type stagedHistory struct {
	unitID      int64
	criterionID *int64
	isCorrect   bool
	reviewedAt  time.Time
}

// ProcessBatch validates the whole batch up front, then applies every
// outcome inside a single transaction. A missing progress record fails only
// its own item; a storage error aborts the whole batch. Updates are staged
// per item and written in bulk before commit, and results preserve the
// input order.
func (s *batchService) ProcessBatch(ctx context.Context, userID int64, outcomes []models.ReviewOutcome) ([]models.OutcomeResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("processing outcome batch: user_id=%d, size=%d", userID, len(outcomes))

	if err := s.validateBatch(outcomes); err != nil {
		return nil, err
	}

	results := make([]models.OutcomeResult, len(outcomes))
	err := db.Tx(ctx, s.db.DB, func(tx *sql.Tx) error {
		var progressUpdates []stagedProgress
		var masteryUpdates []stagedMastery
		var historyInserts []stagedHistory

		for i, outcome := range outcomes {
			results[i] = models.OutcomeResult{
				UnitID:      outcome.UnitID,
				CriterionID: outcome.CriterionID,
			}

			now := s.clk.Now()
			if outcome.Timestamp != nil {
				now = *outcome.Timestamp
			}

			progress, err := s.progressForUpdate(ctx, tx, userID, outcome.UnitID)
			if err == sql.ErrNoRows {
				results[i].Error = "progress record not found"
				continue
			}
			if err != nil {
				return err
			}

			pinnedAt, err := s.pinnedDate(ctx, tx, userID, outcome.UnitID)
			if err != nil {
				return err
			}

			out := s.sched.Next(progress, outcome.IsCorrect, pinnedAt, now)
			scheduler.Apply(&progress, out, now)
			progressUpdates = append(progressUpdates, stagedProgress{progress: progress})

			if outcome.CriterionID != nil {
				staged, err := s.stageCriterion(ctx, tx, userID, *outcome.CriterionID, outcome.IsCorrect, now)
				if err != nil {
					return err
				}
				masteryUpdates = append(masteryUpdates, staged)
			}

			historyInserts = append(historyInserts, stagedHistory{
				unitID:      outcome.UnitID,
				criterionID: outcome.CriterionID,
				isCorrect:   outcome.IsCorrect,
				reviewedAt:  now,
			})

			results[i].Success = true
			results[i].ReviewCount = out.ReviewCount
			results[i].SuccessfulReviews = out.SuccessfulReviews
			next := out.NextReviewAt
			results[i].NextReviewAt = &next
		}

		if err := s.writeProgress(ctx, tx, progressUpdates); err != nil {
			return err
		}
		if err := s.writeMastery(ctx, tx, userID, masteryUpdates); err != nil {
			return err
		}
		return s.writeHistory(ctx, tx, userID, historyInserts)
	})
	if err != nil {
		log.Error("batch transaction failed: %v", err)
		return nil, errors.NewInternalError(err)
	}

	processed := 0
	for _, r := range results {
		if r.Success {
			processed++
		}
	}
	log.Info("batch processed: %d/%d outcomes succeeded", processed, len(outcomes))

	if s.pool != nil && s.refresher != nil {
		s.pool.Submit(&worker.SummaryRefreshJob{Refresher: s.refresher, UserID: userID})
	}
	return results, nil
}

// validateBatch rejects the whole batch before any mutation. Per-item
// messages identify the offending entries by position.
func (s *batchService) validateBatch(outcomes []models.ReviewOutcome) error {
	if len(outcomes) == 0 {
		return errors.NewValidationError("outcomes", "cannot be empty")
	}

	now := s.clk.Now()
	var problems []string
	for i, outcome := range outcomes {
		if err := s.validate.Struct(outcome); err != nil {
			problems = append(problems, fmt.Sprintf("outcome %d: %v", i, err))
			continue
		}
		if outcome.Timestamp != nil && outcome.Timestamp.After(now.Add(time.Minute)) {
			problems = append(problems, fmt.Sprintf("outcome %d: timestamp is in the future", i))
		}
	}
	if len(problems) > 0 {
		return errors.NewValidationError("outcomes", strings.Join(problems, "; "))
	}
	return nil
}

func (s *batchService) progressForUpdate(ctx context.Context, tx *sql.Tx, userID, unitID int64) (models.UnitProgress, error) {
	var p models.UnitProgress
	err := tx.QueryRowContext(ctx, `
SELECT id, user_id, unit_id, stage, review_count, successful_reviews, tracking_intensity, last_reviewed_at, next_review_at, updated_at
FROM user_unit_progress
WHERE user_id = ? AND unit_id = ?
`, userID, unitID).Scan(&p.ID, &p.UserID, &p.UnitID, &p.Stage, &p.ReviewCount, &p.SuccessfulReviews, &p.Intensity, &p.LastReviewedAt, &p.NextReviewAt, &p.UpdatedAt)
	return p, err
}

func (s *batchService) pinnedDate(ctx context.Context, tx *sql.Tx, userID, unitID int64) (*time.Time, error) {
	var reviewAt time.Time
	err := tx.QueryRowContext(ctx, `SELECT review_at FROM pinned_reviews WHERE user_id = ? AND unit_id = ?`, userID, unitID).Scan(&reviewAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reviewAt, nil
}

// stageCriterion applies the batch path's criterion bookkeeping: attempt
// counters plus a two-in-a-row mastery check approximated by "a prior
// success exists". The full consecutive-counter machinery runs only on the
// single-outcome path.
func (s *batchService) stageCriterion(ctx context.Context, tx *sql.Tx, userID, criterionID int64, isCorrect bool, now time.Time) (stagedMastery, error) {
	var attemptCount, successfulAttempts int
	var isMastered bool
	var masteredAt *time.Time
	err := tx.QueryRowContext(ctx, `
SELECT attempt_count, successful_attempts, is_mastered, mastered_at
FROM user_criterion_mastery
WHERE user_id = ? AND criterion_id = ?
`, userID, criterionID).Scan(&attemptCount, &successfulAttempts, &isMastered, &masteredAt)
	if err != nil && err != sql.ErrNoRows {
		return stagedMastery{}, err
	}

	staged := stagedMastery{
		criterionID:        criterionID,
		attemptCount:       attemptCount + 1,
		successfulAttempts: successfulAttempts,
		isMastered:         isMastered,
		reviewedAt:         now,
	}
	if isCorrect {
		if successfulAttempts > 0 && !isMastered {
			staged.isMastered = true
			staged.stampMasteredAt = masteredAt == nil
		}
		staged.successfulAttempts = successfulAttempts + 1
	}
	return staged, nil
}

func (s *batchService) writeProgress(ctx context.Context, tx *sql.Tx, updates []stagedProgress) error {
	if len(updates) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
UPDATE user_unit_progress
SET review_count = ?, successful_reviews = ?, last_reviewed_at = ?, next_review_at = ?, updated_at = ?
WHERE id = ?
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, u := range updates {
		p := u.progress
		if _, err := stmt.ExecContext(ctx, p.ReviewCount, p.SuccessfulReviews, p.LastReviewedAt, p.NextReviewAt, p.UpdatedAt, p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *batchService) writeMastery(ctx context.Context, tx *sql.Tx, userID int64, updates []stagedMastery) error {
	if len(updates) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO user_criterion_mastery (user_id, criterion_id, attempt_count, successful_attempts, is_mastered, mastered_at, last_attempt_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, criterion_id) DO UPDATE SET
    attempt_count = excluded.attempt_count,
    successful_attempts = excluded.successful_attempts,
    is_mastered = excluded.is_mastered,
    mastered_at = COALESCE(user_criterion_mastery.mastered_at, excluded.mastered_at),
    last_attempt_at = excluded.last_attempt_at,
    updated_at = excluded.updated_at
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, u := range updates {
		var masteredAt *time.Time
		if u.stampMasteredAt {
			t := u.reviewedAt
			masteredAt = &t
		}
		if _, err := stmt.ExecContext(ctx, userID, u.criterionID, u.attemptCount, u.successfulAttempts, u.isMastered, masteredAt, u.reviewedAt, u.reviewedAt); err != nil {
			return err
		}
	}
	return nil
}

func (s *batchService) writeHistory(ctx context.Context, tx *sql.Tx, userID int64, inserts []stagedHistory) error {
	if len(inserts) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO review_history (user_id, unit_id, criterion_id, is_correct, reviewed_at)
VALUES (?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range inserts {
		if _, err := stmt.ExecContext(ctx, userID, h.unitID, h.criterionID, h.isCorrect, h.reviewedAt); err != nil {
			return err
		}
	}
	return nil
}
