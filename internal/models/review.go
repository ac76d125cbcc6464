package models

import "time"

// ReviewOutcome is a raw review result submitted by the caller.
// CriterionID is optional; when present the criterion's mastery state is
// updated alongside the unit's scheduling state.
type ReviewOutcome struct {
	UnitID      int64      `json:"unit_id" validate:"required,gt=0"`
	CriterionID *int64     `json:"criterion_id,omitempty" validate:"omitempty,gt=0"`
	IsCorrect   bool       `json:"is_correct"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// OutcomeResult is the per-item result of batch processing, preserving the
// input order.
type OutcomeResult struct {
	UnitID            int64      `json:"unit_id"`
	CriterionID       *int64     `json:"criterion_id,omitempty"`
	Success           bool       `json:"success"`
	Error             string     `json:"error,omitempty"`
	ReviewCount       int        `json:"review_count,omitempty"`
	SuccessfulReviews int        `json:"successful_reviews,omitempty"`
	NextReviewAt      *time.Time `json:"next_review_at,omitempty"`
}

// ReviewResult is returned from the single-outcome path.
type ReviewResult struct {
	UnitID            int64     `json:"unit_id"`
	NextReviewAt      time.Time `json:"next_review_at"`
	IntervalDays      int       `json:"interval_days"`
	ReviewCount       int       `json:"review_count"`
	SuccessfulReviews int       `json:"successful_reviews"`
	Pinned            bool      `json:"pinned"`
}
