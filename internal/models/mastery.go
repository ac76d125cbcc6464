package models

import "time"

// CriterionMastery is the per-(user, criterion) mutable mastery state.
// History is a bounded ring of recent performance samples, oldest first.
type CriterionMastery struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"user_id"`
	CriterionID        int64      `json:"criterion_id"`
	Score              float64    `json:"score"`
	IsMastered         bool       `json:"is_mastered"`
	ConsecutiveCount   int        `json:"consecutive_count"`
	AttemptCount       int        `json:"attempt_count"`
	SuccessfulAttempts int        `json:"successful_attempts"`
	History            []float64  `json:"history"`
	LastAttemptAt      *time.Time `json:"last_attempt_at"`
	MasteredAt         *time.Time `json:"mastered_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
