package models

import "time"

// DailySummary is a derived per-(user, unit) snapshot used by task
// generation. It is recomputed from the authoritative records and is never
// the source of truth.
type DailySummary struct {
	UserID           int64      `json:"user_id"`
	UnitID           int64      `json:"unit_id"`
	Title            string     `json:"title"`
	Stage            Stage      `json:"stage"`
	WeightedMastery  float64    `json:"weighted_mastery"`
	TotalCriteria    int        `json:"total_criteria"`
	MasteredCriteria int        `json:"mastered_criteria"`
	NextReviewAt     *time.Time `json:"next_review_at"`
	CanProgress      bool       `json:"can_progress"`
	LastCalculated   time.Time  `json:"last_calculated"`
}
