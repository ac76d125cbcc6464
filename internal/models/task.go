package models

import "time"

// Bucket is a priority tier for daily task allocation.
type Bucket string

const (
	BucketCritical Bucket = "critical"
	BucketCore     Bucket = "core"
	BucketPlus     Bucket = "plus"
)

// DailyTask is one review task in a generated daily list. A task may carry
// an empty question set when no questions have been authored for the unit's
// current stage; it is still listed so the gap is visible to the caller.
type DailyTask struct {
	UnitID          int64      `json:"unit_id"`
	Title           string     `json:"title"`
	Stage           Stage      `json:"stage"`
	WeightedMastery float64    `json:"weighted_mastery"`
	NextReviewAt    *time.Time `json:"next_review_at"`
	Bucket          Bucket     `json:"bucket"`
	QuestionCount   int        `json:"question_count"`
	Questions       []Question `json:"questions"`
}

// DailyTaskList is the output of daily task generation.
type DailyTaskList struct {
	Tasks           []DailyTask    `json:"tasks"`
	TotalTasks      int            `json:"total_tasks"`
	BucketBreakdown map[Bucket]int `json:"bucket_breakdown"`
}

// BucketCompletion reports assigned/completed counts for one bucket, as
// supplied by the caller when requesting additional tasks.
type BucketCompletion struct {
	TotalAssigned  int `json:"total_assigned" validate:"gte=0"`
	CompletedCount int `json:"completed_count" validate:"gte=0"`
}

// CompletionState covers all three buckets.
type CompletionState struct {
	Critical BucketCompletion `json:"critical"`
	Core     BucketCompletion `json:"core"`
	Plus     BucketCompletion `json:"plus"`
}

// AddMoreResult is the outcome of an "add more tasks" request.
type AddMoreResult struct {
	Tasks           []DailyTask        `json:"tasks"`
	Message         string             `json:"message"`
	CanAddMore      bool               `json:"can_add_more"`
	BucketSource    string             `json:"bucket_source,omitempty"`
	IncrementSize   int                `json:"increment_size"`
	CompletionRates map[Bucket]float64 `json:"completion_rates,omitempty"`
}
