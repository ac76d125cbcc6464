package models

import "time"

// Intensity scales computed review intervals per unit.
type Intensity string

const (
	IntensityDense  Intensity = "DENSE"
	IntensityNormal Intensity = "NORMAL"
	IntensitySparse Intensity = "SPARSE"
)

// Valid reports whether i is a known intensity.
func (i Intensity) Valid() bool {
	switch i {
	case IntensityDense, IntensityNormal, IntensitySparse:
		return true
	}
	return false
}

// UnitProgress is the per-(user, unit) scheduling state.
// NextReviewAt == nil means the unit is not tracked.
type UnitProgress struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"user_id"`
	UnitID            int64      `json:"unit_id"`
	Stage             Stage      `json:"stage"`
	ReviewCount       int        `json:"review_count"`
	SuccessfulReviews int        `json:"successful_reviews"`
	Intensity         Intensity  `json:"intensity"`
	LastReviewedAt    *time.Time `json:"last_reviewed_at"`
	NextReviewAt      *time.Time `json:"next_review_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Tracked reports whether the unit participates in scheduling.
func (p UnitProgress) Tracked() bool {
	return p.NextReviewAt != nil
}

// PinnedReview fixes a unit's next review date. It takes precedence over
// computed scheduling until explicitly removed.
type PinnedReview struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	UnitID   int64     `json:"unit_id"`
	ReviewAt time.Time `json:"review_at"`
}

// PinnedReviewDetail is a pin joined with its unit title for listing.
type PinnedReviewDetail struct {
	PinnedReview
	Title string `json:"title"`
}
