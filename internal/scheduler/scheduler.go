// Package scheduler computes next review dates for knowledge units using a
// fixed interval table scaled by per-unit tracking intensity. It is the
// single scheduling implementation shared by the single-outcome and batch
// paths.
package scheduler

import (
	"math"
	"time"

	"github.com/tomaz/masterly/internal/models"
)

// Config holds the scheduling tables. Passed in at construction so tests can
// substitute deterministic values.
type Config struct {
	// BaseIntervals are review intervals in days, indexed by successful
	// review count and clamped to the last entry.
	BaseIntervals []int
	// Intensity multipliers scale the base interval.
	DenseMultiplier  float64
	NormalMultiplier float64
	SparseMultiplier float64
}

// DefaultConfig returns the production interval table and multipliers.
func DefaultConfig() Config {
	return Config{
		BaseIntervals:    []int{1, 3, 7, 21, 60, 180},
		DenseMultiplier:  0.7,
		NormalMultiplier: 1.0,
		SparseMultiplier: 1.5,
	}
}

// Scheduler computes review dates. Whole-day granularity only.
type Scheduler struct {
	cfg Config
}

func New(cfg Config) *Scheduler {
	if len(cfg.BaseIntervals) == 0 {
		cfg.BaseIntervals = DefaultConfig().BaseIntervals
	}
	if cfg.NormalMultiplier == 0 {
		cfg.NormalMultiplier = 1.0
	}
	return &Scheduler{cfg: cfg}
}

// Outcome is the scheduling decision for one review.
type Outcome struct {
	NextReviewAt      time.Time
	IntervalDays      int
	ReviewCount       int
	SuccessfulReviews int
	Pinned            bool
}

// Next computes the next review date after a review of the given progress
// record. On a correct outcome the successful-review count advances and
// indexes the interval table; on an incorrect outcome it resets to zero and
// the first interval applies. The interval is scaled by the unit's tracking
// intensity, rounded to whole days, and floored at one day.
//
// A pinned date always wins verbatim, regardless of correctness; only an
// explicit unpin removes it.
func (s *Scheduler) Next(progress models.UnitProgress, wasCorrect bool, pinned *time.Time, now time.Time) Outcome {
	out := Outcome{
		ReviewCount: progress.ReviewCount + 1,
	}

	var index int
	if wasCorrect {
		out.SuccessfulReviews = progress.SuccessfulReviews + 1
		index = out.SuccessfulReviews - 1
		if index >= len(s.cfg.BaseIntervals) {
			index = len(s.cfg.BaseIntervals) - 1
		}
	} else {
		out.SuccessfulReviews = 0
		index = 0
	}

	base := s.cfg.BaseIntervals[index]
	interval := int(math.Round(float64(base) * s.multiplierFor(progress.Intensity)))
	if interval < 1 {
		interval = 1
	}
	out.IntervalDays = interval
	out.NextReviewAt = now.AddDate(0, 0, interval)

	if pinned != nil {
		out.NextReviewAt = *pinned
		out.Pinned = true
		out.IntervalDays = int(math.Round(pinned.Sub(now).Hours() / 24))
	}
	return out
}

func (s *Scheduler) multiplierFor(intensity models.Intensity) float64 {
	switch intensity {
	case models.IntensityDense:
		return s.cfg.DenseMultiplier
	case models.IntensitySparse:
		return s.cfg.SparseMultiplier
	default:
		return s.cfg.NormalMultiplier
	}
}

// Apply writes the scheduling outcome back onto the progress record.
func Apply(progress *models.UnitProgress, out Outcome, now time.Time) {
	progress.ReviewCount = out.ReviewCount
	progress.SuccessfulReviews = out.SuccessfulReviews
	last := now
	progress.LastReviewedAt = &last
	next := out.NextReviewAt
	progress.NextReviewAt = &next
	progress.UpdatedAt = now
}
