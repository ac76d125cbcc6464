// Package tasks holds the pure selection logic behind daily task generation:
// bucket assignment under capacity, question-count sizing, three-phase
// question selection, and the "add more" increment.
package tasks

import (
	"fmt"
	"math"

	"github.com/tomaz/masterly/internal/models"
)

// Config holds the allocation tunables.
type Config struct {
	CriticalBelow float64 // weighted mastery below this lands in critical
	CoreBelow     float64 // below this (and >= CriticalBelow) lands in core

	// Question-count multiplier, inverse to mastery:
	// multiplier = MinMultiplier + MasterySpread * (1 - mastery)
	MinMultiplier float64
	MasterySpread float64

	// Criterion weight bands for question selection phases.
	HighWeight float64
	LowWeight  float64

	// Completion rates required to draw additional tasks from a single
	// bucket; below all three, a 40/40/20 mix applies.
	CriticalRate float64
	CoreRate     float64
	PlusRate     float64
}

// DefaultConfig returns the production allocation parameters.
func DefaultConfig() Config {
	return Config{
		CriticalBelow: 0.4,
		CoreBelow:     0.8,
		MinMultiplier: 1.2,
		MasterySpread: 0.8,
		HighWeight:    0.7,
		LowWeight:     0.3,
		CriticalRate:  0.8,
		CoreRate:      0.7,
		PlusRate:      0.6,
	}
}

// Caps are the per-bucket capacities from the user's preferences.
type Caps struct {
	Critical int
	Core     int
	Plus     int
}

// Buckets partitions due summaries into priority tiers.
type Buckets struct {
	Critical []models.DailySummary
	Core     []models.DailySummary
	Plus     []models.DailySummary
}

// Size returns the number of entries in the given bucket.
func (b Buckets) Size(bucket models.Bucket) int {
	switch bucket {
	case models.BucketCritical:
		return len(b.Critical)
	case models.BucketCore:
		return len(b.Core)
	default:
		return len(b.Plus)
	}
}

// Selected returns all bucketed summaries in priority order.
func (b Buckets) Selected() []models.DailySummary {
	out := make([]models.DailySummary, 0, len(b.Critical)+len(b.Core)+len(b.Plus))
	out = append(out, b.Critical...)
	out = append(out, b.Core...)
	out = append(out, b.Plus...)
	return out
}

// BucketFor maps a weighted mastery score to its priority tier.
func (c Config) BucketFor(mastery float64) models.Bucket {
	switch {
	case mastery < c.CriticalBelow:
		return models.BucketCritical
	case mastery < c.CoreBelow:
		return models.BucketCore
	default:
		return models.BucketPlus
	}
}

// Bucketize assigns summaries to buckets in input order, respecting caps.
// Summaries whose bucket is full are skipped, not reassigned. Scanning
// stops once all three buckets are at capacity.
func (c Config) Bucketize(summaries []models.DailySummary, caps Caps) Buckets {
	var b Buckets
	for _, s := range summaries {
		switch c.BucketFor(s.WeightedMastery) {
		case models.BucketCritical:
			if len(b.Critical) < caps.Critical {
				b.Critical = append(b.Critical, s)
			}
		case models.BucketCore:
			if len(b.Core) < caps.Core {
				b.Core = append(b.Core, s)
			}
		default:
			if len(b.Plus) < caps.Plus {
				b.Plus = append(b.Plus, s)
			}
		}
		if len(b.Critical) == caps.Critical && len(b.Core) == caps.Core && len(b.Plus) == caps.Plus {
			break
		}
	}
	return b
}

// QuestionCount sizes a unit's question quota: an even share of the bucket
// capacity, scaled up for low mastery. Minimum 1.
func (c Config) QuestionCount(mastery float64, bucketCap, unitsInBucket int) int {
	if unitsInBucket < 1 {
		unitsInBucket = 1
	}
	base := bucketCap / unitsInBucket
	if base < 1 {
		base = 1
	}
	multiplier := c.MinMultiplier + c.MasterySpread*(1-mastery)
	n := int(math.Round(float64(base) * multiplier))
	if n < 1 {
		n = 1
	}
	return n
}

// SelectQuestions fills a unit's question quota in three phases:
// high-weight unmastered criteria first (up to 2 questions each), then
// medium-weight criteria (1 each), then any remaining criterion with
// questions (1 each). Criteria must arrive sorted by weight descending then
// age ascending; question lists oldest first.
func (c Config) SelectQuestions(criteria []models.CriterionWithQuestions, quota int) []models.Question {
	var selected []models.Question
	remaining := quota
	usedCriteria := make(map[int64]bool)

	take := func(cr models.CriterionWithQuestions, limit int) {
		n := limit
		if n > remaining {
			n = remaining
		}
		if n > len(cr.Questions) {
			n = len(cr.Questions)
		}
		if n <= 0 {
			return
		}
		selected = append(selected, cr.Questions[:n]...)
		remaining -= n
		usedCriteria[cr.ID] = true
	}

	for _, cr := range criteria {
		if remaining <= 0 {
			break
		}
		if cr.Weight > c.HighWeight && !cr.IsMastered {
			take(cr, 2)
		}
	}
	for _, cr := range criteria {
		if remaining <= 0 {
			break
		}
		if cr.Weight >= c.LowWeight && cr.Weight <= c.HighWeight {
			take(cr, 1)
		}
	}
	for _, cr := range criteria {
		if remaining <= 0 {
			break
		}
		if len(cr.Questions) > 0 && !usedCriteria[cr.ID] {
			take(cr, 1)
		}
	}
	return selected
}

// AddMoreInput carries the full (uncapped) per-bucket task pools, the
// caller-reported completion state, and the user's limits.
type AddMoreInput struct {
	Critical   []models.DailyTask
	Core       []models.DailyTask
	Plus       []models.DailyTask
	Completion models.CompletionState
	Increment  int
	MaxDaily   int
}

// PickAdditional selects extra tasks from whichever bucket the user is
// completing best, falling back to a 40/40/20 blend. It never exceeds the
// daily cap.
func (c Config) PickAdditional(in AddMoreInput) models.AddMoreResult {
	currentTotal := in.Completion.Critical.TotalAssigned +
		in.Completion.Core.TotalAssigned +
		in.Completion.Plus.TotalAssigned

	if currentTotal >= in.MaxDaily {
		return models.AddMoreResult{
			Tasks:      []models.DailyTask{},
			Message:    "You've reached your daily limit. Great work!",
			CanAddMore: false,
		}
	}

	increment := in.Increment
	if remaining := in.MaxDaily - currentTotal; increment > remaining {
		increment = remaining
	}

	rate := func(bc models.BucketCompletion) float64 {
		assigned := bc.TotalAssigned
		if assigned < 1 {
			assigned = 1
		}
		return float64(bc.CompletedCount) / float64(assigned)
	}
	criticalRate := rate(in.Completion.Critical)
	coreRate := rate(in.Completion.Core)
	plusRate := rate(in.Completion.Plus)

	availableCritical := sliceFrom(in.Critical, in.Completion.Critical.TotalAssigned)
	availableCore := sliceFrom(in.Core, in.Completion.Core.TotalAssigned)
	availablePlus := sliceFrom(in.Plus, in.Completion.Plus.TotalAssigned)

	var picked []models.DailyTask
	source := "mixed"
	switch {
	case criticalRate >= c.CriticalRate && len(availableCritical) > 0:
		picked = head(availableCritical, increment)
		source = "critical"
	case coreRate >= c.CoreRate && len(availableCore) > 0:
		picked = head(availableCore, increment)
		source = "core"
	case plusRate >= c.PlusRate && len(availablePlus) > 0:
		picked = head(availablePlus, increment)
		source = "plus"
	default:
		mixed := make([]models.DailyTask, 0, increment)
		mixed = append(mixed, head(availableCritical, ceilShare(increment, 0.4))...)
		mixed = append(mixed, head(availableCore, ceilShare(increment, 0.4))...)
		mixed = append(mixed, head(availablePlus, ceilShare(increment, 0.2))...)
		picked = head(mixed, increment)
	}

	message := fmt.Sprintf("Added %d more tasks. Keep going!", len(picked))
	switch {
	case source == "critical" && criticalRate >= 0.9:
		message = fmt.Sprintf("Excellent critical task performance! Added %d more critical tasks.", len(picked))
	case source == "core" && coreRate >= 0.8:
		message = fmt.Sprintf("Great core task progress! Added %d more core tasks.", len(picked))
	case source == "plus":
		message = fmt.Sprintf("Nice work on plus tasks! Added %d more to challenge you.", len(picked))
	}

	return models.AddMoreResult{
		Tasks:         picked,
		Message:       message,
		CanAddMore:    currentTotal+len(picked) < in.MaxDaily,
		BucketSource:  source,
		IncrementSize: len(picked),
		CompletionRates: map[models.Bucket]float64{
			models.BucketCritical: criticalRate,
			models.BucketCore:     coreRate,
			models.BucketPlus:     plusRate,
		},
	}
}

func sliceFrom(tasks []models.DailyTask, from int) []models.DailyTask {
	if from >= len(tasks) {
		return nil
	}
	return tasks[from:]
}

func head(tasks []models.DailyTask, n int) []models.DailyTask {
	if n > len(tasks) {
		n = len(tasks)
	}
	if n < 0 {
		n = 0
	}
	return tasks[:n]
}

func ceilShare(n int, share float64) int {
	return int(math.Ceil(float64(n) * share))
}
