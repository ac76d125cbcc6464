package mastery

import (
	"errors"
	"math"
	"time"

	"github.com/tomaz/masterly/internal/models"
)

// ErrTooSoon is returned when an attempt arrives before the minimum gap
// since the previous attempt has elapsed. State is not mutated; callers
// surface this as a soft, user-visible rejection.
var ErrTooSoon = errors.New("attempt too soon")

// Config holds the tunables for mastery scoring. Passed in at construction
// so tests can substitute deterministic values.
type Config struct {
	HistorySize int     // bounded sample ring capacity
	DecayFactor float64 // per-position decay, newest sample has weight 1
	MinGapDays  int     // calendar days required between attempts
}

// DefaultConfig returns the production scoring parameters.
func DefaultConfig() Config {
	return Config{
		HistorySize: 10,
		DecayFactor: 0.8,
		MinGapDays:  1,
	}
}

// Scorer converts attempt history into a mastery score and certification.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	if cfg.HistorySize < 1 {
		cfg.HistorySize = 1
	}
	if cfg.DecayFactor <= 0 || cfg.DecayFactor > 1 {
		cfg.DecayFactor = DefaultConfig().DecayFactor
	}
	return &Scorer{cfg: cfg}
}

// Result reports what a single Apply call changed.
type Result struct {
	State         models.CriterionMastery
	Qualified     bool
	NewlyMastered bool
}

// Apply folds a new performance sample (0.0-1.0) into the user's mastery
// state for one criterion. threshold is the criterion's mastery threshold,
// overridable per call.
//
// A qualifying attempt must score at or above the threshold. The consecutive
// counter advances only when the attempt qualifies and at least one calendar
// day has passed since the previous attempt; a second attempt on the same
// day never advances it, which guards against gaming via rapid repetition.
// Certification flips at two consecutive qualifying attempts. The first
// certification stamps MasteredAt; later failures clear IsMastered but keep
// the stamp.
func (s *Scorer) Apply(state models.CriterionMastery, sample, threshold float64, now time.Time) (Result, error) {
	if s.cfg.MinGapDays > 0 && state.LastAttemptAt != nil {
		if calendarDays(*state.LastAttemptAt, now) < s.cfg.MinGapDays {
			return Result{State: state}, ErrTooSoon
		}
	}

	sample = clamp01(sample)

	state.History = append(state.History, sample)
	if len(state.History) > s.cfg.HistorySize {
		state.History = state.History[len(state.History)-s.cfg.HistorySize:]
	}
	state.Score = s.ScoreHistory(state.History)

	qualified := sample >= threshold
	if qualified {
		gapOK := state.LastAttemptAt == nil || calendarDays(*state.LastAttemptAt, now) >= maxInt(1, s.cfg.MinGapDays)
		if gapOK {
			state.ConsecutiveCount++
		}
		state.SuccessfulAttempts++
	} else {
		state.ConsecutiveCount = 0
		state.IsMastered = false
	}

	newlyMastered := false
	if state.ConsecutiveCount >= 2 && !state.IsMastered {
		state.IsMastered = true
		if state.MasteredAt == nil {
			t := now
			state.MasteredAt = &t
			newlyMastered = true
		}
	}

	state.AttemptCount++
	attemptAt := now
	state.LastAttemptAt = &attemptAt
	state.UpdatedAt = now

	return Result{State: state, Qualified: qualified, NewlyMastered: newlyMastered}, nil
}

// ScoreHistory computes the exponentially decayed weighted average of the
// sample ring, oldest first. The newest sample has weight 1 and a sample k
// positions older has weight DecayFactor^k. Empty history scores 0.
func (s *Scorer) ScoreHistory(history []float64) float64 {
	if len(history) == 0 {
		return 0
	}
	var weightedSum, totalWeight float64
	for i, sample := range history {
		weight := math.Pow(s.cfg.DecayFactor, float64(len(history)-1-i))
		weightedSum += sample * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return clamp01(weightedSum / totalWeight)
}

// WeightedMastery computes masteredWeight / totalWeight, the share of a
// stage's criterion weight that the user has mastered. Zero total weight
// scores 0.
func WeightedMastery(totalWeight, masteredWeight float64) float64 {
	if totalWeight == 0 {
		return 0
	}
	return masteredWeight / totalWeight
}

// calendarDays returns the number of whole calendar days between two
// instants, ignoring time of day. Interval math is whole-day granularity.
func calendarDays(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
