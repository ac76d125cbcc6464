package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/scheduler"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newScheduler() *scheduler.Scheduler {
	return scheduler.New(scheduler.DefaultConfig())
}

func TestNext_FirstCorrectReview(t *testing.T) {
	s := newScheduler()
	progress := models.UnitProgress{Intensity: models.IntensityNormal}

	out := s.Next(progress, true, nil, now)

	assert.Equal(t, 1, out.ReviewCount)
	assert.Equal(t, 1, out.SuccessfulReviews)
	assert.Equal(t, 1, out.IntervalDays)
	assert.Equal(t, now.AddDate(0, 0, 1), out.NextReviewAt)
	assert.False(t, out.Pinned)
}

func TestNext_IntervalTableWalk(t *testing.T) {
	s := newScheduler()

	// Successful review count indexes the table: 1->1d, 2->3d, 3->7d, ...
	expected := []int{1, 3, 7, 21, 60, 180}

	progress := models.UnitProgress{Intensity: models.IntensityNormal}
	current := now
	for i, want := range expected {
		out := s.Next(progress, true, nil, current)
		assert.Equal(t, want, out.IntervalDays, "review %d", i+1)
		assert.Equal(t, i+1, out.SuccessfulReviews)

		scheduler.Apply(&progress, out, current)
		current = out.NextReviewAt
	}
}

func TestNext_ClampsBeyondTable(t *testing.T) {
	s := newScheduler()
	progress := models.UnitProgress{
		ReviewCount:       20,
		SuccessfulReviews: 20,
		Intensity:         models.IntensityNormal,
	}

	out := s.Next(progress, true, nil, now)
	assert.Equal(t, 180, out.IntervalDays, "interval stays at the last table entry")
}

func TestNext_IncorrectResetsSuccessfulReviews(t *testing.T) {
	s := newScheduler()
	progress := models.UnitProgress{
		ReviewCount:       4,
		SuccessfulReviews: 4,
		Intensity:         models.IntensityNormal,
	}

	out := s.Next(progress, false, nil, now)

	assert.Equal(t, 5, out.ReviewCount, "total count still advances")
	assert.Equal(t, 0, out.SuccessfulReviews)
	assert.Equal(t, 1, out.IntervalDays, "back to the first interval")
	assert.Equal(t, now.AddDate(0, 0, 1), out.NextReviewAt)
}

func TestNext_RecoveryAfterLapse(t *testing.T) {
	s := newScheduler()
	progress := models.UnitProgress{Intensity: models.IntensityNormal}

	// Correct, correct, incorrect, correct: 1d, 3d, 1d, 1d.
	steps := []struct {
		correct  bool
		interval int
	}{
		{true, 1},
		{true, 3},
		{false, 1},
		{true, 1},
	}

	current := now
	for i, step := range steps {
		out := s.Next(progress, step.correct, nil, current)
		assert.Equal(t, step.interval, out.IntervalDays, "step %d", i)
		scheduler.Apply(&progress, out, current)
		current = out.NextReviewAt
	}
	assert.Equal(t, 4, progress.ReviewCount)
	assert.Equal(t, 1, progress.SuccessfulReviews)
}

func TestNext_IntensityScaling(t *testing.T) {
	s := newScheduler()

	// Second successful review: base interval 3 days.
	base := models.UnitProgress{SuccessfulReviews: 1}

	dense := base
	dense.Intensity = models.IntensityDense
	normal := base
	normal.Intensity = models.IntensityNormal
	sparse := base
	sparse.Intensity = models.IntensitySparse

	denseOut := s.Next(dense, true, nil, now)
	normalOut := s.Next(normal, true, nil, now)
	sparseOut := s.Next(sparse, true, nil, now)

	assert.Equal(t, 2, denseOut.IntervalDays)  // round(3 * 0.7)
	assert.Equal(t, 3, normalOut.IntervalDays) // round(3 * 1.0)
	assert.Equal(t, 5, sparseOut.IntervalDays) // round(3 * 1.5)

	assert.LessOrEqual(t, denseOut.IntervalDays, normalOut.IntervalDays)
	assert.LessOrEqual(t, normalOut.IntervalDays, sparseOut.IntervalDays)
}

func TestNext_IntervalFloorsAtOneDay(t *testing.T) {
	progress := models.UnitProgress{Intensity: models.IntensityDense}

	// First interval, dense: round(1 * 0.7) would be 1 anyway; force the
	// floor with a tighter multiplier.
	tight := scheduler.New(scheduler.Config{
		BaseIntervals:    []int{1, 3, 7},
		DenseMultiplier:  0.2,
		NormalMultiplier: 1.0,
		SparseMultiplier: 1.5,
	})
	out := tight.Next(progress, true, nil, now)
	assert.Equal(t, 1, out.IntervalDays)
}

func TestNext_PinnedDateWins(t *testing.T) {
	s := newScheduler()
	pinned := now.AddDate(0, 0, 14)
	progress := models.UnitProgress{SuccessfulReviews: 2, Intensity: models.IntensityNormal}

	out := s.Next(progress, true, &pinned, now)
	assert.Equal(t, pinned, out.NextReviewAt)
	assert.True(t, out.Pinned)
	assert.Equal(t, 14, out.IntervalDays)

	// The pin wins on an incorrect outcome too.
	out = s.Next(progress, false, &pinned, now)
	assert.Equal(t, pinned, out.NextReviewAt)
	assert.True(t, out.Pinned)
	assert.Equal(t, 0, out.SuccessfulReviews, "counters still follow the outcome")
}

func TestApply_WritesSideEffects(t *testing.T) {
	s := newScheduler()
	progress := models.UnitProgress{Intensity: models.IntensityNormal}

	out := s.Next(progress, true, nil, now)
	scheduler.Apply(&progress, out, now)

	assert.Equal(t, 1, progress.ReviewCount)
	assert.Equal(t, 1, progress.SuccessfulReviews)
	require.NotNil(t, progress.LastReviewedAt)
	assert.Equal(t, now, *progress.LastReviewedAt)
	require.NotNil(t, progress.NextReviewAt)
	assert.Equal(t, out.NextReviewAt, *progress.NextReviewAt)
	assert.Equal(t, now, progress.UpdatedAt)
}
