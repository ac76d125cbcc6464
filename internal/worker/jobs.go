package worker

import "context"

// SummaryRefresher recomputes a user's daily summaries from the
// authoritative mastery and progress records.
type SummaryRefresher interface {
	RefreshSummaries(ctx context.Context, userID int64) error
}

// SummaryRefreshJob rebuilds one user's summaries after their review data
// changed. Submitted after single reviews and after each committed batch.
type SummaryRefreshJob struct {
	Refresher SummaryRefresher
	UserID    int64
}

func (j *SummaryRefreshJob) Name() string { return "summary_refresh" }

func (j *SummaryRefreshJob) Run(ctx context.Context) error {
	return j.Refresher.RefreshSummaries(ctx, j.UserID)
}
