package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tomaz/masterly/internal/models"
)

// MockSummaryRepository is a mock implementation of repository.SummaryRepository
type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) Upsert(ctx context.Context, summary models.DailySummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockSummaryRepository) ListDue(ctx context.Context, userID int64, now time.Time) ([]models.DailySummary, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailySummary), args.Error(1)
}

func (m *MockSummaryRepository) ListByUser(ctx context.Context, userID int64) ([]models.DailySummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailySummary), args.Error(1)
}
