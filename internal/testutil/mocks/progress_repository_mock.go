package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tomaz/masterly/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, userID, unitID int64) (*models.UnitProgress, error) {
	args := m.Called(ctx, userID, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UnitProgress), args.Error(1)
}

func (m *MockProgressRepository) Upsert(ctx context.Context, progress models.UnitProgress) (int64, error) {
	args := m.Called(ctx, progress)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProgressRepository) Update(ctx context.Context, progress models.UnitProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) UpdateStage(ctx context.Context, userID, unitID int64, stage models.Stage) error {
	args := m.Called(ctx, userID, unitID, stage)
	return args.Error(0)
}

func (m *MockProgressRepository) ListByUser(ctx context.Context, userID int64) ([]models.UnitProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UnitProgress), args.Error(1)
}

func (m *MockProgressRepository) InsertHistory(ctx context.Context, userID, unitID int64, criterionID *int64, isCorrect bool, reviewedAt time.Time) error {
	args := m.Called(ctx, userID, unitID, criterionID, isCorrect, reviewedAt)
	return args.Error(0)
}
