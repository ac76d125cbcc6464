package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tomaz/masterly/internal/models"
)

// MockMasteryRepository is a mock implementation of repository.MasteryRepository
type MockMasteryRepository struct {
	mock.Mock
}

func (m *MockMasteryRepository) Get(ctx context.Context, userID, criterionID int64) (*models.CriterionMastery, error) {
	args := m.Called(ctx, userID, criterionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CriterionMastery), args.Error(1)
}

func (m *MockMasteryRepository) GetOrCreate(ctx context.Context, userID, criterionID int64) (*models.CriterionMastery, error) {
	args := m.Called(ctx, userID, criterionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CriterionMastery), args.Error(1)
}

func (m *MockMasteryRepository) Update(ctx context.Context, mastery models.CriterionMastery) error {
	args := m.Called(ctx, mastery)
	return args.Error(0)
}

func (m *MockMasteryRepository) ListByUnit(ctx context.Context, userID, unitID int64) ([]models.CriterionMastery, error) {
	args := m.Called(ctx, userID, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CriterionMastery), args.Error(1)
}

func (m *MockMasteryRepository) ResetAtOrAboveStage(ctx context.Context, userID, unitID int64, stage models.Stage) error {
	args := m.Called(ctx, userID, unitID, stage)
	return args.Error(0)
}
