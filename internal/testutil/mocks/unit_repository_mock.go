package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tomaz/masterly/internal/models"
)

// MockUnitRepository is a mock implementation of repository.UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) Get(ctx context.Context, id int64) (*models.KnowledgeUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KnowledgeUnit), args.Error(1)
}

func (m *MockUnitRepository) ListByUser(ctx context.Context, userID int64) ([]models.KnowledgeUnit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.KnowledgeUnit), args.Error(1)
}

func (m *MockUnitRepository) Insert(ctx context.Context, unit models.KnowledgeUnit) (int64, error) {
	args := m.Called(ctx, unit)
	return args.Get(0).(int64), args.Error(1)
}
