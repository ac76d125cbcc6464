package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tomaz/masterly/internal/models"
)

// MockCriterionRepository is a mock implementation of repository.CriterionRepository
type MockCriterionRepository struct {
	mock.Mock
}

func (m *MockCriterionRepository) Get(ctx context.Context, id int64) (*models.MasteryCriterion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MasteryCriterion), args.Error(1)
}

func (m *MockCriterionRepository) ListByUnit(ctx context.Context, unitID int64) ([]models.MasteryCriterion, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MasteryCriterion), args.Error(1)
}

func (m *MockCriterionRepository) ListByUnitStage(ctx context.Context, unitID int64, stage models.Stage) ([]models.MasteryCriterion, error) {
	args := m.Called(ctx, unitID, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MasteryCriterion), args.Error(1)
}

func (m *MockCriterionRepository) ListForSelection(ctx context.Context, unitID int64, stage models.Stage, userID int64) ([]models.CriterionWithQuestions, error) {
	args := m.Called(ctx, unitID, stage, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CriterionWithQuestions), args.Error(1)
}

func (m *MockCriterionRepository) Insert(ctx context.Context, criterion models.MasteryCriterion) (int64, error) {
	args := m.Called(ctx, criterion)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCriterionRepository) InsertQuestion(ctx context.Context, question models.Question) (int64, error) {
	args := m.Called(ctx, question)
	return args.Get(0).(int64), args.Error(1)
}
