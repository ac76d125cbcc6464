package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tomaz/masterly/internal/models"
)

// MockPinnedRepository is a mock implementation of repository.PinnedRepository
type MockPinnedRepository struct {
	mock.Mock
}

func (m *MockPinnedRepository) Get(ctx context.Context, userID, unitID int64) (*models.PinnedReview, error) {
	args := m.Called(ctx, userID, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PinnedReview), args.Error(1)
}

func (m *MockPinnedRepository) Upsert(ctx context.Context, pin models.PinnedReview) error {
	args := m.Called(ctx, pin)
	return args.Error(0)
}

func (m *MockPinnedRepository) Delete(ctx context.Context, userID, unitID int64) (bool, error) {
	args := m.Called(ctx, userID, unitID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPinnedRepository) ListByUser(ctx context.Context, userID int64) ([]models.PinnedReviewDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PinnedReviewDetail), args.Error(1)
}
