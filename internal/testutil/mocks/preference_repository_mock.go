package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tomaz/masterly/internal/models"
)

// MockPreferenceRepository is a mock implementation of repository.PreferenceRepository
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) Get(ctx context.Context, userID int64) (*models.BucketPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BucketPreferences), args.Error(1)
}

func (m *MockPreferenceRepository) Upsert(ctx context.Context, prefs models.BucketPreferences) error {
	args := m.Called(ctx, prefs)
	return args.Error(0)
}
