package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
	"github.com/tomaz/masterly/internal/repository/sqlite"
	"github.com/tomaz/masterly/internal/testutil"
)

type PreferenceRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.PreferenceRepository
}

func (s *PreferenceRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewPreferenceRepository(s.db)
}

func (s *PreferenceRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *PreferenceRepositorySuite) TestGetMissingReturnsNil() {
	prefs, err := s.repo.Get(context.Background(), 42)
	s.Require().NoError(err)
	s.Assert().Nil(prefs)
}

func (s *PreferenceRepositorySuite) TestUpsertRoundTrip() {
	ctx := context.Background()
	userID := seedUser(s.T(), s.db)

	prefs := models.DefaultBucketPreferences(userID)
	s.Require().NoError(s.repo.Upsert(ctx, prefs))

	got, err := s.repo.Get(ctx, userID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(prefs, *got)

	// Changing sizes updates in place.
	prefs.CriticalSize = 20
	prefs.Threshold = models.ProfileExpert
	s.Require().NoError(s.repo.Upsert(ctx, prefs))

	got, err = s.repo.Get(ctx, userID)
	s.Require().NoError(err)
	s.Assert().Equal(20, got.CriticalSize)
	s.Assert().Equal(models.ProfileExpert, got.Threshold)
}

func TestPreferenceRepositorySuite(t *testing.T) {
	suite.Run(t, new(PreferenceRepositorySuite))
}
