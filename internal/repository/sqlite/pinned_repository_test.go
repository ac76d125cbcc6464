package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tomaz/masterly/internal/models"
	"github.com/tomaz/masterly/internal/repository"
	"github.com/tomaz/masterly/internal/repository/sqlite"
	"github.com/tomaz/masterly/internal/testutil"
)

type PinnedRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.PinnedRepository
}

func (s *PinnedRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewPinnedRepository(s.db)
}

func (s *PinnedRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *PinnedRepositorySuite) TestUpsertAndGet() {
	ctx := context.Background()
	userID := seedUser(s.T(), s.db)
	unitID := seedUnit(s.T(), s.db, userID, "Pointers")

	reviewAt := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.Upsert(ctx, models.PinnedReview{
		UserID: userID, UnitID: unitID, ReviewAt: reviewAt,
	}))

	pin, err := s.repo.Get(ctx, userID, unitID)
	s.Require().NoError(err)
	s.Require().NotNil(pin)
	s.Assert().WithinDuration(reviewAt, pin.ReviewAt, time.Second)

	// Pinning again replaces the date rather than erroring.
	moved := reviewAt.AddDate(0, 0, 5)
	s.Require().NoError(s.repo.Upsert(ctx, models.PinnedReview{
		UserID: userID, UnitID: unitID, ReviewAt: moved,
	}))

	pin, err = s.repo.Get(ctx, userID, unitID)
	s.Require().NoError(err)
	s.Assert().WithinDuration(moved, pin.ReviewAt, time.Second)
}

func (s *PinnedRepositorySuite) TestGetMissingReturnsNil() {
	pin, err := s.repo.Get(context.Background(), 1, 1)
	s.Require().NoError(err)
	s.Assert().Nil(pin)
}

func (s *PinnedRepositorySuite) TestDelete() {
	ctx := context.Background()
	userID := seedUser(s.T(), s.db)
	unitID := seedUnit(s.T(), s.db, userID, "Pointers")

	s.Require().NoError(s.repo.Upsert(ctx, models.PinnedReview{
		UserID: userID, UnitID: unitID, ReviewAt: time.Now(),
	}))

	removed, err := s.repo.Delete(ctx, userID, unitID)
	s.Require().NoError(err)
	s.Assert().True(removed)

	// Deleting an absent pin is a no-op, not an error.
	removed, err = s.repo.Delete(ctx, userID, unitID)
	s.Require().NoError(err)
	s.Assert().False(removed)
}

func (s *PinnedRepositorySuite) TestListByUserOrdersByDate() {
	ctx := context.Background()
	userID := seedUser(s.T(), s.db)
	unitA := seedUnit(s.T(), s.db, userID, "Pointers")
	unitB := seedUnit(s.T(), s.db, userID, "Slices")

	later := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	sooner := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.Upsert(ctx, models.PinnedReview{UserID: userID, UnitID: unitA, ReviewAt: later}))
	s.Require().NoError(s.repo.Upsert(ctx, models.PinnedReview{UserID: userID, UnitID: unitB, ReviewAt: sooner}))

	pins, err := s.repo.ListByUser(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(pins, 2)
	s.Assert().Equal(unitB, pins[0].UnitID)
	s.Assert().Equal("Slices", pins[0].Title)
	s.Assert().Equal(unitA, pins[1].UnitID)
	s.Assert().Equal("Pointers", pins[1].Title)
}

func TestPinnedRepositorySuite(t *testing.T) {
	suite.Run(t, new(PinnedRepositorySuite))
}
