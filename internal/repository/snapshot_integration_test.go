//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"wm-pickup/internal/apperr"
	"wm-pickup/internal/domain"
	"wm-pickup/internal/ports/snapshottx"
	"wm-pickup/internal/repository"
)

type SnapshotRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.SnapshotRepo
}

func (s *SnapshotRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewSnapshotRepo(tcPool)
}

func (s *SnapshotRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE pickup_snapshots`)
	s.Require().NoError(err)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *SnapshotRepositorySuite) schedule(raw, adjusted []time.Time) domain.PickupSchedule {
	return domain.PickupSchedule{AccountID: "A1", ServiceID: "S1", Raw: raw, Dates: adjusted}
}

func (s *SnapshotRepositorySuite) TestLoad_Empty() {
	got, err := s.repo.Load(context.Background(), "A1", "S1")
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *SnapshotRepositorySuite) TestSaveAndLoad() {
	ctx := context.Background()
	raw := []time.Time{date(2024, time.July, 1), date(2024, time.July, 4)}
	adjusted := []time.Time{date(2024, time.July, 1), date(2024, time.July, 5)}

	s.Require().NoError(s.repo.Save(ctx, s.schedule(raw, adjusted), time.Now()))

	got, err := s.repo.Load(ctx, "A1", "S1")
	s.Require().NoError(err)
	s.Len(got, 2)
	s.True(got[date(2024, time.July, 4)].Equal(date(2024, time.July, 5)))
	s.True(got[date(2024, time.July, 1)].Equal(date(2024, time.July, 1)))
}

func (s *SnapshotRepositorySuite) TestSave_ReplacesPreviousRows() {
	ctx := context.Background()

	first := []time.Time{date(2024, time.July, 1), date(2024, time.July, 8)}
	s.Require().NoError(s.repo.Save(ctx, s.schedule(first, first), time.Now()))

	second := []time.Time{date(2024, time.July, 15)}
	s.Require().NoError(s.repo.Save(ctx, s.schedule(second, second), time.Now()))

	got, err := s.repo.Load(ctx, "A1", "S1")
	s.Require().NoError(err)
	s.Len(got, 1)
	_, ok := got[date(2024, time.July, 15)]
	s.True(ok)
}

func (s *SnapshotRepositorySuite) TestSave_IsolatesServices() {
	ctx := context.Background()
	dates := []time.Time{date(2024, time.July, 1)}

	s.Require().NoError(s.repo.Save(ctx, s.schedule(dates, dates), time.Now()))
	other := domain.PickupSchedule{AccountID: "A1", ServiceID: "S2", Raw: dates, Dates: dates}
	s.Require().NoError(s.repo.Save(ctx, other, time.Now()))

	got, err := s.repo.Load(ctx, "A1", "S1")
	s.Require().NoError(err)
	s.Len(got, 1)
}

func (s *SnapshotRepositorySuite) TestSave_DuplicateDateRollsBack() {
	ctx := context.Background()
	dates := []time.Time{date(2024, time.July, 1)}
	s.Require().NoError(s.repo.Save(ctx, s.schedule(dates, dates), time.Now()))

	dup := []time.Time{date(2024, time.July, 8), date(2024, time.July, 8)}
	err := s.repo.Save(ctx, s.schedule(dup, dup), time.Now())
	s.Require().ErrorIs(err, apperr.Conflict)

	got, err := s.repo.Load(ctx, "A1", "S1")
	s.Require().NoError(err)
	s.Len(got, 1, "previous snapshot must survive a failed replace")
	_, ok := got[date(2024, time.July, 1)]
	s.True(ok)
}

func (s *SnapshotRepositorySuite) TestSave_LengthMismatch() {
	err := s.repo.Save(context.Background(),
		s.schedule([]time.Time{date(2024, time.July, 1)}, nil), time.Now())
	s.Require().ErrorIs(err, apperr.Invalid)
}

func (s *SnapshotRepositorySuite) TestWithTx_DeleteReportsRows() {
	ctx := context.Background()
	dates := []time.Time{date(2024, time.July, 1), date(2024, time.July, 8)}
	s.Require().NoError(s.repo.Save(ctx, s.schedule(dates, dates), time.Now()))

	var deleted int64
	err := s.repo.WithTx(ctx, func(tx snapshottx.Repository) error {
		n, err := tx.DeleteService(ctx, "A1", "S1")
		deleted = n
		return err
	})
	s.Require().NoError(err)
	s.EqualValues(2, deleted)
}

func (s *SnapshotRepositorySuite) TestLoad_ContextCanceled_ReturnsError() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := s.repo.Load(ctx, "A1", "S1")
	s.Nil(got)
	s.ErrorIs(err, context.Canceled)
}

func TestSnapshotRepositorySuite(t *testing.T) {
	suite.Run(t, new(SnapshotRepositorySuite))
}
