package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/site"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/worker"
	"github.com/cmlabs-hris/workforce-attendance/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attendanceFixture struct {
	setup     *TestDatabaseSetup
	companyID string
	siteID    string
	workerIDs []string
	repo      attendance.AttendanceRepository
}

func newAttendanceFixture(t *testing.T) attendanceFixture {
	t.Helper()

	setup := NewTestDatabase(t)
	ctx := context.Background()
	companyID := setup.CreateCompany(t, "Acme Contracting")

	st, err := postgresql.NewSiteRepository(setup.DB).Create(ctx, site.Site{CompanyID: companyID, Name: "North Yard", IsActive: true})
	require.NoError(t, err)

	workerRepo := postgresql.NewWorkerRepository(setup.DB)
	var ids []string
	for _, code := range []string{"W-001", "W-002"} {
		w, err := workerRepo.Create(ctx, worker.Worker{
			CompanyID:  companyID,
			FullName:   "Worker " + code,
			WorkerCode: code,
			StartDate:  day(2024, time.January, 1),
			Status:     worker.StatusActive,
		})
		require.NoError(t, err)
		ids = append(ids, w.ID)
	}

	return attendanceFixture{
		setup:     setup,
		companyID: companyID,
		siteID:    st.ID,
		workerIDs: ids,
		repo:      postgresql.NewAttendanceRepository(setup.DB),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAttendanceRepository_UpsertKeepsOneRowPerWorkerAndDate(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	date := day(2024, time.March, 4)
	ot := 2.5

	first, err := f.repo.Upsert(ctx, attendance.Entry{
		CompanyID:     f.companyID,
		WorkerID:      f.workerIDs[0],
		Date:          date,
		Status:        attendance.StatusPresent,
		SiteID:        &f.siteID,
		OvertimeHours: &ot,
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, first.Status)

	second, err := f.repo.Upsert(ctx, attendance.Entry{
		CompanyID: f.companyID,
		WorkerID:  f.workerIDs[0],
		Date:      date,
		Status:    attendance.StatusSickLeave,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, attendance.StatusSickLeave, second.Status)
	assert.Nil(t, second.SiteID)
	assert.Nil(t, second.OvertimeHours)

	got, err := f.repo.GetByWorkerAndDate(ctx, f.companyID, f.workerIDs[0], date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.StatusSickLeave, got.Status)
}

func TestAttendanceRepository_GetByWorkerAndDate_Missing(t *testing.T) {
	f := newAttendanceFixture(t)

	got, err := f.repo.GetByWorkerAndDate(context.Background(), f.companyID, f.workerIDs[0], day(2024, time.March, 4))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAttendanceRepository_ListByRange(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	for _, e := range []struct {
		worker int
		date   time.Time
	}{
		{0, day(2024, time.February, 25)},
		{0, day(2024, time.February, 26)},
		{1, day(2024, time.March, 10)},
		{0, day(2024, time.March, 25)},
		{1, day(2024, time.March, 26)},
	} {
		_, err := f.repo.Upsert(ctx, attendance.Entry{
			CompanyID: f.companyID,
			WorkerID:  f.workerIDs[e.worker],
			Date:      e.date,
			Status:    attendance.StatusAbsent,
		})
		require.NoError(t, err)
	}

	from, to := day(2024, time.February, 26), day(2024, time.March, 25)

	all, err := f.repo.ListByRange(ctx, f.companyID, from, to, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := f.repo.ListByRange(ctx, f.companyID, from, to, []string{f.workerIDs[1]})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, day(2024, time.March, 10), mine[0].Date.UTC())

	none, err := f.repo.ListByRange(ctx, f.companyID, from, to, []string{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAttendanceRepository_CountByStatusOnDate(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	date := day(2024, time.March, 4)

	for i, status := range []attendance.Status{attendance.StatusPresent, attendance.StatusAnnualLeave} {
		_, err := f.repo.Upsert(ctx, attendance.Entry{
			CompanyID: f.companyID,
			WorkerID:  f.workerIDs[i],
			Date:      date,
			Status:    status,
		})
		require.NoError(t, err)
	}

	counts, err := f.repo.CountByStatusOnDate(ctx, f.companyID, date)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[attendance.StatusPresent])
	assert.Equal(t, 1, counts[attendance.StatusAnnualLeave])
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	date := day(2024, time.March, 4)
	boom := errors.New("boom")

	err := postgresql.NewTransactor(f.setup.DB).WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := f.repo.Upsert(ctx, attendance.Entry{
			CompanyID: f.companyID,
			WorkerID:  f.workerIDs[0],
			Date:      date,
			Status:    attendance.StatusPresent,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := f.repo.GetByWorkerAndDate(ctx, f.companyID, f.workerIDs[0], date)
	require.NoError(t, err)
	assert.Nil(t, got)
}
