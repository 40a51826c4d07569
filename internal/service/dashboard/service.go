package dashboard

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/dashboard"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/site"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/worker"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	workerRepo     worker.WorkerRepository
	siteRepo       site.SiteRepository
	attendanceRepo attendance.AttendanceRepository
	clock          cycle.Clock
}

func NewDashboardService(workerRepo worker.WorkerRepository, siteRepo site.SiteRepository, attendanceRepo attendance.AttendanceRepository, clock cycle.Clock) dashboard.DashboardService {
	return &DashboardServiceImpl{
		workerRepo:     workerRepo,
		siteRepo:       siteRepo,
		attendanceRepo: attendanceRepo,
		clock:          clock,
	}
}

// Get implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Get(ctx context.Context) (dashboard.DashboardResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}

	today := s.clock.Today()
	resp := dashboard.DashboardResponse{
		Date:          cycle.FormatDate(today),
		Cycle:         cycle.NewCycleResponse(cycle.ForCompany(caller.CompanyID, today)),
		TodayByStatus: make(map[string]int, len(attendance.Statuses)),
	}

	var counts attendance.DayCounts
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.workerRepo.CountActive(gCtx, caller.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to count active workers: %w", err)
		}
		resp.ActiveWorkers = n
		return nil
	})

	g.Go(func() error {
		n, err := s.siteRepo.CountActive(gCtx, caller.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to count active sites: %w", err)
		}
		resp.ActiveSites = n
		return nil
	})

	g.Go(func() error {
		c, err := s.attendanceRepo.CountByStatusOnDate(gCtx, caller.CompanyID, today)
		if err != nil {
			return fmt.Errorf("failed to count today's attendance: %w", err)
		}
		counts = c
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	for _, st := range attendance.Statuses {
		resp.TodayByStatus[string(st)] = counts[st]
	}
	resp.PresentToday = counts[attendance.StatusPresent]
	resp.AbsentToday = counts[attendance.StatusAbsent]

	return resp, nil
}
