package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/company"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/site"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/worker"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/sse"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	worker.WorkerRepository
	site.SiteRepository
	company.CompanyRepository
	summary   attendance.SummaryGenerator
	timesheet attendance.TimesheetWriter
	hub       *sse.Hub
	clock     cycle.Clock
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	workerRepo worker.WorkerRepository,
	siteRepo site.SiteRepository,
	companyRepo company.CompanyRepository,
	summary attendance.SummaryGenerator,
	timesheet attendance.TimesheetWriter,
	hub *sse.Hub,
	clock cycle.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		WorkerRepository:     workerRepo,
		SiteRepository:       siteRepo,
		CompanyRepository:    companyRepo,
		summary:              summary,
		timesheet:            timesheet,
		hub:                  hub,
		clock:                clock,
	}
}

// GetCycle implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetCycle(ctx context.Context, date *time.Time) (cycle.CycleResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return cycle.CycleResponse{}, err
	}

	day := s.clock.Today()
	if date != nil {
		day = cycle.DateOf(*date)
	}
	return cycle.NewCycleResponse(cycle.ForCompany(caller.CompanyID, day)), nil
}

// resolveCycle returns the cycle named by cycleID, or today's cycle when it is empty.
func (s *AttendanceServiceImpl) resolveCycle(companyID, cycleID string) (cycle.Cycle, error) {
	if cycleID == "" {
		return cycle.ForCompany(companyID, s.clock.Today()), nil
	}
	c, err := cycle.FromID(cycleID)
	if err != nil {
		return cycle.Cycle{}, attendance.ErrInvalidCycle
	}
	c.CompanyID = companyID
	return c, nil
}

// rosterFor lists the workers the caller may see on the grid.
func (s *AttendanceServiceImpl) rosterFor(ctx context.Context, caller jwt.Caller) ([]worker.Worker, error) {
	var filter worker.WorkerFilter
	if caller.Role == user.RoleForeman {
		filter.ForemanID = &caller.UserID
	}
	workers, err := s.WorkerRepository.List(ctx, caller.CompanyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

func (s *AttendanceServiceImpl) buildGrid(ctx context.Context, caller jwt.Caller, cycleID string) (attendance.Grid, error) {
	c, err := s.resolveCycle(caller.CompanyID, cycleID)
	if err != nil {
		return attendance.Grid{}, err
	}

	workers, err := s.rosterFor(ctx, caller)
	if err != nil {
		return attendance.Grid{}, err
	}

	rowWorkers := make([]attendance.RowWorker, len(workers))
	var workerIDs []string
	if caller.Role == user.RoleForeman {
		workerIDs = make([]string, 0, len(workers))
	}
	for i, w := range workers {
		rowWorkers[i] = attendance.RowWorker{ID: w.ID, FullName: w.FullName, WorkerCode: w.WorkerCode}
		if workerIDs != nil {
			workerIDs = append(workerIDs, w.ID)
		}
	}

	entries, err := s.AttendanceRepository.ListByRange(ctx, caller.CompanyID, c.StartDate, c.EndDate, workerIDs)
	if err != nil {
		return attendance.Grid{}, fmt.Errorf("failed to list attendance entries: %w", err)
	}

	sites, err := s.SiteRepository.List(ctx, caller.CompanyID, false)
	if err != nil {
		return attendance.Grid{}, fmt.Errorf("failed to list sites: %w", err)
	}
	siteNames := make(map[string]string, len(sites))
	for _, st := range sites {
		siteNames[st.ID] = st.Name
	}

	return attendance.BuildGrid(attendance.GridInput{
		Cycle:     c,
		Workers:   rowWorkers,
		Entries:   attendance.NewStoreFrom(entries),
		SiteNames: siteNames,
		Role:      caller.Role,
		Today:     s.clock.Today(),
	}), nil
}

// GetGrid implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetGrid(ctx context.Context, req attendance.GridRequest) (attendance.GridResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return attendance.GridResponse{}, err
	}

	grid, err := s.buildGrid(ctx, caller, req.CycleID)
	if err != nil {
		return attendance.GridResponse{}, err
	}
	return attendance.NewGridResponse(grid), nil
}

// UpdateCell implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateCell(ctx context.Context, req attendance.UpdateCellRequest) (attendance.UpdateCellResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.UpdateCellResponse{}, err
	}

	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return attendance.UpdateCellResponse{}, err
	}

	date, err := cycle.ParseDate(req.Date)
	if err != nil {
		return attendance.UpdateCellResponse{}, err
	}

	if !attendance.CanEdit(caller.Role, date, s.clock.Today()) {
		return attendance.UpdateCellResponse{}, attendance.ErrCellNotEditable
	}

	w, err := s.WorkerRepository.GetByID(ctx, caller.CompanyID, req.WorkerID)
	if err != nil {
		if errors.Is(err, worker.ErrWorkerNotFound) {
			return attendance.UpdateCellResponse{}, attendance.ErrWorkerNotFound
		}
		return attendance.UpdateCellResponse{}, fmt.Errorf("failed to get worker: %w", err)
	}
	if caller.Role == user.RoleForeman && !w.IsCrewOf(caller.UserID) {
		return attendance.UpdateCellResponse{}, attendance.ErrCellNotEditable
	}

	patch := req.Patch()
	var resp attendance.UpdateCellResponse

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		prior, err := s.AttendanceRepository.GetByWorkerAndDate(ctx, caller.CompanyID, w.ID, date)
		if err != nil {
			return fmt.Errorf("failed to get attendance entry: %w", err)
		}

		store := attendance.NewStore(nil)
		if prior != nil {
			store.Put(*prior)
		}

		merged, ok := store.Upsert(w.ID, date, patch)
		if !ok {
			return nil
		}

		if merged.IsPresent() && patch.SiteID != nil && *patch.SiteID != "" {
			if err := s.checkSite(ctx, caller.CompanyID, *patch.SiteID); err != nil {
				return err
			}
		}

		merged.CompanyID = caller.CompanyID
		merged.UpdatedBy = &caller.UserID

		saved, err := s.AttendanceRepository.Upsert(ctx, merged)
		if err != nil {
			return fmt.Errorf("failed to save attendance entry: %w", err)
		}
		store.Put(saved)

		entry := attendance.NewEntryResponse(saved)
		resp = attendance.UpdateCellResponse{Changed: true, Entry: &entry}
		return nil
	})
	if err != nil {
		return attendance.UpdateCellResponse{}, err
	}

	if resp.Changed {
		s.hub.Publish(sse.Event{
			CompanyID: caller.CompanyID,
			WorkerID:  w.ID,
			Event:     attendance.EventEntryUpdated,
			Data:      *resp.Entry,
		})
	}

	return resp, nil
}

func (s *AttendanceServiceImpl) checkSite(ctx context.Context, companyID, siteID string) error {
	st, err := s.SiteRepository.GetByID(ctx, companyID, siteID)
	if err != nil {
		if errors.Is(err, site.ErrSiteNotFound) {
			return attendance.ErrSiteNotFound
		}
		return fmt.Errorf("failed to get site: %w", err)
	}
	if !st.IsActive {
		return attendance.ErrSiteNotFound
	}
	return nil
}

// GenerateSummary implements attendance.AttendanceService.
// A generator failure is reported in the response text, not as an error.
func (s *AttendanceServiceImpl) GenerateSummary(ctx context.Context, req attendance.SummaryRequest) (attendance.SummaryResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	c, err := s.resolveCycle(caller.CompanyID, req.CycleID)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	workers, err := s.WorkerRepository.List(ctx, caller.CompanyID, worker.WorkerFilter{})
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list workers: %w", err)
	}
	names := make(map[string]string, len(workers))
	for _, w := range workers {
		names[w.ID] = w.FullName
	}

	entries, err := s.AttendanceRepository.ListByRange(ctx, caller.CompanyID, c.StartDate, c.EndDate, nil)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendance entries: %w", err)
	}

	resp := attendance.SummaryResponse{CycleID: c.ID, CycleLabel: c.Label}

	text, err := s.summary.Summarize(ctx, c.Label, attendance.SummaryRecords(names, entries))
	if errors.Is(err, attendance.ErrSummaryNotConfigured) {
		resp.Summary = text
		return resp, nil
	}
	if err != nil {
		slog.Error("GenerateSummary summarize error", "cycle_id", c.ID, "error", err)
		resp.Summary = fmt.Sprintf("Failed to generate AI summary: %s", err.Error())
		return resp, nil
	}

	resp.Summary = text
	resp.Generated = true
	return resp, nil
}

// ExportTimesheet implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ExportTimesheet(ctx context.Context, req attendance.GridRequest, w io.Writer) (string, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return "", err
	}

	companyData, err := s.CompanyRepository.GetByID(ctx, caller.CompanyID)
	if err != nil {
		return "", fmt.Errorf("failed to get company: %w", err)
	}

	grid, err := s.buildGrid(ctx, caller, req.CycleID)
	if err != nil {
		return "", err
	}

	if err := s.timesheet.Write(w, companyData.Name, grid); err != nil {
		return "", fmt.Errorf("failed to write timesheet: %w", err)
	}

	return fmt.Sprintf("timesheet-%s.xlsx", grid.Cycle.ID), nil
}

// Subscribe implements attendance.AttendanceService.
// A Foreman's crew is fixed for the lifetime of the subscription.
func (s *AttendanceServiceImpl) Subscribe(ctx context.Context) (<-chan attendance.StreamEvent, func(), error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	var accept func(sse.Event) bool
	if caller.Role == user.RoleForeman {
		workers, err := s.rosterFor(ctx, caller)
		if err != nil {
			return nil, nil, err
		}
		crew := make(map[string]struct{}, len(workers))
		for _, w := range workers {
			crew[w.ID] = struct{}{}
		}
		accept = func(e sse.Event) bool {
			_, ok := crew[e.WorkerID]
			return ok
		}
	}

	ch, cleanup := s.hub.Subscribe(caller.CompanyID, accept)

	out := make(chan attendance.StreamEvent, 10)
	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				entry, ok := event.Data.(attendance.EntryResponse)
				if !ok {
					continue
				}
				select {
				case out <- attendance.StreamEvent{Event: event.Event, Data: entry}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup, nil
}
