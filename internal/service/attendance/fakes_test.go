package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/company"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/site"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/worker"
)

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeAttendanceRepo struct {
	entries map[string]attendance.Entry
	upserts int

	// lastWorkerIDs records the filter of the latest ListByRange call
	lastWorkerIDs []string
}

func newFakeAttendanceRepo(seed ...attendance.Entry) *fakeAttendanceRepo {
	r := &fakeAttendanceRepo{entries: make(map[string]attendance.Entry)}
	for _, e := range seed {
		r.entries[r.key(e.WorkerID, e.Date)] = e
	}
	return r
}

func (r *fakeAttendanceRepo) key(workerID string, date time.Time) string {
	return workerID + "|" + cycle.FormatDate(date)
}

func (r *fakeAttendanceRepo) GetByWorkerAndDate(ctx context.Context, companyID, workerID string, date time.Time) (*attendance.Entry, error) {
	e, ok := r.entries[r.key(workerID, date)]
	if !ok || e.CompanyID != companyID {
		return nil, nil
	}
	return &e, nil
}

func (r *fakeAttendanceRepo) ListByRange(ctx context.Context, companyID string, from, to time.Time, workerIDs []string) ([]attendance.Entry, error) {
	r.lastWorkerIDs = workerIDs
	allowed := make(map[string]bool, len(workerIDs))
	for _, id := range workerIDs {
		allowed[id] = true
	}

	var out []attendance.Entry
	for _, e := range r.entries {
		if e.CompanyID != companyID || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		if workerIDs != nil && !allowed[e.WorkerID] {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeAttendanceRepo) Upsert(ctx context.Context, entry attendance.Entry) (attendance.Entry, error) {
	r.upserts++
	k := r.key(entry.WorkerID, entry.Date)
	if prior, ok := r.entries[k]; ok {
		entry.ID = prior.ID
		entry.CreatedAt = prior.CreatedAt
	} else {
		entry.CreatedAt = time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	}
	entry.UpdatedAt = entry.CreatedAt.Add(time.Hour)
	r.entries[k] = entry
	return entry, nil
}

func (r *fakeAttendanceRepo) CountByStatusOnDate(ctx context.Context, companyID string, date time.Time) (attendance.DayCounts, error) {
	counts := attendance.DayCounts{}
	for _, e := range r.entries {
		if e.CompanyID == companyID && cycle.SameDay(e.Date, date) && e.Status != "" {
			counts[e.Status]++
		}
	}
	return counts, nil
}

type fakeWorkerRepo struct {
	worker.WorkerRepository
	workers []worker.Worker
}

func (r *fakeWorkerRepo) GetByID(ctx context.Context, companyID, id string) (worker.Worker, error) {
	for _, w := range r.workers {
		if w.CompanyID == companyID && w.ID == id {
			return w, nil
		}
	}
	return worker.Worker{}, worker.ErrWorkerNotFound
}

func (r *fakeWorkerRepo) List(ctx context.Context, companyID string, filter worker.WorkerFilter) ([]worker.Worker, error) {
	var out []worker.Worker
	for _, w := range r.workers {
		if w.CompanyID != companyID {
			continue
		}
		if filter.ForemanID != nil && !w.IsCrewOf(*filter.ForemanID) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

type fakeSiteRepo struct {
	site.SiteRepository
	sites []site.Site
}

func (r *fakeSiteRepo) GetByID(ctx context.Context, companyID, id string) (site.Site, error) {
	for _, s := range r.sites {
		if s.CompanyID == companyID && s.ID == id {
			return s, nil
		}
	}
	return site.Site{}, site.ErrSiteNotFound
}

func (r *fakeSiteRepo) List(ctx context.Context, companyID string, activeOnly bool) ([]site.Site, error) {
	var out []site.Site
	for _, s := range r.sites {
		if s.CompanyID == companyID && (!activeOnly || s.IsActive) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCompanyRepo struct {
	company.CompanyRepository
	company company.Company
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id string) (company.Company, error) {
	if id != r.company.ID {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return r.company, nil
}

type fakeSummary struct {
	err     error
	label   string
	records []attendance.SummaryRecord
}

func (f *fakeSummary) Summarize(ctx context.Context, cycleLabel string, records []attendance.SummaryRecord) (string, error) {
	f.label = cycleLabel
	f.records = records
	if errors.Is(f.err, attendance.ErrSummaryNotConfigured) {
		return "placeholder", f.err
	}
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("%d entries reviewed", len(records)), nil
}

type fakeTimesheet struct {
	companyName string
	rows        int
}

func (f *fakeTimesheet) Write(w io.Writer, companyName string, grid attendance.Grid) error {
	f.companyName = companyName
	f.rows = len(grid.Rows)
	_, err := io.WriteString(w, "xlsx")
	return err
}
