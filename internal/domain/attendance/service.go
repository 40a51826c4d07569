package attendance

import (
	"context"
	"io"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
)

// AttendanceService defines business logic for the attendance grid
type AttendanceService interface {
	// GetCycle returns the cycle containing date, or today's cycle when date is nil
	GetCycle(ctx context.Context, date *time.Time) (cycle.CycleResponse, error)

	// GetGrid builds the grid for the caller; a Foreman only sees own workers
	GetGrid(ctx context.Context, req GridRequest) (GridResponse, error)

	// UpdateCell applies a patch to one cell after checking CanEdit
	UpdateCell(ctx context.Context, req UpdateCellRequest) (UpdateCellResponse, error)

	// GenerateSummary asks the summary generator about the cycle
	GenerateSummary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)

	// ExportTimesheet writes the grid as a spreadsheet and returns its file name
	ExportTimesheet(ctx context.Context, req GridRequest, w io.Writer) (string, error)

	// Subscribe streams saved cell changes the caller may see on the grid.
	// The channel closes when ctx is done; cleanup must always be called.
	Subscribe(ctx context.Context) (events <-chan StreamEvent, cleanup func(), err error)
}

// SummaryGenerator turns simplified entries into freeform text.
type SummaryGenerator interface {
	Summarize(ctx context.Context, cycleLabel string, records []SummaryRecord) (string, error)
}

// TimesheetWriter renders a grid as a spreadsheet.
type TimesheetWriter interface {
	Write(w io.Writer, companyName string, grid Grid) error
}
