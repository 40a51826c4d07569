package attendance

import (
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
)

// RowWorker is the slice of a worker the grid needs.
type RowWorker struct {
	ID         string
	FullName   string
	WorkerCode string
}

// Cell is one (worker, date) position of the grid. SiteName and Overtime
// are only filled for Present entries.
type Cell struct {
	Date     time.Time
	Status   Status
	SiteID   *string
	SiteName *string
	Overtime *float64
	Notes    *string
	Weekend  bool
	Editable bool
}

// Display is the code to print: the status, or W on an empty Sunday.
func (c Cell) Display() Status {
	if c.Status == "" && c.Weekend {
		return StatusWeekend
	}
	return c.Status
}

type Row struct {
	Worker RowWorker
	Cells  []Cell
	Totals Totals
}

type Grid struct {
	Cycle cycle.Cycle
	Dates []time.Time
	Rows  []Row
}

type GridInput struct {
	Cycle     cycle.Cycle
	Workers   []RowWorker
	Entries   *Store
	SiteNames map[string]string
	Role      user.Role
	Today     time.Time
}

// BuildGrid lays the cycle's days against the workers, in the order given.
func BuildGrid(in GridInput) Grid {
	if in.Entries == nil {
		in.Entries = NewStore(nil)
	}

	dates := in.Cycle.Dates()
	workerIDs := make([]string, len(in.Workers))
	for i, w := range in.Workers {
		workerIDs[i] = w.ID
	}
	totals := Aggregate(workerIDs, in.Entries.Entries())

	editable := make([]bool, len(dates))
	weekend := make([]bool, len(dates))
	for i, d := range dates {
		editable[i] = CanEdit(in.Role, d, in.Today)
		weekend[i] = cycle.IsWeekend(d)
	}

	rows := make([]Row, 0, len(in.Workers))
	for _, w := range in.Workers {
		cells := make([]Cell, len(dates))
		for i, d := range dates {
			cell := Cell{Date: d, Weekend: weekend[i], Editable: editable[i]}
			if e, ok := in.Entries.Get(w.ID, d); ok {
				cell.Status = e.Status
				cell.SiteID = e.SiteID
				cell.Notes = e.Notes
				if e.IsPresent() {
					if e.SiteID != nil {
						if name, ok := in.SiteNames[*e.SiteID]; ok {
							cell.SiteName = &name
						}
					}
					if e.OvertimeHours != nil && *e.OvertimeHours > 0 {
						ot := *e.OvertimeHours
						cell.Overtime = &ot
					}
				}
			}
			cells[i] = cell
		}
		rows = append(rows, Row{Worker: w, Cells: cells, Totals: totals[w.ID]})
	}

	return Grid{Cycle: in.Cycle, Dates: dates, Rows: rows}
}
