package attendance

import (
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/validator"
)

const MaxOvertimeHours = 24

// ========================================
// CELL UPDATE
// ========================================

type UpdateCellRequest struct {
	WorkerID      string   `json:"-"`
	Date          string   `json:"-"`
	Status        *string  `json:"status,omitempty"`
	SiteID        *string  `json:"site_id,omitempty"`
	OvertimeHours *float64 `json:"overtime_hours,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func (r *UpdateCellRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.Status != nil && *r.Status != "" && !Status(*r.Status).IsKnown() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: P, A, AL, SL, EL, UL, PH, or empty",
		})
	}

	if r.OvertimeHours != nil && !validator.IsInRange(*r.OvertimeHours, 0, MaxOvertimeHours) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_hours",
			Message: "overtime_hours must be between 0 and 24",
		})
	}

	if r.Notes != nil && len(*r.Notes) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Patch converts the request body into a store patch. Call after Validate.
func (r *UpdateCellRequest) Patch() Patch {
	var p Patch
	if r.Status != nil {
		s := Status(*r.Status)
		p.Status = &s
	}
	p.SiteID = r.SiteID
	p.OvertimeHours = r.OvertimeHours
	p.Notes = r.Notes
	return p
}

// EventEntryUpdated is sent on the grid stream after a cell is saved.
const EventEntryUpdated = "attendance.updated"

// StreamEvent is one server-sent event on the grid stream
type StreamEvent struct {
	Event string        `json:"event"`
	Data  EntryResponse `json:"data"`
}

type EntryResponse struct {
	ID            string   `json:"id"`
	WorkerID      string   `json:"worker_id"`
	Date          string   `json:"date"`
	Status        string   `json:"status"`
	SiteID        *string  `json:"site_id"`
	OvertimeHours *float64 `json:"overtime_hours"`
	Notes         *string  `json:"notes"`
	UpdatedBy     *string  `json:"updated_by,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

func NewEntryResponse(e Entry) EntryResponse {
	resp := EntryResponse{
		ID:            e.ID,
		WorkerID:      e.WorkerID,
		Date:          cycle.FormatDate(e.Date),
		Status:        string(e.Status),
		SiteID:        e.SiteID,
		OvertimeHours: e.OvertimeHours,
		Notes:         e.Notes,
		UpdatedBy:     e.UpdatedBy,
	}
	if !e.UpdatedAt.IsZero() {
		resp.UpdatedAt = e.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// UpdateCellResponse carries Changed=false when the patch had nothing to
// create, which is not an error.
type UpdateCellResponse struct {
	Changed bool           `json:"changed"`
	Entry   *EntryResponse `json:"entry"`
}

// ========================================
// GRID
// ========================================

type GridRequest struct {
	// CycleID selects a past or future cycle; empty means today's cycle.
	CycleID string
}

type StatusOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type CellResponse struct {
	Date          string   `json:"date"`
	Status        string   `json:"status"`
	Display       string   `json:"display"`
	SiteID        *string  `json:"site_id,omitempty"`
	SiteName      *string  `json:"site_name,omitempty"`
	OvertimeHours *float64 `json:"overtime_hours,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	Weekend       bool     `json:"weekend"`
	Editable      bool     `json:"editable"`
}

type RowResponse struct {
	WorkerID   string         `json:"worker_id"`
	FullName   string         `json:"full_name"`
	WorkerCode string         `json:"worker_code"`
	Cells      []CellResponse `json:"cells"`
	Totals     Totals         `json:"totals"`
}

type GridResponse struct {
	Cycle    cycle.CycleResponse  `json:"cycle"`
	Dates    []cycle.DateResponse `json:"dates"`
	Statuses []StatusOption       `json:"statuses"`
	Rows     []RowResponse        `json:"rows"`
}

func NewGridResponse(g Grid) GridResponse {
	resp := GridResponse{
		Cycle:    cycle.NewCycleResponse(g.Cycle),
		Dates:    make([]cycle.DateResponse, len(g.Dates)),
		Statuses: make([]StatusOption, len(Statuses)),
		Rows:     make([]RowResponse, len(g.Rows)),
	}

	for i, d := range g.Dates {
		resp.Dates[i] = cycle.DateResponse{
			Date:    cycle.FormatDate(d),
			Day:     d.Day(),
			Weekday: d.Weekday().String()[:3],
			Weekend: cycle.IsWeekend(d),
		}
	}

	for i, s := range Statuses {
		resp.Statuses[i] = StatusOption{Code: string(s), Label: s.Label()}
	}

	for i, row := range g.Rows {
		cells := make([]CellResponse, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = CellResponse{
				Date:          cycle.FormatDate(c.Date),
				Status:        string(c.Status),
				Display:       string(c.Display()),
				SiteID:        c.SiteID,
				SiteName:      c.SiteName,
				OvertimeHours: c.Overtime,
				Notes:         c.Notes,
				Weekend:       c.Weekend,
				Editable:      c.Editable,
			}
		}
		resp.Rows[i] = RowResponse{
			WorkerID:   row.Worker.ID,
			FullName:   row.Worker.FullName,
			WorkerCode: row.Worker.WorkerCode,
			Cells:      cells,
			Totals:     row.Totals,
		}
	}

	return resp
}

// ========================================
// SUMMARY
// ========================================

type SummaryRequest struct {
	CycleID string `json:"cycle_id,omitempty"`
}

// SummaryRecord is the reduced entry handed to the summary generator.
type SummaryRecord struct {
	WorkerName    string  `json:"worker_name"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	OvertimeHours float64 `json:"overtime_hours"`
}

// UnknownWorkerName stands in for entries whose worker is not on the roster.
const UnknownWorkerName = "Unknown Worker"

// SummaryRecords pairs entries with worker names. Missing overtime becomes 0.
func SummaryRecords(names map[string]string, entries []Entry) []SummaryRecord {
	records := make([]SummaryRecord, 0, len(entries))
	for _, e := range entries {
		name, ok := names[e.WorkerID]
		if !ok {
			name = UnknownWorkerName
		}
		var ot float64
		if e.OvertimeHours != nil {
			ot = *e.OvertimeHours
		}
		records = append(records, SummaryRecord{
			WorkerName:    name,
			Date:          cycle.FormatDate(e.Date),
			Status:        string(e.Status),
			OvertimeHours: ot,
		})
	}
	return records
}

// SummaryResponse always carries readable text. Generated is false when the
// text is a placeholder or a failure message.
type SummaryResponse struct {
	CycleID    string `json:"cycle_id"`
	CycleLabel string `json:"cycle_label"`
	Summary    string `json:"summary"`
	Generated  bool   `json:"generated"`
}

// ========================================
// DASHBOARD
// ========================================

// DayCounts is how many entries carry each status on one date.
type DayCounts map[Status]int
