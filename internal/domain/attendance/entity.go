package attendance

import (
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
)

type Status string

const (
	StatusPresent        Status = "P"
	StatusAbsent         Status = "A"
	StatusAnnualLeave    Status = "AL"
	StatusSickLeave      Status = "SL"
	StatusEmergencyLeave Status = "EL"
	StatusUnpaidLeave    Status = "UL"
	StatusPublicHoliday  Status = "PH"

	// StatusWeekend is shown on empty Sunday cells. It is never stored.
	StatusWeekend Status = "W"
)

// Statuses are the codes a cell can be set to, in display order.
var Statuses = []Status{
	StatusPresent,
	StatusAbsent,
	StatusAnnualLeave,
	StatusSickLeave,
	StatusEmergencyLeave,
	StatusUnpaidLeave,
	StatusPublicHoliday,
}

var statusLabels = map[Status]string{
	StatusPresent:        "Present",
	StatusAbsent:         "Absent",
	StatusAnnualLeave:    "Annual Leave",
	StatusSickLeave:      "Sick Leave",
	StatusEmergencyLeave: "Emergency Leave",
	StatusUnpaidLeave:    "Unpaid Leave",
	StatusPublicHoliday:  "Public Holiday",
	StatusWeekend:        "Weekend",
}

// IsKnown reports whether s is one of Statuses.
func (s Status) IsKnown() bool {
	_, ok := statusLabels[s]
	return ok && s != StatusWeekend
}

func (s Status) Label() string {
	return statusLabels[s]
}

// Entry is one worker's attendance on one day. (WorkerID, Date) is unique.
type Entry struct {
	ID            string
	CompanyID     string
	WorkerID      string
	Date          time.Time
	Status        Status
	SiteID        *string
	OvertimeHours *float64
	Notes         *string
	UpdatedBy     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e Entry) IsPresent() bool {
	return e.Status == StatusPresent
}

// Patch is a partial update. A nil field keeps the prior value.
type Patch struct {
	Status        *Status
	SiteID        *string
	OvertimeHours *float64
	Notes         *string
}

// HasStatus reports whether the patch carries a non-empty status.
func (p Patch) HasStatus() bool {
	return p.Status != nil && *p.Status != ""
}

func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.SiteID == nil && p.OvertimeHours == nil && p.Notes == nil
}

// Merge applies p on top of prior and returns the resulting entry.
//
// Without a prior entry a new one is produced only when p carries a status;
// otherwise ok is false and nothing should be written. Whenever the resulting
// status is set to something other than Present, site and overtime are cleared
// no matter what p supplied. The returned entry has no ID when prior is nil.
func Merge(prior *Entry, workerID string, date time.Time, p Patch) (merged Entry, ok bool) {
	if prior == nil {
		if !p.HasStatus() {
			return Entry{}, false
		}
		merged = Entry{WorkerID: workerID, Date: cycle.DateOf(date)}
	} else {
		merged = *prior
	}

	if p.Status != nil {
		merged.Status = *p.Status
	}
	if p.SiteID != nil {
		merged.SiteID = nil
		if *p.SiteID != "" {
			site := *p.SiteID
			merged.SiteID = &site
		}
	}
	if p.OvertimeHours != nil {
		ot := *p.OvertimeHours
		merged.OvertimeHours = &ot
	}
	if p.Notes != nil {
		notes := *p.Notes
		merged.Notes = &notes
	}

	if merged.Status != "" && merged.Status != StatusPresent {
		merged.SiteID = nil
		merged.OvertimeHours = nil
	}

	return merged, true
}
