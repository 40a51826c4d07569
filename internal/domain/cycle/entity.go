package cycle

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Boundary days: a cycle runs from the 26th of one month to the 25th of the next.
const (
	StartDay = 26
	EndDay   = 25
)

// Cycle is an attendance pay period. It is derived, never persisted.
type Cycle struct {
	ID        string
	CompanyID string
	Label     string
	StartDate time.Time
	EndDate   time.Time
}

// DateOf truncates t to its calendar day in t's own location and returns
// that day as UTC midnight, which is how every date is carried internally.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDay compares calendar days only.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// Current returns the cycle containing today.
func Current(today time.Time) Cycle {
	y, m, d := today.Date()

	var start time.Time
	if d >= StartDay {
		start = time.Date(y, m, StartDay, 0, 0, 0, 0, time.UTC)
	} else {
		start = time.Date(y, m-1, StartDay, 0, 0, 0, 0, time.UTC)
	}
	return fromStart(start)
}

// ForCompany is Current scoped to a company.
func ForCompany(companyID string, today time.Time) Cycle {
	c := Current(today)
	c.CompanyID = companyID
	return c
}

// FromID reverses the identifier produced by Current.
func FromID(id string) (Cycle, error) {
	var year, month int
	if _, err := fmt.Sscanf(id, "cycle-%d-%d", &year, &month); err != nil || month < 1 || month > 12 {
		return Cycle{}, fmt.Errorf("%w: %q", ErrInvalidCycleID, id)
	}
	c := fromStart(time.Date(year, time.Month(month), StartDay, 0, 0, 0, 0, time.UTC))
	if c.ID != id {
		return Cycle{}, fmt.Errorf("%w: %q", ErrInvalidCycleID, id)
	}
	return c, nil
}

// time.Date normalises month 0 and 13, which takes care of year rollover.
func fromStart(start time.Time) Cycle {
	end := time.Date(start.Year(), start.Month()+1, EndDay, 0, 0, 0, 0, time.UTC)
	return Cycle{
		ID:        fmt.Sprintf("cycle-%d-%d", start.Year(), int(start.Month())),
		Label:     fmt.Sprintf("%s-%s %d", start.Format("Jan"), end.Format("Jan"), end.Year()),
		StartDate: start,
		EndDate:   end,
	}
}

// Next returns the cycle that follows c.
func (c Cycle) Next() Cycle {
	next := fromStart(c.EndDate.AddDate(0, 0, 1))
	next.CompanyID = c.CompanyID
	return next
}

// Previous returns the cycle that precedes c.
func (c Cycle) Previous() Cycle {
	prev := Current(c.StartDate.AddDate(0, 0, -1))
	prev.CompanyID = c.CompanyID
	return prev
}

// Contains reports whether date falls inside the cycle, bounds included.
func (c Cycle) Contains(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(c.StartDate) && !d.After(c.EndDate)
}
