package cycle

import (
	"iter"
	"time"
)

// Days is the number of calendar days in the cycle, both ends included.
func (c Cycle) Days() int {
	return int(c.EndDate.Sub(c.StartDate).Hours()/24) + 1
}

// Dates lists every day of the cycle in ascending order.
func (c Cycle) Dates() []time.Time {
	dates := make([]time.Time, 0, c.Days())
	for d := range c.All() {
		dates = append(dates, d)
	}
	return dates
}

// All yields the cycle's days lazily. Each call restarts from StartDate.
func (c Cycle) All() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for d := c.StartDate; !d.After(c.EndDate); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// IsWeekend marks Sundays only.
func IsWeekend(date time.Time) bool {
	return date.Weekday() == time.Sunday
}
