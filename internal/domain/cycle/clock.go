package cycle

import "time"

// Clock tells the current instant. Services take one so that "today" can be
// pinned in tests.
type Clock func() time.Time

// ClockIn returns the wall clock viewed from loc, so that Today follows the
// company's local calendar rather than UTC.
func ClockIn(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

// Today is the calendar day of the clock's current instant.
func (c Clock) Today() time.Time {
	return DateOf(c())
}
