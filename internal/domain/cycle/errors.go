package cycle

import "errors"

var (
	ErrInvalidDate    = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidCycleID = errors.New("invalid cycle id")
)
