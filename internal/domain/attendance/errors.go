package attendance

import "errors"

var (
	ErrCellNotEditable = errors.New("you are not allowed to edit attendance for this date")
	ErrInvalidCycle    = errors.New("invalid attendance cycle")
	ErrWorkerNotFound  = errors.New("worker not found")
	ErrSiteNotFound    = errors.New("site not found or inactive")

	// ErrSummaryNotConfigured comes with placeholder text that is still shown to the user
	ErrSummaryNotConfigured = errors.New("summary generator is not configured")
)
