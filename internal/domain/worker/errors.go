package worker

import "errors"

var (
	ErrWorkerNotFound   = errors.New("worker not found")
	ErrWorkerCodeExists = errors.New("worker code already exists")
	ErrForemanNotFound  = errors.New("foreman not found in this company")
	ErrSiteNotFound     = errors.New("site not found in this company")
	ErrOnlyHRCanDelete  = errors.New("only HR can delete workers")
	ErrNotAssignedToYou = errors.New("worker is not assigned to you")
)
