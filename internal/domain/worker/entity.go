package worker

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

type Worker struct {
	ID         string
	CompanyID  string
	FullName   string
	WorkerCode string
	StartDate  time.Time
	Status     Status
	SiteID     *string
	ForemanID  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (w *Worker) IsActive() bool {
	return w.Status == StatusActive
}

// IsCrewOf reports whether the worker is assigned to the given foreman.
func (w *Worker) IsCrewOf(foremanID string) bool {
	return w.ForemanID != nil && *w.ForemanID == foremanID
}
