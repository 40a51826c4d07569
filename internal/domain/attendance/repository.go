package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance entries.
// All methods include companyID parameter to prevent cross-company data access.
type AttendanceRepository interface {
	// GetByWorkerAndDate returns nil, nil when no entry exists
	GetByWorkerAndDate(ctx context.Context, companyID, workerID string, date time.Time) (*Entry, error)

	// ListByRange returns entries with from <= date <= to. A nil workerIDs means every worker.
	ListByRange(ctx context.Context, companyID string, from, to time.Time, workerIDs []string) ([]Entry, error)

	// Upsert writes the entry keyed by (worker_id, date); the last write wins
	Upsert(ctx context.Context, entry Entry) (Entry, error)

	CountByStatusOnDate(ctx context.Context, companyID string, date time.Time) (DayCounts, error)
}
