package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const entryColumns = `id, company_id, worker_id, date, status, site_id, overtime_hours, notes, updated_by, created_at, updated_at`

func scanEntry(row pgx.Row) (attendance.Entry, error) {
	var e attendance.Entry
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.WorkerID, &e.Date, &e.Status,
		&e.SiteID, &e.OvertimeHours, &e.Notes, &e.UpdatedBy,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetByWorkerAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByWorkerAndDate(ctx context.Context, companyID, workerID string, date time.Time) (*attendance.Entry, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + entryColumns + ` FROM attendance_entries WHERE company_id = $1 AND worker_id = $2 AND date = $3`

	e, err := scanEntry(q.QueryRow(ctx, query, companyID, workerID, date))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance entry: %w", err)
	}
	return &e, nil
}

// ListByRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByRange(ctx context.Context, companyID string, from, to time.Time, workerIDs []string) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + entryColumns + ` FROM attendance_entries WHERE company_id = $1 AND date BETWEEN $2 AND $3`
	args := []interface{}{companyID, from, to}
	if workerIDs != nil {
		if len(workerIDs) == 0 {
			return []attendance.Entry{}, nil
		}
		placeholders := make([]string, len(workerIDs))
		for i, id := range workerIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += ` AND worker_id IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY worker_id, date`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance entries: %w", err)
	}
	defer rows.Close()

	var entries []attendance.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Upsert implements attendance.AttendanceRepository. On conflict the existing
// row keeps its id and created_at; every other column is overwritten.
func (a *attendanceRepository) Upsert(ctx context.Context, e attendance.Entry) (attendance.Entry, error) {
	q := GetQuerier(ctx, a.db)

	if e.ID == "" {
		e.ID = newID()
	}

	query := `
		INSERT INTO attendance_entries (id, company_id, worker_id, date, status, site_id, overtime_hours, notes, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (worker_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			site_id = EXCLUDED.site_id,
			overtime_hours = EXCLUDED.overtime_hours,
			notes = EXCLUDED.notes,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING ` + entryColumns

	saved, err := scanEntry(q.QueryRow(ctx, query,
		e.ID,
		e.CompanyID,
		e.WorkerID,
		e.Date,
		e.Status,
		e.SiteID,
		e.OvertimeHours,
		e.Notes,
		e.UpdatedBy,
	))
	if err != nil {
		return attendance.Entry{}, fmt.Errorf("failed to upsert attendance entry for worker %s on %s: %w",
			e.WorkerID, e.Date.Format("2006-01-02"), err)
	}
	return saved, nil
}

// CountByStatusOnDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountByStatusOnDate(ctx context.Context, companyID string, date time.Time) (attendance.DayCounts, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT status, COUNT(*)
		FROM attendance_entries
		WHERE company_id = $1 AND date = $2 AND status <> ''
		GROUP BY status
	`

	rows, err := q.Query(ctx, query, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance by status: %w", err)
	}
	defer rows.Close()

	counts := attendance.DayCounts{}
	for rows.Next() {
		var status attendance.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan attendance count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
