package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/worker"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workerRepositoryImpl struct {
	db *database.DB
}

func NewWorkerRepository(db *database.DB) worker.WorkerRepository {
	return &workerRepositoryImpl{db: db}
}

const workerColumns = `id, company_id, full_name, worker_code, start_date, status, site_id, foreman_id, created_at, updated_at`

func scanWorker(row pgx.Row) (worker.Worker, error) {
	var w worker.Worker
	err := row.Scan(
		&w.ID,
		&w.CompanyID,
		&w.FullName,
		&w.WorkerCode,
		&w.StartDate,
		&w.Status,
		&w.SiteID,
		&w.ForemanID,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	return w, err
}

func (r *workerRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	w, err := scanWorker(q.QueryRow(ctx, `SELECT `+workerColumns+` FROM workers WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return worker.Worker{}, worker.ErrWorkerNotFound
		}
		return worker.Worker{}, fmt.Errorf("failed to get worker with id %s: %w", id, err)
	}
	return w, nil
}

func (r *workerRepositoryImpl) List(ctx context.Context, companyID string, filter worker.WorkerFilter) ([]worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"company_id = $1"}
	args := []interface{}{companyID}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.SiteID != nil {
		add("site_id = $%d", *filter.SiteID)
	}
	if filter.ForemanID != nil {
		add("foreman_id = $%d", *filter.ForemanID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		add("(full_name ILIKE $%[1]d OR worker_code ILIKE $%[1]d)", "%"+s+"%")
	}

	query := `SELECT ` + workerColumns + ` FROM workers WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY worker_code`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	defer rows.Close()

	var workers []worker.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func (r *workerRepositoryImpl) Create(ctx context.Context, newWorker worker.Worker) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO workers (id, company_id, full_name, worker_code, start_date, status, site_id, foreman_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + workerColumns

	created, err := scanWorker(q.QueryRow(ctx, query,
		newID(),
		newWorker.CompanyID,
		newWorker.FullName,
		newWorker.WorkerCode,
		newWorker.StartDate,
		newWorker.Status,
		nullIfEmpty(newWorker.SiteID),
		nullIfEmpty(newWorker.ForemanID),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return worker.Worker{}, worker.ErrWorkerCodeExists
		}
		return worker.Worker{}, fmt.Errorf("failed to create worker: %w", err)
	}
	return created, nil
}

// Update implements worker.WorkerRepository. An empty site_id or foreman_id unassigns it.
func (r *workerRepositoryImpl) Update(ctx context.Context, companyID, id string, req worker.UpdateWorkerRequest) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	var b setBuilder
	if req.FullName != nil {
		b.set("full_name", *req.FullName)
	}
	if req.WorkerCode != nil {
		b.set("worker_code", *req.WorkerCode)
	}
	if req.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return worker.Worker{}, fmt.Errorf("invalid start_date %q: %w", *req.StartDate, err)
		}
		b.set("start_date", startDate)
	}
	if req.Status != nil {
		b.set("status", *req.Status)
	}
	if req.SiteID != nil {
		b.set("site_id", nullIfEmpty(req.SiteID))
	}
	if req.ForemanID != nil {
		b.set("foreman_id", nullIfEmpty(req.ForemanID))
	}

	sql, args := b.build("workers", companyID, id)
	updated, err := scanWorker(q.QueryRow(ctx, sql+" RETURNING "+workerColumns, args...))
	if err != nil {
		switch {
		case isNoRows(err):
			return worker.Worker{}, worker.ErrWorkerNotFound
		case isUniqueViolation(err):
			return worker.Worker{}, worker.ErrWorkerCodeExists
		}
		return worker.Worker{}, fmt.Errorf("failed to update worker with id %s: %w", id, err)
	}
	return updated, nil
}

// Delete keeps the worker's attendance history.
func (r *workerRepositoryImpl) Delete(ctx context.Context, companyID, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM workers WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("failed to delete worker with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return worker.ErrWorkerNotFound
	}
	return nil
}

func (r *workerRepositoryImpl) CountActive(ctx context.Context, companyID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM workers WHERE company_id = $1 AND status = 'active'`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count active workers: %w", err)
	}
	return n, nil
}
