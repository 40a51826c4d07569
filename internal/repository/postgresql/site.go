package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/site"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type siteRepositoryImpl struct {
	db *database.DB
}

func NewSiteRepository(db *database.DB) site.SiteRepository {
	return &siteRepositoryImpl{db: db}
}

const siteColumns = `id, company_id, name, is_active, created_at, updated_at`

func scanSite(row pgx.Row) (site.Site, error) {
	var s site.Site
	err := row.Scan(&s.ID, &s.CompanyID, &s.Name, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *siteRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSite(q.QueryRow(ctx, `SELECT `+siteColumns+` FROM sites WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, fmt.Errorf("failed to get site with id %s: %w", id, err)
	}
	return s, nil
}

func (r *siteRepositoryImpl) List(ctx context.Context, companyID string, activeOnly bool) ([]site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + siteColumns + ` FROM sites WHERE company_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY name`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []site.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

func (r *siteRepositoryImpl) Create(ctx context.Context, newSite site.Site) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sites (id, company_id, name, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + siteColumns

	created, err := scanSite(q.QueryRow(ctx, query, newID(), newSite.CompanyID, newSite.Name, newSite.IsActive))
	if err != nil {
		if isUniqueViolation(err) {
			return site.Site{}, site.ErrSiteNameExists
		}
		return site.Site{}, fmt.Errorf("failed to create site: %w", err)
	}
	return created, nil
}

func (r *siteRepositoryImpl) Update(ctx context.Context, companyID, id string, req site.UpdateSiteRequest) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	var b setBuilder
	if req.Name != nil {
		b.set("name", *req.Name)
	}
	if req.IsActive != nil {
		b.set("is_active", *req.IsActive)
	}

	sql, args := b.build("sites", companyID, id)
	updated, err := scanSite(q.QueryRow(ctx, sql+" RETURNING "+siteColumns, args...))
	if err != nil {
		switch {
		case isNoRows(err):
			return site.Site{}, site.ErrSiteNotFound
		case isUniqueViolation(err):
			return site.Site{}, site.ErrSiteNameExists
		}
		return site.Site{}, fmt.Errorf("failed to update site with id %s: %w", id, err)
	}
	return updated, nil
}

// Delete leaves attendance entries pointing at the site untouched.
func (r *siteRepositoryImpl) Delete(ctx context.Context, companyID, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM sites WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("failed to delete site with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return site.ErrSiteNotFound
	}
	return nil
}

func (r *siteRepositoryImpl) CountActive(ctx context.Context, companyID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM sites WHERE company_id = $1 AND is_active`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count active sites: %w", err)
	}
	return n, nil
}
