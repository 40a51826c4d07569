package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/company"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/database"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT c.id, c.name, c.logo_url, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM workers w WHERE w.company_id = c.id AND w.status = 'active')
		FROM companies c
		WHERE c.id = $1
	`

	var comp company.Company
	err := q.QueryRow(ctx, query, id).Scan(
		&comp.ID,
		&comp.Name,
		&comp.LogoURL,
		&comp.CreatedAt,
		&comp.UpdatedAt,
		&comp.Headcount,
	)
	if err != nil {
		if isNoRows(err) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company with id %s: %w", id, err)
	}
	return comp, nil
}

// Update implements company.CompanyRepository.
func (c *companyRepositoryImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) error {
	q := GetQuerier(ctx, c.db)

	if req.Name == nil {
		return nil
	}

	tag, err := q.Exec(ctx, `UPDATE companies SET name = $1, updated_at = $2 WHERE id = $3`, *req.Name, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update company with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// UpdateLogoURL implements company.CompanyRepository.
func (c *companyRepositoryImpl) UpdateLogoURL(ctx context.Context, id string, logoURL string) error {
	q := GetQuerier(ctx, c.db)

	tag, err := q.Exec(ctx, `UPDATE companies SET logo_url = $1, updated_at = NOW() WHERE id = $2`, logoURL, id)
	if err != nil {
		return fmt.Errorf("failed to update logo for company %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}
