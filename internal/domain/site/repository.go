package site

import "context"

type SiteRepository interface {
	GetByID(ctx context.Context, companyID, id string) (Site, error)
	List(ctx context.Context, companyID string, activeOnly bool) ([]Site, error)
	Create(ctx context.Context, newSite Site) (Site, error)
	Update(ctx context.Context, companyID, id string, req UpdateSiteRequest) (Site, error)
	Delete(ctx context.Context, companyID, id string) error
	CountActive(ctx context.Context, companyID string) (int, error)
}
