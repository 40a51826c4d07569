package site

import "context"

type SiteService interface {
	List(ctx context.Context, activeOnly bool) ([]SiteResponse, error)
	Get(ctx context.Context, id string) (SiteResponse, error)
	Create(ctx context.Context, req CreateSiteRequest) (SiteResponse, error)
	Update(ctx context.Context, req UpdateSiteRequest) (SiteResponse, error)
	Delete(ctx context.Context, id string) error
}
