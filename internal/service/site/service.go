package site

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/site"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
)

type siteServiceImpl struct {
	siteRepo site.SiteRepository
}

func NewSiteService(siteRepo site.SiteRepository) site.SiteService {
	return &siteServiceImpl{
		siteRepo: siteRepo,
	}
}

func (s *siteServiceImpl) List(ctx context.Context, activeOnly bool) ([]site.SiteResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sites, err := s.siteRepo.List(ctx, caller.CompanyID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	responses := make([]site.SiteResponse, 0, len(sites))
	for _, st := range sites {
		responses = append(responses, site.NewSiteResponse(st))
	}
	return responses, nil
}

func (s *siteServiceImpl) Get(ctx context.Context, id string) (site.SiteResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return site.SiteResponse{}, err
	}

	entity, err := s.siteRepo.GetByID(ctx, caller.CompanyID, id)
	if err != nil {
		return site.SiteResponse{}, err
	}
	return site.NewSiteResponse(entity), nil
}

func (s *siteServiceImpl) Create(ctx context.Context, req site.CreateSiteRequest) (site.SiteResponse, error) {
	if err := req.Validate(); err != nil {
		return site.SiteResponse{}, err
	}

	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return site.SiteResponse{}, err
	}

	created, err := s.siteRepo.Create(ctx, site.Site{
		CompanyID: caller.CompanyID,
		Name:      req.Name,
		IsActive:  req.Active(),
	})
	if err != nil {
		return site.SiteResponse{}, err
	}
	return site.NewSiteResponse(created), nil
}

// Update implements site.SiteService. Deactivating a site keeps it on old
// entries but removes it from the choices for new Present entries.
func (s *siteServiceImpl) Update(ctx context.Context, req site.UpdateSiteRequest) (site.SiteResponse, error) {
	if err := req.Validate(); err != nil {
		return site.SiteResponse{}, err
	}

	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return site.SiteResponse{}, err
	}

	updated, err := s.siteRepo.Update(ctx, caller.CompanyID, req.ID, req)
	if err != nil {
		return site.SiteResponse{}, err
	}
	return site.NewSiteResponse(updated), nil
}

func (s *siteServiceImpl) Delete(ctx context.Context, id string) error {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return err
	}
	return s.siteRepo.Delete(ctx, caller.CompanyID, id)
}
