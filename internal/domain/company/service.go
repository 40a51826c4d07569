package company

import (
	"context"
)

// CompanyService manages the caller's own company settings
type CompanyService interface {
	GetMy(ctx context.Context) (CompanyResponse, error)
	UpdateMy(ctx context.Context, req UpdateCompanyRequest) (CompanyResponse, error)
	UploadLogo(ctx context.Context, req UploadCompanyLogoRequest) (UploadCompanyLogoResponse, error)
}
