package company

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/company"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-attendance/internal/service/file"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
	fileService file.FileService
}

func NewCompanyService(companyRepo company.CompanyRepository, fileService file.FileService) company.CompanyService {
	return &CompanyServiceImpl{
		CompanyRepository: companyRepo,
		fileService:       fileService,
	}
}

// GetMy implements company.CompanyService.
func (c *CompanyServiceImpl) GetMy(ctx context.Context) (company.CompanyResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return company.CompanyResponse{}, err
	}

	companyData, err := c.CompanyRepository.GetByID(ctx, caller.CompanyID)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(companyData), nil
}

// UpdateMy implements company.CompanyService.
func (c *CompanyServiceImpl) UpdateMy(ctx context.Context, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return company.CompanyResponse{}, err
	}

	if err := c.CompanyRepository.Update(ctx, caller.CompanyID, req); err != nil {
		return company.CompanyResponse{}, err
	}
	return c.GetMy(ctx)
}

// UploadLogo implements company.CompanyService.
func (c *CompanyServiceImpl) UploadLogo(ctx context.Context, req company.UploadCompanyLogoRequest) (company.UploadCompanyLogoResponse, error) {
	if err := req.Validate(); err != nil {
		return company.UploadCompanyLogoResponse{}, err
	}

	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return company.UploadCompanyLogoResponse{}, err
	}

	key, err := c.fileService.UploadCompanyLogo(ctx, caller.CompanyID, req.File, req.FileHeader.Filename)
	if err != nil {
		return company.UploadCompanyLogoResponse{}, err
	}

	logoURL, err := c.fileService.GetFileURL(ctx, key)
	if err != nil {
		return company.UploadCompanyLogoResponse{}, fmt.Errorf("failed to get company logo URL: %w", err)
	}

	if err := c.CompanyRepository.UpdateLogoURL(ctx, caller.CompanyID, logoURL); err != nil {
		if delErr := c.fileService.DeleteFile(ctx, key); delErr != nil {
			slog.Warn("failed to remove orphaned company logo", "key", key, "error", delErr)
		}
		return company.UploadCompanyLogoResponse{}, err
	}

	return company.UploadCompanyLogoResponse{LogoURL: logoURL}, nil
}
