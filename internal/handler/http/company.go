package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/company"
	"github.com/cmlabs-hris/workforce-attendance/internal/handler/http/response"
)

type CompanyHandler interface {
	GetMy(w http.ResponseWriter, r *http.Request)
	UpdateMy(w http.ResponseWriter, r *http.Request)
	UploadLogo(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &CompanyHandlerImpl{
		companyService: companyService,
	}
}

// GetMy implements CompanyHandler.
func (c *CompanyHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	resp, err := c.companyService.GetMy(r.Context())
	if err != nil {
		slog.Error("Get company service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// UpdateMy implements CompanyHandler.
func (c *CompanyHandlerImpl) UpdateMy(w http.ResponseWriter, r *http.Request) {
	var updateReq company.UpdateCompanyRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Call service
	resp, err := c.companyService.UpdateMy(r.Context(), updateReq)
	if err != nil {
		slog.Error("Company update service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Update company successfully")
	response.SuccessWithMessage(w, "Company updated successfully", resp)
}

// UploadLogo implements CompanyHandler.
func (c *CompanyHandlerImpl) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("logo")
	if err != nil && err != http.ErrMissingFile {
		// Error other than missing file
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	if file != nil {
		defer file.Close()
	}

	resp, err := c.companyService.UploadLogo(r.Context(), company.UploadCompanyLogoRequest{
		File:       file,
		FileHeader: fileHeader,
	})
	if err != nil {
		slog.Error("Upload company logo service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company logo uploaded successfully", resp)
}
