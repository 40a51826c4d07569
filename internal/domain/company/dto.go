package company

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/validator"
)

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	Headcount int       `json:"headcount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		LogoURL:   c.LogoURL,
		Headcount: c.Headcount,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type UpdateCompanyRequest struct {
	Name *string `json:"name,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		} else if len(*r.Name) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 255 characters",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UploadCompanyLogoRequest struct {
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

var logoExtensions = []string{".jpg", ".jpeg", ".png"}

func (r *UploadCompanyLogoRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FileHeader == nil || r.File == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "company logo is required",
		})
		return errs
	}

	if !validator.IsInSlice(r.Extension(), logoExtensions) {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "invalid file type: only jpg, jpeg, png allowed",
		})
	}
	if r.FileHeader.Size > 5<<20 { // 5MB
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "company logo size must not exceed 5MB",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Extension is the lower-cased file extension, dot included.
func (r *UploadCompanyLogoRequest) Extension() string {
	if r.FileHeader == nil {
		return ""
	}
	return strings.ToLower(filepath.Ext(r.FileHeader.Filename))
}

type UploadCompanyLogoResponse struct {
	LogoURL string `json:"logo_url"`
}
