package worker

import (
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/validator"
)

// WorkerFilter narrows a worker listing. Zero values mean "any".
type WorkerFilter struct {
	Status    *Status
	SiteID    *string
	ForemanID *string
	Search    string
}

type WorkerResponse struct {
	ID         string  `json:"id"`
	CompanyID  string  `json:"company_id"`
	FullName   string  `json:"full_name"`
	WorkerCode string  `json:"worker_code"`
	StartDate  string  `json:"start_date"`
	Status     string  `json:"status"`
	SiteID     *string `json:"site_id,omitempty"`
	ForemanID  *string `json:"foreman_id,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func NewWorkerResponse(w Worker) WorkerResponse {
	return WorkerResponse{
		ID:         w.ID,
		CompanyID:  w.CompanyID,
		FullName:   w.FullName,
		WorkerCode: w.WorkerCode,
		StartDate:  w.StartDate.Format("2006-01-02"),
		Status:     string(w.Status),
		SiteID:     w.SiteID,
		ForemanID:  w.ForemanID,
		CreatedAt:  w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  w.UpdatedAt.Format(time.RFC3339),
	}
}

type CreateWorkerRequest struct {
	FullName   string  `json:"full_name"`
	WorkerCode string  `json:"worker_code"`
	StartDate  string  `json:"start_date"`
	Status     string  `json:"status"`
	SiteID     *string `json:"site_id,omitempty"`
	ForemanID  *string `json:"foreman_id,omitempty"`
}

func (r *CreateWorkerRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	} else if len(r.FullName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 255 characters",
		})
	}

	if !validator.IsValidWorkerCode(r.WorkerCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_code",
			Message: "worker_code must be 2-20 upper-case letters, digits or dashes",
		})
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if r.Status == "" {
		r.Status = string(StatusActive)
	} else if !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be active or inactive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateWorkerRequest struct {
	ID         string  `json:"-"`
	FullName   *string `json:"full_name,omitempty"`
	WorkerCode *string `json:"worker_code,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	Status     *string `json:"status,omitempty"`
	SiteID     *string `json:"site_id,omitempty"`
	ForemanID  *string `json:"foreman_id,omitempty"`
}

func (r *UpdateWorkerRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not be empty",
		})
	}

	if r.WorkerCode != nil && !validator.IsValidWorkerCode(*r.WorkerCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_code",
			Message: "worker_code must be 2-20 upper-case letters, digits or dashes",
		})
	}

	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Status != nil && !Status(*r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be active or inactive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
