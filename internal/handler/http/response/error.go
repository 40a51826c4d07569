package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/company"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/review"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/site"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/worker"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrMissingClaims):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Permission errors
	case errors.Is(err, attendance.ErrCellNotEditable),
		errors.Is(err, worker.ErrOnlyHRCanDelete),
		errors.Is(err, worker.ErrNotAssignedToYou),
		errors.Is(err, user.ErrHRAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrCannotDeleteSelf):
		Forbidden(w, err.Error())

	// Attendance and cycle errors
	case errors.Is(err, attendance.ErrInvalidCycle),
		errors.Is(err, cycle.ErrInvalidCycleID),
		errors.Is(err, cycle.ErrInvalidDate):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrWorkerNotFound), errors.Is(err, worker.ErrWorkerNotFound):
		NotFound(w, "Worker not found")
	case errors.Is(err, attendance.ErrSiteNotFound):
		ValidationError(w, map[string]string{"site_id": err.Error()})

	// Worker and site errors
	case errors.Is(err, worker.ErrSiteNotFound):
		ValidationError(w, map[string]string{"site_id": err.Error()})
	case errors.Is(err, worker.ErrForemanNotFound):
		ValidationError(w, map[string]string{"foreman_id": err.Error()})
	case errors.Is(err, worker.ErrWorkerCodeExists):
		Conflict(w, "Worker code already exists")
	case errors.Is(err, site.ErrSiteNotFound):
		NotFound(w, "Site not found")
	case errors.Is(err, site.ErrSiteNameExists):
		Conflict(w, "Site name already exists")

	// User and company errors
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")

	// Review errors
	case errors.Is(err, review.ErrReviewNotFound):
		NotFound(w, "Review not found")
	case errors.Is(err, review.ErrReviewNotSubmittable), errors.Is(err, review.ErrReviewNotSubmitted):
		Conflict(w, err.Error())
	case errors.Is(err, review.ErrInvalidSignature):
		ValidationError(w, map[string]string{"signature": err.Error()})

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
