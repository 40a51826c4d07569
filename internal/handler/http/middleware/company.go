package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
)

// RequireCompany rejects tokens that do not name a user, company and role.
// Every company-scoped query relies on these claims.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := jwt.CallerFromContext(r.Context()); err != nil {
			slog.Warn("RequireCompany rejected token", "error", err)
			response.HandleError(w, jwt.ErrMissingClaims)
			return
		}
		next.ServeHTTP(w, r)
	})
}
