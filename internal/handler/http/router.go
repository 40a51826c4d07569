package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
	"github.com/cmlabs-hris/workforce-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the settings the router needs besides handlers.
type RouterConfig struct {
	Env            string
	AllowedOrigins []string
	// UploadsDir is served under /uploads; empty disables it
	UploadsDir string
}

type Handlers struct {
	Auth       AuthHandler
	User       UserHandler
	Company    CompanyHandler
	Worker     WorkerHandler
	Site       SiteHandler
	Attendance AttendanceHandler
	Review     ReviewHandler
	Dashboard  DashboardHandler
}

func NewRouter(JWTService jwt.Service, cfg RouterConfig, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workforce-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromCookie, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireCompany)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/companies/my", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionCompanyView)).Get("/", h.Company.GetMy)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionCompanyManage))
					r.Put("/", h.Company.UpdateMy)
					r.Post("/logo", h.Company.UploadLogo)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionUserManage))
				r.Get("/", h.User.List)
				r.Post("/", h.User.Create)
				r.Get("/{id}", h.User.Get)
				r.Put("/{id}", h.User.Update)
				r.Delete("/{id}", h.User.Delete)
			})

			r.Route("/workers", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionWorkerView))
					r.Get("/", h.Worker.List)
					r.Get("/{id}", h.Worker.Get)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionWorkerManage))
					r.Post("/", h.Worker.Create)
					r.Put("/{id}", h.Worker.Update)
				})
				r.With(middleware.RequirePermission(user.PermissionWorkerDelete)).Delete("/{id}", h.Worker.Delete)
			})

			r.Route("/sites", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSiteView))
					r.Get("/", h.Site.List)
					r.Get("/{id}", h.Site.Get)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSiteManage))
					r.Post("/", h.Site.Create)
					r.Put("/{id}", h.Site.Update)
					r.Delete("/{id}", h.Site.Delete)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceView))
					r.Get("/cycle", h.Attendance.GetCycle)
					r.Get("/grid", h.Attendance.GetGrid)
					r.Get("/stream", h.Attendance.Stream)
				})
				r.With(middleware.RequirePermission(user.PermissionAttendanceSummary)).Post("/summary", h.Attendance.Summary)
				r.With(middleware.RequirePermission(user.PermissionAttendanceExport)).Get("/export", h.Attendance.Export)

				// Cell-level rules are enforced by the service
				r.With(middleware.RequirePermission(user.PermissionAttendanceEdit)).Put("/{workerID}/{date}", h.Attendance.UpdateCell)
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionReviewSubmit))
					r.Get("/current", h.Review.GetCurrent)
					r.Post("/current/submit", h.Review.SubmitCurrent)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionReviewManage))
					r.Get("/", h.Review.List)
					r.Post("/{id}/approve", h.Review.Approve)
					r.Post("/{id}/return", h.Review.Return)
				})
			})

			r.With(middleware.RequirePermission(user.PermissionDashboardView)).Get("/dashboard", h.Dashboard.GetDashboard)
		})
	})
	return r
}
