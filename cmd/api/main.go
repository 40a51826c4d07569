package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/config"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	appHTTP "github.com/cmlabs-hris/workforce-attendance/internal/handler/http"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/cron"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/email"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/gemini"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/notify"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/storage"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/timesheet"
	"github.com/cmlabs-hris/workforce-attendance/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/workforce-attendance/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/workforce-attendance/internal/service/auth"
	serviceCompany "github.com/cmlabs-hris/workforce-attendance/internal/service/company"
	dashboardService "github.com/cmlabs-hris/workforce-attendance/internal/service/dashboard"
	"github.com/cmlabs-hris/workforce-attendance/internal/service/file"
	reviewService "github.com/cmlabs-hris/workforce-attendance/internal/service/review"
	siteService "github.com/cmlabs-hris/workforce-attendance/internal/service/site"
	userService "github.com/cmlabs-hris/workforce-attendance/internal/service/user"
	workerService "github.com/cmlabs-hris/workforce-attendance/internal/service/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	workerRepo := postgresql.NewWorkerRepository(db)
	siteRepo := postgresql.NewSiteRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	reviewRepo := postgresql.NewReviewRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	clock := cycle.ClockIn(cfg.Location())

	var (
		fileStorage storage.FileStorage
		uploadsDir  string
	)
	switch cfg.Storage.Driver {
	case "s3":
		fileStorage, err = storage.NewS3Storage(ctx, storage.S3Options{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			Prefix:    cfg.Storage.S3Prefix,
			PublicURL: cfg.Storage.S3PublicURL,
		})
		if err != nil {
			log.Fatal("Failed to initialize s3 storage:", err)
		}
		if cfg.Storage.S3PublicURL == "" {
			slog.Warn("S3_PUBLIC_URL not set, stored signature links expire after 7 days")
		}
	default:
		local, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
		fileStorage, uploadsDir = local, local.BasePath()
	}
	fileService := file.NewFileService(fileStorage)

	summarizer, err := gemini.NewSummarizer(ctx, cfg.Summary.APIKey, cfg.Summary.Model)
	if err != nil {
		log.Fatal("Failed to initialize summary generator:", err)
	}
	if cfg.Summary.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, attendance summaries return placeholder text")
	}

	emailService, err := email.NewEmailService(ctx, cfg.Email)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	notifier := notify.New(cfg.Slack.BotToken, notify.SlackOption{
		InfoChannelID:  cfg.Slack.InfoChannel,
		ErrorChannelID: cfg.Slack.ErrorChannel,
	})

	authService := serviceAuth.NewAuthService(transactor, userRepo, JWTService, JWTRepository)
	userSvc := userService.NewUserService(userRepo)
	companyService := serviceCompany.NewCompanyService(companyRepo, fileService)
	workerSvc := workerService.NewWorkerService(workerRepo, siteRepo, userRepo)
	siteSvc := siteService.NewSiteService(siteRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		attendanceRepo,
		workerRepo,
		siteRepo,
		companyRepo,
		summarizer,
		timesheet.NewWriter(),
		sse.NewHub(),
		clock,
	)
	reviewSvc := reviewService.NewReviewService(
		reviewRepo,
		userRepo,
		fileService,
		emailService,
		notifier,
		cfg.ReviewURL(),
		clock,
	)
	dashboardSvc := dashboardService.NewDashboardService(workerRepo, siteRepo, attendanceRepo, clock)

	scheduler := cron.NewScheduler()
	scheduler.OnError(func(ctx context.Context, name string, err error) {
		if err := notifier.Error(ctx, fmt.Sprintf("Cron job %s failed: %v", name, err)); err != nil {
			slog.Error("Failed to report cron failure", "name", name, "error", err)
		}
	})
	cron.NewReviewJobs(reviewSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.RouterConfig{
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.AllowedOrigins(),
			UploadsDir:     uploadsDir,
		},
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(JWTService, authService),
			User:       appHTTP.NewUserHandler(userSvc),
			Company:    appHTTP.NewCompanyHandler(companyService),
			Worker:     appHTTP.NewWorkerHandler(workerSvc),
			Site:       appHTTP.NewSiteHandler(siteSvc),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Review:     appHTTP.NewReviewHandler(reviewSvc),
			Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
