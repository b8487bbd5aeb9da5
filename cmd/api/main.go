package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mudita/visita-api/internal/auth"
	"github.com/mudita/visita-api/internal/config"
	"github.com/mudita/visita-api/internal/database"
	"github.com/mudita/visita-api/internal/http/handler"
	"github.com/mudita/visita-api/internal/http/middleware"
	"github.com/mudita/visita-api/internal/http/router"
	"github.com/mudita/visita-api/internal/jobs"
	"github.com/mudita/visita-api/internal/logger"
	"github.com/mudita/visita-api/internal/repository"
	"github.com/mudita/visita-api/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	academyRepo := repository.NewAcademyRepository(db)
	eventRepo := repository.NewEventRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	financeRepo := repository.NewFinanceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	authTokenRepo := repository.NewAuthTokenRepository(db)
	allowlistRepo := repository.NewAllowlistRepository(db)
	adminSessionRepo := repository.NewAdminSessionRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	authLogRepo := repository.NewAuthLogRepository(db)

	// Initialize services
	tokenManager := auth.NewTokenManager(&cfg.Auth)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, settingRepo, log)
	auditService := service.NewAuditService(auditLogRepo, log)
	academyService := service.NewAcademyService(academyRepo, log)
	eventService := service.NewEventService(eventRepo, academyRepo, notificationService, log)
	voucherService := service.NewVoucherService(voucherRepo, &cfg.PublicLink, log)
	visitService := service.NewVisitService(visitRepo, voucherRepo, academyRepo, userRepo, voucherService, notificationService, log)
	financeService := service.NewFinanceService(financeRepo, eventRepo, userRepo, notificationService, log)
	userService := service.NewUserService(userRepo, log)
	settingService := service.NewSettingService(settingRepo, log)
	authService := service.NewAuthService(userRepo, authTokenRepo, allowlistRepo, authLogRepo, tokenManager, &cfg.Auth, log)
	allowlistService := service.NewAllowlistService(allowlistRepo, log)
	elevationService := service.NewElevationService(adminSessionRepo, userRepo, auditService, &cfg.Elevation, log)
	reportService := service.NewReportService(academyRepo, eventRepo, visitRepo, voucherRepo, financeRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokenManager, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService, log)
	userHandler := handler.NewUserHandler(userService, log)
	academyHandler := handler.NewAcademyHandler(academyService, log)
	eventHandler := handler.NewEventHandler(eventService, visitService, log)
	visitHandler := handler.NewVisitHandler(visitService, log)
	voucherHandler := handler.NewVoucherHandler(voucherService, log)
	financeHandler := handler.NewFinanceHandler(financeService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	allowlistHandler := handler.NewAllowlistHandler(allowlistService, log)
	elevationHandler := handler.NewElevationHandler(elevationService, log)
	settingHandler := handler.NewSettingHandler(settingService, log)
	auditHandler := handler.NewAuditHandler(auditService, log)
	reportHandler := handler.NewReportHandler(reportService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		userHandler,
		academyHandler,
		eventHandler,
		visitHandler,
		voucherHandler,
		financeHandler,
		notificationHandler,
		allowlistHandler,
		elevationHandler,
		settingHandler,
		auditHandler,
		reportHandler,
	)

	// Start scheduler with the elevation sweep job
	scheduler := jobs.NewScheduler(log)
	if err := jobs.RegisterElevationSweepJob(scheduler, elevationService, log, cfg.Elevation.SweepInterval()); err != nil {
		log.Error("Failed to register elevation sweep job", zap.Error(err))
	} else {
		scheduler.Start()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("Scheduler stopped")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
