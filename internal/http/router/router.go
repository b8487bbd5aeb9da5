package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mudita/visita-api/internal/auth"
	"github.com/mudita/visita-api/internal/config"
	"github.com/mudita/visita-api/internal/database"
	"github.com/mudita/visita-api/internal/http/handler"
	"github.com/mudita/visita-api/internal/http/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	academyHandler      *handler.AcademyHandler
	eventHandler        *handler.EventHandler
	visitHandler        *handler.VisitHandler
	voucherHandler      *handler.VoucherHandler
	financeHandler      *handler.FinanceHandler
	notificationHandler *handler.NotificationHandler
	allowlistHandler    *handler.AllowlistHandler
	elevationHandler    *handler.ElevationHandler
	settingHandler      *handler.SettingHandler
	auditHandler        *handler.AuditHandler
	reportHandler       *handler.ReportHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	academyHandler *handler.AcademyHandler,
	eventHandler *handler.EventHandler,
	visitHandler *handler.VisitHandler,
	voucherHandler *handler.VoucherHandler,
	financeHandler *handler.FinanceHandler,
	notificationHandler *handler.NotificationHandler,
	allowlistHandler *handler.AllowlistHandler,
	elevationHandler *handler.ElevationHandler,
	settingHandler *handler.SettingHandler,
	auditHandler *handler.AuditHandler,
	reportHandler *handler.ReportHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		authHandler:         authHandler,
		userHandler:         userHandler,
		academyHandler:      academyHandler,
		eventHandler:        eventHandler,
		visitHandler:        visitHandler,
		voucherHandler:      voucherHandler,
		financeHandler:      financeHandler,
		notificationHandler: notificationHandler,
		allowlistHandler:    allowlistHandler,
		elevationHandler:    elevationHandler,
		settingHandler:      settingHandler,
		auditHandler:        auditHandler,
		reportHandler:       reportHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness probe
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		if !allHealthy {
			status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)
		r.Post("/auth/request-access", rt.authHandler.RequestAccess)
		r.Post("/auth/activate", rt.authHandler.Activate)
		r.Post("/auth/request-reset", rt.authHandler.RequestReset)
		r.Post("/auth/reset-password", rt.authHandler.ResetPassword)

		// Shared voucher pages are opened without a session
		r.Get("/public-voucher/*", rt.voucherHandler.Public)
		r.Get("/qrcode", rt.voucherHandler.QRCode)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Auth & profile
			r.Get("/auth/me", rt.authHandler.Me)
			r.Put("/auth/me", rt.userHandler.UpdateProfile)

			// Academies
			r.Route("/academies", func(r chi.Router) {
				r.Get("/", rt.academyHandler.List)
				r.Get("/{id}", rt.academyHandler.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireAdmin)
					r.Post("/", rt.academyHandler.Create)
					r.Put("/{id}", rt.academyHandler.Update)
					r.Delete("/{id}", rt.academyHandler.Delete)
				})
			})

			// Events
			r.Route("/events", func(r chi.Router) {
				r.Get("/", rt.eventHandler.List)
				r.Get("/{id}", rt.eventHandler.GetByID)
				r.Get("/{id}/visits", rt.eventHandler.ListVisits)
				r.Get("/{id}/vouchers", rt.voucherHandler.ListByEvent)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireAdmin)
					r.Post("/", rt.eventHandler.Create)
					r.Put("/{id}", rt.eventHandler.Update)
					r.Delete("/{id}", rt.eventHandler.Delete)
				})
			})

			// Visits
			r.Route("/visits", func(r chi.Router) {
				r.Get("/", rt.visitHandler.Get)
				r.Get("/mine", rt.visitHandler.ListMine)
				r.Post("/start", rt.visitHandler.Start)
				r.Post("/finalize", rt.visitHandler.Finalize)
				r.Delete("/", rt.visitHandler.Cancel)
				r.Get("/{id}/vouchers", rt.voucherHandler.ListByVisit)
			})

			// Finance
			r.Route("/finance", func(r chi.Router) {
				r.Get("/", rt.financeHandler.List)
				r.Get("/{id}", rt.financeHandler.GetByID)
				r.Put("/{id}", rt.financeHandler.Update)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireAdmin)
					r.Post("/", rt.financeHandler.Create)
					r.Delete("/{id}", rt.financeHandler.Delete)
				})
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/count", rt.notificationHandler.GetUnreadCount)
				r.Put("/read-all", rt.notificationHandler.MarkAllAsRead)
				r.Put("/{id}/read", rt.notificationHandler.MarkAsRead)
			})

			// Elevation
			r.Route("/elevation", func(r chi.Router) {
				r.Get("/", rt.elevationHandler.Check)
				r.Post("/", rt.elevationHandler.Request)
				r.Delete("/", rt.elevationHandler.Revoke)
			})

			// Admin-only resources
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", rt.userHandler.List)
					r.Get("/{id}", rt.userHandler.GetByID)
					r.Delete("/{id}", rt.userHandler.Delete)
				})

				r.Route("/allowlist", func(r chi.Router) {
					r.Get("/", rt.allowlistHandler.List)
					r.Post("/", rt.allowlistHandler.Add)
					r.Put("/{id}/deactivate", rt.allowlistHandler.Deactivate)
					r.Delete("/{id}", rt.allowlistHandler.Remove)
				})

				r.Post("/invites", rt.authHandler.GenerateInvite)
				r.Delete("/invites", rt.authHandler.RevokeInvite)

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", rt.settingHandler.List)
					r.Get("/{key}", rt.settingHandler.Get)
					r.Put("/{key}", rt.settingHandler.Set)
				})

				r.Get("/audit", rt.auditHandler.List)
				r.Get("/reports/summary", rt.reportHandler.Summary)
			})
		})
	})

	return r
}
