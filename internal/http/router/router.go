package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/config"
	"github.com/uniflow-app/uniflow-api/internal/database"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/http/handler"
	"github.com/uniflow-app/uniflow-api/internal/http/middleware"
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
	proposalHandler     *handler.ProposalHandler
	revisionHandler     *handler.RevisionHandler
	tenderHandler       *handler.TenderHandler
	organizationHandler *handler.OrganizationHandler
	aiEnabled           bool
	emailEnabled        bool
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	proposalHandler *handler.ProposalHandler,
	revisionHandler *handler.RevisionHandler,
	tenderHandler *handler.TenderHandler,
	organizationHandler *handler.OrganizationHandler,
	aiEnabled bool,
	emailEnabled bool,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		authHandler:         authHandler,
		proposalHandler:     proposalHandler,
		revisionHandler:     revisionHandler,
		tenderHandler:       tenderHandler,
		organizationHandler: organizationHandler,
		aiEnabled:           aiEnabled,
		emailEnabled:        emailEnabled,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe, reports optional integrations)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(domain.HealthStatusDTO{
			Status:       "healthy",
			AIConfigured: rt.aiEnabled,
			EmailEnabled: rt.emailEnabled,
		})
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
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
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/register", rt.authHandler.Register)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Proposals
			r.Route("/proposals", func(r chi.Router) {
				r.Get("/", rt.proposalHandler.List)
				r.Post("/", rt.proposalHandler.Create)
				r.Get("/{id}", rt.proposalHandler.GetByID)
				r.Patch("/{id}", rt.proposalHandler.Rename)
				r.Delete("/{id}", rt.proposalHandler.Delete)
				r.Post("/{id}/pin", rt.proposalHandler.Pin)

				// Drafting
				r.Post("/{id}/iterate", rt.proposalHandler.Iterate)
				r.Post("/{id}/chat", rt.proposalHandler.Chat)
				r.Get("/{id}/attachments", rt.proposalHandler.ListAttachments)

				// Review fan-out and publication
				r.Post("/{id}/submit_draft", rt.proposalHandler.SubmitDraft)
				r.Post("/{id}/publish_tender", rt.tenderHandler.Publish)

				// Review copy assigned to the caller
				r.Get("/{id}/my-revision", rt.revisionHandler.MyRevision)
			})

			r.Get("/my-revisions", rt.revisionHandler.MyRevisions)

			// Active tenders
			r.Route("/active-tenders", func(r chi.Router) {
				r.Get("/", rt.tenderHandler.List)
				r.Get("/{id}", rt.tenderHandler.GetByID)
			})

			// Organization
			r.Route("/organizations", func(r chi.Router) {
				r.Get("/current", rt.organizationHandler.Get)
				r.Get("/current/members", rt.organizationHandler.ListMembers)
				r.Get("/available-users", rt.organizationHandler.ListAvailableUsers)
				r.Post("/current/members", rt.organizationHandler.AddMember)
				r.Patch("/current/members/{memberId}", rt.organizationHandler.UpdateMemberRole)
				r.Delete("/current/members/{memberId}", rt.organizationHandler.RemoveMember)
			})
		})
	})

	return r
}
