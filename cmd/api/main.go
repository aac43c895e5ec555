package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/config"
	"github.com/uniflow-app/uniflow-api/internal/database"
	"github.com/uniflow-app/uniflow-api/internal/email"
	"github.com/uniflow-app/uniflow-api/internal/extract"
	"github.com/uniflow-app/uniflow-api/internal/genai"
	"github.com/uniflow-app/uniflow-api/internal/http/handler"
	"github.com/uniflow-app/uniflow-api/internal/http/middleware"
	"github.com/uniflow-app/uniflow-api/internal/http/router"
	"github.com/uniflow-app/uniflow-api/internal/jobs"
	"github.com/uniflow-app/uniflow-api/internal/logger"
	"github.com/uniflow-app/uniflow-api/internal/prompt"
	"github.com/uniflow-app/uniflow-api/internal/repository"
	"github.com/uniflow-app/uniflow-api/internal/service"
	"github.com/uniflow-app/uniflow-api/internal/storage"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate schema: %w", err)
		}
		log.Info("Schema auto-migration completed")
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize the generation client (optional - drafting endpoints
	// answer 503 without it)
	var generator genai.Generator
	if client, err := genai.NewOpenAIClient(&cfg.AI, log); err != nil {
		if !errors.Is(err, genai.ErrNotConfigured) {
			return fmt.Errorf("failed to initialize generation client: %w", err)
		}
		log.Warn("Generation client not configured, drafting endpoints disabled")
	} else {
		generator = client
		log.Info("Generation client initialized", zap.String("model", cfg.AI.Model))
	}

	// Initialize the email dispatcher (optional - fan-out reports every
	// notification as failed without it)
	var dispatcher email.Dispatcher
	if d, err := email.NewResendDispatcher(&cfg.Email, cfg.App.FrontendURL, log); err != nil {
		if !errors.Is(err, email.ErrNotConfigured) {
			return fmt.Errorf("failed to initialize email dispatcher: %w", err)
		}
		log.Warn("Email dispatcher not configured, notifications disabled")
	} else {
		dispatcher = d
		log.Info("Email dispatcher initialized")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	tenderRepo := repository.NewActiveTenderRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Initialize services
	tokens := auth.NewTokenManager(&cfg.Auth)
	prompts := prompt.NewBuilder(genai.NewTokenCounter(), cfg.AI.MaxContextTokens)
	extractor := extract.NewExtractor(log)

	authService := service.NewAuthService(userRepo, tokens, log)
	organizationService := service.NewOrganizationService(userRepo, log)
	proposalService := service.NewProposalService(proposalRepo, userRepo, attachmentRepo, generator, prompts, extractor, fileStorage, log)
	submitService := service.NewSubmitService(proposalRepo, userRepo, generator, dispatcher, log)
	tenderService := service.NewTenderService(tenderRepo, proposalRepo, generator, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokens, userRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userRepo, log)
	proposalHandler := handler.NewProposalHandler(proposalService, submitService, log)
	revisionHandler := handler.NewRevisionHandler(proposalService, log)
	tenderHandler := handler.NewTenderHandler(tenderService, log)
	organizationHandler := handler.NewOrganizationHandler(organizationService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		proposalHandler,
		revisionHandler,
		tenderHandler,
		organizationHandler,
		generator != nil,
		dispatcher != nil,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled && dispatcher != nil {
		scheduler = jobs.NewScheduler(log)

		reminderJob := jobs.NewDeadlineReminderJob(tenderRepo, dispatcher, log)
		if err := scheduler.AddJob("deadline-reminder", cfg.Jobs.DeadlineReminderSchedule, reminderJob.Run); err != nil {
			log.Error("Failed to register deadline reminder job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with deadline reminder job",
				zap.String("cron_expr", cfg.Jobs.DeadlineReminderSchedule),
			)
		}
	} else {
		log.Info("Background jobs disabled",
			zap.Bool("jobs_enabled", cfg.Jobs.Enabled),
			zap.Bool("email_configured", dispatcher != nil),
		)
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

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
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
