package main

import (
	"strings"

	"github.com/codecritic/codecritic/internal/config"
	"github.com/codecritic/codecritic/internal/handlers"
	"github.com/codecritic/codecritic/internal/models"
	"github.com/codecritic/codecritic/internal/services"
	"github.com/codecritic/codecritic/internal/utils"
	"github.com/codecritic/codecritic/pkg/logger"
	"github.com/robfig/cron/v3"
)

// appServices holds all initialized services and handlers needed by the
// application.
type appServices struct {
	authHandler   *handlers.AuthHandler
	reviewHandler *handlers.ReviewHandler
	cleanupCron   *cron.Cron
}

// bootstrap initializes all application dependencies: database, audit log,
// schedulers, services.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	if missing := models.VerifyTables(); len(missing) > 0 {
		logger.Warnf("Missing tables after migration: %s", strings.Join(missing, ", "))
	} else {
		logger.Info().Msg("Database initialized successfully")
	}

	services.InitAuditLogger(models.GetDB())
	cleanupCron := services.StartLogCleanupScheduler(models.GetDB(), cfg.Log.RetentionDays)

	if cfg.AI.APIKey == "" {
		logger.Warn().Str("provider", cfg.AI.Provider).Msg("AI API key not configured; reviews will return an error item")
	}

	analyzer := services.NewAnalyzer(&cfg.Analyzer)
	aiService := services.NewAIReviewService(&cfg.AI)
	reviewService := services.NewReviewService(models.GetDB(), analyzer, aiService)

	return &appServices{
		authHandler:   handlers.NewAuthHandler(models.GetDB(), cfg),
		reviewHandler: handlers.NewReviewHandler(reviewService),
		cleanupCron:   cleanupCron,
	}
}

// shutdown gracefully stops background schedulers.
func (s *appServices) shutdown() {
	if s.cleanupCron != nil {
		s.cleanupCron.Stop()
	}
	logger.Info().Msg("All schedulers stopped")
}
