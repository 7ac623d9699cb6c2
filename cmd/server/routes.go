package main

import (
	"github.com/codecritic/codecritic/internal/handlers"
	"github.com/codecritic/codecritic/internal/middleware"
	"github.com/codecritic/codecritic/internal/models"
	"github.com/codecritic/codecritic/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())

	r.GET("/health", handlers.Health)

	// Rate limiter for the public credential endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)
	public := r.Group("", authLimiter.Middleware())
	{
		public.POST("/signup", svc.authHandler.Signup)
		public.POST("/login", svc.authHandler.Login)
	}

	protected := r.Group("")
	protected.Use(middleware.AuthRequired(models.GetDB()))
	{
		protected.POST("/review", svc.reviewHandler.Create)
	}
}
