package http

import (
	"github.com/gin-gonic/gin"
	"github.com/styleseeker/client/config"
	"github.com/styleseeker/client/internal/domain"
	"github.com/styleseeker/client/internal/usecase"
)

// SetupRouter creates and configures the Gin router. store holds the per-IP
// rate limit buckets.
func SetupRouter(cfg *config.Config, handler *Handler, sessions *usecase.SessionService, store domain.CacheRepository) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.SetHTMLTemplate(loadTemplates())

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	limiter := NewIPRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst, store)

	ui := router.Group("/")
	ui.Use(SessionMiddleware(sessions, cfg.Session.CookieName, cfg.Session.Secure))
	{
		ui.GET("/", handler.Index)
		ui.POST("/select", handler.SelectFile)
		ui.POST("/search", RateLimitMiddleware(limiter), handler.Search)
		ui.POST("/reset", ResetSessionHandler(sessions, cfg.Session.CookieName, cfg.Session.Secure))

		v1 := ui.Group("/api/v1")
		{
			v1.GET("/state", handler.APIState)
			v1.POST("/search", RateLimitMiddleware(limiter), handler.APISearch)
		}
	}

	return router
}
