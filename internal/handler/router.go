package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kosench/shortlink-analytics/internal/auth"
)

type RouterConfig struct {
	AllowedOrigins []string
	Verifier       *auth.Verifier
	Logger         *zap.Logger
}

// NewRouter собирает все маршруты сервиса
func NewRouter(cfg RouterConfig, accounts *AccountHandler, urls *URLHandler, redirects *RedirectHandler, analytics *AnalyticsHandler, health *HealthHandler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(Logger(cfg.Logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", health.Health)
	router.GET("/s/:code", redirects.Redirect)

	protected := router.Group("/")
	protected.Use(auth.Middleware(cfg.Verifier, cfg.Logger))
	{
		protected.POST("/accounts", accounts.Register)
		protected.POST("/urls", urls.CreateURL)
		protected.GET("/urls", urls.ListURLs)
		protected.GET("/urls/:id", urls.GetURL)
		protected.DELETE("/urls/:id", urls.DeleteURL)
		protected.GET("/analytics/overview", analytics.Overview)
	}

	return router
}
