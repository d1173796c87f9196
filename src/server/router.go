package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/trackline/tracking-api/src/config"
	"github.com/trackline/tracking-api/src/handlers"
	"github.com/trackline/tracking-api/src/middleware"
	"github.com/trackline/tracking-api/src/services"
)

// Deps are the collaborators the router wires into handlers
type Deps struct {
	Config          *config.Config
	DBHealth        handlers.HealthCheck
	CacheHealth     handlers.HealthCheck // nil when the cache is disabled
	AdminService    *services.AdminService
	TokenService    *services.TokenService
	TrackingService *services.TrackingService
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware("/health", "/ready"))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(deps.Config)))

	setupRoutes(router, deps)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	return router
}

// corsConfig allows the configured exact origins ("*" for any) and any origin
// ending in the configured suffix
func corsConfig(cfg *config.Config) cors.Config {
	allowAny := false
	exact := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAny = true
			continue
		}
		exact[o] = struct{}{}
	}
	suffix := cfg.AllowedOriginSuffix

	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if allowAny {
				return true
			}
			if _, ok := exact[origin]; ok {
				return true
			}
			return suffix != "" && strings.HasSuffix(origin, suffix)
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func setupRoutes(router *gin.Engine, deps Deps) {
	cfg := deps.Config

	healthHandler := handlers.NewHealthHandler(deps.DBHealth, deps.CacheHealth, handlers.EnvStatus{
		JWTSecret:   cfg.JWTSecret != "",
		DatabaseURL: cfg.DatabaseURL != "",
		Redis:       cfg.CacheEnabled(),
	}, cfg.Environment)
	adminHandler := handlers.NewAdminHandler(deps.AdminService, deps.TokenService)
	trackingHandler := handlers.NewTrackingHandler(deps.TrackingService)

	router.GET("/", healthHandler.HandleRoot)

	// Health check endpoints
	router.GET("/health", healthHandler.HandleHealth)
	router.GET("/ready", healthHandler.HandleReady)
	router.GET("/info", healthHandler.HandleInfo)

	// Public lookup
	publicPath := strings.TrimSuffix(cfg.PublicPath, "/")
	router.GET(publicPath+"/:trackingNumber", trackingHandler.HandlePublicLookup)

	// Admin authentication endpoints
	admin := router.Group("/admin")
	admin.POST("/login", adminHandler.HandleAdminLogin)

	// Admin endpoints (all require authentication)
	authed := admin.Group("", middleware.AdminAuthMiddleware(deps.TokenService))
	authed.GET("/status", adminHandler.HandleAdminStatus)
	authed.POST("/tracking", trackingHandler.HandleCreate)
	authed.GET("/tracking", trackingHandler.HandleList)
	authed.GET("/tracking/search/:query", trackingHandler.HandleSearch)
	authed.GET("/tracking/:trackingNumber", trackingHandler.HandleGet)
	authed.PUT("/tracking/:trackingNumber", trackingHandler.HandleUpdate)
	authed.DELETE("/tracking/:trackingNumber", trackingHandler.HandleDelete)
}
