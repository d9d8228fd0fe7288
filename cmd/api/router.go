package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"kinex-backend/internal/shared/middleware"
	"kinex-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	metrics := middleware.NewHTTPMetrics(c.Metrics)

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
		metrics.Middleware(),
	)

	router.GET("/health", healthCheckHandler(c))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Metrics, promhttp.HandlerOpts{})))

	if c.Config.IsDevelopment() {
		pprof.Register(router)
	}

	api := router.Group("/api")
	{
		setupAuthRoutes(api, c)
		setupProjectRoutes(api, c)
		setupUploadRoutes(api, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(c.JWTManager), c.UserHandler.Me)
	}
}

// ========================================
// PROJECT ROUTES (owner-scoped)
// ========================================
func setupProjectRoutes(api *gin.RouterGroup, c *container.Container) {
	projects := api.Group("/projects")
	projects.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		projects.POST("", c.ProjectHandler.Create)
		projects.GET("", c.ProjectHandler.List)
		projects.GET("/:id", c.ProjectHandler.Get)
		projects.PUT("/:id", c.ProjectHandler.Update)
	}
}

// ========================================
// UPLOAD ROUTES
// ========================================
func setupUploadRoutes(api *gin.RouterGroup, c *container.Container) {
	uploads := api.Group("/upload")
	uploads.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		uploads.POST("/get-signed-url", c.UploadHandler.GetSignedURL)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := appCtx.PingDB(ctx); err != nil {
			log.Warn().Err(err).Msg("health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ok":       false,
				"service":  appCtx.Config.App.Name,
				"database": "disconnected",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":       true,
			"service":  appCtx.Config.App.Name,
			"database": "ok",
		})
	}
}
