package http

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Lerwix/taler-site/internal/http/handlers"
	"github.com/Lerwix/taler-site/internal/http/middleware"
	"github.com/Lerwix/taler-site/internal/metrics"
)

type RouterDependencies struct {
	ApplicationHandler *handlers.ApplicationHandler
	StatusHandler      *handlers.StatusHandler
	Logger             *slog.Logger
	StaticDir          string
}

// NewRouter assembles the gin engine: middleware chain, API routes, metrics
// endpoint and optional static frontend.
func NewRouter(deps RouterDependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(deps.Logger),
		metrics.Instrument(),
		cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}),
	)

	api := router.Group("/api")
	{
		api.POST("/application", deps.ApplicationHandler.Submit)
		api.GET("/applications", deps.ApplicationHandler.List)
		api.GET("/count", deps.ApplicationHandler.Count)
		api.GET("/status", deps.StatusHandler.Status)
		api.GET("/health", deps.StatusHandler.Health)
		api.GET("/test-db", deps.StatusHandler.TestDB)
		api.GET("/info", deps.StatusHandler.Info)
	}

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if deps.StaticDir != "" {
		router.Static("/assets", filepath.Join(deps.StaticDir, "assets"))
		router.StaticFile("/", filepath.Join(deps.StaticDir, "index.html"))
		router.NoRoute(func(c *gin.Context) {
			if c.Request.Method == http.MethodGet {
				c.File(filepath.Join(deps.StaticDir, "index.html"))
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
		})
	}

	return router
}
