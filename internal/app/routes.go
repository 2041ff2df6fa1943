package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/recipebook/internal/media"
	"github.com/simp-lee/recipebook/internal/metrics"
	"github.com/simp-lee/recipebook/internal/pkg"
)

// APIPrefix is the path every module is mounted under.
const APIPrefix = "/api/v1"

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules []Module
	DB      *gorm.DB
	// Metrics, when non-nil, is exposed at MetricsPath.
	Metrics     *metrics.Metrics
	MetricsPath string
	// MediaDir, when set, is served read-only under /media.
	MediaDir string
}

// RegisterRoutes registers all application routes on the given gin.Engine.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}

	r.GET("/health", healthHandler(deps.DB))

	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(deps.Metrics.Handler()))
	}

	if deps.MediaDir != "" {
		r.GET(media.URLPrefix+"/*filepath", mediaHandler(http.Dir(deps.MediaDir)))
	}

	api := r.Group(APIPrefix)
	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(api)
	}

	r.NoRoute(noRouteHandler())
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, pkg.Response{Code: http.StatusMethodNotAllowed, Message: "method not allowed"})
	})

	return nil
}

// healthHandler returns a handler that pings the database and reports status.
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus, status, code := "ok", "ok", http.StatusOK
		if err := ping(c.Request.Context(), db); err != nil {
			dbStatus, status, code = "error", "degraded", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status": status,
			"components": gin.H{
				"database": dbStatus,
			},
		})
	}
}

func ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database is not configured")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// noRouteHandler answers unknown paths with the JSON envelope.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		message := "not found"
		if strings.HasPrefix(c.Request.URL.Path, APIPrefix+"/") {
			message = "route " + c.Request.Method + " " + c.Request.URL.Path + " not found"
		}
		c.JSON(http.StatusNotFound, pkg.Response{Code: http.StatusNotFound, Message: message})
	}
}

// mediaHandler serves locally stored images with a one-day Cache-Control.
// Asset names are never reused.
func mediaHandler(fsys http.FileSystem) gin.HandlerFunc {
	fileServer := http.StripPrefix(media.URLPrefix, http.FileServer(fsys))
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
