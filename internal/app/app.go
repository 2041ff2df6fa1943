package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/recipebook/internal/cache"
	"github.com/simp-lee/recipebook/internal/config"
	"github.com/simp-lee/recipebook/internal/domain"
	"github.com/simp-lee/recipebook/internal/media"
	"github.com/simp-lee/recipebook/internal/metrics"
	"github.com/simp-lee/recipebook/internal/middleware"
	"github.com/simp-lee/recipebook/internal/module/category"
	"github.com/simp-lee/recipebook/internal/module/country"
	"github.com/simp-lee/recipebook/internal/module/recipe"
	"github.com/simp-lee/recipebook/internal/pkg"
)

// defaultWriteTimeout applies when server.timeout is unset.
const defaultWriteTimeout = 60 * time.Second

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	cache  cache.Cache
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler, writeTimeout time.Duration) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the database, metrics, the query cache and the media
// store, then builds the catalog modules and registers their routes.
// Resources opened before a failing step are released again.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	success := false

	// 1. Logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if !success {
			if err := log.Close(); err != nil {
				slog.Error("logger close error", slog.Any("error", err))
			}
		}
	}()

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}

	// 2. Database.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if !success {
			closeDB(log.Logger, db)
		}
	}()

	if cfg.Server.Mode == gin.DebugMode {
		if err := db.AutoMigrate(&domain.Category{}, &domain.Country{}, &domain.Recipe{}); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed")
	}

	// 3. Metrics. A nil *metrics.Metrics disables collection.
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		if m, err = metrics.New(metrics.Options{}); err != nil {
			return nil, fmt.Errorf("setup metrics: %w", err)
		}
	}

	// 4. Query cache.
	queryCache, err := cache.New(cache.Options{
		Driver:   cfg.Cache.Driver,
		TTL:      cfg.Cache.TTLDuration(),
		Capacity: cfg.Cache.Capacity,
	})
	if err != nil {
		return nil, fmt.Errorf("setup cache: %w", err)
	}
	defer func() {
		if !success {
			queryCache.Close()
		}
	}()

	// 5. Media store.
	store, err := media.New(mediaOptions(&cfg.Media))
	if err != nil {
		return nil, fmt.Errorf("setup media store: %w", err)
	}
	var mediaDir string
	if local, ok := store.(*media.LocalStore); ok {
		mediaDir = local.Dir()
	}

	var instrumentedCache cache.Cache = queryCache
	if m != nil {
		instrumentedCache = cache.Instrument(queryCache, m)
		store = media.Instrument(store, m)
	}

	// 6. Manual dependency injection: repository → service → handler → module.
	ttl := cfg.Cache.TTLDuration()
	uploadDir := cfg.Upload.TempDir
	upload := middleware.ImageUpload(pkg.ImageField, cfg.Upload.MaxBytes())

	categoryRepo := category.NewCategoryRepository(db)
	countryRepo := country.NewCountryRepository(db)
	recipeRepo := recipe.NewRecipeRepository(db)

	modules := []Module{
		recipe.NewModule(recipe.NewRecipeHandler(
			recipe.NewRecipeService(recipeRepo, categoryRepo, countryRepo, store, instrumentedCache, ttl),
			uploadDir,
		), upload),
		category.NewModule(category.NewCategoryHandler(
			category.NewCategoryService(categoryRepo, store, instrumentedCache, ttl),
			uploadDir,
		), upload),
		country.NewModule(country.NewCountryHandler(
			country.NewCountryService(countryRepo, store, instrumentedCache, ttl),
			uploadDir,
		), upload),
	}

	// 7. Gin engine with custom middleware (not gin.Default()).
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.MaxMultipartMemory = cfg.Upload.MaxBytes()

	handlers := []gin.HandlerFunc{
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: cfg.Server.TrustRequestID,
		}),
		middleware.Logger(log.Logger),
		middleware.CORSWithConfig(resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS)),
	}
	if m != nil {
		handlers = append(handlers, middleware.Metrics(m))
	}
	engine.Use(handlers...)

	// 8. Routes.
	deps := &RouteDeps{
		Modules:     modules,
		DB:          db,
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
		MediaDir:    mediaDir,
	}
	if err := RegisterRoutes(engine, deps); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	log.Info("application wired",
		slog.String("database", cfg.Database.Driver),
		slog.String("cache", cfg.Cache.Driver),
		slog.String("media", cfg.Media.Driver),
		slog.Bool("metrics", m != nil),
	)

	success = true
	return &App{
		engine: engine,
		db:     db,
		cache:  queryCache,
		logger: log,
		cfg:    cfg,
	}, nil
}

func mediaOptions(cfg *config.MediaConfig) media.Options {
	return media.Options{
		Driver:         cfg.Driver,
		Transformation: cfg.Transformation,
		Cloudinary: media.CloudinaryConfig{
			URL:       cfg.Cloudinary.URL,
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
		},
		Local: media.LocalConfig{
			Dir:     cfg.Local.Dir,
			BaseURL: cfg.Local.BaseURL,
		},
	}
}

// resolveCORSConfig overlays the configured CORS settings on the permissive
// defaults. In release mode an empty allowlist denies cross-origin requests.
func resolveCORSConfig(mode string, configured config.CORSConfig) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()

	switch {
	case len(configured.AllowOrigins) > 0:
		corsConfig.AllowOrigins = configured.AllowOrigins
	case mode == gin.ReleaseMode:
		corsConfig.AllowOrigins = []string{}
	}
	if len(configured.AllowMethods) > 0 {
		corsConfig.AllowMethods = configured.AllowMethods
	}
	if len(configured.AllowHeaders) > 0 {
		corsConfig.AllowHeaders = configured.AllowHeaders
	}
	corsConfig.AllowCredentials = configured.AllowCredentials
	if d, err := time.ParseDuration(configured.MaxAge); err == nil && d > 0 {
		corsConfig.MaxAge = strconv.Itoa(int(d.Seconds()))
	}

	return corsConfig
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

func writeTimeout(raw string) time.Duration {
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return defaultWriteTimeout
}

func closeDB(log *slog.Logger, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", slog.Any("error", err))
		return
	}
	log.Info("database connection closed")
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It performs graceful shutdown with a 5-second timeout, then closes the
// database, stops the cache and closes the logger.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine, writeTimeout(a.cfg.Server.Timeout))

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	if a.db != nil {
		closeDB(log, a.db)
	}
	if a.cache != nil {
		a.cache.Close()
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}
