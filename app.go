package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/orbitads/orbit/backend/internal/account"
	"github.com/orbitads/orbit/backend/internal/cache"
	"github.com/orbitads/orbit/backend/internal/config"
	"github.com/orbitads/orbit/backend/internal/database"
	"github.com/orbitads/orbit/backend/internal/events"
	"github.com/orbitads/orbit/backend/internal/httpapi"
	"github.com/orbitads/orbit/backend/internal/logger"
	"github.com/orbitads/orbit/backend/internal/media"
	"github.com/orbitads/orbit/backend/internal/media/ffmpeg"
	"github.com/orbitads/orbit/backend/internal/media/progress"
	"github.com/orbitads/orbit/backend/internal/media/tempfile"
	"github.com/orbitads/orbit/backend/internal/storage/s3"
)

// sweepInterval and sweepMaxAge control the temp workspace janitor
const (
	sweepInterval = time.Hour
	sweepMaxAge   = time.Hour
)

// App holds all application dependencies
type App struct {
	ctx       context.Context
	Config    *config.Config
	logger    logger.Logger
	db        *gorm.DB
	dbService *database.DatabaseService
	cache     cache.Service
	store     *s3.Service
	workspace *tempfile.Manager
	registry  *progress.Registry
	producer  events.Producer
	media     *media.Service
	router    *gin.Engine
	server    *http.Server
}

// NewApp creates a new application instance with all dependencies
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbService := database.NewDatabaseService(&cfg.Database, log)
	db, err := dbService.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	cacheService, err := cache.NewRedisService(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	store, err := s3.NewService(&cfg.Storage.S3, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	workspace, err := tempfile.NewManager(&tempfile.Config{BaseDir: cfg.Storage.TempDir}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize temp workspace: %w", err)
	}
	workspace.StartSweeper(ctx, sweepInterval, sweepMaxAge)

	producer, err := events.NewProducer(&cfg.Events, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event producer: %w", err)
	}

	transcoder := ffmpeg.NewService(&ffmpeg.Config{
		Path:      cfg.Ffmpeg.Path,
		ProbePath: cfg.Ffmpeg.ProbePath,
		Preset:    cfg.Ffmpeg.Preset,
		CRF:       cfg.Ffmpeg.CRF,
	}, log)

	registry := progress.NewRegistry(log)

	mediaService := media.NewService(
		media.NewRepository(db),
		account.NewRepository(db),
		store,
		transcoder,
		workspace,
		registry,
		producer,
		cacheService,
		&media.Config{
			MaxFileSize:             cfg.Media.MaxFileSize,
			AllowedMimeTypes:        cfg.Media.AllowedMimeTypes,
			Namespace:               cfg.Storage.S3.Namespace,
			SignedURLTTL:            time.Duration(cfg.Media.SignedURLTTLSeconds) * time.Second,
			MaxConcurrentTranscodes: cfg.Media.MaxConcurrentTranscodes,
		},
		log,
	)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	app := &App{
		ctx:       ctx,
		Config:    cfg,
		logger:    log,
		db:        db,
		dbService: dbService,
		cache:     cacheService,
		store:     store,
		workspace: workspace,
		registry:  registry,
		producer:  producer,
		media:     mediaService,
		router:    router,
	}

	app.setupRoutes()

	return app, nil
}

// Run starts the HTTP server in the background
func (a *App) Run() error {
	addr := fmt.Sprintf(":%d", a.Config.Server.Port)
	a.server = &http.Server{
		Addr:    addr,
		Handler: a.router,
	}

	a.logger.LogInfo("Starting server", map[string]interface{}{"addr": addr})

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.LogFatal(err, "server failed")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	a.logger.LogInfo("Initiating graceful shutdown", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.LogWarn("Error shutting down HTTP server", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.LogWarn("Error closing event producer", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := a.store.Close(); err != nil {
		a.logger.LogWarn("Error closing object storage", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := a.cache.Close(); err != nil {
		a.logger.LogWarn("Error closing cache connections", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := a.dbService.Close(); err != nil {
		a.logger.LogWarn("Error closing database connections", map[string]interface{}{
			"error": err.Error(),
		})
	}

	a.logger.LogInfo("Shutdown complete", nil)
	return nil
}

// NewResponseHandler builds the shared response handler
func (a *App) newResponseHandler() httpapi.ResponseHandler {
	return httpapi.NewResponseHandler(a.logger)
}
