package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/pe4924/ReserveEase/api/swagger"
	"github.com/pe4924/ReserveEase/internal/handler"
	"github.com/pe4924/ReserveEase/internal/middleware"
	"github.com/pe4924/ReserveEase/internal/repository"
	"github.com/pe4924/ReserveEase/internal/service"
	"github.com/pe4924/ReserveEase/pkg/cache"
	"github.com/pe4924/ReserveEase/pkg/config"
	"github.com/pe4924/ReserveEase/pkg/database"
	"github.com/pe4924/ReserveEase/pkg/logger"
	corsmiddleware "github.com/pe4924/ReserveEase/pkg/middleware/cors"
	reqidmiddleware "github.com/pe4924/ReserveEase/pkg/middleware/requestid"
	"github.com/pe4924/ReserveEase/pkg/storage"
)

// @title ReserveEase API
// @version 1.0.0
// @description Reservation calendar backend
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var listCache *repository.CacheRepository
	if cfg.Events.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, reservation list cache disabled", "error", err)
		} else {
			listCache = repository.NewCacheRepository(redisClient, logr)
			defer listCache.Close()
		}
	}

	reservationRepo := repository.NewReservationRepository(db)
	userRepo := repository.NewUserRepository(db)

	var reservationSvc *service.ReservationService
	if listCache != nil {
		reservationSvc = service.NewReservationService(reservationRepo, listCache, cfg.Events.CacheTTL, nil, metricsSvc, logr)
	} else {
		reservationSvc = service.NewReservationService(reservationRepo, nil, cfg.Events.CacheTTL, nil, metricsSvc, logr)
	}
	userSvc := service.NewUserService(userRepo, nil, logr)

	var archiveSvc *service.ArchiveService
	if cfg.Exports.Enabled && cfg.Exports.ArchiveDir != "" && cfg.Exports.SigningSecret != "" {
		store, err := storage.NewLocalStorage(cfg.Exports.ArchiveDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare archive storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SigningSecret, cfg.Exports.ArchiveTTL)
		archiveSvc = service.NewArchiveService(reservationSvc, store, signer, cfg.Exports.ArchiveTTL, logr)
		archiveSvc.Start(context.Background())
		defer archiveSvc.Stop()
	}

	reservationHandler := handler.NewReservationHandler(reservationSvc)
	userHandler := handler.NewUserHandler(userSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/", reservationHandler.List)
	r.POST("/add-events", middleware.JWT(cfg.Auth.JWTSecret), reservationHandler.Create)
	r.POST("/register-user-info", userHandler.Register)

	if cfg.Exports.Enabled {
		r.GET("/export", middleware.JWT(cfg.Auth.JWTSecret), reservationHandler.Export)
	}
	if archiveSvc != nil {
		archiveHandler := handler.NewArchiveHandler(archiveSvc)
		r.POST("/export/archive", middleware.JWT(cfg.Auth.JWTSecret), archiveHandler.Snapshot)
		// The signed token is the credential for downloads.
		r.GET("/export/archive/:token", archiveHandler.Download)
	}

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
