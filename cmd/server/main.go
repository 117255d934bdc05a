// Package main runs the campus event management HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ankit-yt/eventhub/config"
	"github.com/ankit-yt/eventhub/internal/analytics"
	"github.com/ankit-yt/eventhub/internal/auth"
	"github.com/ankit-yt/eventhub/internal/calendar"
	"github.com/ankit-yt/eventhub/internal/equipment"
	"github.com/ankit-yt/eventhub/internal/events"
	"github.com/ankit-yt/eventhub/internal/middleware"
	"github.com/ankit-yt/eventhub/internal/personnel"
	"github.com/ankit-yt/eventhub/internal/users"
	"github.com/ankit-yt/eventhub/internal/venues"
	"github.com/ankit-yt/eventhub/pkg/database"
	"github.com/ankit-yt/eventhub/pkg/response"
	"github.com/ankit-yt/eventhub/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			BannersBucket:        cfg.AWS.BannersBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Users
	userRepo := users.NewRepository(pool)
	userHandler := users.NewHandler(userRepo, logger)

	// Events
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, s3Client, logger)

	// Analytics
	analyticsRepo := analytics.NewRepository(pool)
	analyticsHandler := analytics.NewHandler(analyticsRepo, logger)

	// Resource catalogs
	venueRepo := venues.NewRepository(pool)
	venueHandler := venues.NewHandler(venueRepo, logger)
	equipmentRepo := equipment.NewRepository(pool)
	equipmentHandler := equipment.NewHandler(equipmentRepo, logger)
	personnelRepo := personnel.NewRepository(pool)
	personnelHandler := personnel.NewHandler(personnelRepo, logger)

	// Resource calendar
	calendarRepo := calendar.NewRepository(pool)
	calendarHandler := calendar.NewHandler(calendarRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	api := router.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
	}

	admin := middleware.RequireRole("admin")

	// Events: catalog reads are public, everything else needs a token.
	eventsGroup := api.Group("/events")
	{
		eventsGroup.GET("", eventHandler.List)
		// static /analytics segment registered alongside :id; gin resolves static first
		eventsGroup.GET("/:id", eventHandler.GetByID)

		protected := eventsGroup.Group("")
		protected.Use(middleware.JWT(jwtService))
		{
			protected.GET("/analytics/registration-trend", admin, analyticsHandler.RegistrationTrend)
			protected.GET("/analytics/summary", admin, analyticsHandler.Summary)

			protected.POST("", admin, eventHandler.Create)
			protected.PUT("/:id", admin, eventHandler.Update)
			protected.DELETE("/:id", admin, eventHandler.Delete)
			protected.POST("/:id/register", eventHandler.Register)
			protected.POST("/:id/unregister", eventHandler.Unregister)
			protected.GET("/:id/attendees", admin, eventHandler.Attendees)
			protected.POST("/:id/banner", admin, eventHandler.UploadBanner)
			protected.POST("/:id/banner/generate-upload-url", admin, eventHandler.GenerateBannerUploadURL)
		}
	}

	// Users (JWT required)
	usersGroup := api.Group("/users")
	usersGroup.Use(middleware.JWT(jwtService))
	{
		usersGroup.GET("", admin, userHandler.List)
		usersGroup.GET("/profile", userHandler.Profile)
		usersGroup.PUT("/profile", userHandler.UpdateProfile)
	}

	// Resources: reads public, writes admin only.
	resources := api.Group("/resources")
	{
		resources.GET("/venues", venueHandler.List)
		resources.GET("/venues/:id", venueHandler.GetByID)
		resources.GET("/equipment", equipmentHandler.List)
		resources.GET("/equipment/:id", equipmentHandler.GetByID)
		resources.GET("/personnel", personnelHandler.List)
		resources.GET("/personnel/:id", personnelHandler.GetByID)

		mutate := resources.Group("")
		mutate.Use(middleware.JWT(jwtService), admin)
		{
			mutate.POST("/venues", venueHandler.Create)
			mutate.PUT("/venues/:id", venueHandler.Update)
			mutate.DELETE("/venues/:id", venueHandler.Delete)
			mutate.POST("/equipment", equipmentHandler.Create)
			mutate.PUT("/equipment/:id", equipmentHandler.Update)
			mutate.DELETE("/equipment/:id", equipmentHandler.Delete)
			mutate.POST("/personnel", personnelHandler.Create)
			mutate.PUT("/personnel/:id", personnelHandler.Update)
			mutate.DELETE("/personnel/:id", personnelHandler.Delete)
		}

		calendarGroup := resources.Group("/calendar")
		{
			calendarGroup.GET("", calendarHandler.List)
			calendarGroup.GET("/event/:eventId", calendarHandler.GetByEvent)
			calendarGroup.GET("/:id", calendarHandler.GetByID)

			calendarAuth := middleware.JWT(jwtService)
			calendarGroup.POST("", calendarAuth, admin, calendarHandler.Create)
			calendarGroup.PUT("/:id", calendarAuth, admin, calendarHandler.Update)
			calendarGroup.DELETE("/:id", calendarAuth, admin, calendarHandler.Delete)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
