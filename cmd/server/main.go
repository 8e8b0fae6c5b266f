package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rupert648/feed-the-moose/internal/background"
	"github.com/rupert648/feed-the-moose/internal/config"
	"github.com/rupert648/feed-the-moose/internal/handler"
	"github.com/rupert648/feed-the-moose/internal/middleware"
	"github.com/rupert648/feed-the-moose/internal/model"
	"github.com/rupert648/feed-the-moose/internal/repository"
	"github.com/rupert648/feed-the-moose/internal/service"
	"github.com/rupert648/feed-the-moose/migrations"
	"github.com/rupert648/feed-the-moose/pkg/auth"
	"github.com/rupert648/feed-the-moose/pkg/push"
	"github.com/rupert648/feed-the-moose/pkg/storage"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Feed the Moose API
// @version         1.0
// @description     Shared household feeding tracker with web push reminders.

// @host      api.localhost
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()
	log.Printf("🚀 Starting Feed the Moose API [env=%s]", cfg.App.Env)

	if cfg.Auth.SharedSecret == "" {
		log.Fatal("❌ SHARED_SECRET must be set")
	}

	// ==================== Logger ====================
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	// ==================== Database (PostgreSQL) ====================
	gormLogger := gormlogger.Default.LogMode(gormlogger.Info)
	if cfg.App.Env == "production" {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	if err := migrations.Run(cfg.DB.URL()); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		if err := db.AutoMigrate(
			&model.User{},
			&model.FeedingWindow{},
			&model.Feeding{},
			&model.PushSubscription{},
			&model.NotificationLogEntry{},
		); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== MinIO Storage ====================
	photoStore, err := storage.NewMinIO(storage.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to MinIO: %v", err)
	}
	log.Println("✅ Connected to MinIO")

	// ==================== Initialize Layers ====================
	sessionManager := auth.NewSessionManager(cfg.Auth.SharedSecret, cfg.Auth.SessionExpiry)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	feedingRepo := repository.NewFeedingRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	notificationLogRepo := repository.NewNotificationLogRepository(db)

	// Background tracker: detached pushes must finish before exit
	tracker := background.NewTracker(logger.With().Str("component", "background").Logger())

	// Push dispatcher
	dispatcher := push.NewDispatcher(subscriptionRepo, push.Credentials{
		VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.Push.VAPIDPrivateKey,
		Subject:         cfg.Push.Subject,
	}, nil, logger.With().Str("component", "push").Logger())

	// Services
	authService := service.NewAuthService(userRepo, sessionManager, cfg.Auth.SharedSecret,
		logger.With().Str("component", "auth").Logger())
	feedingService := service.NewFeedingService(feedingRepo, scheduleRepo, photoStore, dispatcher, tracker,
		logger.With().Str("component", "feedings").Logger())
	checkService := service.NewCheckService(scheduleRepo, feedingRepo, notificationLogRepo, dispatcher,
		logger.With().Str("component", "checker").Logger())

	// Handlers
	cookieMaxAge := int(cfg.Auth.SessionExpiry / time.Second)
	authHandler := handler.NewAuthHandler(authService, cookieMaxAge, cfg.App.Env == "production")
	feedingHandler := handler.NewFeedingHandler(feedingService)
	pushHandler := handler.NewPushHandler(subscriptionRepo, dispatcher, cfg.Push.VAPIDPublicKey)
	cronHandler := handler.NewCronHandler(checkService)
	settingsHandler := handler.NewSettingsHandler(scheduleRepo)
	photoHandler := handler.NewPhotoHandler(photoStore)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")
	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "feed-the-moose-api",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		// Public
		api.POST("/auth/login", authHandler.Login)
		api.GET("/push/vapid-key", pushHandler.VAPIDKey)

		// Shared-secret bearer (external scheduler + diagnostics)
		trigger := api.Group("")
		trigger.Use(middleware.SharedSecretMiddleware(cfg.Auth.SharedSecret))
		{
			trigger.GET("/cron/check-feedings", cronHandler.CheckFeedings)
			trigger.POST("/push/test", pushHandler.TestPush)
		}

		// Session-protected
		protected := api.Group("")
		protected.Use(middleware.SessionMiddleware(sessionManager))
		{
			protected.POST("/auth/logout", authHandler.Logout)
			protected.GET("/auth/profile", authHandler.Profile)

			protected.GET("/feedings", feedingHandler.History)
			protected.POST("/feedings", feedingHandler.Record)
			protected.GET("/feedings/status", feedingHandler.Status)

			protected.GET("/photos/*key", photoHandler.Get)

			protected.POST("/push/subscribe", pushHandler.Subscribe)
			protected.DELETE("/push/subscribe", pushHandler.Unsubscribe)

			protected.GET("/settings/schedule", settingsHandler.List)
			protected.POST("/settings/schedule", settingsHandler.Add)
			protected.PATCH("/settings/schedule", settingsHandler.UpdateLabel)
			protected.DELETE("/settings/schedule", settingsHandler.Remove)
		}
	}

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 Feed the Moose API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	// Detached confirmation pushes run to completion before exit
	trackerCtx, trackerCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer trackerCancel()
	if err := tracker.Wait(trackerCtx); err != nil {
		log.Printf("⚠️  Background tasks did not finish before shutdown: %v", err)
	}

	log.Println("✅ Server exited gracefully")
}
