package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CleanNest/service-cleaning/internal/application"
	"github.com/CleanNest/service-cleaning/internal/auth"
	"github.com/CleanNest/service-cleaning/internal/config"
	"github.com/CleanNest/service-cleaning/internal/database"
	"github.com/CleanNest/service-cleaning/internal/events"
	"github.com/CleanNest/service-cleaning/internal/handler"
	"github.com/CleanNest/service-cleaning/internal/health"
	"github.com/CleanNest/service-cleaning/internal/hub"
	"github.com/CleanNest/service-cleaning/internal/logger"
	"github.com/CleanNest/service-cleaning/internal/middleware"
	"github.com/CleanNest/service-cleaning/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-cleaning")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-cleaning",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.UserModel{}, &repository.ServiceModel{}, &repository.BookingModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Initialize Kafka producer
	kafkaProducer := events.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize the notification hub
	statusHub := hub.NewHub(log)
	defer statusHub.Shutdown()

	// Each instance gets a unique event source so the relay can tell its own
	// events apart from those of peer instances.
	instanceSource := "service-cleaning/" + uuid.NewString()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	serviceRepo := repository.NewGormServiceRepository(db)

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		userRepo,
		serviceRepo,
		statusHub,
		kafkaProducer,
		instanceSource,
		log,
	)
	userService := application.NewUserService(userRepo, jwtManager, log)

	// Start the status relay consumer so updates committed on peer instances
	// reach subscribers connected here.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "cleaning-service." + uuid.NewString()
	relayConsumer := events.NewStatusRelayConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		instanceSource,
		statusHub,
		log,
	)
	defer func() { _ = relayConsumer.Close() }()

	go func() {
		log.Info("starting status relay consumer")
		if err := relayConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("status relay consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(userService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	cleanerHandler := handler.NewCleanerHandler(bookingService, userService)
	adminHandler := handler.NewAdminHandler(bookingService, userService)
	wsHandler := handler.NewWSHandler(statusHub, jwtManager, log)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-cleaning")
	healthHandler.RegisterRoutes(router)

	// Register routes
	authHandler.RegisterRoutes(&router.RouterGroup)
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	cleanerHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	wsHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-cleaning...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-cleaning stopped")
}
