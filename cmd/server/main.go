package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rise-rentals/service-booking/internal/application"
	"github.com/rise-rentals/service-booking/internal/cache"
	"github.com/rise-rentals/service-booking/internal/common/auth"
	"github.com/rise-rentals/service-booking/internal/common/database"
	"github.com/rise-rentals/service-booking/internal/common/health"
	"github.com/rise-rentals/service-booking/internal/common/kafka"
	"github.com/rise-rentals/service-booking/internal/common/logger"
	"github.com/rise-rentals/service-booking/internal/common/middleware"
	"github.com/rise-rentals/service-booking/internal/common/tracing"
	"github.com/rise-rentals/service-booking/internal/config"
	bookingEvents "github.com/rise-rentals/service-booking/internal/events"
	"github.com/rise-rentals/service-booking/internal/handler"
	"github.com/rise-rentals/service-booking/internal/notification"
	"github.com/rise-rentals/service-booking/internal/repository"
)

const serviceName = "service-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("notifier", cfg.NotifierDriver),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize tracing
	shutdownTracer, err := tracing.InitTracer(ctx, serviceName, cfg.OTLPEndpoint, cfg.AppEnv)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracer(flushCtx); err != nil {
			log.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTTL)

	// Initialize repositories
	repos := repository.NewRepositories(db)
	uow := repository.NewGormUnitOfWork(db, cfg.SerializableAdmission)

	// Optional Redis capacity cache
	var bookingOpts []application.BookingServiceOption
	var capacity application.CapacityProvider
	var invalidator application.CapacityInvalidator
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()

		capacityCache := cache.NewCapacityCache(redisClient, repos.Boats, cfg.CapacityCacheTTL, log)
		capacity, invalidator = capacityCache, capacityCache
		bookingOpts = append(bookingOpts, application.WithCapacityProvider(capacityCache))
		log.Info("capacity cache enabled", zap.Duration("ttl", cfg.CapacityCacheTTL))
	}
	bookingOpts = append(bookingOpts, application.WithStrictUpdate(cfg.StrictUpdate))

	// Initialize notifier
	mailer := notification.NewMailer(notification.MailerConfig{
		APIKey: cfg.Mail.APIKey,
		From:   cfg.Mail.From,
		APIURL: cfg.Mail.APIURL,
	}, nil, log.Named("mailer"))

	var notifier application.BookingNotifier
	switch cfg.NotifierDriver {
	case config.NotifierKafka:
		kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		notifier = notification.NewKafkaNotifier(kafkaProducer, log)

		groupID := cfg.KafkaConfig.GroupPrefix + "booking-notifications"
		notificationConsumer := bookingEvents.NewNotificationConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			mailer,
			log,
		)
		defer func() { _ = notificationConsumer.Close() }()

		go func() {
			log.Info("starting booking notification consumer")
			if err := notificationConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking notification consumer error", zap.Error(err))
			}
		}()
	case config.NotifierAMQP:
		amqpNotifier, err := notification.DialAMQPNotifier(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			log.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer func() { _ = amqpNotifier.Close() }()
		notifier = amqpNotifier
	case config.NotifierEmail:
		notifier = mailer
	default:
		notifier = notification.NewLogNotifier(log)
	}

	// Initialize application services
	bookingService := application.NewBookingService(repos, uow, notifier, log, bookingOpts...)
	timeSlotService := application.NewTimeSlotService(repos, uow, notifier, log)
	inventoryService := application.NewInventoryService(repos, uow, capacity, invalidator, log)
	priceService := application.NewPriceService(repos, log)

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
	healthHandler := health.NewHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register routes
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewTimeSlotHandler(timeSlotService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewBoatHandler(inventoryService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewBatteryHandler(inventoryService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewPriceHandler(priceService).RegisterRoutes(&router.RouterGroup, jwtManager)

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

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
