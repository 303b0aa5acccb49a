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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/config"
	"github.com/staybook/service-booking/internal/database"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	bookingEvents "github.com/staybook/service-booking/internal/events"
	"github.com/staybook/service-booking/internal/handler"
	"github.com/staybook/service-booking/internal/logger"
	"github.com/staybook/service-booking/internal/messaging"
	"github.com/staybook/service-booking/internal/metrics"
	"github.com/staybook/service-booking/internal/middleware"
	"github.com/staybook/service-booking/internal/repository"
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
		zap.String("store", cfg.Store),
		zap.Bool("kafka", cfg.KafkaConfig.Enabled()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repository
	bookingRepo, readiness, err := newRepository(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize repository", zap.Error(err))
	}

	if cfg.SeedFile != "" {
		n, err := repository.LoadSeedFile(ctx, cfg.SeedFile, bookingRepo)
		if err != nil {
			log.Fatal("failed to load seed file", zap.String("path", cfg.SeedFile), zap.Error(err))
		}
		log.Info("seed bookings loaded", zap.String("path", cfg.SeedFile), zap.Int("count", n))
	}

	// Initialize Kafka producer
	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if cfg.KafkaConfig.Enabled() {
		kafkaProducer := messaging.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = kafkaProducer
	} else {
		log.Warn("no Kafka brokers configured, booking events will not be published")
	}

	m := metrics.New()

	// Initialize application service
	bookingService := application.NewBookingService(
		bookingRepo,
		publisher,
		bookingDomain.SystemClock,
		log,
	).WithMetrics(m)

	// Initialize and start payment event consumer in a goroutine
	if cfg.KafkaConfig.Enabled() {
		groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
		paymentConsumer := bookingEvents.NewPaymentEventConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			bookingService,
			log,
		).WithMetrics(m)
		defer func() { _ = paymentConsumer.Close() }()

		go func() {
			log.Info("starting payment event consumer", zap.String("group_id", groupID))
			if err := paymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("payment event consumer error", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Prometheus(m))
	router.Use(middleware.CORS())

	// Register health check routes
	handler.NewHealthHandler(serviceName, readiness).RegisterRoutes(router)
	router.GET("/metrics",
		middleware.MetricsBasicAuth(cfg.Metrics.User, cfg.Metrics.Password),
		gin.WrapH(promhttp.Handler()),
	)

	// Register routes
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup)
	handler.NewAdminBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// newRepository builds the configured booking store and its readiness checks.
func newRepository(cfg *config.ServiceConfig, log *zap.Logger) (bookingDomain.BookingRepository, map[string]handler.ReadinessCheck, error) {
	if cfg.Store != config.StorePostgres {
		return repository.NewMemoryBookingRepository(), nil, nil
	}

	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		return nil, nil, err
	}

	if err := db.AutoMigrate(&repository.BookingModel{}); err != nil {
		return nil, nil, fmt.Errorf("failed to run auto-migration: %w", err)
	}
	log.Info("database migration completed")

	checks := map[string]handler.ReadinessCheck{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
	return repository.NewGormBookingRepository(db), checks, nil
}
