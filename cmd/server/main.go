package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	grpcapi "rentshare-backend/internal/api/grpc"
	httpapi "rentshare-backend/internal/api/http"
	"rentshare-backend/internal/cache"
	"rentshare-backend/internal/config"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/metrics"
	"rentshare-backend/internal/notify"
	"rentshare-backend/internal/payments"
	"rentshare-backend/internal/repository/postgres"
	"rentshare-backend/internal/security"
	"rentshare-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	if err := config.LoadEnvFiles(".env", ".env.local"); err != nil {
		log.Fatalf("Failed to load env files: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rentshare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress(), "timezone", cfg.Calendar.Timezone)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Availability cache
	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// reads fall back to the ledger while redis is down
			logger.Warn("Redis unreachable at startup", "address", cfg.Redis.Address, "error", err)
		}
		logger.Info("Availability cache enabled", "address", cfg.Redis.Address, "ttl", cfg.CacheTTL())
	}
	availabilityCache := cache.NewAvailabilityCache(rdb, cfg.CacheTTL())

	// Notification channels
	var email notify.EmailSender = notify.NewSendGridSender(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	var push notify.PushSender
	if cfg.Firebase.Enabled {
		pusher, err := notify.NewFirebasePusher(ctx, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("Failed to initialize push notifications: %v", err)
		}
		push = pusher
	}
	dispatcher := notify.NewDispatcher(store.NotificationRepository, store.ProfileRepository, email, push)

	processor := payments.NewStripeProcessor(cfg.Stripe.SecretKey, cfg.Stripe.Currency)

	// Initialize Services
	loc := cfg.Location()
	calendarSvc := service.NewCalendarService(store.BookingLedger, store.ListingRepository, availabilityCache, loc)
	services := httpapi.Services{
		Bookings:      service.NewBookingService(store.BookingLedger, store.ListingRepository, calendarSvc, store.ActivityRepository, dispatcher, loc),
		Calendars:     calendarSvc,
		Listings:      service.NewListingService(store.ListingRepository, store.ActivityRepository),
		Messages:      service.NewMessageService(store.MessageRepository, store.ProfileRepository, dispatcher),
		Reviews:       service.NewReviewService(store.ReviewRepository, store.BookingLedger, store.ActivityRepository),
		Payments:      service.NewPaymentService(processor, store.ProfileRepository, store.BookingLedger),
		Verification:  service.NewVerificationService(store.VerificationRepository, store.ProfileRepository, store.ActivityRepository, dispatcher),
		Profiles:      service.NewProfileService(store.ProfileRepository),
		Notifications: service.NewNotificationService(store.NotificationRepository),
		Activity:      service.NewActivityService(store.ActivityRepository),
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.AccessTokenTTL())

	metrics.Register()

	limiter := httpapi.NewUserRateLimiter(cfg.RateLimit.MessagesPerMinute, cfg.RateLimit.Burst)
	router := httpapi.NewRouter(httpapi.NewHandler(services, limiter), tokenManager)
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Set up gRPC health server
	grpcServer, healthServer := grpcapi.NewServer(tokenManager)
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			log.Fatalf("Failed to listen: %v", err)
		}
		go grpcapi.MonitorDatabase(ctx, healthServer, db, 15*time.Second)
		go func() {
			logger.Info("gRPC server listening", "address", addr)
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		logger.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	healthServer.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Server stopped. Goodbye!")
}
