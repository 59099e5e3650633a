package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"rentshare-backend/internal/config"
	"rentshare-backend/internal/jobs"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/notify"
	"rentshare-backend/internal/repository/postgres"
	"rentshare-backend/internal/scheduler"
	"rentshare-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'complete-bookings', 'all-nightly')")
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
	logger.Info("Starting Rentshare Cronjob Runner...", "log_level", cfg.Log.Level, "timezone", cfg.Calendar.Timezone)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Completion sends no notices; only the in-app feed is wired
	dispatcher := notify.NewDispatcher(store.NotificationRepository, store.ProfileRepository, nil, nil)
	loc := cfg.Location()
	calendarSvc := service.NewCalendarService(store.BookingLedger, store.ListingRepository, nil, loc)
	bookingSvc := service.NewBookingService(store.BookingLedger, store.ListingRepository, calendarSvc, store.ActivityRepository, dispatcher, loc)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(bookingSvc, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)
	if !cronScheduler.IsRunning() {
		log.Fatalf("No jobs registered, check scheduler configuration")
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "complete-bookings":
		jobRunner.CompleteFinishedBookings()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - complete-bookings\n")
		fmt.Printf("  - all-nightly\n")
		os.Exit(1)
	}
}
