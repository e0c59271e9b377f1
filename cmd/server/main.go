// Package main wires the community-watch shift coordination core into a
// running process: config/logger/DB/migrations, the domain services, and
// the in-process job runner that drives the outbox dispatcher, broadcast
// engine, recurring-assignment materializer and report archiver on their
// configured cadences.
package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warden-go/internal/config"
	db "warden-go/internal/db/sqlc_generated"
	"warden-go/internal/jobs"
	"warden-go/internal/logging"
	"warden-go/internal/outbox"
	"warden-go/internal/service"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables or defaults")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("critical: error loading configuration: %v", err)
	}

	logger := logging.NewLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "dev_mode", cfg.DevMode, "version", config.GetVersionString())

	dbConn, err := sql.Open("sqlite", cfg.DatabasePath+"?cache=shared&_foreign_keys=on")
	if err != nil {
		logger.Error("failed to open database connection", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()
	if err := dbConn.Ping(); err != nil {
		logger.Error("failed to ping database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database", "path", cfg.DatabasePath)

	runMigrations(cfg, logger)

	querier := db.New(dbConn)

	// BookingService, ReportService and their Scheduler are consumed by the
	// HTTP layer (out of scope here, per the authiface boundary) rather than
	// by any job-runner cadence, so this process doesn't construct them.
	scheduleService := service.NewScheduleService(querier, logger, cfg)
	recurringAssignmentService := service.NewRecurringAssignmentService(querier, logger, cfg)
	broadcastService := service.NewBroadcastService(querier, logger, cfg)
	reportArchivingService := service.NewReportArchivingService(querier, logger)

	senders := map[string]outbox.MessageSender{
		"push": outbox.NewWebPushSender(querier, cfg, logger),
	}
	switch cfg.SMSProvider {
	case "twilio":
		senders["sms"] = outbox.NewTwilioSMSSender(cfg, logger)
	default:
		smsSender, err := outbox.NewLogFileMessageSender(cfg.OTPLogPath, logger)
		if err != nil {
			logger.Error("failed to create log-file SMS sender", "path", cfg.OTPLogPath, "error", err)
			os.Exit(1)
		}
		senders["sms"] = smsSender
	}
	dispatcherService := outbox.NewDispatcherService(querier, senders, logger, cfg)

	runner := jobs.NewRunner(logger)
	mustRegister(runner, cfg.JobDrainOutboxCron, "drain-outbox", func(ctx context.Context) {
		processed, errCount := dispatcherService.ProcessPendingOutboxMessages(ctx)
		if errCount > 0 {
			logger.Warn("outbox dispatch finished with errors", "processed", processed, "errors", errCount)
		} else if processed > 0 {
			logger.Info("outbox dispatch finished", "processed", processed)
		}
	})
	mustRegister(runner, cfg.JobProcessBroadcastsCron, "process-broadcasts", func(ctx context.Context) {
		processed, err := broadcastService.ProcessPendingBroadcasts(ctx)
		if err != nil {
			logger.Error("broadcast processing failed", "error", err, "kind", service.Classify(err).String())
		} else if processed > 0 {
			logger.Info("broadcast processing finished", "processed", processed)
		}
	})
	mustRegister(runner, cfg.JobMaterializeRecurringCron, "materialize-recurring", func(ctx context.Context) {
		now := time.Now().UTC()
		horizon := now.AddDate(0, 0, cfg.RecurringHorizonDays)
		if err := recurringAssignmentService.MaterializeUpcomingBookings(ctx, scheduleService, now, horizon); err != nil {
			logger.Error("recurring assignment materialization failed", "error", err, "kind", service.Classify(err).String())
		}
	})
	mustRegister(runner, cfg.JobArchiveReportsCron, "archive-reports", func(ctx context.Context) {
		archived, err := reportArchivingService.ArchiveOldReports(ctx)
		if err != nil {
			logger.Error("report archiving failed", "error", err, "kind", service.Classify(err).String())
		} else if archived > 0 {
			logger.Info("report archiving finished", "archived", archived)
		}
	})

	runner.Start()
	logger.Info("job runner started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received, stopping job runner")

	runner.Stop()
	logger.Info("shutdown complete")
}

func mustRegister(runner *jobs.Runner, spec, name string, fn func(ctx context.Context)) {
	if err := runner.Register(spec, name, fn); err != nil {
		slog.Error("failed to register job", "name", name, "schedule", spec, "error", err)
		os.Exit(1)
	}
}

// runMigrations applies every pending forward migration using its own
// dedicated DB connection, independent of the application's pooled dbConn.
func runMigrations(cfg *config.Config, logger *slog.Logger) {
	migrationDSN := "sqlite3://" + cfg.DatabasePath
	logger.Info("running database migrations", "dsn", migrationDSN)

	m, err := migrate.New("file://internal/db/migrations", migrationDSN)
	if err != nil {
		logger.Error("failed to create migrate instance", "dsn", migrationDSN, "error", err)
		os.Exit(1)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("error closing migration instance", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Error("failed to apply migrations", "dsn", migrationDSN, "error", err)
		os.Exit(1)
	} else if err == migrate.ErrNoChange {
		logger.Info("no new migrations to apply")
	} else {
		logger.Info("database migrations applied")
	}
}
