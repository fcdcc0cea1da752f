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

	// Application Layer
	appService "remindbot/internal/application/service"
	"remindbot/internal/config"

	// Infrastructure Layer
	"remindbot/internal/infrastructure/bluesky"
	"remindbot/internal/infrastructure/database/sqlite"
	"remindbot/internal/infrastructure/media"
	"remindbot/internal/infrastructure/scheduler"

	// Interfaces Layer
	"remindbot/internal/interfaces/api/handler"
	"remindbot/internal/interfaces/api/router"

	// Packages
	appLogger "remindbot/internal/pkg/logger"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
	"golang.org/x/sync/errgroup"
)

func main() {
	appLog := appLogger.New()
	appLog.Info("Logger initialized.")

	cfg, err := config.Load()
	if err != nil {
		appLog.Error("Invalid configuration", err)
		os.Exit(1)
	}

	// --- Infrastructure ---
	db, err := sqlite.NewDB(cfg.DatabasePath, appLog)
	if err != nil {
		appLog.Error("Failed to open database", err)
		os.Exit(1)
	}
	personRepo := sqlite.NewPersonRepository(db)
	reminderRepo := sqlite.NewReminderRepository(db)
	mediaRepo := sqlite.NewMediaRepository(db)
	spanRepo := sqlite.NewSpanRepository(db)
	notificationRepo := sqlite.NewNotificationRepository(db)
	appLog.Info("Database and repositories initialized.")

	files, err := media.NewStore(cfg.MediaDir, appLog)
	if err != nil {
		appLog.Error("Failed to prepare media directory", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := bluesky.NewClient(cfg.PDSHost, cfg.Handle, cfg.Password, appLog)
	if err := client.Login(ctx); err != nil {
		appLog.Error("Bluesky login failed", err)
		os.Exit(1)
	}
	appLog.Info(fmt.Sprintf("Logged in as @%s", client.Handle()))

	cronScheduler := scheduler.NewScheduler(appLog)

	// --- Application Services ---
	ingestSvc := appService.NewIngestService(client, reminderRepo, personRepo, mediaRepo, spanRepo, notificationRepo, files, appLog)
	dispatchSvc := appService.NewDispatchService(client, reminderRepo, personRepo, mediaRepo, spanRepo, files, appLog)
	statsSvc := appService.NewStatsService(reminderRepo, personRepo, mediaRepo, notificationRepo, appLog)
	schedulerSvc := appService.NewSchedulerService(cronScheduler, ingestSvc, dispatchSvc, cfg.IngestInterval, appLog)
	appLog.Info("Application services initialized.")

	if err := schedulerSvc.Start(); err != nil {
		appLog.Error("Failed to start scheduler", err)
		os.Exit(1)
	}

	// --- API Handlers & Router ---
	opsHandler := handler.NewOpsHandler(statsSvc, appLog)
	echoRouter := router.NewRouter(&router.Config{
		OpsHandler: opsHandler,
		Logger:     appLog,
	})

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Port))
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("Shutting down gracefully...")
		schedulerSvc.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			appLog.Error("Server forced to shutdown", err)
		}
		if err := sqlite.CloseDB(db); err != nil {
			appLog.Error("Error closing database", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		appLog.Error("Server error", err)
		os.Exit(1)
	}
	appLog.Info("Graceful shutdown complete.")
}
