package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/kukudrill/internal/api"
	"github.com/vytor/kukudrill/internal/clock"
	"github.com/vytor/kukudrill/internal/config"
	"github.com/vytor/kukudrill/internal/db"
	"github.com/vytor/kukudrill/internal/jobs"
	"github.com/vytor/kukudrill/internal/logger"
	"github.com/vytor/kukudrill/internal/repository/sqlite"
	"github.com/vytor/kukudrill/internal/services"
	"github.com/vytor/kukudrill/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("kukudrill server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_seconds=%d", cfg.SessionSeconds)
	log.Debug("persist_worker_count=%d", cfg.PersistWorkerCount)
	log.Debug("persist_queue_size=%d", cfg.PersistQueueSize)
	log.Debug("leaderboard_limit=%d", cfg.LeaderboardLimit)
	log.Debug("session_retention=%s", cfg.SessionRetention)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	clk := clock.Real{}
	users := sqlite.NewUserDirectory(database.DB)
	records := sqlite.NewRecordStore(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)

	persistPool := worker.NewPool(cfg.PersistWorkerCount, cfg.PersistQueueSize)
	progressService := services.NewProgressService(progressRepo, clk, cfg.LeaderboardLimit)
	drillService := services.NewDrillService(users, jobs.NewWorkerQueue(persistPool, records, progressService), services.DrillOptions{
		BudgetSeconds: cfg.SessionSeconds,
		Retention:     cfg.SessionRetention,
		Clock:         clk,
	})

	srv := &api.Server{
		DB:              database.DB,
		UserService:     services.NewUserService(users),
		DrillService:    drillService,
		ProgressService: progressService,
		StatsService:    services.NewStatsService(records, users, progressRepo, clk, nil),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	persistPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Running sessions are dropped; their answered attempts are already queued.
	drillService.Shutdown()

	log.Debug("draining persist pool")
	persistPool.Stop()

	log.Info("kukudrill server stopped")
}
