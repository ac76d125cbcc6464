package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomaz/masterly/internal/api"
	"github.com/tomaz/masterly/internal/clock"
	"github.com/tomaz/masterly/internal/config"
	"github.com/tomaz/masterly/internal/db"
	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/mastery"
	"github.com/tomaz/masterly/internal/repository/sqlite"
	"github.com/tomaz/masterly/internal/scheduler"
	"github.com/tomaz/masterly/internal/services"
	"github.com/tomaz/masterly/internal/tasks"
	"github.com/tomaz/masterly/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Masterly Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("refresh_worker_count=%d", cfg.RefreshWorkerCount)
	log.Debug("refresh_queue_size=%d", cfg.RefreshQueueSize)
	log.Debug("base_intervals=%v", cfg.BaseIntervals)
	log.Debug("min_gap_days=%d", cfg.MinGapDays)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	unitRepo := sqlite.NewUnitRepository(database.DB)
	criterionRepo := sqlite.NewCriterionRepository(database.DB)
	masteryRepo := sqlite.NewMasteryRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	pinnedRepo := sqlite.NewPinnedRepository(database.DB)
	summaryRepo := sqlite.NewSummaryRepository(database.DB)
	prefRepo := sqlite.NewPreferenceRepository(database.DB)

	// Domain engines
	clk := clock.System()
	scorer := mastery.NewScorer(mastery.Config{
		HistorySize: cfg.HistorySize,
		DecayFactor: cfg.DecayFactor,
		MinGapDays:  cfg.MinGapDays,
	})
	sched := scheduler.New(scheduler.Config{
		BaseIntervals:    cfg.BaseIntervals,
		DenseMultiplier:  cfg.DenseMultiplier,
		NormalMultiplier: 1.0,
		SparseMultiplier: cfg.SparseMultiplier,
	})
	thresholds := mastery.Thresholds{
		Survey:     cfg.SurveyThreshold,
		Proficient: cfg.ProficientThreshold,
		Expert:     cfg.ExpertThreshold,
	}
	alloc := tasks.DefaultConfig()

	// Background refresh pool
	refreshPool := worker.NewPool(cfg.RefreshWorkerCount, cfg.RefreshQueueSize)

	// Services
	taskService := services.NewTaskService(unitRepo, criterionRepo, masteryRepo, progressRepo, summaryRepo, prefRepo, alloc, thresholds, clk)
	reviewService := services.NewReviewService(unitRepo, criterionRepo, masteryRepo, progressRepo, pinnedRepo, scorer, sched, clk, cfg.MinGapDays, refreshPool, taskService)
	batchService := services.NewBatchService(database, sched, clk, refreshPool, taskService)
	progressionService := services.NewProgressionService(unitRepo, criterionRepo, masteryRepo, progressRepo, prefRepo, thresholds)
	preferenceService := services.NewPreferenceService(prefRepo)

	srv := &api.Server{
		DB:                 database,
		RefreshPool:        refreshPool,
		ReviewService:      reviewService,
		BatchService:       batchService,
		TaskService:        taskService,
		ProgressionService: progressionService,
		PreferenceService:  preferenceService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	refreshPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	refreshPool.Stop()

	log.Info("===========================================")
	log.Info("Masterly Server Stopped")
	log.Info("===========================================")
}
