package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/8bitgaijin/Learniverse-sub000/internal/api"
	"github.com/8bitgaijin/Learniverse-sub000/internal/catalog"
	"github.com/8bitgaijin/Learniverse-sub000/internal/config"
	"github.com/8bitgaijin/Learniverse-sub000/internal/db"
	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository/sqlite"
	"github.com/8bitgaijin/Learniverse-sub000/internal/services"
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
	log.Info("Learniverse Engine Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("lesson_sequence=%v", cfg.LessonSequence)

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

	// Initialize repositories
	studentRepo := sqlite.NewStudentRepository(database.DB)
	lessonRepo := sqlite.NewLessonRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	sessionLessonRepo := sqlite.NewSessionLessonRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)

	// Seed the fixed lesson catalog
	if err := catalog.Seed(context.Background(), lessonRepo); err != nil {
		log.Error("failed to seed lesson catalog: %v", err)
		os.Exit(1)
	}

	// Initialize services
	studentService := services.NewStudentService(studentRepo)
	sessionService := services.NewSessionService(studentRepo, sessionRepo)
	progressService := services.NewProgressService(sessionRepo, lessonRepo, sessionLessonRepo, progressRepo)
	skipService := services.NewSkipService(studentRepo, lessonRepo, sessionLessonRepo)
	streakService := services.NewStreakService(studentRepo, sessionRepo)
	reportService := services.NewReportService(studentRepo, sessionRepo, sessionLessonRepo)

	srv := &api.Server{
		DB:       database,
		Students: studentService,
		Sessions: sessionService,
		Progress: progressService,
		Skips:    skipService,
		Streaks:  streakService,
		Reports:  reportService,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Learniverse Engine Stopped")
	log.Info("===========================================")
}
