package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gawdwnn/studyloopai-sub005/internal/config"
	"github.com/gawdwnn/studyloopai-sub005/internal/domain/sm2"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/postgres"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/analytics"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/auth"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/gaps"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/scheduling"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/session"
	"github.com/gawdwnn/studyloopai-sub005/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	schedulingStore store.SchedulingStore
	sessionStore    store.SessionStore
	gapStore        store.GapStore

	// Services
	jwtService        auth.JWTService
	schedulingService scheduling.SchedulingService
	sessionService    session.SessionService
	gapService        gaps.GapService
	analyticsService  analytics.AnalyticsService
}

// newApplication wires the full dependency graph from configuration.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(db); err != nil {
		closeDatabase(db, logger)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		closeDatabase(db, logger)
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	schedulingStore := postgres.NewPostgresSchedulingStore(db, logger)
	sessionStore := postgres.NewPostgresSessionStore(db, logger)
	gapStore := postgres.NewPostgresGapStore(db, logger)

	engine := sm2.NewServiceWithParams(sm2.NewParams(sm2.ParamsConfig{
		MinEaseFactor:     cfg.Scheduler.MinEaseFactor,
		MaxEaseFactor:     cfg.Scheduler.MaxEaseFactor,
		DefaultEaseFactor: cfg.Scheduler.DefaultEaseFactor,
		IncorrectPenalty:  cfg.Scheduler.IncorrectPenalty,
		FirstInterval:     cfg.Scheduler.FirstInterval,
		SecondInterval:    cfg.Scheduler.SecondInterval,
		FastAnswerMs:      cfg.Scheduler.FastAnswerMs,
		SlowAnswerMs:      cfg.Scheduler.SlowAnswerMs,
	}))

	return &application{
		config:            cfg,
		logger:            logger,
		db:                db,
		schedulingStore:   schedulingStore,
		sessionStore:      sessionStore,
		gapStore:          gapStore,
		jwtService:        jwtService,
		schedulingService: scheduling.NewSchedulingService(schedulingStore, engine, logger),
		sessionService:    session.NewSessionService(sessionStore, logger),
		gapService:        gaps.NewGapService(gapStore, logger),
		analyticsService:  analytics.NewAnalyticsService(sessionStore, gapStore, logger),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	closeDatabase(app.db, app.logger)
}

func closeDatabase(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close database connection", "error", err)
	}
}
