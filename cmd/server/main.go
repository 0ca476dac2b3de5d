package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/nebsam/opsdash/internal/analytics"
	"github.com/nebsam/opsdash/internal/config"
	"github.com/nebsam/opsdash/internal/domain/models"
	"github.com/nebsam/opsdash/internal/repository/memory"
	"github.com/nebsam/opsdash/internal/repository/mongodb"
	"github.com/nebsam/opsdash/internal/repository/sheets"
	"github.com/nebsam/opsdash/internal/scheduler"
	"github.com/nebsam/opsdash/internal/server/handlers"
	"github.com/nebsam/opsdash/internal/server/router"
	"github.com/nebsam/opsdash/internal/service/notify"
	reportingsvc "github.com/nebsam/opsdash/internal/service/reporting"
	"github.com/nebsam/opsdash/pkg/clients/sms"
	"github.com/nebsam/opsdash/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, closeStore := openStore(cfg, baseLogger)
	defer closeStore()

	policy, err := analytics.ParseAveragePolicy(cfg.Analytics.TrendAveragePolicy)
	if err != nil {
		baseLogger.Fatal("invalid trend average policy", zap.Error(err))
	}
	trackingCode, ok := models.ParseDepartmentCode(cfg.Analytics.TrackingCode)
	if !ok {
		baseLogger.Fatal("unknown tracking department code", zap.String("code", cfg.Analytics.TrackingCode))
	}

	if _, err := store.FindDepartmentByCode(context.Background(), trackingCode); err != nil {
		baseLogger.Warn("tracking department not found in store", zap.String("code", string(trackingCode)), zap.Error(err))
	}

	reportingSvc := reportingsvc.NewService(store, logger.Named(baseLogger, "svc.reporting"),
		reportingsvc.WithTrackingCode(trackingCode),
		reportingsvc.WithAveragePolicy(policy))

	analyticsHandler := handlers.NewAnalyticsHandler(reportingSvc, logger.Named(baseLogger, "handlers.analytics"))
	engine, err := router.New(analyticsHandler, logger.Named(baseLogger, "router"))
	if err != nil {
		baseLogger.Fatal("failed to init router", zap.Error(err))
	}

	var notifier scheduler.Notifier
	if cfg.SMS.Enabled() {
		notifier = notify.NewService(sms.NewClient(cfg.SMS), cfg.SMS.Recipients, logger.Named(baseLogger, "svc.notify"))
	} else {
		baseLogger.Warn("sms gateway not configured, daily digest disabled")
	}

	var exporter scheduler.RollupExporter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter = sheets.NewRollupExporter(sheetsRepo, cfg.Sheets.RollupRange, logger.Named(baseLogger, "export.sheets"))
	}

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, notifier, exporter, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(cfg *config.Config, baseLogger *zap.Logger) (reportingsvc.Store, func()) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		store := memory.NewRepository()
		store.AddDepartments(memory.DefaultDepartments()...)
		baseLogger.Warn("using in-memory store, data is lost on restart")
		return store, func() {}
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB, logger.Named(baseLogger, "repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	return mongoRepo, func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}
}
