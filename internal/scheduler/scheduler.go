package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nebsam/opsdash/internal/config"
	"github.com/nebsam/opsdash/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Reporter produces the content of the scheduled jobs.
type Reporter interface {
	DailyDigest(ctx context.Context) (string, error)
	Monthly(ctx context.Context) (models.MonthlyRollup, error)
}

// Notifier delivers the digest.
type Notifier interface {
	Broadcast(ctx context.Context, body string) error
}

// RollupExporter stores monthly rollup snapshots.
type RollupExporter interface {
	ExportMonthly(ctx context.Context, asOf string, rollup models.MonthlyRollup) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.ReportingConfig
	reporter Reporter
	notifier Notifier
	exporter RollupExporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance. notifier and exporter are
// optional; a nil one skips its part of the daily job.
func NewScheduler(cfg config.ReportingConfig, reporter Reporter, notifier Notifier, exporter RollupExporter, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		cfg:      cfg,
		reporter: reporter,
		notifier: notifier,
		exporter: exporter,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start registers the daily job and starts the scheduler. An empty schedule
// disables it.
func (s *Scheduler) Start() error {
	if s.cfg.CronSchedule == "" {
		s.logger.Info("daily digest disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDaily); err != nil {
		return fmt.Errorf("schedule daily digest %q: %w", s.cfg.CronSchedule, err)
	}

	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.CronSchedule),
		zap.String("timezone", s.cfg.Timezone))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.sendDigest(ctx); err != nil {
		s.logger.Error("failed to send daily digest", zap.Error(err))
	}
	if err := s.exportRollup(ctx); err != nil {
		s.logger.Error("failed to export monthly rollup", zap.Error(err))
	}
}

func (s *Scheduler) sendDigest(ctx context.Context) error {
	if s.notifier == nil {
		return nil
	}

	s.logger.Info("generating daily digest")
	digest, err := s.reporter.DailyDigest(ctx)
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}
	if err := s.notifier.Broadcast(ctx, digest); err != nil {
		return err
	}

	s.logger.Info("daily digest sent successfully")
	return nil
}

func (s *Scheduler) exportRollup(ctx context.Context) error {
	if s.exporter == nil {
		return nil
	}

	rollup, err := s.reporter.Monthly(ctx)
	if err != nil {
		return fmt.Errorf("build monthly rollup: %w", err)
	}
	return s.exporter.ExportMonthly(ctx, models.FormatDay(s.now()), rollup)
}
