package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/config"
	"github.com/mamadbah2/fueldepot/internal/domain/models"
	"github.com/mamadbah2/fueldepot/internal/metrics"
)

const runTimeout = 2 * time.Minute

// ReportGenerator produces the daily report text.
type ReportGenerator interface {
	GenerateDailyReport(ctx context.Context, at time.Time) (string, error)
}

// Notifier delivers the report to the depot manager.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	reports   ReportGenerator
	notifier  Notifier
	managerID string
	now       func() time.Time
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. notifier may be nil when messaging is disabled.
func NewScheduler(cfg config.Config, reports ReportGenerator, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Reporting.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  cfg.Reporting.CronSchedule,
		reports:   reports,
		notifier:  notifier,
		managerID: cfg.WhatsApp.ManagerID,
		now:       func() time.Time { return time.Now().In(loc) },
		logger:    logger,
	}, nil
}

// Start registers the daily report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runDailyReport); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	err := s.RunDailyReport(ctx)
	metrics.RecordReportRun(err == nil)
	if err != nil {
		s.logger.Error("daily report run failed", zap.Error(err))
	}
}

// RunDailyReport generates the report for the current time and sends it to the manager.
func (s *Scheduler) RunDailyReport(ctx context.Context) error {
	s.logger.Info("generating daily report")

	report, err := s.reports.GenerateDailyReport(ctx, s.now())
	if err != nil {
		return fmt.Errorf("generate daily report: %w", err)
	}

	if s.notifier == nil || s.managerID == "" {
		s.logger.Debug("no manager to notify, report only stored")
		return nil
	}

	req := models.OutboundMessageRequest{
		To:      s.managerID,
		Message: report,
	}
	if err := s.notifier.SendOutbound(ctx, req); err != nil {
		return fmt.Errorf("send daily report: %w", err)
	}

	s.logger.Info("daily report sent", zap.String("to", s.managerID))
	return nil
}
