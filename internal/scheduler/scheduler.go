package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/chickenfarm/internal/config"
	"github.com/mamadbah2/chickenfarm/internal/domain/models"
	"github.com/mamadbah2/chickenfarm/internal/service/reporting"
	"github.com/mamadbah2/chickenfarm/pkg/clients/notify"
)

// ReportService produces and archives the daily report.
type ReportService interface {
	GenerateDailyReport(ctx context.Context, loc *time.Location) (models.DailyReport, error)
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	loc      *time.Location
	reports  ReportService
	notifier notify.Client
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. notifier may be nil, in
// which case reports are only archived.
func NewScheduler(cfg config.ReportingConfig, reports ReportService, notifier notify.Client, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: cfg.CronSchedule,
		loc:      loc,
		reports:  reports,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// Start registers the daily report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runDailyReport); err != nil {
		return err
	}
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("timezone", s.loc.String()))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// RunOnce generates, archives and sends one daily report.
func (s *Scheduler) RunOnce(ctx context.Context) (models.DailyReport, error) {
	report, err := s.reports.GenerateDailyReport(ctx, s.loc)
	if err != nil {
		return models.DailyReport{}, err
	}

	if err := s.reports.SaveDailyReport(ctx, report); err != nil {
		s.logger.Error("failed to archive daily report", zap.String("report_id", report.ID), zap.Error(err))
	}

	if s.notifier == nil {
		return report, nil
	}
	msg := notify.Message{Title: report.FarmName + " daily report", Text: reporting.Summary(report)}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Error("failed to send daily report", zap.String("report_id", report.ID), zap.Error(err))
		return report, nil
	}
	s.logger.Info("daily report sent", zap.String("report_id", report.ID))
	return report, nil
}

func (s *Scheduler) runDailyReport() {
	s.logger.Info("generating daily report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("failed to generate daily report", zap.Error(err))
	}
}
