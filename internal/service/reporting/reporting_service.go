package reporting

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
	"github.com/mamadbah2/chickenfarm/internal/metrics"
)

const dateLayout = "2006-01-02"

// summaryKeys are the readings included in the text summary, in order.
var summaryKeys = []string{
	metrics.TotalEggsKey,
	metrics.EggsInStorageKey,
	metrics.TotalChickensKey,
	metrics.TotalCostsKey,
	metrics.TotalProfitKey,
	metrics.ProfitPerEggKey,
	metrics.HatcheryStatusKey,
}

// ReadingSource evaluates every derived sensor. *metrics.Reader implements it.
type ReadingSource interface {
	ReadAll() []models.SensorReading
}

// FarmSource returns the farm configuration.
type FarmSource interface {
	Current(ctx context.Context) (models.FarmConfig, bool, error)
}

// ReportRepository archives daily reports.
type ReportRepository interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Service builds daily farm reports from the derived sensors.
type Service struct {
	readings ReadingSource
	farm     FarmSource
	repo     ReportRepository
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires a new reporting service instance. farm and repo may be nil.
func NewService(readings ReadingSource, farm FarmSource, repo ReportRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		readings: readings,
		farm:     farm,
		repo:     repo,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// GenerateDailyReport snapshots every sensor into a report dated now in loc.
func (s *Service) GenerateDailyReport(ctx context.Context, loc *time.Location) (models.DailyReport, error) {
	if loc == nil {
		loc = time.UTC
	}
	now := s.now().In(loc)

	farmName := models.DefaultFarmName
	if s.farm != nil {
		cfg, ok, err := s.farm.Current(ctx)
		if err != nil {
			return models.DailyReport{}, fmt.Errorf("load farm config: %w", err)
		}
		if ok {
			farmName = cfg.Name
		}
	}

	report := models.DailyReport{
		ID:        s.newID(),
		FarmName:  farmName,
		Date:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc),
		Readings:  s.readings.ReadAll(),
		CreatedAt: now.UTC(),
	}

	s.logger.Debug("daily report generated", zap.String("id", report.ID), zap.Int("readings", len(report.Readings)))
	return report, nil
}

// SaveDailyReport archives report. It is a no-op without a repository.
func (s *Service) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveDailyReport(ctx, report); err != nil {
		return fmt.Errorf("save daily report: %w", err)
	}
	return nil
}

// Summary renders the headline readings of report as plain text.
func Summary(report models.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s daily report (%s)", report.FarmName, report.Date.Format(dateLayout))

	for _, key := range summaryKeys {
		reading, ok := report.Reading(key)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n%s: %s", reading.Name, formatState(reading))
	}
	return b.String()
}

func formatState(r models.SensorReading) string {
	if !r.Available {
		return "n/a"
	}
	switch v := r.State.(type) {
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if r.Unit != "" {
			s += " " + r.Unit
		}
		return s
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
