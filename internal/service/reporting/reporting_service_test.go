package reporting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
	"github.com/mamadbah2/chickenfarm/internal/metrics"
)

type staticReadings []models.SensorReading

func (s staticReadings) ReadAll() []models.SensorReading { return s }

type staticFarm struct {
	cfg models.FarmConfig
	ok  bool
	err error
}

func (f staticFarm) Current(context.Context) (models.FarmConfig, bool, error) {
	return f.cfg, f.ok, f.err
}

type fakeReports struct {
	saved []models.DailyReport
	err   error
}

func (f *fakeReports) SaveDailyReport(_ context.Context, r models.DailyReport) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, r)
	return nil
}

var readings = staticReadings{
	{Key: metrics.TotalEggsKey, Name: "Total Eggs", State: 10.0, Available: true},
	{Key: metrics.TotalCostsKey, Name: "Total Costs", Unit: "€", State: 12.5, Available: true},
	{Key: metrics.ProfitPerEggKey, Name: "Profit per Egg", Unit: "€", State: metrics.StateUnavailable},
	{Key: metrics.HatcheryStatusKey, Name: "Hatchery Status", State: "In hatchery: 5, Hatched: 3, Died: 1", Available: true},
}

func newTestService(farm FarmSource, repo ReportRepository) *Service {
	svc := NewService(readings, farm, repo, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "report-1" }
	return svc
}

func TestGenerateDailyReport(t *testing.T) {
	farm := staticFarm{cfg: models.FarmConfig{Name: "Hillside"}, ok: true}
	svc := newTestService(farm, nil)

	loc := time.FixedZone("UTC+8", 8*60*60)
	report, err := svc.GenerateDailyReport(context.Background(), loc)
	if err != nil {
		t.Fatalf("GenerateDailyReport() error = %v", err)
	}
	if report.FarmName != "Hillside" || report.ID != "report-1" {
		t.Errorf("report = %+v", report)
	}
	// 19:00 UTC is already the next day at UTC+8.
	if got := report.Date.Format(dateLayout); got != "2024-03-02" {
		t.Errorf("Date = %s, want 2024-03-02", got)
	}
	if len(report.Readings) != len(readings) {
		t.Errorf("Readings = %d, want %d", len(report.Readings), len(readings))
	}
}

func TestGenerateDailyReportDefaults(t *testing.T) {
	svc := newTestService(staticFarm{}, nil)

	report, err := svc.GenerateDailyReport(context.Background(), nil)
	if err != nil {
		t.Fatalf("GenerateDailyReport() error = %v", err)
	}
	if report.FarmName != models.DefaultFarmName {
		t.Errorf("FarmName = %q, want default", report.FarmName)
	}

	failing := newTestService(staticFarm{err: errors.New("timeout")}, nil)
	if _, err := failing.GenerateDailyReport(context.Background(), nil); err == nil {
		t.Error("GenerateDailyReport() error = nil, want farm error")
	}
}

func TestSaveDailyReport(t *testing.T) {
	repo := &fakeReports{}
	svc := newTestService(nil, repo)

	if err := svc.SaveDailyReport(context.Background(), models.DailyReport{ID: "r"}); err != nil {
		t.Fatalf("SaveDailyReport() error = %v", err)
	}
	if len(repo.saved) != 1 {
		t.Errorf("saved = %d, want 1", len(repo.saved))
	}

	repo.err = errors.New("down")
	if err := svc.SaveDailyReport(context.Background(), models.DailyReport{}); !errors.Is(err, repo.err) {
		t.Errorf("SaveDailyReport() error = %v, want wrapped repo error", err)
	}

	if err := newTestService(nil, nil).SaveDailyReport(context.Background(), models.DailyReport{}); err != nil {
		t.Errorf("SaveDailyReport() without repo error = %v", err)
	}
}

func TestSummary(t *testing.T) {
	report := models.DailyReport{
		FarmName: "Hillside",
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Readings: readings,
	}

	got := Summary(report)
	wantLines := []string{
		"Hillside daily report (2024-03-01)",
		"Total Eggs: 10",
		"Total Costs: 12.5 €",
		"Profit per Egg: n/a",
		"Hatchery Status: In hatchery: 5, Hatched: 3, Died: 1",
	}
	if got != strings.Join(wantLines, "\n") {
		t.Errorf("Summary() =\n%s\nwant\n%s", got, strings.Join(wantLines, "\n"))
	}
}
