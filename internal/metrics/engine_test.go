package metrics

import (
	"errors"
	"testing"

	"github.com/mamadbah2/chickenfarm/internal/registry"
	"github.com/mamadbah2/chickenfarm/internal/store"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(nil, DefaultMetrics()...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngineRejectsDuplicates(t *testing.T) {
	m := Metric{Key: "x", Compute: Numeric(TotalCosts)}
	if _, err := NewEngine(nil, m, m); !errors.Is(err, ErrDuplicateMetric) {
		t.Errorf("NewEngine() error = %v, want ErrDuplicateMetric", err)
	}
}

func TestEvaluateUnknown(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Evaluate(zeroSnapshot(), "eggs_per_goose"); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("Evaluate() error = %v, want ErrUnknownMetric", err)
	}
}

func TestEvaluateFailsSoft(t *testing.T) {
	e := newTestEngine(t)
	s := with(zeroSnapshot(), registry.PelletsCost, "n/a")

	readings := e.EvaluateAll(s)
	if len(readings) != len(DefaultMetrics()) {
		t.Fatalf("EvaluateAll() = %d readings, want %d", len(readings), len(DefaultMetrics()))
	}

	byKey := map[string]bool{}
	for _, r := range readings {
		byKey[r.Key] = r.Available
		if !r.Available && r.State != StateUnavailable {
			t.Errorf("%s state = %v, want %q", r.Key, r.State, StateUnavailable)
		}
	}

	for _, key := range []string{TotalCostsKey, TotalProfitKey} {
		if byKey[key] {
			t.Errorf("%s available, want unavailable", key)
		}
	}
	for _, key := range []string{SubtotalEggsKey, TotalChickensKey, HatcheryStatusKey, ProfitPerEggKey} {
		if !byKey[key] {
			t.Errorf("%s unavailable, want available", key)
		}
	}
	// No date has been recorded yet.
	if byKey[LastPelletsPurchaseKey] {
		t.Errorf("%s available before any purchase", LastPelletsPurchaseKey)
	}
}

func TestEvaluateRecoversPanics(t *testing.T) {
	boom := Metric{Key: "boom", Compute: func(Snapshot) (any, error) { panic("bad formula") }}
	ok := Metric{Key: "ok", Compute: Numeric(TotalCosts)}
	e, err := NewEngine(nil, boom, ok)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	readings := e.EvaluateAll(zeroSnapshot())
	if readings[0].Available || readings[0].State != StateUnavailable {
		t.Errorf("panicking metric = %+v, want unavailable", readings[0])
	}
	if !readings[1].Available || readings[1].State != 0.0 {
		t.Errorf("sibling metric = %+v, want 0", readings[1])
	}
}

func TestSupplementedSensors(t *testing.T) {
	e := newTestEngine(t)
	s := with(zeroSnapshot(),
		registry.PelletsKg, "2.5",
		registry.EggsSoldValue, "12.5",
		registry.BeddingPurchaseDate, "2024-03-01",
	)

	tests := []struct {
		key  string
		want any
	}{
		{key: PelletsWeightGramsKey, want: 2500.0},
		{key: ProfitSubtotalKey, want: 12.5},
		{key: LastBeddingPurchaseKey, want: "2024-03-01"},
	}
	for _, tt := range tests {
		r, err := e.Evaluate(s, tt.key)
		if err != nil {
			t.Fatalf("Evaluate(%s) error = %v", tt.key, err)
		}
		if !r.Available || r.State != tt.want {
			t.Errorf("Evaluate(%s) = %+v, want %v", tt.key, r, tt.want)
		}
	}
}

func TestReaderTakesFreshSnapshot(t *testing.T) {
	st := store.NewMemory()
	reg := registry.New(st, nil)
	if err := reg.Register(registry.DefaultFields()...); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	reader := NewReader(newTestEngine(t), st)

	first, _ := reader.Read(TotalCostsKey)
	if first.State != 0.0 {
		t.Fatalf("first read = %v, want 0", first.State)
	}

	if _, err := reg.Set(registry.BeddingCost, 7); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	second, _ := reader.Read(TotalCostsKey)
	if second.State != 7.0 {
		t.Errorf("second read = %v, want 7", second.State)
	}
}
