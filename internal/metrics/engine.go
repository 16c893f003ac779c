// Package metrics computes the farm's derived sensors from snapshots of the
// input fields.
//
// A metric is a descriptor holding a pure function of an explicit Snapshot.
// Nothing is cached: every read evaluates against the snapshot it is given, so
// a Reader over a live store always reflects the inputs at the moment of the
// read. Two reads taken between the writes of one command can disagree; there
// is no cross-field transaction.
package metrics

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
)

// StateUnavailable is the state reported by a metric whose inputs are missing.
const StateUnavailable = "unavailable"

var (
	// ErrUnknownMetric is returned for a key no metric is registered under.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrDuplicateMetric is returned when two descriptors share a key.
	ErrDuplicateMetric = errors.New("duplicate metric key")
)

// Compute evaluates a metric. It returns a float64 or a string.
type Compute func(Snapshot) (any, error)

// Metric describes one derived sensor.
type Metric struct {
	Key     string
	Name    string
	Icon    string
	Unit    string
	Compute Compute
}

// Numeric adapts a float formula into a Compute.
func Numeric(fn func(Snapshot) (float64, error)) Compute {
	return func(s Snapshot) (any, error) {
		v, err := fn(s)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Textual adapts a string formula into a Compute.
func Textual(fn func(Snapshot) (string, error)) Compute {
	return func(s Snapshot) (any, error) {
		v, err := fn(s)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Engine evaluates a fixed set of metrics.
type Engine struct {
	metrics []Metric
	index   map[string]int
	logger  *zap.Logger
}

// NewEngine builds an engine over metrics.
func NewEngine(logger *zap.Logger, metrics ...Metric) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{index: make(map[string]int, len(metrics)), logger: logger}
	for _, m := range metrics {
		if m.Key == "" || m.Compute == nil {
			return nil, fmt.Errorf("metric %q: key and compute are required", m.Key)
		}
		if _, ok := e.index[m.Key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMetric, m.Key)
		}
		e.index[m.Key] = len(e.metrics)
		e.metrics = append(e.metrics, m)
	}
	return e, nil
}

// Metrics returns the registered descriptors in order.
func (e *Engine) Metrics() []Metric {
	out := make([]Metric, len(e.metrics))
	copy(out, e.metrics)
	return out
}

// Evaluate computes the metric registered under key.
func (e *Engine) Evaluate(s Snapshot, key string) (models.SensorReading, error) {
	i, ok := e.index[key]
	if !ok {
		return models.SensorReading{}, fmt.Errorf("%w: %s", ErrUnknownMetric, key)
	}
	return e.evaluate(s, e.metrics[i]), nil
}

// EvaluateAll computes every metric. A failing metric never affects its siblings.
func (e *Engine) EvaluateAll(s Snapshot) []models.SensorReading {
	out := make([]models.SensorReading, 0, len(e.metrics))
	for _, m := range e.metrics {
		out = append(out, e.evaluate(s, m))
	}
	return out
}

func (e *Engine) evaluate(s Snapshot, m Metric) (reading models.SensorReading) {
	reading = models.SensorReading{Key: m.Key, Name: m.Name, Icon: m.Icon, Unit: m.Unit}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("metric evaluation panicked", zap.String("metric", m.Key), zap.Any("panic", r))
			reading.State = StateUnavailable
			reading.Available = false
		}
	}()

	value, err := m.Compute(s)
	if err != nil {
		e.logger.Debug("metric unavailable", zap.String("metric", m.Key), zap.Error(err))
		reading.State = StateUnavailable
		return reading
	}

	reading.State = value
	reading.Available = true
	return reading
}
