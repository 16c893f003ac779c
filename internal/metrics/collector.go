package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
)

const namespace = "chickenfarm"

// FieldLister exposes the current input fields.
type FieldLister interface {
	Fields() []models.FieldState
}

// Collector exports fields and derived sensors as Prometheus gauges. Every
// scrape evaluates from a fresh snapshot.
type Collector struct {
	reader *Reader
	fields FieldLister

	fieldValue      *prometheus.Desc
	sensorValue     *prometheus.Desc
	sensorAvailable *prometheus.Desc
}

// NewCollector builds a collector. fields may be nil.
func NewCollector(reader *Reader, fields FieldLister) *Collector {
	return &Collector{
		reader: reader,
		fields: fields,
		fieldValue: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "field", "value"),
			"Current value of a numeric input field.",
			[]string{"field", "unit"}, nil,
		),
		sensorValue: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "sensor", "value"),
			"Current value of a numeric derived sensor.",
			[]string{"sensor", "unit"}, nil,
		),
		sensorAvailable: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "sensor", "available"),
			"1 when the derived sensor could be computed.",
			[]string{"sensor"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.fieldValue
	ch <- c.sensorValue
	ch <- c.sensorAvailable
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.fields != nil {
		for _, f := range c.fields.Fields() {
			if f.Kind != models.FieldNumber {
				continue
			}
			ch <- prometheus.MustNewConstMetric(c.fieldValue, prometheus.GaugeValue, f.Value, f.Key, f.Unit)
		}
	}

	for _, reading := range c.reader.ReadAll() {
		available := 0.0
		if reading.Available {
			available = 1
		}
		ch <- prometheus.MustNewConstMetric(c.sensorAvailable, prometheus.GaugeValue, available, reading.Key)

		if v, ok := reading.State.(float64); ok && reading.Available {
			ch <- prometheus.MustNewConstMetric(c.sensorValue, prometheus.GaugeValue, v, reading.Key, reading.Unit)
		}
	}
}
