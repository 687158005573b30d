package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HistogramBuckets covers fast local handlers through slow processor round trips, in ms.
var HistogramBuckets = []float64{
	10, 25, 50, 100, 200, 300, 500, 750,
	1000, 1500, 2000, 3000, 5000, 7500, 10000, 15000, 30000,
}

type MetricType string

const (
	MetricTypeCounterVec   MetricType = "counter_vec"
	MetricTypeHistogramVec MetricType = "histogram_vec"
	MetricTypeSummaryVec   MetricType = "summary_vec"
)

// Metric describes one labelled collector. MetricCollector is filled in once registered.
type Metric struct {
	MetricCollector prometheus.Collector
	Name            string
	Description     string
	Type            MetricType
	Args            []string
}

// NewMetric builds the collector for m.Type. It panics on an unknown type since
// definitions are package-level constants.
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	switch m.Type {
	case MetricTypeCounterVec:
		return prometheus.NewCounterVec(prometheus.CounterOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args)
	case MetricTypeHistogramVec:
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description, Buckets: HistogramBuckets}, m.Args)
	case MetricTypeSummaryVec:
		return prometheus.NewSummaryVec(prometheus.SummaryOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args)
	default:
		panic("metrics: unknown metric type " + string(m.Type))
	}
}

// RefererKey feeds the "ref" label of request metrics.
const RefererKey = "X-Referer"
