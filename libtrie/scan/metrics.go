package scan

import (
	"strings"
	"time"

	"github.com/plan-systems/klog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const (
	networkOriginal = "original"
	networkRandom   = "random"
)

// Metrics collects the counters of a single scan in a private registry.
type Metrics struct {
	reg *prometheus.Registry

	censusTotal    *prometheus.CounterVec
	censusDuration *prometheus.HistogramVec
	occurrences    *prometheus.CounterVec
	rewireSwaps    prometheus.Counter
}

// NewMetrics returns a Metrics with every collector registered.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		censusTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gotrie_census_total",
			Help: "Census passes completed by network",
		}, []string{"network"}),
		censusDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gotrie_census_duration_seconds",
			Help:    "Census pass duration",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"network"}),
		occurrences: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gotrie_occurrences_total",
			Help: "Subgraph occurrences found by network",
		}, []string{"network"}),
		rewireSwaps: factory.NewCounter(prometheus.CounterOpts{
			Name: "gotrie_rewire_swaps_total",
			Help: "Edge swaps performed while generating random networks",
		}),
	}
}

func (m *Metrics) observeCensus(network string, elapsed time.Duration, occurrences int64) {
	m.censusTotal.WithLabelValues(network).Inc()
	m.censusDuration.WithLabelValues(network).Observe(elapsed.Seconds())
	m.occurrences.WithLabelValues(network).Add(float64(occurrences))
}

func (m *Metrics) observeSwaps(swaps int) {
	m.rewireSwaps.Add(float64(swaps))
}

// Registry exposes the registry so a caller can serve or push it.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Gather returns a snapshot of every metric.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	return m.reg.Gather()
}

// Log writes one klog line per metric series.
func (m *Metrics) Log() {
	families, err := m.Gather()
	if err != nil {
		klog.Warningf("gathering metrics: %v", err)
		return
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			name := mf.GetName() + labelsOf(metric)
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				klog.Infof("%-48s %.0f", name, metric.GetCounter().GetValue())
			case dto.MetricType_HISTOGRAM:
				hist := metric.GetHistogram()
				klog.Infof("%-48s count=%d sum=%.6fs", name, hist.GetSampleCount(), hist.GetSampleSum())
			}
		}
	}
}

func labelsOf(metric *dto.Metric) string {
	pairs := metric.GetLabel()
	if len(pairs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, lp := range pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(lp.GetName())
		b.WriteByte('=')
		b.WriteString(lp.GetValue())
	}
	b.WriteByte('}')
	return b.String()
}
