package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	opportunities *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	lastScore     *prometheus.GaugeVec
	scanDuration  prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		opportunities: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "futscan_opportunities_total",
				Help: "Total ranked opportunities produced by scans",
			},
			[]string{"direction", "timeframe"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "futscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "futscan_last_score",
				Help: "Last aggregated score per symbol and timeframe",
			},
			[]string{"symbol", "timeframe"},
		),
		scanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "futscan_scan_duration_seconds",
				Help:    "Duration of a full market scan in seconds",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
		),
	}
}

// RecordOpportunity counts one ranked opportunity.
func (r *Recorder) RecordOpportunity(direction, timeframe string) {
	r.opportunities.WithLabelValues(direction, timeframe).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordScore records the latest aggregated score for a symbol.
func (r *Recorder) RecordScore(symbol, timeframe string, score float64) {
	r.lastScore.WithLabelValues(symbol, timeframe).Set(score)
}

// RecordScanDuration records one full scan's wall time.
func (r *Recorder) RecordScanDuration(seconds float64) {
	r.scanDuration.Observe(seconds)
}
