package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the tag automation core.
type Metrics struct {
	// Fetch metrics
	FetchAttempts *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	TagsExtracted prometheus.Histogram

	// Scanner metrics
	ScanDuration prometheus.Histogram

	// Automation metrics
	AutomationRuns *prometheus.CounterVec

	startTime time.Time
}

// NewMetrics creates a new metrics collector registered on reg. A nil
// registerer falls back to the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		startTime: time.Now(),

		FetchAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forum_fetch_attempts_total",
				Help: "Fetch attempts against the forum by attempt number and outcome",
			},
			[]string{"attempt", "outcome"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forum_fetch_duration_seconds",
				Help:    "Duration of a single fetch attempt in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"attempt"},
		),
		TagsExtracted: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "forum_tags_extracted",
				Help:    "Number of tags extracted per successful fetch",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
			},
		),
		ScanDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "forum_scan_duration_seconds",
				Help:    "Duration of one document scan in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
		),
		AutomationRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automation_runs_total",
				Help: "Automation hook invocations by trigger and outcome",
			},
			[]string{"trigger", "outcome"},
		),
	}
}

// Uptime returns time elapsed since the collector was created.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
