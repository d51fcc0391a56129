// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Report pipeline metrics
	ReportRunsTotal *prometheus.CounterVec
	ReportDuration  prometheus.Histogram
	ReportEntries   prometheus.Gauge
	ReportChartDays prometheus.Gauge

	// Price provider metrics
	ProviderCallsTotal  *prometheus.CounterVec
	ProviderCallLatency prometheus.Histogram
	PricePointsFetched  prometheus.Counter

	// Health metrics
	LastSuccessfulReport prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "bridge_tvl"
	}

	return &Metrics{
		// Report pipeline metrics
		ReportRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "runs_total",
			Help:      "Total number of report generation runs by status",
		}, []string{"status"}),
		ReportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "duration_seconds",
			Help:      "Report generation duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		ReportEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "entries",
			Help:      "Number of daily entries in the last generated report",
		}),
		ReportChartDays: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "chart_days",
			Help:      "Number of days covered by the aggregate chart",
		}),

		// Price provider metrics
		ProviderCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Total number of price provider calls by status",
		}, []string{"endpoint", "status"}),
		ProviderCallLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "call_latency_seconds",
			Help:      "Price provider call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		PricePointsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "price_points_fetched_total",
			Help:      "Total number of raw price points fetched from the provider",
		}),

		// Health metrics
		LastSuccessfulReport: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_report_timestamp",
			Help:      "Unix timestamp of last successful report run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordReportRun records a report generation run.
func RecordReportRun(status string, durationSeconds float64) {
	DefaultMetrics.ReportRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.ReportDuration.Observe(durationSeconds)
}

// RecordReportSuccess updates the health gauge and report size gauges.
func RecordReportSuccess(unixSeconds int64, entries, chartDays int) {
	DefaultMetrics.LastSuccessfulReport.Set(float64(unixSeconds))
	DefaultMetrics.ReportEntries.Set(float64(entries))
	DefaultMetrics.ReportChartDays.Set(float64(chartDays))
}

// RecordProviderCall records a price provider call.
func RecordProviderCall(endpoint, status string, seconds float64) {
	DefaultMetrics.ProviderCallsTotal.WithLabelValues(endpoint, status).Inc()
	DefaultMetrics.ProviderCallLatency.Observe(seconds)
}

// RecordPricePoints increments the fetched price point counter.
func RecordPricePoints(n int) {
	DefaultMetrics.PricePointsFetched.Add(float64(n))
}
