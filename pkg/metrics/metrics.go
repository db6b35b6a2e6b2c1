package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	PagesHarvested    *prometheus.CounterVec
	RecordsHarvested  *prometheus.CounterVec
	OverlayDismissals *prometheus.CounterVec
	BatchesTotal      *prometheus.CounterVec
	BatchDuration     *prometheus.HistogramVec

	ConsolidationSources *prometheus.CounterVec
	ConsolidatedItems    prometheus.Gauge
	OutputLinesWritten   prometheus.Counter

	initOnce sync.Once
)

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	PagesHarvested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pages_harvested_total",
			Help: "Total number of listing pages harvested.",
		},
		[]string{"profile"},
	)

	RecordsHarvested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_harvested_total",
			Help: "Total number of records harvested.",
		},
		[]string{"profile"},
	)

	OverlayDismissals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlay_dismissals_total",
			Help: "Overlay dismissal attempts.",
		},
		[]string{"result"}, // dismissed, absent, failed
	)

	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batches_total",
			Help: "Total number of crawl batches.",
		},
		[]string{"status"}, // stop reason
	)

	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "batch_duration_seconds",
			Help:    "Duration of crawl batches.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"profile"},
	)

	ConsolidationSources = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consolidation_sources_total",
			Help: "Batch files read during consolidation.",
		},
		[]string{"status"},
	)

	ConsolidatedItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "consolidated_items",
			Help: "Distinct items in the last consolidated set.",
		},
	)

	OutputLinesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "output_lines_written_total",
			Help: "Lines appended to consolidation output files.",
		},
	)
}
