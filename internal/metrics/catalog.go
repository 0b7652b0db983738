package metrics

import "github.com/prometheus/client_golang/prometheus"

// Catalog ingestion and search Prometheus metrics.
var (
	IngestDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "ingest_documents_total",
			Help:      "Total number of documents processed by ingestion",
		},
		[]string{"status"}, // "ok" / "failed"
	)

	IngestBatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "ingest_batches_total",
			Help:      "Total number of batch ingestions",
		},
	)

	IngestFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "ingest_fallback_total",
			Help:      "Total number of bulk failures that triggered per-document fallback",
		},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"mode", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prodex",
			Name:      "search_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)
)

var catalogMetricsRegistered bool

// RegisterCatalogMetrics registers ingestion and search metrics. Must be called once from main.
func RegisterCatalogMetrics() {
	if catalogMetricsRegistered {
		return
	}
	prometheus.MustRegister(IngestDocumentsTotal)
	prometheus.MustRegister(IngestBatchesTotal)
	prometheus.MustRegister(IngestFallbackTotal)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	catalogMetricsRegistered = true
}
