package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommend HTTP handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "smartcatalog_recommend_latency_seconds",
		Help:    "Latency of recommendation handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of recommend requests served
	RecommendRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smartcatalog_recommend_requests_total",
		Help: "Total number of recommend requests",
	})

	CompareRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smartcatalog_compare_requests_total",
		Help: "Total number of comparison requests",
	})

	CatalogRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartcatalog_catalog_refresh_total",
			Help: "Catalog snapshot refreshes by result.",
		},
		[]string{"result"},
	)

	CatalogSnapshotSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smartcatalog_catalog_snapshot_candidates",
		Help: "Number of candidates in the published catalog snapshot",
	})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
		CompareRequests,
		CatalogRefreshTotal,
		CatalogSnapshotSize,
	)
}
