package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dashboard metrics
	DashboardRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opsconsole_dashboard_requests_total",
		Help: "Dashboard view requests by section",
	}, []string{"section"})

	SnapshotFetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "opsconsole_snapshot_fetch_latency_seconds",
		Help:    "Latency of analytics snapshot loads",
		Buckets: prometheus.DefBuckets,
	})

	SnapshotCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opsconsole_snapshot_cache_total",
		Help: "Snapshot cache lookups by outcome",
	}, []string{"outcome"})

	CSVExportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "opsconsole_csv_exports_total",
		Help: "Table exports served",
	})

	// Infrastructure metrics
	RoamingHandshakesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opsconsole_roaming_handshakes_total",
		Help: "Credentials handshakes with roaming parties",
	}, []string{"operation", "status"})

	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "opsconsole_database_latency_seconds",
		Help:    "Latency of database queries",
		Buckets: prometheus.DefBuckets,
	})
)
