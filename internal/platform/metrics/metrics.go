package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SnapshotLoads     prometheus.Counter
	SnapshotCacheHits prometheus.Counter
	MembersCreated    prometheus.Counter
	MembersUpdated    prometheus.Counter
	BackendRetries    prometheus.Counter
	BackendLatency    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SnapshotLoads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "adatualiza_snapshot_loads_total",
			Help: "Snapshot loads that hit the Sheets backend",
		}),
		SnapshotCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "adatualiza_snapshot_cache_hits_total",
			Help: "Snapshot loads served from cache",
		}),
		MembersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "adatualiza_members_created_total",
			Help: "Member rows appended to the sheet",
		}),
		MembersUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "adatualiza_members_updated_total",
			Help: "Member rows updated in place",
		}),
		BackendRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "adatualiza_backend_retries_total",
			Help: "Retried Sheets API calls",
		}),
		BackendLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adatualiza_backend_call_duration_seconds",
			Help:    "Latency of Sheets API calls by operation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"op"}),
	}
}
