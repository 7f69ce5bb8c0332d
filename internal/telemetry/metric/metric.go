package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mintvault"

// Registry holds all application metrics.
type Registry struct {
	// Ledger mutation counters.
	MintsTotal     prometheus.Counter
	TransfersTotal prometheus.Counter
	ApprovalsTotal prometheus.Counter
	BurnsTotal     prometheus.Counter

	// OperationErrors counts failed ledger operations by error code.
	OperationErrors *prometheus.CounterVec

	// Collection state gauges.
	TotalSupply prometheus.Gauge
	Paused      prometheus.Gauge

	// HTTP metrics.
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Storage metrics.
	EventsArchived  prometheus.Counter
	StorageLSMSize  prometheus.Gauge
	StorageVLogSize prometheus.Gauge
	SnapshotSize    prometheus.Gauge

	reg *prometheus.Registry
}

// NewRegistry creates a registry with all metrics registered, plus the
// standard Go and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	r := &Registry{reg: reg}

	r.MintsTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "ledger_mints_total",
		Help: "Total tokens minted.",
	})
	r.TransfersTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "ledger_transfers_total",
		Help: "Total token transfers.",
	})
	r.ApprovalsTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "ledger_approvals_total",
		Help: "Total approval and operator approval changes.",
	})
	r.BurnsTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "ledger_burns_total",
		Help: "Total tokens burned.",
	})

	r.OperationErrors = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "ledger_operation_errors_total",
		Help: "Failed ledger operations by error code.",
	}, []string{"code"})

	r.TotalSupply = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "collection_total_supply",
		Help: "Number of currently existing tokens.",
	})
	r.Paused = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "collection_paused",
		Help: "1 while the ledger is paused, 0 otherwise.",
	})

	r.RequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	r.RequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	r.EventsArchived = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "events_archived_total",
		Help: "Events written to the SQLite archive.",
	})
	r.StorageLSMSize = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "storage_lsm_bytes",
		Help: "Badger LSM tree size in bytes.",
	})
	r.StorageVLogSize = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "storage_vlog_bytes",
		Help: "Badger value log size in bytes.",
	})
	r.SnapshotSize = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "snapshot_bytes",
		Help: "Size of the most recent sealed snapshot.",
	})

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return r
}

// Handler returns the HTTP handler serving this registry in Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
