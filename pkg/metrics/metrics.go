// Package metrics exposes prometheus instrumentation for refinement runs.
// For long runs the registry can be served over HTTP; short runs just use
// it as an in-process counter set.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for a refinement run.
type Registry struct {
	RoundsTotal       prometheus.Counter
	ClustersEvaluated *prometheus.CounterVec
	SplitsTotal       *prometheus.CounterVec
	NodesPruned       prometheus.Counter
	ClustersCurrent   prometheus.Gauge
	ClusterSize       prometheus.Histogram
	EvalDuration      prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry creates a fresh metrics registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.RoundsTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "cmgraph_refine_rounds_total",
			Help: "Total number of completed refinement rounds",
		},
	)

	r.ClustersEvaluated = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmgraph_clusters_evaluated_total",
			Help: "Total cluster connectivity evaluations by verdict",
		},
		[]string{"verdict"},
	)

	r.SplitsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmgraph_cluster_splits_total",
			Help: "Total cluster splits applied by strategy",
		},
		[]string{"strategy"},
	)

	r.NodesPruned = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "cmgraph_nodes_pruned_total",
			Help: "Total nodes peeled into singletons by pruning",
		},
	)

	r.ClustersCurrent = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "cmgraph_clusters_current",
			Help: "Number of live clusters in the working partition",
		},
	)

	r.ClusterSize = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cmgraph_cluster_size",
			Help:    "Sizes of clusters at evaluation time",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		},
	)

	r.EvalDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cmgraph_evaluation_duration_seconds",
			Help:    "Connectivity evaluation duration per cluster",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
	)

	return r
}

// Handler returns an HTTP handler serving the registry in the prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
