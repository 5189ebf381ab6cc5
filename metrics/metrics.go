// SPDX-License-Identifier: MIT

// Package metrics exposes run observability for the vulnerability pipeline as
// Prometheus collectors on a private registry. The CLI writes the registry to
// a node-exporter textfile after each run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/drainvuln/analysis"
)

const namespace = "drainvuln"

// Registry owns the collectors and their prometheus.Registry.
type Registry struct {
	registry *prometheus.Registry

	RunsTotal          *prometheus.CounterVec // status: ok, failed
	FailuresTotal      *prometheus.CounterVec // stage
	WarningsTotal      *prometheus.CounterVec // kind
	PowerOutcomesTotal *prometheus.CounterVec // outcome
	RunDuration        prometheus.Histogram

	Nodes                 prometheus.Gauge
	Edges                 prometheus.Gauge
	AlgebraicConnectivity prometheus.Gauge
	SpectralRadius        prometheus.Gauge
	Components            prometheus.Gauge
	PowerIterations       prometheus.Gauge
	CategoryNodes         *prometheus.GaugeVec // category
	LastRunTimestamp      prometheus.Gauge
}

var _ analysis.Recorder = (*Registry)(nil)

// NewRegistry creates a Registry with every collector registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.RunsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Total number of analysis runs",
	}, []string{"status"})
	r.FailuresTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failures_total",
		Help:      "Failed runs by pipeline stage",
	}, []string{"stage"})
	r.WarningsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "warnings_total",
		Help:      "Handled degenerate-input and numeric-collapse conditions",
	}, []string{"kind"})
	r.PowerOutcomesTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "power_iteration_outcomes_total",
		Help:      "Power iteration terminal states",
	}, []string{"outcome"})
	r.RunDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a full analysis run",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	})

	r.Nodes = f.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "nodes", Help: "Nodes in the last analyzed network"})
	r.Edges = f.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "edges", Help: "Edges in the last analyzed network"})
	r.AlgebraicConnectivity = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "algebraic_connectivity",
		Help:      "Second-smallest Laplacian eigenvalue of the last run",
	})
	r.SpectralRadius = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "spectral_radius",
		Help:      "Largest absolute adjacency eigenvalue of the last run",
	})
	r.Components = f.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "components", Help: "Connected components"})
	r.PowerIterations = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "power_iterations",
		Help:      "Matrix-vector products in the last power iteration",
	})
	r.CategoryNodes = f.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "category_nodes",
		Help:      "Nodes per vulnerability category in the last run",
	}, []string{"category"})
	r.LastRunTimestamp = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last successful run",
	})

	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// ObserveRun implements analysis.Recorder.
func (r *Registry) ObserveRun(res *analysis.Result, elapsed time.Duration) {
	r.RunsTotal.WithLabelValues("ok").Inc()
	r.RunDuration.Observe(elapsed.Seconds())

	s := res.Summary
	r.Nodes.Set(float64(s.Nodes))
	r.Edges.Set(float64(s.Edges))
	r.AlgebraicConnectivity.Set(s.AlgebraicConnectivity)
	r.SpectralRadius.Set(s.SpectralRadius)
	r.Components.Set(float64(s.Components))
	r.PowerIterations.Set(float64(s.PowerIterations))
	r.PowerOutcomesTotal.WithLabelValues(res.Centrality.Outcome.String()).Inc()
	for cat, n := range s.Counts {
		r.CategoryNodes.WithLabelValues(string(cat)).Set(float64(n))
	}
	for _, w := range res.Warnings {
		r.WarningsTotal.WithLabelValues(string(w.Kind)).Inc()
	}
	r.LastRunTimestamp.SetToCurrentTime()
}

// ObserveFailure implements analysis.Recorder.
func (r *Registry) ObserveFailure(stage analysis.Stage) {
	r.RunsTotal.WithLabelValues("failed").Inc()
	r.FailuresTotal.WithLabelValues(string(stage)).Inc()
}

// WriteTextfile atomically writes the registry in text exposition format.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}

	return nil
}
