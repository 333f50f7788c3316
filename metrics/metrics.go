// Package metrics exposes Prometheus counters and gauges for a coyote run:
// iteration outcomes, scheduling steps, and coverage growth.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NicoJuicy/coyote/coverage"
	"github.com/NicoJuicy/coyote/driver"
)

// Metrics owns a dedicated registry rather than the global default one, so
// multiple Drivers (and tests) in one process never collide on metric
// registration.
type Metrics struct {
	registry *prometheus.Registry

	iterationsTotal      *prometheus.CounterVec
	schedulingStepsTotal prometheus.Counter
	coverageEdges        prometheus.Gauge
	callSitesSeen        prometheus.Gauge
}

// New returns a Metrics with every collector registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		iterationsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "coyote_iterations_total",
			Help: "Total iterations run, by outcome",
		}, []string{"outcome"}),
		schedulingStepsTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "coyote_scheduling_steps_total",
			Help: "Total scheduling-point events processed across all iterations",
		}),
		coverageEdges: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "coyote_coverage_edges",
			Help: "Distinct call-site transitions recorded in the coverage map",
		}),
		callSitesSeen: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "coyote_call_sites_seen",
			Help: "Distinct call sites observed across the run",
		}),
	}
	return m
}

// ObserveIteration records one completed iteration's outcome and step count.
func (m *Metrics) ObserveIteration(result driver.IterationResult) {
	m.iterationsTotal.WithLabelValues(result.Outcome.String()).Inc()
	m.schedulingStepsTotal.Add(float64(result.Steps))
}

// ObserveCoverage updates the coverage gauges from a snapshot taken between
// iterations.
func (m *Metrics) ObserveCoverage(snap coverage.Snapshot) {
	m.coverageEdges.Set(float64(snap.EdgeCount()))
	m.callSitesSeen.Set(float64(len(snap.DistinctCallSites())))
}

// Handler returns an http.Handler serving this Metrics' registry in the
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
