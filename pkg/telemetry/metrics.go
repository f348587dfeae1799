package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the Prometheus metrics collector.
type MetricsConfig struct {
	// Enabled turns metrics collection on. When false, NewMetrics
	// returns a no-op instance.
	Enabled bool

	// Namespace prefixes every metric name. Defaults to "vapor".
	Namespace string
}

// Metrics collects operational metrics for stack reconciliation. The
// zero value and a nil *Metrics are both safe no-ops, so callers that
// do not care about metrics pass nothing.
type Metrics struct {
	deploysTotal   *prometheus.CounterVec
	deployDuration *prometheus.HistogramVec
	changesetPolls *prometheus.CounterVec
	stackPolls     *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector with its own registry.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "vapor"
	}

	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		deploysTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deploys_total",
			Help:      "Deploy attempts by stack, mode and outcome.",
		}, []string{"stack", "mode", "outcome"}),
		deployDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "deploy_duration_seconds",
			Help:      "Wall-clock duration of deploy attempts.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"stack"}),
		changesetPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "changeset_polls_total",
			Help:      "Changeset describe calls made while waiting.",
		}, []string{"stack"}),
		stackPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stack_polls_total",
			Help:      "Stack describe calls made while waiting.",
		}, []string{"stack"}),
	}
	registry.MustRegister(m.deploysTotal, m.deployDuration, m.changesetPolls, m.stackPolls)
	return m
}

// ObserveDeploy records one finished deploy attempt.
func (m *Metrics) ObserveDeploy(stack string, dryrun bool, duration time.Duration, err error) {
	if m == nil {
		return
	}
	mode := "apply"
	if dryrun {
		mode = "dryrun"
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.deploysTotal.WithLabelValues(stack, mode, outcome).Inc()
	m.deployDuration.WithLabelValues(stack).Observe(duration.Seconds())
}

// IncChangesetPoll counts one changeset describe call.
func (m *Metrics) IncChangesetPoll(stack string) {
	if m == nil {
		return
	}
	m.changesetPolls.WithLabelValues(stack).Inc()
}

// IncStackPoll counts one stack describe call.
func (m *Metrics) IncStackPoll(stack string) {
	if m == nil {
		return
	}
	m.stackPolls.WithLabelValues(stack).Inc()
}

// Handler exposes the metrics in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
