// Package metrics exposes Prometheus counters for outbound bot traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "axon"

// Dispatch outcomes.
const (
	OutcomeSent       = "sent"
	OutcomeSuppressed = "suppressed"
	OutcomeTooLarge   = "too_large"
	OutcomeFailed     = "failed"
	OutcomeDeleted    = "deleted"
	OutcomeCancelled  = "cancelled"
	OutcomeSkipped    = "skipped"
)

// Metrics groups the counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	Dispatches *prometheus.CounterVec
	Deletions  *prometheus.CounterVec
	Webhooks   *prometheus.CounterVec
}

// New registers the counters on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Dispatches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Outbound message operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		Deletions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduled_deletions_total",
			Help:      "Scheduled message deletions by outcome.",
		}, []string{"outcome"}),
		Webhooks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_total",
			Help:      "Webhook notifications by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
}

func (m *Metrics) Dispatch(op, outcome string) {
	if m == nil {
		return
	}
	m.Dispatches.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) Deletion(outcome string) {
	if m == nil {
		return
	}
	m.Deletions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Webhook(kind, outcome string) {
	if m == nil {
		return
	}
	m.Webhooks.WithLabelValues(kind, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
