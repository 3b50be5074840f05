// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Autosave results
const (
	ResultSaved        = "saved"
	ResultFailed       = "failed"
	ResultUnauthorized = "unauthorized"
)

// Share resolution outcomes
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	autosaves        *prometheus.CounterVec
	autosaveDuration prometheus.Histogram
	shareResolutions *prometheus.CounterVec
	editSessions     prometheus.Gauge
}

// New creates collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		autosaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "propose",
			Name:      "autosave_total",
			Help:      "Autosave writes by result.",
		}, []string{"result"}),
		autosaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "propose",
			Name:      "autosave_duration_seconds",
			Help:      "Time spent writing an answer document.",
			Buckets:   prometheus.DefBuckets,
		}),
		shareResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "propose",
			Name:      "share_resolutions_total",
			Help:      "Share token resolutions by outcome.",
		}, []string{"outcome"}),
		editSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "propose",
			Name:      "edit_sessions",
			Help:      "Open edit sessions.",
		}),
	}

	m.registry.MustRegister(
		m.autosaves,
		m.autosaveDuration,
		m.shareResolutions,
		m.editSessions,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveAutosave(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.autosaves.WithLabelValues(result).Inc()
	m.autosaveDuration.Observe(took.Seconds())
}

func (m *Metrics) ObserveShareResolution(outcome string) {
	if m == nil {
		return
	}
	m.shareResolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetEditSessions(n int) {
	if m == nil {
		return
	}
	m.editSessions.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
