// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics exposes Prometheus instrumentation for the verifier:
// how many verify calls have run, how long they took, and how large the
// firewall under test currently is.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers verifier metrics and updates the Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	verifyTotal    *prometheus.CounterVec
	verifyDuration prometheus.Histogram
	firewallSize   prometheus.Gauge
	addTotal       *prometheus.CounterVec
}

// NewCollector creates a Collector bound to a fresh Prometheus registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		verifyTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portcullis_verify_total",
			Help: "Total number of verify calls, labeled by result.",
		}, []string{"result"}),
		verifyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "portcullis_verify_duration_seconds",
			Help:    "Time taken to evaluate a verify call.",
			Buckets: prometheus.DefBuckets,
		}),
		firewallSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "portcullis_firewall_size",
			Help: "Number of rules currently held by the firewall under test.",
		}),
		addTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portcullis_add_total",
			Help: "Total number of add calls, labeled by outcome.",
		}, []string{"outcome"}),
	}
}

// Handler returns the http.Handler serving this collector's registry in
// the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveVerify records one verify call's outcome and latency.
func (c *Collector) ObserveVerify(ok bool, d time.Duration) {
	result := "mismatch"
	if ok {
		result = "match"
	}
	c.verifyTotal.WithLabelValues(result).Inc()
	c.verifyDuration.Observe(d.Seconds())
}

// ObserveAdd records one add call's outcome (accepted or rejected).
func (c *Collector) ObserveAdd(err error) {
	outcome := "accepted"
	if err != nil {
		outcome = "rejected"
	}
	c.addTotal.WithLabelValues(outcome).Inc()
}

// SetFirewallSize updates the firewall-size gauge.
func (c *Collector) SetFirewallSize(n int) {
	c.firewallSize.Set(float64(n))
}
