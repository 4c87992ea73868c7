// SPDX-License-Identifier: EPL-2.0

package bridge

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the bridge's Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	Requests *prometheus.CounterVec
	Failures *prometheus.CounterVec
	InFlight prometheus.Gauge
	Latency  *prometheus.HistogramVec
	Dropped  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audamr_codec_requests_total",
			Help: "Total number of codec requests by operation",
		}, []string{"op"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audamr_codec_failures_total",
			Help: "Total number of failed codec requests by operation",
		}, []string{"op"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "audamr_codec_requests_in_flight",
			Help: "Current number of codec requests awaiting a response",
		}),
		Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "audamr_codec_duration_seconds",
			Help:    "Time from request to response",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		}, []string{"op"}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "audamr_codec_unmatched_responses_total",
			Help: "Responses whose sequence number matched no pending request",
		}),
	}
}

func (m *Metrics) submitted(op Op) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(op.String()).Inc()
	m.InFlight.Inc()
}

func (m *Metrics) completed(op Op, start time.Time, failed bool) {
	if m == nil {
		return
	}
	m.InFlight.Dec()
	m.Latency.WithLabelValues(op.String()).Observe(time.Since(start).Seconds())
	if failed {
		m.Failures.WithLabelValues(op.String()).Inc()
	}
}

func (m *Metrics) abandoned() {
	if m == nil {
		return
	}
	m.InFlight.Dec()
}

func (m *Metrics) dropped() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}
