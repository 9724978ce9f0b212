package cloudxr

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the bridge collectors. A nil *Metrics records nothing.
type Metrics struct {
	Calls      *prometheus.CounterVec
	Rejected   *prometheus.CounterVec
	Live       prometheus.Gauge
	FrameBytes prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Calls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudxr_bridge_calls_total",
				Help: "Total number of bridge operations invoked",
			},
			[]string{"op"},
		),
		Rejected: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudxr_bridge_rejected_total",
				Help: "Total number of bridge operations that failed closed",
			},
			[]string{"op", "reason"},
		),
		Live: f.NewGauge(prometheus.GaugeOpts{
			Name: "cloudxr_bridge_live_instances",
			Help: "Number of live engine instances",
		}),
		FrameBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cloudxr_bridge_frame_bytes",
			Help:    "Size of camera frames returned to the host",
			Buckets: prometheus.ExponentialBuckets(1<<10, 4, 10),
		}),
	}
}

func (m *Metrics) call(op string) {
	if m == nil {
		return
	}
	m.Calls.WithLabelValues(op).Inc()
}

func (m *Metrics) reject(op string, err error) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(op, reason(err)).Inc()
}

func (m *Metrics) live(delta float64) {
	if m == nil {
		return
	}
	m.Live.Add(delta)
}

func (m *Metrics) frame(n int) {
	if m == nil {
		return
	}
	m.FrameBytes.Observe(float64(n))
}
