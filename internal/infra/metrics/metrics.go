// Package metrics exports doctor results as Prometheus metrics. The
// textfile output is meant for node_exporter's textfile collector so a
// broken local stack can be alerted on.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loclaude"

// Status values exported by loclaude_check_status.
const (
	StatusOK      = 0
	StatusWarning = 1
	StatusError   = 2
)

// Doctor holds the metrics of one doctor run in a private registry.
type Doctor struct {
	reg *prometheus.Registry

	checkStatus   *prometheus.GaugeVec
	checkDuration *prometheus.GaugeVec
	checksFailed  prometheus.Gauge
	lastRun       prometheus.Gauge
}

// NewDoctor creates an empty set of doctor metrics.
func NewDoctor() *Doctor {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Doctor{
		reg: reg,

		// ─── Checks ─────────────────────────────────────────────────────
		checkStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "check_status",
			Help:      "Doctor check result per check (0=ok, 1=warning, 2=error).",
		}, []string{"check"}),
		checkDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Time the check took in seconds.",
		}, []string{"check"}),
		checksFailed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "checks_failed",
			Help:      "Number of checks that reported an error.",
		}),

		// ─── Run ────────────────────────────────────────────────────────
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "doctor_last_run_timestamp_seconds",
			Help:      "Unix time of the last doctor run.",
		}),
	}
}

// Observe records one check result. status is "ok", "warning" or "error";
// anything else counts as an error.
func (d *Doctor) Observe(check, status string, took time.Duration) {
	v := statusValue(status)
	d.checkStatus.WithLabelValues(check).Set(float64(v))
	d.checkDuration.WithLabelValues(check).Set(took.Seconds())
	if v == StatusError {
		d.checksFailed.Inc()
	}
}

// Finish stamps the run time.
func (d *Doctor) Finish(at time.Time) {
	d.lastRun.Set(float64(at.Unix()))
}

// Gatherer exposes the registry.
func (d *Doctor) Gatherer() prometheus.Gatherer { return d.reg }

// WriteTextfile atomically writes the metrics to path in the text
// exposition format.
func (d *Doctor) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, d.reg)
}

func statusValue(status string) int {
	switch status {
	case "ok":
		return StatusOK
	case "warning":
		return StatusWarning
	default:
		return StatusError
	}
}
