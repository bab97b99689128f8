package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "edgeztp"

// Metrics collects per-run metrics. A run is a one-shot process, so metrics
// are exported by writing a node exporter textfile rather than serving them.
type Metrics struct {
	registry *prometheus.Registry

	phaseDuration *prometheus.GaugeVec
	phaseSuccess  *prometheus.GaugeVec
	interfaces    *prometheus.GaugeVec
	runSuccess    prometheus.Gauge
	lastRun       prometheus.Gauge
}

// NewMetrics creates metrics registered on a fresh registry.
// constLabels are attached to every series (typically the appliance host).
func NewMetrics(constLabels prometheus.Labels) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		phaseDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   metricsNamespace,
				Subsystem:   "phase",
				Name:        "duration_seconds",
				Help:        "Duration of the provisioning phase in the last run",
				ConstLabels: constLabels,
			},
			[]string{"phase"},
		),
		phaseSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   metricsNamespace,
				Subsystem:   "phase",
				Name:        "success",
				Help:        "Whether the provisioning phase succeeded in the last run (1) or failed (0)",
				ConstLabels: constLabels,
			},
			[]string{"phase"},
		),
		interfaces: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   metricsNamespace,
				Name:        "interfaces",
				Help:        "Interfaces seen in the last run by stage",
				ConstLabels: constLabels,
			},
			[]string{"stage"},
		),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "run_success",
			Help:        "Whether the last run succeeded (1) or failed (0)",
			ConstLabels: constLabels,
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "last_run_timestamp_seconds",
			Help:        "Unix time the last run finished",
			ConstLabels: constLabels,
		}),
	}

	m.registry.MustRegister(m.phaseDuration, m.phaseSuccess, m.interfaces, m.runSuccess, m.lastRun)
	return m
}

// Registry returns the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObservePhase records the outcome of one phase.
func (m *Metrics) ObservePhase(phase string, d time.Duration, err error) {
	m.phaseDuration.WithLabelValues(phase).Set(d.Seconds())
	m.phaseSuccess.WithLabelValues(phase).Set(boolToFloat(err == nil))
}

// ObserveRun records the outcome of the whole run.
func (m *Metrics) ObserveRun(state *State, err error, finished time.Time) {
	if state.Instance != nil {
		m.interfaces.WithLabelValues("discovered").Set(float64(len(state.Instance.Interfaces)))
	}
	m.interfaces.WithLabelValues("classified").Set(float64(state.Table.Len()))
	m.interfaces.WithLabelValues("updated").Set(float64(len(state.Updates)))
	m.runSuccess.Set(boolToFloat(err == nil))
	m.lastRun.Set(float64(finished.Unix()))
}

// WriteTextfile writes all metrics to path in Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
