package watchdog

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the watchdog's Prometheus collectors, kept on a private
// registry and exported as a node-exporter textfile rather than served.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg         *prometheus.Registry
	state       *prometheus.GaugeVec
	revivals    *prometheus.CounterVec
	coalescedN  *prometheus.CounterVec
	probeErrors *prometheus.CounterVec
}

// NewMetrics returns registered collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rightmenu_liveness_state",
			Help: "Current liveness state (0 unknown, 1 alive, 2 dead, 3 reviving).",
		}, []string{"plugin_id"}),
		revivals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rightmenu_revivals_total",
			Help: "Revival commands issued.",
		}, []string{"plugin_id"}),
		coalescedN: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rightmenu_revivals_coalesced_total",
			Help: "Revival requests dropped by the cooldown guard.",
		}, []string{"plugin_id"}),
		probeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rightmenu_probe_errors_total",
			Help: "Liveness probes that could not determine a state.",
		}, []string{"plugin_id", "probe"}),
	}
	m.reg.MustRegister(m.state, m.revivals, m.coalescedN, m.probeErrors)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteTextfile writes the current values to path in the text exposition
// format. The write is atomic.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

func (m *Metrics) setState(id string, s State) {
	if m != nil {
		m.state.WithLabelValues(id).Set(float64(s))
	}
}

func (m *Metrics) revived(id string) {
	if m != nil {
		m.revivals.WithLabelValues(id).Inc()
	}
}

func (m *Metrics) coalesced(id string) {
	if m != nil {
		m.coalescedN.WithLabelValues(id).Inc()
	}
}

func (m *Metrics) probeError(id, probe string) {
	if m != nil {
		m.probeErrors.WithLabelValues(id, probe).Inc()
	}
}
