// Package metrics exports container resolution counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/skekre98/wirebox/core"
)

const namespace = "wirebox"

// ResolveMetrics implements core.Observer.
type ResolveMetrics struct {
	resolves *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*ResolveMetrics, error) {
	m := &ResolveMetrics{
		resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "container",
				Name:      "resolves_total",
				Help:      "Resolve calls by container, key, slot and outcome.",
			},
			[]string{"container", "key", "slot", "outcome"},
		),
	}
	if err := reg.Register(m.resolves); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ResolveMetrics) ObserveResolve(container string, key core.TypeKey, parameterized bool, err error) {
	slot := "plain"
	if parameterized {
		slot = "parameterized"
	}
	outcome := "hit"
	if err != nil {
		outcome = "miss"
	}
	m.resolves.WithLabelValues(container, keyLabel(key), slot, outcome).Inc()
}

// keyLabel folds generated alternatives into one series per type.
func keyLabel(key core.TypeKey) string {
	if key.IsGenerated() {
		return core.TypeKey{Type: key.Type}.String() + "[generated]"
	}
	return key.String()
}

var _ core.Observer = (*ResolveMetrics)(nil)
