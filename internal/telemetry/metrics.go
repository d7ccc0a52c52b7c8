// Package telemetry exports decision counters to prometheus.
package telemetry

import (
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts decisions by experiment type and reason. A nil *Metrics
// records nothing, so callers can leave metrics unconfigured.
type Metrics struct {
	decisions *prometheus.CounterVec
	errors    *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them on reg. A nil reg leaves
// them unregistered, which is useful in tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackle_decisions_total",
				Help: "Total decisions by experiment type and decision reason",
			},
			[]string{"type", "reason"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackle_evaluation_errors_total",
				Help: "Evaluations that failed and fell back to the default variation",
			},
			[]string{"type"},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.decisions, m.errors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) RecordDecision(experimentType model.ExperimentType, reason model.DecisionReason) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(string(experimentType), string(reason)).Inc()
}

func (m *Metrics) RecordError(experimentType model.ExperimentType) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(string(experimentType)).Inc()
}
