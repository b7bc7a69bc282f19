// sim/metrics.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects counters across runs. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	Steps      prometheus.Counter
	Degenerate prometheus.Counter
	Runs       *prometheus.CounterVec
	Airspeed   prometheus.Histogram
}

// NewMetrics registers the simulation metrics with reg, or with the
// default registry if reg is nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	steps, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mavsim_steps_total",
		Help: "Integration steps completed.",
	}), "mavsim_steps_total")
	if err != nil {
		return nil, err
	}
	degenerate, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mavsim_degenerate_conditions_total",
		Help: "Steps rejected because of a degenerate flight condition.",
	}), "mavsim_degenerate_conditions_total")
	if err != nil {
		return nil, err
	}
	runs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mavsim_runs_total",
		Help: "Completed runs, labeled by result (ok, failed, canceled).",
	}, []string{"result"}), "mavsim_runs_total")
	if err != nil {
		return nil, err
	}
	airspeed, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mavsim_airspeed_meters_per_second",
		Help:    "Airspeed after each step.",
		Buckets: prometheus.LinearBuckets(10, 2.5, 12),
	}), "mavsim_airspeed_meters_per_second")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:   gatherer,
		Steps:      steps,
		Degenerate: degenerate,
		Runs:       runs,
		Airspeed:   airspeed,
	}, nil
}

// register adds c to reg; if an equivalent collector is already
// registered, that one is returned instead.
func register[C prometheus.Collector](reg prometheus.Registerer, c C, name string) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero C
		return zero, err
	}
	return c, nil
}

func (m *Metrics) ObserveStep(va float64) {
	if m == nil {
		return
	}
	m.Steps.Inc()
	m.Airspeed.Observe(va)
}

func (m *Metrics) ObserveDegenerate() {
	if m != nil {
		m.Degenerate.Inc()
	}
}

func (m *Metrics) ObserveRun(result string) {
	if m != nil {
		m.Runs.WithLabelValues(result).Inc()
	}
}

// WriteFile writes the current values in the Prometheus text format, for
// collection by node_exporter's textfile collector.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.gatherer)
}
