// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts facade cache activity.  A nil *Metrics records
// nothing.
type Metrics struct {
	reads    *prometheus.CounterVec
	rebuilds *prometheus.CounterVec
}

// NewMetrics creates a set of facade counters and registers them
// with reg.  If reg is nil the counters are not registered anywhere.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		reads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fabric",
				Subsystem: "fablib",
				Name:      "cache_reads_total",
				Help:      "Facade property reads, by cache result",
			},
			[]string{"facade", "result"},
		),
		rebuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fabric",
				Subsystem: "fablib",
				Name:      "rebuilds_total",
				Help:      "Child collection rebuilds",
			},
			[]string{"facade", "collection"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.reads, m.rebuilds} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.reads.With(prometheus.Labels{"facade": kind, "result": result}).Inc()
}

func (m *Metrics) rebuilt(kind, what string) {
	if m == nil {
		return
	}
	m.rebuilds.With(prometheus.Labels{"facade": kind, "collection": what}).Inc()
}
