// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"time"

	"github.com/diffeo/go-fablib/fim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var sliceSummary = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "fabric",
		Subsystem: "fim",
		Name:      "slices",
		Help:      "Number of slices in each state",
	},
	[]string{"state"},
)

var nodeSummary = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "fabric",
		Subsystem: "fim",
		Name:      "nodes",
		Help:      "Number of nodes in each slice, by node type",
	},
	[]string{"slice", "type"},
)

func init() {
	prometheus.MustRegister(sliceSummary, nodeSummary)
}

// summarize recounts every slice once.
func summarize(orchestrator fim.Orchestrator) error {
	slices, err := orchestrator.Slices()
	if err != nil {
		return err
	}
	states := map[fim.SliceState]int{fim.Nascent: 0, fim.StableOK: 0, fim.Dead: 0}
	nodeSummary.Reset()
	for name, slice := range slices {
		state, err := slice.State()
		if err != nil {
			// destroyed between listing and reading
			continue
		}
		states[state]++
		nodes, err := slice.Nodes()
		if err != nil {
			continue
		}
		counts := map[fim.NodeType]int{}
		for _, node := range nodes {
			counts[node.Type()]++
		}
		for nodeType, count := range counts {
			nodeSummary.With(prometheus.Labels{
				"slice": name,
				"type":  string(nodeType),
			}).Set(float64(count))
		}
	}
	for state, count := range states {
		sliceSummary.With(prometheus.Labels{
			"state": state.String(),
		}).Set(float64(count))
	}
	return nil
}

func observe(orchestrator fim.Orchestrator, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := summarize(orchestrator); err != nil {
			logrus.WithFields(logrus.Fields{
				"err": err,
			}).Warn("Could not summarize slices")
		}
		<-ticker.C
	}
}
