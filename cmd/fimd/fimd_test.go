// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/memory"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
slices:
  exp:
    submit: true
    nodes:
      n1:
        site: STAR
        image: default_ubuntu_22
        cores: 4
        components:
          nic1: NIC_Basic
      n2:
        site: UTAH
        components:
          nic1: NIC_Basic
      sw:
        type: Switch
        site: STAR
    services:
      net:
        type: L2Bridge
        interfaces: [n1-nic1-p1, n2-nic1-p1]
  draft:
    nodes:
      only:
        site: TACC
`

func writeSeed(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "topology.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestSeed(t *testing.T) {
	seed, err := loadSeed(writeSeed(t, seedYAML))
	require.NoError(t, err)
	assert.Len(t, seed.Slices, 2)
	assert.Equal(t, map[string]string{"nic1": "NIC_Basic"}, seed.Slices["exp"].Nodes["n1"].Components)

	orchestrator := memory.New()
	require.NoError(t, seed.Apply(orchestrator))

	exp, err := orchestrator.Slice("exp")
	require.NoError(t, err)
	state, err := exp.State()
	if assert.NoError(t, err) {
		assert.Equal(t, fim.StableOK, state)
	}

	n1, err := exp.Node("n1")
	require.NoError(t, err)
	image, err := n1.Image()
	if assert.NoError(t, err) {
		assert.Equal(t, fim.Image{Ref: "default_ubuntu_22", Type: "qcow2"}, image)
	}
	capacities, err := n1.Capacities()
	if assert.NoError(t, err) {
		assert.Equal(t, 4, capacities.Core)
		assert.Equal(t, 8, capacities.RAM)
	}

	sw, err := exp.Node("sw")
	if assert.NoError(t, err) {
		assert.Equal(t, fim.Switch, sw.Type())
	}

	svc, err := exp.NetworkService("net")
	require.NoError(t, err)
	ifaces, err := svc.Interfaces()
	if assert.NoError(t, err) {
		assert.Len(t, ifaces, 2)
	}

	draft, err := orchestrator.Slice("draft")
	require.NoError(t, err)
	state, err = draft.State()
	if assert.NoError(t, err) {
		assert.Equal(t, fim.Nascent, state)
	}
}

func TestSeedErrors(t *testing.T) {
	_, err := loadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = loadSeed(writeSeed(t, "slices: [\n"))
	assert.Error(t, err)

	_, err = loadSeed(writeSeed(t, "slices:\n  exp:\n    colour: blue\n"))
	assert.Error(t, err)

	seed, err := loadSeed(writeSeed(t, "slices:\n  exp:\n    nodes:\n      n1:\n        type: Router\n"))
	require.NoError(t, err)
	err = seed.Apply(memory.New())
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "Router")
	}

	seed, err = loadSeed(writeSeed(t, "slices:\n  exp:\n    nodes:\n      n1:\n        components:\n          gpu: GPU_H100\n"))
	require.NoError(t, err)
	err = seed.Apply(memory.New())
	assert.Equal(t, fim.ErrUnknownModel{Model: "GPU_H100"}, errors.Cause(err))
}

func TestSummarize(t *testing.T) {
	seed, err := loadSeed(writeSeed(t, seedYAML))
	require.NoError(t, err)
	orchestrator := memory.New()
	require.NoError(t, seed.Apply(orchestrator))

	require.NoError(t, summarize(orchestrator))
	assert.Equal(t, 1.0, testutil.ToFloat64(sliceSummary.With(prometheus.Labels{"state": "StableOK"})))
	assert.Equal(t, 1.0, testutil.ToFloat64(sliceSummary.With(prometheus.Labels{"state": "Nascent"})))
	assert.Equal(t, 0.0, testutil.ToFloat64(sliceSummary.With(prometheus.Labels{"state": "Dead"})))
	assert.Equal(t, 2.0, testutil.ToFloat64(nodeSummary.With(prometheus.Labels{"slice": "exp", "type": "VM"})))
	assert.Equal(t, 1.0, testutil.ToFloat64(nodeSummary.With(prometheus.Labels{"slice": "exp", "type": "Switch"})))
}

func TestHandler(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	h := &HTTP{orchestrator: memory.New(), logger: logger}
	handler := h.Handler()

	for _, path := range []string{"/", "/slice", "/metrics"} {
		req := httptest.NewRequest("GET", path, nil)
		if path != "/metrics" {
			req.Header.Set("Accept", "application/json")
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusOK, resp.Code, path)
	}

	if assert.Len(t, hook.AllEntries(), 3) {
		entry := hook.LastEntry()
		assert.Equal(t, "/metrics", entry.Data["path"])
		assert.Equal(t, http.StatusOK, entry.Data["status"])
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest("GET", "/slice/exp/node/missing", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
