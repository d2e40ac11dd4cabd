// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/diffeo/go-fablib/fablib"
	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"
)

func TestRender(t *testing.T) {
	dicts := []*fablib.Dict{
		fablib.NewDict().Set("name", "n1").Set("site", "STAR"),
		fablib.NewDict().Set("name", "n2").Set("site", nil),
	}

	var out bytes.Buffer
	require.NoError(t, render(&out, "json", dicts))
	assert.JSONEq(t, `[{"name":"n1","site":"STAR"},{"name":"n2","site":null}]`, out.String())
	assert.Less(t, bytes.Index(out.Bytes(), []byte(`"name"`)), bytes.Index(out.Bytes(), []byte(`"site"`)))

	out.Reset()
	require.NoError(t, render(&out, "yaml", dicts))
	assert.Equal(t, "- name: n1\n  site: STAR\n- name: n2\n  site: null\n", out.String())

	out.Reset()
	require.NoError(t, render(&out, "json", nil))
	assert.Equal(t, "[]\n", out.String())
}

func TestSelectNodes(t *testing.T) {
	manager := fablib.NewManager(memory.New(), &fablib.Config{}, 0)
	slice, err := manager.Slice("exp")
	require.NoError(t, err)
	for _, name := range []string{"n1", "n2", "n3"} {
		_, err = slice.AddNode(name, "STAR")
		require.NoError(t, err)
	}

	all, err := selectNodes(slice, nil)
	if assert.NoError(t, err) {
		assert.Len(t, all, 3)
	}

	some, err := selectNodes(slice, []string{"n3", "n1"})
	if assert.NoError(t, err) && assert.Len(t, some, 2) {
		assert.Equal(t, "n3", some[0].Name())
		assert.Equal(t, "n1", some[1].Name())
	}

	_, err = selectNodes(slice, []string{"n4"})
	assert.Equal(t, fablib.ErrNotFound{Kind: "node", Key: "n4"}, err)
}

func run(t *testing.T, args ...string) []map[string]interface{} {
	var out bytes.Buffer
	state.Out = &out
	require.NoError(t, newApp().Run(append([]string{"fablib"}, args...)))
	var result []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &result))
	return result
}

func TestCommands(t *testing.T) {
	t.Setenv("FABRIC_LOG_LEVEL", "WARNING")

	assert.Empty(t, run(t, "slices"))

	submitted := run(t, "-o", "yaml", "submit", "exp")
	if assert.Len(t, submitted, 1) {
		assert.Equal(t, "exp", submitted[0]["name"])
		assert.Equal(t, fim.StableOK.String(), submitted[0]["state"])
		assert.NotNil(t, submitted[0]["lease_end"])
	}

	// Each run builds a fresh in-memory model.
	shown := run(t, "show", "exp")
	if assert.Len(t, shown, 1) {
		assert.Equal(t, "Nascent", shown[0]["state"])
	}
	assert.Empty(t, run(t, "nodes", "exp"))
	assert.Empty(t, run(t, "interfaces", "exp"))

	exit := cli.OsExiter
	defer func() { cli.OsExiter = exit }()
	cli.OsExiter = func(int) {}
	var out bytes.Buffer
	state.Out = &out
	assert.Error(t, newApp().Run([]string{"fablib", "-o", "xml", "slices"}))
	assert.Error(t, newApp().Run([]string{"fablib", "show"}))
	assert.Error(t, newApp().Run([]string{"fablib", "exec", "exp"}))
}

func TestJSONKeyOrder(t *testing.T) {
	manager := fablib.NewManager(memory.New(), &fablib.Config{}, 0)
	slice, err := manager.Slice("exp")
	require.NoError(t, err)
	_, err = slice.AddNode("n1", "STAR")
	require.NoError(t, err)

	var out bytes.Buffer
	node, err := slice.Node("n1", false)
	require.NoError(t, err)
	require.NoError(t, render(&out, "json", []*fablib.Dict{node.ToDict()}))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	if assert.Len(t, decoded, 1) {
		assert.Equal(t, "n1", decoded[0]["name"])
		assert.Equal(t, "STAR", decoded[0]["site"])
	}
	assert.Less(t, bytes.Index(out.Bytes(), []byte(`"id"`)), bytes.Index(out.Bytes(), []byte(`"name"`)))
}
