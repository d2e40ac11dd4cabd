// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestDictOrder(t *testing.T) {
	d := NewDict().Set("name", "n1").Set("cores", "2").Set("network", nil)
	d.Set("name", "n2")

	if diff := cmp.Diff([]string{"name", "cores", "network"}, d.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, d.Len())
	assert.True(t, d.Has("network"))
	assert.False(t, d.Has("mac"))
	name, _ := d.Get("name")
	assert.Equal(t, "n2", name)

	bytes, err := d.MarshalJSON()
	if assert.NoError(t, err) {
		assert.Equal(t, `{"name":"n2","cores":"2","network":null}`, string(bytes))
	}

	bytes, err = yaml.Marshal(d)
	if assert.NoError(t, err) {
		assert.Equal(t, "name: n2\ncores: \"2\"\nnetwork: null\n", string(bytes))
	}
}

func TestRenderTemplate(t *testing.T) {
	context := NewDict().Set("username", "rocky").Set("management_ip", "10.0.0.1").Set("error", nil)
	for template, expected := range map[string]string{
		"ssh {{ _self_.username }}@{{ _self_.management_ip }}": "ssh rocky@10.0.0.1",
		"{{_self_.username}}{{_self_.username}}":               "rockyrocky",
		"[{{ _self_.error }}][{{ _self_.missing }}]":           "[][]",
		"no template here":                                     "no template here",
		"{{ other.username }}":                                 "{{ other.username }}",
	} {
		assert.Equal(t, expected, renderTemplate(template, context), template)
	}
}
