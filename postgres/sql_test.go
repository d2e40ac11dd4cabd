// Copyright 2016-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"testing"
	"time"

	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/topology"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelect(t *testing.T) {
	var params queryParams
	query := buildSelect([]string{"data"}, []string{"slices"},
		[]string{"name=" + params.Param("s1")})
	assert.Equal(t, "SELECT data FROM slices WHERE name=$1", query)
	assert.Equal(t, queryParams{"s1"}, params)

	assert.Equal(t, "SELECT name FROM slices",
		buildSelect([]string{"name"}, []string{"slices"}, nil))
}

func TestBuildUpdate(t *testing.T) {
	var params queryParams
	query := buildUpdate("slices", []string{
		"data=" + params.Param([]byte{}),
		"updated_at=NOW()",
	}, []string{"name=" + params.Param("s1")})
	assert.Equal(t, "UPDATE slices SET data=$1, updated_at=NOW() WHERE name=$2", query)
	assert.Len(t, params, 2)
}

func TestTimeToNullTime(t *testing.T) {
	assert.Equal(t, pq.NullTime{}, timeToNullTime(time.Time{}))
	now := time.Unix(1700000000, 0)
	assert.Equal(t, pq.NullTime{Time: now, Valid: true}, timeToNullTime(now))
}

func TestSerializationFailure(t *testing.T) {
	assert.True(t, isSerializationFailure(&pq.Error{Code: "40001"}))
	assert.False(t, isSerializationFailure(&pq.Error{Code: "23505"}))
	assert.False(t, isSerializationFailure(nil))
	assert.True(t, isSerializationFailure(errors.Wrap(&pq.Error{Code: "40001"}, "commit")))
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := topology.NewSlice("s1")
	node, err := doc.AddNode("n1", fim.VM, "STAR")
	require.NoError(t, err)
	_, err = doc.AddComponent(node, "nic1", "NIC_ConnectX_6")
	require.NoError(t, err)
	_, err = doc.AddService("net", fim.L2Bridge, []string{"n1-nic1-p1"})
	require.NoError(t, err)
	doc.Submit(time.Unix(0, 0), func() string { return "r" })

	data, err := docToBytes(doc)
	require.NoError(t, err)
	back, err := bytesToDoc(data)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestDocumentEmptyMaps(t *testing.T) {
	doc := topology.NewSlice("s1")
	_, err := doc.AddNode("fac", fim.Facility, "STAR")
	require.NoError(t, err)

	data, err := docToBytes(doc)
	require.NoError(t, err)
	back, err := bytesToDoc(data)
	require.NoError(t, err)
	assert.NotNil(t, back.Nodes["fac"].Components)
	iface := back.FindInterface("fac-int")
	if assert.NotNil(t, iface) {
		assert.NotNil(t, iface.Interfaces)
	}
}
