// Regression tests for rest.go.
//
// Main tests are really by running the end-to-end path, using the
// fimtest tests driven from restclient.  This only contains
// special-case tests.
//
// Copyright 2016-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/memory"
	"github.com/diffeo/go-fablib/restdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failResponseWriter struct {
	Headers    http.Header
	StatusCode int
}

func (rw *failResponseWriter) Header() http.Header {
	if rw.Headers == nil {
		rw.Headers = make(http.Header)
	}
	return rw.Headers
}

func (rw *failResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("foo")
}

func (rw *failResponseWriter) WriteHeader(code int) {
	rw.StatusCode = code
}

func newBackend(t *testing.T) fim.Orchestrator {
	backend := memory.New()
	slice, err := backend.Slice("exp")
	require.NoError(t, err)
	node, err := slice.AddNode("n1", fim.VM, "STAR")
	require.NoError(t, err)
	_, err = node.AddComponent("nic1", "NIC_Basic")
	require.NoError(t, err)
	return backend
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", restdata.V1JSONMediaType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// TestDoubleFault checks that, if there is an error serializing a JSON
// response, it doesn't actually panic the process.
func TestDoubleFault(t *testing.T) {
	router := NewRouter(newBackend(t))
	req := &http.Request{
		Method: http.MethodGet,
		URL: &url.URL{
			Path: "/slice/exp/node/n1",
		},
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
		Close:      true,
		Host:       "localhost",
	}
	resp := &failResponseWriter{}
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestNotFound checks that lookups under a slice never create
// objects and report 404.
func TestNotFound(t *testing.T) {
	backend := newBackend(t)
	router := NewRouter(backend)

	for _, path := range []string{
		"/slice/nope/node",
		"/slice/exp/node/n2",
		"/slice/exp/node/n1/component/gpu",
		"/slice/exp/interface/n1-nic1-p2",
		"/slice/exp/service/net",
	} {
		resp := get(t, router, path)
		assert.Equal(t, http.StatusNotFound, resp.Code, path)

		var errResp restdata.ErrorResponse
		err := restdata.Decode(resp.Header().Get("Content-Type"), resp.Body, &errResp)
		if assert.NoError(t, err, path) {
			assert.Equal(t, http.StatusNotFound, restdata.StatusOf(errResp.ToError()), path)
		}
	}

	slices, err := backend.Slices()
	require.NoError(t, err)
	assert.NotContains(t, slices, "nope")
}

// TestComponentShortName checks that components can be addressed by
// the name they were created with.
func TestComponentShortName(t *testing.T) {
	router := NewRouter(newBackend(t))
	for _, path := range []string{
		"/slice/exp/node/n1/component/nic1",
		"/slice/exp/node/n1/component/n1-nic1",
	} {
		resp := get(t, router, path)
		if assert.Equal(t, http.StatusOK, resp.Code, path) {
			var comp restdata.Component
			err := restdata.Decode(resp.Header().Get("Content-Type"), resp.Body, &comp)
			if assert.NoError(t, err) {
				assert.Equal(t, "n1-nic1", comp.Name)
				assert.Equal(t, "NIC_Basic", comp.Model)
				assert.True(t, strings.HasSuffix(comp.InterfacesURL, "/interface"))
			}
		}
	}
}

// TestUnallocatedFieldsAreNull checks that fields the orchestrator
// has not assigned are omitted rather than zero.
func TestUnallocatedFieldsAreNull(t *testing.T) {
	router := NewRouter(newBackend(t))
	resp := get(t, router, "/slice/exp/node/n1")
	require.Equal(t, http.StatusOK, resp.Code)
	var node restdata.Node
	err := restdata.Decode(resp.Header().Get("Content-Type"), resp.Body, &node)
	if assert.NoError(t, err) {
		assert.Equal(t, "STAR", node.Site)
		assert.Nil(t, node.ManagementIP)
		assert.Nil(t, node.ReservationInfo)
		assert.Nil(t, node.CapacityAllocations)
	}
}

// TestMethodNotAllowed checks that unsupported methods are refused.
func TestMethodNotAllowed(t *testing.T) {
	router := NewRouter(newBackend(t))
	req := httptest.NewRequest(http.MethodPatch, "/slice/exp/interface/n1-nic1-p1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}
