// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/diffeo/go-fablib/fim"
	"github.com/stretchr/testify/assert"
)

func TestErrorRoundTrip(t *testing.T) {
	tests := []error{
		fim.ErrGone,
		fim.ErrNoModel,
		fim.ErrNotSubmitted,
		fim.ErrWrongNodeType,
		fim.ErrBadLease,
		fim.ErrNoSuchSlice{Name: "s"},
		fim.ErrNoSuchNode{Name: "n1"},
		fim.ErrNoSuchComponent{Name: "nic1"},
		fim.ErrNoSuchInterface{Name: "n1-nic1-p1"},
		fim.ErrNoSuchNetworkService{Name: "net"},
		fim.ErrNotAllocated{Property: "gateway"},
		fim.ErrAlreadyExists{Kind: "node", Name: "n1"},
		fim.ErrUnknownModel{Model: "GPU_H100"},
		fim.ErrUnknownServiceType{Type: "Carrier"},
	}
	for _, err := range tests {
		resp := ErrorResponse{Error: "error", Message: err.Error()}
		resp.FromError(err)
		assert.Equal(t, err, resp.ToError(), "%+v", resp)
	}
}

func TestErrorWrapped(t *testing.T) {
	resp := ErrorResponse{}
	resp.FromError(ErrNotFound{Err: fim.ErrNoSuchNode{Name: "n1"}})
	assert.Equal(t, fim.ErrNoSuchNode{Name: "n1"}, resp.ToError())
}

func TestErrorPlain(t *testing.T) {
	err := errors.New("disk on fire")
	resp := ErrorResponse{Error: "error", Message: err.Error()}
	resp.FromError(err)
	assert.Equal(t, "error", resp.Error)
	assert.EqualError(t, resp.ToError(), "disk on fire")
}

func TestErrorPanic(t *testing.T) {
	resp := ErrorResponse{}
	resp.FromPanic("boom")
	assert.Equal(t, "panic", resp.Error)
	assert.Equal(t, "boom", resp.Message)
	assert.True(t, strings.Contains(resp.Stack, "goroutine"))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(fim.ErrGone))
	assert.Equal(t, http.StatusNotFound, StatusOf(fim.ErrNoSuchNode{Name: "n"}))
	assert.Equal(t, http.StatusConflict, StatusOf(fim.ErrAlreadyExists{Kind: "node", Name: "n"}))
	assert.Equal(t, http.StatusBadRequest, StatusOf(fim.ErrUnknownModel{Model: "x"}))
	assert.Equal(t, http.StatusUnsupportedMediaType, StatusOf(ErrUnsupportedMediaType{Type: "text/plain"}))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("x")))
}

func TestDecode(t *testing.T) {
	var node Node
	err := Decode("application/json", strings.NewReader(
		`{"name":"n1","type":"VM","site":"STAR","management_ip":"2001:db8::1"}`), &node)
	if assert.NoError(t, err) {
		assert.Equal(t, "n1", node.Name)
		assert.Equal(t, fim.VM, node.Type)
		if assert.NotNil(t, node.ManagementIP) {
			assert.Equal(t, "2001:db8::1", *node.ManagementIP)
		}
		assert.Nil(t, node.ReservationInfo)
	}

	err = Decode("text/plain", strings.NewReader("n1"), &node)
	assert.Equal(t, ErrUnsupportedMediaType{Type: "text/plain"}, err)
}
