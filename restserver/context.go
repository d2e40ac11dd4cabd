// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"net/http"

	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
	"github.com/gorilla/mux"
)

// context holds all of the information and objects that can be extracted
// from URL parameters.
type context struct {
	Slice     fim.Slice
	Node      fim.Node
	Component fim.Component
	Interface fim.Interface
	Service   fim.NetworkService
}

// urlVar gets a decoded name out of the URL parameters.
func urlVar(vars map[string]string, key string) (string, bool, error) {
	value, present := vars[key]
	if !present {
		return "", false, nil
	}
	value, err := restdata.MaybeDecodeName(value)
	if err != nil {
		return "", true, restdata.ErrBadRequest{Err: err}
	}
	return value, true, nil
}

// SliceContext builds a context for the slice resource itself, where
// a GET creates the slice if it does not exist.
func (api *restAPI) SliceContext(req *http.Request) (*context, error) {
	ctx := &context{}
	name, present, err := urlVar(mux.Vars(req), "slice")
	if err == nil && present {
		ctx.Slice, err = api.Orchestrator.Slice(name)
	}
	return ctx, err
}

// Context builds a context for resources under a slice.  Every object
// named in the URL must already exist; a missing one is a 404.
func (api *restAPI) Context(req *http.Request) (ctx *context, err error) {
	ctx = &context{}
	vars := mux.Vars(req)

	var (
		name    string
		present bool
	)

	if name, present, err = urlVar(vars, "slice"); present && err == nil {
		var slices map[string]fim.Slice
		slices, err = api.Orchestrator.Slices()
		if err == nil {
			ctx.Slice = slices[name]
			if ctx.Slice == nil {
				err = restdata.ErrNotFound{Err: fim.ErrNoSuchSlice{Name: name}}
			}
		}
	}

	if err == nil && ctx.Slice != nil {
		if name, present, err = urlVar(vars, "node"); present && err == nil {
			ctx.Node, err = ctx.Slice.Node(name)
			err = notFound(err)
		}
	}

	if err == nil && ctx.Node != nil {
		if name, present, err = urlVar(vars, "component"); present && err == nil {
			ctx.Component, err = findComponent(ctx.Node, name)
		}
	}

	if err == nil && ctx.Slice != nil {
		if name, present, err = urlVar(vars, "interface"); present && err == nil {
			ctx.Interface, err = ctx.Slice.Interface(name)
			err = notFound(err)
		}
	}

	if err == nil && ctx.Slice != nil {
		if name, present, err = urlVar(vars, "service"); present && err == nil {
			ctx.Service, err = ctx.Slice.NetworkService(name)
			err = notFound(err)
		}
	}

	return
}

// findComponent looks up a component by its short or generated name.
func findComponent(node fim.Node, name string) (fim.Component, error) {
	comps, err := node.Components()
	if err != nil {
		return nil, err
	}
	if comp, present := comps[fim.QualifiedName(node.Name(), name)]; present {
		return comp, nil
	}
	if comp, present := comps[name]; present {
		return comp, nil
	}
	return nil, restdata.ErrNotFound{Err: fim.ErrNoSuchComponent{Name: name}}
}

// notFound wraps lookup misses so they produce 404 responses.
func notFound(err error) error {
	switch err.(type) {
	case fim.ErrNoSuchNode, fim.ErrNoSuchInterface, fim.ErrNoSuchNetworkService:
		return restdata.ErrNotFound{Err: err}
	}
	return err
}
