// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restclient provides a fim-compatible HTTP REST client that
// talks to the matching server in the "restserver" package.
//
// The server in github.com/diffeo/go-fablib/cmd/fimd can run a
// compatible REST server.  Call New() with the base URL of that
// service; for instance,
//
//     o, err := restclient.New("http://localhost:5980/")
//
// Every read of mutable data makes a fresh request, so objects from
// this package never hold stale state of their own.  Caching is the
// job of the fablib package.
package restclient

import (
	"fmt"
	"net/url"

	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
)

// New creates a new fim Orchestrator that speaks to an external REST
// server.
func New(baseURL string) (fim.Orchestrator, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("restclient: base URL %q is not absolute", baseURL)
	}
	o := &restOrchestrator{resource: resource{URL: u}}
	if err = o.Refresh(); err != nil {
		return nil, err
	}
	return o, nil
}

type restOrchestrator struct {
	resource
	Representation restdata.RootData
}

func (o *restOrchestrator) Refresh() error {
	o.Representation = restdata.RootData{}
	return o.Get(&o.Representation)
}

func (o *restOrchestrator) Slice(name string) (fim.Slice, error) {
	var err error
	s := &slice{}
	s.URL, err = o.Template(o.Representation.SliceURL, map[string]interface{}{"slice": name})
	if err == nil {
		err = s.Refresh()
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (o *restOrchestrator) Slices() (map[string]fim.Slice, error) {
	resp := restdata.SliceList{}
	err := o.GetFrom(o.Representation.SlicesURL, map[string]interface{}{}, &resp)
	if err != nil {
		return nil, err
	}
	result := make(map[string]fim.Slice, len(resp.Slices))
	for _, summary := range resp.Slices {
		s := &slice{}
		s.URL, err = o.Link(summary.URL)
		if err == nil {
			err = s.Refresh()
		}
		if err != nil {
			return nil, err
		}
		result[s.Name()] = s
	}
	return result, nil
}
