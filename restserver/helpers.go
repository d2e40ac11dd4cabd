// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file contains URL-building helpers for filling in resource
// links from named routes.

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
	"github.com/gorilla/mux"
)

type urlBuilder struct {
	Router *mux.Router
	Params []string
	Error  error
}

// buildURLs starts building URLs for routes with the given
// alternating parameter names and (unencoded) values.
func buildURLs(router *mux.Router, params ...string) *urlBuilder {
	encoded := make([]string, len(params))
	for i, value := range params {
		if i%2 == 1 {
			value = restdata.MaybeEncodeName(value)
		}
		encoded[i] = value
	}
	return &urlBuilder{Router: router, Params: encoded}
}

func (u *urlBuilder) route(name string) *mux.Route {
	r := u.Router.Get(name)
	if r == nil {
		u.Error = fmt.Errorf("No such route %q", name)
	}
	return r
}

// URL fills out with the URL of a named route.
func (u *urlBuilder) URL(out *string, route string) *urlBuilder {
	if u.Error != nil {
		return u
	}
	r := u.route(route)
	var built *url.URL
	if u.Error == nil {
		built, u.Error = r.URL(u.Params...)
	}
	if u.Error == nil {
		*out = built.String()
	}
	return u
}

// Template fills out with a URI template for a named route, with
// param left as a {param} placeholder.
func (u *urlBuilder) Template(out *string, route, param string) *urlBuilder {
	if u.Error != nil {
		return u
	}
	r := u.route(route)
	var built *url.URL
	if u.Error == nil {
		params := append([]string{param, "---"}, u.Params...)
		built, u.Error = r.URL(params...)
	}
	if u.Error == nil {
		*out = strings.Replace(built.String(), "---", "{"+param+"}", 1)
	}
	return u
}

// optional interprets the error from reading an orchestrator-assigned
// field: fim.ErrNotAllocated means "leave it null".
func optional(err error) (bool, error) {
	if _, unallocated := err.(fim.ErrNotAllocated); unallocated {
		return false, nil
	}
	return err == nil, err
}

// interfaceList builds the short representations of a set of
// interfaces in name order.
func (api *restAPI) interfaceList(slice fim.Slice, ifaces map[string]fim.Interface, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	result := restdata.InterfaceList{Interfaces: []restdata.InterfaceShort{}}
	for _, name := range sortedNames(ifaces) {
		short := restdata.InterfaceShort{}
		short.Name = name
		err = buildURLs(api.Router, "slice", slice.Name(), "interface", name).
			URL(&short.URL, "interface").
			Error
		if err != nil {
			return nil, err
		}
		result.Interfaces = append(result.Interfaces, short)
	}
	return result, nil
}
