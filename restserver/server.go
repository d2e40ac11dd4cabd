// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"net/http"
	"sort"

	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
	"github.com/gorilla/mux"
)

// NewRouter creates a new HTTP handler that processes all topology
// requests.  All resources are under the URL path root, e.g.
// /slice/foo.  For more control over this setup, create a mux.Router
// and call PopulateRouter instead.
func NewRouter(o fim.Orchestrator) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r, o)
	return r
}

// PopulateRouter adds topology routes to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to place the interface under a subpath:
//
//     r := mux.NewRouter()
//     s := r.PathPrefix("/fim").Subrouter()
//     PopulateRouter(s, memory.New())
func PopulateRouter(r *mux.Router, o fim.Orchestrator) {
	api := &restAPI{Orchestrator: o, Router: r}
	api.PopulateRouter(r)
}

// restAPI holds the persistent state for the REST API.
type restAPI struct {
	Orchestrator fim.Orchestrator
	Router       *mux.Router
}

// PopulateRouter adds all URL paths to a router.
func (api *restAPI) PopulateRouter(r *mux.Router) {
	r.Path("/").Name("root").Handler(&resourceHandler{
		Representation: restdata.RootData{},
		Context:        api.Context,
		Get:            api.RootDocument,
	})
	api.PopulateSlice(r)
	api.PopulateNode(r)
	api.PopulateInterface(r)
	api.PopulateService(r)
}

// RootDocument returns the links to the slice resources.
func (api *restAPI) RootDocument(ctx *context) (interface{}, error) {
	resp := restdata.RootData{}
	err := buildURLs(api.Router).
		URL(&resp.URL, "root").
		URL(&resp.SlicesURL, "slices").
		Template(&resp.SliceURL, "slice", "slice").
		Error
	return resp, err
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
