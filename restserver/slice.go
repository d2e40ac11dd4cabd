// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
	"github.com/gorilla/mux"
)

func (api *restAPI) fillSliceShort(slice fim.Slice, summary *restdata.SliceShort) error {
	summary.Name = slice.Name()
	return buildURLs(api.Router, "slice", summary.Name).
		URL(&summary.URL, "slice").
		Error
}

func (api *restAPI) fillSlice(slice fim.Slice, result *restdata.Slice) error {
	err := api.fillSliceShort(slice, &result.SliceShort)
	if err == nil {
		err = buildURLs(api.Router, "slice", result.Name).
			URL(&result.StatusURL, "sliceStatus").
			URL(&result.SubmitURL, "sliceSubmit").
			URL(&result.LeaseURL, "sliceLease").
			URL(&result.NodesURL, "nodes").
			Template(&result.NodeURL, "node", "node").
			Template(&result.InterfaceURL, "interface", "interface").
			URL(&result.ServicesURL, "services").
			Template(&result.ServiceURL, "service", "service").
			Error
	}
	if err == nil {
		result.State, err = slice.State()
	}
	if err == nil {
		end, err2 := slice.LeaseEnd()
		if err2 == nil {
			result.LeaseEnd = &end
		} else if err2 != fim.ErrNotSubmitted {
			err = err2
		}
	}
	return err
}

// SliceList gets a list of all slices known in the system.
func (api *restAPI) SliceList(ctx *context) (interface{}, error) {
	slices, err := api.Orchestrator.Slices()
	if err != nil {
		return nil, err
	}
	result := restdata.SliceList{Slices: []restdata.SliceShort{}}
	for _, name := range sortedNames(slices) {
		summary := restdata.SliceShort{}
		err = api.fillSliceShort(slices[name], &summary)
		if err != nil {
			return nil, err
		}
		result.Slices = append(result.Slices, summary)
	}
	return result, nil
}

// SliceGet retrieves an existing slice, or creates a new one.
func (api *restAPI) SliceGet(ctx *context) (interface{}, error) {
	result := restdata.Slice{}
	err := api.fillSlice(ctx.Slice, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SliceDelete destroys a slice.
func (api *restAPI) SliceDelete(ctx *context) (interface{}, error) {
	return nil, ctx.Slice.Destroy()
}

// SliceSubmit submits a slice and returns its new state.
func (api *restAPI) SliceSubmit(ctx *context, in interface{}) (interface{}, error) {
	err := ctx.Slice.Submit()
	if err != nil {
		return nil, err
	}
	return api.SliceGet(ctx)
}

// SliceLeasePut renews a slice's lease.
func (api *restAPI) SliceLeasePut(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.SliceLease)
	if !valid {
		return nil, errUnmarshal
	}
	err := ctx.Slice.Renew(req.LeaseEnd)
	if err != nil {
		return nil, err
	}
	return api.SliceGet(ctx)
}

// PopulateSlice adds slice-specific routes to a router.  r should be
// rooted at the root of the URL tree, e.g. "/".
func (api *restAPI) PopulateSlice(r *mux.Router) {
	r.Path("/slice").Name("slices").Handler(&resourceHandler{
		Representation: restdata.SliceShort{},
		Context:        api.Context,
		Get:            api.SliceList,
	})
	r.Path("/slice/{slice}").Name("slice").Handler(&resourceHandler{
		Representation: restdata.Slice{},
		Context:        api.SliceContext,
		Get:            api.SliceGet,
		Delete:         api.SliceDelete,
	})
	r.Path("/slice/{slice}/status").Name("sliceStatus").Handler(&resourceHandler{
		Representation: restdata.Slice{},
		Context:        api.Context,
		Get:            api.SliceGet,
	})
	r.Path("/slice/{slice}/submit").Name("sliceSubmit").Handler(&resourceHandler{
		Representation: restdata.SliceShort{},
		Context:        api.Context,
		Post:           api.SliceSubmit,
	})
	r.Path("/slice/{slice}/lease").Name("sliceLease").Handler(&resourceHandler{
		Representation: restdata.SliceLease{},
		Context:        api.Context,
		Put:            api.SliceLeasePut,
	})
}
