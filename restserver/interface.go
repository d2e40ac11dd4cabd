// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
	"github.com/gorilla/mux"
)

func (api *restAPI) fillInterface(slice fim.Slice, iface fim.Interface, result *restdata.Interface) (err error) {
	result.Name = iface.Name()
	err = buildURLs(api.Router, "slice", slice.Name(), "interface", result.Name).
		URL(&result.URL, "interface").
		URL(&result.InterfacesURL, "subInterfaces").
		Error
	if err == nil {
		result.Capacities, err = iface.Capacities()
	}
	if err == nil {
		result.Network, err = iface.Network()
	}
	if err == nil {
		labels, err2 := iface.LabelAllocations()
		var ok bool
		if ok, err = optional(err2); ok {
			result.LabelAllocations = &labels
		}
	}
	return
}

// InterfaceGet returns the full representation of an interface.
func (api *restAPI) InterfaceGet(ctx *context) (interface{}, error) {
	result := restdata.Interface{}
	err := api.fillInterface(ctx.Slice, ctx.Interface, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SubInterfaceList lists the sub-interfaces of an interface.
func (api *restAPI) SubInterfaceList(ctx *context) (interface{}, error) {
	ifaces, err := ctx.Interface.Interfaces()
	return api.interfaceList(ctx.Slice, ifaces, err)
}

// SubInterfacePost creates a VLAN sub-interface.
func (api *restAPI) SubInterfacePost(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.SubInterface)
	if !valid {
		return nil, errUnmarshal
	}
	sub, err := ctx.Interface.AddSubInterface(req.Name, req.VLAN)
	if err != nil {
		return nil, err
	}
	result := restdata.Interface{}
	err = api.fillInterface(ctx.Slice, sub, &result)
	if err != nil {
		return nil, err
	}
	return responseCreated{Location: result.URL, Body: result}, nil
}

// PopulateInterface adds interface routes to a router.
func (api *restAPI) PopulateInterface(r *mux.Router) {
	r.Path("/slice/{slice}/interface/{interface}").Name("interface").Handler(&resourceHandler{
		Representation: restdata.Interface{},
		Context:        api.Context,
		Get:            api.InterfaceGet,
	})
	r.Path("/slice/{slice}/interface/{interface}/interface").Name("subInterfaces").Handler(&resourceHandler{
		Representation: restdata.SubInterface{},
		Context:        api.Context,
		Get:            api.SubInterfaceList,
		Post:           api.SubInterfacePost,
	})
}
