// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
	"github.com/gorilla/mux"
)

func (api *restAPI) fillService(slice fim.Slice, svc fim.NetworkService, result *restdata.Service) (err error) {
	result.Name = svc.Name()
	err = buildURLs(api.Router, "slice", slice.Name(), "service", result.Name).
		URL(&result.URL, "service").
		URL(&result.InterfacesURL, "serviceInterfaces").
		Error
	if err == nil {
		result.Type, err = svc.Type()
	}
	if err == nil {
		result.Layer, err = svc.Layer()
	}
	var ok bool
	if err == nil {
		labels, err2 := svc.LabelAllocations()
		if ok, err = optional(err2); ok {
			result.LabelAllocations = &labels
		}
	}
	if err == nil {
		gateway, err2 := svc.Gateway()
		if ok, err = optional(err2); ok {
			result.Gateway = &gateway
		}
	}
	if err == nil {
		info, err2 := svc.ReservationInfo()
		if ok, err = optional(err2); ok {
			result.ReservationInfo = &info
		}
	}
	return
}

// ServiceList lists the network services in a slice.
func (api *restAPI) ServiceList(ctx *context) (interface{}, error) {
	services, err := ctx.Slice.NetworkServices()
	if err != nil {
		return nil, err
	}
	result := restdata.ServiceList{Services: []restdata.ServiceShort{}}
	for _, name := range sortedNames(services) {
		summary := restdata.ServiceShort{}
		summary.Name = name
		err = buildURLs(api.Router, "slice", ctx.Slice.Name(), "service", name).
			URL(&summary.URL, "service").
			Error
		if err != nil {
			return nil, err
		}
		result.Services = append(result.Services, summary)
	}
	return result, nil
}

// ServicePost creates a network service.
func (api *restAPI) ServicePost(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.Service)
	if !valid {
		return nil, errUnmarshal
	}
	svc, err := ctx.Slice.AddNetworkService(req.Name, req.Type, req.Interfaces)
	if err != nil {
		return nil, err
	}
	result := restdata.Service{}
	err = api.fillService(ctx.Slice, svc, &result)
	if err != nil {
		return nil, err
	}
	return responseCreated{Location: result.URL, Body: result}, nil
}

// ServiceGet returns the full representation of a network service.
func (api *restAPI) ServiceGet(ctx *context) (interface{}, error) {
	result := restdata.Service{}
	err := api.fillService(ctx.Slice, ctx.Service, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ServiceDelete removes a network service.
func (api *restAPI) ServiceDelete(ctx *context) (interface{}, error) {
	return nil, ctx.Slice.RemoveNetworkService(ctx.Service.Name())
}

// ServiceInterfaces lists the interfaces attached to a service.
func (api *restAPI) ServiceInterfaces(ctx *context) (interface{}, error) {
	ifaces, err := ctx.Service.Interfaces()
	return api.interfaceList(ctx.Slice, ifaces, err)
}

// PopulateService adds network service routes to a router.
func (api *restAPI) PopulateService(r *mux.Router) {
	r.Path("/slice/{slice}/service").Name("services").Handler(&resourceHandler{
		Representation: restdata.Service{},
		Context:        api.Context,
		Get:            api.ServiceList,
		Post:           api.ServicePost,
	})
	r.Path("/slice/{slice}/service/{service}").Name("service").Handler(&resourceHandler{
		Representation: restdata.Service{},
		Context:        api.Context,
		Get:            api.ServiceGet,
		Delete:         api.ServiceDelete,
	})
	r.Path("/slice/{slice}/service/{service}/interface").Name("serviceInterfaces").Handler(&resourceHandler{
		Representation: restdata.InterfaceShort{},
		Context:        api.Context,
		Get:            api.ServiceInterfaces,
	})
}
