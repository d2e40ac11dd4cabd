// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
	"github.com/gorilla/mux"
)

func (api *restAPI) fillNodeShort(slice fim.Slice, node fim.Node, summary *restdata.NodeShort) error {
	summary.Name = node.Name()
	summary.Type = node.Type()
	return buildURLs(api.Router, "slice", slice.Name(), "node", summary.Name).
		URL(&summary.URL, "node").
		Error
}

func (api *restAPI) fillNode(slice fim.Slice, node fim.Node, result *restdata.Node) (err error) {
	err = api.fillNodeShort(slice, node, &result.NodeShort)
	if err == nil {
		err = buildURLs(api.Router, "slice", slice.Name(), "node", result.Name).
			URL(&result.ComponentsURL, "components").
			Template(&result.ComponentURL, "component", "component").
			URL(&result.InterfacesURL, "nodeInterfaces").
			Error
	}
	if err == nil {
		result.Site, err = node.Site()
	}
	if err == nil {
		result.Image, err = node.Image()
	}
	if err == nil {
		result.Capacities, err = node.Capacities()
	}
	var ok bool
	if err == nil {
		ip, err2 := node.ManagementIP()
		if ok, err = optional(err2); ok {
			result.ManagementIP = &ip
		}
	}
	if err == nil {
		allocated, err2 := node.CapacityAllocations()
		if ok, err = optional(err2); ok {
			result.CapacityAllocations = &allocated
		}
	}
	if err == nil {
		labels, err2 := node.LabelAllocations()
		if ok, err = optional(err2); ok {
			result.LabelAllocations = &labels
		}
	}
	if err == nil {
		info, err2 := node.ReservationInfo()
		if ok, err = optional(err2); ok {
			result.ReservationInfo = &info
		}
	}
	return
}

// NodeList lists the nodes in a slice.
func (api *restAPI) NodeList(ctx *context) (interface{}, error) {
	nodes, err := ctx.Slice.Nodes()
	if err != nil {
		return nil, err
	}
	result := restdata.NodeList{Nodes: []restdata.NodeShort{}}
	for _, name := range sortedNames(nodes) {
		summary := restdata.NodeShort{}
		err = api.fillNodeShort(ctx.Slice, nodes[name], &summary)
		if err != nil {
			return nil, err
		}
		result.Nodes = append(result.Nodes, summary)
	}
	return result, nil
}

// NodePost creates a node.
func (api *restAPI) NodePost(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.Node)
	if !valid {
		return nil, errUnmarshal
	}
	node, err := ctx.Slice.AddNode(req.Name, req.Type, req.Site)
	if err != nil {
		return nil, err
	}
	result := restdata.Node{}
	err = api.fillNode(ctx.Slice, node, &result)
	if err != nil {
		return nil, err
	}
	return responseCreated{Location: result.URL, Body: result}, nil
}

// NodeGet returns the full representation of a node.
func (api *restAPI) NodeGet(ctx *context) (interface{}, error) {
	result := restdata.Node{}
	err := api.fillNode(ctx.Slice, ctx.Node, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// NodePut changes a node's image or capacities.
func (api *restAPI) NodePut(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.NodeUpdate)
	if !valid {
		return nil, errUnmarshal
	}
	var err error
	if req.Image != nil {
		err = ctx.Node.SetImage(*req.Image)
	}
	if err == nil && req.Capacities != nil {
		err = ctx.Node.SetCapacities(*req.Capacities)
	}
	if err != nil {
		return nil, err
	}
	return api.NodeGet(ctx)
}

// NodeDelete removes a node from its slice.
func (api *restAPI) NodeDelete(ctx *context) (interface{}, error) {
	return nil, ctx.Slice.RemoveNode(ctx.Node.Name())
}

// NodeInterfaces lists every interface on a node.
func (api *restAPI) NodeInterfaces(ctx *context) (interface{}, error) {
	ifaces, err := ctx.Node.Interfaces()
	return api.interfaceList(ctx.Slice, ifaces, err)
}

func (api *restAPI) fillComponent(ctx *context, comp fim.Component, result *restdata.Component) (err error) {
	result.Name = comp.Name()
	err = buildURLs(api.Router, "slice", ctx.Slice.Name(), "node", ctx.Node.Name(), "component", result.Name).
		URL(&result.URL, "component").
		URL(&result.InterfacesURL, "componentInterfaces").
		Error
	if err == nil {
		result.Model, err = comp.Model()
	}
	if err == nil {
		result.Type, err = comp.Type()
	}
	return
}

// ComponentList lists the components of a node.
func (api *restAPI) ComponentList(ctx *context) (interface{}, error) {
	comps, err := ctx.Node.Components()
	if err != nil {
		return nil, err
	}
	result := restdata.ComponentList{Components: []restdata.ComponentShort{}}
	for _, name := range sortedNames(comps) {
		summary := restdata.ComponentShort{}
		summary.Name = name
		err = buildURLs(api.Router, "slice", ctx.Slice.Name(), "node", ctx.Node.Name(), "component", name).
			URL(&summary.URL, "component").
			Error
		if err != nil {
			return nil, err
		}
		result.Components = append(result.Components, summary)
	}
	return result, nil
}

// ComponentPost attaches a component to a node.
func (api *restAPI) ComponentPost(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.Component)
	if !valid {
		return nil, errUnmarshal
	}
	comp, err := ctx.Node.AddComponent(req.Name, req.Model)
	if err != nil {
		return nil, err
	}
	result := restdata.Component{}
	err = api.fillComponent(ctx, comp, &result)
	if err != nil {
		return nil, err
	}
	return responseCreated{Location: result.URL, Body: result}, nil
}

// ComponentGet returns the full representation of a component.
func (api *restAPI) ComponentGet(ctx *context) (interface{}, error) {
	result := restdata.Component{}
	err := api.fillComponent(ctx, ctx.Component, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ComponentDelete detaches a component from its node.
func (api *restAPI) ComponentDelete(ctx *context) (interface{}, error) {
	return nil, ctx.Node.RemoveComponent(ctx.Component.Name())
}

// ComponentInterfaces lists the ports of a component.
func (api *restAPI) ComponentInterfaces(ctx *context) (interface{}, error) {
	ifaces, err := ctx.Component.Interfaces()
	return api.interfaceList(ctx.Slice, ifaces, err)
}

// PopulateNode adds node and component routes to a router.
func (api *restAPI) PopulateNode(r *mux.Router) {
	r.Path("/slice/{slice}/node").Name("nodes").Handler(&resourceHandler{
		Representation: restdata.Node{},
		Context:        api.Context,
		Get:            api.NodeList,
		Post:           api.NodePost,
	})
	r.Path("/slice/{slice}/node/{node}").Name("node").Handler(&resourceHandler{
		Representation: restdata.NodeUpdate{},
		Context:        api.Context,
		Get:            api.NodeGet,
		Put:            api.NodePut,
		Delete:         api.NodeDelete,
	})
	r.Path("/slice/{slice}/node/{node}/interface").Name("nodeInterfaces").Handler(&resourceHandler{
		Representation: restdata.InterfaceShort{},
		Context:        api.Context,
		Get:            api.NodeInterfaces,
	})
	r.Path("/slice/{slice}/node/{node}/component").Name("components").Handler(&resourceHandler{
		Representation: restdata.Component{},
		Context:        api.Context,
		Get:            api.ComponentList,
		Post:           api.ComponentPost,
	})
	r.Path("/slice/{slice}/node/{node}/component/{component}").Name("component").Handler(&resourceHandler{
		Representation: restdata.Component{},
		Context:        api.Context,
		Get:            api.ComponentGet,
		Delete:         api.ComponentDelete,
	})
	r.Path("/slice/{slice}/node/{node}/component/{component}/interface").Name("componentInterfaces").Handler(&resourceHandler{
		Representation: restdata.InterfaceShort{},
		Context:        api.Context,
		Get:            api.ComponentInterfaces,
	})
}
