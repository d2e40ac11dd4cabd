// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
)

type node struct {
	resource
	s              *slice
	Representation restdata.Node
}

func (n *node) Refresh() error {
	repr := restdata.Node{}
	err := n.Get(&repr)
	if err != nil {
		return nodeGone(err)
	}
	n.Representation = repr
	return nil
}

func (n *node) Name() string {
	return n.Representation.Name
}

func (n *node) Type() fim.NodeType {
	return n.Representation.Type
}

func (n *node) Site() (string, error) {
	err := n.Refresh()
	return n.Representation.Site, err
}

func (n *node) ManagementIP() (string, error) {
	err := n.Refresh()
	if err == nil && n.Representation.ManagementIP == nil {
		err = fim.ErrNotAllocated{Property: "management IP"}
	}
	if err != nil {
		return "", err
	}
	return *n.Representation.ManagementIP, nil
}

func (n *node) Image() (fim.Image, error) {
	err := n.Refresh()
	return n.Representation.Image, err
}

func (n *node) update(req restdata.NodeUpdate) error {
	repr := restdata.Node{}
	err := n.Put(req, &repr)
	if err != nil {
		return nodeGone(err)
	}
	n.Representation = repr
	return nil
}

func (n *node) SetImage(image fim.Image) error {
	return n.update(restdata.NodeUpdate{Image: &image})
}

func (n *node) Capacities() (fim.Capacities, error) {
	err := n.Refresh()
	return n.Representation.Capacities, err
}

func (n *node) SetCapacities(capacities fim.Capacities) error {
	return n.update(restdata.NodeUpdate{Capacities: &capacities})
}

func (n *node) CapacityAllocations() (fim.Capacities, error) {
	err := n.Refresh()
	if err == nil && n.Representation.CapacityAllocations == nil {
		err = fim.ErrNotAllocated{Property: "capacity allocations"}
	}
	if err != nil {
		return fim.Capacities{}, err
	}
	return *n.Representation.CapacityAllocations, nil
}

func (n *node) LabelAllocations() (fim.Labels, error) {
	err := n.Refresh()
	if err == nil && n.Representation.LabelAllocations == nil {
		err = fim.ErrNotAllocated{Property: "label allocations"}
	}
	if err != nil {
		return fim.Labels{}, err
	}
	return *n.Representation.LabelAllocations, nil
}

func (n *node) ReservationInfo() (fim.ReservationInfo, error) {
	err := n.Refresh()
	if err == nil && n.Representation.ReservationInfo == nil {
		err = fim.ErrNotAllocated{Property: "reservation"}
	}
	if err != nil {
		return fim.ReservationInfo{}, err
	}
	return *n.Representation.ReservationInfo, nil
}

func (n *node) newComponent(name, ref string) (*component, error) {
	var err error
	c := &component{node: n, name: name}
	c.URL, err = n.Link(ref)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (n *node) Components() (map[string]fim.Component, error) {
	var resp restdata.ComponentList
	err := n.GetFrom(n.Representation.ComponentsURL, map[string]interface{}{}, &resp)
	if err != nil {
		return nil, nodeGone(err)
	}
	result := make(map[string]fim.Component, len(resp.Components))
	for _, summary := range resp.Components {
		c, err := n.newComponent(summary.Name, summary.URL)
		if err != nil {
			return nil, err
		}
		result[summary.Name] = c
	}
	return result, nil
}

func (n *node) AddComponent(name, model string) (fim.Component, error) {
	req := restdata.Component{Model: model}
	req.Name = name
	var repr restdata.Component
	err := n.PostTo(n.Representation.ComponentsURL, map[string]interface{}{}, req, &repr)
	if err != nil {
		return nil, nodeGone(err)
	}
	c, err := n.newComponent(repr.Name, repr.URL)
	if err != nil {
		return nil, err
	}
	c.Representation = repr
	return c, nil
}

func (n *node) RemoveComponent(name string) error {
	err := n.DeleteAt(n.Representation.ComponentURL, map[string]interface{}{"component": name})
	return nodeGone(err)
}

func (n *node) Interfaces() (map[string]fim.Interface, error) {
	return n.s.interfaces(n.Representation.InterfacesURL, nodeGone)
}

type component struct {
	resource
	node           *node
	name           string
	Representation restdata.Component
}

func (c *component) Refresh() error {
	repr := restdata.Component{}
	err := c.Get(&repr)
	if err != nil {
		return gone(err)
	}
	c.Representation = repr
	return nil
}

func (c *component) Name() string {
	return c.name
}

func (c *component) Model() (string, error) {
	err := c.Refresh()
	return c.Representation.Model, err
}

func (c *component) Type() (fim.ComponentType, error) {
	err := c.Refresh()
	return c.Representation.Type, err
}

func (c *component) Interfaces() (map[string]fim.Interface, error) {
	err := c.Refresh()
	if err != nil {
		return nil, err
	}
	return c.node.s.interfaces(c.Representation.InterfacesURL, gone)
}
