// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package topology

import (
	"github.com/diffeo/go-fablib/fim"
)

// Handles re-resolve their object by name on every call, so a handle
// to a removed object reports fim.ErrGone instead of stale data.

type node struct {
	s        *slice
	name     string
	nodeType fim.NodeType
}

func (n *node) view(f func(*Slice, *Node) error) error {
	return n.s.view(func(doc *Slice) error {
		record, present := doc.Nodes[n.name]
		if !present {
			return fim.ErrGone
		}
		return f(doc, record)
	})
}

func (n *node) update(f func(*Slice, *Node) error) error {
	return n.s.update(func(doc *Slice) error {
		record, present := doc.Nodes[n.name]
		if !present {
			return fim.ErrGone
		}
		return f(doc, record)
	})
}

func (n *node) Name() string {
	return n.name
}

func (n *node) Type() fim.NodeType {
	return n.nodeType
}

func (n *node) Site() (site string, err error) {
	err = n.view(func(_ *Slice, record *Node) error {
		site = record.Site
		return nil
	})
	return
}

func (n *node) ManagementIP() (ip string, err error) {
	err = n.view(func(_ *Slice, record *Node) error {
		if record.ManagementIP == "" {
			return fim.ErrNotAllocated{Property: "management IP"}
		}
		ip = record.ManagementIP
		return nil
	})
	return
}

func (n *node) Image() (image fim.Image, err error) {
	err = n.view(func(_ *Slice, record *Node) error {
		image = record.Image
		return nil
	})
	return
}

func (n *node) SetImage(image fim.Image) error {
	return n.update(func(_ *Slice, record *Node) error {
		record.Image = image
		return nil
	})
}

func (n *node) Capacities() (capacities fim.Capacities, err error) {
	err = n.view(func(_ *Slice, record *Node) error {
		capacities = record.Capacities
		return nil
	})
	return
}

func (n *node) SetCapacities(capacities fim.Capacities) error {
	return n.update(func(_ *Slice, record *Node) error {
		record.Capacities = capacities
		return nil
	})
}

func (n *node) CapacityAllocations() (capacities fim.Capacities, err error) {
	err = n.view(func(_ *Slice, record *Node) error {
		if record.Allocations == nil {
			return fim.ErrNotAllocated{Property: "capacity allocations"}
		}
		capacities = *record.Allocations
		return nil
	})
	return
}

func (n *node) LabelAllocations() (labels fim.Labels, err error) {
	err = n.view(func(_ *Slice, record *Node) error {
		if record.Labels == nil {
			return fim.ErrNotAllocated{Property: "label allocations"}
		}
		labels = *record.Labels
		return nil
	})
	return
}

func (n *node) ReservationInfo() (info fim.ReservationInfo, err error) {
	err = n.view(func(doc *Slice, record *Node) error {
		info, err = doc.Reservation(record.Reservation, n.s.now())
		return err
	})
	return
}

func (n *node) Components() (result map[string]fim.Component, err error) {
	err = n.view(func(_ *Slice, record *Node) error {
		result = make(map[string]fim.Component, len(record.Components))
		for name := range record.Components {
			result[name] = &component{node: n, name: name}
		}
		return nil
	})
	return
}

func (n *node) AddComponent(name, model string) (result fim.Component, err error) {
	err = n.update(func(doc *Slice, record *Node) error {
		comp, err := doc.AddComponent(record, name, model)
		if err != nil {
			return err
		}
		result = &component{node: n, name: comp.Name}
		return nil
	})
	return
}

func (n *node) RemoveComponent(name string) error {
	return n.update(func(doc *Slice, record *Node) error {
		return doc.RemoveComponent(record, name)
	})
}

func (n *node) Interfaces() (result map[string]fim.Interface, err error) {
	err = n.view(func(_ *Slice, record *Node) error {
		result = n.s.interfaceHandles(record.AllInterfaces())
		return nil
	})
	return
}

type component struct {
	node *node
	name string
}

func (c *component) view(f func(*Component) error) error {
	return c.node.view(func(_ *Slice, record *Node) error {
		comp, present := record.Components[c.name]
		if !present {
			return fim.ErrGone
		}
		return f(comp)
	})
}

func (c *component) Name() string {
	return c.name
}

func (c *component) Model() (model string, err error) {
	err = c.view(func(comp *Component) error {
		model = comp.Model
		return nil
	})
	return
}

func (c *component) Type() (componentType fim.ComponentType, err error) {
	err = c.view(func(comp *Component) error {
		componentType = comp.Type
		return nil
	})
	return
}

func (c *component) Interfaces() (result map[string]fim.Interface, err error) {
	err = c.view(func(comp *Component) error {
		result = c.node.s.interfaceHandles(comp.Interfaces)
		return nil
	})
	return
}

type iface struct {
	s    *slice
	name string
}

func (i *iface) view(f func(*Interface) error) error {
	return i.s.view(func(doc *Slice) error {
		record := doc.FindInterface(i.name)
		if record == nil {
			return fim.ErrGone
		}
		return f(record)
	})
}

func (i *iface) Name() string {
	return i.name
}

func (i *iface) LabelAllocations() (labels fim.Labels, err error) {
	err = i.view(func(record *Interface) error {
		if record.Labels == nil {
			return fim.ErrNotAllocated{Property: "label allocations"}
		}
		labels = *record.Labels
		return nil
	})
	return
}

func (i *iface) Capacities() (capacities fim.Capacities, err error) {
	err = i.view(func(record *Interface) error {
		capacities = record.Capacities
		return nil
	})
	return
}

func (i *iface) Network() (network string, err error) {
	err = i.view(func(record *Interface) error {
		network = record.Network
		return nil
	})
	return
}

func (i *iface) Interfaces() (result map[string]fim.Interface, err error) {
	err = i.view(func(record *Interface) error {
		result = i.s.interfaceHandles(record.Interfaces)
		return nil
	})
	return
}

func (i *iface) AddSubInterface(name, vlan string) (result fim.Interface, err error) {
	err = i.s.update(func(doc *Slice) error {
		record := doc.FindInterface(i.name)
		if record == nil {
			return fim.ErrGone
		}
		sub, err := doc.AddSubInterface(record, name, vlan)
		if err != nil {
			return err
		}
		result = &iface{s: i.s, name: sub.Name}
		return nil
	})
	return
}

type service struct {
	s    *slice
	name string
}

func (v *service) view(f func(*Slice, *Service) error) error {
	return v.s.view(func(doc *Slice) error {
		record, present := doc.Services[v.name]
		if !present {
			return fim.ErrGone
		}
		return f(doc, record)
	})
}

func (v *service) Name() string {
	return v.name
}

func (v *service) Type() (serviceType fim.ServiceType, err error) {
	err = v.view(func(_ *Slice, record *Service) error {
		serviceType = record.Type
		return nil
	})
	return
}

func (v *service) Layer() (layer fim.Layer, err error) {
	err = v.view(func(_ *Slice, record *Service) error {
		layer = record.Type.Layer()
		return nil
	})
	return
}

func (v *service) LabelAllocations() (labels fim.Labels, err error) {
	err = v.view(func(_ *Slice, record *Service) error {
		if record.Labels == nil {
			return fim.ErrNotAllocated{Property: "label allocations"}
		}
		labels = *record.Labels
		return nil
	})
	return
}

func (v *service) Gateway() (gateway fim.Gateway, err error) {
	err = v.view(func(_ *Slice, record *Service) error {
		if record.Gateway == nil {
			return fim.ErrNotAllocated{Property: "gateway"}
		}
		gateway = *record.Gateway
		return nil
	})
	return
}

func (v *service) ReservationInfo() (info fim.ReservationInfo, err error) {
	err = v.view(func(doc *Slice, record *Service) error {
		info, err = doc.Reservation(record.Reservation, v.s.now())
		return err
	})
	return
}

func (v *service) Interfaces() (result map[string]fim.Interface, err error) {
	err = v.view(func(doc *Slice, record *Service) error {
		result = make(map[string]fim.Interface, len(record.Interfaces))
		for _, name := range record.Interfaces {
			if doc.FindInterface(name) != nil {
				result[name] = &iface{s: v.s, name: name}
			}
		}
		return nil
	})
	return
}
