// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"github.com/diffeo/go-fablib/fim"
)

// Component is a cached facade over a fim.Component.
type Component struct {
	facade[fim.Component]
	node *Node

	name       cell[string]
	catalog    cell[string]
	ctype      cell[fim.ComponentType]
	interfaces children[fim.Interface, *Interface]
}

func newComponent(ref fim.Component, node *Node, cfg *Config) *Component {
	c := &Component{node: node}
	c.init("component", ref, cfg, &c.name, &c.catalog, &c.ctype, &c.interfaces)
	c.interfaces.build = func(ref fim.Interface) *Interface {
		return newInterface(ref, c, c.cfg)
	}
	return c
}

// Update replaces the remote reference and rebuilds the component's
// interfaces.  A nil ref is ignored.
func (c *Component) Update(ref fim.Component) {
	c.update(ref, func() { c.loadInterfaces(true) })
}

// Node returns the node the component is attached to.
func (c *Component) Node() *Node {
	return c.node
}

// Name returns the generated name of the component.
func (c *Component) Name() string {
	return read(&c.facade, &c.name, nameOf[fim.Component])
}

// Model returns the catalog model of the component.
func (c *Component) Model() string {
	return read(&c.facade, &c.catalog, fim.Component.Model)
}

// Type returns the broad class of the component.
func (c *Component) Type() fim.ComponentType {
	return read(&c.facade, &c.ctype, fim.Component.Type)
}

// Site returns the site of the owning node.
func (c *Component) Site() string {
	if c.node == nil {
		return ""
	}
	return c.node.Site()
}

func (c *Component) loadInterfaces(refresh bool) {
	if c.stale(c.interfaces.empty(), refresh) {
		refill(&c.facade, &c.interfaces, "interfaces", fim.Component.Interfaces)
	}
}

// Interfaces returns the component's ports, sorted by name.
func (c *Component) Interfaces(refresh bool) []*Interface {
	c.loadInterfaces(refresh)
	return c.interfaces.list()
}

// InterfaceMap returns the component's ports keyed by name.
func (c *Component) InterfaceMap(refresh bool) map[string]*Interface {
	c.loadInterfaces(refresh)
	return c.interfaces.byName()
}

// ToDict returns the component's properties, leaving out the keys in
// skip.
func (c *Component) ToDict(skip ...string) *Dict {
	return project(skip).
		str("name", c.Name).
		str("model", c.Model).
		str("type", func() string { return string(c.Type()) }).
		str("node", func() string {
			if c.node == nil {
				return ""
			}
			return c.node.Name()
		}).
		dict
}
