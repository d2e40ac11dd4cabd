// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package topology holds the plain document form of a slice and the
// rules for changing it.
//
// A Slice document is a tree of plain structs with no behavior of
// its own beyond validation and allocation.  Backends store these
// documents however they like (the memory backend keeps pointers in a
// map, the postgres backend keeps CBOR blobs in a table) and expose
// them through NewOrchestrator, which implements the fim interfaces
// on top of any Store.
package topology

import (
	"sort"

	"github.com/diffeo/go-fablib/fim"
)

// Default VM settings for nodes created without explicit capacities.
const (
	DefaultCores     = 2
	DefaultRAM       = 8
	DefaultDisk      = 10
	DefaultImage     = "default_rocky_8"
	DefaultImageType = "qcow2"
)

// Slice is the document form of one slice.
type Slice struct {
	Name string `codec:"name"`

	// Submitted is set once Submit has run.
	Submitted bool `codec:"submitted"`

	// LeaseEnd is the lease end in Unix nanoseconds, if submitted.
	LeaseEnd int64 `codec:"lease_end"`

	// Serial is the allocation counter used to derive addresses
	// and labels.
	Serial int `codec:"serial"`

	Nodes    map[string]*Node    `codec:"nodes"`
	Services map[string]*Service `codec:"services"`
}

// Node is the document form of one node.
type Node struct {
	Name         string               `codec:"name"`
	Type         fim.NodeType         `codec:"type"`
	Site         string               `codec:"site"`
	Image        fim.Image            `codec:"image"`
	Capacities   fim.Capacities       `codec:"capacities"`
	Allocations  *fim.Capacities      `codec:"allocations,omitempty"`
	Labels       *fim.Labels          `codec:"labels,omitempty"`
	ManagementIP string               `codec:"management_ip,omitempty"`
	Reservation  *fim.ReservationInfo `codec:"reservation,omitempty"`

	// Components are keyed by generated name.  Only VM nodes
	// have components.
	Components map[string]*Component `codec:"components"`

	// Interfaces are the ports a switch or facility port owns
	// directly.  VM nodes reach their interfaces through
	// components.
	Interfaces map[string]*Interface `codec:"interfaces"`
}

// Component is the document form of a component.
type Component struct {
	Name       string                `codec:"name"`
	Model      string                `codec:"model"`
	Type       fim.ComponentType     `codec:"type"`
	Interfaces map[string]*Interface `codec:"interfaces"`
}

// Interface is the document form of an interface or sub-interface.
type Interface struct {
	Name       string                `codec:"name"`
	Labels     *fim.Labels           `codec:"labels,omitempty"`
	Capacities fim.Capacities        `codec:"capacities"`
	Network    string                `codec:"network,omitempty"`
	Interfaces map[string]*Interface `codec:"interfaces"`
}

// Service is the document form of a network service.
type Service struct {
	Name        string               `codec:"name"`
	Type        fim.ServiceType      `codec:"type"`
	Interfaces  []string             `codec:"interfaces"`
	Labels      *fim.Labels          `codec:"labels,omitempty"`
	Gateway     *fim.Gateway         `codec:"gateway,omitempty"`
	Reservation *fim.ReservationInfo `codec:"reservation,omitempty"`
}

// NewSlice creates an empty slice document.
func NewSlice(name string) *Slice {
	return &Slice{
		Name:     name,
		Nodes:    make(map[string]*Node),
		Services: make(map[string]*Service),
	}
}

// AddNode creates a node.  Switches get SwitchPorts ports and
// facility ports get a single interface.
func (s *Slice) AddNode(name string, nodeType fim.NodeType, site string) (*Node, error) {
	if _, exists := s.Nodes[name]; exists {
		return nil, fim.ErrAlreadyExists{Kind: "node", Name: name}
	}
	node := &Node{
		Name:       name,
		Type:       nodeType,
		Site:       site,
		Components: make(map[string]*Component),
		Interfaces: make(map[string]*Interface),
	}
	switch nodeType {
	case fim.VM:
		node.Image = fim.Image{Ref: DefaultImage, Type: DefaultImageType}
		node.Capacities = fim.Capacities{
			Core: DefaultCores,
			RAM:  DefaultRAM,
			Disk: DefaultDisk,
		}
	case fim.Switch:
		for i := 1; i <= fim.SwitchPorts; i++ {
			port := newInterface(fim.PortName(name, i), 100)
			node.Interfaces[port.Name] = port
		}
	case fim.Facility:
		port := newInterface(fim.FacilityInterfaceName(name), 0)
		node.Interfaces[port.Name] = port
	default:
		return nil, fim.ErrWrongNodeType
	}
	s.Nodes[name] = node
	return node, nil
}

// RemoveNode deletes a node and detaches all of its interfaces from
// their network services.
func (s *Slice) RemoveNode(name string) error {
	node, present := s.Nodes[name]
	if !present {
		return fim.ErrNoSuchNode{Name: name}
	}
	for _, iface := range node.AllInterfaces() {
		s.detach(iface)
	}
	delete(s.Nodes, name)
	return nil
}

// AddComponent attaches a component of a catalog model to a VM node.
func (s *Slice) AddComponent(node *Node, name, model string) (*Component, error) {
	if node.Type != fim.VM {
		return nil, fim.ErrWrongNodeType
	}
	info, err := fim.LookupModel(model)
	if err != nil {
		return nil, err
	}
	full := fim.QualifiedName(node.Name, name)
	if _, exists := node.Components[full]; exists {
		return nil, fim.ErrAlreadyExists{Kind: "component", Name: full}
	}
	comp := &Component{
		Name:       full,
		Model:      info.Name,
		Type:       info.Type,
		Interfaces: make(map[string]*Interface),
	}
	for i := 1; i <= info.Ports; i++ {
		port := newInterface(fim.PortName(full, i), info.Bandwidth)
		comp.Interfaces[port.Name] = port
	}
	node.Components[full] = comp
	return comp, nil
}

// LookupComponent finds a component on a node by either its short
// or its generated name.
func (node *Node) LookupComponent(name string) (*Component, bool) {
	if comp, present := node.Components[fim.QualifiedName(node.Name, name)]; present {
		return comp, true
	}
	comp, present := node.Components[name]
	return comp, present
}

// RemoveComponent detaches a component from a node.
func (s *Slice) RemoveComponent(node *Node, name string) error {
	comp, present := node.LookupComponent(name)
	if !present {
		return fim.ErrNoSuchComponent{Name: name}
	}
	for _, iface := range comp.Interfaces {
		walk(iface, s.detach)
	}
	delete(node.Components, comp.Name)
	return nil
}

// AddSubInterface creates a VLAN-tagged child of an interface.  The
// generated name is qualified by the parent's name.
func (s *Slice) AddSubInterface(parent *Interface, name, vlan string) (*Interface, error) {
	full := fim.QualifiedName(parent.Name, name)
	if s.FindInterface(full) != nil {
		return nil, fim.ErrAlreadyExists{Kind: "interface", Name: full}
	}
	sub := newInterface(full, parent.Capacities.Bandwidth)
	sub.Labels = &fim.Labels{VLAN: vlan}
	parent.Interfaces[full] = sub
	return sub, nil
}

// AddService creates a network service over existing, unattached
// interfaces.
func (s *Slice) AddService(name string, serviceType fim.ServiceType, interfaces []string) (*Service, error) {
	if _, exists := s.Services[name]; exists {
		return nil, fim.ErrAlreadyExists{Kind: "network service", Name: name}
	}
	if serviceType.Layer() == "" {
		return nil, fim.ErrUnknownServiceType{Type: serviceType}
	}
	attach := make([]*Interface, 0, len(interfaces))
	for _, ifname := range interfaces {
		iface := s.FindInterface(ifname)
		if iface == nil {
			return nil, fim.ErrNoSuchInterface{Name: ifname}
		}
		if iface.Network != "" {
			return nil, fim.ErrAlreadyExists{Kind: "attachment", Name: ifname}
		}
		attach = append(attach, iface)
	}
	svc := &Service{
		Name: name,
		Type: serviceType,
	}
	for _, iface := range attach {
		iface.Network = name
		svc.Interfaces = append(svc.Interfaces, iface.Name)
	}
	sort.Strings(svc.Interfaces)
	s.Services[name] = svc
	return svc, nil
}

// RemoveService deletes a network service and detaches its
// interfaces.
func (s *Slice) RemoveService(name string) error {
	svc, present := s.Services[name]
	if !present {
		return fim.ErrNoSuchNetworkService{Name: name}
	}
	for _, ifname := range svc.Interfaces {
		if iface := s.FindInterface(ifname); iface != nil {
			iface.Network = ""
		}
	}
	delete(s.Services, name)
	return nil
}

// FindInterface finds an interface anywhere in the slice by its
// generated name, or returns nil.
func (s *Slice) FindInterface(name string) *Interface {
	var found *Interface
	s.walkInterfaces(func(iface *Interface) {
		if iface.Name == name {
			found = iface
		}
	})
	return found
}

// AllInterfaces returns the top-level interfaces of a node: its own
// ports plus the ports of its components.
func (node *Node) AllInterfaces() map[string]*Interface {
	result := make(map[string]*Interface, len(node.Interfaces))
	for name, iface := range node.Interfaces {
		result[name] = iface
	}
	for _, comp := range node.Components {
		for name, iface := range comp.Interfaces {
			result[name] = iface
		}
	}
	return result
}

func (s *Slice) walkInterfaces(f func(*Interface)) {
	for _, node := range s.Nodes {
		for _, iface := range node.AllInterfaces() {
			walk(iface, f)
		}
	}
}

// walk calls f on iface and all of its sub-interfaces.
func walk(iface *Interface, f func(*Interface)) {
	f(iface)
	for _, sub := range iface.Interfaces {
		walk(sub, f)
	}
}

// detach removes iface from whatever network service it belongs to.
func (s *Slice) detach(iface *Interface) {
	if iface.Network == "" {
		return
	}
	if svc, present := s.Services[iface.Network]; present {
		kept := svc.Interfaces[:0]
		for _, name := range svc.Interfaces {
			if name != iface.Name {
				kept = append(kept, name)
			}
		}
		svc.Interfaces = kept
	}
	iface.Network = ""
}

func newInterface(name string, bandwidth int) *Interface {
	return &Interface{
		Name:       name,
		Capacities: fim.Capacities{Bandwidth: bandwidth},
		Interfaces: make(map[string]*Interface),
	}
}
