// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package fim defines an abstract API to a testbed topology model.
//
// The topology model describes a slice: a set of nodes at sites, the
// components (NICs, GPUs, disks) attached to those nodes, the
// interfaces those components expose, and the network services that
// connect interfaces together.  The model is owned by an external
// orchestrator; this package only describes the surface that client
// code reads it through.
//
// In general, objects here have a small amount of immutable data (a
// Node.Name() never changes, for instance) and the accessors of these
// return the value directly.  Accessors to mutable data return the
// value and an error.  Data that the orchestrator has not allocated
// yet, such as the management IP of a node in a slice that was never
// submitted, is reported as ErrNotAllocated.
//
// Implementations of this API live in the memory, postgres, and
// restclient packages.  The fimtest package contains a test suite
// that every implementation is expected to pass.
package fim

import "time"

// Orchestrator is the principal interface to the topology model.
// Implementations of this interface provide a specific storage
// backend, RPC system, or other way to reach the orchestrator.
type Orchestrator interface {
	// Slice retrieves a Slice object for some name.  If no slice
	// already exists with that name, creates an empty one.
	Slice(name string) (Slice, error)

	// Slices retrieves all of the slices the orchestrator knows
	// about, keyed by name.
	Slices() (map[string]Slice, error)
}

// Slice is a single experiment topology.  A slice has an immutable
// name and owns a collection of nodes and network services.  Names of
// nodes and network services are unique within a slice, and so are
// the generated names of components and interfaces.
type Slice interface {
	// Name returns the name of this slice.
	Name() string

	// Destroy destroys this slice and everything in it.  Any
	// other object retrieved from this slice will return ErrGone
	// afterwards.
	Destroy() error

	// State returns the current lifecycle state of the slice.
	// A slice whose lease has passed reports Dead.
	State() (SliceState, error)

	// Submit asks the orchestrator to allocate everything in the
	// slice.  Objects added since the last submission receive
	// reservation information and label allocations; existing
	// allocations are kept.  The lease is (re)started.
	Submit() error

	// LeaseEnd returns the time the slice's lease expires.  If
	// the slice was never submitted, returns ErrNotSubmitted.
	LeaseEnd() (time.Time, error)

	// Renew extends the slice's lease to a new end time.  The new
	// time must be in the future, or ErrBadLease is returned.
	Renew(end time.Time) error

	// AddNode creates a new node.  If a node with this name
	// already exists, returns ErrAlreadyExists.  Switch nodes are
	// created with a fixed set of ports and facility nodes with a
	// single interface; VM nodes get interfaces by adding
	// components.
	AddNode(name string, nodeType NodeType, site string) (Node, error)

	// Node retrieves a node by name.  If it does not exist,
	// returns ErrNoSuchNode.
	Node(name string) (Node, error)

	// Nodes returns every node in the slice, keyed by name.
	Nodes() (map[string]Node, error)

	// RemoveNode deletes a node, its components, and its
	// interfaces.  Interfaces are detached from any network
	// services they were part of.
	RemoveNode(name string) error

	// Interface retrieves an interface anywhere in the slice by
	// its generated name.  If it does not exist, returns
	// ErrNoSuchInterface.
	Interface(name string) (Interface, error)

	// AddNetworkService creates a network service connecting the
	// named interfaces.  Every interface must exist and must not
	// already be attached to another network service.
	AddNetworkService(name string, serviceType ServiceType, interfaces []string) (NetworkService, error)

	// NetworkService retrieves a network service by name.  If it
	// does not exist, returns ErrNoSuchNetworkService.
	NetworkService(name string) (NetworkService, error)

	// NetworkServices returns every network service in the
	// slice, keyed by name.
	NetworkServices() (map[string]NetworkService, error)

	// RemoveNetworkService deletes a network service and detaches
	// its interfaces.
	RemoveNetworkService(name string) error
}

// Node is a single node in a slice: a virtual machine, a
// programmable switch, or a facility port.
type Node interface {
	// Name returns the name of this node.
	Name() string

	// Type returns the kind of node this is.
	Type() NodeType

	// Site returns the name of the site hosting this node.
	Site() (string, error)

	// ManagementIP returns the address the node can be reached
	// at through the bastion host.
	ManagementIP() (string, error)

	// Image returns the boot image of the node.
	Image() (Image, error)

	// SetImage changes the boot image of the node.  This only
	// takes effect on the next Submit.
	SetImage(image Image) error

	// Capacities returns the requested capacities of the node.
	Capacities() (Capacities, error)

	// SetCapacities changes the requested capacities of the node.
	SetCapacities(capacities Capacities) error

	// CapacityAllocations returns the capacities actually
	// allocated to the node.
	CapacityAllocations() (Capacities, error)

	// LabelAllocations returns the labels allocated to the node,
	// most notably the physical host it landed on.
	LabelAllocations() (Labels, error)

	// ReservationInfo returns the reservation backing this node.
	ReservationInfo() (ReservationInfo, error)

	// Components returns the components attached to this node,
	// keyed by their generated names.
	Components() (map[string]Component, error)

	// AddComponent attaches a new component of some model to the
	// node.  The component's generated name is the node name and
	// the requested name joined by a hyphen.  Only VM nodes can
	// have components.
	AddComponent(name, model string) (Component, error)

	// RemoveComponent detaches a component, by either its short
	// or generated name.
	RemoveComponent(name string) error

	// Interfaces returns every interface of the node.  For VM
	// nodes this is the union of the component interfaces; other
	// nodes own their interfaces directly.
	Interfaces() (map[string]Interface, error)
}

// Component is a device attached to a node.
type Component interface {
	// Name returns the generated name of this component.
	Name() string

	// Model returns the catalog model name, e.g. "NIC_Basic".
	Model() (string, error)

	// Type returns the broad class of component.
	Type() (ComponentType, error)

	// Interfaces returns the ports of this component, keyed by
	// their generated names.
	Interfaces() (map[string]Interface, error)
}

// Interface is a network port on a component, switch, or facility
// port, or a VLAN sub-interface of one of those.
type Interface interface {
	// Name returns the generated name of this interface.
	Name() string

	// LabelAllocations returns the labels allocated to this
	// interface: its MAC address, VLAN, and physical device name.
	LabelAllocations() (Labels, error)

	// Capacities returns the capacities of this interface; only
	// Bandwidth is meaningful.
	Capacities() (Capacities, error)

	// Network returns the name of the network service this
	// interface is attached to, or an empty string.
	Network() (string, error)

	// Interfaces returns the sub-interfaces of this interface.
	Interfaces() (map[string]Interface, error)

	// AddSubInterface creates a VLAN-tagged sub-interface.
	AddSubInterface(name, vlan string) (Interface, error)
}

// NetworkService connects a set of interfaces.
type NetworkService interface {
	// Name returns the name of this network service.
	Name() string

	// Type returns the kind of service.
	Type() (ServiceType, error)

	// Layer returns the network layer the service operates at.
	Layer() (Layer, error)

	// LabelAllocations returns the labels allocated to the
	// service; for layer 3 services these carry the subnet.
	LabelAllocations() (Labels, error)

	// Gateway returns the gateway of a layer 3 service.
	Gateway() (Gateway, error)

	// ReservationInfo returns the reservation backing this
	// service.
	ReservationInfo() (ReservationInfo, error)

	// Interfaces returns the interfaces attached to this service.
	Interfaces() (map[string]Interface, error)
}

// Capacities describes the size of a node or interface.
type Capacities struct {
	// Core is the number of CPU cores.
	Core int `json:"core,omitempty"`

	// RAM is the memory size in gigabytes.
	RAM int `json:"ram,omitempty"`

	// Disk is the disk size in gigabytes.
	Disk int `json:"disk,omitempty"`

	// Bandwidth is the link speed in gigabits per second.
	Bandwidth int `json:"bw,omitempty"`
}

// Labels are orchestrator-assigned identifiers.  Not every field
// applies to every object.
type Labels struct {
	MAC            string `json:"mac,omitempty"`
	VLAN           string `json:"vlan,omitempty"`
	LocalName      string `json:"local_name,omitempty"`
	IPv4Subnet     string `json:"ipv4_subnet,omitempty"`
	IPv6Subnet     string `json:"ipv6_subnet,omitempty"`
	InstanceParent string `json:"instance_parent,omitempty"`
}

// ReservationInfo describes the orchestrator reservation backing an
// object.
type ReservationInfo struct {
	ID           string `json:"reservation_id"`
	State        string `json:"reservation_state"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Gateway describes the router of a layer 3 network service.
type Gateway struct {
	Gateway string `json:"gateway"`
	Subnet  string `json:"subnet"`
}

// Image names a boot image.
type Image struct {
	Ref  string `json:"image_ref"`
	Type string `json:"image_type"`
}
