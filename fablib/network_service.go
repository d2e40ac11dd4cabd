// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"github.com/diffeo/go-fablib/fim"
)

// NetworkService is a cached facade over a fim.NetworkService.
type NetworkService struct {
	facade[fim.NetworkService]

	name        cell[string]
	serviceType cell[fim.ServiceType]
	layer       cell[fim.Layer]
	subnet      cell[string]
	gateway     cell[string]
	reservation cell[fim.ReservationInfo]
	interfaces  children[fim.Interface, *Interface]
}

// NewNetworkService creates a facade over ref.
func NewNetworkService(ref fim.NetworkService, cfg *Config) *NetworkService {
	ns := &NetworkService{}
	ns.init("network_service", ref, cfg, &ns.name, &ns.serviceType,
		&ns.layer, &ns.subnet, &ns.gateway, &ns.reservation, &ns.interfaces)
	ns.interfaces.build = func(ref fim.Interface) *Interface {
		return newInterface(ref, nil, ns.cfg)
	}
	return ns
}

// Update replaces the remote reference and rebuilds the attached
// interfaces.  A nil ref is ignored.
func (ns *NetworkService) Update(ref fim.NetworkService) {
	ns.update(ref, func() { ns.loadInterfaces(true) })
}

// Name returns the name of the network service.
func (ns *NetworkService) Name() string {
	return read(&ns.facade, &ns.name, nameOf[fim.NetworkService])
}

// Type returns the kind of service, such as "L2Bridge".
func (ns *NetworkService) Type() fim.ServiceType {
	return read(&ns.facade, &ns.serviceType, fim.NetworkService.Type)
}

// Layer returns "L2" or "L3".
func (ns *NetworkService) Layer() fim.Layer {
	return read(&ns.facade, &ns.layer, fim.NetworkService.Layer)
}

// Subnet returns the allocated IPv4 subnet, or the IPv6 subnet if
// there is no IPv4 one.
func (ns *NetworkService) Subnet() string {
	return read(&ns.facade, &ns.subnet, func(ref fim.NetworkService) (string, error) {
		labels, err := ref.LabelAllocations()
		if labels.IPv4Subnet != "" {
			return labels.IPv4Subnet, err
		}
		return labels.IPv6Subnet, err
	})
}

// Gateway returns the gateway address of a layer 3 service.
func (ns *NetworkService) Gateway() string {
	return read(&ns.facade, &ns.gateway, func(ref fim.NetworkService) (string, error) {
		gateway, err := ref.Gateway()
		return gateway.Gateway, err
	})
}

func (ns *NetworkService) reservationInfo() fim.ReservationInfo {
	return read(&ns.facade, &ns.reservation, fim.NetworkService.ReservationInfo)
}

// ReservationID returns the orchestrator reservation backing the
// service.
func (ns *NetworkService) ReservationID() string {
	return ns.reservationInfo().ID
}

// ReservationState returns the state of the service's reservation.
func (ns *NetworkService) ReservationState() string {
	return ns.reservationInfo().State
}

// ErrorMessage returns the reservation's error message, if any.
func (ns *NetworkService) ErrorMessage() string {
	return ns.reservationInfo().ErrorMessage
}

func (ns *NetworkService) loadInterfaces(refresh bool) {
	if ns.stale(ns.interfaces.empty(), refresh) {
		refill(&ns.facade, &ns.interfaces, "interfaces", fim.NetworkService.Interfaces)
	}
}

// Interfaces returns the attached interfaces, sorted by name.
func (ns *NetworkService) Interfaces(refresh bool) []*Interface {
	ns.loadInterfaces(refresh)
	return ns.interfaces.list()
}

// InterfaceMap returns the attached interfaces keyed by name.
func (ns *NetworkService) InterfaceMap(refresh bool) map[string]*Interface {
	ns.loadInterfaces(refresh)
	return ns.interfaces.byName()
}

// Interface finds one attached interface by name.
func (ns *NetworkService) Interface(name string, refresh bool) (*Interface, error) {
	ns.loadInterfaces(refresh)
	if iface, ok := ns.interfaces.lookup(name); ok {
		return iface, nil
	}
	return nil, ErrNotFound{Kind: "interface", Key: name}
}

// ToDict returns the service's properties, leaving out the keys in
// skip.
func (ns *NetworkService) ToDict(skip ...string) *Dict {
	return project(skip).
		str("name", ns.Name).
		str("type", func() string { return string(ns.Type()) }).
		str("layer", func() string { return string(ns.Layer()) }).
		str("subnet", ns.Subnet).
		str("gateway", ns.Gateway).
		str("state", ns.ReservationState).
		str("error", ns.ErrorMessage).
		dict
}
