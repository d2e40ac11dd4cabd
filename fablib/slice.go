// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"sort"
	"time"

	"github.com/diffeo/go-fablib/fim"
)

// Slice is a cached facade over a fim.Slice.  Its nodes are split by
// type into Nodes (VMs), Switches, and FacilityPorts.
type Slice struct {
	facade[fim.Slice]
	orchestrator fim.Orchestrator

	name       cell[string]
	state      cell[string]
	leaseEnd   cell[time.Time]
	nodes      children[fim.Node, *Node]
	switches   children[fim.Node, *Switch]
	facilities children[fim.Node, *FacilityPort]
	services   children[fim.NetworkService, *NetworkService]
}

// NewSlice creates a facade over ref.  orchestrator is used by
// Refresh to fetch a fresh reference; it may be nil, in which case
// Refresh reuses ref.
func NewSlice(ref fim.Slice, orchestrator fim.Orchestrator, cfg *Config) *Slice {
	s := &Slice{orchestrator: orchestrator}
	s.init("slice", ref, cfg, &s.name, &s.state, &s.leaseEnd, &s.nodes,
		&s.switches, &s.facilities, &s.services)
	s.nodes.build = func(ref fim.Node) *Node { return NewNode(ref, s.cfg) }
	s.switches.build = func(ref fim.Node) *Switch { return NewSwitch(ref, s.cfg) }
	s.facilities.build = func(ref fim.Node) *FacilityPort { return NewFacilityPort(ref, s.cfg) }
	s.services.build = func(ref fim.NetworkService) *NetworkService {
		return NewNetworkService(ref, s.cfg)
	}
	return s
}

// Update replaces the remote reference and rebuilds every
// collection.  A nil ref is ignored.
func (s *Slice) Update(ref fim.Slice) {
	s.update(ref, func() {
		s.loadNodes(true)
		s.loadSwitches(true)
		s.loadFacilityPorts(true)
		s.loadNetworkServices(true)
	})
}

// Refresh fetches the slice from the orchestrator again and updates
// the facade with it.
func (s *Slice) Refresh() error {
	ref, err := s.model()
	if err != nil {
		return err
	}
	if s.orchestrator != nil {
		ref, err = s.orchestrator.Slice(ref.Name())
		if err != nil {
			return err
		}
	}
	s.Update(ref)
	return nil
}

// Name returns the name of the slice.
func (s *Slice) Name() string {
	return read(&s.facade, &s.name, nameOf[fim.Slice])
}

// State returns the slice's lifecycle state, such as "StableOK".
func (s *Slice) State() string {
	return read(&s.facade, &s.state, func(ref fim.Slice) (string, error) {
		state, err := ref.State()
		if err != nil {
			return "", err
		}
		return state.String(), nil
	})
}

// LeaseEnd returns the time the slice's lease expires, or the zero
// time if it was never submitted.
func (s *Slice) LeaseEnd() time.Time {
	return read(&s.facade, &s.leaseEnd, fim.Slice.LeaseEnd)
}

// nodesOf lists the slice's nodes of one type.
func nodesOf(nodeType fim.NodeType) func(fim.Slice) (map[string]fim.Node, error) {
	return func(ref fim.Slice) (map[string]fim.Node, error) {
		all, err := ref.Nodes()
		if err != nil {
			return nil, err
		}
		result := make(map[string]fim.Node, len(all))
		for name, node := range all {
			if node.Type() == nodeType {
				result[name] = node
			}
		}
		return result, nil
	}
}

func (s *Slice) loadNodes(refresh bool) {
	if s.stale(s.nodes.empty(), refresh) {
		refill(&s.facade, &s.nodes, "nodes", nodesOf(fim.VM))
	}
}

func (s *Slice) loadSwitches(refresh bool) {
	if s.stale(s.switches.empty(), refresh) {
		refill(&s.facade, &s.switches, "switches", nodesOf(fim.Switch))
	}
}

func (s *Slice) loadFacilityPorts(refresh bool) {
	if s.stale(s.facilities.empty(), refresh) {
		refill(&s.facade, &s.facilities, "facility ports", nodesOf(fim.Facility))
	}
}

func (s *Slice) loadNetworkServices(refresh bool) {
	if s.stale(s.services.empty(), refresh) {
		refill(&s.facade, &s.services, "network services", fim.Slice.NetworkServices)
	}
}

// Nodes returns the slice's VM nodes, sorted by name.
func (s *Slice) Nodes(refresh bool) []*Node {
	s.loadNodes(refresh)
	return s.nodes.list()
}

// NodeMap returns the slice's VM nodes keyed by name.
func (s *Slice) NodeMap(refresh bool) map[string]*Node {
	s.loadNodes(refresh)
	return s.nodes.byName()
}

// Node finds a VM node by name.
func (s *Slice) Node(name string, refresh bool) (*Node, error) {
	s.loadNodes(refresh)
	if node, ok := s.nodes.lookup(name); ok {
		return node, nil
	}
	return nil, ErrNotFound{Kind: "node", Key: name}
}

// Switches returns the slice's switches, sorted by name.
func (s *Slice) Switches(refresh bool) []*Switch {
	s.loadSwitches(refresh)
	return s.switches.list()
}

// SwitchMap returns the slice's switches keyed by name.
func (s *Slice) SwitchMap(refresh bool) map[string]*Switch {
	s.loadSwitches(refresh)
	return s.switches.byName()
}

// Switch finds a switch by name.
func (s *Slice) Switch(name string, refresh bool) (*Switch, error) {
	s.loadSwitches(refresh)
	if sw, ok := s.switches.lookup(name); ok {
		return sw, nil
	}
	return nil, ErrNotFound{Kind: "switch", Key: name}
}

// FacilityPorts returns the slice's facility ports, sorted by name.
func (s *Slice) FacilityPorts(refresh bool) []*FacilityPort {
	s.loadFacilityPorts(refresh)
	return s.facilities.list()
}

// FacilityPortMap returns the slice's facility ports keyed by name.
func (s *Slice) FacilityPortMap(refresh bool) map[string]*FacilityPort {
	s.loadFacilityPorts(refresh)
	return s.facilities.byName()
}

// FacilityPort finds a facility port by name.
func (s *Slice) FacilityPort(name string, refresh bool) (*FacilityPort, error) {
	s.loadFacilityPorts(refresh)
	if fp, ok := s.facilities.lookup(name); ok {
		return fp, nil
	}
	return nil, ErrNotFound{Kind: "facility port", Key: name}
}

// NetworkServices returns the slice's network services, sorted by
// name.
func (s *Slice) NetworkServices(refresh bool) []*NetworkService {
	s.loadNetworkServices(refresh)
	return s.services.list()
}

// NetworkServiceMap returns the slice's network services keyed by
// name.
func (s *Slice) NetworkServiceMap(refresh bool) map[string]*NetworkService {
	s.loadNetworkServices(refresh)
	return s.services.byName()
}

// NetworkService finds a network service by name.
func (s *Slice) NetworkService(name string, refresh bool) (*NetworkService, error) {
	s.loadNetworkServices(refresh)
	if ns, ok := s.services.lookup(name); ok {
		return ns, nil
	}
	return nil, ErrNotFound{Kind: "network service", Key: name}
}

// InterfaceMap returns the interfaces of every node, switch, and
// facility port in the slice, keyed by name.
func (s *Slice) InterfaceMap(refresh bool) map[string]*Interface {
	result := make(map[string]*Interface)
	for _, node := range s.Nodes(refresh) {
		for name, iface := range node.InterfaceMap(false) {
			result[name] = iface
		}
	}
	for _, sw := range s.Switches(refresh) {
		for name, iface := range sw.InterfaceMap(false) {
			result[name] = iface
		}
	}
	for _, fp := range s.FacilityPorts(refresh) {
		for name, iface := range fp.InterfaceMap(false) {
			result[name] = iface
		}
	}
	return result
}

// Interfaces returns every interface in the slice, sorted by name.
func (s *Slice) Interfaces(refresh bool) []*Interface {
	all := s.InterfaceMap(refresh)
	result := make([]*Interface, 0, len(all))
	for _, iface := range all {
		result = append(result, iface)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// Interface finds an interface anywhere in the slice by name.
func (s *Slice) Interface(name string, refresh bool) (*Interface, error) {
	if iface, ok := s.InterfaceMap(refresh)[name]; ok {
		return iface, nil
	}
	return nil, ErrNotFound{Kind: "interface", Key: name}
}

// mutate runs f against the remote slice, then brings the facade up
// to date with the result.
func (s *Slice) mutate(f func(fim.Slice) error) error {
	ref, err := s.model()
	if err == nil {
		err = f(ref)
	}
	if err != nil {
		return err
	}
	s.Update(ref)
	return nil
}

func (s *Slice) addNode(name string, nodeType fim.NodeType, site string) error {
	if s.cfg.Avoids(site) {
		return ErrAvoidedSite{Site: site}
	}
	return s.mutate(func(ref fim.Slice) error {
		_, err := ref.AddNode(name, nodeType, site)
		return err
	})
}

// AddNode creates a VM node at site and returns its facade.
func (s *Slice) AddNode(name, site string) (*Node, error) {
	if err := s.addNode(name, fim.VM, site); err != nil {
		return nil, err
	}
	return s.Node(name, false)
}

// AddSwitch creates a switch at site and returns its facade.
func (s *Slice) AddSwitch(name, site string) (*Switch, error) {
	if err := s.addNode(name, fim.Switch, site); err != nil {
		return nil, err
	}
	return s.Switch(name, false)
}

// AddFacilityPort creates a facility port at site and returns its
// facade.
func (s *Slice) AddFacilityPort(name, site string) (*FacilityPort, error) {
	if err := s.addNode(name, fim.Facility, site); err != nil {
		return nil, err
	}
	return s.FacilityPort(name, false)
}

// RemoveNode deletes a node, switch, or facility port by name.
func (s *Slice) RemoveNode(name string) error {
	return s.mutate(func(ref fim.Slice) error {
		return ref.RemoveNode(name)
	})
}

// AddNetworkService creates a network service connecting interfaces
// and returns its facade.
func (s *Slice) AddNetworkService(name string, serviceType fim.ServiceType, interfaces []*Interface) (*NetworkService, error) {
	names := make([]string, len(interfaces))
	for i, iface := range interfaces {
		names[i] = iface.Name()
	}
	err := s.mutate(func(ref fim.Slice) error {
		_, err := ref.AddNetworkService(name, serviceType, names)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.NetworkService(name, false)
}

// RemoveNetworkService deletes a network service by name.
func (s *Slice) RemoveNetworkService(name string) error {
	return s.mutate(func(ref fim.Slice) error {
		return ref.RemoveNetworkService(name)
	})
}

// Submit asks the orchestrator to allocate the slice, then refreshes
// the facade.
func (s *Slice) Submit() error {
	ref, err := s.model()
	if err == nil {
		err = ref.Submit()
	}
	if err != nil {
		return err
	}
	return s.Refresh()
}

// Renew extends the slice's lease.
func (s *Slice) Renew(end time.Time) error {
	return s.mutate(func(ref fim.Slice) error {
		return ref.Renew(end)
	})
}

// Destroy deletes the slice.  The facade is left invalidated.
func (s *Slice) Destroy() error {
	ref, err := s.model()
	if err == nil {
		err = ref.Destroy()
	}
	if err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// ToDict returns the slice's properties, leaving out the keys in
// skip.
func (s *Slice) ToDict(skip ...string) *Dict {
	return project(skip).
		str("name", s.Name).
		str("state", s.State).
		value("lease_end", func() interface{} {
			end := s.LeaseEnd()
			if end.IsZero() {
				return nil
			}
			return end.UTC().Format(time.RFC3339)
		}).
		dict
}
