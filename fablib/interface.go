// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"strconv"

	"github.com/diffeo/go-fablib/fim"
)

// owner is whatever an interface hangs off: a component, a switch, a
// facility port, or a parent interface.
type owner interface {
	Site() string
	Model() string
}

// nameOf reads the immutable name of any fim object.
func nameOf[R interface{ Name() string }](ref R) (string, error) {
	return ref.Name(), nil
}

// Interface is a cached facade over a fim.Interface.
type Interface struct {
	facade[fim.Interface]
	owner owner

	name      cell[string]
	labels    cell[fim.Labels]
	mac       cell[string]
	vlan      cell[string]
	physical  cell[string]
	device    cell[string]
	bandwidth cell[int]
	network   cell[string]
	site      cell[string]
	subs      children[fim.Interface, *Interface]
}

// NewInterface creates a facade over ref.  owner may be nil, in which
// case Site and Model are empty.
func NewInterface(ref fim.Interface, cfg *Config) *Interface {
	return newInterface(ref, nil, cfg)
}

func newInterface(ref fim.Interface, o owner, cfg *Config) *Interface {
	i := &Interface{owner: o}
	i.init("interface", ref, cfg, &i.name, &i.labels, &i.mac, &i.vlan,
		&i.physical, &i.device, &i.bandwidth, &i.network, &i.site, &i.subs)
	i.subs.build = func(ref fim.Interface) *Interface {
		return newInterface(ref, i, i.cfg)
	}
	return i
}

// Update replaces the remote reference and rebuilds the
// sub-interfaces.  A nil ref is ignored.
func (i *Interface) Update(ref fim.Interface) {
	i.update(ref, func() { i.loadInterfaces(true) })
}

// Name returns the generated name of the interface.
func (i *Interface) Name() string {
	return read(&i.facade, &i.name, nameOf[fim.Interface])
}

func (i *Interface) labelAllocations() fim.Labels {
	return read(&i.facade, &i.labels, fim.Interface.LabelAllocations)
}

// MAC returns the allocated MAC address.
func (i *Interface) MAC() string {
	return derive(&i.facade, &i.mac, func() string {
		return i.labelAllocations().MAC
	})
}

// VLAN returns the allocated VLAN tag.
func (i *Interface) VLAN() string {
	return derive(&i.facade, &i.vlan, func() string {
		return i.labelAllocations().VLAN
	})
}

// PhysicalOSInterfaceName returns the name of the device the
// interface appears as on its node.
func (i *Interface) PhysicalOSInterfaceName() string {
	return derive(&i.facade, &i.physical, func() string {
		return i.labelAllocations().LocalName
	})
}

// DeviceName returns the device to configure on the node: the
// physical device, with ".vlan" appended if the interface is tagged.
func (i *Interface) DeviceName() string {
	return derive(&i.facade, &i.device, func() string {
		physical := i.PhysicalOSInterfaceName()
		if vlan := i.VLAN(); vlan != "" && physical != "" {
			return physical + "." + vlan
		}
		return physical
	})
}

// Bandwidth returns the link speed in Gbps.
func (i *Interface) Bandwidth() int {
	return read(&i.facade, &i.bandwidth, func(ref fim.Interface) (int, error) {
		capacities, err := ref.Capacities()
		return capacities.Bandwidth, err
	})
}

// Network returns the name of the attached network service, or "".
func (i *Interface) Network() string {
	return read(&i.facade, &i.network, fim.Interface.Network)
}

// Site returns the site of the owning node.
func (i *Interface) Site() string {
	return derive(&i.facade, &i.site, func() string {
		if i.owner == nil {
			return ""
		}
		return i.owner.Site()
	})
}

// Model returns the model of the owning component, or "NIC_P4" for
// switch ports.
func (i *Interface) Model() string {
	if i.owner == nil {
		return ""
	}
	return i.owner.Model()
}

func (i *Interface) loadInterfaces(refresh bool) {
	if i.stale(i.subs.empty(), refresh) {
		refill(&i.facade, &i.subs, "interfaces", fim.Interface.Interfaces)
	}
}

// Interfaces returns the sub-interfaces, sorted by name.
func (i *Interface) Interfaces(refresh bool) []*Interface {
	i.loadInterfaces(refresh)
	return i.subs.list()
}

// InterfaceMap returns the sub-interfaces keyed by name.
func (i *Interface) InterfaceMap(refresh bool) map[string]*Interface {
	i.loadInterfaces(refresh)
	return i.subs.byName()
}

// Interface finds a sub-interface by its generated name or by its
// name relative to this interface.
func (i *Interface) Interface(name string, refresh bool) (*Interface, error) {
	i.loadInterfaces(refresh)
	if sub, ok := i.subs.lookup(name); ok {
		return sub, nil
	}
	if sub, ok := i.subs.lookup(fim.QualifiedName(i.Name(), name)); ok {
		return sub, nil
	}
	return nil, ErrNotFound{Kind: "interface", Key: name}
}

// AddSubInterface creates a VLAN sub-interface and returns its
// facade.
func (i *Interface) AddSubInterface(name, vlan string) (*Interface, error) {
	ref, err := i.model()
	if err == nil {
		_, err = ref.AddSubInterface(name, vlan)
	}
	if err != nil {
		return nil, err
	}
	i.Update(ref)
	return i.Interface(name, false)
}

// ToDict returns the interface's properties, leaving out the keys in
// skip.
func (i *Interface) ToDict(skip ...string) *Dict {
	return project(skip).
		str("name", i.Name).
		value("network", func() interface{} {
			if network := i.Network(); network != "" {
				return network
			}
			return nil
		}).
		str("bandwidth", func() string { return strconv.Itoa(i.Bandwidth()) }).
		str("vlan", i.VLAN).
		str("mac", i.MAC).
		str("physical_dev", i.PhysicalOSInterfaceName).
		str("dev", i.DeviceName).
		str("site", i.Site).
		dict
}
