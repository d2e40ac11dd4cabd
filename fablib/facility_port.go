// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"github.com/diffeo/go-fablib/fim"
)

// FacilityPort is a cached facade over a fim.Node of type
// fim.Facility.
type FacilityPort struct {
	facade[fim.Node]

	name       cell[string]
	site       cell[string]
	interfaces children[fim.Interface, *Interface]
}

// NewFacilityPort creates a facade over ref.
func NewFacilityPort(ref fim.Node, cfg *Config) *FacilityPort {
	fp := &FacilityPort{}
	fp.init("facility_port", ref, cfg, &fp.name, &fp.site, &fp.interfaces)
	fp.interfaces.build = func(ref fim.Interface) *Interface {
		return newInterface(ref, fp, fp.cfg)
	}
	return fp
}

// Update replaces the remote reference and rebuilds the interfaces.
// A nil ref is ignored.
func (fp *FacilityPort) Update(ref fim.Node) {
	fp.update(ref, func() { fp.loadInterfaces(true) })
}

// Name returns the name of the facility port.
func (fp *FacilityPort) Name() string {
	return read(&fp.facade, &fp.name, nameOf[fim.Node])
}

// Site returns the site of the facility port.
func (fp *FacilityPort) Site() string {
	return read(&fp.facade, &fp.site, fim.Node.Site)
}

// Model is always empty; facility port interfaces have no model.
func (fp *FacilityPort) Model() string {
	return ""
}

func (fp *FacilityPort) loadInterfaces(refresh bool) {
	if fp.stale(fp.interfaces.empty(), refresh) {
		refill(&fp.facade, &fp.interfaces, "interfaces", fim.Node.Interfaces)
	}
}

// Interfaces returns the facility port's interfaces, sorted by name.
func (fp *FacilityPort) Interfaces(refresh bool) []*Interface {
	fp.loadInterfaces(refresh)
	return fp.interfaces.list()
}

// InterfaceMap returns the facility port's interfaces keyed by name.
func (fp *FacilityPort) InterfaceMap(refresh bool) map[string]*Interface {
	fp.loadInterfaces(refresh)
	return fp.interfaces.byName()
}

// Interface finds one interface by name.
func (fp *FacilityPort) Interface(name string, refresh bool) (*Interface, error) {
	fp.loadInterfaces(refresh)
	if iface, ok := fp.interfaces.lookup(name); ok {
		return iface, nil
	}
	return nil, ErrNotFound{Kind: "interface", Key: name}
}

// ToDict returns the facility port's properties, leaving out the
// keys in skip.
func (fp *FacilityPort) ToDict(skip ...string) *Dict {
	return project(skip).
		str("name", fp.Name).
		str("site", fp.Site).
		dict
}
