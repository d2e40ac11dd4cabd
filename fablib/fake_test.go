// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"github.com/diffeo/go-fablib/fim"
)

// The fakes in this file are remote model objects that count how
// often each of their properties is read.  A nil pointer field means
// "not allocated".

type calls map[string]int

type fakeInterface struct {
	name    string
	labels  *fim.Labels
	bw      int
	network string
	subs    map[string]fim.Interface
	calls   calls
}

func newFakeInterface(name string) *fakeInterface {
	return &fakeInterface{name: name, bw: 100, calls: calls{}}
}

func (f *fakeInterface) Name() string {
	f.calls["Name"]++
	return f.name
}

func (f *fakeInterface) LabelAllocations() (fim.Labels, error) {
	f.calls["LabelAllocations"]++
	if f.labels == nil {
		return fim.Labels{}, fim.ErrNotAllocated{Property: "label allocations"}
	}
	return *f.labels, nil
}

func (f *fakeInterface) Capacities() (fim.Capacities, error) {
	f.calls["Capacities"]++
	return fim.Capacities{Bandwidth: f.bw}, nil
}

func (f *fakeInterface) Network() (string, error) {
	f.calls["Network"]++
	return f.network, nil
}

func (f *fakeInterface) Interfaces() (map[string]fim.Interface, error) {
	f.calls["Interfaces"]++
	return f.subs, nil
}

func (f *fakeInterface) AddSubInterface(name, vlan string) (fim.Interface, error) {
	sub := newFakeInterface(fim.QualifiedName(f.name, name))
	sub.labels = &fim.Labels{VLAN: vlan}
	if f.subs == nil {
		f.subs = make(map[string]fim.Interface)
	}
	f.subs[sub.name] = sub
	return sub, nil
}

type fakeComponent struct {
	name       string
	model      string
	interfaces map[string]fim.Interface
	calls      calls
}

func newFakeComponent(name, model string, ports ...*fakeInterface) *fakeComponent {
	c := &fakeComponent{
		name:       name,
		model:      model,
		interfaces: make(map[string]fim.Interface),
		calls:      calls{},
	}
	for _, port := range ports {
		c.interfaces[port.name] = port
	}
	return c
}

func (f *fakeComponent) Name() string {
	f.calls["Name"]++
	return f.name
}

func (f *fakeComponent) Model() (string, error) {
	f.calls["Model"]++
	return f.model, nil
}

func (f *fakeComponent) Type() (fim.ComponentType, error) {
	f.calls["Type"]++
	model, err := fim.LookupModel(f.model)
	return model.Type, err
}

func (f *fakeComponent) Interfaces() (map[string]fim.Interface, error) {
	f.calls["Interfaces"]++
	return f.interfaces, nil
}

type fakeNode struct {
	name        string
	nodeType    fim.NodeType
	site        string
	ip          string
	image       fim.Image
	capacities  fim.Capacities
	allocated   *fim.Capacities
	labels      *fim.Labels
	reservation *fim.ReservationInfo
	components  map[string]fim.Component
	interfaces  map[string]fim.Interface
	enumErr     error
	calls       calls
}

func newFakeNode(name string) *fakeNode {
	return &fakeNode{
		name:       name,
		nodeType:   fim.VM,
		site:       "STAR",
		image:      fim.Image{Ref: "default_rocky_8", Type: "qcow2"},
		capacities: fim.Capacities{Core: 2, RAM: 8, Disk: 10},
		components: make(map[string]fim.Component),
		interfaces: make(map[string]fim.Interface),
		calls:      calls{},
	}
}

func (f *fakeNode) Name() string {
	f.calls["Name"]++
	return f.name
}

func (f *fakeNode) Type() fim.NodeType {
	return f.nodeType
}

func (f *fakeNode) Site() (string, error) {
	f.calls["Site"]++
	return f.site, nil
}

func (f *fakeNode) ManagementIP() (string, error) {
	f.calls["ManagementIP"]++
	if f.ip == "" {
		return "", fim.ErrNotAllocated{Property: "management IP"}
	}
	return f.ip, nil
}

func (f *fakeNode) Image() (fim.Image, error) {
	f.calls["Image"]++
	return f.image, nil
}

func (f *fakeNode) SetImage(image fim.Image) error {
	f.image = image
	return nil
}

func (f *fakeNode) Capacities() (fim.Capacities, error) {
	f.calls["Capacities"]++
	return f.capacities, nil
}

func (f *fakeNode) SetCapacities(capacities fim.Capacities) error {
	f.capacities = capacities
	return nil
}

func (f *fakeNode) CapacityAllocations() (fim.Capacities, error) {
	f.calls["CapacityAllocations"]++
	if f.allocated == nil {
		return fim.Capacities{}, fim.ErrNotAllocated{Property: "capacity allocations"}
	}
	return *f.allocated, nil
}

func (f *fakeNode) LabelAllocations() (fim.Labels, error) {
	f.calls["LabelAllocations"]++
	if f.labels == nil {
		return fim.Labels{}, fim.ErrNotAllocated{Property: "label allocations"}
	}
	return *f.labels, nil
}

func (f *fakeNode) ReservationInfo() (fim.ReservationInfo, error) {
	f.calls["ReservationInfo"]++
	if f.reservation == nil {
		return fim.ReservationInfo{}, fim.ErrNotAllocated{Property: "reservation"}
	}
	return *f.reservation, nil
}

func (f *fakeNode) Components() (map[string]fim.Component, error) {
	f.calls["Components"]++
	if f.enumErr != nil {
		return nil, f.enumErr
	}
	result := make(map[string]fim.Component, len(f.components))
	for name, comp := range f.components {
		result[name] = comp
	}
	return result, nil
}

func (f *fakeNode) AddComponent(name, model string) (fim.Component, error) {
	qualified := fim.QualifiedName(f.name, name)
	comp := newFakeComponent(qualified, model, newFakeInterface(fim.PortName(qualified, 1)))
	f.components[qualified] = comp
	return comp, nil
}

func (f *fakeNode) RemoveComponent(name string) error {
	qualified := fim.QualifiedName(f.name, name)
	if _, present := f.components[qualified]; !present {
		return fim.ErrNoSuchComponent{Name: name}
	}
	delete(f.components, qualified)
	return nil
}

func (f *fakeNode) Interfaces() (map[string]fim.Interface, error) {
	f.calls["Interfaces"]++
	if f.enumErr != nil {
		return nil, f.enumErr
	}
	return f.interfaces, nil
}

type fakeService struct {
	name        string
	serviceType fim.ServiceType
	labels      *fim.Labels
	gateway     *fim.Gateway
	interfaces  map[string]fim.Interface
	calls       calls
}

func (f *fakeService) Name() string {
	f.calls["Name"]++
	return f.name
}

func (f *fakeService) Type() (fim.ServiceType, error) {
	f.calls["Type"]++
	return f.serviceType, nil
}

func (f *fakeService) Layer() (fim.Layer, error) {
	f.calls["Layer"]++
	return f.serviceType.Layer(), nil
}

func (f *fakeService) LabelAllocations() (fim.Labels, error) {
	f.calls["LabelAllocations"]++
	if f.labels == nil {
		return fim.Labels{}, fim.ErrNotAllocated{Property: "label allocations"}
	}
	return *f.labels, nil
}

func (f *fakeService) Gateway() (fim.Gateway, error) {
	f.calls["Gateway"]++
	if f.gateway == nil {
		return fim.Gateway{}, fim.ErrNotAllocated{Property: "gateway"}
	}
	return *f.gateway, nil
}

func (f *fakeService) ReservationInfo() (fim.ReservationInfo, error) {
	f.calls["ReservationInfo"]++
	return fim.ReservationInfo{}, fim.ErrNotAllocated{Property: "reservation"}
}

func (f *fakeService) Interfaces() (map[string]fim.Interface, error) {
	f.calls["Interfaces"]++
	return f.interfaces, nil
}
