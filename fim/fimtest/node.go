// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fimtest

import (
	"github.com/diffeo/go-fablib/fim"
)

// TestNodeDefaults checks a freshly created VM node.
func (s *Suite) TestNodeDefaults() {
	slice := s.NewSlice()
	node := s.AddVM(slice, "n1")
	s.Equal("n1", node.Name())
	s.Equal(fim.VM, node.Type())

	site, err := node.Site()
	if s.NoError(err) {
		s.Equal("STAR", site)
	}

	image, err := node.Image()
	if s.NoError(err) {
		s.Equal(fim.Image{Ref: "default_rocky_8", Type: "qcow2"}, image)
	}

	capacities, err := node.Capacities()
	if s.NoError(err) {
		s.Equal(fim.Capacities{Core: 2, RAM: 8, Disk: 10}, capacities)
	}

	_, err = node.CapacityAllocations()
	s.Equal(fim.ErrNotAllocated{Property: "capacity allocations"}, err)

	_, err = node.LabelAllocations()
	s.Equal(fim.ErrNotAllocated{Property: "label allocations"}, err)

	_, err = slice.AddNode("n1", fim.VM, "UTAH")
	s.Equal(fim.ErrAlreadyExists{Kind: "node", Name: "n1"}, err)

	_, err = slice.Node("n2")
	s.Equal(fim.ErrNoSuchNode{Name: "n2"}, err)

	again, err := slice.Node("n1")
	if s.NoError(err) {
		s.Equal("n1", again.Name())
		s.Equal(fim.VM, again.Type())
	}
}

// TestNodeSetters checks that image and capacity changes are visible
// through other handles.
func (s *Suite) TestNodeSetters() {
	slice := s.NewSlice()
	node := s.AddVM(slice, "n1")

	image := fim.Image{Ref: "default_ubuntu_22", Type: "qcow2"}
	s.Require().NoError(node.SetImage(image))
	capacities := fim.Capacities{Core: 4, RAM: 16, Disk: 100}
	s.Require().NoError(node.SetCapacities(capacities))

	other, err := slice.Node("n1")
	s.Require().NoError(err)
	got, err := other.Image()
	if s.NoError(err) {
		s.Equal(image, got)
	}
	gotCap, err := other.Capacities()
	if s.NoError(err) {
		s.Equal(capacities, gotCap)
	}
}

// TestComponents checks adding, listing, and removing components.
func (s *Suite) TestComponents() {
	slice := s.NewSlice()
	node := s.AddVM(slice, "n1")

	nic1 := s.AddNIC(node, "nic1", "NIC_Basic")
	s.Equal("n1-nic1", nic1.Name())
	model, err := nic1.Model()
	if s.NoError(err) {
		s.Equal("NIC_Basic", model)
	}
	kind, err := nic1.Type()
	if s.NoError(err) {
		s.Equal(fim.SharedNIC, kind)
	}
	s.Equal([]string{"n1-nic1-p1"}, s.InterfaceNames(nic1.Interfaces()))

	nic2 := s.AddNIC(node, "nic2", "NIC_ConnectX_6")
	s.Equal([]string{"n1-nic2-p1", "n1-nic2-p2"},
		s.InterfaceNames(nic2.Interfaces()))
	s.Equal([]string{"n1-nic1-p1", "n1-nic2-p1", "n1-nic2-p2"},
		s.InterfaceNames(node.Interfaces()))

	_, err = node.AddComponent("nic1", "NIC_Basic")
	s.Equal(fim.ErrAlreadyExists{Kind: "component", Name: "n1-nic1"}, err)

	_, err = node.AddComponent("gpu", "GPU_H100")
	s.Equal(fim.ErrUnknownModel{Model: "GPU_H100"}, err)

	comps, err := node.Components()
	if s.NoError(err) {
		s.Len(comps, 2)
		s.Contains(comps, "n1-nic1")
		s.Contains(comps, "n1-nic2")
	}

	s.Require().NoError(node.RemoveComponent("nic2"))
	s.Equal([]string{"n1-nic1-p1"}, s.InterfaceNames(node.Interfaces()))
	_, err = nic2.Model()
	s.Equal(fim.ErrGone, err)

	err = node.RemoveComponent("nic2")
	s.Equal(fim.ErrNoSuchComponent{Name: "nic2"}, err)

	s.Require().NoError(node.RemoveComponent("n1-nic1"))
	comps, err = node.Components()
	if s.NoError(err) {
		s.Empty(comps)
	}
}

// TestSwitchNode checks that switches come with a fixed set of ports
// and refuse components.
func (s *Suite) TestSwitchNode() {
	slice := s.NewSlice()
	sw, err := slice.AddNode("sw", fim.Switch, "STAR")
	s.Require().NoError(err)
	s.Equal(fim.Switch, sw.Type())

	names := s.InterfaceNames(sw.Interfaces())
	if s.Len(names, fim.SwitchPorts) {
		s.Equal("sw-p1", names[0])
	}

	_, err = sw.AddComponent("nic1", "NIC_Basic")
	s.Equal(fim.ErrWrongNodeType, err)

	port, err := slice.Interface("sw-p1")
	s.Require().NoError(err)
	capacities, err := port.Capacities()
	if s.NoError(err) {
		s.Equal(100, capacities.Bandwidth)
	}
}

// TestFacilityNode checks that facility ports have a single
// interface.
func (s *Suite) TestFacilityNode() {
	slice := s.NewSlice()
	fac, err := slice.AddNode("Cloud-Facility", fim.Facility, "STAR")
	s.Require().NoError(err)
	s.Equal([]string{"Cloud-Facility-int"}, s.InterfaceNames(fac.Interfaces()))
}

// TestSubInterface checks VLAN sub-interfaces.
func (s *Suite) TestSubInterface() {
	slice := s.NewSlice()
	node := s.AddVM(slice, "n1")
	s.AddNIC(node, "nic1", "NIC_ConnectX_6")

	parent, err := slice.Interface("n1-nic1-p1")
	s.Require().NoError(err)
	sub, err := parent.AddSubInterface("vlan200", "200")
	s.Require().NoError(err)
	s.Equal("n1-nic1-p1-vlan200", sub.Name())

	labels, err := sub.LabelAllocations()
	if s.NoError(err) {
		s.Equal("200", labels.VLAN)
	}
	s.Equal([]string{"n1-nic1-p1-vlan200"}, s.InterfaceNames(parent.Interfaces()))

	_, err = parent.AddSubInterface("vlan200", "201")
	s.Equal(fim.ErrAlreadyExists{Kind: "interface", Name: "n1-nic1-p1-vlan200"}, err)

	found, err := slice.Interface("n1-nic1-p1-vlan200")
	if s.NoError(err) {
		s.Equal(sub.Name(), found.Name())
	}

	_, err = slice.Interface("n1-nic1-p9")
	s.Equal(fim.ErrNoSuchInterface{Name: "n1-nic1-p9"}, err)
}
