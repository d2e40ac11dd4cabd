// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fimtest

import (
	"time"

	"github.com/diffeo/go-fablib/fim"
)

// TestSliceCreateGet checks that Orchestrator.Slice() is
// create-or-get and that new slices are empty.
func (s *Suite) TestSliceCreateGet() {
	slice := s.NewSlice()

	again, err := s.Orchestrator.Slice(slice.Name())
	if s.NoError(err) {
		s.Equal(slice.Name(), again.Name())
	}

	slices, err := s.Orchestrator.Slices()
	if s.NoError(err) {
		s.Contains(slices, slice.Name())
	}

	state, err := slice.State()
	if s.NoError(err) {
		s.Equal(fim.Nascent, state)
	}

	nodes, err := slice.Nodes()
	if s.NoError(err) {
		s.Empty(nodes)
	}

	services, err := slice.NetworkServices()
	if s.NoError(err) {
		s.Empty(services)
	}

	_, err = slice.LeaseEnd()
	s.Equal(fim.ErrNotSubmitted, err)

	err = slice.Renew(s.Clock.Now().Add(time.Hour))
	s.Equal(fim.ErrNotSubmitted, err)
}

// TestSliceDestroy checks that objects from a destroyed slice report
// ErrGone.
func (s *Suite) TestSliceDestroy() {
	slice := s.NewSlice()
	node := s.AddVM(slice, "n1")

	s.Require().NoError(slice.Destroy())

	_, err := node.Site()
	s.Equal(fim.ErrGone, err)

	_, err = slice.Nodes()
	s.Equal(fim.ErrGone, err)

	slices, err := s.Orchestrator.Slices()
	if s.NoError(err) {
		s.NotContains(slices, slice.Name())
	}
}

// TestSubmit checks the allocations a submission makes.
func (s *Suite) TestSubmit() {
	slice := s.NewSlice()
	node := s.AddVM(slice, "n1")
	s.AddNIC(node, "nic1", "NIC_Basic")
	node2 := s.AddVM(slice, "n2")
	s.AddNIC(node2, "nic1", "NIC_Basic")
	_, err := slice.AddNetworkService("net", fim.L2Bridge,
		[]string{"n1-nic1-p1", "n2-nic1-p1"})
	s.Require().NoError(err)
	svc4, err := slice.AddNetworkService("net4", fim.FABNetv4, nil)
	s.Require().NoError(err)

	_, err = node.ManagementIP()
	s.Equal(fim.ErrNotAllocated{Property: "management IP"}, err)
	_, err = node.ReservationInfo()
	s.Equal(fim.ErrNotAllocated{Property: "reservation"}, err)
	_, err = svc4.Gateway()
	s.Equal(fim.ErrNotAllocated{Property: "gateway"}, err)

	start := s.Clock.Now()
	s.Require().NoError(slice.Submit())

	state, err := slice.State()
	if s.NoError(err) {
		s.Equal(fim.StableOK, state)
	}

	end, err := slice.LeaseEnd()
	if s.NoError(err) {
		s.True(end.Equal(start.Add(24*time.Hour)), "lease end %v", end)
	}

	info, err := node.ReservationInfo()
	if s.NoError(err) {
		s.NotEmpty(info.ID)
		s.Equal(fim.ReservationActive, info.State)
	}

	ip, err := node.ManagementIP()
	if s.NoError(err) {
		s.NotEmpty(ip)
	}

	labels, err := node.LabelAllocations()
	if s.NoError(err) {
		s.Equal("STAR-w1.fabric-testbed.net", labels.InstanceParent)
	}

	allocated, err := node.CapacityAllocations()
	if s.NoError(err) {
		s.Equal(fim.Capacities{Core: 2, RAM: 8, Disk: 10}, allocated)
	}

	iface, err := slice.Interface("n1-nic1-p1")
	s.Require().NoError(err)
	ifLabels, err := iface.LabelAllocations()
	if s.NoError(err) {
		s.NotEmpty(ifLabels.MAC)
		s.NotEmpty(ifLabels.VLAN)
		s.NotEmpty(ifLabels.LocalName)
	}

	gateway, err := svc4.Gateway()
	if s.NoError(err) {
		s.NotEmpty(gateway.Gateway)
		s.NotEmpty(gateway.Subnet)
	}
	svcLabels, err := svc4.LabelAllocations()
	if s.NoError(err) {
		s.Equal(gateway.Subnet, svcLabels.IPv4Subnet)
	}

	// A second submission keeps existing allocations
	s.Require().NoError(slice.Submit())
	again, err := node.ReservationInfo()
	if s.NoError(err) {
		s.Equal(info.ID, again.ID)
	}
	ip2, err := node.ManagementIP()
	if s.NoError(err) {
		s.Equal(ip, ip2)
	}
}

// TestLeaseExpiry checks that a slice dies when its lease passes, and
// comes back when renewed.
func (s *Suite) TestLeaseExpiry() {
	slice := s.NewSlice()
	node := s.AddVM(slice, "n1")
	s.Require().NoError(slice.Submit())

	s.Clock.Add(25 * time.Hour)

	state, err := slice.State()
	if s.NoError(err) {
		s.Equal(fim.Dead, state)
	}
	info, err := node.ReservationInfo()
	if s.NoError(err) {
		s.Equal(fim.ReservationClosed, info.State)
	}

	err = slice.Renew(s.Clock.Now().Add(-time.Hour))
	s.Equal(fim.ErrBadLease, err)

	end := s.Clock.Now().Add(time.Hour)
	s.Require().NoError(slice.Renew(end))
	leaseEnd, err := slice.LeaseEnd()
	if s.NoError(err) {
		s.True(leaseEnd.Equal(end), "lease end %v", leaseEnd)
	}
	state, err = slice.State()
	if s.NoError(err) {
		s.Equal(fim.StableOK, state)
	}
	info, err = node.ReservationInfo()
	if s.NoError(err) {
		s.Equal(fim.ReservationActive, info.State)
	}
}
