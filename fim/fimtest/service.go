// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fimtest

import (
	"github.com/diffeo/go-fablib/fim"
)

// TestNetworkService checks attaching and detaching interfaces.
func (s *Suite) TestNetworkService() {
	slice := s.NewSlice()
	n1 := s.AddVM(slice, "n1")
	s.AddNIC(n1, "nic1", "NIC_ConnectX_6")
	n2 := s.AddVM(slice, "n2")
	s.AddNIC(n2, "nic1", "NIC_Basic")

	svc, err := slice.AddNetworkService("net", fim.L2PTP,
		[]string{"n1-nic1-p1", "n2-nic1-p1"})
	s.Require().NoError(err)
	s.Equal("net", svc.Name())

	kind, err := svc.Type()
	if s.NoError(err) {
		s.Equal(fim.L2PTP, kind)
	}
	layer, err := svc.Layer()
	if s.NoError(err) {
		s.Equal(fim.L2, layer)
	}
	s.Equal([]string{"n1-nic1-p1", "n2-nic1-p1"},
		s.InterfaceNames(svc.Interfaces()))

	iface, err := slice.Interface("n1-nic1-p1")
	s.Require().NoError(err)
	network, err := iface.Network()
	if s.NoError(err) {
		s.Equal("net", network)
	}

	_, err = slice.AddNetworkService("net", fim.L2PTP, nil)
	s.Equal(fim.ErrAlreadyExists{Kind: "network service", Name: "net"}, err)

	_, err = slice.AddNetworkService("net2", fim.L2Bridge,
		[]string{"n1-nic1-p1"})
	s.Equal(fim.ErrAlreadyExists{Kind: "attachment", Name: "n1-nic1-p1"}, err)

	_, err = slice.AddNetworkService("net2", fim.L2Bridge,
		[]string{"n1-nic1-p3"})
	s.Equal(fim.ErrNoSuchInterface{Name: "n1-nic1-p3"}, err)

	_, err = slice.AddNetworkService("net2", fim.ServiceType("Carrier"), nil)
	s.Equal(fim.ErrUnknownServiceType{Type: "Carrier"}, err)

	// A failed creation leaves no trace
	_, err = slice.NetworkService("net2")
	s.Equal(fim.ErrNoSuchNetworkService{Name: "net2"}, err)

	services, err := slice.NetworkServices()
	if s.NoError(err) {
		s.Len(services, 1)
		s.Contains(services, "net")
	}

	s.Require().NoError(slice.RemoveNetworkService("net"))
	network, err = iface.Network()
	if s.NoError(err) {
		s.Equal("", network)
	}
	_, err = svc.Type()
	s.Equal(fim.ErrGone, err)

	err = slice.RemoveNetworkService("net")
	s.Equal(fim.ErrNoSuchNetworkService{Name: "net"}, err)
}

// TestRemoveNodeDetaches checks that removing a node removes its
// interfaces from network services.
func (s *Suite) TestRemoveNodeDetaches() {
	slice := s.NewSlice()
	n1 := s.AddVM(slice, "n1")
	s.AddNIC(n1, "nic1", "NIC_Basic")
	n2 := s.AddVM(slice, "n2")
	s.AddNIC(n2, "nic1", "NIC_Basic")

	svc, err := slice.AddNetworkService("net", fim.FABNetv4,
		[]string{"n1-nic1-p1", "n2-nic1-p1"})
	s.Require().NoError(err)
	layer, err := svc.Layer()
	if s.NoError(err) {
		s.Equal(fim.L3, layer)
	}

	s.Require().NoError(slice.RemoveNode("n2"))
	s.Equal([]string{"n1-nic1-p1"}, s.InterfaceNames(svc.Interfaces()))

	_, err = n2.Site()
	s.Equal(fim.ErrGone, err)

	err = slice.RemoveNode("n2")
	s.Equal(fim.ErrNoSuchNode{Name: "n2"}, err)
}
