// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package topology

import (
	"fmt"
	"time"

	"github.com/diffeo/go-fablib/fim"
)

// LeaseDuration is the lease length Submit grants.
const LeaseDuration = 24 * time.Hour

// State returns the lifecycle state of the slice as of now.
func (s *Slice) State(now time.Time) fim.SliceState {
	switch {
	case !s.Submitted:
		return fim.Nascent
	case !now.Before(time.Unix(0, s.LeaseEnd)):
		return fim.Dead
	default:
		return fim.StableOK
	}
}

// Lease returns the lease end time, or ErrNotSubmitted.
func (s *Slice) Lease() (time.Time, error) {
	if !s.Submitted {
		return time.Time{}, fim.ErrNotSubmitted
	}
	return time.Unix(0, s.LeaseEnd), nil
}

// Renew moves the lease end of a submitted slice.
func (s *Slice) Renew(now, end time.Time) error {
	if !s.Submitted {
		return fim.ErrNotSubmitted
	}
	if !end.After(now) {
		return fim.ErrBadLease
	}
	s.LeaseEnd = end.UnixNano()
	return nil
}

// Reservation returns a copy of a reservation as seen at now: once
// the slice is dead, every reservation reports Closed.
func (s *Slice) Reservation(info *fim.ReservationInfo, now time.Time) (fim.ReservationInfo, error) {
	if info == nil {
		return fim.ReservationInfo{}, fim.ErrNotAllocated{Property: "reservation"}
	}
	result := *info
	if s.State(now) == fim.Dead {
		result.State = fim.ReservationClosed
	}
	return result, nil
}

// Submit allocates everything in the slice that does not yet have an
// allocation and starts a fresh lease.  newID generates reservation
// identifiers.
func (s *Slice) Submit(now time.Time, newID func() string) {
	for _, name := range Names(s.Nodes) {
		s.allocateNode(s.Nodes[name], newID)
	}
	for _, name := range Names(s.Services) {
		s.allocateService(s.Services[name], newID)
	}
	s.Submitted = true
	s.LeaseEnd = now.Add(LeaseDuration).UnixNano()
}

func (s *Slice) next() int {
	s.Serial++
	return s.Serial
}

func (s *Slice) allocateNode(node *Node, newID func() string) {
	if node.Reservation == nil {
		node.Reservation = &fim.ReservationInfo{
			ID:    newID(),
			State: fim.ReservationActive,
		}
	}
	if node.Labels == nil {
		node.Labels = &fim.Labels{
			InstanceParent: fmt.Sprintf("%s-w1.fabric-testbed.net", node.Site),
		}
	}
	if node.ManagementIP == "" && node.Type != fim.Facility {
		node.ManagementIP = fmt.Sprintf("2001:db8::%x", s.next())
	}
	if node.Allocations == nil {
		allocated := node.Capacities
		node.Allocations = &allocated
	}
	ifaces := node.AllInterfaces()
	for i, name := range Names(ifaces) {
		local := fmt.Sprintf("ens%d", i+3)
		walk(ifaces[name], func(iface *Interface) {
			s.allocateInterface(iface, local)
		})
	}
}

func (s *Slice) allocateInterface(iface *Interface, local string) {
	if iface.Labels == nil {
		iface.Labels = &fim.Labels{}
	}
	if iface.Labels.MAC == "" {
		serial := s.next()
		iface.Labels.MAC = fmt.Sprintf("02:fa:00:00:%02x:%02x", (serial>>8)&0xff, serial&0xff)
	}
	if iface.Labels.LocalName == "" {
		iface.Labels.LocalName = local
	}
}

func (s *Slice) allocateService(svc *Service, newID func() string) {
	if svc.Reservation == nil {
		svc.Reservation = &fim.ReservationInfo{
			ID:    newID(),
			State: fim.ReservationActive,
		}
	}
	switch svc.Type.Layer() {
	case fim.L2:
		vlan := fmt.Sprintf("%d", 100+s.next())
		for _, name := range svc.Interfaces {
			iface := s.FindInterface(name)
			if iface == nil || iface.Labels == nil {
				continue
			}
			if iface.Labels.VLAN == "" {
				iface.Labels.VLAN = vlan
			}
		}
	case fim.L3:
		if svc.Gateway != nil {
			return
		}
		k := s.next()
		if svc.Type.IPv6() {
			subnet := fmt.Sprintf("2602:fcfb:%x::/64", k)
			svc.Labels = &fim.Labels{IPv6Subnet: subnet}
			svc.Gateway = &fim.Gateway{
				Gateway: fmt.Sprintf("2602:fcfb:%x::1", k),
				Subnet:  subnet,
			}
		} else {
			subnet := fmt.Sprintf("10.128.%d.0/24", k%256)
			svc.Labels = &fim.Labels{IPv4Subnet: subnet}
			svc.Gateway = &fim.Gateway{
				Gateway: fmt.Sprintf("10.128.%d.1", k%256),
				Subnet:  subnet,
			}
		}
	}
}

// Normalize replaces nil maps with empty ones, for documents that
// came back from a decoder.
func (s *Slice) Normalize() {
	if s.Nodes == nil {
		s.Nodes = make(map[string]*Node)
	}
	if s.Services == nil {
		s.Services = make(map[string]*Service)
	}
	for _, node := range s.Nodes {
		if node.Components == nil {
			node.Components = make(map[string]*Component)
		}
		if node.Interfaces == nil {
			node.Interfaces = make(map[string]*Interface)
		}
		for _, comp := range node.Components {
			if comp.Interfaces == nil {
				comp.Interfaces = make(map[string]*Interface)
			}
		}
		for _, iface := range node.AllInterfaces() {
			walk(iface, func(iface *Interface) {
				if iface.Interfaces == nil {
					iface.Interfaces = make(map[string]*Interface)
				}
			})
		}
	}
}
