// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"strings"

	"github.com/diffeo/go-fablib/fim"
)

// SwitchUsername is the login account on switch nodes.
const SwitchUsername = "rare"

// Switch is a cached facade over a fim.Node of type fim.Switch.
type Switch struct {
	facade[fim.Node]

	name         cell[string]
	site         cell[string]
	managementIP cell[string]
	reservation  cell[fim.ReservationInfo]
	sshCommand   cell[string]
	interfaces   children[fim.Interface, *Interface]
}

// NewSwitch creates a facade over ref.
func NewSwitch(ref fim.Node, cfg *Config) *Switch {
	s := &Switch{}
	s.init("switch", ref, cfg, &s.name, &s.site, &s.managementIP,
		&s.reservation, &s.sshCommand, &s.interfaces)
	s.interfaces.build = func(ref fim.Interface) *Interface {
		return newInterface(ref, s, s.cfg)
	}
	return s
}

// Update replaces the remote reference and rebuilds the ports.  A nil
// ref is ignored.
func (s *Switch) Update(ref fim.Node) {
	s.update(ref, func() { s.loadInterfaces(true) })
}

// Name returns the name of the switch.
func (s *Switch) Name() string {
	return read(&s.facade, &s.name, nameOf[fim.Node])
}

// Site returns the site hosting the switch.
func (s *Switch) Site() string {
	return read(&s.facade, &s.site, fim.Node.Site)
}

// Model returns the model every switch port reports.
func (s *Switch) Model() string {
	return fim.SwitchModel
}

// ManagementIP returns the address the switch is reachable at.
func (s *Switch) ManagementIP() string {
	return read(&s.facade, &s.managementIP, func(ref fim.Node) (string, error) {
		ip, err := ref.ManagementIP()
		return strings.TrimSpace(ip), err
	})
}

func (s *Switch) reservationInfo() fim.ReservationInfo {
	return read(&s.facade, &s.reservation, fim.Node.ReservationInfo)
}

// ReservationID returns the orchestrator reservation backing the
// switch.
func (s *Switch) ReservationID() string {
	return s.reservationInfo().ID
}

// ReservationState returns the state of the switch's reservation.
func (s *Switch) ReservationState() string {
	return s.reservationInfo().State
}

// ErrorMessage returns the reservation's error message, if any.
func (s *Switch) ErrorMessage() string {
	return s.reservationInfo().ErrorMessage
}

// Username returns the login account on the switch.
func (s *Switch) Username() string {
	return SwitchUsername
}

// PublicKeyFile returns the slice public key file.
func (s *Switch) PublicKeyFile() string {
	return s.cfg.SlicePublicKeyFile
}

// PrivateKeyFile returns the slice private key file.
func (s *Switch) PrivateKeyFile() string {
	return s.cfg.SlicePrivateKeyFile
}

func (s *Switch) active() bool {
	return s.ReservationState() == fim.ReservationActive
}

// SSHCommand returns a command line that logs in to the switch.
func (s *Switch) SSHCommand() string {
	return derive(&s.facade, &s.sshCommand, func() string {
		return renderTemplate(s.cfg.SSHCommandLine, s.ToDict("ssh_command"))
	})
}

func (s *Switch) loadInterfaces(refresh bool) {
	if s.stale(s.interfaces.empty(), refresh) {
		refill(&s.facade, &s.interfaces, "interfaces", fim.Node.Interfaces)
	}
}

// Interfaces returns the switch ports, sorted by name.
func (s *Switch) Interfaces(refresh bool) []*Interface {
	s.loadInterfaces(refresh)
	return s.interfaces.list()
}

// InterfaceMap returns the switch ports keyed by name.
func (s *Switch) InterfaceMap(refresh bool) map[string]*Interface {
	s.loadInterfaces(refresh)
	return s.interfaces.byName()
}

// Interface finds one switch port by name.
func (s *Switch) Interface(name string, refresh bool) (*Interface, error) {
	s.loadInterfaces(refresh)
	if iface, ok := s.interfaces.lookup(name); ok {
		return iface, nil
	}
	return nil, ErrNotFound{Kind: "interface", Key: name}
}

// ToDict returns the switch's properties, leaving out the keys in
// skip.  The management IP and SSH command are only reported while
// the reservation is active.
func (s *Switch) ToDict(skip ...string) *Dict {
	return project(skip).
		str("id", s.ReservationID).
		str("name", s.Name).
		str("site", s.Site).
		str("username", s.Username).
		str("management_ip", func() string {
			if !s.active() {
				return ""
			}
			return s.ManagementIP()
		}).
		str("state", s.ReservationState).
		str("error", s.ErrorMessage).
		str("ssh_command", func() string {
			if !s.active() {
				return ""
			}
			return s.SSHCommand()
		}).
		str("public_ssh_key_file", s.PublicKeyFile).
		str("private_ssh_key_file", s.PrivateKeyFile).
		dict
}
