// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"sort"
	"strconv"
	"strings"

	"github.com/diffeo/go-fablib/fim"
)

// Node is a cached facade over a fim.Node of type fim.VM.
type Node struct {
	facade[fim.Node]

	name         cell[string]
	site         cell[string]
	managementIP cell[string]
	image        cell[fim.Image]
	capacities   cell[fim.Capacities]
	labels       cell[fim.Labels]
	reservation  cell[fim.ReservationInfo]
	username     cell[string]
	sshCommand   cell[string]
	components   children[fim.Component, *Component]
	interfaces   cell[map[string]*Interface]
}

// NewNode creates a facade over ref.  The facade starts dirty; its
// collections are read from ref the first time they are asked for.
func NewNode(ref fim.Node, cfg *Config) *Node {
	n := &Node{}
	n.init("node", ref, cfg, &n.name, &n.site, &n.managementIP, &n.image,
		&n.capacities, &n.labels, &n.reservation, &n.username,
		&n.sshCommand, &n.components, &n.interfaces)
	n.components.build = func(ref fim.Component) *Component {
		return newComponent(ref, n, n.cfg)
	}
	return n
}

// Update replaces the remote reference, then rebuilds the components
// and the interfaces.  A nil ref is ignored.
func (n *Node) Update(ref fim.Node) {
	n.update(ref, func() {
		n.loadComponents(true)
		n.collectInterfaces()
	})
}

// Name returns the name of the node.
func (n *Node) Name() string {
	return read(&n.facade, &n.name, nameOf[fim.Node])
}

// Site returns the site hosting the node.
func (n *Node) Site() string {
	return read(&n.facade, &n.site, fim.Node.Site)
}

// ManagementIP returns the address the node is reachable at.
func (n *Node) ManagementIP() string {
	return read(&n.facade, &n.managementIP, func(ref fim.Node) (string, error) {
		ip, err := ref.ManagementIP()
		return strings.TrimSpace(ip), err
	})
}

func (n *Node) reservationInfo() fim.ReservationInfo {
	return read(&n.facade, &n.reservation, fim.Node.ReservationInfo)
}

// ReservationID returns the orchestrator reservation backing the
// node.
func (n *Node) ReservationID() string {
	return n.reservationInfo().ID
}

// ReservationState returns the state of the node's reservation, such
// as "Active".
func (n *Node) ReservationState() string {
	return n.reservationInfo().State
}

// ErrorMessage returns the reservation's error message, if any.
func (n *Node) ErrorMessage() string {
	return n.reservationInfo().ErrorMessage
}

// capacity returns the allocated capacities, or the requested ones
// if nothing has been allocated yet.
func (n *Node) capacity() fim.Capacities {
	return read(&n.facade, &n.capacities, func(ref fim.Node) (fim.Capacities, error) {
		allocated, err := ref.CapacityAllocations()
		if err != nil {
			return ref.Capacities()
		}
		return allocated, nil
	})
}

// Cores returns the number of CPU cores.
func (n *Node) Cores() int {
	return n.capacity().Core
}

// RAM returns the memory size in gigabytes.
func (n *Node) RAM() int {
	return n.capacity().RAM
}

// Disk returns the disk size in gigabytes.
func (n *Node) Disk() int {
	return n.capacity().Disk
}

func (n *Node) bootImage() fim.Image {
	return read(&n.facade, &n.image, fim.Node.Image)
}

// Image returns the name of the boot image.
func (n *Node) Image() string {
	return n.bootImage().Ref
}

// ImageType returns the format of the boot image.
func (n *Node) ImageType() string {
	return n.bootImage().Type
}

// Host returns the physical worker the node landed on.
func (n *Node) Host() string {
	return read(&n.facade, &n.labels, fim.Node.LabelAllocations).InstanceParent
}

// usernames maps image name fragments to login accounts, in the
// order they are tried.
var usernames = []string{
	"centos", "ubuntu", "rocky", "fedora", "cirros", "debian",
	"freebsd", "openbsd",
}

// Username returns the login account for the node's image.
func (n *Node) Username() string {
	return derive(&n.facade, &n.username, func() string {
		image := n.Image()
		if image == "default_centos9_stream" {
			return "cloud-user"
		}
		for _, name := range usernames {
			if strings.Contains(image, name) {
				return name
			}
		}
		return ""
	})
}

// PublicKeyFile returns the slice public key file.
func (n *Node) PublicKeyFile() string {
	return n.cfg.SlicePublicKeyFile
}

// PrivateKeyFile returns the slice private key file.
func (n *Node) PrivateKeyFile() string {
	return n.cfg.SlicePrivateKeyFile
}

// SSHCommand returns a command line that logs in to the node.
func (n *Node) SSHCommand() string {
	return derive(&n.facade, &n.sshCommand, func() string {
		context := n.ToDict().
			Set("public_ssh_key_file", n.PublicKeyFile()).
			Set("private_ssh_key_file", n.PrivateKeyFile())
		return renderTemplate(n.cfg.SSHCommandLine, context)
	})
}

func (n *Node) loadComponents(refresh bool) {
	if n.stale(n.components.empty(), refresh) {
		refill(&n.facade, &n.components, "components", fim.Node.Components)
	}
}

// Components returns the node's components, sorted by name.
func (n *Node) Components(refresh bool) []*Component {
	n.loadComponents(refresh)
	return n.components.list()
}

// ComponentMap returns the node's components keyed by name.
func (n *Node) ComponentMap(refresh bool) map[string]*Component {
	n.loadComponents(refresh)
	return n.components.byName()
}

// Component finds a component by its short name ("nic1") or its
// generated name ("node-nic1").
func (n *Node) Component(name string, refresh bool) (*Component, error) {
	n.loadComponents(refresh)
	if comp, ok := n.components.lookup(fim.QualifiedName(n.Name(), name)); ok {
		return comp, nil
	}
	if comp, ok := n.components.lookup(name); ok {
		return comp, nil
	}
	return nil, ErrNotFound{Kind: "component", Key: name}
}

func (n *Node) loadInterfaces(refresh bool) {
	if n.stale(len(n.interfaces.value) == 0, refresh) {
		n.loadComponents(refresh)
		n.collectInterfaces()
	}
}

// collectInterfaces rebuilds the union of the component interfaces
// and their sub-interfaces.  The components are already up to date,
// so they are not asked to refresh again.
func (n *Node) collectInterfaces() {
	n.cfg.Metrics.rebuilt(n.kind, "interfaces")
	union := make(map[string]*Interface)
	for _, comp := range n.components.list() {
		addInterfaces(union, comp.InterfaceMap(false))
	}
	n.interfaces.value = union
	n.interfaces.set = true
}

// addInterfaces adds ifaces and, recursively, their sub-interfaces
// to union.
func addInterfaces(union, ifaces map[string]*Interface) {
	for name, iface := range ifaces {
		union[name] = iface
		addInterfaces(union, iface.InterfaceMap(false))
	}
}

// Interfaces returns every interface on every component of the node,
// including VLAN sub-interfaces, sorted by name.
func (n *Node) Interfaces(refresh bool) []*Interface {
	n.loadInterfaces(refresh)
	names := make([]string, 0, len(n.interfaces.value))
	for name := range n.interfaces.value {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]*Interface, len(names))
	for i, name := range names {
		result[i] = n.interfaces.value[name]
	}
	return result
}

// InterfaceMap returns every interface of the node keyed by name.
func (n *Node) InterfaceMap(refresh bool) map[string]*Interface {
	n.loadInterfaces(refresh)
	result := make(map[string]*Interface, len(n.interfaces.value))
	for name, iface := range n.interfaces.value {
		result[name] = iface
	}
	return result
}

// InterfaceQuery selects one interface of a node.  If Name is set it
// is used; otherwise the interface attached to the network service
// Network is found.
type InterfaceQuery struct {
	Name    string
	Network string
}

func (q InterfaceQuery) key() string {
	if q.Name != "" {
		return q.Name
	}
	return q.Network
}

// Interface finds one interface of the node.
func (n *Node) Interface(query InterfaceQuery, refresh bool) (*Interface, error) {
	n.loadInterfaces(refresh)
	if query.Name != "" {
		if iface, ok := n.interfaces.value[query.Name]; ok {
			return iface, nil
		}
	} else if query.Network != "" {
		for _, iface := range n.Interfaces(false) {
			if iface.Network() == query.Network {
				return iface, nil
			}
		}
	}
	return nil, ErrNotFound{Kind: "interface", Key: query.key()}
}

// AddComponent attaches a new component to the node and returns its
// facade.
func (n *Node) AddComponent(name, model string) (*Component, error) {
	ref, err := n.model()
	if err == nil {
		_, err = ref.AddComponent(name, model)
	}
	if err != nil {
		return nil, err
	}
	n.Update(ref)
	return n.Component(name, false)
}

// RemoveComponent detaches a component by its short or generated
// name.
func (n *Node) RemoveComponent(name string) error {
	ref, err := n.model()
	if err == nil {
		err = ref.RemoveComponent(name)
	}
	if err != nil {
		return err
	}
	n.Update(ref)
	return nil
}

// SetImage changes the boot image.  It takes effect on the next
// submission.
func (n *Node) SetImage(image, imageType string) error {
	ref, err := n.model()
	if err == nil {
		err = ref.SetImage(fim.Image{Ref: image, Type: imageType})
	}
	if err != nil {
		return err
	}
	n.Update(ref)
	return nil
}

// SetCapacities changes the requested cores, RAM, and disk.
func (n *Node) SetCapacities(cores, ram, disk int) error {
	ref, err := n.model()
	if err == nil {
		err = ref.SetCapacities(fim.Capacities{Core: cores, RAM: ram, Disk: disk})
	}
	if err != nil {
		return err
	}
	n.Update(ref)
	return nil
}

// ToDict returns the node's properties, leaving out the keys in skip.
func (n *Node) ToDict(skip ...string) *Dict {
	return project(skip).
		str("id", n.ReservationID).
		str("name", n.Name).
		str("cores", func() string { return strconv.Itoa(n.Cores()) }).
		str("ram", func() string { return strconv.Itoa(n.RAM()) }).
		str("disk", func() string { return strconv.Itoa(n.Disk()) }).
		str("image", n.Image).
		str("image_type", n.ImageType).
		str("site", n.Site).
		str("host", n.Host).
		str("username", n.Username).
		str("management_ip", n.ManagementIP).
		str("state", n.ReservationState).
		str("error", n.ErrorMessage).
		dict
}
