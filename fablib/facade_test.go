// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"errors"
	"testing"

	"github.com/diffeo/go-fablib/fim"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoNICs builds a node with components nic1 and nic2, one port each.
func twoNICs() *fakeNode {
	ref := newFakeNode("n1")
	ref.components["nic1"] = newFakeComponent("nic1", "NIC_Basic",
		newFakeInterface("nic1-p1"))
	ref.components["nic2"] = newFakeComponent("nic2", "NIC_Basic",
		newFakeInterface("nic2-p1"))
	return ref
}

func componentNames(comps []*Component) []string {
	var names []string
	for _, comp := range comps {
		names = append(names, comp.Name())
	}
	return names
}

func interfaceNames(ifaces []*Interface) []string {
	var names []string
	for _, iface := range ifaces {
		names = append(names, iface.Name())
	}
	return names
}

// TestMemoization checks that repeated reads do not go back to the
// remote model.
func TestMemoization(t *testing.T) {
	ref := newFakeNode("n1")
	node := NewNode(ref, nil)

	assert.Equal(t, "STAR", node.Site())
	assert.Equal(t, "STAR", node.Site())
	assert.Equal(t, 1, ref.calls["Site"])

	// An unavailable value is remembered too
	assert.Equal(t, "", node.ManagementIP())
	assert.Equal(t, "", node.ManagementIP())
	assert.Equal(t, 1, ref.calls["ManagementIP"])

	port := newFakeInterface("p1")
	port.labels = &fim.Labels{MAC: "00:11:22:33:44:55", VLAN: "100", LocalName: "ens7"}
	iface := NewInterface(port, nil)
	assert.Equal(t, "00:11:22:33:44:55", iface.MAC())
	assert.Equal(t, "100", iface.VLAN())
	assert.Equal(t, "ens7", iface.PhysicalOSInterfaceName())
	assert.Equal(t, "ens7.100", iface.DeviceName())
	assert.Equal(t, "00:11:22:33:44:55", iface.MAC())
	assert.Equal(t, 1, port.calls["LabelAllocations"])
}

// TestUpdateInvalidates checks that values cached before Update are
// replaced by values from the new reference.
func TestUpdateInvalidates(t *testing.T) {
	ref := newFakeNode("n1")
	node := NewNode(ref, nil)
	assert.Equal(t, "STAR", node.Site())
	assert.Equal(t, 2, node.Cores())

	next := newFakeNode("n1")
	next.site = "UTAH"
	next.allocated = &fim.Capacities{Core: 4, RAM: 16, Disk: 100}
	node.Update(next)

	assert.False(t, node.Dirty())
	assert.Equal(t, "UTAH", node.Site())
	assert.Equal(t, 4, node.Cores())
	assert.Equal(t, 16, node.RAM())
	assert.Equal(t, 100, node.Disk())
	assert.Equal(t, 1, ref.calls["Site"])
	assert.Equal(t, 1, next.calls["Site"])
}

// TestUpdateNil checks that Update(nil) leaves everything alone.
func TestUpdateNil(t *testing.T) {
	ref := newFakeNode("n1")
	node := NewNode(ref, nil)
	assert.True(t, node.Dirty())

	node.Update(nil)
	assert.True(t, node.Dirty())
	assert.Equal(t, fim.Node(ref), node.FIM())

	node.Update(ref)
	assert.Equal(t, "STAR", node.Site())
	node.Update(nil)
	assert.False(t, node.Dirty())
	assert.Equal(t, "STAR", node.Site())
	assert.Equal(t, 1, ref.calls["Site"])
}

// TestInvalidate checks that Invalidate forgets cached values but
// keeps the reference.
func TestInvalidate(t *testing.T) {
	ref := newFakeNode("n1")
	node := NewNode(ref, nil)
	node.Update(ref)
	assert.Equal(t, "STAR", node.Site())

	ref.site = "UTAH"
	assert.Equal(t, "STAR", node.Site())

	node.Invalidate()
	node.Invalidate()
	assert.True(t, node.Dirty())
	assert.Equal(t, fim.Node(ref), node.FIM())
	assert.Equal(t, "UTAH", node.Site())
}

// TestIdentityPreserved checks that a refresh keeps the facade of a
// surviving child and hands it the new reference.
func TestIdentityPreserved(t *testing.T) {
	ref := twoNICs()
	node := NewNode(ref, nil)
	node.Update(ref)

	before, err := node.Component("nic1", false)
	require.NoError(t, err)
	assert.Equal(t, "NIC_Basic", before.Model())
	port := before.Interfaces(false)[0]

	replacement := newFakeComponent("nic1", "NIC_ConnectX_6",
		newFakeInterface("nic1-p1"), newFakeInterface("nic1-p2"))
	ref.components["nic1"] = replacement

	// Not refreshed yet, so the cached model stands
	after, err := node.Component("nic1", false)
	require.NoError(t, err)
	assert.Same(t, before, after)
	assert.Equal(t, "NIC_Basic", after.Model())

	after = node.ComponentMap(true)["nic1"]
	assert.Same(t, before, after)
	assert.Equal(t, fim.Component(replacement), after.FIM())
	assert.Equal(t, "NIC_ConnectX_6", after.Model())

	// Grandchildren are reconciled the same way
	ports := after.InterfaceMap(false)
	assert.Len(t, ports, 2)
	assert.Same(t, port, ports["nic1-p1"])
}

// TestRemoval checks that children missing from the remote model are
// dropped from both projections.
func TestRemoval(t *testing.T) {
	ref := twoNICs()
	node := NewNode(ref, nil)
	node.Update(ref)
	assert.Equal(t, []string{"nic1-p1", "nic2-p1"}, interfaceNames(node.Interfaces(false)))

	delete(ref.components, "nic2")
	assert.Equal(t, []string{"nic1"}, componentNames(node.Components(true)))
	assert.NotContains(t, node.ComponentMap(false), "nic2")
	assert.Equal(t, []string{"nic1-p1"}, interfaceNames(node.Interfaces(true)))
	assert.NotContains(t, node.InterfaceMap(false), "nic2-p1")
}

// TestCachedCollection checks that a clean facade does not enumerate
// its children again.
func TestCachedCollection(t *testing.T) {
	ref := twoNICs()
	node := NewNode(ref, nil)
	node.Update(ref)
	count := ref.calls["Components"]

	node.Components(false)
	node.ComponentMap(false)
	node.Interfaces(false)
	assert.Equal(t, count, ref.calls["Components"])

	node.Components(true)
	assert.Equal(t, count+1, ref.calls["Components"])
}

// TestNoModel checks that a facade without a reference reads as
// empty.
func TestNoModel(t *testing.T) {
	node := NewNode(nil, nil)
	assert.Equal(t, "", node.Name())
	assert.Equal(t, "", node.Site())
	assert.Equal(t, "", node.ManagementIP())
	assert.Equal(t, "", node.ReservationID())
	assert.Equal(t, 0, node.Cores())
	assert.Equal(t, "", node.Username())
	assert.Empty(t, node.Components(false))
	assert.Empty(t, node.Interfaces(true))

	iface := NewInterface(nil, nil)
	assert.Equal(t, "", iface.MAC())
	assert.Equal(t, 0, iface.Bandwidth())
	assert.Equal(t, "", iface.Site())
	network, present := iface.ToDict().Get("network")
	assert.True(t, present)
	assert.Nil(t, network)

	ns := NewNetworkService(nil, nil)
	assert.Equal(t, fim.ServiceType(""), ns.Type())
	assert.Equal(t, "", ns.Subnet())
	assert.Empty(t, ns.Interfaces(false))

	sw := NewSwitch(nil, nil)
	assert.Equal(t, "", sw.Site())
	assert.Empty(t, sw.Interfaces(false))

	fp := NewFacilityPort(nil, nil)
	assert.Equal(t, "", fp.Name())
	assert.Equal(t, "", fp.Site())
	assert.Empty(t, fp.Interfaces(true))
	assert.Empty(t, fp.InterfaceMap(false))
	_, err := fp.Interface("Cloud-Facility-int", false)
	assert.Equal(t, ErrNotFound{Kind: "interface", Key: "Cloud-Facility-int"}, err)

	comp := newComponent(nil, nil, nil)
	assert.Equal(t, "", comp.Name())
	assert.Equal(t, "", comp.Model())
	assert.Equal(t, fim.ComponentType(""), comp.Type())
	assert.Equal(t, "", comp.Site())
	assert.Empty(t, comp.Interfaces(true))
	assert.Equal(t, "", comp.ToDict().Map()["node"])

	comp = newComponent(nil, NewNode(nil, nil), nil)
	assert.Equal(t, "", comp.Site())

	s := NewSlice(nil, nil, nil)
	assert.Equal(t, "", s.State())
	assert.True(t, s.LeaseEnd().IsZero())
	assert.Empty(t, s.Nodes(true))
	assert.Equal(t, fim.ErrNoModel, s.Refresh())
}

// TestTypedNilModel checks that a nil pointer wrapped in the fim
// interface is treated the same as no model at all.
func TestTypedNilModel(t *testing.T) {
	var ref *fakeNode
	node := NewNode(ref, nil)
	assert.Equal(t, "", node.Name())
	assert.Equal(t, "", node.Site())
	assert.Empty(t, node.Components(true))
	_, err := node.AddComponent("nic1", "NIC_Basic")
	assert.Equal(t, fim.ErrNoModel, err)

	good := twoNICs()
	node = NewNode(good, nil)
	node.Update(good)
	require.Len(t, node.Components(false), 2)
	node.Update(ref)
	assert.Same(t, good, node.FIM())
	assert.False(t, node.Dirty())

	var port *fakeInterface
	iface := NewInterface(port, nil)
	assert.Equal(t, "", iface.MAC())
	assert.Empty(t, iface.Interfaces(true))
}

// TestEnumerationFailure checks that a collection that cannot be
// listed comes back empty and is logged.
func TestEnumerationFailure(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	cfg := DefaultConfig()
	cfg.Logger = logrus.NewEntry(logger)

	ref := twoNICs()
	node := NewNode(ref, cfg)
	node.Update(ref)
	require.Len(t, node.Components(false), 2)

	ref.enumErr = errors.New("topology is broken")
	assert.Empty(t, node.Components(true))
	assert.Empty(t, node.Interfaces(true))
	if entry := hook.LastEntry(); assert.NotNil(t, entry) {
		assert.Equal(t, "Could not enumerate components", entry.Message)
		assert.Equal(t, "node", entry.Data["facade"])
	}

	// Once the model recovers, the collection does too
	ref.enumErr = nil
	assert.Len(t, node.Components(true), 2)
}

// TestNotFound checks the one error lookups return.
func TestNotFound(t *testing.T) {
	ref := twoNICs()
	node := NewNode(ref, nil)
	node.Update(ref)

	_, err := node.Interface(InterfaceQuery{Name: "doesnotexist"}, false)
	assert.Equal(t, ErrNotFound{Kind: "interface", Key: "doesnotexist"}, err)
	if assert.Error(t, err) {
		assert.Equal(t, "interface not found: doesnotexist", err.Error())
	}

	_, err = node.Interface(InterfaceQuery{Network: "nowhere"}, true)
	assert.Equal(t, ErrNotFound{Kind: "interface", Key: "nowhere"}, err)

	_, err = node.Component("gpu1", false)
	assert.Equal(t, ErrNotFound{Kind: "component", Key: "gpu1"}, err)
}

// TestInterfaceByNetwork checks the network-name lookup and that the
// interface name wins when both are given.
func TestInterfaceByNetwork(t *testing.T) {
	ref := twoNICs()
	attached := newFakeInterface("nic2-p1")
	attached.network = "net1"
	ref.components["nic2"] = newFakeComponent("nic2", "NIC_Basic", attached)
	node := NewNode(ref, nil)
	node.Update(ref)

	iface, err := node.Interface(InterfaceQuery{Network: "net1"}, false)
	if assert.NoError(t, err) {
		assert.Equal(t, "nic2-p1", iface.Name())
	}

	iface, err = node.Interface(InterfaceQuery{Name: "nic1-p1", Network: "net1"}, false)
	if assert.NoError(t, err) {
		assert.Equal(t, "nic1-p1", iface.Name())
	}
}

// TestToDictSkip checks that skipped keys are absent and their
// accessors are not called.
func TestToDictSkip(t *testing.T) {
	port := newFakeInterface("nic1-p1")
	port.labels = &fim.Labels{MAC: "00:11:22:33:44:55", VLAN: "100", LocalName: "ens7"}
	port.network = "net1"
	iface := NewInterface(port, nil)

	dict := iface.ToDict("mac")
	assert.False(t, dict.Has("mac"))
	want := []string{"name", "network", "bandwidth", "vlan", "physical_dev", "dev", "site"}
	if diff := cmp.Diff(want, dict.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	bandwidth, _ := dict.Get("bandwidth")
	assert.Equal(t, "100", bandwidth)
	network, _ := dict.Get("network")
	assert.Equal(t, "net1", network)

	iface.ToDict("network")
	assert.Equal(t, 1, port.calls["Network"])
	NewInterface(port, nil).ToDict("network")
	assert.Equal(t, 1, port.calls["Network"])
}

// TestComponentScenario walks a node through losing one component
// and gaining another.
func TestComponentScenario(t *testing.T) {
	ref := twoNICs()
	node := NewNode(ref, nil)

	comps := node.ComponentMap(false)
	require.Len(t, comps, 2)
	assert.Contains(t, comps, "nic1")
	assert.Contains(t, comps, "nic2")
	nic1 := comps["nic1"]

	delete(ref.components, "nic2")
	ref.components["nic3"] = newFakeComponent("nic3", "NIC_ConnectX_5",
		newFakeInterface("nic3-p1"), newFakeInterface("nic3-p2"))
	node.Update(ref)

	comps = node.ComponentMap(false)
	assert.Len(t, comps, 2)
	assert.Same(t, nic1, comps["nic1"])
	assert.NotContains(t, comps, "nic2")
	if assert.Contains(t, comps, "nic3") {
		assert.Equal(t, fim.SmartNIC, comps["nic3"].Type())
	}
	assert.Equal(t, []string{"nic1-p1", "nic3-p1", "nic3-p2"},
		interfaceNames(node.Interfaces(false)))
}

// TestUsername checks the login account derived from the image.
func TestUsername(t *testing.T) {
	for image, username := range map[string]string{
		"default_centos9_stream": "cloud-user",
		"default_centos_8":       "centos",
		"default_ubuntu_22":      "ubuntu",
		"default_rocky_9":        "rocky",
		"default_fedora_39":      "fedora",
		"default_debian_12":      "debian",
		"default_freebsd_14_zfs": "freebsd",
		"docker_openbsd":         "openbsd",
		"attestable_bmv2":        "",
	} {
		ref := newFakeNode("n1")
		ref.image = fim.Image{Ref: image, Type: "qcow2"}
		assert.Equal(t, username, NewNode(ref, nil).Username(), image)
	}
}

// TestSSHCommand checks rendering the configured command line.
func TestSSHCommand(t *testing.T) {
	cfg := defaultConfigIn("/home/exp")
	ref := newFakeNode("n1")
	ref.ip = "2001:db8::7"
	node := NewNode(ref, cfg)
	assert.Equal(t,
		"ssh -i /home/exp/work/fabric_config/slice_key -F /home/exp/work/fabric_config/ssh_config rocky@2001:db8::7",
		node.SSHCommand())

	cfg.SSHCommandLine = "ssh {{_self_.username}}@{{ _self_.host }}{{ _self_.nothing }}"
	node = NewNode(ref, cfg)
	assert.Equal(t, "ssh rocky@", node.SSHCommand())
}

// TestSwitch checks switch ports and the state-dependent ToDict
// fields.
func TestSwitch(t *testing.T) {
	ref := newFakeNode("sw")
	ref.nodeType = fim.Switch
	ref.ip = " 2001:db8::9 "
	for n := 2; n >= 1; n-- {
		port := newFakeInterface(fim.PortName("sw", n))
		ref.interfaces[port.name] = port
	}
	sw := NewSwitch(ref, defaultConfigIn("/home/exp"))
	sw.Update(ref)

	assert.Equal(t, []string{"sw-p1", "sw-p2"}, interfaceNames(sw.Interfaces(false)))
	port, err := sw.Interface("sw-p1", false)
	if assert.NoError(t, err) {
		assert.Equal(t, fim.SwitchModel, port.Model())
		assert.Equal(t, "STAR", port.Site())
	}
	_, err = sw.Interface("sw-p9", false)
	assert.Equal(t, ErrNotFound{Kind: "interface", Key: "sw-p9"}, err)

	dict := sw.ToDict()
	ip, _ := dict.Get("management_ip")
	assert.Equal(t, "", ip)
	command, _ := dict.Get("ssh_command")
	assert.Equal(t, "", command)
	username, _ := dict.Get("username")
	assert.Equal(t, "rare", username)

	ref.reservation = &fim.ReservationInfo{ID: "r1", State: fim.ReservationActive}
	sw.Update(ref)
	dict = sw.ToDict()
	ip, _ = dict.Get("management_ip")
	assert.Equal(t, "2001:db8::9", ip)
	command, _ = dict.Get("ssh_command")
	assert.Equal(t,
		"ssh -i /home/exp/work/fabric_config/slice_key -F /home/exp/work/fabric_config/ssh_config rare@2001:db8::9",
		command)
}

// TestNetworkService checks the layer 3 properties of a service.
func TestNetworkService(t *testing.T) {
	a := newFakeInterface("n1-nic1-p1")
	b := newFakeInterface("n2-nic1-p1")
	ref := &fakeService{
		name:        "net6",
		serviceType: fim.FABNetv6,
		labels:      &fim.Labels{IPv6Subnet: "2001:db8:1::/64"},
		gateway:     &fim.Gateway{Gateway: "2001:db8:1::1", Subnet: "2001:db8:1::/64"},
		interfaces:  map[string]fim.Interface{a.name: a, b.name: b},
		calls:       calls{},
	}
	ns := NewNetworkService(ref, nil)
	ns.Update(ref)

	dict := ns.ToDict("state", "error")
	want := map[string]interface{}{
		"name":    "net6",
		"type":    "FABNetv6",
		"layer":   "L3",
		"subnet":  "2001:db8:1::/64",
		"gateway": "2001:db8:1::1",
	}
	if diff := cmp.Diff(want, dict.Map()); diff != "" {
		t.Errorf("ToDict (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"n1-nic1-p1", "n2-nic1-p1"}, interfaceNames(ns.Interfaces(false)))
	assert.Equal(t, 0, ref.calls["ReservationInfo"])
}

// TestSubInterfaces checks sub-interface creation and lookup.
func TestSubInterfaces(t *testing.T) {
	ref := newFakeInterface("n1-nic1-p1")
	ref.labels = &fim.Labels{LocalName: "ens7"}
	iface := NewInterface(ref, nil)
	iface.Update(ref)

	sub, err := iface.AddSubInterface("vlan200", "200")
	require.NoError(t, err)
	assert.Equal(t, "n1-nic1-p1-vlan200", sub.Name())
	assert.Equal(t, "200", sub.VLAN())

	again, err := iface.Interface("n1-nic1-p1-vlan200", false)
	if assert.NoError(t, err) {
		assert.Same(t, sub, again)
	}
	_, err = iface.Interface("vlan300", false)
	assert.Equal(t, ErrNotFound{Kind: "interface", Key: "vlan300"}, err)
}

// TestNodeSubInterfaces checks that a node's interface listing
// includes VLAN sub-interfaces and that they can be found by the
// network they are attached to.
func TestNodeSubInterfaces(t *testing.T) {
	ref := twoNICs()
	node := NewNode(ref, nil)
	node.Update(ref)

	port, err := node.Interface(InterfaceQuery{Name: "nic1-p1"}, false)
	require.NoError(t, err)
	sub, err := port.AddSubInterface("vlan200", "200")
	require.NoError(t, err)

	assert.Equal(t, []string{"nic1-p1", "nic1-p1-vlan200", "nic2-p1"},
		interfaceNames(node.Interfaces(true)))
	assert.Contains(t, node.InterfaceMap(false), "nic1-p1-vlan200")

	found, err := node.Interface(InterfaceQuery{Name: "nic1-p1-vlan200"}, false)
	if assert.NoError(t, err) {
		assert.Same(t, sub, found)
	}

	// The remote model attaches the sub-interface to a service
	fakePort := ref.components["nic1"].(*fakeComponent).interfaces["nic1-p1"].(*fakeInterface)
	fakePort.subs["nic1-p1-vlan200"].(*fakeInterface).network = "vlan-net"
	node.Update(ref)
	found, err = node.Interface(InterfaceQuery{Network: "vlan-net"}, false)
	if assert.NoError(t, err) {
		assert.Equal(t, "nic1-p1-vlan200", found.Name())
		assert.Same(t, sub, found)
	}
}

// TestMetrics checks the optional cache counters.
func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Metrics = metrics

	ref := twoNICs()
	node := NewNode(ref, cfg)
	node.Site()
	node.Site()
	node.Site()
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.reads.WithLabelValues("node", "miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.reads.WithLabelValues("node", "hit")))

	node.Update(ref)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rebuilds.WithLabelValues("node", "components")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rebuilds.WithLabelValues("node", "interfaces")))

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
