// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fim

import (
	"fmt"
	"strings"
)

// NodeType is the kind of a node.
type NodeType string

const (
	// VM is a virtual machine that carries components.
	VM NodeType = "VM"

	// Switch is a programmable P4 switch with fixed ports.
	Switch NodeType = "Switch"

	// Facility is a facility port: a single external connection
	// point at a site.
	Facility NodeType = "Facility"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case VM, Switch, Facility:
		return true
	}
	return false
}

// SliceState is the lifecycle state of a slice.
type SliceState int

const (
	// Nascent slices have never been submitted.
	Nascent SliceState = iota

	// StableOK slices are submitted and their lease is current.
	StableOK

	// Dead slices have an expired lease.
	Dead
)

// String returns the orchestrator's name for a slice state.
func (state SliceState) String() string {
	text, err := state.MarshalText()
	if err != nil {
		return fmt.Sprintf("SliceState(%d)", int(state))
	}
	return string(text)
}

// MarshalText returns a string representing a slice state.
func (state SliceState) MarshalText() ([]byte, error) {
	switch state {
	case Nascent:
		return []byte("Nascent"), nil
	case StableOK:
		return []byte("StableOK"), nil
	case Dead:
		return []byte("Dead"), nil
	default:
		return nil, fmt.Errorf("invalid slice state (marshal, %+v)", int(state))
	}
}

// UnmarshalText populates a slice state from a string.
func (state *SliceState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Nascent":
		*state = Nascent
	case "StableOK":
		*state = StableOK
	case "Dead":
		*state = Dead
	default:
		return fmt.Errorf("invalid slice state (unmarshal, %+v)", string(text))
	}
	return nil
}

// Reservation states reported in ReservationInfo.State.
const (
	ReservationActive = "Active"
	ReservationClosed = "Closed"
)

// ServiceType is the kind of a network service.
type ServiceType string

// Known network service types.
const (
	L2Bridge    ServiceType = "L2Bridge"
	L2STS       ServiceType = "L2STS"
	L2PTP       ServiceType = "L2PTP"
	FABNetv4    ServiceType = "FABNetv4"
	FABNetv6    ServiceType = "FABNetv6"
	FABNetv4Ext ServiceType = "FABNetv4Ext"
	FABNetv6Ext ServiceType = "FABNetv6Ext"
)

// Layer is the network layer of a service.
type Layer string

// Network layers.
const (
	L2 Layer = "L2"
	L3 Layer = "L3"
)

// Layer returns the network layer a service type operates at, or an
// empty layer if the type is unknown.
func (t ServiceType) Layer() Layer {
	switch t {
	case L2Bridge, L2STS, L2PTP:
		return L2
	case FABNetv4, FABNetv6, FABNetv4Ext, FABNetv6Ext:
		return L3
	}
	return ""
}

// IPv6 reports whether a layer 3 service type routes IPv6.
func (t ServiceType) IPv6() bool {
	return t == FABNetv6 || t == FABNetv6Ext
}

// ComponentType is the broad class of a component.
type ComponentType string

// Component types.
const (
	SharedNIC ComponentType = "SharedNIC"
	SmartNIC  ComponentType = "SmartNIC"
	NVME      ComponentType = "NVME"
	GPU       ComponentType = "GPU"
	FPGA      ComponentType = "FPGA"
	P4        ComponentType = "P4"
)

// Model describes one entry in the component catalog.
type Model struct {
	// Name is the catalog name, e.g. "NIC_ConnectX_6".
	Name string

	// Type is the class of component.
	Type ComponentType

	// Ports is the number of interfaces the component exposes.
	Ports int

	// Bandwidth is the link speed of each port in Gbps.
	Bandwidth int
}

// SwitchModel is the model name reported for switch ports.
const SwitchModel = "NIC_P4"

// SwitchPorts is the number of ports a new switch node is created
// with.
const SwitchPorts = 8

var models = map[string]Model{
	"NIC_Basic":                 {Name: "NIC_Basic", Type: SharedNIC, Ports: 1, Bandwidth: 100},
	"NIC_ConnectX_5":            {Name: "NIC_ConnectX_5", Type: SmartNIC, Ports: 2, Bandwidth: 25},
	"NIC_ConnectX_6":            {Name: "NIC_ConnectX_6", Type: SmartNIC, Ports: 2, Bandwidth: 100},
	"NIC_BlueField2_ConnectX_6": {Name: "NIC_BlueField2_ConnectX_6", Type: SmartNIC, Ports: 2, Bandwidth: 100},
	"NVME_P4510":                {Name: "NVME_P4510", Type: NVME},
	"GPU_TeslaT4":               {Name: "GPU_TeslaT4", Type: GPU},
	"GPU_RTX6000":               {Name: "GPU_RTX6000", Type: GPU},
	"GPU_A40":                   {Name: "GPU_A40", Type: GPU},
	"GPU_A30":                   {Name: "GPU_A30", Type: GPU},
	"FPGA_Xilinx_U280":          {Name: "FPGA_Xilinx_U280", Type: FPGA, Ports: 2, Bandwidth: 100},
	"FPGA_Xilinx_SN1022":        {Name: "FPGA_Xilinx_SN1022", Type: FPGA, Ports: 2, Bandwidth: 100},
}

// LookupModel finds a component model in the catalog.  If it is not
// present, returns ErrUnknownModel.
func LookupModel(name string) (Model, error) {
	model, present := models[name]
	if !present {
		return Model{}, ErrUnknownModel{Model: name}
	}
	return model, nil
}

// QualifiedName returns the generated name of a child called name
// under owner: a component on a node, or a sub-interface of an
// interface.  Names that are already qualified are returned as is.
func QualifiedName(owner, name string) string {
	if strings.HasPrefix(name, owner+"-") {
		return name
	}
	return owner + "-" + name
}

// PortName returns the generated name of the nth (1-based) port of a
// component or switch.
func PortName(owner string, n int) string {
	return fmt.Sprintf("%s-p%d", owner, n)
}

// FacilityInterfaceName returns the generated name of the single
// interface of a facility port.
func FacilityInterfaceName(facility string) string {
	return facility + "-int"
}
