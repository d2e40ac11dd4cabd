// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata defines common data structures shared between the
// restserver and restclient packages.  Generally JSON encodings of
// these are passed across the wire as the
// application/vnd.diffeo.fim.v1+json MIME type.
//
// API Usage
//
// HTTP GET the root document at its specified URL.  This will return
// a JSON serialization of the RootData object.  That serialization
// has links to other resources; follow these links, possibly filling
// in template values, to get to other resources.
//
// Many of the URL fields are actually RFC 6570 URI templates, URL
// strings with a {parameter} in curly braces.  For instance, if the
// system is rooted at /, a JSON serialization of RootData will look
// like
//
//     {
//         "slices_url": "/slice",
//         "slice_url": "/slice/{slice}"
//     }
//
// While the URL structure is predictable and formulaic, it is not
// actually part of the API contract.  The only specific guarantee is
// that retrieving the root resource will return a serialization of
// RootData.
//
// Encoding Considerations
//
// A name that appears in a URL string must be made of ASCII
// characters that can be represented unescaped.  Other names are
// escaped by encoding their byte representations using the base64
// URL-safe encoding with no padding, and prepending a hyphen to the
// name.  Names that would be otherwise safe and begin with hyphens
// are also encoded.
//
// Timestamps are represented in JSON as RFC 3339 strings,
// "2012-03-04T05:06:07.890Z".
//
// Unallocated Data
//
// Orchestrator-assigned fields, such as a node's management IP or a
// network service's gateway, are pointers that are null until the
// slice has been submitted.  Clients report a null field as
// fim.ErrNotAllocated.
//
// Errors
//
// Most errors are returned as encodings of the ErrorResponse type.
// This can round-trip all of the fim package's errors but may return
// most other errors as plain strings.  If Go server code panics, this
// is captured and returned as an ErrorResponse with error code
// "panic".
package restdata

import (
	"time"

	"github.com/diffeo/go-fablib/fim"
)

// V1JSONMediaType is the preferred, most specific MIME type for the
// JSON representation of this content.
const V1JSONMediaType = "application/vnd.diffeo.fim.v1+json"

// JSONMediaType requests the most recent version of the JSON
// representation of this content.
const JSONMediaType = "application/vnd.diffeo.fim+json"

// Resource is a base type for all resources in this module.
type Resource struct {
	// URL points at this resource.  If this record is a "short"
	// record, the contents of this URL are the full record.
	URL string `json:"url"`
}

// NamedResource is a resource with a name.
type NamedResource struct {
	Resource

	// Name holds the name of this resource.  This is immutable.
	Name string `json:"name"`
}

// RootData is returned by the root path.
type RootData struct {
	Resource

	// SlicesURL points at the slice list.  This endpoint supports
	// HTTP GET to return a SliceList.
	SlicesURL string `json:"slices_url"`

	// SliceURL points at a single slice.  This endpoint supports
	// HTTP GET, which creates the slice if needed, and DELETE.
	// This is a URI template with a single parameter, "slice".
	SliceURL string `json:"slice_url"`
}

// SliceShort provides minimal data to identify a single slice.
type SliceShort struct {
	NamedResource
}

// SliceList is a list of SliceShort.
type SliceList struct {
	Slices []SliceShort `json:"slices"`
}

// Slice provides the state of a slice and pointers to its contents.
type Slice struct {
	SliceShort

	// State is the lifecycle state of the slice.
	State fim.SliceState `json:"state"`

	// LeaseEnd is the end of the slice's lease, or null if it
	// was never submitted.
	LeaseEnd *time.Time `json:"lease_end,omitempty"`

	// StatusURL supports HTTP GET, returning this same
	// representation.  Unlike the slice URL itself, it never
	// creates the slice.
	StatusURL string `json:"status_url"`

	// SubmitURL accepts HTTP POST of a SliceShort to submit the
	// slice.
	SubmitURL string `json:"submit_url"`

	// LeaseURL accepts HTTP PUT of a SliceLease to renew the
	// lease.
	LeaseURL string `json:"lease_url"`

	// NodesURL supports HTTP GET, returning a NodeList, and HTTP
	// POST of a Node to create one.
	NodesURL string `json:"nodes_url"`

	// NodeURL points at a single node.  It supports HTTP GET,
	// PUT of a NodeUpdate, and DELETE.  This is a URI template
	// with a single parameter, "node".
	NodeURL string `json:"node_url"`

	// InterfaceURL points at any interface in the slice by its
	// generated name.  This is a URI template with a single
	// parameter, "interface".
	InterfaceURL string `json:"interface_url"`

	// ServicesURL supports HTTP GET, returning a ServiceList, and
	// HTTP POST of a Service to create one.
	ServicesURL string `json:"services_url"`

	// ServiceURL points at a single network service.  It
	// supports HTTP GET and DELETE.  This is a URI template with
	// a single parameter, "service".
	ServiceURL string `json:"service_url"`
}

// SliceLease is the body of a lease renewal.
type SliceLease struct {
	LeaseEnd time.Time `json:"lease_end"`
}

// NodeShort identifies a node and its type.
type NodeShort struct {
	NamedResource
	Type fim.NodeType `json:"type"`
}

// NodeList is a list of NodeShort.
type NodeList struct {
	Nodes []NodeShort `json:"nodes"`
}

// Node is the full representation of a node.  When posting to create
// a node, only Name, Type, and Site are used.
type Node struct {
	NodeShort

	Site                string               `json:"site"`
	Image               fim.Image            `json:"image"`
	Capacities          fim.Capacities       `json:"capacities"`
	ManagementIP        *string              `json:"management_ip,omitempty"`
	CapacityAllocations *fim.Capacities      `json:"capacity_allocations,omitempty"`
	LabelAllocations    *fim.Labels          `json:"label_allocations,omitempty"`
	ReservationInfo     *fim.ReservationInfo `json:"reservation_info,omitempty"`

	// ComponentsURL supports HTTP GET, returning a
	// ComponentList, and HTTP POST of a Component to create one.
	ComponentsURL string `json:"components_url"`

	// ComponentURL points at a single component, by either its
	// short or generated name.  It supports HTTP GET and DELETE.
	// This is a URI template with a single parameter,
	// "component".
	ComponentURL string `json:"component_url"`

	// InterfacesURL supports HTTP GET, returning an
	// InterfaceList of every interface on the node.
	InterfacesURL string `json:"interfaces_url"`
}

// NodeUpdate is the body of an HTTP PUT to a node.  Non-null fields
// are changed.
type NodeUpdate struct {
	Image      *fim.Image      `json:"image,omitempty"`
	Capacities *fim.Capacities `json:"capacities,omitempty"`
}

// ComponentShort identifies a component.
type ComponentShort struct {
	NamedResource
}

// ComponentList is a list of ComponentShort.
type ComponentList struct {
	Components []ComponentShort `json:"components"`
}

// Component is the full representation of a component.  When posting
// to create a component, only Name and Model are used.
type Component struct {
	ComponentShort

	Model string            `json:"model"`
	Type  fim.ComponentType `json:"type"`

	// InterfacesURL supports HTTP GET, returning an
	// InterfaceList.
	InterfacesURL string `json:"interfaces_url"`
}

// InterfaceShort identifies an interface.
type InterfaceShort struct {
	NamedResource
}

// InterfaceList is a list of InterfaceShort.
type InterfaceList struct {
	Interfaces []InterfaceShort `json:"interfaces"`
}

// Interface is the full representation of an interface.
type Interface struct {
	InterfaceShort

	LabelAllocations *fim.Labels    `json:"label_allocations,omitempty"`
	Capacities       fim.Capacities `json:"capacities"`
	Network          string         `json:"network"`

	// InterfacesURL supports HTTP GET, returning an
	// InterfaceList of sub-interfaces, and HTTP POST of a
	// SubInterface to create one.
	InterfacesURL string `json:"interfaces_url"`
}

// SubInterface is the body of a sub-interface creation request.
type SubInterface struct {
	Name string `json:"name"`
	VLAN string `json:"vlan"`
}

// ServiceShort identifies a network service.
type ServiceShort struct {
	NamedResource
}

// ServiceList is a list of ServiceShort.
type ServiceList struct {
	Services []ServiceShort `json:"services"`
}

// Service is the full representation of a network service.  When
// posting to create a service, only Name, Type, and Interfaces are
// used.
type Service struct {
	ServiceShort

	Type             fim.ServiceType      `json:"type"`
	Layer            fim.Layer            `json:"layer"`
	LabelAllocations *fim.Labels          `json:"label_allocations,omitempty"`
	Gateway          *fim.Gateway         `json:"gateway,omitempty"`
	ReservationInfo  *fim.ReservationInfo `json:"reservation_info,omitempty"`

	// Interfaces names the interfaces to attach when creating a
	// service.  It is not filled in responses; follow
	// InterfacesURL instead.
	Interfaces []string `json:"interfaces,omitempty"`

	// InterfacesURL supports HTTP GET, returning an
	// InterfaceList.
	InterfacesURL string `json:"interfaces_url"`
}

// ErrorResponse can be a response to any method, generally accompanied
// by a failing HTTP status code.
type ErrorResponse struct {
	// Error is a short description of the failure.  This may be
	// the name of a fim API error, the string "panic", or the
	// string "error" for some other kind of error.
	Error string `json:"error"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`

	// Kind qualifies Value for errors that carry two parameters.
	Kind string `json:"kind,omitempty"`

	// Value is an extra parameter to the error if applicable.
	Value string `json:"value,omitempty"`

	// Stack holds a formatted backtrace, if the method failed
	// due to a panic.
	Stack string `json:"stack,omitempty"`
}
