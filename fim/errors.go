// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fim

import (
	"errors"
	"fmt"
)

// ErrGone is returned as an error from any method of an object whose
// slice, node, or parent has been deleted since the object was
// retrieved.
var ErrGone = errors.New("Object has been deleted")

// ErrNoModel is returned by client code that wants to read through a
// remote model reference but does not have one.
var ErrNoModel = errors.New("No remote model reference")

// ErrNotSubmitted is returned from Slice.LeaseEnd() and Slice.Renew()
// on a slice that has never been submitted.
var ErrNotSubmitted = errors.New("Slice has not been submitted")

// ErrWrongNodeType is returned from Node.AddComponent() on a node
// that is not a VM.
var ErrWrongNodeType = errors.New("Operation not supported on this node type")

// ErrBadLease is returned from Slice.Renew() if the requested lease
// end is not in the future.
var ErrBadLease = errors.New("Lease end must be in the future")

// ErrNoSuchSlice is returned by operations that look up a slice by
// name and cannot find it.
type ErrNoSuchSlice struct {
	Name string
}

func (err ErrNoSuchSlice) Error() string {
	return fmt.Sprintf("No such slice %v", err.Name)
}

// ErrNoSuchNode is returned by Slice.Node() and similar functions
// that want to look up a node, but cannot find it.
type ErrNoSuchNode struct {
	Name string
}

func (err ErrNoSuchNode) Error() string {
	return fmt.Sprintf("No such node %v", err.Name)
}

// ErrNoSuchComponent is returned by Node.RemoveComponent() and by
// backends resolving a component path that no longer exists.
type ErrNoSuchComponent struct {
	Name string
}

func (err ErrNoSuchComponent) Error() string {
	return fmt.Sprintf("No such component %v", err.Name)
}

// ErrNoSuchInterface is returned by Slice.Interface() and
// Slice.AddNetworkService() when an interface name does not resolve.
type ErrNoSuchInterface struct {
	Name string
}

func (err ErrNoSuchInterface) Error() string {
	return fmt.Sprintf("No such interface %v", err.Name)
}

// ErrNoSuchNetworkService is returned by Slice.NetworkService() and
// Slice.RemoveNetworkService() for an unknown service name.
type ErrNoSuchNetworkService struct {
	Name string
}

func (err ErrNoSuchNetworkService) Error() string {
	return fmt.Sprintf("No such network service %v", err.Name)
}

// ErrNotAllocated is returned from accessors of orchestrator-assigned
// data before the orchestrator has assigned it.
type ErrNotAllocated struct {
	Property string
}

func (err ErrNotAllocated) Error() string {
	return fmt.Sprintf("%v has not been allocated", err.Property)
}

// ErrAlreadyExists is returned when creating a named object whose
// name is already taken, or when attaching an interface that already
// belongs to a network service.
type ErrAlreadyExists struct {
	Kind string
	Name string
}

func (err ErrAlreadyExists) Error() string {
	return fmt.Sprintf("%v %v already exists", err.Kind, err.Name)
}

// ErrUnknownModel is returned from Node.AddComponent() for a model
// name that is not in the catalog.
type ErrUnknownModel struct {
	Model string
}

func (err ErrUnknownModel) Error() string {
	return fmt.Sprintf("Unknown component model %v", err.Model)
}

// ErrUnknownServiceType is returned from Slice.AddNetworkService()
// for a service type this package does not know.
type ErrUnknownServiceType struct {
	Type ServiceType
}

func (err ErrUnknownServiceType) Error() string {
	return fmt.Sprintf("Unknown network service type %v", err.Type)
}
