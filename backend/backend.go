// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package backend provides a standard way to construct a fim
// orchestrator based on command-line flags.
package backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/memory"
	"github.com/diffeo/go-fablib/postgres"
	"github.com/diffeo/go-fablib/restclient"
)

// Backend describes user-visible parameters to reach a topology
// model.  This implements the flag.Value interface, and so a typical
// use is
//
//     func main() {
//         backend := backend.Backend{Implementation: "memory"}
//         flag.Var(&backend, "backend", "impl:address of the topology model")
//         flag.Parse()
//         orchestrator, err := backend.Orchestrator()
//     }
type Backend struct {
	// Implementation holds the name of the implementation; for
	// instance, "memory".
	Implementation string

	// Address holds some backend-specific address, such as a
	// database connect string.
	Address string
}

// Orchestrator creates a new fim.Orchestrator.  This generally should
// be only called once.  If the backend has in-process state, such as
// a database connection pool or an in-memory store, calling this
// multiple times will create multiple copies of that state.  In
// particular, if b.Implementation is "memory", multiple calls to this
// will create multiple independent topology "worlds".
//
// "http" and "https" backends speak to a REST server at the URL
// formed by the whole backend string.
func (b *Backend) Orchestrator() (fim.Orchestrator, error) {
	switch b.Implementation {
	case "memory":
		return memory.New(), nil
	case "postgres":
		return postgres.New(b.Address)
	case "http", "https":
		return restclient.New(b.String())
	default:
		return nil, fmt.Errorf("unknown topology backend %v", b.Implementation)
	}
}

// String renders a backend description as a string.
func (b *Backend) String() string {
	if b.Address == "" {
		return b.Implementation
	}
	return b.Implementation + ":" + b.Address
}

// Set parses a string into an existing backend description.  The
// string should be of the form "implementation:address", where
// address can be any string.  Set checks to see if the provided
// implementation is any of the known implementations, and returns an
// appropriate error if not.
//
// This is part of the flag.Value interface.  Neither Set nor
// Orchestrator attempts to validate the b.Address part of the string
// or to actually make a connection.
func (b *Backend) Set(param string) error {
	parts := strings.SplitN(param, ":", 2)
	implementation, address := parts[0], ""
	if len(parts) == 2 {
		address = parts[1]
	}
	switch implementation {
	case "":
		return errors.New("must specify a backend type")
	case "memory", "postgres", "http", "https":
	default:
		return fmt.Errorf("unknown topology backend %v", implementation)
	}
	b.Implementation = implementation
	b.Address = address
	return nil
}
