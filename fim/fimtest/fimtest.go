// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package fimtest provides generic functional tests for the fim
// interfaces.  A typical backend test module needs to wrap Suite to
// create its backend:
//
//     package mybackend
//
//     import (
//             "testing"
//             "github.com/diffeo/go-fablib/fim/fimtest"
//             "github.com/stretchr/testify/suite"
//     )
//
//     // Suite is the per-backend generic test suite.
//     type Suite struct{
//             fimtest.Suite
//     }
//
//     // SetupSuite does global setup for the test suite.
//     func (s *Suite) SetupSuite() {
//             s.Suite.SetupSuite()
//             s.Orchestrator = NewWithClock(s.Clock)
//     }
//
//     // TestOrchestrator runs the fim generic tests.
//     func TestOrchestrator(t *testing.T) {
//             suite.Run(t, &Suite{})
//     }
package fimtest

import (
	"sort"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-fablib/fim"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic fim backend test suite.
type Suite struct {
	suite.Suite

	// Clock contains the alternate time source to be used in
	// tests.  It is pre-initialized to a mock clock.
	Clock *clock.Mock

	// Orchestrator contains the top-level interface to the backend
	// under test.  It is set by importing packages.
	Orchestrator fim.Orchestrator
}

// SetupSuite does one-time initialization for the test suite.
func (s *Suite) SetupSuite() {
	s.Clock = clock.NewMock()
}

// NewSlice creates a fresh slice named after the running test.  Any
// slice left over from a previous run is destroyed first.
func (s *Suite) NewSlice() fim.Slice {
	name := s.T().Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	slice, err := s.Orchestrator.Slice(name)
	s.Require().NoError(err)
	s.Require().NoError(slice.Destroy())
	slice, err = s.Orchestrator.Slice(name)
	s.Require().NoError(err)
	return slice
}

// AddVM adds a VM node to a slice, failing the test on error.
func (s *Suite) AddVM(slice fim.Slice, name string) fim.Node {
	node, err := slice.AddNode(name, fim.VM, "STAR")
	s.Require().NoError(err)
	return node
}

// AddNIC adds a component to a node, failing the test on error.
func (s *Suite) AddNIC(node fim.Node, name, model string) fim.Component {
	comp, err := node.AddComponent(name, model)
	s.Require().NoError(err)
	return comp
}

// InterfaceNames returns the sorted names of an interface collection,
// failing the test if the collection could not be read.
func (s *Suite) InterfaceNames(ifaces map[string]fim.Interface, err error) []string {
	s.Require().NoError(err)
	var names []string
	for name, iface := range ifaces {
		s.Equal(name, iface.Name())
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
