// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package memory provides an in-process, in-memory implementation of
// the fim interfaces.  There is no persistence, nor is there any
// automatic sharing.  The entire system is behind a single global
// lock to protect against concurrent updates; in some cases this can
// limit performance in the name of correctness.
//
// This is mostly intended as a simple reference implementation of
// the topology model that can be used for testing, including
// in-process testing of the fablib facades.  It is generally tuned
// for correctness, not performance or scalability.
package memory

import (
	"sort"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/topology"
)

// New creates a new orchestrator that operates purely in memory.
func New() fim.Orchestrator {
	return NewWithClock(clock.New())
}

// NewWithClock creates a new orchestrator that operates purely in
// memory, with an alternate time source.  Lease expiry is decided
// against this clock.
func NewWithClock(clk clock.Clock) fim.Orchestrator {
	return topology.NewOrchestrator(NewStore(), clk)
}

// Store is a topology.Store that keeps slice documents in a map.
type Store struct {
	slices map[string]*topology.Slice
	sem    sync.Mutex
}

// NewStore creates an empty in-memory document store.
func NewStore() *Store {
	return &Store{slices: make(map[string]*topology.Slice)}
}

// Create creates an empty slice document if it does not exist.
func (s *Store) Create(name string) error {
	s.sem.Lock()
	defer s.sem.Unlock()

	if _, present := s.slices[name]; !present {
		s.slices[name] = topology.NewSlice(name)
	}
	return nil
}

// List returns the sorted names of all slices.
func (s *Store) List() ([]string, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	names := make([]string, 0, len(s.slices))
	for name := range s.slices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// View calls f on the named slice with the global lock held.
func (s *Store) View(name string, f func(*topology.Slice) error) error {
	return s.do(name, f)
}

// Update calls f on the named slice with the global lock held.
// Changes f makes are visible immediately, even if it returns an
// error, so f should validate before it mutates.
func (s *Store) Update(name string, f func(*topology.Slice) error) error {
	return s.do(name, f)
}

// Destroy deletes the named slice.
func (s *Store) Destroy(name string) error {
	s.sem.Lock()
	defer s.sem.Unlock()

	delete(s.slices, name)
	return nil
}

func (s *Store) do(name string, f func(*topology.Slice) error) error {
	s.sem.Lock()
	defer s.sem.Unlock()

	doc, present := s.slices[name]
	if !present {
		return fim.ErrGone
	}
	return f(doc)
}
