// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package topology

import (
	"sort"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-fablib/fim"
	"github.com/satori/go.uuid"
)

// Store persists slice documents.  Implementations must be safe for
// concurrent use.
type Store interface {
	// Create creates an empty slice document if none exists with
	// this name.
	Create(name string) error

	// List returns the names of every slice.
	List() ([]string, error)

	// View calls f with the named slice document.  f must not
	// change the document.  If the slice does not exist, returns
	// fim.ErrGone.
	View(name string, f func(*Slice) error) error

	// Update calls f with the named slice document, and saves the
	// document if f returns nil.  If the slice does not exist,
	// returns fim.ErrGone.
	Update(name string, f func(*Slice) error) error

	// Destroy deletes a slice document.  Destroying a slice that
	// does not exist is not an error.
	Destroy(name string) error
}

type orchestrator struct {
	store Store
	clock clock.Clock
	newID func() string
}

// NewOrchestrator creates a fim.Orchestrator over a document store.
// The clock decides when leases expire.
func NewOrchestrator(store Store, clk clock.Clock) fim.Orchestrator {
	return &orchestrator{
		store: store,
		clock: clk,
		newID: func() string { return uuid.NewV4().String() },
	}
}

func (o *orchestrator) Slice(name string) (fim.Slice, error) {
	if err := o.store.Create(name); err != nil {
		return nil, err
	}
	return &slice{o: o, name: name}, nil
}

func (o *orchestrator) Slices() (map[string]fim.Slice, error) {
	names, err := o.store.List()
	if err != nil {
		return nil, err
	}
	result := make(map[string]fim.Slice, len(names))
	for _, name := range names {
		result[name] = &slice{o: o, name: name}
	}
	return result, nil
}

type slice struct {
	o    *orchestrator
	name string
}

func (s *slice) view(f func(*Slice) error) error {
	return s.o.store.View(s.name, f)
}

func (s *slice) update(f func(*Slice) error) error {
	return s.o.store.Update(s.name, f)
}

func (s *slice) now() time.Time {
	return s.o.clock.Now()
}

func (s *slice) Name() string {
	return s.name
}

func (s *slice) Destroy() error {
	return s.o.store.Destroy(s.name)
}

func (s *slice) State() (state fim.SliceState, err error) {
	err = s.view(func(doc *Slice) error {
		state = doc.State(s.now())
		return nil
	})
	return
}

func (s *slice) Submit() error {
	return s.update(func(doc *Slice) error {
		doc.Submit(s.now(), s.o.newID)
		return nil
	})
}

func (s *slice) LeaseEnd() (end time.Time, err error) {
	err = s.view(func(doc *Slice) error {
		end, err = doc.Lease()
		return err
	})
	return
}

func (s *slice) Renew(end time.Time) error {
	return s.update(func(doc *Slice) error {
		return doc.Renew(s.now(), end)
	})
}

func (s *slice) AddNode(name string, nodeType fim.NodeType, site string) (fim.Node, error) {
	err := s.update(func(doc *Slice) error {
		_, err := doc.AddNode(name, nodeType, site)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &node{s: s, name: name, nodeType: nodeType}, nil
}

func (s *slice) Node(name string) (result fim.Node, err error) {
	err = s.view(func(doc *Slice) error {
		n, present := doc.Nodes[name]
		if !present {
			return fim.ErrNoSuchNode{Name: name}
		}
		result = &node{s: s, name: name, nodeType: n.Type}
		return nil
	})
	return
}

func (s *slice) Nodes() (result map[string]fim.Node, err error) {
	err = s.view(func(doc *Slice) error {
		result = make(map[string]fim.Node, len(doc.Nodes))
		for name, n := range doc.Nodes {
			result[name] = &node{s: s, name: name, nodeType: n.Type}
		}
		return nil
	})
	return
}

func (s *slice) RemoveNode(name string) error {
	return s.update(func(doc *Slice) error {
		return doc.RemoveNode(name)
	})
}

func (s *slice) Interface(name string) (result fim.Interface, err error) {
	err = s.view(func(doc *Slice) error {
		if doc.FindInterface(name) == nil {
			return fim.ErrNoSuchInterface{Name: name}
		}
		result = &iface{s: s, name: name}
		return nil
	})
	return
}

func (s *slice) AddNetworkService(name string, serviceType fim.ServiceType, interfaces []string) (fim.NetworkService, error) {
	err := s.update(func(doc *Slice) error {
		_, err := doc.AddService(name, serviceType, interfaces)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &service{s: s, name: name}, nil
}

func (s *slice) NetworkService(name string) (result fim.NetworkService, err error) {
	err = s.view(func(doc *Slice) error {
		if _, present := doc.Services[name]; !present {
			return fim.ErrNoSuchNetworkService{Name: name}
		}
		result = &service{s: s, name: name}
		return nil
	})
	return
}

func (s *slice) NetworkServices() (result map[string]fim.NetworkService, err error) {
	err = s.view(func(doc *Slice) error {
		result = make(map[string]fim.NetworkService, len(doc.Services))
		for name := range doc.Services {
			result[name] = &service{s: s, name: name}
		}
		return nil
	})
	return
}

func (s *slice) RemoveNetworkService(name string) error {
	return s.update(func(doc *Slice) error {
		return doc.RemoveService(name)
	})
}

// interfaceHandles builds handles for a set of interface documents.
func (s *slice) interfaceHandles(docs map[string]*Interface) map[string]fim.Interface {
	result := make(map[string]fim.Interface, len(docs))
	for name := range docs {
		result[name] = &iface{s: s, name: name}
	}
	return result
}

// Names returns the sorted keys of any name-keyed map.  This is a
// convenience for callers that need a stable order.
func Names[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
