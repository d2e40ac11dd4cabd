// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"sort"

	"github.com/diffeo/go-fablib/fim"
)

// DefaultManagerSize is the number of slice facades a Manager keeps
// when no size is given.
const DefaultManagerSize = 64

// Manager hands out one Slice facade per slice name, so that every
// caller asking for the same slice sees the same facade graph.
// Recently used facades are kept; others are evicted and rebuilt on
// demand.  A Manager may be shared between goroutines, but the
// facades it returns may not.
type Manager struct {
	orchestrator fim.Orchestrator
	config       *Config
	slices       *lru[*Slice]
}

// NewManager creates a manager over orchestrator that keeps up to
// size slice facades.  A size of zero uses DefaultManagerSize.
func NewManager(orchestrator fim.Orchestrator, cfg *Config, size int) *Manager {
	if size <= 0 {
		size = DefaultManagerSize
	}
	return &Manager{
		orchestrator: orchestrator,
		config:       cfg.orDefault(),
		slices:       newLRU[*Slice](size),
	}
}

// Config returns the configuration facades are built with.
func (m *Manager) Config() *Config {
	return m.config
}

func (m *Manager) build(ref fim.Slice) *Slice {
	s := NewSlice(ref, m.orchestrator, m.config)
	s.Update(ref)
	m.config.Log().WithField("slice", ref.Name()).Debug("Built slice facade")
	return s
}

// Slice returns the facade for the named slice, creating the slice
// in the orchestrator if it does not exist yet.
func (m *Manager) Slice(name string) (*Slice, error) {
	return m.slices.Get(name, func(name string) (*Slice, error) {
		ref, err := m.orchestrator.Slice(name)
		if err != nil {
			return nil, err
		}
		return m.build(ref), nil
	})
}

// Slices returns facades for every slice the orchestrator knows,
// sorted by name.
func (m *Manager) Slices() ([]*Slice, error) {
	refs, err := m.orchestrator.Slices()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]*Slice, 0, len(names))
	for _, name := range names {
		ref := refs[name]
		s, err := m.slices.Get(name, func(string) (*Slice, error) {
			return m.build(ref), nil
		})
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

// Forget drops the facade for a slice, if there is one.  The next
// request for the slice builds a new facade.
func (m *Manager) Forget(name string) {
	m.slices.Remove(name)
}
