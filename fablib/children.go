// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import "sort"

// updater is a child facade that can take a fresh remote reference.
type updater[R any] interface {
	Update(ref R)
}

// children is a name-keyed collection of child facades.  Resetting
// the collection empties it but keeps the old children aside, so the
// next rebuild can hand the same facade objects back.
type children[R any, C updater[R]] struct {
	items   map[string]C
	retired map[string]C
	build   func(ref R) C
}

func (c *children[R, C]) reset() {
	if len(c.items) == 0 {
		return
	}
	if c.retired == nil {
		c.retired = make(map[string]C, len(c.items))
	}
	for name, child := range c.items {
		c.retired[name] = child
	}
	c.items = nil
}

func (c *children[R, C]) empty() bool {
	return len(c.items) == 0
}

// reconcile makes the collection match refs exactly.  A child that
// already has a facade keeps it, and that facade is updated with the
// new reference.
func (c *children[R, C]) reconcile(refs map[string]R) {
	next := make(map[string]C, len(refs))
	for name, ref := range refs {
		child, present := c.items[name]
		if !present {
			child, present = c.retired[name]
		}
		if present {
			child.Update(ref)
		} else {
			child = c.build(ref)
		}
		next[name] = child
	}
	c.items = next
	c.retired = nil
}

func (c *children[R, C]) lookup(name string) (C, bool) {
	child, present := c.items[name]
	return child, present
}

// list returns the children sorted by name.
func (c *children[R, C]) list() []C {
	names := make([]string, 0, len(c.items))
	for name := range c.items {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]C, len(names))
	for i, name := range names {
		result[i] = c.items[name]
	}
	return result
}

// byName returns a copy of the collection.
func (c *children[R, C]) byName() map[string]C {
	result := make(map[string]C, len(c.items))
	for name, child := range c.items {
		result[name] = child
	}
	return result
}

// refill rebuilds a child collection from the facade's remote
// reference.  If the children cannot be enumerated the collection is
// left empty.
func refill[R, CR any, C updater[CR]](f *facade[R], c *children[CR, C], what string, list func(R) (map[string]CR, error)) {
	f.cfg.Metrics.rebuilt(f.kind, what)
	ref, err := f.model()
	var refs map[string]CR
	if err == nil {
		refs, err = list(ref)
	}
	if err != nil {
		f.log().WithError(err).Debugf("Could not enumerate %s", what)
		c.reset()
		return
	}
	c.reconcile(refs)
}
