// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"reflect"

	"github.com/diffeo/go-fablib/fim"
	"github.com/sirupsen/logrus"
)

// facade is the state every cached facade shares: the remote
// reference, the dirty flag, and the set of cells and child
// collections that invalidation clears.  R is the fim interface the
// facade wraps.
type facade[R any] struct {
	kind    string
	ref     R
	dirty   bool
	cfg     *Config
	tracked []resetter
}

// init sets up a freshly allocated facade.  tracked must point into
// the enclosing struct.
func (f *facade[R]) init(kind string, ref R, cfg *Config, tracked ...resetter) {
	f.kind = kind
	f.ref = ref
	f.dirty = true
	f.cfg = cfg.orDefault()
	f.tracked = tracked
}

// present reports whether ref holds a usable remote object.  An
// interface holding a typed nil pointer counts as absent.
func present[R any](ref R) bool {
	v := reflect.ValueOf(any(ref))
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !v.IsNil()
	}
	return true
}

// model returns the remote reference, or fim.ErrNoModel if there is
// none.
func (f *facade[R]) model() (R, error) {
	if !present(f.ref) {
		var zero R
		return zero, fim.ErrNoModel
	}
	return f.ref, nil
}

// FIM returns the remote reference this facade currently wraps.
// Changes made through it are not reflected in cached values until
// the facade is updated or invalidated.
func (f *facade[R]) FIM() R {
	return f.ref
}

// Dirty reports whether child collections must be rebuilt before
// they can be trusted.
func (f *facade[R]) Dirty() bool {
	return f.dirty
}

// Invalidate marks the facade dirty and forgets every cached value
// and child collection.  It does not change the remote reference.
func (f *facade[R]) Invalidate() {
	f.dirty = true
	for _, r := range f.tracked {
		r.reset()
	}
}

// update swaps in a new remote reference, invalidates, runs rebuild
// to bring child collections up to date, and then marks the facade
// clean.  A nil reference is ignored.
func (f *facade[R]) update(ref R, rebuild func()) {
	if !present(ref) {
		return
	}
	f.ref = ref
	f.Invalidate()
	if rebuild != nil {
		rebuild()
	}
	f.dirty = false
}

// stale decides whether a child collection needs rebuilding.
func (f *facade[R]) stale(empty, refresh bool) bool {
	return empty || refresh || f.dirty
}

func (f *facade[R]) log() *logrus.Entry {
	return f.cfg.Log().WithField("facade", f.kind)
}

// read fills a cell from the remote reference.
func read[R, T any](f *facade[R], c *cell[T], get func(R) (T, error)) T {
	f.cfg.Metrics.observe(f.kind, c.set)
	return c.get(func() (T, error) {
		ref, err := f.model()
		if err != nil {
			var zero T
			return zero, err
		}
		return get(ref)
	})
}

// derive fills a cell from other accessors of the same facade.
func derive[R, T any](f *facade[R], c *cell[T], compute func() T) T {
	f.cfg.Metrics.observe(f.kind, c.set)
	return c.get(func() (T, error) {
		return compute(), nil
	})
}
