// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

// OrDefault runs f and returns its value, or the zero value of T if
// f fails.
func OrDefault[T any](f func() (T, error)) T {
	value, err := f()
	if err != nil {
		var zero T
		return zero
	}
	return value
}

// resetter is anything a facade clears on invalidation.
type resetter interface {
	reset()
}

// cell is one memoized property.  An unset cell is distinct from a
// cell holding the zero value.
type cell[T any] struct {
	value T
	set   bool
}

// get returns the cached value, computing and storing it first if
// the cell is unset.
func (c *cell[T]) get(compute func() (T, error)) T {
	if !c.set {
		c.value = OrDefault(compute)
		c.set = true
	}
	return c.value
}

func (c *cell[T]) reset() {
	var zero T
	c.value = zero
	c.set = false
}
