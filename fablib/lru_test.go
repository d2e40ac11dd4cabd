// Copyright 2016-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type aName struct {
	IAm string
}

func (a aName) Name() string {
	return a.IAm
}

func makeName(name string) (aName, error) {
	return aName{IAm: name}, nil
}

func doNotMake(name string) (aName, error) {
	return aName{}, assert.AnError
}

type lruAssertions struct {
	*assert.Assertions
	LRU *lru[aName]
}

func newLRUAssertions(t assert.TestingT, size int) *lruAssertions {
	return &lruAssertions{
		assert.New(t),
		newLRU[aName](size),
	}
}

// PutName adds an item with name to the cache.
func (a *lruAssertions) PutName(name string) {
	a.LRU.Put(aName{IAm: name})
}

// GetName fetches an item with name from the cache; if not present, it
// is added.
func (a *lruAssertions) GetName(name string) {
	item, err := a.LRU.Get(name, makeName)
	if a.NoError(err) {
		a.Equal(name, item.Name())
	}
}

// GetPresent fetches an item that must already be cached.
func (a *lruAssertions) GetPresent(name string) {
	item, err := a.LRU.Get(name, doNotMake)
	if a.NoError(err) {
		a.Equal(name, item.Name())
	}
}

// GetError tries to fetch an absent item whose fetch fails.
func (a *lruAssertions) GetError(name string) {
	_, err := a.LRU.Get(name, doNotMake)
	a.Error(err)
}

// LRUHas asserts that an item with name is in the cache.
func (a *lruAssertions) LRUHas(name string) {
	item, present := a.LRU.Peek(name)
	if a.True(present, name) {
		a.Equal(name, item.Name())
	}
}

// LRUDoesNotHave asserts that no item with name is in the cache.
func (a *lruAssertions) LRUDoesNotHave(name string) {
	_, present := a.LRU.Peek(name)
	a.False(present, name)
}

// TestLRUSimple tests minimal object presence.
func TestLRUSimple(t *testing.T) {
	a := newLRUAssertions(t, 2)
	a.PutName("Sam")

	a.LRUHas("Sam")
	a.LRUDoesNotHave("Horton")
	a.Equal(1, a.LRU.Len())
}

// TestLRUAutoInsert tests lru.Get() adding absent items.
func TestLRUAutoInsert(t *testing.T) {
	a := newLRUAssertions(t, 2)

	a.GetName("Marvin")
	a.GetName("Horton")
	a.LRUHas("Marvin")
	a.LRUHas("Horton")

	// A third name evicts the oldest
	a.GetName("Sam")
	a.LRUDoesNotHave("Marvin")
	a.LRUHas("Horton")
	a.LRUHas("Sam")
}

func TestLRUInsertError(t *testing.T) {
	a := newLRUAssertions(t, 2)

	a.GetName("Marvin")
	a.GetName("Horton")

	// A failed fetch adds nothing, so nothing is evicted
	a.GetError("Sam")
	a.LRUHas("Marvin")
	a.LRUHas("Horton")
	a.LRUDoesNotHave("Sam")

	// Present items never call the fetch function
	a.GetPresent("Marvin")
	a.GetPresent("Horton")
}

// TestLRUOrder tests that getting an item causes it to not get evicted.
func TestLRUOrder(t *testing.T) {
	a := newLRUAssertions(t, 2)

	a.GetName("Marvin")
	a.GetName("Horton")
	a.GetName("Marvin")

	a.GetName("Sam")
	a.LRUHas("Marvin")
	a.LRUDoesNotHave("Horton")
	a.LRUHas("Sam")
}

// TestLRURemoval does simple tests on the Remove call.
func TestLRURemoval(t *testing.T) {
	a := newLRUAssertions(t, 2)

	a.GetName("Marvin")
	a.LRU.Remove("Marvin")
	a.LRUDoesNotHave("Marvin")

	a.LRU.Remove("Sam")
	a.LRUDoesNotHave("Sam")

	// Removing a newer item keeps the older one from eviction
	a.GetName("Marvin")
	a.GetName("Horton")
	a.LRU.Remove("Horton")
	a.GetName("Sam")
	a.LRUHas("Marvin")
	a.LRUDoesNotHave("Horton")
	a.LRUHas("Sam")
}

// TestLRUKeyedByLookupName checks that eviction uses the name an item
// was fetched under.
func TestLRUKeyedByLookupName(t *testing.T) {
	a := newLRUAssertions(t, 1)
	_, err := a.LRU.Get("alias", makeName)
	a.NoError(err)
	a.GetName("Sam")
	a.LRUDoesNotHave("alias")
	a.LRUHas("Sam")
}
