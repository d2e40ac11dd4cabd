// Copyright 2016-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"container/list"
	"sync"
)

// named describes things with names, like every facade.
type named interface {
	Name() string
}

// entry is one element of the eviction list.
type entry[T any] struct {
	name string
	item T
}

// lru is a least-recently-used cache with a fixed capacity, keyed by
// the items' names.  The cache can be safely accessed from multiple
// goroutines.
type lru[T named] struct {
	size      int
	lock      sync.RWMutex
	evictList *list.List
	index     map[string]*list.Element
}

func newLRU[T named](size int) *lru[T] {
	return &lru[T]{
		size:      size,
		evictList: list.New(),
		index:     make(map[string]*list.Element),
	}
}

// Get retrieves an item from the cache.  If it is not present, calls
// the fetch function, and if that succeeds, saves the item and
// returns it.  This returns an error only if the item is not present
// and the fetch function returns an error.
func (lru *lru[T]) Get(name string, fetch func(string) (T, error)) (T, error) {
	// This happens under a writer lock, since a present item
	// moves to the back of the list
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[name]; present {
		lru.evictList.MoveToBack(element)
		return element.Value.(entry[T]).item, nil
	}

	item, err := fetch(name)
	if err != nil {
		return item, err
	}
	lru.add(name, item)
	return item, nil
}

// Peek looks for an item in the cache without affecting its recency.
func (lru *lru[T]) Peek(name string) (T, bool) {
	lru.lock.RLock()
	defer lru.lock.RUnlock()

	if element, present := lru.index[name]; present {
		return element.Value.(entry[T]).item, true
	}
	var zero T
	return zero, false
}

// Put adds an item to the cache, possibly evicting something.
func (lru *lru[T]) Put(item T) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	name := item.Name()
	if element, present := lru.index[name]; present {
		element.Value = entry[T]{name, item}
		lru.evictList.MoveToBack(element)
		return
	}
	lru.add(name, item)
}

// Remove takes an item out of the cache.  It does nothing if that
// name does not exist.
func (lru *lru[T]) Remove(name string) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[name]; present {
		delete(lru.index, name)
		lru.evictList.Remove(element)
	}
}

// Len returns the number of cached items.
func (lru *lru[T]) Len() int {
	lru.lock.RLock()
	defer lru.lock.RUnlock()
	return len(lru.index)
}

// add runs under the write lock and adds an item known not to be
// present yet.
func (lru *lru[T]) add(name string, item T) {
	lru.index[name] = lru.evictList.PushBack(entry[T]{name, item})
	for len(lru.index) > lru.size {
		head := lru.evictList.Front()
		delete(lru.index, head.Value.(entry[T]).name)
		lru.evictList.Remove(head)
	}
}
