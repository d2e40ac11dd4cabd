// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package fablib provides cached facades over a fim topology model.
//
// Every facade (Node, Component, Interface, NetworkService, Switch,
// FacilityPort, and Slice) wraps one remote fim object and exposes
// cheap accessors for its properties.  Reading a remote property may
// be an expensive round trip, so each property is read at most once
// and then remembered until the facade is invalidated.
//
// Caching
//
// Scalar accessors never fail.  If the remote model cannot produce a
// value, because the object has not been allocated yet, has gone
// away, or the facade has no model at all, the accessor returns the
// zero value of its type and remembers that too:
//
//     node := fablib.NewNode(ref, cfg)
//     ip := node.ManagementIP()   // reads ref.ManagementIP()
//     ip = node.ManagementIP()    // cached, no remote read
//
// Child collections (a node's components and interfaces, a switch's
// ports, and so on) are rebuilt when they are empty, when the caller
// asks for a refresh, or when the facade is dirty.  A rebuild keeps
// the existing facade for every child that is still present and
// calls its Update with the fresh remote reference, so pointers
// callers hold to surviving children stay valid.
//
// Updates
//
// Update(ref) replaces a facade's remote reference, clears every
// cached value, and eagerly rebuilds its child collections.  Passing
// a nil reference does nothing at all; call sites that poll the
// orchestrator can pass whatever they got back without checking it.
// Changes made to the remote object through FIM() are not noticed
// until Update or Invalidate is called.
//
// Concurrency
//
// Facades are not safe for concurrent use.  A single goroutine, such
// as one interactive session or one test script, should own each
// facade graph.  The Manager is the exception: it may be shared.
package fablib
