// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import "fmt"

// ErrNotFound is returned when a caller asks for a named child that
// does not exist, even after rebuilding the child collection.
type ErrNotFound struct {
	// Kind is the sort of object that was requested, such as
	// "interface".
	Kind string

	// Key is the name (or other lookup key) that was requested.
	Key string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// ErrAvoidedSite is returned when a node is placed at a site the
// configuration says to avoid.
type ErrAvoidedSite struct {
	Site string
}

func (e ErrAvoidedSite) Error() string {
	return fmt.Sprintf("site %s is on the avoid list", e.Site)
}
