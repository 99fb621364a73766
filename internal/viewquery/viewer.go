// Package viewquery compiles the read-side article and comment view queries.
//
// Every view shares one statement shape: the author join, the tag and favorite
// aggregates, viewer-relative flags and an ordered list of predicates. Lists,
// counts and single lookups are all derived from that shape so a filter can
// never apply to one and not the other.
package viewquery

import "inkwell/internal/values"

// Viewer is the identity the viewer-relative flags are computed for.
// The zero value is anonymous.
type Viewer struct {
	id      values.UserID
	present bool
}

// Anonymous returns a viewer with no identity.
func Anonymous() Viewer {
	return Viewer{}
}

// ViewerOf returns a viewer bound to the given user.
func ViewerOf(id values.UserID) Viewer {
	return Viewer{id: id, present: true}
}

// ID returns the viewer's user id and whether one is present.
func (v Viewer) ID() (values.UserID, bool) {
	return v.id, v.present
}

func (v Viewer) IsAnonymous() bool {
	return !v.present
}
