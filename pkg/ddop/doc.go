// Package ddop builds and holds the Device Descriptor Object Pool the
// implement reports to a Task Controller.
//
// The pool is an arena keyed by 16-bit object ID. Elements reference
// their children by ID rather than by pointer; references are checked
// when looked up (and by Validate), not when inserted, so a pool under
// construction may briefly hold dangling references.
//
// A pool is rebuilt as a whole: Clear drops every object, and the
// implement builder re-adds the full set in one fixed order. There is
// no per-object removal.
package ddop
