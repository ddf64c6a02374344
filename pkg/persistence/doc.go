// Package persistence provides runtime state persistence for the
// implement.
//
// This package handles the JSON serialization of the operator-facing
// runtime state (control mode, target rate, local switch positions)
// that should survive a restart. The object pool is not persisted; it
// is rebuilt deterministically from configuration on every start.
package persistence
