// Package oplog records the process-data traffic between the Task
// Controller session layer and the implement dispatch.
//
// Events are encoded as CBOR with integer keys and deterministic map
// ordering, so identical events always produce identical bytes. The
// Recorder is a bounded, non-blocking sink: the dispatch runs on the
// session layer's servicing path and must never wait on the log, so a
// full recorder drops events and counts the drops instead of blocking.
// The Store drains a recorder into sqlite for later inspection.
package oplog
