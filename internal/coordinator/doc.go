// Package coordinator implements the quorum coordinator: it owns a
// fixed, ordered replica set and the global write-version sequencer,
// fans writes out to all replicas, gates reads on the read quorum,
// resolves divergence by version, and repairs stale replicas in the
// background of the read path.
package coordinator
