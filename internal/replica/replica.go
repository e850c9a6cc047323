package replica

import (
	"context"
	"errors"
	"sync"

	"quorumkv/internal/storage"
)

// ErrUnavailable signals that a replica is down or unreachable. The
// coordinator absorbs it as a missing vote; it is never surfaced to
// clients directly.
var ErrUnavailable = errors.New("replica unavailable")

// Replica is the interface the coordinator fans out to. Implementations
// must keep the per-key version check atomic: a stored version never
// decreases, even under concurrent or out-of-order writes.
type Replica interface {
	// Write offers (value, version) for key. A reachable replica acks
	// with true even when the version is stale and silently ignored;
	// only an unavailable replica withholds its ack.
	Write(ctx context.Context, key string, value []byte, version uint64) (bool, error)
	// Read returns the replica's latest value for key. It returns
	// (nil, nil) when the key is unknown and ErrUnavailable when the
	// replica is down.
	Read(ctx context.Context, key string) (*storage.VersionedValue, error)
	// Version reports the stored version for key, 0 when unknown.
	Version(ctx context.Context, key string) (uint64, error)
}

// Controllable is the fault-injection and inspection capability a
// replica may expose alongside the base contract. In-process replicas
// implement it; transport-backed replicas do not, and the coordinator
// queries for the capability per call instead of assuming it.
type Controllable interface {
	Replica
	// Fail makes the replica reject reads and writes until Recover.
	// Stored data is retained.
	Fail()
	// Recover restores availability; retained data becomes visible again.
	Recover()
	// DirectWrite seeds the store with (value, version), bypassing both
	// quorum and the availability gate. The node-level version check
	// still applies.
	DirectWrite(key string, value []byte, version uint64)
	// StoredVersion inspects the stored version for key regardless of
	// availability, 0 when unknown.
	StoredVersion(key string) uint64
}

// Flag is the availability switch behind a local replica. Failing a
// replica does not touch its stored data; a recovered replica serves
// whatever it held before failing.
type Flag struct {
	mu   sync.Mutex
	down bool
}

// NewFlag creates a Flag in the available state.
func NewFlag() *Flag {
	return &Flag{}
}

// Available reports whether the replica may serve calls.
func (f *Flag) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.down
}

// Fail marks the replica unavailable.
func (f *Flag) Fail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = true
}

// Recover marks the replica available again.
func (f *Flag) Recover() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = false
}
