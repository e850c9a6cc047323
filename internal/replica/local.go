package replica

import (
	"context"

	"quorumkv/internal/storage"
)

// LocalReplica is an in-process replica: an InMemoryStore behind an
// availability Flag. It implements Controllable.
type LocalReplica struct {
	id    string
	store storage.Store
	flag  *Flag
}

// NewLocal creates a healthy replica with an empty store.
func NewLocal(id string) *LocalReplica {
	return &LocalReplica{
		id:    id,
		store: storage.NewInMemoryStore(),
		flag:  NewFlag(),
	}
}

// ID returns the replica identifier used in log lines.
func (r *LocalReplica) ID() string { return r.id }

// Write applies (value, version) for key if the replica is available.
// The ack reports reachability, not whether the stored entry changed.
func (r *LocalReplica) Write(ctx context.Context, key string, value []byte, version uint64) (bool, error) {
	if !r.flag.Available() {
		return false, ErrUnavailable
	}
	r.store.Apply(key, value, version)
	return true, nil
}

// Read returns the latest value for key, nil when unknown.
func (r *LocalReplica) Read(ctx context.Context, key string) (*storage.VersionedValue, error) {
	if !r.flag.Available() {
		return nil, ErrUnavailable
	}
	return r.store.Get(key), nil
}

// Version reports the stored version for key, 0 when unknown.
func (r *LocalReplica) Version(ctx context.Context, key string) (uint64, error) {
	if !r.flag.Available() {
		return 0, ErrUnavailable
	}
	return r.store.Version(key), nil
}

// Fail marks the replica unavailable without clearing its store.
func (r *LocalReplica) Fail() { r.flag.Fail() }

// Recover restores availability.
func (r *LocalReplica) Recover() { r.flag.Recover() }

// DirectWrite seeds the store, bypassing quorum and the availability
// gate. The monotonic version check still applies.
func (r *LocalReplica) DirectWrite(key string, value []byte, version uint64) {
	r.store.Apply(key, value, version)
}

// StoredVersion inspects the stored version regardless of availability.
func (r *LocalReplica) StoredVersion(key string) uint64 {
	return r.store.Version(key)
}
