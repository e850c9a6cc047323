package storage

import "sync"

// VersionedValue is an immutable value/version pair as held by a replica.
// A later write supersedes it with a new pair; it is never mutated.
type VersionedValue struct {
	Value   []byte
	Version uint64
}

// Store defines the keyed store owned by a single replica.
type Store interface {
	// Get returns a copy of the latest value for key, or nil if the key
	// has never been written to this store.
	Get(key string) *VersionedValue
	// Apply stores (value, version) iff version is strictly greater than
	// the currently stored version for key. Returns true iff the entry
	// changed; a stale or duplicate version is ignored without error and
	// never regresses existing state.
	Apply(key string, value []byte, version uint64) bool
	// Version returns the stored version for key, or 0 if unknown.
	Version(key string) uint64
	// Len returns the number of keys held.
	Len() int
}

// InMemoryStore is a mutex-guarded in-memory implementation of Store.
// The version check in Apply runs under the write lock, keeping the
// per-key compare-and-replace atomic under concurrent coordinator calls.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]*VersionedValue
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		data: make(map[string]*VersionedValue),
	}
}

// Get retrieves a value by key.
func (s *InMemoryStore) Get(key string) *VersionedValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vv, exists := s.data[key]
	if !exists {
		return nil
	}

	// Return a copy to avoid external modifications.
	return &VersionedValue{
		Value:   append([]byte(nil), vv.Value...),
		Version: vv.Version,
	}
}

// Apply stores (value, version) if it advances the entry for key.
func (s *InMemoryStore) Apply(key string, value []byte, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.data[key]; exists && version <= existing.Version {
		return false
	}

	s.data[key] = &VersionedValue{
		Value:   append([]byte(nil), value...),
		Version: version,
	}
	return true
}

// Version returns the stored version for key, or 0 if unknown.
func (s *InMemoryStore) Version(key string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if vv, exists := s.data[key]; exists {
		return vv.Version
	}
	return 0
}

// Len returns the number of keys held.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
