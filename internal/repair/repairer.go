package repair

import (
	"context"
	"log"
	"sync"
	"time"

	"quorumkv/internal/quorum"
)

// WriteFunc writes (value, version) to the replica at nodeIndex.
type WriteFunc func(ctx context.Context, nodeIndex int, key string, value []byte, version uint64) error

// Repairer rewrites stale replicas found during reads. Repairs run in
// the background; failures are logged and left for a later read to
// retry, which the node-level version gate makes safe.
type Repairer struct {
	writeFn WriteFunc
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRepairer creates a repairer that converges replicas through writeFn.
func NewRepairer(writeFn WriteFunc, timeout time.Duration) *Repairer {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Repairer{
		writeFn: writeFn,
		timeout: timeout,
	}
}

// Repair schedules rewrites of every stale responder with the winning
// value. The context is detached from the read that discovered the
// staleness so a fast caller cannot cancel the repair.
func (r *Repairer) Repair(key string, winner quorum.ReadValue, stale []quorum.ReadValue) {
	if len(stale) == 0 {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[repair] panic for key %s: %v", key, err)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		log.Printf("[repair] key=%s: %d stale replicas, winning version %d", key, len(stale), winner.Version)

		repaired := 0
		failed := 0
		for _, sv := range stale {
			if err := r.writeFn(ctx, sv.NodeIndex, key, winner.Value, winner.Version); err != nil {
				log.Printf("[repair] node %d failed for key %s: %v", sv.NodeIndex, key, err)
				failed++
				continue
			}
			repaired++
		}

		log.Printf("[repair] key=%s: %d repaired, %d failed", key, repaired, failed)
	}()
}

// Wait blocks until every repair scheduled so far has completed.
func (r *Repairer) Wait() {
	r.wg.Wait()
}
