package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"quorumkv/internal/clock"
	"quorumkv/internal/quorum"
	"quorumkv/internal/repair"
	"quorumkv/internal/replica"
)

// ErrNotControllable is returned by the fault-injection surface when a
// replica does not expose it (transport-backed replicas, typically).
var ErrNotControllable = errors.New("replica does not expose fault injection")

// Coordinator orchestrates quorum writes and reads over a fixed, ordered
// replica set. The replica set is immutable after construction; the only
// coordinator-side mutable state is the version sequencer.
type Coordinator struct {
	cfg      quorum.Config
	seq      *clock.Sequencer
	replicas []replica.Replica
	repairer *repair.Repairer
}

// New builds a coordinator over replicaCount fresh in-process replicas,
// all initially healthy.
func New(replicaCount, writeQuorum, readQuorum int) (*Coordinator, error) {
	replicas := make([]replica.Replica, replicaCount)
	for i := range replicas {
		replicas[i] = replica.NewLocal(fmt.Sprintf("replica-%d", i))
	}
	return NewWithReplicas(replicas, writeQuorum, readQuorum)
}

// NewWithReplicas builds a coordinator over caller-supplied replicas,
// for example transport-backed ones. The slice order fixes the node
// indices used by the inspection surface and the tie-break rule.
func NewWithReplicas(replicas []replica.Replica, writeQuorum, readQuorum int) (*Coordinator, error) {
	cfg, err := quorum.NewConfig(len(replicas), writeQuorum, readQuorum)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		cfg:      cfg,
		seq:      clock.NewSequencer(),
		replicas: replicas,
	}
	c.repairer = repair.NewRepairer(c.repairWrite, 0)

	log.Printf("[coordinator] configured %s", cfg)
	return c, nil
}

// Config returns the quorum configuration.
func (c *Coordinator) Config() quorum.Config {
	return c.cfg
}

// Write replicates (key, value) to all nodes and reports whether at
// least W of them acked. Acks count reachability: a healthy node that
// silently ignores a stale version still acks. The version is consumed
// before the fanout, so a failed write still advances the counter and
// leaves whatever partial state landed on responding nodes.
func (c *Coordinator) Write(ctx context.Context, key string, value []byte) bool {
	version := c.seq.Next()
	requestID := uuid.NewString()

	result := quorum.Write(ctx, c.cfg.N, c.cfg.W, func(ctx context.Context, i int) (bool, error) {
		return c.replicas[i].Write(ctx, key, value, version)
	})

	if !result.Success {
		log.Printf("[coordinator] write key=%s version=%d request_id=%s failed: %s",
			key, version, requestID, result.ErrorMessage)
		return false
	}

	log.Printf("[coordinator] write key=%s version=%d request_id=%s acks=%d/%d",
		key, version, requestID, result.Acks, result.Replicas)
	return true
}

// Read gathers present responses from all nodes, requires at least R of
// them, and returns the highest-versioned value. Stale responders are
// repaired in the background; AwaitRepair blocks until those repairs
// finish. Fewer than R present responses reads as absent, even when some
// nodes hold the key.
func (c *Coordinator) Read(ctx context.Context, key string) ([]byte, bool) {
	requestID := uuid.NewString()

	result := quorum.Read(ctx, c.cfg.N, c.cfg.R, func(ctx context.Context, i int) ([]byte, uint64, bool, error) {
		vv, err := c.replicas[i].Read(ctx, key)
		if err != nil {
			return nil, 0, false, err
		}
		if vv == nil {
			return nil, 0, false, nil
		}
		return vv.Value, vv.Version, true, nil
	})

	if !result.Success {
		log.Printf("[coordinator] read key=%s request_id=%s failed: %s",
			key, requestID, result.ErrorMessage)
		return nil, false
	}

	rec := repair.Reconcile(result.Values)
	if !rec.Found {
		return nil, false
	}

	if len(rec.Stale) > 0 {
		log.Printf("[coordinator] read key=%s request_id=%s repairing %d stale replicas to version %d",
			key, requestID, len(rec.Stale), rec.Winner.Version)
		c.repairer.Repair(key, rec.Winner, rec.Stale)
	}

	return rec.Winner.Value, true
}

// AwaitRepair blocks until every read repair scheduled so far completes.
func (c *Coordinator) AwaitRepair() {
	c.repairer.Wait()
}

func (c *Coordinator) repairWrite(ctx context.Context, nodeIndex int, key string, value []byte, version uint64) error {
	ok, err := c.replicas[nodeIndex].Write(ctx, key, value, version)
	if err != nil {
		return err
	}
	if !ok {
		return replica.ErrUnavailable
	}
	return nil
}
