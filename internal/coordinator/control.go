package coordinator

import (
	"context"
	"fmt"
	"log"

	"quorumkv/internal/replica"
)

// The fault-injection and inspection surface. It mirrors what an admin
// endpoint exposes in a deployment and what tests use to build partial
// replication scenarios.

func (c *Coordinator) node(i int) (replica.Replica, error) {
	if i < 0 || i >= len(c.replicas) {
		return nil, fmt.Errorf("node index %d out of range [0,%d)", i, len(c.replicas))
	}
	return c.replicas[i], nil
}

func (c *Coordinator) controllable(i int) (replica.Controllable, error) {
	r, err := c.node(i)
	if err != nil {
		return nil, err
	}
	ctl, ok := r.(replica.Controllable)
	if !ok {
		return nil, fmt.Errorf("node %d: %w", i, ErrNotControllable)
	}
	return ctl, nil
}

// FailNode makes node i reject reads and writes. Its stored data is
// retained for when it recovers.
func (c *Coordinator) FailNode(i int) error {
	ctl, err := c.controllable(i)
	if err != nil {
		return err
	}
	ctl.Fail()
	log.Printf("[coordinator] node %d marked failed", i)
	return nil
}

// RecoverNode restores node i, exposing whatever it held before failing.
func (c *Coordinator) RecoverNode(i int) error {
	ctl, err := c.controllable(i)
	if err != nil {
		return err
	}
	ctl.Recover()
	log.Printf("[coordinator] node %d recovered", i)
	return nil
}

// DirectWrite seeds node i with (key, value, version), bypassing quorum
// and availability. Used to simulate partial replication.
func (c *Coordinator) DirectWrite(i int, key string, value []byte, version uint64) error {
	ctl, err := c.controllable(i)
	if err != nil {
		return err
	}
	ctl.DirectWrite(key, value, version)
	return nil
}

// NodeVersion reports the version node i holds for key, 0 when unknown.
// For controllable replicas the stored version is inspected even while
// the node is failed; otherwise the replica is queried directly.
func (c *Coordinator) NodeVersion(i int, key string) (uint64, error) {
	r, err := c.node(i)
	if err != nil {
		return 0, err
	}
	if ctl, ok := r.(replica.Controllable); ok {
		return ctl.StoredVersion(key), nil
	}
	return r.Version(context.Background(), key)
}
