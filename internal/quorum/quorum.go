package quorum

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultPerReplicaTimeout bounds each fanout round. The per-replica
	// calls share one timeout; a replica that misses it counts as a
	// non-vote, exactly like an unavailable one.
	DefaultPerReplicaTimeout = 2 * time.Second
)

// WriteResult represents the outcome of a quorum write fanout.
type WriteResult struct {
	Success      bool
	Acks         int
	Required     int
	Replicas     int
	ErrorMessage string
}

// ReadResult represents the outcome of a quorum read fanout.
type ReadResult struct {
	Success      bool
	Responses    int
	Required     int
	Replicas     int
	Values       []ReadValue
	ErrorMessage string
}

// ReadValue is one present response, tagged with the node that returned
// it so stale responders can be repaired afterwards.
type ReadValue struct {
	NodeIndex int
	Value     []byte
	Version   uint64
}

// WriteFunc performs the write against the node at the given index.
// A true return is an ack; an error counts as a missing vote.
type WriteFunc func(ctx context.Context, nodeIndex int) (bool, error)

// ReadFunc reads from the node at the given index. found=false with a
// nil error means the node is reachable but holds no entry for the key;
// that is not counted as a present response.
type ReadFunc func(ctx context.Context, nodeIndex int) (value []byte, version uint64, found bool, err error)

// Write fans out to replicas 0..replicas-1 in parallel and succeeds when
// at least required acks arrive. It waits for every replica to respond
// or for the parent context to be cancelled; there is no rollback of
// acks already applied when quorum is missed.
func Write(ctx context.Context, replicas, required int, writeFn WriteFunc) WriteResult {
	if replicas < 1 {
		return WriteResult{ErrorMessage: "no replicas provided"}
	}
	if required < 1 || required > replicas {
		return WriteResult{
			Replicas:     replicas,
			Required:     required,
			ErrorMessage: fmt.Sprintf("required W=%d out of range for replica count=%d", required, replicas),
		}
	}

	var (
		mu   sync.Mutex
		acks int
		errs []error
		wg   sync.WaitGroup
	)

	fanoutCtx, cancel := context.WithTimeout(ctx, DefaultPerReplicaTimeout)
	defer cancel()

	for i := 0; i < replicas; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			ok, err := writeFn(fanoutCtx, idx)
			mu.Lock()
			defer mu.Unlock()

			if ok && err == nil {
				acks++
			} else if err != nil {
				errs = append(errs, fmt.Errorf("node %d: %w", idx, err))
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		mu.Lock()
		defer mu.Unlock()
		return WriteResult{
			Acks:         acks,
			Required:     required,
			Replicas:     replicas,
			ErrorMessage: fmt.Sprintf("context cancelled: %v", ctx.Err()),
		}
	}

	mu.Lock()
	defer mu.Unlock()

	if acks >= required {
		return WriteResult{
			Success:  true,
			Acks:     acks,
			Required: required,
			Replicas: replicas,
		}
	}

	return WriteResult{
		Acks:         acks,
		Required:     required,
		Replicas:     replicas,
		ErrorMessage: quorumNotMet("acks", acks, required, replicas, errs),
	}
}

// Read fans out to replicas 0..replicas-1 in parallel and succeeds when
// at least required present responses arrive. All replicas are queried
// even past the quorum so stale copies can be found for repair.
func Read(ctx context.Context, replicas, required int, readFn ReadFunc) ReadResult {
	if replicas < 1 {
		return ReadResult{ErrorMessage: "no replicas provided"}
	}
	if required < 1 || required > replicas {
		return ReadResult{
			Replicas:     replicas,
			Required:     required,
			ErrorMessage: fmt.Sprintf("required R=%d out of range for replica count=%d", required, replicas),
		}
	}

	var (
		mu     sync.Mutex
		values []ReadValue
		errs   []error
		wg     sync.WaitGroup
	)

	fanoutCtx, cancel := context.WithTimeout(ctx, DefaultPerReplicaTimeout)
	defer cancel()

	for i := 0; i < replicas; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			value, version, found, err := readFn(fanoutCtx, idx)
			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = append(errs, fmt.Errorf("node %d: %w", idx, err))
				return
			}
			if found {
				values = append(values, ReadValue{
					NodeIndex: idx,
					Value:     value,
					Version:   version,
				})
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		mu.Lock()
		defer mu.Unlock()
		return ReadResult{
			Responses:    len(values),
			Required:     required,
			Replicas:     replicas,
			ErrorMessage: fmt.Sprintf("context cancelled: %v", ctx.Err()),
		}
	}

	mu.Lock()
	defer mu.Unlock()

	if len(values) >= required {
		return ReadResult{
			Success:   true,
			Responses: len(values),
			Required:  required,
			Replicas:  replicas,
			Values:    values,
		}
	}

	return ReadResult{
		Responses:    len(values),
		Required:     required,
		Replicas:     replicas,
		ErrorMessage: quorumNotMet("responses", len(values), required, replicas, errs),
	}
}

func quorumNotMet(what string, got, required, replicas int, errs []error) string {
	msg := fmt.Sprintf("quorum not met: %s=%d required=%d replicas=%d", what, got, required, replicas)
	if len(errs) > 0 {
		msg += fmt.Sprintf(" errors=%v", errs[:min(3, len(errs))])
	}
	return msg
}
