package quorum

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWrite_Success(t *testing.T) {
	writeFn := func(ctx context.Context, nodeIndex int) (bool, error) {
		return true, nil
	}

	result := Write(context.Background(), 3, 2, writeFn)

	if !result.Success {
		t.Errorf("Expected success, got: %v", result.ErrorMessage)
	}
	if result.Acks != 3 {
		t.Errorf("Expected 3 acks, got %d", result.Acks)
	}
}

func TestWrite_QuorumNotMet(t *testing.T) {
	writeFn := func(ctx context.Context, nodeIndex int) (bool, error) {
		if nodeIndex > 0 {
			return false, errors.New("replica failed")
		}
		return true, nil
	}

	result := Write(context.Background(), 3, 2, writeFn)

	if result.Success {
		t.Error("Expected failure, got success")
	}
	if result.Acks != 1 {
		t.Errorf("Expected 1 ack, got %d", result.Acks)
	}
	if result.ErrorMessage == "" {
		t.Error("Expected error message")
	}
}

func TestWrite_RequiredOutOfRange(t *testing.T) {
	tests := []struct {
		name     string
		replicas int
		required int
	}{
		{"required above replica count", 3, 4},
		{"required zero", 3, 0},
		{"no replicas", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Write(context.Background(), tt.replicas, tt.required, nil)
			if result.Success {
				t.Error("Expected failure")
			}
			if result.ErrorMessage == "" {
				t.Error("Expected error message")
			}
		})
	}
}

func TestWrite_ContextCancelled(t *testing.T) {
	writeFn := func(ctx context.Context, nodeIndex int) (bool, error) {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(5 * time.Second):
			return true, nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := Write(ctx, 3, 2, writeFn)

	if result.Success {
		t.Error("Expected failure due to cancelled context")
	}
}

func TestRead_Success(t *testing.T) {
	readFn := func(ctx context.Context, nodeIndex int) ([]byte, uint64, bool, error) {
		return []byte("value"), uint64(nodeIndex + 1), true, nil
	}

	result := Read(context.Background(), 3, 2, readFn)

	if !result.Success {
		t.Errorf("Expected success, got: %v", result.ErrorMessage)
	}
	if result.Responses != 3 {
		t.Errorf("Expected 3 responses, got %d", result.Responses)
	}
	if len(result.Values) != 3 {
		t.Errorf("Expected 3 values, got %d", len(result.Values))
	}
}

func TestRead_MissingEntryIsNotAResponse(t *testing.T) {
	// All nodes reachable, none hold the key: zero present responses.
	readFn := func(ctx context.Context, nodeIndex int) ([]byte, uint64, bool, error) {
		return nil, 0, false, nil
	}

	result := Read(context.Background(), 3, 2, readFn)

	if result.Success {
		t.Error("Expected failure when no node holds the key")
	}
	if result.Responses != 0 {
		t.Errorf("Expected 0 responses, got %d", result.Responses)
	}
}

func TestRead_QuorumNotMet(t *testing.T) {
	readFn := func(ctx context.Context, nodeIndex int) ([]byte, uint64, bool, error) {
		if nodeIndex != 0 {
			return nil, 0, false, errors.New("replica failed")
		}
		return []byte("value"), 7, true, nil
	}

	result := Read(context.Background(), 3, 2, readFn)

	if result.Success {
		t.Error("Expected failure, got success")
	}
	if result.Responses != 1 {
		t.Errorf("Expected 1 response, got %d", result.Responses)
	}
}

func TestRead_ValuesCarryNodeIndex(t *testing.T) {
	readFn := func(ctx context.Context, nodeIndex int) ([]byte, uint64, bool, error) {
		if nodeIndex == 1 {
			return nil, 0, false, errors.New("replica failed")
		}
		return []byte("value"), uint64(10 + nodeIndex), true, nil
	}

	result := Read(context.Background(), 3, 2, readFn)

	if !result.Success {
		t.Fatalf("Expected success, got: %v", result.ErrorMessage)
	}

	seen := make(map[int]uint64)
	for _, v := range result.Values {
		seen[v.NodeIndex] = v.Version
	}
	if len(seen) != 2 {
		t.Fatalf("Expected responses from 2 distinct nodes, got %d", len(seen))
	}
	if seen[0] != 10 || seen[2] != 12 {
		t.Errorf("Expected versions tagged per node, got %v", seen)
	}
}

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name    string
		n, w, r int
		wantErr bool
	}{
		{"valid majority quorums", 3, 2, 2, false},
		{"valid minimum", 1, 1, 1, false},
		{"valid weak quorums", 5, 1, 1, false},
		{"N zero", 0, 1, 1, true},
		{"W zero", 3, 0, 2, true},
		{"W above N", 3, 4, 2, true},
		{"R zero", 3, 2, 0, true},
		{"R above N", 3, 2, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.n, tt.w, tt.r)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewConfig(%d,%d,%d) error = %v, wantErr %v", tt.n, tt.w, tt.r, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Strong(t *testing.T) {
	tests := []struct {
		name    string
		n, w, r int
		strong  bool
	}{
		{"majority both", 3, 2, 2, true},
		{"write-all read-one", 3, 3, 1, true},
		{"read-all write-one", 3, 1, 3, true},
		{"weak", 3, 1, 1, false},
		{"boundary W+R=N", 4, 2, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.n, tt.w, tt.r)
			if err != nil {
				t.Fatalf("NewConfig failed: %v", err)
			}
			if cfg.Strong() != tt.strong {
				t.Errorf("Strong() = %v, want %v for %s", cfg.Strong(), tt.strong, cfg)
			}
		})
	}
}
