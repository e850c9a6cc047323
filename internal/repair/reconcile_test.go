package repair

import (
	"testing"

	"quorumkv/internal/quorum"
)

func TestReconcile_HighestVersionWins(t *testing.T) {
	values := []quorum.ReadValue{
		{NodeIndex: 0, Value: []byte("v1-value"), Version: 1},
		{NodeIndex: 1, Value: []byte("v2-value"), Version: 2},
		{NodeIndex: 2, Value: []byte("v1-value"), Version: 1},
	}

	result := Reconcile(values)

	if !result.Found {
		t.Fatal("Expected a winner")
	}
	if string(result.Winner.Value) != "v2-value" {
		t.Errorf("Expected v2-value to win, got %s", string(result.Winner.Value))
	}
	if result.Winner.NodeIndex != 1 {
		t.Errorf("Expected node 1 credited, got %d", result.Winner.NodeIndex)
	}
	if len(result.Stale) != 2 {
		t.Fatalf("Expected 2 stale responders, got %d", len(result.Stale))
	}
	for _, sv := range result.Stale {
		if sv.NodeIndex != 0 && sv.NodeIndex != 2 {
			t.Errorf("Unexpected stale node %d", sv.NodeIndex)
		}
	}
}

func TestReconcile_TieBreaksTowardLowestNodeIndex(t *testing.T) {
	values := []quorum.ReadValue{
		{NodeIndex: 2, Value: []byte("same"), Version: 5},
		{NodeIndex: 0, Value: []byte("same"), Version: 5},
		{NodeIndex: 1, Value: []byte("same"), Version: 5},
	}

	result := Reconcile(values)

	if result.Winner.NodeIndex != 0 {
		t.Errorf("Expected node 0 to win the tie, got node %d", result.Winner.NodeIndex)
	}
	if len(result.Stale) != 0 {
		t.Errorf("Expected no stale responders on a full tie, got %d", len(result.Stale))
	}
}

func TestReconcile_SingleResponse(t *testing.T) {
	values := []quorum.ReadValue{
		{NodeIndex: 1, Value: []byte("only"), Version: 3},
	}

	result := Reconcile(values)

	if !result.Found {
		t.Fatal("Expected a winner")
	}
	if string(result.Winner.Value) != "only" {
		t.Errorf("Expected only, got %s", string(result.Winner.Value))
	}
	if len(result.Stale) != 0 {
		t.Errorf("Expected no stale responders, got %d", len(result.Stale))
	}
}

func TestReconcile_NoResponses(t *testing.T) {
	result := Reconcile(nil)

	if result.Found {
		t.Error("Expected no winner for empty input")
	}
	if len(result.Stale) != 0 {
		t.Errorf("Expected no stale responders, got %d", len(result.Stale))
	}
}
