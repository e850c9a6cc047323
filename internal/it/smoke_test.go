package it

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmoke_PutGet(t *testing.T) {
	cluster := StartCluster(t, 3, 2, 2)

	status := cluster.Put(t, "test-key", "test-value")
	require.Equal(t, http.StatusOK, status)

	body, status := cluster.Get(t, "test-key")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "test-value", body)
}

func TestSmoke_OverwriteReturnsLatest(t *testing.T) {
	cluster := StartCluster(t, 3, 2, 2)

	require.Equal(t, http.StatusOK, cluster.Put(t, "k", "Alice"))
	require.Equal(t, http.StatusOK, cluster.Put(t, "k", "Alice Updated"))

	body, status := cluster.Get(t, "k")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alice Updated", body)
}

func TestSmoke_MissingKeyIs404(t *testing.T) {
	cluster := StartCluster(t, 3, 2, 2)

	_, status := cluster.Get(t, "nonexistent")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSmoke_ToleratesOneNodeDown(t *testing.T) {
	cluster := StartCluster(t, 3, 2, 2)

	cluster.FailNode(2)

	require.Equal(t, http.StatusOK, cluster.Put(t, "k", "survives"))

	body, status := cluster.Get(t, "k")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "survives", body)
}

func TestSmoke_FailsClosedBelowQuorum(t *testing.T) {
	cluster := StartCluster(t, 3, 2, 2)

	require.Equal(t, http.StatusOK, cluster.Put(t, "k", "v"))

	cluster.FailNode(0)
	cluster.FailNode(1)

	assert.Equal(t, http.StatusServiceUnavailable, cluster.Put(t, "k", "v2"))

	// The surviving node holds the key, but a single response is below R.
	_, status := cluster.Get(t, "k")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSmoke_KilledNodeActsUnavailable(t *testing.T) {
	cluster := StartCluster(t, 3, 2, 2)

	cluster.KillNode(2)
	require.Equal(t, http.StatusOK, cluster.Put(t, "k", "v"))

	cluster.KillNode(1)
	assert.Equal(t, http.StatusServiceUnavailable, cluster.Put(t, "k", "v2"))
}

func TestSmoke_ReadRepairAcrossTransport(t *testing.T) {
	cluster := StartCluster(t, 3, 2, 2)

	// First write lands everywhere; the second misses the failed node,
	// leaving it with a stale version.
	require.Equal(t, http.StatusOK, cluster.Put(t, "k", "old"))
	cluster.FailNode(2)
	require.Equal(t, http.StatusOK, cluster.Put(t, "k", "repaired-value"))
	require.EqualValues(t, 1, cluster.ReplicaVersion(2, "k"))

	cluster.RecoverNode(2)

	body, status := cluster.Get(t, "k")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "repaired-value", body)

	cluster.Coord.AwaitRepair()

	for i := 0; i < 3; i++ {
		assert.EqualValues(t, 2, cluster.ReplicaVersion(i, "k"), "node %d", i)
	}
}

func TestSmoke_RecoveredNodeRetainsOldData(t *testing.T) {
	cluster := StartCluster(t, 3, 3, 1)

	require.Equal(t, http.StatusOK, cluster.Put(t, "k", "before-failure"))

	cluster.FailNode(0)
	cluster.RecoverNode(0)

	assert.EqualValues(t, 1, cluster.ReplicaVersion(0, "k"))
}

func TestSmoke_QuorumIntersection(t *testing.T) {
	cluster := StartCluster(t, 5, 3, 3)

	require.Equal(t, http.StatusOK, cluster.Put(t, "k", "first"))
	require.Equal(t, http.StatusOK, cluster.Put(t, "k", "second"))

	for i := 0; i < 5; i++ {
		cluster.FailNode(i)

		body, status := cluster.Get(t, "k")
		require.Equal(t, http.StatusOK, status, "node %d down", i)
		assert.Equal(t, "second", body, "node %d down", i)

		cluster.RecoverNode(i)
	}
}
