package it

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quorumkv/internal/coordinator"
	"quorumkv/internal/replica"
	"quorumkv/internal/server"
	"quorumkv/internal/transport"
)

// Cluster is an in-process test cluster: N replica nodes served over
// HTTP, a coordinator fanning out to them through RemoteReplica clients,
// and the client API in front. It exercises the same wiring the daemon
// uses in remote mode, without spawning processes.
type Cluster struct {
	Coord    *coordinator.Coordinator
	API      *httptest.Server
	replicas []*replica.LocalReplica
	servers  []*httptest.Server
}

// StartCluster brings up n replica servers and a coordinator with the
// given quorums. Cleanup is registered on t.
func StartCluster(t *testing.T, n, w, r int) *Cluster {
	t.Helper()

	c := &Cluster{}
	remotes := make([]replica.Replica, n)
	for i := 0; i < n; i++ {
		local := replica.NewLocal(fmt.Sprintf("replica-%d", i))
		srv := httptest.NewServer(transport.NewReplicaServer(local).Handler())
		c.replicas = append(c.replicas, local)
		c.servers = append(c.servers, srv)
		remotes[i] = transport.NewRemoteReplica(srv.URL)
	}

	coord, err := coordinator.NewWithReplicas(remotes, w, r)
	if err != nil {
		t.Fatalf("failed to build coordinator: %v", err)
	}
	c.Coord = coord
	c.API = httptest.NewServer(server.New(coord).Handler())

	t.Cleanup(c.Stop)
	return c
}

// Stop shuts down the API and every replica server.
func (c *Cluster) Stop() {
	c.API.Close()
	for _, srv := range c.servers {
		srv.Close()
	}
}

// FailNode marks replica i unavailable; its server keeps answering with
// 503 so the coordinator sees a reachable-but-down node.
func (c *Cluster) FailNode(i int) {
	c.replicas[i].Fail()
}

// RecoverNode restores replica i.
func (c *Cluster) RecoverNode(i int) {
	c.replicas[i].Recover()
}

// KillNode closes replica i's server, simulating a hard network failure.
// There is no restart.
func (c *Cluster) KillNode(i int) {
	c.servers[i].Close()
}

// ReplicaVersion inspects replica i's store directly.
func (c *Cluster) ReplicaVersion(i int, key string) uint64 {
	return c.replicas[i].StoredVersion(key)
}

// Put writes value under key through the HTTP API.
func (c *Cluster) Put(t *testing.T, key, value string) int {
	t.Helper()

	req, err := http.NewRequest(http.MethodPut, c.API.URL+"/kv/"+key, strings.NewReader(value))
	if err != nil {
		t.Fatalf("build put request: %v", err)
	}
	resp, err := c.API.Client().Do(req)
	if err != nil {
		t.Fatalf("put request failed: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

// Get reads key through the HTTP API, returning the body and status.
func (c *Cluster) Get(t *testing.T, key string) (string, int) {
	t.Helper()

	resp, err := c.API.Client().Get(c.API.URL + "/kv/" + key)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read get response: %v", err)
	}
	return string(body), resp.StatusCode
}
