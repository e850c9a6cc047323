package config

import (
	"fmt"
	"strings"

	"quorumkv/internal/quorum"
)

// Config holds the daemon configuration.
type Config struct {
	ListenAddr   string
	Replicas     int      // replica count when running in-process replicas
	WriteQuorum  int      // W
	ReadQuorum   int      // R
	ReplicaAddrs []string // remote mode: one address per replica node, in node-index order
	ServeReplica bool     // run a single replica node instead of a coordinator
}

// ParseReplicaAddrs parses a comma-separated replica address list in the
// format "host1:port1,host2:port2". Entries may carry an http:// or
// https:// scheme; whitespace around entries is ignored and empty
// entries are skipped.
func ParseReplicaAddrs(addrsStr string) ([]string, error) {
	if addrsStr == "" {
		return nil, nil
	}

	parts := strings.Split(addrsStr, ",")
	addrs := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, ":") {
			return nil, fmt.Errorf("invalid replica address: %s (expected host:port)", part)
		}
		addrs = append(addrs, part)
	}

	return addrs, nil
}

// ReplicaCount returns the effective N: the remote address count when
// remote addresses are configured, the in-process count otherwise.
func (c *Config) ReplicaCount() int {
	if len(c.ReplicaAddrs) > 0 {
		return len(c.ReplicaAddrs)
	}
	return c.Replicas
}

// Validate checks the configuration for the selected mode.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.ServeReplica {
		return nil
	}

	_, err := quorum.NewConfig(c.ReplicaCount(), c.WriteQuorum, c.ReadQuorum)
	return err
}
