package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"quorumkv/internal/config"
	"quorumkv/internal/coordinator"
	"quorumkv/internal/replica"
	"quorumkv/internal/server"
	"quorumkv/internal/transport"
)

func main() {
	var cfg config.Config
	var replicaAddrs string

	flag.StringVar(&cfg.ListenAddr, "listen", envOrDefault("QKV_LISTEN", ":8080"), "listen address")
	flag.IntVar(&cfg.Replicas, "replicas", envOrDefaultInt("QKV_REPLICAS", 3), "replica count for in-process replicas")
	flag.IntVar(&cfg.WriteQuorum, "w", envOrDefaultInt("QKV_W", 2), "write quorum")
	flag.IntVar(&cfg.ReadQuorum, "r", envOrDefaultInt("QKV_R", 2), "read quorum")
	flag.StringVar(&replicaAddrs, "replica-addrs", os.Getenv("QKV_REPLICA_ADDRS"),
		"comma-separated remote replica addresses; empty runs in-process replicas")
	flag.BoolVar(&cfg.ServeReplica, "serve-replica", false, "serve a single replica node instead of a coordinator")
	flag.Parse()

	addrs, err := config.ParseReplicaAddrs(replicaAddrs)
	if err != nil {
		log.Fatalf("invalid --replica-addrs: %v", err)
	}
	cfg.ReplicaAddrs = addrs

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	handler, err := buildHandler(&cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}

func buildHandler(cfg *config.Config) (http.Handler, error) {
	if cfg.ServeReplica {
		rep := replica.NewLocal("replica")
		log.Printf("[quorumkvd] serving replica node on %s", cfg.ListenAddr)
		return transport.NewReplicaServer(rep).Handler(), nil
	}

	var replicas []replica.Replica
	if len(cfg.ReplicaAddrs) > 0 {
		for _, addr := range cfg.ReplicaAddrs {
			replicas = append(replicas, transport.NewRemoteReplica(withScheme(addr)))
		}
	} else {
		for i := 0; i < cfg.Replicas; i++ {
			replicas = append(replicas, replica.NewLocal(fmt.Sprintf("replica-%d", i)))
		}
	}

	coord, err := coordinator.NewWithReplicas(replicas, cfg.WriteQuorum, cfg.ReadQuorum)
	if err != nil {
		return nil, err
	}

	log.Printf("[quorumkvd] serving coordinator %s on %s", coord.Config(), cfg.ListenAddr)
	return server.New(coord).Handler(), nil
}

func withScheme(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	return "http://" + addr
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[quorumkvd] ignoring non-numeric %s=%q", key, v)
	}
	return def
}
