// Package transport carries the replica contract over HTTP: a server
// that exposes one replica's internal operations, and a client that
// implements the contract against such a server. Any transport failure
// maps to the unavailable signal, so a partitioned or slow node looks
// exactly like a failed one to the coordinator.
package transport
