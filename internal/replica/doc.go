// Package replica defines the contract between the quorum coordinator
// and a single replica node, and the in-process implementation. Fault
// injection is an optional capability a replica may expose rather than
// a mutable flag reached around the abstraction, so production and test
// code drive replicas through the same interface.
package replica
