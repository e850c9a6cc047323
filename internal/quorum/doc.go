// Package quorum provides coordination logic for quorum-based reads and
// writes: N/W/R configuration, fanout to replicas, and quorum validation.
package quorum
