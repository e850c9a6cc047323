// Package storage provides the per-replica key-value storage interface
// and in-memory implementation. Each entry carries the global write
// version that produced it, and the store only ever replaces an entry
// with a strictly higher version.
package storage
