// Package server exposes a coordinator over HTTP: the key-value
// operations under /kv and the fault-injection/inspection surface under
// /admin, so a running cluster can be probed the same way tests probe
// the coordinator directly.
package server
