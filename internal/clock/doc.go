// Package clock provides the global write-version sequencer. Every write
// accepted by a coordinator consumes one version from a single shared
// counter, which totally orders writes across all keys and lets replicas
// resolve divergence by simple version comparison.
package clock
