// Package repair resolves divergent replica responses and converges
// stale replicas. With a single global write version the winner is the
// highest-versioned response; repair rewrites stale responders with it
// in the background of the read path.
package repair
