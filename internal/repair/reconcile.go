package repair

import "quorumkv/internal/quorum"

// Result of reconciling the present responses from a read quorum.
type Result struct {
	// Winner is the highest-versioned response. Equal versions carry
	// identical values, so ties only affect which node is credited;
	// they break toward the lowest node index for reproducibility.
	Winner quorum.ReadValue

	// Stale lists responding nodes whose version trails the winner's.
	// These are the repair targets.
	Stale []quorum.ReadValue

	// Found is false when there were no present responses.
	Found bool
}

// Reconcile selects the winning response and the stale responders.
func Reconcile(values []quorum.ReadValue) Result {
	if len(values) == 0 {
		return Result{}
	}

	winner := values[0]
	for _, v := range values[1:] {
		if v.Version > winner.Version {
			winner = v
			continue
		}
		if v.Version == winner.Version && v.NodeIndex < winner.NodeIndex {
			winner = v
		}
	}

	var stale []quorum.ReadValue
	for _, v := range values {
		if v.Version < winner.Version {
			stale = append(stale, v)
		}
	}

	return Result{
		Winner: winner,
		Stale:  stale,
		Found:  true,
	}
}
