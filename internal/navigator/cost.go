package navigator

import "unitnav/internal/core"

// dropPenalty is the extra cost per unit of height dropped beyond the save drop
const dropPenalty = 4.0

// ShortestPathCost returns the traversal cost for an agent with the given
// capabilities. In testRoute mode every climb and every non contiguous drop
// is rejected, since a straight line walk cannot perform either.
func ShortestPathCost(caps core.Traversal, testRoute bool) core.CostFunc {
	return func(to, from core.NavArea, dir core.NavDirection) float64 {
		if to == nil || to.IsBlocked() {
			return -1
		}
		if from == nil {
			return 0
		}
		if !from.IsConnected(to) {
			return -1
		}

		dist := to.Center().Sub(from.Center()).Len()
		if from.IsContiguous(to) {
			return dist
		}

		change := from.ConnectionHeightChange(to)
		if change > 0 {
			if testRoute || caps.MaxClimbHeight <= 0 || change > caps.MaxClimbHeight {
				return -1
			}
			return dist
		}

		drop := -change
		if testRoute || (caps.DeathDrop > 0 && drop > caps.DeathDrop) {
			return -1
		}
		if drop > caps.SaveDrop {
			dist += (drop - caps.SaveDrop) * dropPenalty
		}
		return dist
	}
}
