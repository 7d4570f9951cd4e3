package pathfinding

import (
	"math"

	"unitnav/internal/core"
)

// AStarPathfinder implements A* over the navigation area graph. When the goal
// area cannot be reached it returns the route to the area closest to the goal.
type AStarPathfinder struct {
	heuristic core.HeuristicFunc
	maxNodes  int // Prevent runaway searches on huge meshes
}

// NewAStarPathfinder creates a new A* pathfinder
func NewAStarPathfinder() *AStarPathfinder {
	return &AStarPathfinder{
		heuristic: EuclideanDistance,
		maxNodes:  10000,
	}
}

// SetHeuristic sets the heuristic function
func (a *AStarPathfinder) SetHeuristic(heuristic core.HeuristicFunc) {
	a.heuristic = heuristic
}

// SetMaxNodes sets the maximum number of areas to expand
func (a *AStarPathfinder) SetMaxNodes(maxNodes int) {
	a.maxNodes = maxNodes
}

// FindPath searches from start to goal. cost decides which area transitions
// are allowed; goalPos is the exact point being navigated to.
func (a *AStarPathfinder) FindPath(start, goal core.NavArea, goalPos core.Vector3D, cost core.CostFunc) core.SearchResult {
	if start == nil {
		return core.SearchResult{}
	}

	open := newOpenList()
	closed := make(map[core.AreaID]bool)

	startNode := &core.PathNode{
		Area: start,
		How:  core.DirNone,
		H:    a.heuristic(start.Center(), goalPos),
	}
	startNode.F = startNode.H

	open.push(startNode)

	closest := startNode
	closestDist := math.Inf(1)
	if goal != nil {
		closestDist = a.heuristic(start.Center(), goal.Center())
	}

	nodesExplored := 0
	for open.Len() > 0 && nodesExplored < a.maxNodes {
		current := open.pop()
		closed[current.Area.ID()] = true
		nodesExplored++

		if goal != nil && current.Area.ID() == goal.ID() {
			return core.SearchResult{
				Steps:       a.reconstructPath(current),
				Closest:     current.Area,
				ReachedGoal: true,
			}
		}

		if goal != nil {
			if d := a.heuristic(current.Area.Center(), goal.Center()); d < closestDist {
				closest = current
				closestDist = d
			}
		}

		for dir := core.North; dir < core.NumDirections; dir++ {
			for _, neighbor := range current.Area.Adjacent(dir) {
				if closed[neighbor.ID()] {
					continue
				}

				moveCost := cost(neighbor, current.Area, dir)
				if moveCost < 0 {
					continue
				}
				tentativeG := current.G + moveCost

				neighborNode, inOpen := open.get(neighbor.ID())
				if !inOpen {
					neighborNode = &core.PathNode{
						Area:   neighbor,
						How:    dir,
						G:      tentativeG,
						H:      a.heuristic(neighbor.Center(), goalPos),
						Parent: current,
					}
					neighborNode.F = neighborNode.G + neighborNode.H

					open.push(neighborNode)
				} else if tentativeG < neighborNode.G {
					open.reparent(neighborNode, current, dir, tentativeG)
				}
			}
		}
	}

	return core.SearchResult{
		Steps:   a.reconstructPath(closest),
		Closest: closest.Area,
	}
}

// reconstructPath builds the route from the start area to node
func (a *AStarPathfinder) reconstructPath(node *core.PathNode) []core.RouteStep {
	var steps []core.RouteStep
	for current := node; current != nil; current = current.Parent {
		steps = append(steps, core.RouteStep{Area: current.Area, How: current.How})
	}

	// Reverse to go from start to goal
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	return steps
}
