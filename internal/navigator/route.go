package navigator

import (
	"math"

	"unitnav/internal/core"
)

// localTraceLift raises the cheap hull trace off the ground
const localTraceLift = 16.0

// BuildRoute builds the waypoints from the agent to goalPos. The result is
// never empty and its last waypoint is always exactly goalPos.
func (n *Navigator) BuildRoute(flags GoalFlags, goalPos core.Vector3D) []Waypoint {
	if flags.Has(FlagDirectPathOnly) {
		return []Waypoint{directWaypoint(goalPos)}
	}
	if route := n.buildLocalRoute(goalPos); route != nil {
		return route
	}
	return n.buildAreaRoute(goalPos)
}

// buildLocalRoute returns a single waypoint when the goal is close, the hull
// trace to it is clear and the mesh between them can be walked without a
// climb, a drop or a blocked area
func (n *Navigator) buildLocalRoute(goalPos core.Vector3D) []Waypoint {
	origin := n.agent.Position
	if origin.Sub(goalPos).Len() >= n.cfg.LocalPathDistance {
		return nil
	}

	startArea := n.resolveArea(origin)
	goalArea := n.resolveArea(goalPos)
	if startArea != nil && goalArea != nil && !core.SameArea(startArea, goalArea) && !n.TestRoute(origin, goalPos) {
		return nil
	}

	lift := core.Vector3D{0, 0, localTraceLift}
	tr := n.svc.World.TraceHull(origin.Add(lift), goalPos.Add(lift), n.agent.Radius, core.MaskWorldAndUnits, n.agent.ID)
	if tr.Hit() && !n.hitPathTarget(tr) {
		return nil
	}

	n.logger.Debug("built local route")
	return []Waypoint{directWaypoint(goalPos)}
}

// buildAreaRoute searches the navigation mesh
func (n *Navigator) buildAreaRoute(goalPos core.Vector3D) []Waypoint {
	startArea := n.resolveArea(n.agent.Position)
	goalArea := n.resolveArea(goalPos)

	if startArea == nil || goalArea == nil {
		logf := n.logger.Debug
		if n.cfg.RequireArea {
			logf = n.logger.Warn
		}
		logf("no navigation area for route", "start", startArea != nil, "goal", goalArea != nil)
		return []Waypoint{directWaypoint(goalPos)}
	}
	if core.SameArea(startArea, goalArea) {
		return []Waypoint{directWaypoint(goalPos)}
	}

	steps := n.searchAreas(startArea, goalArea, goalPos)
	if len(steps) == 0 {
		n.logger.Warn("falling back to a direct route", "start", startArea.ID(), "goal", goalArea.ID())
		return []Waypoint{directWaypoint(goalPos)}
	}

	if last := steps[len(steps)-1].Area; !core.SameArea(last, goalArea) {
		n.logger.Debug("goal area unreachable, routing to closest area", "closest", last.ID())
	}

	route := n.waypointsFromSteps(steps)
	return append(route, directWaypoint(goalPos))
}

// searchAreas returns the area route, consulting the path cache first
func (n *Navigator) searchAreas(start, goal core.NavArea, goalPos core.Vector3D) []core.RouteStep {
	unitType := n.agent.Traversal.UnitType
	cache := n.svc.Cache
	useCache := cache != nil && n.cfg.AllowCachedPaths

	if useCache {
		if steps, ok := cache.Lookup(unitType, start.ID(), goal.ID(), n.svc.Mesh); ok {
			n.logger.Debug("using cached route", "start", start.ID(), "goal", goal.ID())
			return steps
		}
	}

	result := n.svc.Mesh.BuildPath(start, goal, goalPos, n.costFunc(false))
	if useCache && len(result.Steps) > 0 {
		cache.Store(unitType, start.ID(), goal.ID(), result.Steps)
	}
	return result.Steps
}

// waypointsFromSteps places two waypoints on each traversed portal, one on
// either side of the shared edge
func (n *Navigator) waypointsFromSteps(steps []core.RouteStep) []Waypoint {
	margin := n.agent.Radius
	tolerance := n.agent.Radius
	route := make([]Waypoint, 0, 2*len(steps))

	for i := 1; i < len(steps); i++ {
		fromArea, goalArea := steps[i-1].Area, steps[i].Area
		fromDir := steps[i].How
		if fromDir >= core.NumDirections {
			n.logger.Warn("unsupported traversal in route", "area", goalArea.ID())
			continue
		}
		dir := fromDir.Opposite()

		hookPos, halfWidth := goalArea.ComputeSemiPortal(fromArea, dir)
		hookPos2, _ := fromArea.ComputeSemiPortal(goalArea, fromDir)
		portalTol := math.Max(halfWidth-margin, 0)

		goalPos := hookPos.Add(directionVector(fromDir).Mul(inset(goalArea, fromDir, margin)))
		goalPos[2] = goalArea.Z(goalPos) + n.cfg.WaypointUpZ
		goalWp := Waypoint{Pos: goalPos, NavDir: dir, Area: goalArea.ID()}
		setPortalTolerance(&goalWp, goalArea, portalTol, tolerance)

		fromPos := hookPos2.Add(directionVector(dir).Mul(inset(fromArea, fromDir, margin)))
		fromPos[2] = fromArea.Z(fromPos) + n.cfg.WaypointUpZ
		fromWp := Waypoint{Pos: fromPos, NavDir: dir, Area: goalArea.ID()}
		setPortalTolerance(&fromWp, fromArea, portalTol, tolerance)

		if !fromArea.IsContiguous(goalArea) {
			if fromArea.ConnectionHeightChange(goalArea) > 0 {
				if n.agent.Traversal.MaxClimbHeight != 0 {
					fromWp.Special = SpecialClimb
					fromWp.Pos = hookPos2
					if dir == core.West || dir == core.East {
						fromWp.ToleranceY = n.cfg.ClimbTolerance
					} else {
						fromWp.ToleranceX = n.cfg.ClimbTolerance
					}
				}
			} else {
				fromWp.Special = SpecialEdgeDown
			}
			goalWp.Special = fromWp.Special.Destination()
		}

		route = append(route, fromWp, goalWp)
	}
	return route
}

// hitPathTarget reports whether a trace was stopped by the path's own target
func (n *Navigator) hitPathTarget(tr core.TraceResult) bool {
	return n.path.Target != 0 && tr.Entity != nil && tr.Entity.ID == n.path.Target
}

// Helper functions

func directWaypoint(pos core.Vector3D) Waypoint {
	return Waypoint{Pos: pos, NavDir: core.DirNone}
}

// inset is how far a waypoint sits inside its area, clamped to half the
// area's extent along the direction of travel
func inset(area core.NavArea, travel core.NavDirection, margin float64) float64 {
	size := area.SizeY()
	if travel == core.East || travel == core.West {
		size = area.SizeX()
	}
	if size > margin {
		return margin
	}
	return size / 2
}

// setPortalTolerance aligns the tolerance box and slope with the portal edge
func setPortalTolerance(wp *Waypoint, area core.NavArea, portalTol, tolerance float64) {
	var slope core.Vector3D
	if wp.NavDir == core.West || wp.NavDir == core.East {
		wp.ToleranceX = portalTol
		wp.ToleranceY = tolerance
		slope = area.Corner(core.SouthWest).Sub(area.Corner(core.NorthWest))
	} else {
		wp.ToleranceX = tolerance
		wp.ToleranceY = portalTol
		slope = area.Corner(core.SouthEast).Sub(area.Corner(core.SouthWest))
	}
	_, wp.AreaSlope = normalize(slope)
}
