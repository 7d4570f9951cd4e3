package navigator

import (
	"unitnav/internal/core"
)

// reactiveEyeLift raises the reactive test origin above the eye
const reactiveEyeLift = 2.0

// UpdateReactivePath skips waypoints that can be reached directly and reports
// whether the path looks blocked. Repeating the call without the agent moving,
// the clock advancing or the path changing returns the previous result.
func (n *Navigator) UpdateReactivePath() bool {
	p := n.path
	if !p.HasWaypoints() {
		return false
	}

	origin := n.agent.Position
	now := n.svc.Clock.Now()
	if m := n.reactive; m.valid && m.origin == origin && m.now == now && m.version == p.Version() {
		return m.blocked
	}

	blocked := n.updateReactivePath()
	n.reactive = reactiveMemo{valid: true, origin: origin, now: now, version: p.Version(), blocked: blocked}
	return blocked
}

func (n *Navigator) updateReactivePath() bool {
	p := n.path
	eyeOffset := n.agent.EyeOffset

	testPos := n.svc.World.TraceGround(n.agent.Position)
	testPos[2] += eyeOffset + reactiveEyeLift

	if p.CurWaypointIsGoal() {
		cur, _ := p.CurWaypoint()
		end := waypointTarget(testPos, cur)
		end[2] += eyeOffset
		return !n.TestRoute(testPos, end)
	}

	cur, _ := p.CurWaypoint()
	if cur.IsSpecial() {
		return false
	}

	// Find the furthest candidate, never looking past a special waypoint
	eye := n.agent.EyePosition()
	last := p.Cursor()
	for i := 0; i < n.cfg.ReactiveMaxWaypointsAhead; i++ {
		wp, _ := p.waypointAt(last)
		if eye.Sub(wp.Pos).Len() > n.cfg.ReactiveMaxLookAhead || last == p.lastIndex() {
			break
		}
		if next, _ := p.waypointAt(last + 1); next.IsSpecial() {
			break
		}
		last++
	}

	for i := last; i >= p.Cursor(); i-- {
		wp, _ := p.waypointAt(i)
		end := waypointTarget(testPos, wp)
		end[2] += eyeOffset
		if !n.TestRoute(testPos, end) {
			continue
		}
		if err := p.AdvanceTo(i); err != nil {
			n.logger.Error("reactive advance", "err", err)
		}
		return false
	}
	return true
}

// TestRoute walks the straight line from start to end over the navigation
// mesh. Every step needs an unblocked area below it, room for the agent on
// both sides and a traversable connection from the previous step's area.
func (n *Navigator) TestRoute(start, end core.Vector3D) bool {
	mesh := n.svc.Mesh
	step := n.cfg.TestRouteStepSize
	radius := n.agent.Radius * n.cfg.TestRouteBloatScale
	cost := n.costFunc(true)

	startHeight := n.agent.Traversal.TestRouteStartHeight
	if startHeight <= 0 {
		startHeight = n.cfg.DefaultTestRouteStartHeight
	}
	startLimit := startHeight + n.agent.EyeOffset

	dist, dir := pathDirection(start, end)
	side := core.Vector3D{dir[1], -dir[0], 0}.Mul(radius)

	pos := start
	pos[2] += step
	cur := mesh.AreaAt(pos, startLimit)
	if cur == nil || cur.IsBlocked() {
		return false
	}
	if mesh.AreaAt(pos.Add(side), startLimit) == nil || mesh.AreaAt(pos.Sub(side), startLimit) == nil {
		return false
	}
	pos[2] = cur.Z(pos)

	for travelled := step; travelled < dist; travelled += step {
		pos = pos.Add(dir.Mul(step))
		pos[2] += step

		to := mesh.AreaAt(pos, n.cfg.TestBeneathLimit)
		if to == nil || to.IsBlocked() {
			return false
		}
		if mesh.AreaAt(pos.Add(side), n.cfg.TestBeneathLimit) == nil || mesh.AreaAt(pos.Sub(side), n.cfg.TestBeneathLimit) == nil {
			return false
		}

		pos[2] = to.Z(pos)
		if !core.SameArea(cur, to) && !canCross(cur, to, cost) {
			return false
		}
		cur = to
	}
	return true
}

// canCross reports whether to can be entered from cur directly or through
// a neighbor both connect to, which happens when a straight walk clips a corner
func canCross(cur, to core.NavArea, cost core.CostFunc) bool {
	if cost(to, cur, core.DirNone) >= 0 {
		return true
	}
	for dir := core.North; dir < core.NumDirections; dir++ {
		for _, via := range cur.Adjacent(dir) {
			if cost(via, cur, dir) >= 0 && cost(to, via, core.DirNone) >= 0 {
				return true
			}
		}
	}
	return false
}
