package navigator

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"unitnav/internal/core"
)

// Update runs one navigation tick. It validates the goal, advances and
// repairs the path, picks a velocity, writes it into cmd as forward and side
// moves plus ideal view angles, and dispatches lifecycle events.
func (n *Navigator) Update(cmd *core.MoveCommand) GoalStatus {
	now := n.svc.Clock.Now()

	var status GoalStatus
	var pathDir core.Vector3D
	var goalDist float64

	if n.forcedVelocity != (core.Vector3D{}) {
		goalDist, pathDir = normalize(n.forcedVelocity)
		goalDist += n.cfg.ForcedGoalDistanceBonus
		status = StatusHasGoal
		n.regenerateConsiderList(pathDir, status)
	} else {
		status, pathDir, goalDist = n.updateGoalAndPath(cmd, now)
	}

	var velocity core.Vector3D
	switch {
	case status == StatusAtGoal || status == StatusFailed:
	case !n.noAvoid || status == StatusNoGoal:
		velocity = n.computeVelocity(status, cmd, pathDir, goalDist)
	default:
		velocity = pathDir.Mul(pathSpeed(goalDist, cmd))
	}
	n.updateDiscomfort(cmd.Interval)
	n.lastWishVelocity = velocity

	if !n.cfg.EatMoves {
		n.calcMove(cmd, velocity)
	}
	n.updateIdealAngles(cmd, pathDir, status)
	n.updateGoalStatus(cmd, status)
	return status
}

// updateGoalAndPath validates the goal and keeps the path current. It returns
// the goal status plus the direction and distance to the current waypoint.
func (n *Navigator) updateGoalAndPath(cmd *core.MoveCommand, now float64) (GoalStatus, core.Vector3D, float64) {
	p := n.path
	status := StatusNoGoal
	var pathDir core.Vector3D
	var goalDist float64

	n.consider = n.consider[:0]
	n.samples = n.samples[:0]

	if p.GoalType.HasTarget() {
		target, ok := n.svc.World.Entity(p.Target)
		if !ok {
			n.logger.Debug("goal target is gone", "target", p.Target)
			return StatusFailed, pathDir, 0
		}
		if p.GoalFlags.Has(FlagRequireTargetAlive) && !target.Alive() {
			n.logger.Debug("goal target died", "target", p.Target)
			return StatusFailed, pathDir, 0
		}
		n.followTarget(target, now)

		if p.GoalType == GoalTargetEntity && n.blockedByTarget(cmd) {
			status = StatusAtGoal
		}
	}
	if status != StatusAtGoal && p.GoalType.InRange() && n.IsInRangeGoal(cmd) {
		status = StatusAtGoal
	}

	if p.GoalType != GoalNone {
		if status != StatusAtGoal {
			status = n.moveUpdateWaypoint()
		}
		if status != StatusAtGoal {
			if n.cfg.ReactivePath && now >= n.nextReactiveUpdate {
				n.pathBlocked = n.UpdateReactivePath()
				n.nextReactiveUpdate = now + n.cfg.ReactivePathInterval
			}
			n.checkStuck(cmd, now)

			if wp, ok := p.CurWaypoint(); ok {
				goalDist, pathDir = ComputePathDirection2(n.agent.Position, wp)
			}
		}
	}

	n.regenerateConsiderList(pathDir, status)
	if status != StatusNoGoal {
		n.expireSeeds(now)
	}
	return status, pathDir, goalDist
}

// followTarget keeps the goal on a moving target. A target that changed area
// triggers a full rebuild once the debounce has passed; otherwise only the
// final waypoint moves.
func (n *Navigator) followTarget(target *core.Entity, now float64) {
	p := n.path
	eye := target.EyePosition()

	if !core.SameArea(n.resolveArea(target.Position), n.resolveArea(p.GoalPos)) &&
		now-n.lastPathRecompute > n.cfg.RecomputeDebounce {
		n.logger.Debug("target changed area, rebuilding", "target", target.ID)
		p.GoalPos = eye
		n.rebuildPath()
		return
	}

	p.SetGoalPos(eye)
	p.setGoalWaypointPos(n.routeGoal())
}

// blockedByTarget reports whether the last move bumped into the goal target
func (n *Navigator) blockedByTarget(cmd *core.MoveCommand) bool {
	p := n.path
	if cmd.Blocker == 0 {
		return false
	}
	if cmd.Blocker == p.Target {
		return true
	}
	if p.GoalFlags.Has(FlagOwnerIsTarget) {
		if blocker, ok := n.svc.World.Entity(cmd.Blocker); ok && blocker.Owner == p.Target {
			return true
		}
	}
	return false
}

// checkStuck rebuilds the path when the reactive check found it blocked or
// the agent barely moved since the last position check
func (n *Navigator) checkStuck(cmd *core.MoveCommand, now float64) {
	if now < n.nextPositionCheck {
		return
	}

	origin := n.agent.Position
	moved := length2D(origin.Sub(n.lastPosition))
	if n.pathBlocked || moved < n.cfg.StuckDistance {
		n.logger.Debug("path blocked or stuck, rebuilding", "blocked", n.pathBlocked, "moved", moved)
		n.rebuildPath()

		if cmd.Blocker != 0 && cmd.BlockedWorld {
			pos := cmd.BlockerHitPos.Add(cmd.BlockerDir.Mul(n.agent.Radius))
			n.seeds = append(n.seeds, seed{pos: pos.Vec2(), created: now})
		}
	}

	n.lastPosition = origin
	n.nextPositionCheck = now + n.cfg.PositionCheckInterval
}

// moveUpdateWaypoint captures the current waypoint once the agent is inside
// its tolerance box. Capturing a climb waypoint records the climb.
func (n *Navigator) moveUpdateWaypoint() GoalStatus {
	p := n.path
	wp, ok := p.CurWaypoint()
	if !ok {
		return StatusAtGoal
	}
	origin := n.agent.Position
	wt := p.WaypointTolerance

	if p.CurWaypointIsGoal() {
		dist, _ := ComputePathDirection2(origin, wp)
		if dist <= math.Min(wt, p.GoalTolerance) {
			return StatusAtGoal
		}
		return StatusHasGoal
	}

	d := origin.Sub(wp.Pos)
	captured := n.isCompleteInArea(wp.Area) ||
		(math.Abs(d[0]) < wp.ToleranceY+wt && math.Abs(d[1]) < wp.ToleranceX+wt)
	if !captured {
		return StatusHasGoal
	}

	status := StatusHasGoal
	if wp.Special == SpecialClimb {
		if next, ok := p.waypointAt(p.Cursor() + 1); ok {
			n.climbHeight = waypointTarget(origin, next)[2] - wp.Pos[2]
			_, n.climbDir = pathDirection(wp.Pos, next.Pos)
			status = StatusClimb
		}
	}
	if err := p.Advance(); err != nil {
		n.logger.Error("advance waypoint", "err", err)
	}
	return status
}

// isCompleteInArea reports whether the agent's whole footprint is inside an area
func (n *Navigator) isCompleteInArea(id core.AreaID) bool {
	if id == 0 {
		return false
	}
	area := n.svc.Mesh.Area(id)
	if area == nil {
		return false
	}
	b := n.agent.Bounds()
	z := n.agent.Position[2]
	return area.Contains(core.Vector3D{b.Min[0], b.Min[1], z}) &&
		area.Contains(core.Vector3D{b.Max[0], b.Max[1], z})
}

// IsInRangeGoal reports whether a range goal is satisfied: the distance lies
// within [MinRange, MaxRange] and, unless disabled by flags, line of sight
// and vision hold.
func (n *Navigator) IsInRangeGoal(cmd *core.MoveCommand) bool {
	p := n.path
	eye := n.agent.EyePosition()

	if p.GoalType.HasTarget() {
		target, ok := n.svc.World.Entity(p.Target)
		if !ok {
			return false
		}

		dist := length2D(target.Position.Sub(n.agent.Position))
		if p.GoalFlags.Has(FlagUseTargetDistance) {
			dist = math.Max(dist-n.agent.Radius-target.Radius, 0)
		}
		if p.MaxRange == 0 {
			if cmd.Blocker != p.Target {
				return false
			}
		} else if dist < p.MinRange || dist > p.MaxRange {
			return false
		}

		if !p.GoalFlags.Has(FlagNoLOSRequired) {
			tr := n.svc.World.TraceLine(eye, target.EyePosition(), core.MaskWorldAndUnits, n.agent.ID)
			if tr.Hit() && (tr.Entity == nil || tr.Entity.ID != target.ID) {
				return false
			}
		}
		if p.GoalFlags.Has(FlagRequireVision) && n.svc.Vision.PointInFOW(target.Position, n.agent.Player) {
			return false
		}
		return true
	}

	dist := length2D(p.GoalPos.Sub(n.agent.Position))
	if dist < p.MinRange || dist > p.MaxRange {
		return false
	}
	if !p.GoalFlags.Has(FlagNoLOSRequired) {
		if tr := n.svc.World.TraceLine(eye, p.GoalPos, core.MaskWorld, n.agent.ID); tr.Hit() {
			return false
		}
	}
	if p.GoalFlags.Has(FlagRequireVision) && n.svc.Vision.PointInFOW(p.GoalPos, n.agent.Player) {
		return false
	}
	return true
}

// updateGoalStatus dispatches lifecycle events for status. When a handler
// replaces the path the recorded status is left to the new path.
func (n *Navigator) updateGoalStatus(cmd *core.MoveCommand, status GoalStatus) {
	gen := n.pathGen
	noClear := n.path.GoalFlags.Has(FlagNoClear)

	switch status {
	case StatusAtGoal:
		if !noClear {
			n.dispatchNavComplete()
		} else if n.lastGoalStatus != StatusAtGoal {
			n.dispatch(OnNavAtGoal)
		}
	case StatusHasGoal:
		if noClear && n.lastGoalStatus == StatusAtGoal {
			n.dispatch(OnNavLostGoal)
		}
	case StatusFailed:
		n.dispatchNavFailed(cmd)
	case StatusClimb:
		n.dispatch(OnStartClimb, n.climbHeight, n.climbDir)
	}

	if n.pathGen == gen {
		n.lastGoalStatus = status
	}
}

func (n *Navigator) dispatchNavComplete() {
	n.path.GoalType = GoalNone
	n.reset()
	n.dispatch(OnNavComplete)
}

func (n *Navigator) dispatchNavFailed(cmd *core.MoveCommand) {
	cmd.Clear()
	n.path.GoalType = GoalNone
	n.reset()
	n.dispatch(OnNavFailed)
}

// updateIdealAngles picks the facing: explicit yaw, then facing entity, then
// facing position, then the path direction while moving
func (n *Navigator) updateIdealAngles(cmd *core.MoveCommand, pathDir core.Vector3D, status GoalStatus) {
	switch {
	case n.hasIdealYaw:
		cmd.IdealViewAngles = core.Angles{Yaw: n.idealYaw}
		n.updateFacingState(angleDiff(cmd.ViewAngles.Yaw, n.idealYaw) <= n.idealYawTolerance)
	case n.facingTarget != 0:
		target, ok := n.svc.World.Entity(n.facingTarget)
		if !ok {
			n.updateFacingState(false)
			return
		}
		cmd.IdealViewAngles = vectorAngles(target.EyePosition().Sub(n.agent.EyePosition()))
		n.updateFacingState(n.inAimCone(cmd, target.Position))
	case n.hasFacingPos:
		cmd.IdealViewAngles = vectorAngles(n.facingPos.Sub(n.agent.EyePosition()))
		n.updateFacingState(n.inAimCone(cmd, n.facingPos))
	case status == StatusHasGoal && pathDir != (core.Vector3D{}):
		cmd.IdealViewAngles = core.Angles{Yaw: vectorAngles(pathDir).Yaw}
	}
}

// updateFacingState dispatches an event when facing changes
func (n *Navigator) updateFacingState(facing bool) {
	if facing == n.isFacing {
		return
	}
	n.isFacing = facing
	if facing {
		n.dispatch(OnFacingTarget)
	} else {
		n.dispatch(OnLostFacingTarget)
	}
}

// inAimCone reports whether pos lies within the facing cone of the view yaw
func (n *Navigator) inAimCone(cmd *core.MoveCommand, pos core.Vector3D) bool {
	dist, dir := pathDirection(n.agent.Position, pos)
	if dist == 0 {
		return true
	}
	return dir.Dot(yawVector(cmd.ViewAngles.Yaw)) >= n.cfg.FacingCone
}

// calcMove converts a world velocity into forward and side moves relative
// to the current view yaw
func (n *Navigator) calcMove(cmd *core.MoveCommand, velocity core.Vector3D) {
	speed := length2D(velocity)
	if speed == 0 {
		cmd.Clear()
		return
	}
	moveYaw := vectorAngles(velocity).Yaw
	rad := mgl64.DegToRad(anglemod(cmd.ViewAngles.Yaw - moveYaw))
	cmd.ForwardMove = math.Cos(rad) * speed
	cmd.SideMove = math.Sin(rad) * speed
}

// rebuildPath rebuilds the route to the current goal
func (n *Navigator) rebuildPath() {
	n.lastPathRecompute = n.svc.Clock.Now()
	n.path.SetWaypoints(n.BuildRoute(n.path.GoalFlags, n.routeGoal()))
	n.pathBlocked = false
	if n.cfg.ReactivePath {
		n.UpdateReactivePath()
	}
}

// routeGoal is where the route ends. A range goal whose agent is closer than
// the minimum range ends at a point backed off from the goal instead.
func (n *Navigator) routeGoal() core.Vector3D {
	p := n.path
	if !p.GoalType.InRange() || p.MinRange <= 0 {
		return p.GoalPos
	}

	dist, dir := pathDirection(p.GoalPos, n.agent.Position)
	if dist >= p.MinRange {
		return p.GoalPos
	}
	if dist == 0 {
		dir = n.agent.Forward().Mul(-1)
	}
	back := p.GoalPos.Add(dir.Mul(p.MinRange + p.WaypointTolerance))
	back[2] = n.agent.Position[2]
	return back
}
