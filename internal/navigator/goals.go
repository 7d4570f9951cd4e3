package navigator

import (
	"fmt"

	"unitnav/internal/core"
)

// SetGoal walks to pos and completes within tolerance. A tolerance of zero
// or less uses the default goal tolerance.
func (n *Navigator) SetGoal(pos core.Vector3D, tolerance float64, flags GoalFlags) {
	n.findPath(GoalPosition, pos, tolerance, flags, nil, 0, 0)
}

// SetGoalTarget follows target until the agent bumps into it
func (n *Navigator) SetGoalTarget(target *core.Entity, tolerance float64, flags GoalFlags) error {
	if target == nil {
		return fmt.Errorf("set goal target: %w", ErrNilTarget)
	}
	n.findPath(GoalTargetEntity, target.EyePosition(), tolerance, flags, target, 0, 0)
	return nil
}

// SetGoalInRange walks toward pos until it lies within [minRange, maxRange]
func (n *Navigator) SetGoalInRange(pos core.Vector3D, maxRange, minRange float64, flags GoalFlags) {
	n.findPath(GoalPositionInRange, pos, 0, flags, nil, minRange, maxRange)
}

// SetGoalTargetInRange follows target until it lies within [minRange, maxRange]
func (n *Navigator) SetGoalTargetInRange(target *core.Entity, maxRange, minRange float64, flags GoalFlags) error {
	if target == nil {
		return fmt.Errorf("set goal target in range: %w", ErrNilTarget)
	}
	n.findPath(GoalTargetEntityInRange, target.EyePosition(), 0, flags, target, minRange, maxRange)
	return nil
}

// SetVectorGoal walks up to dist along dir, stopping where the mesh ends.
// It fails when less than minDist of walkable ground lies along dir.
func (n *Navigator) SetVectorGoal(dir core.Vector3D, dist, minDist float64, flags GoalFlags) error {
	pos, err := n.FindVectorGoal(dir, dist, minDist)
	if err != nil {
		return err
	}
	n.SetGoal(pos, 0, flags)
	return nil
}

// FindVectorGoal returns the farthest walkable point up to dist along dir
func (n *Navigator) FindVectorGoal(dir core.Vector3D, dist, minDist float64) (core.Vector3D, error) {
	dir[2] = 0
	if _, dir = normalize(dir); dir == (core.Vector3D{}) {
		return core.Vector3D{}, fmt.Errorf("zero direction: %w", ErrNoVectorGoal)
	}

	mesh := n.svc.Mesh
	origin := n.agent.Position
	area := n.resolveArea(origin)
	if area == nil {
		return core.Vector3D{}, fmt.Errorf("no area under agent: %w", ErrNoVectorGoal)
	}

	step := n.cfg.TestRouteStepSize
	best := origin
	bestDist := 0.0
	for travelled := step; travelled <= dist; travelled += step {
		pos := origin.Add(dir.Mul(travelled))
		pos[2] = best[2] + step
		next := mesh.AreaAt(pos, n.cfg.TestBeneathLimit)
		if next == nil || next.IsBlocked() {
			break
		}
		pos[2] = next.Z(pos)
		best, bestDist = pos, travelled
	}

	if bestDist < minDist || bestDist == 0 {
		return core.Vector3D{}, fmt.Errorf("walkable %.1f of %.1f: %w", bestDist, minDist, ErrNoVectorGoal)
	}
	return best, nil
}

// StopMoving drops the route but remembers where the goal was
func (n *Navigator) StopMoving() {
	goalPos := n.path.GoalPos
	n.path = NewPath()
	n.path.GoalPos = goalPos
	n.path.AvoidEnemies = n.avoidEnemies
	n.pathGen++
	n.reset()
}

// ForceGoalVelocity steers along v regardless of the goal until cleared
func (n *Navigator) ForceGoalVelocity(v core.Vector3D) {
	n.forcedVelocity = v
}

// ClearForcedGoalVelocity returns to goal driven steering
func (n *Navigator) ClearForcedGoalVelocity() {
	n.forcedVelocity = core.Vector3D{}
}

// SetNoAvoid disables crowd avoidance while following a goal
func (n *Navigator) SetNoAvoid(noAvoid bool) {
	n.noAvoid = noAvoid
}

// SetAvoidEnemies makes hostile units count toward density
func (n *Navigator) SetAvoidEnemies(avoid bool) {
	n.avoidEnemies = avoid
	n.path.AvoidEnemies = avoid
}

// SetIdealYaw holds the facing at yaw. The agent counts as facing once its
// view is within tolerance degrees; zero tolerance uses the default.
func (n *Navigator) SetIdealYaw(yaw, tolerance float64) {
	if tolerance <= 0 {
		tolerance = n.cfg.IdealYawTolerance
	}
	n.hasIdealYaw = true
	n.idealYaw = anglemod(yaw)
	n.idealYawTolerance = tolerance
}

// SetFacingTarget faces an entity
func (n *Navigator) SetFacingTarget(id core.EntityID) {
	n.facingTarget = id
}

// SetFacingPosition faces a fixed point
func (n *Navigator) SetFacingPosition(pos core.Vector3D) {
	n.hasFacingPos = true
	n.facingPos = pos
}

// ClearFacing returns the facing to the path direction
func (n *Navigator) ClearFacing() {
	n.hasIdealYaw = false
	n.idealYawTolerance = n.cfg.IdealYawTolerance
	n.facingTarget = 0
	n.hasFacingPos = false
	n.isFacing = false
}

// findPath replaces the path with a new goal and builds its route
func (n *Navigator) findPath(goalType GoalType, pos core.Vector3D, tolerance float64, flags GoalFlags, target *core.Entity, minRange, maxRange float64) {
	n.reset()

	p := NewPath()
	p.GoalType = goalType
	p.GoalFlags = flags
	p.GoalPos = pos
	p.GoalTolerance = tolerance
	if p.GoalTolerance <= 0 {
		p.GoalTolerance = n.cfg.DefaultGoalTolerance
	}
	p.WaypointTolerance = n.agent.Radius
	p.MinRange = minRange
	p.MaxRange = maxRange
	p.AvoidEnemies = n.avoidEnemies
	if target != nil {
		p.Target = target.ID
	}

	n.path = p
	n.pathGen++
	n.lastGoalStatus = StatusHasGoal

	n.logger.Debug("new goal", "type", goalType, "pos", pos, "flags", flags)
	n.rebuildPath()
}
