package navigator

import (
	"math"

	"unitnav/internal/core"
)

// sampleStep is the yaw between neighboring test directions
const sampleStep = 45.0

// regenerateConsiderList collects the nearby entities that take part in
// avoidance and samples the test directions around the agent
func (n *Navigator) regenerateConsiderList(pathDir core.Vector3D, status GoalStatus) {
	n.consider = n.consider[:0]
	n.samples = n.samples[:0]

	radius := n.agent.Radius
	for _, e := range n.svc.World.EntitiesInSphere(n.agent.Position, radius*n.cfg.ConsiderMultiplier) {
		if !n.shouldConsider(e) {
			continue
		}
		if len(n.consider) >= n.cfg.MaxConsider {
			break
		}
		n.consider = append(n.consider, considerEntry{entity: e})
	}

	if status == StatusNoGoal {
		// Full circle starting at the facing direction
		dir := n.agent.Forward()
		for i := 0; i < maxSamples; i++ {
			n.addSample(dir)
			dir = rotateYaw(dir, sampleStep)
		}
		return
	}

	// Fan out from the path direction, alternating sides, until it is clearly open
	total := n.addSample(pathDir)
	dir := pathDir
	rotate := sampleStep
	for j := 0; j < n.cfg.MaxScanSteps && (len(n.seeds) > 0 || total > n.cfg.ScanEarlyExitDensity); j++ {
		dir = rotateYaw(dir, rotate)
		total = n.addSample(dir)

		rotate = -rotate
		if rotate < 0 {
			rotate -= sampleStep
		} else {
			rotate += sampleStep
		}
	}
}

// addSample records a test direction and each considered entity's density
// there. It returns the summed density.
func (n *Navigator) addSample(dir core.Vector3D) float64 {
	idx := len(n.samples)
	pos := n.agent.Position.Add(dir.Mul(n.agent.Radius))
	n.samples = append(n.samples, sample{dir: dir, pos: pos})

	var total float64
	for i := range n.consider {
		d := n.svc.Density.Density(pos, n.consider[i].entity)
		n.consider[i].density[idx] = d
		total += d
	}
	return total
}

// shouldConsider filters the entities that contribute density
func (n *Navigator) shouldConsider(e *core.Entity) bool {
	switch {
	case e.ID == n.agent.ID, e.Density == core.DensityNone, !e.Solid, e.NavIgnored:
		return false
	case e.Owner == n.agent.ID, e.Type == core.EntityTypeObstacle:
		return false
	case n.path.Target != 0 && e.ID == n.path.Target:
		return false
	}
	if !n.path.AvoidEnemies && n.svc.Relations.Relation(n.agent, e) == core.DispositionHate {
		return false
	}
	return true
}

// computeDensityAndAvgVelocity sums the density at a test position and the
// density weighted velocity of whatever causes it. Slow entities push outward.
func (n *Navigator) computeDensityAndAvgVelocity(i int) (float64, core.Vector3D) {
	pos := n.samples[i].pos

	var sum float64
	var avg core.Vector3D
	for _, c := range n.consider {
		d := c.density[i]
		sum += d

		e := c.entity
		if e.Static || length2D(e.Velocity) < n.cfg.SlowEntitySpeed {
			out := pos.Sub(e.Position)
			out[2] = 0
			_, out = normalize(out)
			avg = avg.Add(out.Mul(d * d * n.cfg.RepulsionScale))
		} else {
			avg = avg.Add(e.Velocity.Mul(d))
		}
	}

	if len(n.seeds) > 0 {
		r := n.agent.Radius * n.cfg.SeedRadiusBloat
		for _, s := range n.seeds {
			dist := pos.Vec2().Sub(s.pos).Len()
			if dist < r {
				sum += n.cfg.SeedDensity * (1 - dist/r)
			}
		}
	}

	if sum == 0 || !finite(avg) {
		return sum, core.Vector3D{}
	}
	return sum, avg.Mul(1 / sum)
}

// computeUnitCost evaluates one test direction. It returns the cost, the
// blended velocity, the density and the distance left to the waypoint.
func (n *Navigator) computeUnitCost(i int, status GoalStatus, cmd *core.MoveCommand, goalDist float64) (float64, core.Vector3D, float64, float64) {
	s := n.samples[i]

	var dist float64
	if n.forcedVelocity != (core.Vector3D{}) {
		_, forcedDir := normalize(n.forcedVelocity)
		target := n.agent.Position.Add(forcedDir.Mul(goalDist))
		dist, _ = pathDirection(s.pos, target)
	} else if n.path.GoalType != GoalNone {
		if wp, ok := n.path.CurWaypoint(); ok {
			dist, _ = ComputePathDirection2(s.pos, wp)
		}
	}

	density, avgVelocity := n.computeDensityAndAvgVelocity(i)

	var pathVelocity core.Vector3D
	if status != StatusNoGoal && status != StatusAtGoal {
		pathVelocity = s.dir.Mul(pathSpeed(goalDist, cmd))
	}

	var flowVelocity core.Vector3D
	if status == StatusNoGoal {
		flowVelocity = avgVelocity
	} else {
		flowVelocity = s.dir.Mul(length2D(avgVelocity))
	}
	if length2D(flowVelocity) < n.cfg.MinFlowSpeed {
		flowVelocity = core.Vector3D{}
	}

	tmin, tmax := n.cfg.thresholds(n.path.GoalType != GoalNone)
	velocity := n.svc.Blender.Blend(pathVelocity, flowVelocity, density, tmin, tmax)

	speed := length2D(velocity)
	if status == StatusNoGoal || speed == 0 {
		return density, velocity, density, dist
	}

	cost := n.cfg.CostTimeWeight*(dist/speed) +
		n.cfg.CostDistWeight*dist +
		n.discomfortWeight*density
	return cost, velocity, density, dist
}

// computeVelocity picks the velocity of the cheapest test direction. Without
// a goal the agent only drifts away when one side is much more crowded.
func (n *Navigator) computeVelocity(status GoalStatus, cmd *core.MoveCommand, pathDir core.Vector3D, goalDist float64) core.Vector3D {
	bestCost := math.Inf(1)
	var bestVelocity core.Vector3D

	if status == StatusNoGoal {
		highest := 0.0
		best := -1
		for i := range n.samples {
			cost, _, density, _ := n.computeUnitCost(i, status, cmd, goalDist)
			if density > highest {
				highest = density
			}
			if cost < bestCost {
				bestCost = cost
				n.lastBestDensity = density
				best = i
			}
		}

		if best >= 0 && highest-n.lastBestDensity > n.cfg.NoGoalMinDiff && highest > n.cfg.NoGoalMinDensity {
			bestVelocity = n.samples[best].dir.Mul((highest - n.lastBestDensity) * cmd.MaxSpeed)
		}
	} else {
		for i := range n.samples {
			cost, velocity, density, dist := n.computeUnitCost(i, status, cmd, goalDist)
			if cost < bestCost {
				bestCost = cost
				n.lastBestDensity = density
				n.lastBestDist = dist
				bestVelocity = velocity
			}
		}

		// Push along the path when every direction is crowded
		if n.lastBestDensity > n.noMoveDensity() {
			bestVelocity = pathDir.Mul(cmd.MaxSpeed)
		}
	}

	n.lastBestCost = bestCost
	return bestVelocity
}

// noMoveDensity is the density above which crowding is ignored. It rises
// toward 1 as the discomfort weight grows.
func (n *Navigator) noMoveDensity() float64 {
	base := n.cfg.DensityNoMove
	if base >= 1 {
		return base
	}
	w := (n.discomfortWeight - n.cfg.DiscomfortWeightStart) / (n.cfg.DiscomfortWeightMax - n.cfg.DiscomfortWeightStart)
	return base + (1-base)*w
}

// updateDiscomfort integrates the discomfort weight over one tick
func (n *Navigator) updateDiscomfort(interval float64) {
	step := interval * n.cfg.DiscomfortGrowRate
	if n.lastBestDensity > n.cfg.DiscomfortGrowThreshold {
		n.discomfortWeight = math.Min(n.discomfortWeight+step, n.cfg.DiscomfortWeightMax)
	} else {
		n.discomfortWeight = math.Max(n.discomfortWeight-step, n.cfg.DiscomfortWeightStart)
	}
}

// expireSeeds drops seeds older than the seed lifetime
func (n *Navigator) expireSeeds(now float64) {
	kept := n.seeds[:0]
	for _, s := range n.seeds {
		if s.created+n.cfg.SeedLifetime >= now {
			kept = append(kept, s)
		}
	}
	n.seeds = kept
}

// Helper functions

// pathSpeed is the speed that reaches the stop distance without overshooting
func pathSpeed(goalDist float64, cmd *core.MoveCommand) float64 {
	remaining := math.Max(goalDist-cmd.StopDistance, 0)
	if cmd.Interval > 0 && remaining <= cmd.MaxSpeed*cmd.Interval {
		return remaining / cmd.Interval
	}
	return cmd.MaxSpeed
}

func finite(v core.Vector3D) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
