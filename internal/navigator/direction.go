package navigator

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"unitnav/internal/core"
)

// ComputePathDirection2 returns the ground distance and unit direction from
// start to a waypoint. Portal waypoints are approached at the closest point
// of their portal segment rather than at their center.
func ComputePathDirection2(start core.Vector3D, wp Waypoint) (float64, core.Vector3D) {
	return pathDirection(start, waypointTarget(start, wp))
}

// waypointTarget returns the point of the waypoint's portal segment closest to start
func waypointTarget(start core.Vector3D, wp Waypoint) core.Vector3D {
	if wp.NavDir >= core.NumDirections {
		return wp.Pos
	}

	tol := wp.ToleranceY
	if wp.NavDir == core.West || wp.NavDir == core.East {
		tol = wp.ToleranceX
	}
	if tol <= 0 {
		return wp.Pos
	}

	p1 := wp.Pos.Add(wp.AreaSlope.Mul(tol))
	p2 := wp.Pos.Sub(wp.AreaSlope.Mul(tol))
	return closestPointOnSegment(p1, p2, start)
}

// pathDirection returns the ground distance and unit direction from start to end
func pathDirection(start, end core.Vector3D) (float64, core.Vector3D) {
	d := end.Sub(start)
	d[2] = 0
	return normalize(d)
}

// closestPointOnSegment clamps the projection of p onto a-b
func closestPointOnSegment(a, b, p core.Vector3D) core.Vector3D {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return a
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Mul(t))
}

// normalize returns the length and unit vector, or zero for degenerate input
func normalize(v core.Vector3D) (float64, core.Vector3D) {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return 0, core.Vector3D{}
	}
	return l, v.Mul(1 / l)
}

// length2D is the ground plane length of v
func length2D(v core.Vector3D) float64 {
	return math.Hypot(v[0], v[1])
}

// rotateYaw rotates v around the up axis by degrees
func rotateYaw(v core.Vector3D, degrees float64) core.Vector3D {
	r := mgl64.Rotate2D(mgl64.DegToRad(degrees)).Mul2x1(v.Vec2())
	return core.Vector3D{r[0], r[1], v[2]}
}

// vectorAngles converts a direction into pitch and yaw in degrees
func vectorAngles(v core.Vector3D) core.Angles {
	if v[0] == 0 && v[1] == 0 {
		pitch := 0.0
		if v[2] > 0 {
			pitch = 270
		} else if v[2] < 0 {
			pitch = 90
		}
		return core.Angles{Pitch: pitch}
	}
	yaw := anglemod(mgl64.RadToDeg(math.Atan2(v[1], v[0])))
	pitch := anglemod(mgl64.RadToDeg(math.Atan2(-v[2], math.Hypot(v[0], v[1]))))
	return core.Angles{Pitch: pitch, Yaw: yaw}
}

// yawVector is the unit ground vector for a yaw in degrees
func yawVector(yaw float64) core.Vector3D {
	rad := mgl64.DegToRad(yaw)
	return core.Vector3D{math.Cos(rad), math.Sin(rad), 0}
}

// anglemod wraps an angle into [0, 360)
func anglemod(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// angleDiff returns the absolute difference between two angles in [0, 180]
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return math.Abs(d)
}

// directionVector is the unit ground vector of a compass direction
func directionVector(dir core.NavDirection) core.Vector3D {
	switch dir {
	case core.North:
		return core.Vector3D{0, -1, 0}
	case core.East:
		return core.Vector3D{1, 0, 0}
	case core.South:
		return core.Vector3D{0, 1, 0}
	case core.West:
		return core.Vector3D{-1, 0, 0}
	}
	return core.Vector3D{}
}
