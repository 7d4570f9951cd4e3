package collision

import (
	"math"

	"unitnav/internal/core"
)

// Detector answers sweep and overlap queries against a spatial index
type Detector struct {
	spatialIndex core.SpatialIndex
}

// NewDetector creates a new collision detector
func NewDetector(spatialIndex core.SpatialIndex) *Detector {
	return &Detector{
		spatialIndex: spatialIndex,
	}
}

// Sweep moves a circle of the given radius from start to end on the ground
// plane and returns the first blocking hit. A radius of zero is a line trace.
func (d *Detector) Sweep(start, end core.Vector3D, radius float64, mask core.TraceMask, ignore core.EntityID) core.TraceResult {
	result := core.TraceResult{Fraction: 1, EndPos: end}

	delta := end.Sub(start)
	from := start.Vec2()
	length := delta.Vec2().Len()
	if length == 0 {
		return result
	}
	dir := delta.Vec2().Mul(1 / length)

	// Entities are found by their own bounds, so padding by the sweep radius is enough
	sweepBounds := core.AABB{
		Min: core.Vector2D{math.Min(start[0], end[0]), math.Min(start[1], end[1])},
		Max: core.Vector2D{math.Max(start[0], end[0]), math.Max(start[1], end[1])},
	}.Expand(radius + 1)

	best := length
	for _, candidate := range d.spatialIndex.Query(sweepBounds) {
		if candidate.ID == ignore || !blocksTrace(candidate, mask) {
			continue
		}
		if !verticalOverlap(candidate, start, end) {
			continue
		}

		var t float64
		var normal core.Vector2D
		var ok bool
		if candidate.IsBox() {
			t, normal, ok = rayAABBIntersection(from, dir, candidate.Bounds().Expand(radius))
		} else {
			t, normal, ok = rayCircleIntersection(from, dir, candidate.Position.Vec2(), candidate.Radius+radius)
		}
		if !ok || t > best {
			continue
		}
		if result.Entity != nil && t == best && candidate.ID > result.Entity.ID {
			continue
		}

		best = t
		result.Entity = candidate
		result.Normal = normal.Vec3(0)
	}

	if result.Entity != nil {
		result.Fraction = best / length
		result.EndPos = start.Add(delta.Mul(result.Fraction))
	}
	return result
}

// OverlapCircle returns entities matching mask whose footprint overlaps the circle
func (d *Detector) OverlapCircle(center core.Vector2D, radius float64, mask core.TraceMask, ignore core.EntityID) []*core.Entity {
	var results []*core.Entity
	for _, candidate := range d.spatialIndex.QueryRadius(center, radius) {
		if candidate.ID == ignore || !blocksTrace(candidate, mask) {
			continue
		}
		if !candidate.IsBox() && candidate.Position.Vec2().Sub(center).Len() > radius+candidate.Radius {
			continue
		}
		results = append(results, candidate)
	}
	return results
}

// Helper methods

// blocksTrace determines if a candidate stops a trace of the given mask
func blocksTrace(e *core.Entity, mask core.TraceMask) bool {
	if e.Type == core.EntityTypeObstacle {
		return true
	}
	if mask != core.MaskWorldAndUnits || !e.Solid {
		return false
	}

	switch e.Type {
	case core.EntityTypePickup, core.EntityTypeProjectile:
		return false
	default:
		return true
	}
}

// verticalOverlap reports whether the trace passes through the entity's height band
func verticalOverlap(e *core.Entity, start, end core.Vector3D) bool {
	if e.Height <= 0 {
		return true
	}
	low := math.Min(start[2], end[2])
	return low <= e.Position[2]+e.Height
}

// rayAABBIntersection calculates where a ray enters a box. A ray starting
// inside the box only hits when it heads towards the box center.
func rayAABBIntersection(rayStart, rayDir core.Vector2D, bounds core.AABB) (float64, core.Vector2D, bool) {
	tMin, tMax := math.Inf(-1), math.Inf(1)
	var normal core.Vector2D

	for axis := 0; axis < 2; axis++ {
		if rayDir[axis] == 0 {
			if rayStart[axis] < bounds.Min[axis] || rayStart[axis] > bounds.Max[axis] {
				return 0, core.Vector2D{}, false
			}
			continue
		}

		t1 := (bounds.Min[axis] - rayStart[axis]) / rayDir[axis]
		t2 := (bounds.Max[axis] - rayStart[axis]) / rayDir[axis]
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tMin {
			tMin = t1
			normal = core.Vector2D{}
			normal[axis] = sign
		}
		tMax = math.Min(tMax, t2)
	}

	if tMax < 0 || tMin > tMax {
		return 0, core.Vector2D{}, false
	}

	if tMin < 0 {
		toCenter := bounds.Center().Sub(rayStart)
		if toCenter.Dot(rayDir) <= 0 {
			return 0, core.Vector2D{}, false
		}
		return 0, rayDir.Mul(-1), true
	}
	return tMin, normal, true
}

// rayCircleIntersection calculates where a ray enters a circle
func rayCircleIntersection(rayStart, rayDir, center core.Vector2D, radius float64) (float64, core.Vector2D, bool) {
	toStart := rayStart.Sub(center)
	b := toStart.Dot(rayDir)
	c := toStart.Dot(toStart) - radius*radius

	if c <= 0 {
		// Starting inside: only moving inwards is blocked
		if b >= 0 {
			return 0, core.Vector2D{}, false
		}
		return 0, normalize2D(toStart, rayDir.Mul(-1)), true
	}

	disc := b*b - c
	if disc < 0 || b > 0 {
		return 0, core.Vector2D{}, false
	}

	t := -b - math.Sqrt(disc)
	hit := rayStart.Add(rayDir.Mul(t))
	return t, normalize2D(hit.Sub(center), rayDir.Mul(-1)), true
}

func normalize2D(v, fallback core.Vector2D) core.Vector2D {
	l := v.Len()
	if l == 0 {
		return fallback
	}
	return v.Mul(1 / l)
}
