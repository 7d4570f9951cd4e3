package unitnav

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"unitnav/internal/core"
	"unitnav/internal/navigator"
)

// Vector utility functions

// NewVector2D creates a new ground plane vector
func NewVector2D(x, y float64) core.Vector2D {
	return core.Vector2D{x, y}
}

// NewVector3D creates a new world position
func NewVector3D(x, y, z float64) core.Vector3D {
	return core.Vector3D{x, y, z}
}

// Distance calculates the ground plane distance between two positions
func Distance(a, b core.Vector3D) float64 {
	return a.Vec2().Sub(b.Vec2()).Len()
}

// YawTo returns the yaw in degrees that looks from a toward b
func YawTo(a, b core.Vector3D) float64 {
	d := b.Sub(a)
	if d[0] == 0 && d[1] == 0 {
		return 0
	}
	yaw := mgl64.RadToDeg(math.Atan2(d[1], d[0]))
	if yaw < 0 {
		yaw += 360
	}
	return yaw
}

// AABB utility functions

// NewAABB creates a new axis-aligned bounding box
func NewAABB(minX, minY, maxX, maxY float64) core.AABB {
	return core.AABB{
		Min: core.Vector2D{minX, minY},
		Max: core.Vector2D{maxX, maxY},
	}
}

// AABBFromCenterSize creates an AABB from center point and size
func AABBFromCenterSize(center core.Vector2D, width, height float64) core.AABB {
	halfWidth := width / 2
	halfHeight := height / 2
	return NewAABB(center[0]-halfWidth, center[1]-halfHeight, center[0]+halfWidth, center[1]+halfHeight)
}

// Entity utility functions

// NewUnit creates a solid, density emitting unit
func NewUnit(position core.Vector3D, radius, maxSpeed float64) *core.Entity {
	return &core.Entity{
		Type:         core.EntityTypeUnit,
		Position:     position,
		Radius:       radius,
		Height:       radius * 4,
		EyeOffset:    radius * 2,
		MaxSpeed:     maxSpeed,
		Solid:        true,
		ViewDistance: radius * 40,
		Density:      core.DensityGaussian,
	}
}

// NewObstacle creates a static box obstacle
func NewObstacle(center core.Vector2D, width, height float64) *core.Entity {
	return &core.Entity{
		Type:        core.EntityTypeObstacle,
		Position:    center.Vec3(0),
		HalfExtents: core.Vector2D{width / 2, height / 2},
		Radius:      math.Hypot(width, height) / 2,
		Static:      true,
		Solid:       true,
	}
}

// Path utility functions

// PathLength sums the ground distance from pos through every waypoint
func PathLength(pos core.Vector3D, waypoints []navigator.Waypoint) float64 {
	total := 0.0
	prev := pos
	for _, wp := range waypoints {
		total += Distance(prev, wp.Pos)
		prev = wp.Pos
	}
	return total
}

// Random utility functions

// RandomPosition generates a random position within the given bounds
func RandomPosition(rng *rand.Rand, bounds core.AABB) core.Vector3D {
	return core.Vector3D{
		bounds.Min[0] + rng.Float64()*(bounds.Max[0]-bounds.Min[0]),
		bounds.Min[1] + rng.Float64()*(bounds.Max[1]-bounds.Min[1]),
		0,
	}
}

// RandomPositionInCircle generates a random position within a circle
func RandomPositionInCircle(rng *rand.Rand, center core.Vector3D, radius float64) core.Vector3D {
	angle := rng.Float64() * 2 * math.Pi
	distance := math.Sqrt(rng.Float64()) * radius

	return core.Vector3D{
		center[0] + math.Cos(angle)*distance,
		center[1] + math.Sin(angle)*distance,
		center[2],
	}
}
