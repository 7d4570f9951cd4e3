package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector2D represents a 2D coordinate/vector on the ground plane
type Vector2D = mgl64.Vec2

// Vector3D represents a 3D world position/vector, Z is up
type Vector3D = mgl64.Vec3

// AABB (Axis-Aligned Bounding Box) represents a rectangular boundary on the ground plane
type AABB struct {
	Min, Max Vector2D
}

// Contains reports whether a point lies inside the box
func (b AABB) Contains(p Vector2D) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] && p[1] >= b.Min[1] && p[1] <= b.Max[1]
}

// Intersects reports whether two boxes overlap
func (b AABB) Intersects(o AABB) bool {
	return b.Min[0] <= o.Max[0] && b.Max[0] >= o.Min[0] &&
		b.Min[1] <= o.Max[1] && b.Max[1] >= o.Min[1]
}

// Center returns the middle of the box
func (b AABB) Center() Vector2D {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Expand grows the box by r on every side
func (b AABB) Expand(r float64) AABB {
	return AABB{
		Min: Vector2D{b.Min[0] - r, b.Min[1] - r},
		Max: Vector2D{b.Max[0] + r, b.Max[1] + r},
	}
}

// EntityID identifies an entity for its whole lifetime. Zero is never a valid id.
type EntityID uint64

// EntityType represents different types of entities
type EntityType uint8

const (
	EntityTypeUnknown EntityType = iota
	EntityTypeUnit
	EntityTypeBuilding
	EntityTypeObstacle // world geometry, never considered for avoidance
	EntityTypePickup
	EntityTypeProjectile
)

func (t EntityType) String() string {
	switch t {
	case EntityTypeUnit:
		return "unit"
	case EntityTypeBuilding:
		return "building"
	case EntityTypeObstacle:
		return "obstacle"
	case EntityTypePickup:
		return "pickup"
	case EntityTypeProjectile:
		return "projectile"
	}
	return "unknown"
}

// DensityType selects the falloff an entity contributes to the density field
type DensityType uint8

const (
	DensityNone DensityType = iota
	DensityGaussian
	DensityLinear
)

// Traversal describes what terrain transitions a unit type can handle
type Traversal struct {
	UnitType             string
	MaxClimbHeight       float64 // 0 means the unit cannot climb
	SaveDrop             float64 // drops up to this height cost nothing extra
	DeathDrop            float64 // drops beyond this height are never taken, 0 means no limit
	TestRouteStartHeight float64
}

// Entity represents any object in the simulation
type Entity struct {
	ID       EntityID
	Type     EntityType
	Position Vector3D
	Velocity Vector3D
	Yaw      float64 // degrees

	Radius      float64  // bounding radius on the ground plane
	HalfExtents Vector2D // when set the footprint is a box instead of a circle
	Height      float64  // 0 means unbounded
	EyeOffset   float64
	MaxSpeed    float64

	Static     bool // cannot move
	Solid      bool
	NavIgnored bool
	Dead       bool

	Owner        EntityID
	Player       int
	ViewDistance float64
	Density      DensityType
	Traversal    Traversal

	Data interface{} // Custom data for the entity
}

// IsBox reports whether the footprint is a box
func (e *Entity) IsBox() bool {
	return e.HalfExtents[0] > 0 && e.HalfExtents[1] > 0
}

// Bounds returns the ground-plane box around the entity
func (e *Entity) Bounds() AABB {
	p := e.Position.Vec2()
	hx, hy := e.Radius, e.Radius
	if e.IsBox() {
		hx, hy = e.HalfExtents[0], e.HalfExtents[1]
	}
	return AABB{
		Min: Vector2D{p[0] - hx, p[1] - hy},
		Max: Vector2D{p[0] + hx, p[1] + hy},
	}
}

// EyePosition returns the position the entity looks from
func (e *Entity) EyePosition() Vector3D {
	return e.Position.Add(Vector3D{0, 0, e.EyeOffset})
}

// Forward returns the unit facing vector on the ground plane
func (e *Entity) Forward() Vector3D {
	rad := mgl64.DegToRad(e.Yaw)
	return Vector3D{math.Cos(rad), math.Sin(rad), 0}
}

// Alive reports whether the entity can still be targeted
func (e *Entity) Alive() bool {
	return !e.Dead
}

// SpatialIndex interface for spatial data structures
type SpatialIndex interface {
	Insert(entity *Entity) error
	Remove(id EntityID) error
	Update(entity *Entity) error
	Query(bounds AABB) []*Entity
	QueryRadius(center Vector2D, radius float64) []*Entity
	GetNearest(point Vector2D, maxDistance float64) *Entity
	Clear()
}

// HeuristicFunc defines heuristic function for pathfinding
type HeuristicFunc func(a, b Vector3D) float64
