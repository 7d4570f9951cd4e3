package navmesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"unitnav/internal/core"
)

// Area is an axis aligned walkable rectangle at a fixed height
type Area struct {
	id       core.AreaID
	min, max core.Vector2D
	z        float64
	blocked  bool
	adjacent [core.NumDirections][]*Area
	mesh     *Mesh
}

// ID returns the area id
func (a *Area) ID() core.AreaID { return a.id }

// Bounds returns the ground-plane extent of the area
func (a *Area) Bounds() core.AABB {
	return core.AABB{Min: a.min, Max: a.max}
}

// Center returns the middle of the area at ground height
func (a *Area) Center() core.Vector3D {
	return core.Vector3D{(a.min[0] + a.max[0]) / 2, (a.min[1] + a.max[1]) / 2, a.z}
}

// Corner returns one of the four corners
func (a *Area) Corner(c core.Corner) core.Vector3D {
	switch c {
	case core.NorthWest:
		return core.Vector3D{a.min[0], a.min[1], a.z}
	case core.NorthEast:
		return core.Vector3D{a.max[0], a.min[1], a.z}
	case core.SouthEast:
		return core.Vector3D{a.max[0], a.max[1], a.z}
	default:
		return core.Vector3D{a.min[0], a.max[1], a.z}
	}
}

func (a *Area) SizeX() float64 { return a.max[0] - a.min[0] }
func (a *Area) SizeY() float64 { return a.max[1] - a.min[1] }

// Z returns the ground height
func (a *Area) Z(pos core.Vector3D) float64 { return a.z }

// Contains reports whether pos lies over the area on the ground plane
func (a *Area) Contains(pos core.Vector3D) bool {
	return a.Bounds().Contains(pos.Vec2())
}

// ClosestPoint clamps pos into the area
func (a *Area) ClosestPoint(pos core.Vector3D) core.Vector3D {
	return core.Vector3D{
		mgl64.Clamp(pos[0], a.min[0], a.max[0]),
		mgl64.Clamp(pos[1], a.min[1], a.max[1]),
		a.z,
	}
}

// IsBlocked reports whether units may currently enter the area
func (a *Area) IsBlocked() bool {
	a.mesh.mu.RLock()
	defer a.mesh.mu.RUnlock()
	return a.blocked
}

// Adjacent returns the areas sharing an edge in dir
func (a *Area) Adjacent(dir core.NavDirection) []core.NavArea {
	if dir >= core.NumDirections {
		return nil
	}
	out := make([]core.NavArea, 0, len(a.adjacent[dir]))
	for _, n := range a.adjacent[dir] {
		out = append(out, n)
	}
	return out
}

// IsConnected reports whether other shares an edge with the area
func (a *Area) IsConnected(other core.NavArea) bool {
	_, ok := a.directionTo(other)
	return ok
}

// IsContiguous reports whether other is connected and within a step height
func (a *Area) IsContiguous(other core.NavArea) bool {
	if !a.IsConnected(other) {
		return false
	}
	return math.Abs(a.ConnectionHeightChange(other)) <= a.mesh.stepHeight
}

// ConnectionHeightChange returns how much higher other is
func (a *Area) ConnectionHeightChange(other core.NavArea) float64 {
	return other.Z(other.Center()) - a.z
}

// ComputeSemiPortal returns the middle of the shared edge on this area's side
func (a *Area) ComputeSemiPortal(other core.NavArea, dir core.NavDirection) (core.Vector3D, float64) {
	o, ok := other.(*Area)
	if !ok {
		c := a.Center()
		return c, 0
	}

	var center core.Vector3D
	var halfWidth float64
	switch dir {
	case core.North, core.South:
		left := math.Max(a.min[0], o.min[0])
		right := math.Min(a.max[0], o.max[0])
		y := a.min[1]
		if dir == core.South {
			y = a.max[1]
		}
		center = core.Vector3D{(left + right) / 2, y, a.z}
		halfWidth = math.Max((right-left)/2, 0)
	case core.East, core.West:
		top := math.Max(a.min[1], o.min[1])
		bottom := math.Min(a.max[1], o.max[1])
		x := a.min[0]
		if dir == core.East {
			x = a.max[0]
		}
		center = core.Vector3D{x, (top + bottom) / 2, a.z}
		halfWidth = math.Max((bottom-top)/2, 0)
	default:
		return a.Center(), 0
	}
	return center, halfWidth
}

// directionTo finds the direction other is attached in
func (a *Area) directionTo(other core.NavArea) (core.NavDirection, bool) {
	if other == nil {
		return core.DirNone, false
	}
	for dir := core.North; dir < core.NumDirections; dir++ {
		for _, n := range a.adjacent[dir] {
			if n.id == other.ID() {
				return dir, true
			}
		}
	}
	return core.DirNone, false
}
