package density

import (
	"math"

	"unitnav/internal/core"
)

// Field computes entity density contributions. Density is 1 on the entity's
// footprint and falls off with the distance from its edge.
type Field struct {
	// Spread scales the falloff distance relative to the entity radius
	Spread float64
	// Cutoff is the falloff distance, in spreads, beyond which density is zero
	Cutoff float64
}

// NewField creates a field with the default falloff
func NewField() Field {
	return Field{Spread: 0.5, Cutoff: 3}
}

// Density returns the congestion e contributes at pos
func (f Field) Density(pos core.Vector3D, e *core.Entity) float64 {
	if e == nil {
		return 0
	}

	sigma := e.Radius * f.Spread
	if e.IsBox() {
		sigma = math.Min(e.HalfExtents[0], e.HalfExtents[1]) * f.Spread
	}
	if sigma <= 0 {
		return 0
	}

	d := edgeDistance(pos.Vec2(), e)
	if d > sigma*f.Cutoff {
		return 0
	}

	switch e.Density {
	case core.DensityGaussian:
		return math.Exp(-(d * d) / (2 * sigma * sigma))
	case core.DensityLinear:
		return 1 - d/(sigma*f.Cutoff)
	default:
		return 0
	}
}

// edgeDistance is the ground distance from p to the entity footprint
func edgeDistance(p core.Vector2D, e *core.Entity) float64 {
	if e.IsBox() {
		b := e.Bounds()
		dx := math.Max(0, math.Max(b.Min[0]-p[0], p[0]-b.Max[0]))
		dy := math.Max(0, math.Max(b.Min[1]-p[1], p[1]-b.Max[1]))
		return math.Hypot(dx, dy)
	}
	return math.Max(0, p.Sub(e.Position.Vec2()).Len()-e.Radius)
}
