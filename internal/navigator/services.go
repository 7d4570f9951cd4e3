package navigator

import (
	"github.com/charmbracelet/log"

	"unitnav/internal/core"
	"unitnav/internal/density"
)

// CostFactory builds the area traversal cost for an agent. testRoute is set
// when the cost is used to validate straight line walks.
type CostFactory func(caps core.Traversal, testRoute bool) core.CostFunc

// VelocityBlender mixes path and flow velocity according to density
type VelocityBlender interface {
	Blend(path, flow core.Vector3D, density, tmin, tmax float64) core.Vector3D
}

// LinearBlend uses pure path velocity below tmin, pure flow above tmax and
// interpolates linearly in between
type LinearBlend struct{}

// Blend implements VelocityBlender
func (LinearBlend) Blend(path, flow core.Vector3D, density, tmin, tmax float64) core.Vector3D {
	switch {
	case density < tmin:
		return path
	case density > tmax || tmax <= tmin:
		return flow
	}
	t := (density - tmin) / (tmax - tmin)
	return path.Add(flow.Sub(path).Mul(t))
}

// Services are the collaborators a navigator reads from. World, Mesh and
// Clock are required; the rest fall back to permissive defaults.
type Services struct {
	World     core.World
	Mesh      core.NavMesh
	Clock     core.Clock
	Density   core.DensityField
	Vision    core.Vision
	Relations core.Relations
	Cache     *PathCache
	Events    EventSink
	Logger    *log.Logger
	Blender   VelocityBlender
	CostFunc  CostFactory
}

// withDefaults fills optional services
func (s Services) withDefaults() Services {
	if s.Density == nil {
		s.Density = density.NewField()
	}
	if s.Vision == nil {
		s.Vision = noFog{}
	}
	if s.Relations == nil {
		s.Relations = neutralRelations{}
	}
	if s.Events == nil {
		s.Events = discardEvents{}
	}
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	if s.Blender == nil {
		s.Blender = LinearBlend{}
	}
	if s.CostFunc == nil {
		s.CostFunc = ShortestPathCost
	}
	return s
}

type noFog struct{}

func (noFog) PointInFOW(core.Vector3D, int) bool { return false }

type neutralRelations struct{}

func (neutralRelations) Relation(a, b *core.Entity) core.Disposition { return core.DispositionNeutral }
