package navmesh

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"unitnav/internal/core"
	"unitnav/internal/pathfinding"
)

const (
	// DefaultStepHeight is the largest height change walked without a climb or drop
	DefaultStepHeight = 18.0
	edgeEpsilon       = 0.01
)

var (
	ErrEmptyArea   = errors.New("area has no extent")
	ErrUnknownArea = errors.New("unknown area")
)

// AreaSpec describes one rectangle when loading a mesh from configuration
type AreaSpec struct {
	Min     [2]float64 `yaml:"min"`
	Max     [2]float64 `yaml:"max"`
	Z       float64    `yaml:"z"`
	Blocked bool       `yaml:"blocked"`
}

// Mesh is a navigation mesh made of axis aligned rectangles
type Mesh struct {
	mu         sync.RWMutex
	areas      []*Area
	byID       map[core.AreaID]*Area
	nextID     core.AreaID
	stepHeight float64
	pathfinder core.Pathfinder
}

// New creates an empty mesh
func New() *Mesh {
	return &Mesh{
		byID:       make(map[core.AreaID]*Area),
		nextID:     1,
		stepHeight: DefaultStepHeight,
		pathfinder: pathfinding.NewAStarPathfinder(),
	}
}

// FromSpecs builds and links a mesh from area descriptions
func FromSpecs(specs []AreaSpec) (*Mesh, error) {
	m := New()
	for i, s := range specs {
		a, err := m.AddArea(core.Vector2D{s.Min[0], s.Min[1]}, core.Vector2D{s.Max[0], s.Max[1]}, s.Z)
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", i, err)
		}
		a.blocked = s.Blocked
	}
	m.Link()
	return m, nil
}

// SetStepHeight sets the contiguity height tolerance
func (m *Mesh) SetStepHeight(h float64) {
	m.stepHeight = h
}

// SetPathfinder replaces the area search
func (m *Mesh) SetPathfinder(p core.Pathfinder) {
	m.pathfinder = p
}

// AddArea adds a rectangle. Call Link once all areas are added.
func (m *Mesh) AddArea(min, max core.Vector2D, z float64) (*Area, error) {
	if max[0]-min[0] <= 0 || max[1]-min[1] <= 0 {
		return nil, fmt.Errorf("add area %v-%v: %w", min, max, ErrEmptyArea)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a := &Area{id: m.nextID, min: min, max: max, z: z, mesh: m}
	m.nextID++
	m.areas = append(m.areas, a)
	m.byID[a.id] = a
	return a, nil
}

// Link computes adjacency between areas sharing an edge
func (m *Mesh) Link() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.areas {
		a.adjacent = [core.NumDirections][]*Area{}
	}
	for i, a := range m.areas {
		for _, b := range m.areas[i+1:] {
			m.linkPair(a, b)
		}
	}
}

// linkPair connects two areas if they share an edge
func (m *Mesh) linkPair(a, b *Area) {
	overlapY := math.Min(a.max[1], b.max[1]) - math.Max(a.min[1], b.min[1])
	overlapX := math.Min(a.max[0], b.max[0]) - math.Max(a.min[0], b.min[0])

	switch {
	case math.Abs(a.max[0]-b.min[0]) < edgeEpsilon && overlapY > edgeEpsilon:
		a.adjacent[core.East] = append(a.adjacent[core.East], b)
		b.adjacent[core.West] = append(b.adjacent[core.West], a)
	case math.Abs(b.max[0]-a.min[0]) < edgeEpsilon && overlapY > edgeEpsilon:
		a.adjacent[core.West] = append(a.adjacent[core.West], b)
		b.adjacent[core.East] = append(b.adjacent[core.East], a)
	case math.Abs(a.max[1]-b.min[1]) < edgeEpsilon && overlapX > edgeEpsilon:
		a.adjacent[core.South] = append(a.adjacent[core.South], b)
		b.adjacent[core.North] = append(b.adjacent[core.North], a)
	case math.Abs(b.max[1]-a.min[1]) < edgeEpsilon && overlapX > edgeEpsilon:
		a.adjacent[core.North] = append(a.adjacent[core.North], b)
		b.adjacent[core.South] = append(b.adjacent[core.South], a)
	}
}

// SetBlocked marks an area as impassable or clears it
func (m *Mesh) SetBlocked(id core.AreaID, blocked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("set blocked %d: %w", id, ErrUnknownArea)
	}
	a.blocked = blocked
	return nil
}

// Areas returns every area in insertion order
func (m *Mesh) Areas() []*Area {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Area, len(m.areas))
	copy(out, m.areas)
	return out
}

// Bounds returns the box covering every area
func (m *Mesh) Bounds() core.AABB {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.areas) == 0 {
		return core.AABB{}
	}
	b := m.areas[0].Bounds()
	for _, a := range m.areas[1:] {
		b.Min = core.Vector2D{math.Min(b.Min[0], a.min[0]), math.Min(b.Min[1], a.min[1])}
		b.Max = core.Vector2D{math.Max(b.Max[0], a.max[0]), math.Max(b.Max[1], a.max[1])}
	}
	return b
}

// Area looks up an area by id
func (m *Mesh) Area(id core.AreaID) core.NavArea {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if a, ok := m.byID[id]; ok {
		return a
	}
	return nil
}

// AreaAt returns the highest area under pos that is no more than beneathLimit below it
func (m *Mesh) AreaAt(pos core.Vector3D, beneathLimit float64) core.NavArea {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *Area
	for _, a := range m.areas {
		if !a.Bounds().Contains(pos.Vec2()) {
			continue
		}
		if a.z > pos[2]+m.stepHeight || pos[2]-a.z > beneathLimit {
			continue
		}
		if best == nil || a.z > best.z {
			best = a
		}
	}
	if best == nil {
		return nil
	}
	return best
}

// NearestArea returns the area whose closest point is nearest to pos
func (m *Mesh) NearestArea(pos core.Vector3D) core.NavArea {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *Area
	bestDist := math.Inf(1)
	for _, a := range m.areas {
		d := a.ClosestPoint(pos).Sub(pos).Len()
		if d < bestDist {
			best = a
			bestDist = d
		}
	}
	if best == nil {
		return nil
	}
	return best
}

// BuildPath searches the area graph
func (m *Mesh) BuildPath(start, goal core.NavArea, goalPos core.Vector3D, cost core.CostFunc) core.SearchResult {
	return m.pathfinder.FindPath(start, goal, goalPos, cost)
}
