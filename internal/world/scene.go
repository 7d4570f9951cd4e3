package world

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"unitnav/internal/collision"
	"unitnav/internal/core"
	"unitnav/internal/spatial"
)

// DefaultBeneathLimit is how far below a point the ground is searched for
const DefaultBeneathLimit = 2000.0

var (
	ErrNilEntity      = errors.New("entity cannot be nil")
	ErrEntityExists   = errors.New("entity already exists")
	ErrEntityNotFound = errors.New("entity not found")
)

// Scene holds every entity of the simulation and answers world queries
type Scene struct {
	mu           sync.RWMutex
	entities     map[core.EntityID]*core.Entity
	byType       map[core.EntityType]map[core.EntityID]*core.Entity
	spatialIndex core.SpatialIndex
	detector     *collision.Detector
	mesh         core.NavMesh
	bounds       core.AABB
	nextEntityID core.EntityID
}

// NewScene creates a scene covering bounds. mesh may be nil, in which case
// ground traces return the input position.
func NewScene(bounds core.AABB, mesh core.NavMesh) *Scene {
	idx := spatial.NewQuadTree(bounds)
	return &Scene{
		entities:     make(map[core.EntityID]*core.Entity),
		byType:       make(map[core.EntityType]map[core.EntityID]*core.Entity),
		spatialIndex: idx,
		detector:     collision.NewDetector(idx),
		mesh:         mesh,
		bounds:       bounds,
	}
}

// AddEntity adds a new entity, assigning an id when it has none
func (s *Scene) AddEntity(entity *core.Entity) error {
	if entity == nil {
		return ErrNilEntity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entity.ID == 0 {
		s.nextEntityID++
		for s.entities[s.nextEntityID] != nil {
			s.nextEntityID++
		}
		entity.ID = s.nextEntityID
	}

	if _, exists := s.entities[entity.ID]; exists {
		return fmt.Errorf("add entity %d: %w", entity.ID, ErrEntityExists)
	}

	if err := s.spatialIndex.Insert(entity); err != nil {
		return fmt.Errorf("failed to add entity to spatial index: %w", err)
	}

	s.entities[entity.ID] = entity
	s.addToTypeIndex(entity)
	return nil
}

// RemoveEntity removes an entity from the scene
func (s *Scene) RemoveEntity(id core.EntityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entity, exists := s.entities[id]
	if !exists {
		return fmt.Errorf("remove entity %d: %w", id, ErrEntityNotFound)
	}

	if err := s.spatialIndex.Remove(id); err != nil {
		return fmt.Errorf("failed to remove entity from spatial index: %w", err)
	}

	delete(s.byType[entity.Type], id)
	delete(s.entities, id)
	return nil
}

// UpdateEntity refiles an entity after its position changed
func (s *Scene) UpdateEntity(entity *core.Entity) error {
	if entity == nil {
		return ErrNilEntity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.entities[entity.ID]
	if !exists {
		return fmt.Errorf("update entity %d: %w", entity.ID, ErrEntityNotFound)
	}

	if err := s.spatialIndex.Update(entity); err != nil {
		return fmt.Errorf("failed to update entity in spatial index: %w", err)
	}

	if existing != entity || existing.Type != entity.Type {
		for _, m := range s.byType {
			delete(m, entity.ID)
		}
		s.addToTypeIndex(entity)
	}
	s.entities[entity.ID] = entity
	return nil
}

// Entity returns the live entity with the given id
func (s *Scene) Entity(id core.EntityID) (*core.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entities[id]
	return e, ok
}

// Entities returns all entities ordered by id
func (s *Scene) Entities() []*core.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	sortByID(out)
	return out
}

// EntitiesByType returns all entities of a type ordered by id
func (s *Scene) EntitiesByType(entityType core.EntityType) []*core.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	typeMap := s.byType[entityType]
	out := make([]*core.Entity, 0, len(typeMap))
	for _, e := range typeMap {
		out = append(out, e)
	}
	sortByID(out)
	return out
}

// EntitiesInSphere returns entities whose footprint comes within radius of
// center and whose height band reaches it, ordered by id
func (s *Scene) EntitiesInSphere(center core.Vector3D, radius float64) []*core.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := s.spatialIndex.QueryRadius(center.Vec2(), radius)
	out := make([]*core.Entity, 0, len(candidates))
	for _, e := range candidates {
		top := e.Position[2] + math.Max(e.Height, e.Radius)
		if center[2]+radius < e.Position[2] || center[2]-radius > top {
			continue
		}
		out = append(out, e)
	}
	sortByID(out)
	return out
}

// TraceHull sweeps a hull of the given radius from start to end
func (s *Scene) TraceHull(start, end core.Vector3D, radius float64, mask core.TraceMask, ignore core.EntityID) core.TraceResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.detector.Sweep(start, end, radius, mask, ignore)
}

// TraceLine traces a line from start to end
func (s *Scene) TraceLine(start, end core.Vector3D, mask core.TraceMask, ignore core.EntityID) core.TraceResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.detector.Sweep(start, end, 0, mask, ignore)
}

// TraceGround drops pos onto the navigation mesh below it
func (s *Scene) TraceGround(pos core.Vector3D) core.Vector3D {
	if s.mesh == nil {
		return pos
	}
	area := s.mesh.AreaAt(pos, DefaultBeneathLimit)
	if area == nil {
		return pos
	}
	return core.Vector3D{pos[0], pos[1], area.Z(pos)}
}

// OverlapCircle returns entities blocking a circle on the ground plane
func (s *Scene) OverlapCircle(center core.Vector2D, radius float64, mask core.TraceMask, ignore core.EntityID) []*core.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.detector.OverlapCircle(center, radius, mask, ignore)
	sortByID(out)
	return out
}

// Count returns the total number of entities
func (s *Scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entities)
}

// CountByType returns the number of entities of a specific type
func (s *Scene) CountByType(entityType core.EntityType) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byType[entityType])
}

// Bounds returns the scene boundaries
func (s *Scene) Bounds() core.AABB {
	return s.bounds
}

// Mesh returns the navigation mesh used for ground traces
func (s *Scene) Mesh() core.NavMesh {
	return s.mesh
}

// Clear removes all entities from the scene
func (s *Scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entities = make(map[core.EntityID]*core.Entity)
	s.byType = make(map[core.EntityType]map[core.EntityID]*core.Entity)
	s.spatialIndex.Clear()
}

// addToTypeIndex adds an entity to the appropriate type index
func (s *Scene) addToTypeIndex(entity *core.Entity) {
	m, ok := s.byType[entity.Type]
	if !ok {
		m = make(map[core.EntityID]*core.Entity)
		s.byType[entity.Type] = m
	}
	m[entity.ID] = entity
}

func sortByID(entities []*core.Entity) {
	sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })
}
