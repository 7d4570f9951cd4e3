package spatial

import (
	"errors"
	"fmt"
	"math"

	"unitnav/internal/core"
)

const (
	// MaxEntitiesPerNode defines when to split a quadtree node
	MaxEntitiesPerNode = 10
	// MaxDepth defines maximum depth of the quadtree
	MaxDepth = 8
)

var (
	ErrNilEntity      = errors.New("entity cannot be nil")
	ErrEntityNotFound = errors.New("entity not found")
	ErrOutOfBounds    = errors.New("entity outside quadtree bounds")
)

// QuadTree implements a spatial index over entity ground-plane bounds.
// Each entity is filed under the bounds it had when last inserted or updated.
type QuadTree struct {
	bounds   core.AABB
	entities map[core.EntityID]*core.Entity
	placed   map[core.EntityID]core.AABB
	root     *quadNode
}

// quadNode represents a node in the quadtree
type quadNode struct {
	bounds   core.AABB
	items    map[core.EntityID]quadItem
	children [4]*quadNode // NW, NE, SW, SE
	depth    int
}

type quadItem struct {
	entity *core.Entity
	bounds core.AABB
}

// NewQuadTree creates a new quadtree with the given bounds
func NewQuadTree(bounds core.AABB) *QuadTree {
	return &QuadTree{
		bounds:   bounds,
		entities: make(map[core.EntityID]*core.Entity),
		placed:   make(map[core.EntityID]core.AABB),
		root:     newQuadNode(bounds, 0),
	}
}

func newQuadNode(bounds core.AABB, depth int) *quadNode {
	return &quadNode{
		bounds: bounds,
		items:  make(map[core.EntityID]quadItem),
		depth:  depth,
	}
}

// Bounds returns the region covered by the tree
func (qt *QuadTree) Bounds() core.AABB {
	return qt.bounds
}

// Len returns the number of indexed entities
func (qt *QuadTree) Len() int {
	return len(qt.entities)
}

// Insert adds an entity to the quadtree
func (qt *QuadTree) Insert(entity *core.Entity) error {
	if entity == nil {
		return ErrNilEntity
	}

	b := entity.Bounds()
	if !contains(qt.bounds, b) {
		return fmt.Errorf("insert %d at %v: %w", entity.ID, b, ErrOutOfBounds)
	}

	qt.entities[entity.ID] = entity
	qt.placed[entity.ID] = b
	qt.root.insert(quadItem{entity: entity, bounds: b})
	return nil
}

// Remove removes an entity from the quadtree
func (qt *QuadTree) Remove(id core.EntityID) error {
	if _, exists := qt.entities[id]; !exists {
		return fmt.Errorf("remove %d: %w", id, ErrEntityNotFound)
	}

	qt.root.remove(id, qt.placed[id])
	delete(qt.entities, id)
	delete(qt.placed, id)
	return nil
}

// Update refiles an entity after it moved
func (qt *QuadTree) Update(entity *core.Entity) error {
	if entity == nil {
		return ErrNilEntity
	}

	if old, exists := qt.placed[entity.ID]; exists {
		if old == entity.Bounds() {
			return nil
		}
		qt.root.remove(entity.ID, old)
		delete(qt.entities, entity.ID)
		delete(qt.placed, entity.ID)
	}

	return qt.Insert(entity)
}

// Query returns all entities whose bounds overlap the given bounds
func (qt *QuadTree) Query(bounds core.AABB) []*core.Entity {
	var results []*core.Entity
	qt.root.query(bounds, &results)
	return results
}

// QueryRadius returns all entities whose bounds come within radius of center
func (qt *QuadTree) QueryRadius(center core.Vector2D, radius float64) []*core.Entity {
	bounds := core.AABB{Min: center, Max: center}.Expand(radius)

	candidates := qt.Query(bounds)
	results := candidates[:0]
	for _, entity := range candidates {
		if distanceToAABB(center, qt.placed[entity.ID]) <= radius {
			results = append(results, entity)
		}
	}

	return results
}

// GetNearest returns the nearest entity to the given point
func (qt *QuadTree) GetNearest(point core.Vector2D, maxDistance float64) *core.Entity {
	var nearest *core.Entity
	minDistance := maxDistance

	for _, entity := range qt.QueryRadius(point, maxDistance) {
		distance := distanceToAABB(point, qt.placed[entity.ID])
		if distance < minDistance || nearest == nil {
			minDistance = distance
			nearest = entity
		}
	}

	return nearest
}

// Clear removes all entities from the quadtree
func (qt *QuadTree) Clear() {
	qt.entities = make(map[core.EntityID]*core.Entity)
	qt.placed = make(map[core.EntityID]core.AABB)
	qt.root = newQuadNode(qt.bounds, 0)
}

// insert adds an item to this node or its children
func (qn *quadNode) insert(item quadItem) {
	if qn.children[0] != nil {
		if childIndex := qn.getChildIndex(item.bounds); childIndex != -1 {
			qn.children[childIndex].insert(item)
			return
		}
	}

	qn.items[item.entity.ID] = item

	if len(qn.items) > MaxEntitiesPerNode && qn.depth < MaxDepth && qn.children[0] == nil {
		qn.split()
	}
}

// remove deletes an entity filed under bounds b
func (qn *quadNode) remove(id core.EntityID, b core.AABB) {
	delete(qn.items, id)

	if qn.children[0] == nil {
		return
	}
	for _, child := range qn.children {
		if child.bounds.Intersects(b) {
			child.remove(id, b)
		}
	}
}

// query finds all entities within the given bounds
func (qn *quadNode) query(bounds core.AABB, results *[]*core.Entity) {
	for _, item := range qn.items {
		if bounds.Intersects(item.bounds) {
			*results = append(*results, item.entity)
		}
	}

	if qn.children[0] == nil {
		return
	}
	for _, child := range qn.children {
		if bounds.Intersects(child.bounds) {
			child.query(bounds, results)
		}
	}
}

// split divides this node into four children
func (qn *quadNode) split() {
	mid := qn.bounds.Center()
	minB, maxB := qn.bounds.Min, qn.bounds.Max

	childBounds := [4]core.AABB{
		{Min: core.Vector2D{minB[0], mid[1]}, Max: core.Vector2D{mid[0], maxB[1]}}, // NW
		{Min: mid, Max: maxB},                                                     // NE
		{Min: minB, Max: mid},                                                     // SW
		{Min: core.Vector2D{mid[0], minB[1]}, Max: core.Vector2D{maxB[0], mid[1]}}, // SE
	}

	for i := range qn.children {
		qn.children[i] = newQuadNode(childBounds[i], qn.depth+1)
	}

	for id, item := range qn.items {
		if childIndex := qn.getChildIndex(item.bounds); childIndex != -1 {
			qn.children[childIndex].insert(item)
			delete(qn.items, id)
		}
	}
}

// getChildIndex returns which child quadrant the bounds belong to
func (qn *quadNode) getChildIndex(bounds core.AABB) int {
	if qn.children[0] == nil {
		return -1
	}

	for i, child := range qn.children {
		if contains(child.bounds, bounds) {
			return i
		}
	}

	return -1 // Doesn't fit completely in any child
}

// Helper functions

func contains(container, bounds core.AABB) bool {
	return bounds.Min[0] >= container.Min[0] && bounds.Max[0] <= container.Max[0] &&
		bounds.Min[1] >= container.Min[1] && bounds.Max[1] <= container.Max[1]
}

func distanceToAABB(point core.Vector2D, bounds core.AABB) float64 {
	dx := math.Max(0, math.Max(bounds.Min[0]-point[0], point[0]-bounds.Max[0]))
	dy := math.Max(0, math.Max(bounds.Min[1]-point[1], point[1]-bounds.Max[1]))
	return math.Hypot(dx, dy)
}
