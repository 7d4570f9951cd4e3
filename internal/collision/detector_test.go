package collision

import (
	"math"
	"testing"

	"unitnav/internal/core"
	"unitnav/internal/spatial"
)

func TestSweepHitsBox(t *testing.T) {
	d, idx := newTestDetector()
	wall := &core.Entity{ID: 1, Type: core.EntityTypeObstacle, Position: core.Vector3D{100, 0, 0}, HalfExtents: core.Vector2D{10, 50}}
	mustInsert(t, idx, wall)

	tr := d.Sweep(core.Vector3D{0, 0, 0}, core.Vector3D{200, 0, 0}, 5, core.MaskWorld, 0)
	if !tr.Hit() || tr.Entity != wall {
		t.Fatalf("Expected to hit the wall, got %+v", tr)
	}
	// Box face at x=90, expanded by the radius to x=85
	if math.Abs(tr.EndPos[0]-85) > 1e-9 {
		t.Fatalf("Expected to stop at x=85, got %v", tr.EndPos)
	}
	if tr.Normal != (core.Vector3D{-1, 0, 0}) {
		t.Fatalf("Expected normal facing back along the sweep, got %v", tr.Normal)
	}
	if !tr.HitWorld() {
		t.Fatalf("Obstacle hits should count as world hits")
	}
}

func TestSweepMaskSkipsUnits(t *testing.T) {
	d, idx := newTestDetector()
	unit := &core.Entity{ID: 2, Type: core.EntityTypeUnit, Solid: true, Position: core.Vector3D{50, 0, 0}, Radius: 10}
	mustInsert(t, idx, unit)

	start, end := core.Vector3D{0, 0, 0}, core.Vector3D{100, 0, 0}
	if tr := d.Sweep(start, end, 0, core.MaskWorld, 0); tr.Hit() {
		t.Fatalf("World-only trace should ignore units, got %+v", tr)
	}

	tr := d.Sweep(start, end, 0, core.MaskWorldAndUnits, 0)
	if !tr.Hit() || tr.Entity != unit {
		t.Fatalf("Expected to hit the unit, got %+v", tr)
	}
	if math.Abs(tr.Fraction-0.4) > 1e-9 {
		t.Fatalf("Expected fraction 0.4, got %f", tr.Fraction)
	}

	if tr := d.Sweep(start, end, 0, core.MaskWorldAndUnits, unit.ID); tr.Hit() {
		t.Fatalf("Ignored entity should not block, got %+v", tr)
	}
}

func TestSweepStartingInsideMovingOut(t *testing.T) {
	d, idx := newTestDetector()
	unit := &core.Entity{ID: 3, Type: core.EntityTypeUnit, Solid: true, Position: core.Vector3D{0, 0, 0}, Radius: 10}
	mustInsert(t, idx, unit)

	if tr := d.Sweep(core.Vector3D{5, 0, 0}, core.Vector3D{50, 0, 0}, 0, core.MaskWorldAndUnits, 0); tr.Hit() {
		t.Fatalf("Moving out of an overlap should not be blocked, got %+v", tr)
	}
	if tr := d.Sweep(core.Vector3D{5, 0, 0}, core.Vector3D{-50, 0, 0}, 0, core.MaskWorldAndUnits, 0); !tr.Hit() || tr.Fraction != 0 {
		t.Fatalf("Moving deeper into an overlap should be blocked immediately, got %+v", tr)
	}
}

func TestSweepPassesOverLowObstacle(t *testing.T) {
	d, idx := newTestDetector()
	mustInsert(t, idx, &core.Entity{ID: 4, Type: core.EntityTypeObstacle, Position: core.Vector3D{50, 0, 0}, HalfExtents: core.Vector2D{5, 5}, Height: 20})

	if tr := d.Sweep(core.Vector3D{0, 0, 40}, core.Vector3D{100, 0, 40}, 0, core.MaskWorld, 0); tr.Hit() {
		t.Fatalf("Trace above the obstacle should pass, got %+v", tr)
	}
	if tr := d.Sweep(core.Vector3D{0, 0, 10}, core.Vector3D{100, 0, 10}, 0, core.MaskWorld, 0); !tr.Hit() {
		t.Fatalf("Trace through the obstacle should hit")
	}
}

func TestOverlapCircle(t *testing.T) {
	d, idx := newTestDetector()
	mustInsert(t, idx, &core.Entity{ID: 5, Type: core.EntityTypeUnit, Solid: true, Position: core.Vector3D{20, 0, 0}, Radius: 5})
	mustInsert(t, idx, &core.Entity{ID: 6, Type: core.EntityTypePickup, Solid: true, Position: core.Vector3D{10, 0, 0}, Radius: 5})

	hits := d.OverlapCircle(core.Vector2D{0, 0}, 16, core.MaskWorldAndUnits, 0)
	if len(hits) != 1 || hits[0].ID != 5 {
		t.Fatalf("Expected only the unit to overlap, got %v", hits)
	}
}

// Helper functions

func newTestDetector() (*Detector, *spatial.QuadTree) {
	idx := spatial.NewQuadTree(core.AABB{Min: core.Vector2D{-500, -500}, Max: core.Vector2D{500, 500}})
	return NewDetector(idx), idx
}

func mustInsert(t *testing.T, idx *spatial.QuadTree, e *core.Entity) {
	t.Helper()
	if err := idx.Insert(e); err != nil {
		t.Fatalf("Failed to insert entity %d: %v", e.ID, err)
	}
}
