package world

import (
	"errors"
	"testing"

	"unitnav/internal/core"
	"unitnav/internal/navmesh"
)

func TestSceneAddAndRemove(t *testing.T) {
	s := NewScene(testBounds(), nil)

	a := &core.Entity{Type: core.EntityTypeUnit, Radius: 10}
	b := &core.Entity{Type: core.EntityTypeObstacle, Position: core.Vector3D{100, 0, 0}, HalfExtents: core.Vector2D{20, 20}}
	for _, e := range []*core.Entity{a, b} {
		if err := s.AddEntity(e); err != nil {
			t.Fatalf("AddEntity failed: %v", err)
		}
	}
	if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
		t.Fatalf("Expected distinct ids, got %d and %d", a.ID, b.ID)
	}
	if err := s.AddEntity(a); !errors.Is(err, ErrEntityExists) {
		t.Fatalf("Expected ErrEntityExists, got %v", err)
	}
	if s.CountByType(core.EntityTypeObstacle) != 1 {
		t.Fatalf("Expected one obstacle")
	}

	if err := s.RemoveEntity(a.ID); err != nil {
		t.Fatalf("RemoveEntity failed: %v", err)
	}
	if _, ok := s.Entity(a.ID); ok {
		t.Fatalf("Removed entity should not be found")
	}
	if err := s.RemoveEntity(a.ID); !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("Expected ErrEntityNotFound, got %v", err)
	}
}

func TestSceneSphereQueryOrderedAndFiltered(t *testing.T) {
	s := NewScene(testBounds(), nil)
	for _, e := range []*core.Entity{
		{ID: 7, Type: core.EntityTypeUnit, Position: core.Vector3D{10, 0, 0}, Radius: 5},
		{ID: 3, Type: core.EntityTypeUnit, Position: core.Vector3D{-10, 0, 0}, Radius: 5},
		{ID: 5, Type: core.EntityTypeUnit, Position: core.Vector3D{0, 0, 500}, Radius: 5, Height: 50},
		{ID: 9, Type: core.EntityTypeUnit, Position: core.Vector3D{300, 0, 0}, Radius: 5},
	} {
		if err := s.AddEntity(e); err != nil {
			t.Fatalf("AddEntity failed: %v", err)
		}
	}

	got := s.EntitiesInSphere(core.Vector3D{0, 0, 0}, 50)
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 7 {
		t.Fatalf("Expected ids [3 7], got %v", ids(got))
	}
}

func TestSceneUpdateMovesEntity(t *testing.T) {
	s := NewScene(testBounds(), nil)
	e := &core.Entity{Type: core.EntityTypeUnit, Radius: 5}
	if err := s.AddEntity(e); err != nil {
		t.Fatalf("AddEntity failed: %v", err)
	}

	e.Position = core.Vector3D{400, 400, 0}
	if err := s.UpdateEntity(e); err != nil {
		t.Fatalf("UpdateEntity failed: %v", err)
	}
	if got := s.EntitiesInSphere(core.Vector3D{0, 0, 0}, 50); len(got) != 0 {
		t.Fatalf("Entity should have left the origin, got %v", ids(got))
	}
	if got := s.EntitiesInSphere(core.Vector3D{400, 400, 0}, 50); len(got) != 1 {
		t.Fatalf("Entity should be found at its new position")
	}
}

func TestSceneTraces(t *testing.T) {
	mesh, err := navmesh.FromSpecs([]navmesh.AreaSpec{{Min: [2]float64{-500, -500}, Max: [2]float64{500, 500}, Z: 32}})
	if err != nil {
		t.Fatalf("FromSpecs failed: %v", err)
	}
	s := NewScene(testBounds(), mesh)
	wall := &core.Entity{Type: core.EntityTypeObstacle, Position: core.Vector3D{100, 0, 0}, HalfExtents: core.Vector2D{10, 100}}
	if err := s.AddEntity(wall); err != nil {
		t.Fatalf("AddEntity failed: %v", err)
	}

	if tr := s.TraceLine(core.Vector3D{0, 0, 40}, core.Vector3D{200, 0, 40}, core.MaskWorld, 0); !tr.HitWorld() {
		t.Fatalf("Expected the wall to block the line, got %+v", tr)
	}
	if tr := s.TraceHull(core.Vector3D{0, 0, 40}, core.Vector3D{0, 200, 40}, 16, core.MaskWorld, 0); tr.Hit() {
		t.Fatalf("Hull moving away from the wall should be clear, got %+v", tr)
	}

	ground := s.TraceGround(core.Vector3D{0, 0, 100})
	if ground[2] != 32 {
		t.Fatalf("Expected ground at z=32, got %v", ground)
	}
}

// Helper functions

func testBounds() core.AABB {
	return core.AABB{Min: core.Vector2D{-1000, -1000}, Max: core.Vector2D{1000, 1000}}
}

func ids(entities []*core.Entity) []core.EntityID {
	out := make([]core.EntityID, len(entities))
	for i, e := range entities {
		out[i] = e.ID
	}
	return out
}
