package fow

import (
	"testing"

	"unitnav/internal/core"
)

func TestGridRevealsAroundViewers(t *testing.T) {
	g := NewGrid(core.AABB{Min: core.Vector2D{0, 0}, Max: core.Vector2D{1000, 1000}}, 50)
	scout := &core.Entity{ID: 1, Player: 1, Position: core.Vector3D{100, 100, 0}, ViewDistance: 200}
	g.Update([]*core.Entity{scout})

	if g.PointInFOW(core.Vector3D{150, 150, 0}, 1) {
		t.Fatalf("Point next to the scout should be visible")
	}
	if !g.PointInFOW(core.Vector3D{800, 800, 0}, 1) {
		t.Fatalf("Far point should be fogged")
	}
	if !g.PointInFOW(core.Vector3D{150, 150, 0}, 2) {
		t.Fatalf("Other players should not see through the scout")
	}
	if !g.PointInFOW(core.Vector3D{-10, 0, 0}, 1) {
		t.Fatalf("Points outside the grid are always fogged")
	}
}

func TestGridShareVisionAndDisable(t *testing.T) {
	g := NewGrid(core.AABB{Min: core.Vector2D{0, 0}, Max: core.Vector2D{1000, 1000}}, 50)
	g.ShareVision(1, 2, true)
	g.Update([]*core.Entity{{ID: 1, Player: 1, Position: core.Vector3D{500, 500, 0}, ViewDistance: 100}})

	if g.PointInFOW(core.Vector3D{500, 500, 0}, 2) {
		t.Fatalf("Shared vision should reveal the point to player 2")
	}
	if g.VisibleCells(2) != g.VisibleCells(1) || g.VisibleCells(1) == 0 {
		t.Fatalf("Shared vision should match the owner, got %d vs %d", g.VisibleCells(2), g.VisibleCells(1))
	}

	g.SetEnabled(false)
	if g.PointInFOW(core.Vector3D{10, 10, 0}, 3) {
		t.Fatalf("Disabled fog should hide nothing")
	}
}

func TestGridIgnoresDeadViewers(t *testing.T) {
	g := NewGrid(core.AABB{Min: core.Vector2D{0, 0}, Max: core.Vector2D{1000, 1000}}, 50)
	g.Update([]*core.Entity{{ID: 1, Player: 1, Dead: true, Position: core.Vector3D{500, 500, 0}, ViewDistance: 100}})
	if g.VisibleCells(1) != 0 {
		t.Fatalf("Dead entities should not reveal cells")
	}
}
