package navmesh

import (
	"errors"
	"math"
	"testing"

	"unitnav/internal/core"
)

func TestMeshLinkAdjacency(t *testing.T) {
	m := New()
	west, _ := m.AddArea(core.Vector2D{0, 0}, core.Vector2D{100, 100}, 0)
	east, _ := m.AddArea(core.Vector2D{100, 0}, core.Vector2D{200, 100}, 0)
	south, _ := m.AddArea(core.Vector2D{0, 100}, core.Vector2D{100, 200}, 40)
	m.Link()

	if got := west.Adjacent(core.East); len(got) != 1 || got[0].ID() != east.ID() {
		t.Fatalf("Expected east neighbour, got %v", got)
	}
	if got := east.Adjacent(core.West); len(got) != 1 || got[0].ID() != west.ID() {
		t.Fatalf("Expected west neighbour, got %v", got)
	}
	if got := west.Adjacent(core.South); len(got) != 1 || got[0].ID() != south.ID() {
		t.Fatalf("Expected south neighbour, got %v", got)
	}
	if east.IsConnected(south) {
		t.Fatalf("Diagonal areas should not be connected")
	}
	if !west.IsContiguous(east) {
		t.Fatalf("Flat neighbours should be contiguous")
	}
	if west.IsContiguous(south) {
		t.Fatalf("Areas 40 units apart should not be contiguous")
	}
	if dh := west.ConnectionHeightChange(south); dh != 40 {
		t.Fatalf("Expected height change 40, got %f", dh)
	}
}

func TestSemiPortal(t *testing.T) {
	m := New()
	a, _ := m.AddArea(core.Vector2D{0, 0}, core.Vector2D{100, 100}, 0)
	b, _ := m.AddArea(core.Vector2D{100, 20}, core.Vector2D{200, 60}, 0)
	m.Link()

	center, half := a.ComputeSemiPortal(b, core.East)
	if center != (core.Vector3D{100, 40, 0}) {
		t.Fatalf("Unexpected portal center %v", center)
	}
	if half != 20 {
		t.Fatalf("Expected half width 20, got %f", half)
	}

	center, _ = b.ComputeSemiPortal(a, core.West)
	if center[0] != 100 {
		t.Fatalf("Portal on west side should sit on x=100, got %v", center)
	}
}

func TestAreaAtAndNearest(t *testing.T) {
	m, err := FromSpecs([]AreaSpec{
		{Min: [2]float64{0, 0}, Max: [2]float64{100, 100}, Z: 0},
		{Min: [2]float64{0, 0}, Max: [2]float64{100, 100}, Z: 200},
		{Min: [2]float64{300, 0}, Max: [2]float64{400, 100}, Z: 0},
	})
	if err != nil {
		t.Fatalf("FromSpecs failed: %v", err)
	}

	if a := m.AreaAt(core.Vector3D{50, 50, 0}, 2000); a == nil || a.Z(core.Vector3D{}) != 0 {
		t.Fatalf("Expected ground floor area, got %v", a)
	}
	if a := m.AreaAt(core.Vector3D{50, 50, 210}, 2000); a == nil || a.Z(core.Vector3D{}) != 200 {
		t.Fatalf("Expected upper floor area, got %v", a)
	}
	if a := m.AreaAt(core.Vector3D{200, 50, 0}, 2000); a != nil {
		t.Fatalf("Expected no area in the gap, got %v", a)
	}

	near := m.NearestArea(core.Vector3D{290, 50, 0})
	if near == nil || near.Center()[0] != 350 {
		t.Fatalf("Expected the east area to be nearest, got %v", near)
	}
	p := near.ClosestPoint(core.Vector3D{290, 50, 0})
	if math.Abs(p[0]-300) > 1e-9 {
		t.Fatalf("Closest point should clamp to the area edge, got %v", p)
	}
}

func TestSetBlockedAndBuildPath(t *testing.T) {
	m, _ := FromSpecs([]AreaSpec{
		{Min: [2]float64{0, 0}, Max: [2]float64{100, 100}},
		{Min: [2]float64{100, 0}, Max: [2]float64{200, 100}},
		{Min: [2]float64{200, 0}, Max: [2]float64{300, 100}},
	})
	cost := func(to, from core.NavArea, dir core.NavDirection) float64 {
		if to.IsBlocked() {
			return -1
		}
		return to.Center().Sub(from.Center()).Len()
	}

	start, goal := m.Area(1), m.Area(3)
	if res := m.BuildPath(start, goal, goal.Center(), cost); !res.ReachedGoal || len(res.Steps) != 3 {
		t.Fatalf("Expected 3-area route, got %+v", res)
	}

	if err := m.SetBlocked(2, true); err != nil {
		t.Fatalf("SetBlocked failed: %v", err)
	}
	res := m.BuildPath(start, goal, goal.Center(), cost)
	if res.ReachedGoal || res.Closest.ID() != 1 {
		t.Fatalf("Expected search to stop at start area, got %+v", res)
	}

	if err := m.SetBlocked(99, true); !errors.Is(err, ErrUnknownArea) {
		t.Fatalf("Expected ErrUnknownArea, got %v", err)
	}
}

func TestAddEmptyArea(t *testing.T) {
	m := New()
	if _, err := m.AddArea(core.Vector2D{0, 0}, core.Vector2D{0, 10}, 0); !errors.Is(err, ErrEmptyArea) {
		t.Fatalf("Expected ErrEmptyArea, got %v", err)
	}
}
