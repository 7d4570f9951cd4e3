package pathfinding

import (
	"errors"
	"math"
	"testing"

	"unitnav/internal/core"
)

func TestAStarBasicPath(t *testing.T) {
	areas := newTestGrid(5, 1)
	pathfinder := NewAStarPathfinder()

	start, goal := areas.at(0, 0), areas.at(4, 0)
	result := pathfinder.FindPath(start, goal, goal.Center(), distanceCost)

	if !result.ReachedGoal {
		t.Fatalf("Expected to reach goal area")
	}
	if len(result.Steps) != 5 {
		t.Fatalf("Expected 5 steps, got %d", len(result.Steps))
	}
	if result.Steps[0].Area.ID() != start.ID() || result.Steps[0].How != core.DirNone {
		t.Fatalf("First step should be the start area with no direction, got %+v", result.Steps[0])
	}
	for i := 1; i < len(result.Steps); i++ {
		if result.Steps[i].How != core.East {
			t.Fatalf("Step %d should travel east, got %v", i, result.Steps[i].How)
		}
	}
}

func TestAStarAroundBlockedArea(t *testing.T) {
	areas := newTestGrid(3, 3)
	areas.at(1, 0).blocked = true
	areas.at(1, 1).blocked = true
	pathfinder := NewAStarPathfinder()

	start, goal := areas.at(0, 0), areas.at(2, 0)
	result := pathfinder.FindPath(start, goal, goal.Center(), distanceCost)
	if !result.ReachedGoal {
		t.Fatalf("Expected to find a route around the blocked column")
	}
	for i, step := range result.Steps {
		if step.Area.IsBlocked() {
			t.Fatalf("Step %d goes through blocked area %d", i, step.Area.ID())
		}
	}
	if len(result.Steps) != 7 {
		t.Fatalf("Expected detour of 7 areas, got %d", len(result.Steps))
	}
}

func TestAStarClosestReachable(t *testing.T) {
	areas := newTestGrid(5, 1)
	areas.at(3, 0).blocked = true
	pathfinder := NewAStarPathfinder()

	start, goal := areas.at(0, 0), areas.at(4, 0)
	result := pathfinder.FindPath(start, goal, goal.Center(), distanceCost)

	if result.ReachedGoal {
		t.Fatalf("Expected the goal to be unreachable")
	}
	if result.Closest == nil || result.Closest.ID() != areas.at(2, 0).ID() {
		t.Fatalf("Expected closest area to be the one before the wall, got %v", result.Closest)
	}
	last := result.Steps[len(result.Steps)-1]
	if last.Area.ID() != result.Closest.ID() {
		t.Fatalf("Route should end at the closest area")
	}
}

func TestAStarNilStart(t *testing.T) {
	areas := newTestGrid(2, 1)
	result := NewAStarPathfinder().FindPath(nil, areas.at(1, 0), core.Vector3D{}, distanceCost)
	if result.Closest != nil || len(result.Steps) != 0 {
		t.Fatalf("Expected empty result for nil start, got %+v", result)
	}
}

func TestAStarHeuristics(t *testing.T) {
	areas := newTestGrid(4, 4)
	pathfinder := NewAStarPathfinder()

	heuristics := map[string]core.HeuristicFunc{
		"Euclidean": EuclideanDistance,
		"Manhattan": ManhattanDistance,
		"Ground":    GroundDistance,
		"Octile":    OctileDistance,
	}

	for name, heuristic := range heuristics {
		t.Run(name, func(t *testing.T) {
			pathfinder.SetHeuristic(heuristic)

			start, goal := areas.at(0, 0), areas.at(3, 3)
			result := pathfinder.FindPath(start, goal, goal.Center(), distanceCost)
			if !result.ReachedGoal {
				t.Fatalf("Failed to reach goal with %s heuristic", name)
			}
			// 4-connected grid: any shortest route visits 7 areas
			if len(result.Steps) != 7 {
				t.Fatalf("Expected 7 steps with %s heuristic, got %d", name, len(result.Steps))
			}
		})
	}
}

func TestHeuristicByName(t *testing.T) {
	a, b := core.Vector3D{0, 0, 0}, core.Vector3D{3, 4, 12}
	tests := []struct {
		name string
		want float64
	}{
		{"", 13},
		{"euclidean", 13},
		{"ground", 5},
		{"manhattan", 7},
	}

	for _, tt := range tests {
		h, err := HeuristicByName(tt.name)
		if err != nil {
			t.Fatalf("HeuristicByName(%q) failed: %v", tt.name, err)
		}
		if got := h(a, b); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("Expected %v from %q, got %v", tt.want, tt.name, got)
		}
	}

	if _, err := HeuristicByName("dijkstra"); !errors.Is(err, ErrUnknownHeuristic) {
		t.Fatalf("Expected ErrUnknownHeuristic, got %v", err)
	}
}

func TestAStarMaxNodes(t *testing.T) {
	areas := newTestGrid(10, 1)
	pathfinder := NewAStarPathfinder()
	pathfinder.SetMaxNodes(3)

	start, goal := areas.at(0, 0), areas.at(9, 0)
	result := pathfinder.FindPath(start, goal, goal.Center(), distanceCost)
	if result.ReachedGoal {
		t.Fatalf("Search should stop before reaching the goal")
	}
	if result.Closest.ID() != areas.at(2, 0).ID() {
		t.Fatalf("Expected closest expanded area 2, got %d", result.Closest.ID())
	}
}

func BenchmarkAStarGrid(b *testing.B) {
	areas := newTestGrid(40, 40)
	pathfinder := NewAStarPathfinder()
	start, goal := areas.at(0, 0), areas.at(39, 39)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pathfinder.FindPath(start, goal, goal.Center(), distanceCost)
	}
}

// Helper functions

func distanceCost(to, from core.NavArea, dir core.NavDirection) float64 {
	if to.IsBlocked() {
		return -1
	}
	return to.Center().Sub(from.Center()).Len()
}

const testCell = 100.0

type testGrid struct {
	w, h  int
	areas []*testArea
}

func newTestGrid(w, h int) *testGrid {
	g := &testGrid{w: w, h: h}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.areas = append(g.areas, &testArea{id: core.AreaID(y*w + x), x: x, y: y, grid: g})
		}
	}
	return g
}

func (g *testGrid) at(x, y int) *testArea {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return nil
	}
	return g.areas[y*g.w+x]
}

type testArea struct {
	id      core.AreaID
	x, y    int
	blocked bool
	grid    *testGrid
}

func (a *testArea) ID() core.AreaID { return a.id }

func (a *testArea) Center() core.Vector3D {
	return core.Vector3D{(float64(a.x) + 0.5) * testCell, (float64(a.y) + 0.5) * testCell, 0}
}

func (a *testArea) Corner(c core.Corner) core.Vector3D { return a.Center() }
func (a *testArea) SizeX() float64                     { return testCell }
func (a *testArea) SizeY() float64                     { return testCell }
func (a *testArea) Z(pos core.Vector3D) float64        { return 0 }

func (a *testArea) Contains(pos core.Vector3D) bool {
	c := a.Center()
	return math.Abs(pos[0]-c[0]) <= testCell/2 && math.Abs(pos[1]-c[1]) <= testCell/2
}

func (a *testArea) ClosestPoint(pos core.Vector3D) core.Vector3D { return a.Center() }
func (a *testArea) IsBlocked() bool                             { return a.blocked }

func (a *testArea) Adjacent(dir core.NavDirection) []core.NavArea {
	var n *testArea
	switch dir {
	case core.North:
		n = a.grid.at(a.x, a.y-1)
	case core.East:
		n = a.grid.at(a.x+1, a.y)
	case core.South:
		n = a.grid.at(a.x, a.y+1)
	case core.West:
		n = a.grid.at(a.x-1, a.y)
	}
	if n == nil {
		return nil
	}
	return []core.NavArea{n}
}

func (a *testArea) IsConnected(other core.NavArea) bool   { return true }
func (a *testArea) IsContiguous(other core.NavArea) bool  { return true }
func (a *testArea) ConnectionHeightChange(core.NavArea) float64 { return 0 }

func (a *testArea) ComputeSemiPortal(other core.NavArea, dir core.NavDirection) (core.Vector3D, float64) {
	return a.Center(), testCell / 2
}
