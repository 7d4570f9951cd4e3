package navigator

import (
	"errors"
	"testing"

	"unitnav/internal/core"
)

func TestPathAdvance(t *testing.T) {
	p := NewPath()
	p.SetWaypoints(testWaypoints(4))

	for i := 0; i < 3; i++ {
		if p.CurWaypointIsGoal() {
			t.Fatalf("Expected goal only after 3 advances, reached after %d", i)
		}
		if err := p.Advance(); err != nil {
			t.Fatalf("Advance %d failed: %v", i, err)
		}
	}

	if !p.CurWaypointIsGoal() {
		t.Fatalf("Expected current waypoint to be the goal")
	}

	version := p.Version()
	if err := p.Advance(); !errors.Is(err, ErrAdvancePastGoal) {
		t.Fatalf("Expected ErrAdvancePastGoal, got %v", err)
	}
	if p.Version() != version || p.Len() != 1 {
		t.Fatalf("Rejected advance should leave the path unchanged")
	}
}

func TestPathEmpty(t *testing.T) {
	p := NewPath()
	if p.HasWaypoints() || p.CurWaypointIsGoal() {
		t.Fatalf("Empty path should have no waypoints and no goal")
	}
	if _, ok := p.CurWaypoint(); ok {
		t.Fatalf("Expected no current waypoint")
	}
	if err := p.Advance(); !errors.Is(err, ErrAdvancePastGoal) {
		t.Fatalf("Expected ErrAdvancePastGoal on empty path, got %v", err)
	}
}

func TestPathAdvanceTo(t *testing.T) {
	p := NewPath()
	p.SetWaypoints(testWaypoints(5))

	if err := p.AdvanceTo(3); err != nil {
		t.Fatalf("AdvanceTo failed: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("Expected 2 remaining waypoints, got %d", p.Len())
	}
	if err := p.AdvanceTo(1); err == nil {
		t.Fatalf("Expected error moving backwards")
	}
	if err := p.AdvanceTo(5); err == nil {
		t.Fatalf("Expected error moving past the goal")
	}
}

func TestPathSetGoalPos(t *testing.T) {
	p := NewPath()
	p.SetWaypoints(testWaypoints(3))

	goal := core.Vector3D{500, 250, 10}
	p.SetGoalPos(goal)

	last, _ := p.Goal()
	if last.Pos != goal || p.GoalPos != goal {
		t.Fatalf("Expected goal waypoint at %v, got %v", goal, last.Pos)
	}
}

func TestPathCloneIsIndependent(t *testing.T) {
	p := NewPath()
	p.SetWaypoints(testWaypoints(3))

	c := p.clone()
	c.SetGoalPos(core.Vector3D{1, 2, 3})
	_ = c.Advance()

	last, _ := p.Goal()
	if last.Pos == (core.Vector3D{1, 2, 3}) || p.Cursor() != 0 {
		t.Fatalf("Clone should not alias the original path")
	}
}

// Helper functions

func testWaypoints(n int) []Waypoint {
	out := make([]Waypoint, n)
	for i := range out {
		out[i] = Waypoint{Pos: core.Vector3D{float64(i) * 100, 0, 0}, NavDir: core.DirNone}
	}
	return out
}
