package unitnav

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"unitnav/internal/core"
	"unitnav/internal/navigator"
	"unitnav/internal/navmesh"
)

func TestNewEngine(t *testing.T) {
	if _, err := NewEngine(nil, nil, nil); !errors.Is(err, ErrNilMesh) {
		t.Fatalf("Expected ErrNilMesh, got %v", err)
	}

	cfg := DefaultConfig()
	cfg.TickRate = 0
	if _, err := NewEngine(flatMesh(t), cfg, quietLogger()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}

	engine := newTestEngine(t, flatMesh(t))
	if engine.Now() != 0 {
		t.Fatalf("Expected a fresh clock, got %v", engine.Now())
	}
}

func TestUnitReachesGoal(t *testing.T) {
	engine := newTestEngine(t, flatMesh(t))
	events := &eventCounter{}

	unit, err := engine.AddUnit(NewUnit(NewVector3D(0, 0, 0), 16, 200), events)
	if err != nil {
		t.Fatalf("AddUnit failed: %v", err)
	}

	goal := NewVector3D(300, 0, 0)
	unit.Nav.SetGoal(goal, 10, 0)
	if err := engine.Run(100); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if events.counts[navigator.OnNavComplete] != 1 {
		t.Fatalf("Expected OnNavComplete once, got %d", events.counts[navigator.OnNavComplete])
	}
	if d := Distance(unit.Entity.Position, goal); d > 10 {
		t.Fatalf("Expected to stop within 10 of the goal, got %.2f", d)
	}

	stats := engine.GetStats()
	if stats.Ticks != 100 || stats.UnitCount != 1 || stats.Idle != 1 {
		t.Fatalf("Unexpected stats %+v", stats)
	}
	if math.Abs(stats.Time-5) > 1e-9 {
		t.Fatalf("Expected 5 simulated seconds, got %v", stats.Time)
	}
}

func TestUnitClimbsLedge(t *testing.T) {
	mesh, err := navmesh.FromSpecs([]navmesh.AreaSpec{
		{Min: [2]float64{-500, -200}, Max: [2]float64{0, 200}, Z: 0},
		{Min: [2]float64{0, -200}, Max: [2]float64{500, 200}, Z: 40},
	})
	if err != nil {
		t.Fatalf("FromSpecs failed: %v", err)
	}
	engine := newTestEngine(t, mesh)
	events := &eventCounter{}

	entity := NewUnit(NewVector3D(-200, 0, 0), 16, 200)
	entity.Traversal.MaxClimbHeight = 60
	unit, err := engine.AddUnit(entity, events)
	if err != nil {
		t.Fatalf("AddUnit failed: %v", err)
	}

	unit.Nav.SetGoal(NewVector3D(200, 0, 40), 10, 0)
	for i := 0; i < 200 && events.counts[navigator.OnNavComplete] == 0; i++ {
		if err := engine.Tick(); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
	}

	if events.counts[navigator.OnStartClimb] != 1 {
		t.Fatalf("Expected one climb, got %d", events.counts[navigator.OnStartClimb])
	}
	if events.counts[navigator.OnNavComplete] != 1 {
		t.Fatalf("Expected to arrive on the ledge, stopped at %v", entity.Position)
	}
	if entity.Position[2] != 40 {
		t.Fatalf("Expected to stand at height 40, got %v", entity.Position)
	}
}

func TestRemovedTargetFailsFollower(t *testing.T) {
	engine := newTestEngine(t, flatMesh(t))
	events := &eventCounter{}

	follower, err := engine.AddUnit(NewUnit(NewVector3D(0, 0, 0), 16, 200), events)
	if err != nil {
		t.Fatalf("AddUnit failed: %v", err)
	}
	target, err := engine.AddUnit(NewUnit(NewVector3D(600, 0, 0), 16, 200), nil)
	if err != nil {
		t.Fatalf("AddUnit failed: %v", err)
	}

	if err := follower.Nav.SetGoalTarget(target.Entity, 0, 0); err != nil {
		t.Fatalf("SetGoalTarget failed: %v", err)
	}
	if err := engine.Run(3); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := engine.RemoveEntity(target.Entity.ID); err != nil {
		t.Fatalf("RemoveEntity failed: %v", err)
	}
	if _, err := engine.Unit(target.Entity.ID); !errors.Is(err, ErrUnitNotFound) {
		t.Fatalf("Expected ErrUnitNotFound, got %v", err)
	}
	if err := engine.Run(3); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if events.counts[navigator.OnNavFailed] != 1 {
		t.Fatalf("Expected OnNavFailed once, got %d", events.counts[navigator.OnNavFailed])
	}
}

func TestFrame(t *testing.T) {
	engine := newTestEngine(t, flatMesh(t))

	unit, err := engine.AddUnit(NewUnit(NewVector3D(10, 20, 0), 16, 200), nil)
	if err != nil {
		t.Fatalf("AddUnit failed: %v", err)
	}
	obstacle, err := engine.AddObstacle(NewVector2D(300, 300), 40, 20)
	if err != nil {
		t.Fatalf("AddObstacle failed: %v", err)
	}
	unit.Nav.SetGoal(NewVector3D(-400, 20, 0), 10, 0)
	if err := engine.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	frame := engine.Frame()
	if frame.Tick != 1 || len(frame.Units) != 1 || len(frame.Obstacles) != 1 || len(frame.Areas) != 1 {
		t.Fatalf("Unexpected frame shape %+v", frame)
	}
	uf := frame.Units[0]
	if uf.ID != uint64(unit.Entity.ID) || uf.Goal != "position" || uf.Status != "has_goal" {
		t.Fatalf("Unexpected unit frame %+v", uf)
	}
	if len(uf.Waypoints) == 0 || uf.GoalX != -400 {
		t.Fatalf("Expected the route in the frame, got %+v", uf)
	}
	of := frame.Obstacles[0]
	if of.ID != uint64(obstacle.ID) || of.MinX != 280 || of.MaxY != 310 {
		t.Fatalf("Unexpected obstacle frame %+v", of)
	}
}

func TestSetAreaBlocked(t *testing.T) {
	engine := newTestEngine(t, flatMesh(t))

	if err := engine.SetAreaBlocked(99, true); err == nil {
		t.Fatalf("Expected an error for an unknown area")
	}
	if err := engine.SetAreaBlocked(1, true); err != nil {
		t.Fatalf("SetAreaBlocked failed: %v", err)
	}
	if !engine.Frame().Areas[0].Blocked {
		t.Fatalf("Expected the area to be reported blocked")
	}
}

func TestBatchAddUnits(t *testing.T) {
	engine := newTestEngine(t, flatMesh(t))

	entities := []*core.Entity{
		NewUnit(NewVector3D(0, 0, 0), 16, 200),
		NewUnit(NewVector3D(100, 0, 0), 16, 200),
		nil,
	}
	units, err := engine.BatchAddUnits(entities, nil)
	if err == nil {
		t.Fatalf("Expected an error for the nil entity")
	}
	if len(units) != 2 || len(engine.Units()) != 2 {
		t.Fatalf("Expected two units added, got %d", len(units))
	}
}

// Helper functions

type eventCounter struct {
	counts map[string]int
}

func (c *eventCounter) DispatchEvent(name string, args ...any) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[name]++
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func flatMesh(t *testing.T) *navmesh.Mesh {
	t.Helper()
	mesh, err := navmesh.FromSpecs([]navmesh.AreaSpec{{Min: [2]float64{-1000, -1000}, Max: [2]float64{1000, 1000}}})
	if err != nil {
		t.Fatalf("FromSpecs failed: %v", err)
	}
	return mesh
}

func newTestEngine(t *testing.T, mesh *navmesh.Mesh) *Engine {
	t.Helper()
	engine, err := NewEngine(mesh, nil, quietLogger())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}
