package unitnav

import (
	"math"
	"math/rand"
	"testing"

	"unitnav/internal/core"
	"unitnav/internal/navigator"
)

func TestYawTo(t *testing.T) {
	tests := []struct {
		to   core.Vector3D
		want float64
	}{
		{NewVector3D(10, 0, 0), 0},
		{NewVector3D(0, 10, 0), 90},
		{NewVector3D(-10, 0, 0), 180},
		{NewVector3D(0, -10, 0), 270},
		{NewVector3D(0, 0, 5), 0},
	}

	for _, tt := range tests {
		if got := YawTo(core.Vector3D{}, tt.to); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("Expected yaw %v toward %v, got %v", tt.want, tt.to, got)
		}
	}
}

func TestPathLength(t *testing.T) {
	waypoints := []navigator.Waypoint{
		{Pos: NewVector3D(30, 0, 0)},
		{Pos: NewVector3D(30, 40, 10)},
	}
	if got := PathLength(core.Vector3D{}, waypoints); got != 70 {
		t.Fatalf("Expected length 70, got %v", got)
	}
	if got := PathLength(core.Vector3D{}, nil); got != 0 {
		t.Fatalf("Expected length 0 for no waypoints, got %v", got)
	}
}

func TestNewObstacle(t *testing.T) {
	o := NewObstacle(NewVector2D(10, 10), 20, 40)
	b := o.Bounds()
	if b != AABBFromCenterSize(NewVector2D(10, 10), 20, 40) {
		t.Fatalf("Unexpected bounds %+v", b)
	}
	if !o.Static || o.Type != core.EntityTypeObstacle {
		t.Fatalf("Expected a static obstacle, got %+v", o)
	}
}

func TestRandomPositions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bounds := NewAABB(-50, -50, 50, 50)
	center := NewVector3D(100, 100, 8)

	for i := 0; i < 100; i++ {
		if p := RandomPosition(rng, bounds); !bounds.Contains(p.Vec2()) {
			t.Fatalf("Position %v outside %+v", p, bounds)
		}
		p := RandomPositionInCircle(rng, center, 25)
		if Distance(p, center) > 25 || p[2] != 8 {
			t.Fatalf("Position %v outside the circle", p)
		}
	}
}
