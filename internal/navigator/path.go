package navigator

import (
	"fmt"

	"unitnav/internal/core"
)

// Waypoint is one node of a built route
type Waypoint struct {
	Pos core.Vector3D
	// Arrival tolerance along x and y, aligned with the portal the waypoint sits on
	ToleranceX float64
	ToleranceY float64
	// AreaSlope is the unit direction of the portal edge
	AreaSlope core.Vector3D
	NavDir    core.NavDirection
	Special   SpecialStatus
	// Area is the area the waypoint's portal leads into, zero when there is none
	Area core.AreaID
}

// IsSpecial reports whether the waypoint is part of a climb or drop pair
func (w Waypoint) IsSpecial() bool {
	return w.Special != SpecialNone
}

// Path is the route a navigator follows plus the goal it leads to.
// Waypoints are stored in order and consumed by moving a cursor.
type Path struct {
	waypoints []Waypoint
	cursor    int
	version   uint64

	GoalType          GoalType
	GoalFlags         GoalFlags
	GoalPos           core.Vector3D
	GoalTolerance     float64
	WaypointTolerance float64
	MinRange          float64
	MaxRange          float64
	Target            core.EntityID
	AvoidEnemies      bool
}

// NewPath creates an empty path with no goal
func NewPath() *Path {
	return &Path{GoalType: GoalNone}
}

// SetWaypoints replaces the route and rewinds the cursor
func (p *Path) SetWaypoints(waypoints []Waypoint) {
	p.waypoints = append(p.waypoints[:0:0], waypoints...)
	p.cursor = 0
	p.version++
}

// ClearWaypoints drops the route
func (p *Path) ClearWaypoints() {
	p.SetWaypoints(nil)
}

// HasWaypoints reports whether any waypoint remains
func (p *Path) HasWaypoints() bool {
	return p.cursor < len(p.waypoints)
}

// Len returns the number of remaining waypoints including the current one
func (p *Path) Len() int {
	if !p.HasWaypoints() {
		return 0
	}
	return len(p.waypoints) - p.cursor
}

// Cursor returns the index of the current waypoint
func (p *Path) Cursor() int {
	return p.cursor
}

// Version changes every time the route is replaced or advanced
func (p *Path) Version() uint64 {
	return p.version
}

// CurWaypoint returns the waypoint being walked to
func (p *Path) CurWaypoint() (Waypoint, bool) {
	if !p.HasWaypoints() {
		return Waypoint{}, false
	}
	return p.waypoints[p.cursor], true
}

// CurWaypointIsGoal reports whether the current waypoint is the last one
func (p *Path) CurWaypointIsGoal() bool {
	return p.HasWaypoints() && p.cursor == len(p.waypoints)-1
}

// Goal returns the last waypoint
func (p *Path) Goal() (Waypoint, bool) {
	if len(p.waypoints) == 0 {
		return Waypoint{}, false
	}
	return p.waypoints[len(p.waypoints)-1], true
}

// Waypoints returns a copy of the remaining waypoints
func (p *Path) Waypoints() []Waypoint {
	if !p.HasWaypoints() {
		return nil
	}
	out := make([]Waypoint, len(p.waypoints)-p.cursor)
	copy(out, p.waypoints[p.cursor:])
	return out
}

// Advance moves to the next waypoint
func (p *Path) Advance() error {
	if !p.HasWaypoints() || p.CurWaypointIsGoal() {
		return ErrAdvancePastGoal
	}
	p.cursor++
	p.version++
	return nil
}

// AdvanceTo makes the waypoint at index the current one. Moving backwards
// or past the goal is rejected.
func (p *Path) AdvanceTo(index int) error {
	if index < p.cursor || index >= len(p.waypoints) {
		return fmt.Errorf("advance to %d (cursor %d, len %d): %w", index, p.cursor, len(p.waypoints), ErrAdvancePastGoal)
	}
	if index != p.cursor {
		p.cursor = index
		p.version++
	}
	return nil
}

// SetGoalPos moves the goal and the final waypoint
func (p *Path) SetGoalPos(pos core.Vector3D) {
	p.GoalPos = pos
	if n := len(p.waypoints); n > 0 {
		p.waypoints[n-1].Pos = pos
	}
}

// setGoalWaypointPos moves only the final waypoint
func (p *Path) setGoalWaypointPos(pos core.Vector3D) {
	if n := len(p.waypoints); n > 0 {
		p.waypoints[n-1].Pos = pos
	}
}

// waypointAt returns the waypoint at an absolute index
func (p *Path) waypointAt(i int) (Waypoint, bool) {
	if i < 0 || i >= len(p.waypoints) {
		return Waypoint{}, false
	}
	return p.waypoints[i], true
}

// lastIndex returns the index of the goal waypoint
func (p *Path) lastIndex() int {
	return len(p.waypoints) - 1
}

// clone returns a deep copy
func (p *Path) clone() *Path {
	c := *p
	c.waypoints = append([]Waypoint(nil), p.waypoints...)
	return &c
}
