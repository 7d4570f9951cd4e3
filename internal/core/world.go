package core

// TraceMask selects what a trace collides with
type TraceMask uint8

const (
	// MaskWorld hits obstacles only
	MaskWorld TraceMask = iota
	// MaskWorldAndUnits hits obstacles and solid entities
	MaskWorldAndUnits
)

// TraceResult describes where a trace stopped
type TraceResult struct {
	Fraction float64 // 1 when nothing was hit
	EndPos   Vector3D
	Normal   Vector3D
	Entity   *Entity // nil when the trace is clear
}

// Hit reports whether the trace was stopped
func (t TraceResult) Hit() bool {
	return t.Fraction < 1
}

// HitWorld reports whether the trace was stopped by world geometry
func (t TraceResult) HitWorld() bool {
	return t.Entity != nil && t.Entity.Type == EntityTypeObstacle
}

// World is the spatial query service
type World interface {
	Entity(id EntityID) (*Entity, bool)
	EntitiesInSphere(center Vector3D, radius float64) []*Entity
	// TraceHull sweeps a cylinder of the given radius from start to end
	TraceHull(start, end Vector3D, radius float64, mask TraceMask, ignore EntityID) TraceResult
	TraceLine(start, end Vector3D, mask TraceMask, ignore EntityID) TraceResult
	// TraceGround returns the ground position below pos
	TraceGround(pos Vector3D) Vector3D
}

// DensityField returns the congestion an entity contributes at a position
type DensityField interface {
	Density(pos Vector3D, e *Entity) float64
}

// Vision answers fog of war queries
type Vision interface {
	// PointInFOW reports whether pos is hidden from player
	PointInFOW(pos Vector3D, player int) bool
}

// Disposition is how one player regards another
type Disposition uint8

const (
	DispositionError Disposition = iota
	DispositionHate
	DispositionFear
	DispositionLike
	DispositionNeutral
)

// Relations answers relationship queries between entities
type Relations interface {
	Relation(a, b *Entity) Disposition
}

// Clock returns the simulation time in seconds
type Clock interface {
	Now() float64
}

// Angles holds pitch, yaw and roll in degrees
type Angles struct {
	Pitch, Yaw, Roll float64
}

// MoveCommand is written by the navigator and consumed by locomotion.
// MaxSpeed, Interval, StopDistance, ViewAngles and the blocker fields are
// owned by the caller.
type MoveCommand struct {
	ForwardMove     float64
	SideMove        float64
	IdealViewAngles Angles

	ViewAngles   Angles
	MaxSpeed     float64
	Interval     float64
	StopDistance float64

	Blocker       EntityID // zero when nothing blocked the last move
	BlockerHitPos Vector3D
	BlockerDir    Vector3D
	BlockedWorld  bool
}

// Clear zeroes the movement output
func (c *MoveCommand) Clear() {
	c.ForwardMove = 0
	c.SideMove = 0
}

// ClearBlocker forgets the last collision
func (c *MoveCommand) ClearBlocker() {
	c.Blocker = 0
	c.BlockerHitPos = Vector3D{}
	c.BlockerDir = Vector3D{}
	c.BlockedWorld = false
}
