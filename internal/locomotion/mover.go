package locomotion

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"unitnav/internal/core"
)

const (
	// contactSkin keeps a swept hull from ending exactly on the surface it hit
	contactSkin = 0.01
	// ledgeReach is how many radii ahead a climb looks for its ledge
	ledgeReach = 8
)

var ErrNilEntity = errors.New("entity cannot be nil")

// Scene is the world a mover pushes entities through
type Scene interface {
	core.World
	UpdateEntity(entity *core.Entity) error
}

// Mover turns movement commands into entity motion. Moves are swept against
// obstacles and solid units, slide once along what they hit and never leave
// the navigation mesh.
type Mover struct {
	scene    Scene
	mesh     core.NavMesh
	logger   *log.Logger
	turnRate float64
}

// NewMover creates a mover. turnRate is in degrees per second; zero turns
// instantly. mesh may be nil, in which case entities may leave the mesh.
func NewMover(scene Scene, mesh core.NavMesh, turnRate float64, logger *log.Logger) *Mover {
	if logger == nil {
		logger = log.Default()
	}
	return &Mover{
		scene:    scene,
		mesh:     mesh,
		logger:   logger,
		turnRate: turnRate,
	}
}

// Apply moves e by cmd for dt seconds. The blocker fields of cmd are
// replaced by whatever stopped this move.
func (m *Mover) Apply(e *core.Entity, cmd *core.MoveCommand, dt float64) error {
	if e == nil {
		return ErrNilEntity
	}
	cmd.ClearBlocker()

	wish := WorldVelocity(cmd.ForwardMove, cmd.SideMove, cmd.ViewAngles.Yaw)
	if speed := wish.Len(); cmd.MaxSpeed > 0 && speed > cmd.MaxSpeed {
		wish = wish.Mul(cmd.MaxSpeed / speed)
	}

	pos := e.Position
	if !e.Static && dt > 0 && wish != (core.Vector3D{}) {
		pos = m.sweep(e, cmd, pos, wish.Mul(dt))
	}

	if dt > 0 {
		e.Velocity = pos.Sub(e.Position).Mul(1 / dt)
		e.Velocity[2] = 0
	}
	e.Position = pos
	e.Yaw = m.turn(e.Yaw, cmd.IdealViewAngles.Yaw, dt)

	if err := m.scene.UpdateEntity(e); err != nil {
		return fmt.Errorf("apply move to %d: %w", e.ID, err)
	}
	return nil
}

// Climb lifts e by height and steps it over the ledge along dir
func (m *Mover) Climb(e *core.Entity, height float64, dir core.Vector3D) error {
	if e == nil {
		return ErrNilEntity
	}

	dir[2] = 0
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}

	pos := e.Position.Add(dir.Mul(e.Radius))
	pos[2] += height
	if m.mesh != nil {
		landing, ok := m.ledge(e, height, dir)
		if !ok {
			m.logger.Warn("no ledge to climb onto", "unit", e.ID, "height", height, "dir", dir)
			return nil
		}
		pos = landing
	}

	m.logger.Debug("climb", "unit", e.ID, "height", height, "to", pos)
	e.Position = pos
	if err := m.scene.UpdateEntity(e); err != nil {
		return fmt.Errorf("climb %d: %w", e.ID, err)
	}
	return nil
}

// ledge looks ahead along dir for ground about height above e
func (m *Mover) ledge(e *core.Entity, height float64, dir core.Vector3D) (core.Vector3D, bool) {
	step := math.Max(e.Radius/2, 1)
	reach := math.Max(e.Radius*ledgeReach, step)
	for d := e.Radius; d <= reach; d += step {
		p := e.Position.Add(dir.Mul(d))
		p[2] += height
		area := m.mesh.AreaAt(p, math.Abs(height)/2)
		if area == nil || area.IsBlocked() {
			continue
		}
		p[2] = area.Z(p)
		return p, true
	}
	return core.Vector3D{}, false
}

// sweep moves from pos by delta, sliding along the first thing hit
func (m *Mover) sweep(e *core.Entity, cmd *core.MoveCommand, pos, delta core.Vector3D) core.Vector3D {
	for attempt := 0; attempt < 2; attempt++ {
		length := delta.Len()
		if length == 0 {
			break
		}
		end := pos.Add(delta)
		tr := m.scene.TraceHull(pos, end, e.Radius, core.MaskWorldAndUnits, e.ID)

		next := tr.EndPos
		if tr.Hit() {
			dir := delta.Mul(1 / length)
			back := math.Min(contactSkin, tr.Fraction*length)
			next = next.Sub(dir.Mul(back))

			if cmd.Blocker == 0 {
				cmd.Blocker = tr.Entity.ID
				cmd.BlockerHitPos = next
				cmd.BlockerDir = dir
				cmd.BlockedWorld = tr.HitWorld()
			}
		}

		ground, ok := m.ground(next)
		if !ok {
			break
		}
		pos = ground
		if !tr.Hit() {
			break
		}

		// Slide the rest of the move along the contact plane
		rest := delta.Mul(1 - tr.Fraction)
		n := tr.Normal
		delta = rest.Sub(n.Mul(rest.Dot(n)))
		delta[2] = 0
	}
	return pos
}

// ground drops pos onto the mesh. It fails when pos is off the mesh.
func (m *Mover) ground(pos core.Vector3D) (core.Vector3D, bool) {
	if m.mesh == nil {
		return m.scene.TraceGround(pos), true
	}
	area := m.mesh.AreaAt(pos, math.Inf(1))
	if area == nil || area.IsBlocked() {
		return pos, false
	}
	pos[2] = area.Z(pos)
	return pos, true
}

// turn rotates yaw toward ideal by at most the turn rate
func (m *Mover) turn(yaw, ideal, dt float64) float64 {
	diff := math.Mod(ideal-yaw+540, 360) - 180
	if m.turnRate > 0 {
		limit := m.turnRate * dt
		diff = mgl64.Clamp(diff, -limit, limit)
	}
	return math.Mod(yaw+diff+360, 360)
}

// WorldVelocity converts forward and side speeds relative to a view yaw
// in degrees into a ground velocity. Positive side speed is to the right.
func WorldVelocity(forward, side, yaw float64) core.Vector3D {
	rad := mgl64.DegToRad(yaw)
	sin, cos := math.Sincos(rad)
	return core.Vector3D{
		forward*cos + side*sin,
		forward*sin - side*cos,
		0,
	}
}
