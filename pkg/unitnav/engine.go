package unitnav

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"unitnav/internal/core"
	"unitnav/internal/debugview"
	"unitnav/internal/density"
	"unitnav/internal/faction"
	"unitnav/internal/fow"
	"unitnav/internal/locomotion"
	"unitnav/internal/navigator"
	"unitnav/internal/navmesh"
	"unitnav/internal/pathfinding"
	"unitnav/internal/world"
)

var (
	ErrNilMesh      = errors.New("navigation mesh cannot be nil")
	ErrUnitNotFound = errors.New("unit not found")
)

// Unit is an entity steered by a navigator
type Unit struct {
	Entity *core.Entity
	Nav    *navigator.Navigator

	cmd    core.MoveCommand
	events navigator.EventSink
	climb  *climbRequest
}

type climbRequest struct {
	height float64
	dir    core.Vector3D
}

// Command returns the movement written during the last tick
func (u *Unit) Command() core.MoveCommand {
	return u.cmd
}

// DispatchEvent handles climbs and forwards every event
func (u *Unit) DispatchEvent(name string, args ...any) {
	if name == navigator.OnStartClimb && len(args) == 2 {
		height, _ := args[0].(float64)
		dir, _ := args[1].(core.Vector3D)
		u.climb = &climbRequest{height: height, dir: dir}
	}
	if u.events != nil {
		u.events.DispatchEvent(name, args...)
	}
}

// Engine runs navigators over a shared scene. Tick advances every unit
// from the calling goroutine; the query methods are safe to call
// concurrently with it.
type Engine struct {
	mu sync.RWMutex

	config    *Config
	logger    *log.Logger
	clock     *SimClock
	mesh      *navmesh.Mesh
	scene     *world.Scene
	fog       *fow.Grid
	relations *faction.Relations
	cache     *navigator.PathCache
	mover     *locomotion.Mover

	units map[core.EntityID]*Unit
	ticks uint64
}

// NewEngine creates an engine over mesh. A nil config uses DefaultConfig
// and a nil logger uses log.Default.
func NewEngine(mesh *navmesh.Mesh, config *Config, logger *log.Logger) (*Engine, error) {
	if mesh == nil {
		return nil, ErrNilMesh
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	if level, err := log.ParseLevel(config.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	heuristic, err := pathfinding.HeuristicByName(config.Heuristic)
	if err != nil {
		return nil, err
	}
	pathfinder := pathfinding.NewAStarPathfinder()
	pathfinder.SetHeuristic(heuristic)
	pathfinder.SetMaxNodes(config.MaxSearchNodes)
	mesh.SetPathfinder(pathfinder)

	bounds := config.SceneBounds.AABB()
	scene := world.NewScene(bounds, mesh)

	fog := fow.NewGrid(bounds, fogCellSize(config))
	fog.SetEnabled(config.FogOfWar)

	var cache *navigator.PathCache
	if config.PathCacheSize > 0 {
		cache = navigator.NewPathCache(config.PathCacheSize)
	}

	return &Engine{
		config:    config,
		logger:    logger,
		clock:     &SimClock{},
		mesh:      mesh,
		scene:     scene,
		fog:       fog,
		relations: faction.NewRelations(),
		cache:     cache,
		mover:     locomotion.NewMover(scene, mesh, config.TurnRate, logger),
		units:     make(map[core.EntityID]*Unit),
	}, nil
}

// Unit Management

// AddUnit adds entity to the scene and gives it a navigator. events may be
// nil; it receives the navigator's goal events from inside Tick and must
// not call back into the engine, only into the unit's navigator.
func (e *Engine) AddUnit(entity *core.Entity, events navigator.EventSink) (*Unit, error) {
	if entity == nil {
		return nil, world.ErrNilEntity
	}
	if entity.Type == core.EntityTypeUnknown {
		entity.Type = core.EntityTypeUnit
	}
	entity.Position = e.scene.TraceGround(entity.Position)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.scene.AddEntity(entity); err != nil {
		return nil, err
	}

	unit := &Unit{Entity: entity, events: events}
	nav, err := navigator.New(entity, navigator.Services{
		World:     e.scene,
		Mesh:      e.mesh,
		Clock:     e.clock,
		Density:   density.NewField(),
		Vision:    e.fog,
		Relations: e.relations,
		Cache:     e.cache,
		Events:    unit,
		Logger:    e.logger,
	}, e.config.Navigator)
	if err != nil {
		if rmErr := e.scene.RemoveEntity(entity.ID); rmErr != nil {
			e.logger.Error("rollback unit", "unit", entity.ID, "err", rmErr)
		}
		return nil, fmt.Errorf("add unit: %w", err)
	}
	unit.Nav = nav
	e.units[entity.ID] = unit

	e.logger.Debug("unit added", "unit", entity.ID, "pos", entity.Position)
	return unit, nil
}

// AddObstacle adds a static box obstacle centered at center
func (e *Engine) AddObstacle(center core.Vector2D, width, height float64) (*core.Entity, error) {
	obstacle := NewObstacle(center, width, height)
	obstacle.Position = e.scene.TraceGround(obstacle.Position)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.scene.AddEntity(obstacle); err != nil {
		return nil, err
	}
	return obstacle, nil
}

// RemoveEntity removes a unit or obstacle. Navigators targeting it fail
// their goal on the next tick.
func (e *Engine) RemoveEntity(id core.EntityID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.scene.RemoveEntity(id); err != nil {
		return err
	}
	delete(e.units, id)
	return nil
}

// Unit returns the unit with the given id
func (e *Engine) Unit(id core.EntityID) (*Unit, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	u, ok := e.units[id]
	if !ok {
		return nil, fmt.Errorf("unit %d: %w", id, ErrUnitNotFound)
	}
	return u, nil
}

// Units returns all units ordered by id
func (e *Engine) Units() []*Unit {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.unitsLocked()
}

// Simulation

// Tick advances the simulation by one tick interval. Units are updated in
// id order so runs are reproducible.
func (e *Engine) Tick() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	dt := e.config.TickInterval()
	if e.config.FogOfWar {
		e.fog.Update(e.scene.EntitiesByType(core.EntityTypeUnit))
	}

	var errs []error
	for _, u := range e.unitsLocked() {
		if err := e.stepUnit(u, dt); err != nil {
			errs = append(errs, err)
		}
	}

	e.clock.Advance(dt)
	e.ticks++
	return errors.Join(errs...)
}

// Run ticks n times and stops at the first error
func (e *Engine) Run(n int) error {
	for i := 0; i < n; i++ {
		if err := e.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// stepUnit runs one navigator update and applies its movement
func (e *Engine) stepUnit(u *Unit, dt float64) error {
	agent := u.Entity
	if agent.Dead || agent.Static {
		return nil
	}

	u.cmd.MaxSpeed = agent.MaxSpeed
	u.cmd.Interval = dt
	u.cmd.ViewAngles = core.Angles{Yaw: agent.Yaw}

	u.Nav.Update(&u.cmd)

	if c := u.climb; c != nil {
		u.climb = nil
		u.cmd.ClearBlocker()
		return e.mover.Climb(agent, c.height, c.dir)
	}
	return e.mover.Apply(agent, &u.cmd, dt)
}

// Queries

// Now returns the simulation time
func (e *Engine) Now() float64 {
	return e.clock.Now()
}

// Clock returns the simulation clock
func (e *Engine) Clock() core.Clock {
	return e.clock
}

// Scene returns the entity registry
func (e *Engine) Scene() *world.Scene {
	return e.scene
}

// Mesh returns the navigation mesh
func (e *Engine) Mesh() *navmesh.Mesh {
	return e.mesh
}

// Relations returns the player relationship matrix
func (e *Engine) Relations() *faction.Relations {
	return e.relations
}

// Fog returns the fog of war grid
func (e *Engine) Fog() *fow.Grid {
	return e.fog
}

// GetConfig returns the engine configuration
func (e *Engine) GetConfig() *Config {
	return e.config
}

// SetAreaBlocked blocks or unblocks a navigation area. Routes are rebuilt
// as units notice the change.
func (e *Engine) SetAreaBlocked(id core.AreaID, blocked bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.mesh.SetBlocked(id, blocked); err != nil {
		return err
	}
	if e.cache != nil {
		e.cache.Clear()
	}
	return nil
}

// Frame captures the current state for debug views
func (e *Engine) Frame() debugview.Frame {
	e.mu.RLock()
	defer e.mu.RUnlock()

	frame := debugview.Frame{
		Tick: e.ticks,
		Time: e.clock.Now(),
	}

	for _, u := range e.unitsLocked() {
		info := u.Nav.Debug()
		uf := debugview.UnitFrame{
			ID:         uint64(u.Entity.ID),
			Player:     u.Entity.Player,
			X:          u.Entity.Position[0],
			Y:          u.Entity.Position[1],
			Z:          u.Entity.Position[2],
			Yaw:        u.Entity.Yaw,
			Radius:     u.Entity.Radius,
			Goal:       info.GoalType.String(),
			Status:     info.Status.String(),
			GoalX:      info.GoalPos[0],
			GoalY:      info.GoalPos[1],
			Density:    info.BestDensity,
			Discomfort: info.DiscomfortWeight,
		}
		for _, wp := range info.Waypoints {
			uf.Waypoints = append(uf.Waypoints, [2]float64{wp.Pos[0], wp.Pos[1]})
		}
		frame.Units = append(frame.Units, uf)
	}

	for _, o := range e.scene.EntitiesByType(core.EntityTypeObstacle) {
		b := o.Bounds()
		frame.Obstacles = append(frame.Obstacles, debugview.ObstacleFrame{
			ID:   uint64(o.ID),
			MinX: b.Min[0],
			MinY: b.Min[1],
			MaxX: b.Max[0],
			MaxY: b.Max[1],
		})
	}

	for _, a := range e.mesh.Areas() {
		b := a.Bounds()
		frame.Areas = append(frame.Areas, debugview.AreaFrame{
			ID:      uint32(a.ID()),
			MinX:    b.Min[0],
			MinY:    b.Min[1],
			MaxX:    b.Max[0],
			MaxY:    b.Max[1],
			Z:       a.Center()[2],
			Blocked: a.IsBlocked(),
		})
	}
	return frame
}

// GetStats returns simulation statistics
func (e *Engine) GetStats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := Stats{
		Ticks:         e.ticks,
		Time:          e.clock.Now(),
		EntityCount:   e.scene.Count(),
		UnitCount:     len(e.units),
		ObstacleCount: e.scene.CountByType(core.EntityTypeObstacle),
		AreaCount:     len(e.mesh.Areas()),
		SceneBounds:   e.scene.Bounds(),
	}
	for _, u := range e.units {
		switch u.Nav.LastGoalStatus() {
		case navigator.StatusNoGoal:
			stats.Idle++
		case navigator.StatusAtGoal:
			stats.AtGoal++
		case navigator.StatusFailed:
			stats.Failed++
		default:
			stats.Moving++
		}
	}
	if e.cache != nil {
		stats.Cache = e.cache.Stats()
	}
	return stats
}

// Stats represents simulation statistics
type Stats struct {
	Ticks         uint64
	Time          float64
	EntityCount   int
	UnitCount     int
	ObstacleCount int
	AreaCount     int
	Idle          int
	Moving        int
	AtGoal        int
	Failed        int
	Cache         navigator.CacheStats
	SceneBounds   core.AABB
}

// Batch Operations

// BatchAddUnits adds several units, stopping at the first failure
func (e *Engine) BatchAddUnits(entities []*core.Entity, events navigator.EventSink) ([]*Unit, error) {
	units := make([]*Unit, 0, len(entities))
	for _, entity := range entities {
		u, err := e.AddUnit(entity, events)
		if err != nil {
			return units, fmt.Errorf("failed to add unit: %w", err)
		}
		units = append(units, u)
	}
	return units, nil
}

// Helper functions

func (e *Engine) unitsLocked() []*Unit {
	out := make([]*Unit, 0, len(e.units))
	for _, u := range e.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entity.ID < out[j].Entity.ID })
	return out
}

func fogCellSize(c *Config) float64 {
	if c.FogCellSize > 0 {
		return c.FogCellSize
	}
	return DefaultConfig().FogCellSize
}
