package navigator

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"unitnav/internal/core"
)

// maxSamples is the most test directions evaluated per tick
const maxSamples = 8

type sample struct {
	dir core.Vector3D
	pos core.Vector3D
}

type considerEntry struct {
	entity  *core.Entity
	density [maxSamples]float64
}

type seed struct {
	pos     core.Vector2D
	created float64
}

type reactiveMemo struct {
	valid   bool
	origin  core.Vector3D
	now     float64
	version uint64
	blocked bool
}

// Navigator steers one agent. It owns the agent's path and writes a movement
// command every tick. A navigator is driven from a single goroutine.
type Navigator struct {
	id     uuid.UUID
	agent  *core.Entity
	cfg    *Config
	svc    Services
	logger *log.Logger

	path    *Path
	pathGen uint64

	lastGoalStatus GoalStatus
	forcedVelocity core.Vector3D
	noAvoid        bool
	avoidEnemies   bool
	pathBlocked    bool

	lastWishVelocity   core.Vector3D
	lastPathRecompute  float64
	nextPositionCheck  float64
	nextReactiveUpdate float64
	lastPosition       core.Vector3D

	lastBestDensity  float64
	lastBestCost     float64
	lastBestDist     float64
	discomfortWeight float64

	consider []considerEntry
	samples  []sample
	seeds    []seed
	reactive reactiveMemo

	climbHeight float64
	climbDir    core.Vector3D

	hasIdealYaw       bool
	idealYaw          float64
	idealYawTolerance float64
	facingTarget      core.EntityID
	hasFacingPos      bool
	facingPos         core.Vector3D
	isFacing          bool
}

// New creates a navigator for agent. A nil cfg uses DefaultConfig.
func New(agent *core.Entity, svc Services, cfg *Config) (*Navigator, error) {
	if agent == nil {
		return nil, ErrNilAgent
	}
	switch {
	case svc.World == nil:
		return nil, fmt.Errorf("world: %w", ErrMissingService)
	case svc.Mesh == nil:
		return nil, fmt.Errorf("navigation mesh: %w", ErrMissingService)
	case svc.Clock == nil:
		return nil, fmt.Errorf("clock: %w", ErrMissingService)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	svc = svc.withDefaults()
	id := uuid.New()
	n := &Navigator{
		id:                id,
		agent:             agent,
		cfg:               cfg,
		svc:               svc,
		logger:            svc.Logger.With("unit", agent.ID, "nav", id.String()[:8]),
		path:              NewPath(),
		idealYawTolerance: cfg.IdealYawTolerance,
		consider:          make([]considerEntry, 0, cfg.MaxConsider),
		samples:           make([]sample, 0, maxSamples),
	}
	n.path.GoalPos = agent.Position
	n.reset()
	return n, nil
}

// ID returns the navigator id
func (n *Navigator) ID() uuid.UUID {
	return n.id
}

// Agent returns the steered entity
func (n *Navigator) Agent() *core.Entity {
	return n.agent
}

// Path returns a copy of the current path
func (n *Navigator) Path() *Path {
	return n.path.clone()
}

// GoalType returns the goal type of the current path
func (n *Navigator) GoalType() GoalType {
	return n.path.GoalType
}

// LastGoalStatus returns the status recorded by the last Update
func (n *Navigator) LastGoalStatus() GoalStatus {
	return n.lastGoalStatus
}

// DiscomfortWeight returns the current crowd discomfort weight
func (n *Navigator) DiscomfortWeight() float64 {
	return n.discomfortWeight
}

// IsFacingTarget reports whether the agent currently faces its facing target
func (n *Navigator) IsFacingTarget() bool {
	return n.isFacing
}

// reset clears per-goal state
func (n *Navigator) reset() {
	now := n.svc.Clock.Now()

	n.lastGoalStatus = StatusNoGoal
	n.forcedVelocity = core.Vector3D{}
	n.lastWishVelocity = core.Vector3D{}
	n.lastPathRecompute = 0
	n.nextPositionCheck = now + n.cfg.PositionCheckInterval
	n.nextReactiveUpdate = 0
	n.lastPosition = n.agent.Position
	n.pathBlocked = false
	n.lastBestDensity = 0
	n.discomfortWeight = n.cfg.DiscomfortWeightStart
	n.reactive = reactiveMemo{}
}

// dispatch forwards an event to the behavior layer
func (n *Navigator) dispatch(name string, args ...any) {
	n.logger.Debug("dispatch", "event", name)
	n.svc.Events.DispatchEvent(name, args...)
}

// resolveArea returns the unblocked area under pos, or the nearest area
func (n *Navigator) resolveArea(pos core.Vector3D) core.NavArea {
	area := n.svc.Mesh.AreaAt(pos, n.cfg.AreaBeneathLimit)
	if area == nil || area.IsBlocked() {
		area = n.svc.Mesh.NearestArea(pos)
	}
	return area
}

// costFunc builds the traversal cost for the agent
func (n *Navigator) costFunc(testRoute bool) core.CostFunc {
	return n.svc.CostFunc(n.agent.Traversal, testRoute)
}
