package navigator

import (
	"github.com/google/uuid"

	"unitnav/internal/core"
)

// SampleInfo is one evaluated test direction
type SampleInfo struct {
	Dir     core.Vector3D
	Pos     core.Vector3D
	Density float64
}

// DebugInfo is a read-only view of a navigator's last tick
type DebugInfo struct {
	ID               uuid.UUID
	Unit             core.EntityID
	GoalType         GoalType
	Status           GoalStatus
	GoalPos          core.Vector3D
	Waypoints        []Waypoint
	WishVelocity     core.Vector3D
	BestCost         float64
	BestDensity      float64
	BestDist         float64
	DiscomfortWeight float64
	Samples          []SampleInfo
	Considered       []core.EntityID
	Seeds            []core.Vector2D
}

// Debug captures the navigator state for visualisation
func (n *Navigator) Debug() DebugInfo {
	info := DebugInfo{
		ID:               n.id,
		Unit:             n.agent.ID,
		GoalType:         n.path.GoalType,
		Status:           n.lastGoalStatus,
		GoalPos:          n.path.GoalPos,
		Waypoints:        n.path.Waypoints(),
		WishVelocity:     n.lastWishVelocity,
		BestCost:         n.lastBestCost,
		BestDensity:      n.lastBestDensity,
		BestDist:         n.lastBestDist,
		DiscomfortWeight: n.discomfortWeight,
	}

	for i, s := range n.samples {
		var d float64
		for _, c := range n.consider {
			d += c.density[i]
		}
		info.Samples = append(info.Samples, SampleInfo{Dir: s.dir, Pos: s.pos, Density: d})
	}
	for _, c := range n.consider {
		info.Considered = append(info.Considered, c.entity.ID)
	}
	for _, s := range n.seeds {
		info.Seeds = append(info.Seeds, s.pos)
	}
	return info
}
