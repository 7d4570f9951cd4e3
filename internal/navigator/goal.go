package navigator

import "strings"

// GoalType is what the current path leads to
type GoalType uint8

const (
	GoalNone GoalType = iota
	GoalInvalid
	GoalPosition
	GoalPositionInRange
	GoalTargetEntity
	GoalTargetEntityInRange
)

func (g GoalType) String() string {
	switch g {
	case GoalNone:
		return "none"
	case GoalPosition:
		return "position"
	case GoalPositionInRange:
		return "position_in_range"
	case GoalTargetEntity:
		return "target"
	case GoalTargetEntityInRange:
		return "target_in_range"
	}
	return "invalid"
}

// HasTarget reports whether the goal follows an entity
func (g GoalType) HasTarget() bool {
	return g == GoalTargetEntity || g == GoalTargetEntityInRange
}

// InRange reports whether the goal completes by range rather than arrival
func (g GoalType) InRange() bool {
	return g == GoalPositionInRange || g == GoalTargetEntityInRange
}

// GoalFlags modify how a goal is pursued and completed
type GoalFlags uint16

const (
	// FlagNoClear keeps the goal after arrival and reports OnNavAtGoal instead
	FlagNoClear GoalFlags = 1 << iota
	// FlagRequireTargetAlive fails the goal when the target dies
	FlagRequireTargetAlive
	// FlagUseTargetDistance measures range between hulls instead of centers
	FlagUseTargetDistance
	// FlagNoLOSRequired skips the line of sight check for range goals
	FlagNoLOSRequired
	// FlagRequireVision requires the target point to be outside the fog of war
	FlagRequireVision
	// FlagOwnerIsTarget completes when bumping into something the target owns
	FlagOwnerIsTarget
	// FlagDirectPathOnly skips all route searching
	FlagDirectPathOnly
)

// Has reports whether all bits of f are set
func (g GoalFlags) Has(f GoalFlags) bool {
	return g&f == f
}

func (g GoalFlags) String() string {
	names := []struct {
		flag GoalFlags
		name string
	}{
		{FlagNoClear, "noclear"},
		{FlagRequireTargetAlive, "reqalive"},
		{FlagUseTargetDistance, "targetdist"},
		{FlagNoLOSRequired, "nolos"},
		{FlagRequireVision, "reqvision"},
		{FlagOwnerIsTarget, "owneristarget"},
		{FlagDirectPathOnly, "directonly"},
	}
	var parts []string
	for _, n := range names {
		if g.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// GoalStatus is the per-tick outcome of goal evaluation
type GoalStatus uint8

const (
	StatusNoGoal GoalStatus = iota
	StatusHasGoal
	StatusAtGoal
	StatusFailed
	StatusClimb
)

func (s GoalStatus) String() string {
	switch s {
	case StatusNoGoal:
		return "no_goal"
	case StatusHasGoal:
		return "has_goal"
	case StatusAtGoal:
		return "at_goal"
	case StatusFailed:
		return "failed"
	case StatusClimb:
		return "climb"
	}
	return "unknown"
}

// SpecialStatus tags waypoints on either side of a non-walkable transition
type SpecialStatus uint8

const (
	SpecialNone SpecialStatus = iota
	SpecialClimb
	SpecialClimbDestination
	SpecialEdgeDown
	SpecialEdgeDownDestination
)

func (s SpecialStatus) String() string {
	switch s {
	case SpecialClimb:
		return "climb"
	case SpecialClimbDestination:
		return "climb_dest"
	case SpecialEdgeDown:
		return "edge_down"
	case SpecialEdgeDownDestination:
		return "edge_down_dest"
	}
	return "none"
}

// Destination returns the tag the paired waypoint must carry
func (s SpecialStatus) Destination() SpecialStatus {
	switch s {
	case SpecialClimb:
		return SpecialClimbDestination
	case SpecialEdgeDown:
		return SpecialEdgeDownDestination
	}
	return SpecialNone
}
