package navigator

import "errors"

var (
	// ErrNilAgent is returned when a navigator is created without an agent
	ErrNilAgent = errors.New("navigator: agent cannot be nil")
	// ErrMissingService is returned when a required collaborator is not set
	ErrMissingService = errors.New("navigator: missing required service")
	// ErrNilTarget is returned by target goal setters given no target
	ErrNilTarget = errors.New("navigator: goal target cannot be nil")
	// ErrAdvancePastGoal is returned when advancing a path already at its goal
	ErrAdvancePastGoal = errors.New("navigator: cannot advance past the goal waypoint")
	// ErrInvalidConfig wraps configuration validation failures
	ErrInvalidConfig = errors.New("navigator: invalid config")
	// ErrEmptySnapshot is returned when restoring a zero PathSnapshot
	ErrEmptySnapshot = errors.New("navigator: path snapshot is empty")
	// ErrNoVectorGoal is returned when no walkable point lies far enough along a direction
	ErrNoVectorGoal = errors.New("navigator: no reachable point along direction")
)
