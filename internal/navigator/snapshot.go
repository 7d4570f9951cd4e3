package navigator

import (
	"github.com/google/uuid"
)

// PathSnapshot is a saved copy of a navigator's path. It never aliases the
// live path, so it stays valid however the navigator changes afterwards.
type PathSnapshot struct {
	ID      uuid.UUID
	SavedAt float64
	path    *Path
}

// IsZero reports whether the snapshot holds no path
func (s PathSnapshot) IsZero() bool {
	return s.path == nil
}

// Path returns a copy of the saved path
func (s PathSnapshot) Path() *Path {
	if s.path == nil {
		return nil
	}
	return s.path.clone()
}

// SavePath snapshots the current path
func (n *Navigator) SavePath() PathSnapshot {
	return PathSnapshot{
		ID:      uuid.New(),
		SavedAt: n.svc.Clock.Now(),
		path:    n.path.clone(),
	}
}

// RestorePath makes a saved path current again. The route is kept as saved,
// including how far along it the agent was.
func (n *Navigator) RestorePath(s PathSnapshot) error {
	if s.IsZero() {
		return ErrEmptySnapshot
	}

	n.reset()
	n.path = s.path.clone()
	n.path.version++
	n.pathGen++
	if n.path.GoalType != GoalNone {
		n.lastGoalStatus = StatusHasGoal
	}
	n.logger.Debug("restored path", "snapshot", s.ID, "goal", n.path.GoalType)
	return nil
}
