package faction

import (
	"sync"

	"unitnav/internal/core"
)

// MaxPlayers is the number of players in the relationship matrix
const MaxPlayers = 8

// Relations is the player relationship matrix
type Relations struct {
	mu     sync.RWMutex
	matrix [MaxPlayers][MaxPlayers]core.Disposition
}

// NewRelations creates a matrix where every player likes itself and hates everyone else
func NewRelations() *Relations {
	r := &Relations{}
	for i := 0; i < MaxPlayers; i++ {
		for j := 0; j < MaxPlayers; j++ {
			if i == j {
				r.matrix[i][j] = core.DispositionLike
			} else {
				r.matrix[i][j] = core.DispositionHate
			}
		}
	}
	return r
}

// Set changes how p1 regards p2
func (r *Relations) Set(p1, p2 int, d core.Disposition) {
	if !valid(p1) || !valid(p2) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matrix[p1][p2] = d
}

// SetMutual changes the relationship in both directions
func (r *Relations) SetMutual(p1, p2 int, d core.Disposition) {
	r.Set(p1, p2, d)
	r.Set(p2, p1, d)
}

// Get returns how p1 regards p2
func (r *Relations) Get(p1, p2 int) core.Disposition {
	if !valid(p1) || !valid(p2) {
		return core.DispositionError
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.matrix[p1][p2]
}

// Relation returns how entity a regards entity b
func (r *Relations) Relation(a, b *core.Entity) core.Disposition {
	if a == nil || b == nil {
		return core.DispositionError
	}
	return r.Get(a.Player, b.Player)
}

func valid(p int) bool {
	return p >= 0 && p < MaxPlayers
}
