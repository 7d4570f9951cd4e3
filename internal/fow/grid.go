package fow

import (
	"math"
	"sync"

	"unitnav/internal/core"
)

// MaxPlayers is the number of players tracked by the grid
const MaxPlayers = 8

// Grid is a per-player fog of war map. A cell is visible to a player when
// one of the player's entities, or an entity of a player sharing vision with
// it, had the cell within view distance at the last Update.
type Grid struct {
	mu       sync.RWMutex
	width    int
	height   int
	cellSize float64
	bounds   core.AABB
	visible  [MaxPlayers][]bool
	shares   [MaxPlayers][MaxPlayers]bool
	enabled  bool
}

// NewGrid creates a fog of war grid over bounds
func NewGrid(bounds core.AABB, cellSize float64) *Grid {
	width := int(math.Ceil((bounds.Max[0] - bounds.Min[0]) / cellSize))
	height := int(math.Ceil((bounds.Max[1] - bounds.Min[1]) / cellSize))

	g := &Grid{
		width:    width,
		height:   height,
		cellSize: cellSize,
		bounds:   bounds,
		enabled:  true,
	}
	for p := range g.visible {
		g.visible[p] = make([]bool, width*height)
		g.shares[p][p] = true
	}
	return g
}

// SetEnabled turns the fog on or off. With fog off every point is visible.
func (g *Grid) SetEnabled(enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.enabled = enabled
}

// ShareVision lets viewer see what owner's entities see
func (g *Grid) ShareVision(owner, viewer int, share bool) {
	if !validPlayer(owner) || !validPlayer(viewer) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shares[owner][viewer] = share
}

// Update recomputes visibility from the given entities
func (g *Grid) Update(entities []*core.Entity) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for p := range g.visible {
		cells := g.visible[p]
		for i := range cells {
			cells[i] = false
		}
	}

	for _, e := range entities {
		if e.Dead || e.ViewDistance <= 0 || !validPlayer(e.Player) {
			continue
		}
		for viewer := 0; viewer < MaxPlayers; viewer++ {
			if g.shares[e.Player][viewer] {
				g.revealLocked(e.Position.Vec2(), e.ViewDistance, viewer)
			}
		}
	}
}

// PointInFOW reports whether pos is hidden from player
func (g *Grid) PointInFOW(pos core.Vector3D, player int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.enabled {
		return false
	}
	if !validPlayer(player) {
		return true
	}
	x, y, ok := g.worldToGrid(pos.Vec2())
	if !ok {
		return true
	}
	return !g.visible[player][y*g.width+x]
}

// VisibleCells returns how many cells player can see
func (g *Grid) VisibleCells(player int) int {
	if !validPlayer(player) {
		return 0
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	n := 0
	for _, v := range g.visible[player] {
		if v {
			n++
		}
	}
	return n
}

// revealLocked marks cells whose centers lie within radius of center
func (g *Grid) revealLocked(center core.Vector2D, radius float64, player int) {
	rangeCells := int(math.Ceil(radius / g.cellSize))
	cx, cy, _ := g.worldToGrid(center)

	for dy := -rangeCells; dy <= rangeCells; dy++ {
		for dx := -rangeCells; dx <= rangeCells; dx++ {
			x, y := cx+dx, cy+dy
			if x < 0 || x >= g.width || y < 0 || y >= g.height {
				continue
			}
			if g.gridToWorld(x, y).Sub(center).Len() > radius {
				continue
			}
			g.visible[player][y*g.width+x] = true
		}
	}
}

// worldToGrid converts a world position to cell coordinates
func (g *Grid) worldToGrid(p core.Vector2D) (int, int, bool) {
	x := int(math.Floor((p[0] - g.bounds.Min[0]) / g.cellSize))
	y := int(math.Floor((p[1] - g.bounds.Min[1]) / g.cellSize))
	return x, y, x >= 0 && x < g.width && y >= 0 && y < g.height
}

// gridToWorld returns the center of a cell
func (g *Grid) gridToWorld(x, y int) core.Vector2D {
	return core.Vector2D{
		g.bounds.Min[0] + (float64(x)+0.5)*g.cellSize,
		g.bounds.Min[1] + (float64(y)+0.5)*g.cellSize,
	}
}

func validPlayer(p int) bool {
	return p >= 0 && p < MaxPlayers
}
