package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"unitnav/internal/core"
	"unitnav/internal/debugview"
)

var (
	styleDefault  = tcell.StyleDefault
	styleBlocked  = tcell.StyleDefault.Foreground(tcell.ColorDarkRed)
	styleObstacle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleWaypoint = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleGoal     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

// unitStyles colors a unit by its last goal status
var unitStyles = map[string]tcell.Style{
	"no_goal":  tcell.StyleDefault.Foreground(tcell.ColorWhite),
	"has_goal": tcell.StyleDefault.Foreground(tcell.ColorGreen),
	"at_goal":  tcell.StyleDefault.Foreground(tcell.ColorAqua),
	"failed":   tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	"climb":    tcell.StyleDefault.Foreground(tcell.ColorPurple),
}

// Renderer draws simulation frames onto a terminal screen. The top of the
// screen is north.
type Renderer struct {
	screen tcell.Screen
	bounds core.AABB
	paths  bool
}

// NewRenderer creates a renderer mapping bounds onto screen
func NewRenderer(screen tcell.Screen, bounds core.AABB) *Renderer {
	return &Renderer{
		screen: screen,
		bounds: bounds,
		paths:  true,
	}
}

// TogglePaths shows or hides waypoints
func (r *Renderer) TogglePaths() {
	r.paths = !r.paths
}

// Draw renders frame and shows it
func (r *Renderer) Draw(frame debugview.Frame) {
	r.screen.Clear()

	for _, a := range frame.Areas {
		if a.Blocked {
			r.fill(a.MinX, a.MinY, a.MaxX, a.MaxY, '░', styleBlocked)
		}
	}
	for _, o := range frame.Obstacles {
		r.fill(o.MinX, o.MinY, o.MaxX, o.MaxY, '#', styleObstacle)
	}

	if r.paths {
		for _, u := range frame.Units {
			for _, wp := range u.Waypoints {
				r.plot(wp[0], wp[1], '·', styleWaypoint)
			}
			if u.Goal != "none" {
				r.plot(u.GoalX, u.GoalY, 'x', styleGoal)
			}
		}
	}

	for _, u := range frame.Units {
		style, ok := unitStyles[u.Status]
		if !ok {
			style = styleDefault
		}
		r.plot(u.X, u.Y, unitGlyph(u.Yaw), style)
	}

	r.status(fmt.Sprintf(" tick %d  t=%.2fs  units %d  obstacles %d  [p] paths  [q] quit",
		frame.Tick, frame.Time, len(frame.Units), len(frame.Obstacles)))
	r.screen.Show()
}

// Cell maps a world position to a screen cell. ok is false when the
// position lies outside the drawable area.
func (r *Renderer) Cell(x, y float64) (col, row int, ok bool) {
	w, h := r.screen.Size()
	h-- // status line
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}

	sx := r.bounds.Max[0] - r.bounds.Min[0]
	sy := r.bounds.Max[1] - r.bounds.Min[1]
	if sx <= 0 || sy <= 0 {
		return 0, 0, false
	}

	col = int(math.Floor((x - r.bounds.Min[0]) / sx * float64(w)))
	row = int(math.Floor((y - r.bounds.Min[1]) / sy * float64(h)))
	if col == w && x == r.bounds.Max[0] {
		col--
	}
	if row == h && y == r.bounds.Max[1] {
		row--
	}
	if col < 0 || col >= w || row < 0 || row >= h {
		return 0, 0, false
	}
	return col, row, true
}

// Helper functions

func (r *Renderer) plot(x, y float64, ch rune, style tcell.Style) {
	if col, row, ok := r.Cell(x, y); ok {
		r.screen.SetContent(col, row, ch, nil, style)
	}
}

func (r *Renderer) fill(minX, minY, maxX, maxY float64, ch rune, style tcell.Style) {
	c0, r0, ok0 := r.Cell(math.Max(minX, r.bounds.Min[0]), math.Max(minY, r.bounds.Min[1]))
	c1, r1, ok1 := r.Cell(math.Min(maxX, r.bounds.Max[0]), math.Min(maxY, r.bounds.Max[1]))
	if !ok0 || !ok1 {
		return
	}
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			r.screen.SetContent(col, row, ch, nil, style)
		}
	}
}

func (r *Renderer) status(text string) {
	w, h := r.screen.Size()
	row := h - 1
	col := 0
	for _, ch := range text {
		if col >= w {
			break
		}
		r.screen.SetContent(col, row, ch, nil, styleStatus)
		col++
	}
	for ; col < w; col++ {
		r.screen.SetContent(col, row, ' ', nil, styleStatus)
	}
}

// unitGlyph points an arrow along yaw. Yaw 90 faces south on screen.
func unitGlyph(yaw float64) rune {
	arrows := [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}
	i := int(math.Floor(math.Mod(yaw+22.5+360, 360) / 45))
	return arrows[i%8]
}
