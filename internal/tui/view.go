package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"unitnav/internal/debugview"
)

// Run draws frames as they arrive until the user quits, ctx is done or
// frames is closed. It reports whether the user asked to quit.
func (r *Renderer) Run(ctx context.Context, frames <-chan debugview.Frame) bool {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go r.screen.ChannelEvents(events, quit)

	var last debugview.Frame
	for {
		select {
		case <-ctx.Done():
			return false

		case frame, ok := <-frames:
			if !ok {
				return false
			}
			last = frame
			r.Draw(frame)

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					return true
				}
				if ev.Key() == tcell.KeyRune && ev.Rune() == 'p' {
					r.TogglePaths()
					r.Draw(last)
				}
			case *tcell.EventResize:
				r.screen.Sync()
				r.Draw(last)
			}
		}
	}
}
