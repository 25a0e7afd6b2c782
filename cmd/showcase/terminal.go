package main

import (
	"context"
	"sync/atomic"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/showcase/pkg/interaction"
	"github.com/taigrr/showcase/pkg/viewer"
)

// Mouse tracking and focus reporting escape sequences.
const (
	mouseOn  = "\x1b[?1003h\x1b[?1006h\x1b[?1004h" // any-event tracking, SGR extended mode, focus
	mouseOff = "\x1b[?1003l\x1b[?1006l\x1b[?1004l"
)

// wheelNotch is the wheel delta of one scroll step, in the same units a
// browser reports for a mouse wheel.
const wheelNotch = 100

// screen draws into the terminal. Size changes arrive on the event
// goroutine and are applied before the next cell is drawn, so the terminal
// is only touched from the render loop.
type screen struct {
	term    *uv.Terminal
	pending atomic.Pointer[[2]int]
}

func (s *screen) requestResize(width, height int) {
	s.pending.Store(&[2]int{width, height})
}

func (s *screen) applyResize() {
	if p := s.pending.Swap(nil); p != nil {
		s.term.Erase()
		s.term.Resize(p[0], p[1])
	}
}

func (s *screen) SetCell(x, y int, c *uv.Cell) {
	s.applyResize()
	s.term.SetCell(x, y, c)
}

func (s *screen) Display() error {
	s.applyResize()
	return s.term.Display()
}

// input is a terminal event translated for the viewer.
type input struct {
	event   interaction.Event
	command viewer.Command
	isCmd   bool
	quit    bool
}

// translate maps a terminal event to viewer input. It reports false for
// events the viewer ignores.
func translate(ev uv.Event) (input, bool) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		return input{event: interaction.Resize{Width: float64(ev.Width), Height: float64(ev.Height)}}, true

	case uv.KeyPressEvent:
		return translateKey(ev)

	case uv.FocusEvent:
		return input{command: viewer.Show, isCmd: true}, true
	case uv.BlurEvent:
		return input{command: viewer.Hide, isCmd: true}, true

	case uv.MouseClickEvent:
		return input{event: interaction.PointerDown{X: float64(ev.X), Y: float64(ev.Y)}}, true
	case uv.MouseMotionEvent:
		return input{event: interaction.PointerMove{X: float64(ev.X), Y: float64(ev.Y)}}, true
	case uv.MouseReleaseEvent:
		return input{event: interaction.PointerUp{}}, true

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			return input{event: interaction.Wheel{DeltaY: -wheelNotch}}, true
		case uv.MouseWheelDown:
			return input{event: interaction.Wheel{DeltaY: wheelNotch}}, true
		}
	}
	return input{}, false
}

func translateKey(ev uv.KeyPressEvent) (input, bool) {
	key := func(k interaction.KeyCode) (input, bool) {
		return input{event: interaction.Key{Code: k}}, true
	}
	cmd := func(c viewer.Command) (input, bool) {
		return input{command: c, isCmd: true}, true
	}

	switch {
	case ev.MatchString("esc", "ctrl+c", "q"):
		return input{quit: true}, true
	case ev.MatchString("left", "a"):
		return key(interaction.KeyLeft)
	case ev.MatchString("right", "d"):
		return key(interaction.KeyRight)
	case ev.MatchString("up", "w"):
		return key(interaction.KeyUp)
	case ev.MatchString("down", "s"):
		return key(interaction.KeyDown)
	case ev.MatchString("+", "="):
		return key(interaction.KeyZoomIn)
	case ev.MatchString("-", "_"):
		return key(interaction.KeyZoomOut)
	case ev.MatchString("r"):
		return key(interaction.KeyReset)
	case ev.MatchString("x"):
		return cmd(viewer.ToggleWireframe)
	case ev.MatchString("?", "shift+/"):
		return cmd(viewer.ToggleHUD)
	}
	return input{}, false
}

// pumpEvents forwards terminal events to the render loop until ctx is done
// or a quit key is pressed.
func pumpEvents(ctx context.Context, term *uv.Terminal, scr *screen, events chan<- interaction.Event, commands chan<- viewer.Command, quit context.CancelFunc) {
	in := term.Events()
	for {
		var ev uv.Event
		select {
		case <-ctx.Done():
			return
		case e, ok := <-in:
			if !ok {
				return
			}
			ev = e
		}

		if size, ok := ev.(uv.WindowSizeEvent); ok {
			scr.requestResize(size.Width, size.Height)
		}

		msg, ok := translate(ev)
		switch {
		case !ok:
			continue
		case msg.quit:
			quit()
			return
		case msg.isCmd:
			select {
			case commands <- msg.command:
			case <-ctx.Done():
				return
			}
		default:
			select {
			case events <- msg.event:
			case <-ctx.Done():
				return
			}
		}
	}
}
