// Package viewer runs the render loop: it owns the interaction state, the
// viewport and the displayed group, and redraws once per tick.
package viewer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/showcase/pkg/interaction"
	"github.com/taigrr/showcase/pkg/math3d"
	"github.com/taigrr/showcase/pkg/render"
	"github.com/taigrr/showcase/pkg/scene"
	"github.com/taigrr/showcase/pkg/viewport"
)

// Command is a viewer action that is not part of the interaction model.
type Command int

const (
	ToggleWireframe Command = iota
	ToggleHUD
	// Hide stops drawing, for instance when the terminal loses focus.
	Hide
	// Show resumes drawing at the last known size.
	Show
)

// Options configure a Loop.
type Options struct {
	FPS        int
	AutoRotate float64 // yaw radians added per tick while idle
	Wireframe  bool
	HUD        bool
	Name       string // shown in the HUD
}

// Loop is the render loop. All of its state belongs to the goroutine that
// calls Run (or Tick and Handle directly); other goroutines reach it only
// through the channels passed to Run and Commands.
type Loop struct {
	opts Options
	log  *zap.Logger

	vp    *viewport.Viewport
	state *interaction.State
	ctrl  *interaction.Controller

	out  render.Display
	term *render.TerminalRenderer
	hud  *HUD

	group     *scene.Group
	wireframe bool
	showHUD   bool
	frames    int

	commands chan Command
	now      func() time.Time
}

// New creates a loop drawing vp to out. out may be nil to render without a
// terminal, as snapshots do.
func New(vp *viewport.Viewport, input interaction.Config, out render.Display, opts Options, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}

	p := vp.Profile()
	state := interaction.NewState(math3d.Clamp(p.Distance, input.MinDistance, input.MaxDistance))
	vp.SnapDistance(state.Distance)

	l := &Loop{
		opts:      opts,
		log:       log,
		vp:        vp,
		state:     state,
		ctrl:      interaction.NewController(input, state),
		out:       out,
		wireframe: opts.Wireframe,
		showHUD:   opts.HUD,
		commands:  make(chan Command, 8),
		now:       time.Now,
	}
	l.hud = NewHUD(l.now())

	cols, rows := vp.Size()
	if out != nil {
		l.term = render.NewTerminalRenderer(out, cols, rows, vp.PixelRatio())
	}
	l.ctrl.Handle(interaction.Resize{Width: float64(cols), Height: float64(rows)})
	l.applyProfile()
	return l
}

// Commands accepts viewer commands from any goroutine.
func (l *Loop) Commands() chan<- Command { return l.commands }

// State returns the interaction state.
func (l *Loop) State() *interaction.State { return l.state }

// Controller returns the interaction controller.
func (l *Loop) Controller() *interaction.Controller { return l.ctrl }

// Viewport returns the viewport the loop draws into.
func (l *Loop) Viewport() *viewport.Viewport { return l.vp }

// Group returns the displayed group, nil until one is set.
func (l *Loop) Group() *scene.Group { return l.group }

// Frames returns the number of ticks run so far.
func (l *Loop) Frames() int { return l.frames }

// Wireframe reports whether wireframe mode is on.
func (l *Loop) Wireframe() bool { return l.wireframe }

// HUDVisible reports whether the overlay is drawn.
func (l *Loop) HUDVisible() bool { return l.showHUD }

// SetGroup replaces the displayed group and fits it to the active profile.
// Rotation and zoom carry over.
func (l *Loop) SetGroup(g *scene.Group) {
	l.group = g
	l.fit()
	if g != nil {
		g.Spin = l.state.Angles()
		l.log.Debug("displayed group set",
			zap.String("group", g.Name),
			zap.Int("parts", len(g.Parts)),
			zap.Bool("fallback", g.Fallback),
		)
	}
}

// fit rescales an assembled group to the profile's target size. The
// fallback keeps its authored size.
func (l *Loop) fit() {
	g := l.group
	if g == nil || g.Fallback {
		return
	}
	if extent := g.LocalBounds().MaxExtent(); extent > 0 {
		g.Scale = l.vp.Profile().TargetSize / extent
	}
}

// applyProfile copies the profile's input scales into the controller.
func (l *Loop) applyProfile() {
	p := l.vp.Profile()
	l.ctrl.SensitivityScale = p.SensitivityScale
	l.ctrl.WheelScale = p.WheelScale
	l.ctrl.SetHome(p.Distance)
}

// Handle applies one input event.
func (l *Loop) Handle(ev interaction.Event) {
	if r, ok := ev.(interaction.Resize); ok {
		l.resize(int(r.Width), int(r.Height))
	}
	l.ctrl.Handle(ev)
}

func (l *Loop) resize(cols, rows int) {
	l.reflow(l.vp.Resize(cols, rows))
}

// reflow syncs the terminal canvas with the viewport and rebases the
// camera when the device class changed.
func (l *Loop) reflow(changed bool) {
	cols, rows := l.vp.Size()
	if l.term != nil && !l.vp.Hidden() {
		l.term.Resize(cols, rows, l.vp.PixelRatio())
	}
	if !changed {
		return
	}

	// A new device class brings its own distance, scales and target size.
	l.applyProfile()
	p := l.vp.Profile()
	l.ctrl.Zoom(p.Distance - l.state.Distance)
	l.fit()
	l.log.Info("device profile changed",
		zap.Stringer("class", p.Class),
		zap.Int("columns", cols),
		zap.Int("pixel_ratio", l.vp.PixelRatio()),
	)
}

// Command applies one viewer command.
func (l *Loop) Command(c Command) {
	switch c {
	case ToggleWireframe:
		l.wireframe = !l.wireframe
	case ToggleHUD:
		l.showHUD = !l.showHUD
	case Hide:
		l.vp.Hide()
	case Show:
		l.reflow(l.vp.Shown())
	}
}

// Tick advances the animation one frame and draws it.
func (l *Loop) Tick() error {
	p := l.vp.Profile()
	l.state.Smooth(p.Smoothing)
	if !l.state.Interacting {
		l.state.TargetY += l.opts.AutoRotate
	}
	if l.group != nil {
		l.group.Spin = l.state.Angles()
	}
	l.vp.Update(l.state.Distance)
	l.frames++

	if !l.vp.Render(l.group, l.wireframe) {
		return nil
	}
	l.hud.Frame(l.now())
	if l.term == nil {
		return nil
	}

	l.term.Render(l.vp.Framebuffer())
	if l.showHUD {
		cols, rows := l.vp.Size()
		l.hud.Draw(l.out, cols, rows, l.info())
	}
	if err := l.term.Flush(); err != nil {
		return fmt.Errorf("flush frame: %w", err)
	}
	return nil
}

func (l *Loop) info() Info {
	info := Info{
		Name:       l.opts.Name,
		Class:      l.vp.Profile().Class,
		PixelRatio: l.vp.PixelRatio(),
		Wireframe:  l.wireframe,
		Loading:    l.group == nil,
	}
	if g := l.group; g != nil {
		info.Name = g.Name
		info.Parts = len(g.Parts)
		info.Triangles = g.TriangleCount()
		info.Fallback = g.Fallback
	}
	return info
}

// Run owns the loop until ctx is done. Input events, commands and newly
// assembled groups are applied between frames; frames are drawn on a fixed
// ticker without catch-up.
func (l *Loop) Run(ctx context.Context, events <-chan interaction.Event, groups <-chan *scene.Group) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render loop panic: %v", r)
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(l.opts.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			l.Handle(ev)

		case c := <-l.commands:
			l.Command(c)

		case g, ok := <-groups:
			if !ok {
				groups = nil
				continue
			}
			l.SetGroup(g)

		case <-ticker.C:
			if err := l.Tick(); err != nil {
				return err
			}
		}
	}
}
