package interaction

import "github.com/taigrr/showcase/pkg/math3d"

// Mode is the drag state machine position.
type Mode int

const (
	Idle Mode = iota
	Dragging
)

func (m Mode) String() string {
	if m == Dragging {
		return "dragging"
	}
	return "idle"
}

// Controller applies input events to a State. It never renders.
type Controller struct {
	cfg   Config
	state *State

	// SensitivityScale multiplies drag and touch deltas; WheelScale
	// multiplies wheel deltas. Both come from the device profile.
	SensitivityScale float64
	WheelScale       float64

	width, height float64

	mode      Mode
	last      math3d.Vec2
	pinching  bool
	pinchDist float64
	home      float64
}

// NewController returns a controller writing to state.
func NewController(cfg Config, state *State) *Controller {
	return &Controller{
		cfg:              cfg,
		state:            state,
		SensitivityScale: 1,
		WheelScale:       1,
		width:            1,
		height:           1,
		home:             state.Distance,
	}
}

// State returns the state the controller writes to.
func (c *Controller) State() *State { return c.state }

// Mode reports whether a drag is in progress.
func (c *Controller) Mode() Mode { return c.mode }

// SetHome sets the distance restored by KeyReset.
func (c *Controller) SetHome(distance float64) {
	c.home = distance
}

// Handle applies one event.
func (c *Controller) Handle(ev Event) {
	switch e := ev.(type) {
	case PointerDown:
		c.begin(math3d.V2(e.X, e.Y))
	case PointerMove:
		if c.mode != Dragging {
			return
		}
		p := math3d.V2(e.X, e.Y)
		d := p.Sub(c.last)
		c.last = p
		c.rotate(d.X/c.width*c.cfg.DragX, d.Y/c.height*c.cfg.DragY)
	case PointerUp, PointerLeave:
		c.end()

	case TouchStart:
		c.touchStart(e.Points)
	case TouchMove:
		c.touchMove(e.Points)
	case TouchEnd:
		c.touchEnd(e.Points)

	case Wheel:
		c.Zoom(e.DeltaY * c.cfg.WheelSensitivity * c.WheelScale)
	case Resize:
		if e.Width > 0 && e.Height > 0 {
			c.width, c.height = e.Width, e.Height
		}
	case Key:
		c.key(e.Code)
	}
}

// Zoom changes the distance by delta, clamped to the configured range.
func (c *Controller) Zoom(delta float64) {
	c.state.Distance = math3d.Clamp(c.state.Distance+delta, c.cfg.MinDistance, c.cfg.MaxDistance)
}

func (c *Controller) begin(p math3d.Vec2) {
	c.mode = Dragging
	c.state.Interacting = true
	c.last = p
}

func (c *Controller) end() {
	c.mode = Idle
	c.state.Interacting = false
}

// rotate adds yaw and pitch deltas, scaled, with pitch clamped.
func (c *Controller) rotate(yaw, pitch float64) {
	s := c.SensitivityScale
	c.state.TargetY += yaw * s
	c.state.TargetX = math3d.Clamp(c.state.TargetX+pitch*s, -c.cfg.MaxTilt, c.cfg.MaxTilt)
}

func (c *Controller) touchStart(pts []math3d.Vec2) {
	switch len(pts) {
	case 1:
		c.pinching = false
		c.begin(pts[0])
	case 2:
		// A second finger turns the drag into a pinch.
		c.end()
		c.pinching = true
		c.pinchDist = pts[0].Distance(pts[1])
	}
}

func (c *Controller) touchMove(pts []math3d.Vec2) {
	switch {
	case len(pts) == 1 && c.mode == Dragging:
		d := pts[0].Sub(c.last)
		c.last = pts[0]
		c.rotate(d.X*c.cfg.TouchX, d.Y*c.cfg.TouchY)
	case len(pts) == 2 && c.pinching:
		cur := pts[0].Distance(pts[1])
		if c.pinchDist > 0 && cur > 0 {
			ratio := cur / c.pinchDist
			c.Zoom((1 - ratio) * c.cfg.PinchSensitivity)
		}
		c.pinchDist = cur
	}
}

func (c *Controller) touchEnd(pts []math3d.Vec2) {
	if len(pts) < 2 {
		c.pinching = false
	}
	c.end()
}

func (c *Controller) key(k KeyCode) {
	step := c.cfg.KeyStep
	switch k {
	case KeyLeft:
		c.rotate(-step, 0)
	case KeyRight:
		c.rotate(step, 0)
	case KeyUp:
		c.rotate(0, -step)
	case KeyDown:
		c.rotate(0, step)
	case KeyZoomIn:
		c.Handle(Wheel{DeltaY: -c.cfg.KeyZoom})
	case KeyZoomOut:
		c.Handle(Wheel{DeltaY: c.cfg.KeyZoom})
	case KeyReset:
		c.state.TargetX, c.state.TargetY = 0, 0
		c.state.Distance = math3d.Clamp(c.home, c.cfg.MinDistance, c.cfg.MaxDistance)
		c.end()
		c.pinching = false
	}
}
