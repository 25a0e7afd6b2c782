package interaction

import "github.com/taigrr/showcase/pkg/math3d"

// Event is an input event consumed by the Controller.
type Event interface {
	event()
}

// PointerDown starts a drag at X, Y (canvas units).
type PointerDown struct{ X, Y float64 }

// PointerMove reports the pointer position.
type PointerMove struct{ X, Y float64 }

// PointerUp ends a drag.
type PointerUp struct{}

// PointerLeave ends a drag when the pointer leaves the canvas.
type PointerLeave struct{}

// TouchStart reports the active touch points after a finger lands.
type TouchStart struct{ Points []math3d.Vec2 }

// TouchMove reports the active touch points after movement.
type TouchMove struct{ Points []math3d.Vec2 }

// TouchEnd reports the touch points still down after a finger lifts.
type TouchEnd struct{ Points []math3d.Vec2 }

// Wheel zooms by DeltaY wheel units; positive moves the camera away.
type Wheel struct{ DeltaY float64 }

// Resize reports the new canvas size.
type Resize struct{ Width, Height float64 }

// Key is a keyboard command.
type Key struct{ Code KeyCode }

// KeyCode enumerates the keyboard commands.
type KeyCode int

const (
	KeyLeft KeyCode = iota
	KeyRight
	KeyUp
	KeyDown
	KeyZoomIn
	KeyZoomOut
	KeyReset
)

func (PointerDown) event()  {}
func (PointerMove) event()  {}
func (PointerUp) event()    {}
func (PointerLeave) event() {}
func (TouchStart) event()   {}
func (TouchMove) event()    {}
func (TouchEnd) event()     {}
func (Wheel) event()        {}
func (Resize) event()       {}
func (Key) event()          {}
