// Package interaction turns pointer, touch, wheel and key input into
// target rotation angles and a zoom distance.
package interaction

import "github.com/taigrr/showcase/pkg/math3d"

// Config holds the input sensitivities and clamp ranges.
type Config struct {
	DragX  float64 `yaml:"drag_x"`  // yaw radians per canvas width dragged
	DragY  float64 `yaml:"drag_y"`  // pitch radians per canvas height dragged
	TouchX float64 `yaml:"touch_x"` // yaw radians per touch pixel
	TouchY float64 `yaml:"touch_y"` // pitch radians per touch pixel

	MaxTilt float64 `yaml:"max_tilt"`

	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`

	WheelSensitivity float64 `yaml:"wheel_sensitivity"` // distance per wheel unit
	PinchSensitivity float64 `yaml:"pinch_sensitivity"` // distance per unit of pinch ratio change
	KeyStep          float64 `yaml:"key_step"`          // radians per arrow key press
	KeyZoom          float64 `yaml:"key_zoom"`          // wheel units per +/- press
}

// DefaultConfig returns the stock sensitivities.
func DefaultConfig() Config {
	return Config{
		DragX:            3.0,
		DragY:            1.5,
		TouchX:           0.01,
		TouchY:           0.005,
		MaxTilt:          0.5,
		MinDistance:      4,
		MaxDistance:      12,
		WheelSensitivity: 0.01,
		PinchSensitivity: 4,
		KeyStep:          0.1,
		KeyZoom:          50,
	}
}

// State is the shared rotation and zoom state. The interaction controller
// writes the targets and distance; the render loop smooths Current toward
// Target.
type State struct {
	TargetX, TargetY   float64 // pitch, yaw
	CurrentX, CurrentY float64
	Interacting        bool
	Distance           float64
}

// NewState returns a state at rest at the given camera distance.
func NewState(distance float64) *State {
	return &State{Distance: distance}
}

// Smooth moves the current angles a fraction of the way to the targets.
func (s *State) Smooth(factor float64) {
	s.CurrentX = math3d.Lerp(s.CurrentX, s.TargetX, factor)
	s.CurrentY = math3d.Lerp(s.CurrentY, s.TargetY, factor)
}

// Angles returns the current pitch and yaw as a rotation vector.
func (s *State) Angles() math3d.Vec3 {
	return math3d.V3(s.CurrentX, s.CurrentY, 0)
}
