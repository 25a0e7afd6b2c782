// Package viewport owns the camera and framebuffer and keeps them in step
// with the terminal size and the device profile.
package viewport

import "math"

// Class is the device class a profile is resolved for.
type Class int

const (
	Full Class = iota
	Compact
)

func (c Class) String() string {
	if c == Compact {
		return "compact"
	}
	return "full"
}

// Profile groups every setting that differs between device classes.
type Profile struct {
	Class            Class   `yaml:"-"`
	FOV              float64 `yaml:"fov"` // degrees
	Distance         float64 `yaml:"distance"`
	PixelRatioCap    float64 `yaml:"pixel_ratio_cap"`
	Smoothing        float64 `yaml:"smoothing"`
	SensitivityScale float64 `yaml:"sensitivity_scale"`
	WheelScale       float64 `yaml:"wheel_scale"`
	TargetSize       float64 `yaml:"target_size"`
}

// Config holds both profiles and the viewport settings they share.
type Config struct {
	Full    Profile `yaml:"full"`
	Compact Profile `yaml:"compact"`

	// CompactBelow is the column count under which the compact profile applies.
	CompactBelow int `yaml:"compact_below"`

	// PixelRatio is the supersampling factor requested by the device,
	// capped by the active profile.
	PixelRatio float64 `yaml:"pixel_ratio"`

	Background string `yaml:"background"`
}

// DefaultConfig returns the stock profiles.
func DefaultConfig() Config {
	return Config{
		Full: Profile{
			Class:            Full,
			FOV:              75,
			Distance:         8,
			PixelRatioCap:    2,
			Smoothing:        0.12,
			SensitivityScale: 1,
			WheelScale:       1,
			TargetSize:       4,
		},
		Compact: Profile{
			Class:            Compact,
			FOV:              85,
			Distance:         9,
			PixelRatioCap:    1,
			Smoothing:        0.08,
			SensitivityScale: 1.5,
			WheelScale:       0.5,
			TargetSize:       3,
		},
		CompactBelow: 100,
		PixelRatio:   2,
		Background:   "#1a1a1a",
	}
}

// Resolve picks the profile for a canvas columns wide.
func Resolve(columns int, cfg Config) Profile {
	if columns < cfg.CompactBelow {
		p := cfg.Compact
		p.Class = Compact
		return p
	}
	p := cfg.Full
	p.Class = Full
	return p
}

// PixelRatio returns the integer supersampling factor for p, at least 1.
func (p Profile) PixelRatio(device float64) int {
	r := math.Min(device, p.PixelRatioCap)
	return max(int(math.Floor(r)), 1)
}
