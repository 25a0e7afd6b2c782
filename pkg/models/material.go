package models

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Material describes how a part is filled: a base color and an opacity.
type Material struct {
	Name    string
	Color   [3]uint8
	Opacity float64 // 1 = opaque
}

// NewMaterial builds a material from a hex color such as "#444444".
func NewMaterial(name, hex string, opacity float64) (Material, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Material{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Material{
		Name:    name,
		Color:   [3]uint8{r, g, b},
		Opacity: opacity,
	}, nil
}

// MustMaterial is like NewMaterial but panics on a malformed color.
// Intended for package-level constants.
func MustMaterial(name, hex string, opacity float64) Material {
	m, err := NewMaterial(name, hex, opacity)
	if err != nil {
		panic(err)
	}
	return m
}

// Transparent reports whether the material needs blending.
func (m Material) Transparent() bool {
	return m.Opacity < 1
}

// Hex returns the material color as "#rrggbb".
func (m Material) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", m.Color[0], m.Color[1], m.Color[2])
}
