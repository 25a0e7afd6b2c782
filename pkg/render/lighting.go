package render

import (
	"image/color"
	"math"

	"github.com/taigrr/showcase/pkg/math3d"
)

// Lighting is an ambient term plus one directional light, both white-ish
// and scaled by an intensity.
type Lighting struct {
	Ambient          color.RGBA
	AmbientIntensity float64

	Directional          color.RGBA
	DirectionalIntensity float64
	// Direction points from the scene toward the light.
	Direction math3d.Vec3
}

// DefaultLighting returns a dim gray ambient light at 0.8 and a white
// directional light at 0.6 shining from (5, 5, 5).
func DefaultLighting() Lighting {
	return Lighting{
		Ambient:              RGB(0x40, 0x40, 0x40),
		AmbientIntensity:     0.8,
		Directional:          RGB(0xff, 0xff, 0xff),
		DirectionalIntensity: 0.6,
		Direction:            math3d.V3(5, 5, 5).Normalize(),
	}
}

// Shade returns base lit by l for a surface with the given normal.
// Surfaces are two-sided: a normal facing away from the light is flipped.
func (l Lighting) Shade(base color.RGBA, normal math3d.Vec3) color.RGBA {
	diffuse := math.Abs(normal.Dot(l.Direction)) * l.DirectionalIntensity
	channel := func(b, amb, dir uint8) uint8 {
		v := float64(b) / 255 * (float64(amb)/255*l.AmbientIntensity + float64(dir)/255*diffuse)
		return uint8(math3d.Clamp(v, 0, 1)*255 + 0.5)
	}
	return color.RGBA{
		R: channel(base.R, l.Ambient.R, l.Directional.R),
		G: channel(base.G, l.Ambient.G, l.Directional.G),
		B: channel(base.B, l.Ambient.B, l.Directional.B),
		A: 255,
	}
}
