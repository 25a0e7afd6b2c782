package viewport

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/harmonica"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/showcase/pkg/render"
	"github.com/taigrr/showcase/pkg/scene"
)

// WireColor is the line color used in wireframe mode.
var WireColor = render.RGB(0, 255, 128)

// Viewport owns the camera, framebuffer and rasterizer for one canvas.
// Resize applies aspect ratio, buffer sizes and pixel ratio in one call,
// so a draw never sees them out of step.
type Viewport struct {
	cfg     Config
	profile Profile

	Camera *render.Camera
	fb     *render.Framebuffer
	rast   *render.Rasterizer

	cols, rows int
	ratio      int
	hidden     bool
	background color.RGBA

	spring   harmonica.Spring
	distance float64
	velocity float64
}

// New creates a viewport for a cols x rows canvas redrawn fps times a second.
func New(cfg Config, fps int, cols, rows int) (*Viewport, error) {
	bg, err := colorful.Hex(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("parse background %q: %w", cfg.Background, err)
	}
	r, g, b := bg.RGB255()

	v := &Viewport{
		cfg:        cfg,
		profile:    Resolve(cols, cfg),
		Camera:     render.NewCamera(),
		fb:         render.NewFramebuffer(0, 0),
		background: render.RGB(r, g, b),
		spring:     harmonica.NewSpring(harmonica.FPS(max(fps, 1)), 6.0, 1.0),
	}
	v.Camera.SetClipPlanes(0.1, 1000)
	v.rast = render.NewRasterizer(v.Camera, v.fb)
	v.Resize(cols, rows)
	v.distance = v.profile.Distance
	v.Camera.SetDistance(v.distance)
	return v, nil
}

// Resize applies a new canvas size. A zero dimension hides the viewport
// until a later Resize or Shown gives it a real size. It reports whether
// the device class changed.
func (v *Viewport) Resize(cols, rows int) bool {
	if cols <= 0 || rows <= 0 {
		v.hidden = true
		return false
	}
	v.cols, v.rows = cols, rows
	v.hidden = false
	return v.apply()
}

// Shown re-applies the last known size after the canvas becomes visible.
func (v *Viewport) Shown() bool {
	if v.cols <= 0 || v.rows <= 0 {
		return false
	}
	v.hidden = false
	return v.apply()
}

// Hide marks the viewport hidden; draws are skipped until it is shown.
func (v *Viewport) Hide() {
	v.hidden = true
}

func (v *Viewport) apply() bool {
	prev := v.profile.Class
	v.profile = Resolve(v.cols, v.cfg)
	v.ratio = v.profile.PixelRatio(v.cfg.PixelRatio)

	w, h := v.FramebufferSize()
	v.fb.Resize(w, h)
	v.rast.Resize()
	v.Camera.SetAspectRatio(float64(w) / float64(h))
	v.Camera.SetFOV(render.Degrees(v.profile.FOV))

	return prev != v.profile.Class
}

// FramebufferSize returns the supersampled framebuffer dimensions.
func (v *Viewport) FramebufferSize() (width, height int) {
	return v.cols * v.ratio, v.rows * 2 * v.ratio
}

// Size returns the canvas size in cells.
func (v *Viewport) Size() (cols, rows int) { return v.cols, v.rows }

// Hidden reports whether draws are currently skipped.
func (v *Viewport) Hidden() bool { return v.hidden }

// Profile returns the active device profile.
func (v *Viewport) Profile() Profile { return v.profile }

// PixelRatio returns the active supersampling factor.
func (v *Viewport) PixelRatio() int { return v.ratio }

// Framebuffer returns the supersampled framebuffer of the last Render.
func (v *Viewport) Framebuffer() *render.Framebuffer { return v.fb }

// Stats returns the rasterizer counters for the last Render.
func (v *Viewport) Stats() render.Stats { return v.rast.Stats }

// Update eases the camera distance one frame toward target.
func (v *Viewport) Update(target float64) {
	v.distance, v.velocity = v.spring.Update(v.distance, v.velocity, target)
	v.Camera.SetDistance(v.distance)
}

// SnapDistance moves the camera to distance without easing.
func (v *Viewport) SnapDistance(distance float64) {
	v.distance, v.velocity = distance, 0
	v.Camera.SetDistance(distance)
}

// Distance returns the current eased camera distance.
func (v *Viewport) Distance() float64 { return v.distance }

// Render clears the framebuffer and draws g. Opaque parts are drawn before
// transparent ones so blending sees what is behind it. Render reports
// false when the viewport is hidden and nothing was drawn.
func (v *Viewport) Render(g *scene.Group, wireframe bool) bool {
	if v.hidden || v.fb.Empty() {
		return false
	}
	v.fb.Clear(v.background)
	v.rast.Begin()
	if g == nil {
		return true
	}

	world := g.Transform()
	draw := func(p *scene.Part) {
		m := world.Mul(p.Transform())
		c := render.RGB(p.Material.Color[0], p.Material.Color[1], p.Material.Color[2])
		if wireframe {
			v.rast.DrawMeshWireframe(p.Mesh, m, WireColor)
			return
		}
		v.rast.DrawMesh(p.Mesh, m, c, p.Material.Opacity)
	}

	for _, p := range g.Parts {
		if p.Mesh != nil && !p.Material.Transparent() {
			draw(p)
		}
	}
	for _, p := range g.Parts {
		if p.Mesh != nil && p.Material.Transparent() {
			draw(p)
		}
	}
	return true
}
