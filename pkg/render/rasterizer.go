package render

import (
	"image/color"
	"math"

	"github.com/taigrr/showcase/pkg/math3d"
)

// Vertex is a world-space vertex ready for rasterization.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    Color
}

// Triangle is a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// MeshRenderer is the mesh data the rasterizer reads. models.Mesh
// implements it.
type MeshRenderer interface {
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
	GetBounds() math3d.Box3
}

// Stats counts what the last frame did.
type Stats struct {
	MeshesDrawn  int
	MeshesCulled int
	Triangles    int
}

// Rasterizer draws triangles into a framebuffer with a depth buffer.
// Triangles are two-sided; there is no backface culling.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64
	Light   Lighting
	Stats   Stats
}

// NewRasterizer creates a rasterizer drawing into fb through camera.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera: camera,
		fb:     fb,
		Light:  DefaultLighting(),
	}
	r.Resize()
	return r
}

// Resize matches the depth buffer to the framebuffer.
func (r *Rasterizer) Resize() {
	n := r.fb.Width * r.fb.Height
	if cap(r.zbuffer) >= n {
		r.zbuffer = r.zbuffer[:n]
	} else {
		r.zbuffer = make([]float64, n)
	}
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int { return r.fb.Width }

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int { return r.fb.Height }

// Begin clears the depth buffer and resets stats. Call once per frame.
func (r *Rasterizer) Begin() {
	r.Stats = Stats{}
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

func (r *Rasterizer) depth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64
	Z     float64
	W     float64
	Color Color
}

// project converts world-space vertices to screen space. It reports false
// when any vertex is behind the camera; such triangles are dropped rather
// than clipped.
func (r *Rasterizer) project(tri Triangle) ([3]screenVertex, bool) {
	var sv [3]screenVertex
	viewProj := r.camera.ViewProjectionMatrix()
	w, h := float64(r.Width()), float64(r.Height())

	for i := range 3 {
		clip := viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1))
		if clip.W <= 0 {
			return sv, false
		}
		sv[i] = screenVertex{
			X:     (clip.X/clip.W + 1) * 0.5 * w,
			Y:     (1 - clip.Y/clip.W) * 0.5 * h,
			Z:     clip.Z / clip.W,
			W:     clip.W,
			Color: tri.V[i].Color,
		}
	}
	return sv, true
}

// DrawTriangle rasterizes a triangle, interpolating vertex colors.
// Opacity below 1 blends into the framebuffer and leaves the depth buffer
// untouched so later transparent surfaces still show through.
func (r *Rasterizer) DrawTriangle(tri Triangle, opacity float64) {
	sv, ok := r.project(tri)
	if !ok {
		return
	}

	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	opaque := opacity >= 1
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			bc := barycentric(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y, sv[2].X, sv[2].Y, px, py)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z < -1 || z > 1 || z >= r.depth(x, y) {
				continue
			}

			c := interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, bc)
			if opaque {
				r.zbuffer[y*r.Width()+x] = z
				r.fb.SetPixel(x, y, c)
			} else {
				r.fb.BlendPixel(x, y, c, opacity)
			}
		}
	}
	r.Stats.Triangles++
}

// DrawMesh renders mesh with Gouraud shading. Meshes whose transformed
// bounds fall outside the view frustum are skipped; DrawMesh reports
// whether anything was drawn.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, base color.RGBA, opacity float64) bool {
	if !r.camera.Frustum().IntersectBox(mesh.GetBounds().Transform(transform)) {
		r.Stats.MeshesCulled++
		return false
	}
	r.Stats.MeshesDrawn++

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var tri Triangle
		for k, idx := range face {
			p, n := mesh.GetVertex(idx)
			normal := transform.MulVec3Dir(n).Normalize()
			tri.V[k] = Vertex{
				Position: transform.MulVec3(p),
				Normal:   normal,
				Color:    r.Light.Shade(base, normal),
			}
		}
		r.DrawTriangle(tri, opacity)
	}
	return true
}

// DrawMeshWireframe renders the edges of every triangle of mesh.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, c color.RGBA) bool {
	if !r.camera.Frustum().IntersectBox(mesh.GetBounds().Transform(transform)) {
		r.Stats.MeshesCulled++
		return false
	}
	r.Stats.MeshesDrawn++

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		p0, _ := mesh.GetVertex(face[0])
		p1, _ := mesh.GetVertex(face[1])
		p2, _ := mesh.GetVertex(face[2])

		v0, v1, v2 := transform.MulVec3(p0), transform.MulVec3(p1), transform.MulVec3(p2)
		r.drawLine3D(v0, v1, c)
		r.drawLine3D(v1, v2, c)
		r.drawLine3D(v2, v0, c)
		r.Stats.Triangles++
	}
	return true
}

// drawLine3D projects and draws a line segment. Segments with an endpoint
// behind the camera are skipped.
func (r *Rasterizer) drawLine3D(a, b math3d.Vec3, c color.RGBA) {
	viewProj := r.camera.ViewProjectionMatrix()
	clipA := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := viewProj.MulVec4(math3d.V4FromV3(b, 1))
	if clipA.W <= 0 || clipB.W <= 0 {
		return
	}

	w, h := float64(r.Width()), float64(r.Height())
	na, nb := clipA.PerspectiveDivide(), clipB.PerspectiveDivide()
	x0 := int((na.X + 1) * 0.5 * w)
	y0 := int((1 - na.Y) * 0.5 * h)
	x1 := int((nb.X + 1) * 0.5 * w)
	y1 := int((1 - nb.Y) * 0.5 * h)
	r.fb.DrawLine(x0, y0, x1, y1, c)
}

// barycentric returns the barycentric coordinates of (px, py) in the
// triangle (x0, y0), (x1, y1), (x2, y2).
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x1-x0, y1-y0
	v1x, v1y := x2-x0, y2-y0
	v2x, v2y := px-x0, py-y0

	den := v0x*v1y - v1x*v0y
	if math.Abs(den) < 1e-12 {
		return math3d.V3(-1, -1, -1)
	}
	v := (v2x*v1y - v1x*v2y) / den
	w := (v0x*v2y - v2x*v0y) / den
	return math3d.V3(1-v-w, v, w)
}

func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return Color{
		R: uint8(float64(c0.R)*bc.X + float64(c1.R)*bc.Y + float64(c2.R)*bc.Z),
		G: uint8(float64(c0.G)*bc.X + float64(c1.G)*bc.Y + float64(c2.G)*bc.Z),
		B: uint8(float64(c0.B)*bc.X + float64(c1.B)*bc.Y + float64(c2.B)*bc.Z),
		A: 255,
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
