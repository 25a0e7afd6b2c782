// Package scene holds the displayed model: named parts with materials,
// the group that frames them, and the builders that produce it.
package scene

import (
	"github.com/taigrr/showcase/pkg/math3d"
	"github.com/taigrr/showcase/pkg/models"
)

// Part is one named mesh with a material and a placement inside its group.
type Part struct {
	Name     string
	Mesh     *models.Mesh
	Material models.Material
	Position math3d.Vec3
	Rotation math3d.Vec3 // Euler angles, radians
}

// NewPart wraps a mesh at the group origin.
func NewPart(name string, mesh *models.Mesh, mat models.Material) *Part {
	return &Part{Name: name, Mesh: mesh, Material: mat}
}

// Transform returns the part-to-group transform.
func (p *Part) Transform() math3d.Mat4 {
	return math3d.Compose(p.Position, p.Rotation, 1)
}

// Bounds returns the part's bounding box in group space.
func (p *Part) Bounds() math3d.Box3 {
	if p.Mesh == nil {
		return math3d.EmptyBox()
	}
	return p.Mesh.Bounds.Transform(p.Transform())
}

// Group is the assembled object shown to the user.
type Group struct {
	Name  string
	Parts []*Part

	// Offset recenters the parts before scaling.
	Offset math3d.Vec3
	Scale  float64

	// Tilt is the fixed presentation rotation; Spin is written every frame
	// by the render loop from the interaction state.
	Tilt math3d.Vec3
	Spin math3d.Vec3

	// Fallback marks a procedurally built stand-in.
	Fallback bool
}

// NewGroup creates an empty group with unit scale.
func NewGroup(name string) *Group {
	return &Group{Name: name, Scale: 1}
}

// Add appends parts in draw order.
func (g *Group) Add(parts ...*Part) {
	g.Parts = append(g.Parts, parts...)
}

// Part returns the part with the given name, or nil.
func (g *Group) Part(name string) *Part {
	for _, p := range g.Parts {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Transform returns the group-to-world transform: spin, then tilt, then
// uniform scale around the recentered origin.
func (g *Group) Transform() math3d.Mat4 {
	return math3d.RotateEuler(g.Spin).
		Mul(math3d.RotateEuler(g.Tilt)).
		Mul(math3d.ScaleUniform(g.Scale)).
		Mul(math3d.Translate(g.Offset))
}

// LocalBounds returns the union of all part bounds in group space.
func (g *Group) LocalBounds() math3d.Box3 {
	box := math3d.EmptyBox()
	for _, p := range g.Parts {
		box = box.Union(p.Bounds())
	}
	return box
}

// FramedBounds returns the group bounds after recentering and scaling but
// before any rotation, i.e. the extent the group was framed to.
func (g *Group) FramedBounds() math3d.Box3 {
	m := math3d.ScaleUniform(g.Scale).Mul(math3d.Translate(g.Offset))
	return g.LocalBounds().Transform(m)
}

// WorldBounds returns the bounds of the group with every rotation applied.
func (g *Group) WorldBounds() math3d.Box3 {
	return g.LocalBounds().Transform(g.Transform())
}

// TriangleCount returns the total number of triangles across parts.
func (g *Group) TriangleCount() int {
	n := 0
	for _, p := range g.Parts {
		if p.Mesh != nil {
			n += p.Mesh.TriangleCount()
		}
	}
	return n
}
