package models

import (
	"math"

	"github.com/taigrr/showcase/pkg/math3d"
)

// NewBox creates an axis-aligned box centered on the origin with the given
// width (X), height (Y) and depth (Z). Each side gets its own vertices so
// the edges stay sharp.
func NewBox(name string, width, height, depth float64) *Mesh {
	m := NewMesh(name)
	hx, hy, hz := width/2, height/2, depth/2

	sides := []struct {
		normal, u, v math3d.Vec3
		extent       float64
	}{
		{math3d.V3(1, 0, 0), math3d.V3(0, 0, -hz), math3d.V3(0, hy, 0), hx},
		{math3d.V3(-1, 0, 0), math3d.V3(0, 0, hz), math3d.V3(0, hy, 0), hx},
		{math3d.V3(0, 1, 0), math3d.V3(hx, 0, 0), math3d.V3(0, 0, -hz), hy},
		{math3d.V3(0, -1, 0), math3d.V3(hx, 0, 0), math3d.V3(0, 0, hz), hy},
		{math3d.V3(0, 0, 1), math3d.V3(hx, 0, 0), math3d.V3(0, hy, 0), hz},
		{math3d.V3(0, 0, -1), math3d.V3(-hx, 0, 0), math3d.V3(0, hy, 0), hz},
	}

	for _, s := range sides {
		c := s.normal.Scale(s.extent)
		a := m.AddVertex(c.Sub(s.u).Sub(s.v), s.normal)
		b := m.AddVertex(c.Add(s.u).Sub(s.v), s.normal)
		d := m.AddVertex(c.Add(s.u).Add(s.v), s.normal)
		e := m.AddVertex(c.Sub(s.u).Add(s.v), s.normal)
		m.AddFace(a, b, d)
		m.AddFace(a, d, e)
	}

	m.CalculateBounds()
	return m
}

// NewTorus creates a ring in the XY plane around the Z axis. radius is the
// distance from the center to the middle of the tube.
func NewTorus(name string, radius, tube float64, radialSegments, tubularSegments int) *Mesh {
	m := NewMesh(name)
	radialSegments = max(radialSegments, 3)
	tubularSegments = max(tubularSegments, 3)

	for j := 0; j <= radialSegments; j++ {
		v := float64(j) / float64(radialSegments) * 2 * math.Pi
		for i := 0; i <= tubularSegments; i++ {
			u := float64(i) / float64(tubularSegments) * 2 * math.Pi

			pos := math3d.V3(
				(radius+tube*math.Cos(v))*math.Cos(u),
				(radius+tube*math.Cos(v))*math.Sin(u),
				tube*math.Sin(v),
			)
			center := math3d.V3(radius*math.Cos(u), radius*math.Sin(u), 0)
			m.AddVertex(pos, pos.Sub(center).Normalize())
		}
	}

	row := tubularSegments + 1
	for j := 1; j <= radialSegments; j++ {
		for i := 1; i <= tubularSegments; i++ {
			a := row*j + i - 1
			b := row*(j-1) + i - 1
			c := row*(j-1) + i
			d := row*j + i
			m.AddFace(a, b, d)
			m.AddFace(b, c, d)
		}
	}

	m.CalculateBounds()
	return m
}

// NewPlane creates a single-sided rectangle in the XY plane facing +Z.
func NewPlane(name string, width, height float64) *Mesh {
	m := NewMesh(name)
	hw, hh := width/2, height/2
	n := math3d.V3(0, 0, 1)

	a := m.AddVertex(math3d.V3(-hw, -hh, 0), n)
	b := m.AddVertex(math3d.V3(hw, -hh, 0), n)
	c := m.AddVertex(math3d.V3(hw, hh, 0), n)
	d := m.AddVertex(math3d.V3(-hw, hh, 0), n)
	m.AddFace(a, b, c)
	m.AddFace(a, c, d)

	m.CalculateBounds()
	return m
}

// NewCone creates a closed cone along the Y axis, centered on the origin,
// with its apex at +height/2.
func NewCone(name string, radius, height float64, radialSegments int) *Mesh {
	m := NewMesh(name)
	radialSegments = max(radialSegments, 3)
	half := height / 2

	apex := math3d.V3(0, half, 0)
	baseCenter := m.AddVertex(math3d.V3(0, -half, 0), math3d.V3(0, -1, 0))

	ring := make([]math3d.Vec3, radialSegments)
	for i := range ring {
		theta := float64(i) / float64(radialSegments) * 2 * math.Pi
		ring[i] = math3d.V3(radius*math.Sin(theta), -half, radius*math.Cos(theta))
	}

	for i := range ring {
		p0 := ring[i]
		p1 := ring[(i+1)%len(ring)]

		// Side facet with its own flat normal
		n := p1.Sub(p0).Cross(apex.Sub(p0)).Normalize()
		a := m.AddVertex(p0, n)
		b := m.AddVertex(p1, n)
		c := m.AddVertex(apex, n)
		m.AddFace(a, b, c)

		// Base cap
		down := math3d.V3(0, -1, 0)
		d := m.AddVertex(p0, down)
		e := m.AddVertex(p1, down)
		m.AddFace(baseCenter, e, d)
	}

	m.CalculateBounds()
	return m
}
