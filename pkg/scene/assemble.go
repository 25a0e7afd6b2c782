package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/taigrr/showcase/pkg/math3d"
)

// Side names the face of the primary part's bounding box that secondary
// parts are placed against.
type Side int

const (
	SideNegX Side = iota
	SidePosX
	SideNegY
	SidePosY
	SideNegZ
	SidePosZ
)

var sideNames = [...]string{"-x", "+x", "-y", "+y", "-z", "+z"}

// String implements fmt.Stringer.
func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// ParseSide parses "-x", "+y", "z" (same as "+z") and so on.
func ParseSide(s string) (Side, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 {
		s = "+" + s
	}
	for i, name := range sideNames {
		if s == name {
			return Side(i), nil
		}
	}
	return 0, fmt.Errorf("unknown side %q (want one of %s)", s, strings.Join(sideNames[:], ", "))
}

// Default framing values.
const (
	DefaultTargetSize = 4.0
	DefaultClearance  = 0.2
)

// DefaultTilt is the presentation rotation applied after framing.
var DefaultTilt = math3d.V3(-math.Pi/12, math.Pi/8, 0)

// Assembler combines normalized parts into a framed Group.
type Assembler struct {
	TargetSize float64     // largest extent after scaling
	Clearance  float64     // gap between primary bounds and a secondary part
	Side       Side        // primary face secondaries are placed against
	Tilt       math3d.Vec3 // presentation rotation
}

// NewAssembler returns an assembler with the default framing.
func NewAssembler() *Assembler {
	return &Assembler{
		TargetSize: DefaultTargetSize,
		Clearance:  DefaultClearance,
		Side:       SideNegX,
		Tilt:       DefaultTilt,
	}
}

// PlaceSecondary positions part just outside primary's bounding box on the
// configured side. Without a primary the part stays at the origin.
func (a *Assembler) PlaceSecondary(part, primary *Part) {
	part.Position = math3d.Zero3()
	if primary == nil {
		return
	}

	box := primary.Bounds()
	switch a.Side {
	case SideNegX:
		part.Position.X = box.Min.X - a.Clearance
	case SidePosX:
		part.Position.X = box.Max.X + a.Clearance
	case SideNegY:
		part.Position.Y = box.Min.Y - a.Clearance
	case SidePosY:
		part.Position.Y = box.Max.Y + a.Clearance
	case SideNegZ:
		part.Position.Z = box.Min.Z - a.Clearance
	case SidePosZ:
		part.Position.Z = box.Max.Z + a.Clearance
	}
}

// Assemble recenters the group on the origin, scales it so its largest
// extent equals TargetSize and applies the presentation tilt.
func (a *Assembler) Assemble(g *Group) {
	box := g.LocalBounds()
	g.Offset = box.Center().Negate()
	g.Scale = 1
	if extent := box.MaxExtent(); extent > 0 {
		g.Scale = a.TargetSize / extent
	}
	g.Tilt = a.Tilt
}

// Build assembles primary and the successfully loaded secondaries. A nil
// primary yields the procedural fallback instead of a partial group.
func (a *Assembler) Build(name string, primary *Part, secondaries ...*Part) *Group {
	if primary == nil {
		return Fallback()
	}

	g := NewGroup(name)
	g.Add(primary)
	for _, s := range secondaries {
		if s == nil {
			continue
		}
		a.PlaceSecondary(s, primary)
		g.Add(s)
	}
	a.Assemble(g)
	return g
}
