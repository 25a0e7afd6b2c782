package scene

import (
	"math"
	"testing"

	"github.com/taigrr/showcase/pkg/math3d"
	"github.com/taigrr/showcase/pkg/models"
)

var gray = models.Material{Name: "gray", Color: [3]uint8{128, 128, 128}, Opacity: 1}

// boxPart builds a normalized box part with the given extents.
func boxPart(name string, w, h, d float64) *Part {
	m := models.NewBox(name, w, h, d)
	m.Normalize()
	return NewPart(name, m, gray)
}

func TestSpiralPlacedLeftOfBody(t *testing.T) {
	body := boxPart("body", 2, 0.2, 4) // [-1,1]x[-0.1,0.1]x[-2,2]
	spiral := boxPart("spiral", 0.1, 0.1, 3.8)

	a := NewAssembler()
	g := a.Build("notebook", body, spiral)

	want := body.Bounds().Min.X - DefaultClearance
	if math.Abs(spiral.Position.X-want) > 1e-12 {
		t.Errorf("spiral x = %v, want %v", spiral.Position.X, want)
	}
	if spiral.Position.Y != 0 || spiral.Position.Z != 0 {
		t.Errorf("spiral should only move along x, got %v", spiral.Position)
	}
	if math.Abs(spiral.Position.X-(-1.2)) > 1e-12 {
		t.Errorf("spiral x = %v, want -1.2", spiral.Position.X)
	}
	if len(g.Parts) != 2 {
		t.Errorf("group has %d parts, want 2", len(g.Parts))
	}
}

func TestPlaceSecondarySides(t *testing.T) {
	body := boxPart("body", 2, 0.2, 4)
	tests := []struct {
		side Side
		want math3d.Vec3
	}{
		{SideNegX, math3d.V3(-1.2, 0, 0)},
		{SidePosX, math3d.V3(1.2, 0, 0)},
		{SideNegY, math3d.V3(0, -0.3, 0)},
		{SidePosY, math3d.V3(0, 0.3, 0)},
		{SideNegZ, math3d.V3(0, 0, -2.2)},
		{SidePosZ, math3d.V3(0, 0, 2.2)},
	}

	for _, tc := range tests {
		t.Run(tc.side.String(), func(t *testing.T) {
			a := NewAssembler()
			a.Side = tc.side
			p := boxPart("spiral", 0.1, 0.1, 0.1)
			a.PlaceSecondary(p, body)
			if !p.Position.ApproxEqual(tc.want, 1e-12) {
				t.Errorf("position = %v, want %v", p.Position, tc.want)
			}
		})
	}
}

func TestPlaceSecondaryWithoutPrimary(t *testing.T) {
	p := boxPart("spiral", 0.1, 0.1, 3)
	p.Position = math3d.V3(5, 5, 5)

	NewAssembler().PlaceSecondary(p, nil)
	if p.Position != math3d.Zero3() {
		t.Errorf("position = %v, want origin", p.Position)
	}
}

func TestFrameTargetSizeIndependentOfUnits(t *testing.T) {
	for _, unit := range []float64{0.001, 1, 25.4, 1000} {
		body := boxPart("body", 2*unit, 0.2*unit, 4*unit)
		spiral := boxPart("spiral", 0.1*unit, 0.1*unit, 3.8*unit)

		g := NewAssembler().Build("notebook", body, spiral)
		box := g.FramedBounds()

		if got := box.MaxExtent(); math.Abs(got-DefaultTargetSize) > 1e-9 {
			t.Errorf("unit %v: extent = %v, want %v", unit, got, DefaultTargetSize)
		}
		if !box.Center().ApproxEqual(math3d.Zero3(), 1e-9) {
			t.Errorf("unit %v: framed center = %v, want origin", unit, box.Center())
		}
		if g.Tilt != DefaultTilt {
			t.Errorf("unit %v: tilt = %v", unit, g.Tilt)
		}
	}
}

func TestFrameCustomTarget(t *testing.T) {
	a := NewAssembler()
	a.TargetSize = 3
	g := a.Build("compact", boxPart("body", 10, 1, 5))

	if got := g.FramedBounds().MaxExtent(); math.Abs(got-3) > 1e-9 {
		t.Errorf("extent = %v, want 3", got)
	}
}

func TestBuildWithoutPrimaryFallsBack(t *testing.T) {
	g := NewAssembler().Build("notebook", nil, boxPart("spiral", 0.1, 0.1, 3))

	if !g.Fallback {
		t.Fatal("expected fallback group")
	}
	if g.Part("spiral") != nil {
		t.Error("fallback should not include loaded secondaries")
	}
}

func TestBuildSkipsMissingSecondary(t *testing.T) {
	g := NewAssembler().Build("notebook", boxPart("body", 2, 0.2, 4), nil)
	if len(g.Parts) != 1 {
		t.Errorf("group has %d parts, want 1", len(g.Parts))
	}
}

func TestFallbackContents(t *testing.T) {
	g := Fallback()

	// body + rings + label + fold
	if want := 1 + fallbackRings + 2; len(g.Parts) != want {
		t.Fatalf("fallback has %d parts, want %d", len(g.Parts), want)
	}
	if g.Part("body") == nil || g.Part("label") == nil || g.Part("fold") == nil {
		t.Error("fallback is missing a named part")
	}

	first, last := g.Part("ring-00"), g.Part("ring-19")
	if first == nil || last == nil {
		t.Fatal("missing ring parts")
	}
	if first.Mesh != last.Mesh {
		t.Error("rings should share one mesh")
	}
	if math.Abs(last.Position.Z-(-1.8+19*0.2)) > 1e-12 {
		t.Errorf("last ring z = %v", last.Position.Z)
	}
	if g.Part("body").Material.Opacity != 0.95 {
		t.Errorf("body opacity = %v", g.Part("body").Material.Opacity)
	}
}

func TestFallbackDeterministic(t *testing.T) {
	a, b := Fallback(), Fallback()
	if a.TriangleCount() != b.TriangleCount() {
		t.Fatalf("triangle counts differ: %d vs %d", a.TriangleCount(), b.TriangleCount())
	}
	if a.LocalBounds() != b.LocalBounds() {
		t.Errorf("bounds differ: %v vs %v", a.LocalBounds(), b.LocalBounds())
	}
}

func TestParseSide(t *testing.T) {
	tests := map[string]Side{"-x": SideNegX, "+X": SidePosX, "y": SidePosY, " -z ": SideNegZ}
	for in, want := range tests {
		got, err := ParseSide(in)
		if err != nil || got != want {
			t.Errorf("ParseSide(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSide("left"); err == nil {
		t.Error("expected error for unknown side")
	}
}
