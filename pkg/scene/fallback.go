package scene

import (
	"fmt"
	"math"

	"github.com/taigrr/showcase/pkg/math3d"
	"github.com/taigrr/showcase/pkg/models"
)

// Fallback notebook dimensions.
const (
	fallbackRings       = 20
	fallbackRingSpacing = 0.2
	fallbackRingRadius  = 0.05
	fallbackRingTube    = 0.02
)

var (
	fallbackCover = models.MustMaterial("cover", "#ffffff", 0.95)
	fallbackWire  = models.MustMaterial("wire", "#333333", 1)
	fallbackLabel = models.MustMaterial("label", "#2c3e50", 0.8)
	fallbackFold  = models.MustMaterial("fold", "#e0e0e0", 1)
)

// Fallback builds a stand-in notebook from primitives: a flat body, a row
// of rings along the left edge for the spiral binding, a label plane on the
// cover and a small cone as a folded corner. The result is deterministic
// and already sized for the full display, so it is not reframed.
func Fallback() *Group {
	g := NewGroup("fallback")
	g.Fallback = true

	g.Add(NewPart("body", models.NewBox("body", 3, 0.3, 4), fallbackCover))

	// One ring mesh shared by every ring part.
	ring := models.NewTorus("ring", fallbackRingRadius, fallbackRingTube, 8, 24)
	for i := range fallbackRings {
		p := NewPart(fmt.Sprintf("ring-%02d", i), ring, fallbackWire)
		p.Position = math3d.V3(-1.3, 0.16, -1.8+float64(i)*fallbackRingSpacing)
		p.Rotation = math3d.V3(math.Pi/2, 0, 0)
		g.Add(p)
	}

	label := NewPart("label", models.NewPlane("label", 1.5, 0.8), fallbackLabel)
	label.Position = math3d.V3(0.3, 0.16, 0.5)
	label.Rotation = math3d.V3(-math.Pi/2, 0, 0)
	g.Add(label)

	fold := NewPart("fold", models.NewCone("fold", 0.3, 0.1, 3), fallbackFold)
	fold.Position = math3d.V3(1.3, 0.2, -1.8)
	fold.Rotation = math3d.V3(0, math.Pi/4, 0)
	g.Add(fold)

	return g
}
