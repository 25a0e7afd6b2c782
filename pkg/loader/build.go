package loader

import (
	"go.uber.org/zap"

	"github.com/taigrr/showcase/pkg/scene"
)

// BuildGroup assembles loaded results into the displayed group. The first
// primary result decides the outcome: if it failed, or there is none, the
// procedural fallback is returned. Failed secondaries are left out.
func BuildGroup(name string, results []Result, asm *scene.Assembler, log *zap.Logger) *scene.Group {
	if log == nil {
		log = zap.NewNop()
	}

	var primary *scene.Part
	var secondaries []*scene.Part
	primarySeen := false

	for _, r := range results {
		switch {
		case r.Request.Role == RolePrimary && !primarySeen:
			primarySeen = true
			if r.OK() {
				primary = r.Part
			}
		case r.Request.Role == RolePrimary:
			log.Warn("extra primary part ignored", zap.String("part", r.Request.Name))
		case r.OK():
			secondaries = append(secondaries, r.Part)
		default:
			log.Warn("secondary part omitted", zap.String("part", r.Request.Name), zap.Error(r.Err))
		}
	}

	if primary == nil {
		log.Warn("primary part unavailable, showing fallback model")
		return scene.Fallback()
	}

	g := asm.Build(name, primary, secondaries...)
	log.Info("model assembled",
		zap.Int("parts", len(g.Parts)),
		zap.Int("triangles", g.TriangleCount()),
		zap.Float64("scale", g.Scale),
	)
	return g
}
