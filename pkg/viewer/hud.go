package viewer

import (
	"fmt"
	"image/color"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/showcase/pkg/render"
	"github.com/taigrr/showcase/pkg/viewport"
)

// HUD colors.
var (
	hudBg    = lipgloss.Color("#000000")
	hudText  = lipgloss.Color("#ffffff")
	hudGreen = lipgloss.Color("#5fff87")
	hudCyan  = lipgloss.Color("#5fd7ff")
	hudAmber = lipgloss.Color("#ffd75f")
	hudDim   = lipgloss.Color("#808080")
)

// Info is what the HUD shows about the current frame.
type Info struct {
	Name       string
	Parts      int
	Triangles  int
	Class      viewport.Class
	PixelRatio int
	Fallback   bool
	Wireframe  bool
	Loading    bool
}

// HUD draws a one-line overlay at the top and bottom of the canvas.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a HUD whose FPS window starts now.
func NewHUD(now time.Time) *HUD {
	return &HUD{fpsTime: now}
}

// Frame counts one presented frame.
func (h *HUD) Frame(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// FPS returns the frame rate measured over the last full second.
func (h *HUD) FPS() float64 { return h.fps }

// Draw writes the overlay into the top and bottom rows of a cols x rows
// area.
func (h *HUD) Draw(scr render.CellSetter, cols, rows int, info Info) {
	if cols <= 0 || rows <= 0 {
		return
	}

	fill(scr, 0, cols)
	drawText(scr, 0, 0, fmt.Sprintf(" %.0f FPS ", h.fps), hudGreen)

	title := " " + info.Name + " "
	if info.Loading {
		title = " loading… "
	}
	drawText(scr, max((cols-lipgloss.Width(title))/2, 0), 0, title, hudText)

	counts := fmt.Sprintf(" %d parts · %d tris ", info.Parts, info.Triangles)
	drawText(scr, max(cols-lipgloss.Width(counts), 0), 0, counts, hudCyan)

	if rows < 2 {
		return
	}
	bottom := rows - 1
	fill(scr, bottom, cols)

	mode := fmt.Sprintf(" %s ×%d ", info.Class, info.PixelRatio)
	x := drawText(scr, 0, bottom, mode, hudText)
	if info.Fallback {
		x = drawText(scr, x, bottom, " fallback model ", hudAmber)
	}
	wire := "[ ]"
	if info.Wireframe {
		wire = "[x]"
	}
	drawText(scr, x, bottom, " "+wire+" wireframe ", hudText)

	hint := " x wire  ? hud  r reset "
	drawText(scr, max(cols-lipgloss.Width(hint), 0), bottom, hint, hudDim)
}

func fill(scr render.CellSetter, row, cols int) {
	for x := range cols {
		scr.SetCell(x, row, &uv.Cell{Content: " ", Width: 1, Style: uv.Style{Bg: hudBg}})
	}
}

// drawText writes s one cell per rune and returns the column after it.
func drawText(scr render.CellSetter, x, y int, s string, fg color.Color) int {
	for _, r := range s {
		scr.SetCell(x, y, &uv.Cell{
			Content: string(r),
			Width:   1,
			Style:   uv.Style{Fg: fg, Bg: hudBg},
		})
		x++
	}
	return x
}
