package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each cell shows two stacked pixels using ▀ with the top pixel as
// foreground and the bottom pixel as background.
func (fb *Framebuffer) Draw(scr CellSetter, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, botY)),
				},
			})
		}
	}
}

// rgbaToColor converts color.RGBA to color.Color, mapping fully
// transparent pixels to the terminal default.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// CellSetter is the part of uv.Screen the framebuffer draws through.
type CellSetter interface {
	SetCell(x, y int, c *uv.Cell)
}

// Display is a cell target that can flush drawn cells, such as *uv.Terminal.
type Display interface {
	CellSetter
	Display() error
}

// TerminalRenderer presents a supersampled framebuffer on a terminal.
type TerminalRenderer struct {
	out   Display
	area  uv.Rectangle
	ratio int
	cells *Framebuffer
}

// NewTerminalRenderer creates a renderer for a cols x rows area of out,
// with the framebuffer supersampled by ratio on both axes.
func NewTerminalRenderer(out Display, cols, rows, ratio int) *TerminalRenderer {
	t := &TerminalRenderer{out: out, cells: NewFramebuffer(0, 0)}
	t.Resize(cols, rows, ratio)
	return t
}

// Resize changes the target area and supersampling factor.
func (t *TerminalRenderer) Resize(cols, rows, ratio int) {
	t.area = uv.Rect(0, 0, max(cols, 0), max(rows, 0))
	t.ratio = max(ratio, 1)
}

// FramebufferSize returns the framebuffer dimensions that fill the area.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.area.Dx() * t.ratio, t.area.Dy() * 2 * t.ratio
}

// Render downsamples fb to cell resolution and draws it.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	src := fb
	if t.ratio > 1 {
		fb.Downsample(t.ratio, t.cells)
		src = t.cells
	}
	src.Draw(t.out, t.area)
}

// Flush writes pending cell changes to the terminal.
func (t *TerminalRenderer) Flush() error {
	return t.out.Display()
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}
