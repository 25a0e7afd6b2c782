package viewport

import (
	"math"
	"testing"

	"github.com/taigrr/showcase/pkg/render"
	"github.com/taigrr/showcase/pkg/scene"
)

func newTestViewport(t *testing.T, cols, rows int) *Viewport {
	t.Helper()
	v, err := New(DefaultConfig(), 60, cols, rows)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestResolve(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		cols int
		want Class
	}{
		{40, Compact},
		{99, Compact},
		{100, Full},
		{220, Full},
	}
	for _, tc := range tests {
		if got := Resolve(tc.cols, cfg); got.Class != tc.want {
			t.Errorf("Resolve(%d) = %v, want %v", tc.cols, got.Class, tc.want)
		}
	}

	full := Resolve(120, cfg)
	if full.FOV != 75 || full.Distance != 8 || full.Smoothing != 0.12 || full.TargetSize != 4 {
		t.Errorf("full profile = %+v", full)
	}
	compact := Resolve(60, cfg)
	if compact.Smoothing >= full.Smoothing {
		t.Error("compact should smooth more slowly than full")
	}
}

func TestPixelRatio(t *testing.T) {
	full := DefaultConfig().Full
	if got := full.PixelRatio(3); got != 2 {
		t.Errorf("capped ratio = %d, want 2", got)
	}
	if got := full.PixelRatio(1.5); got != 1 {
		t.Errorf("fractional ratio = %d, want 1", got)
	}
	if got := full.PixelRatio(0); got != 1 {
		t.Errorf("zero ratio = %d, want 1", got)
	}
}

func TestResizeAppliesTogether(t *testing.T) {
	v := newTestViewport(t, 120, 40)

	w, h := v.FramebufferSize()
	if w != 240 || h != 160 {
		t.Fatalf("framebuffer = %dx%d, want 240x160", w, h)
	}
	if v.Framebuffer().Width != w || v.Framebuffer().Height != h {
		t.Error("framebuffer not resized")
	}
	if math.Abs(v.Camera.AspectRatio-1.5) > 1e-12 {
		t.Errorf("aspect = %v, want 1.5", v.Camera.AspectRatio)
	}

	if !v.Resize(60, 30) {
		t.Error("crossing the compact threshold should report a class change")
	}
	w, h = v.FramebufferSize()
	if v.PixelRatio() != 1 || w != 60 || h != 60 {
		t.Errorf("after resize: ratio %d, %dx%d", v.PixelRatio(), w, h)
	}
	if math.Abs(v.Camera.FOV-render.Degrees(85)) > 1e-12 {
		t.Errorf("fov = %v", v.Camera.FOV)
	}
	if v.Resize(70, 30) {
		t.Error("same class should not report a change")
	}
}

func TestHiddenUntilShown(t *testing.T) {
	v := newTestViewport(t, 120, 40)
	g := scene.Fallback()

	v.Resize(0, 0)
	if !v.Hidden() || v.Render(g, false) {
		t.Fatal("zero-size viewport should skip drawing")
	}

	v.Shown()
	if v.Hidden() {
		t.Fatal("Shown should restore the last real size")
	}
	if cols, rows := v.Size(); cols != 120 || rows != 40 {
		t.Errorf("size = %dx%d", cols, rows)
	}
	if !v.Render(g, false) {
		t.Error("visible viewport should draw")
	}
}

func TestHiddenFromStart(t *testing.T) {
	v := newTestViewport(t, 0, 0)
	if !v.Hidden() || v.Shown() {
		t.Fatal("viewport without a size cannot be shown")
	}
	v.Resize(120, 40)
	if v.Hidden() {
		t.Error("resize to a real size should show the viewport")
	}
}

func TestUpdateEasesDistance(t *testing.T) {
	v := newTestViewport(t, 120, 40)
	if v.Distance() != 8 {
		t.Fatalf("initial distance = %v, want 8", v.Distance())
	}

	v.Update(12)
	first := v.Distance()
	if first <= 8 || first >= 12 {
		t.Errorf("first step = %v, want between 8 and 12", first)
	}
	for range 600 {
		v.Update(12)
	}
	if math.Abs(v.Distance()-12) > 1e-3 {
		t.Errorf("distance = %v, want ~12", v.Distance())
	}
	if math.Abs(v.Camera.Distance()-v.Distance()) > 1e-9 {
		t.Error("camera not moved with distance")
	}

	v.SnapDistance(5)
	if v.Camera.Distance() != 5 {
		t.Errorf("snap = %v", v.Camera.Distance())
	}
}

func TestRenderDrawsGroup(t *testing.T) {
	v := newTestViewport(t, 120, 40)
	g := scene.Fallback()

	if !v.Render(g, false) {
		t.Fatal("render skipped")
	}
	fb := v.Framebuffer()
	bg := render.RGB(0x1a, 0x1a, 0x1a)
	if fb.GetPixel(0, 0) != bg {
		t.Errorf("corner = %v, want background", fb.GetPixel(0, 0))
	}
	if fb.GetPixel(fb.Width/2, fb.Height/2) == bg {
		t.Error("center should show the model")
	}
	if v.Stats().MeshesDrawn != len(g.Parts) {
		t.Errorf("drawn %d of %d parts", v.Stats().MeshesDrawn, len(g.Parts))
	}

	v.Render(g, true)
	if fb.GetPixel(0, 0) != bg {
		t.Error("wireframe should clear to background")
	}
}

func TestBadBackground(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Background = "nope"
	if _, err := New(cfg, 60, 80, 24); err == nil {
		t.Error("expected error for bad background color")
	}
}
