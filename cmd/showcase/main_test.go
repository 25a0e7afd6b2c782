package main

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taigrr/showcase/internal/config"
	"github.com/taigrr/showcase/pkg/interaction"
	"github.com/taigrr/showcase/pkg/scene"
	"github.com/taigrr/showcase/pkg/viewer"
)

func TestTranslateMouse(t *testing.T) {
	tests := []struct {
		name string
		ev   uv.Event
		want interaction.Event
	}{
		{"click", uv.MouseClickEvent{X: 3, Y: 4}, interaction.PointerDown{X: 3, Y: 4}},
		{"motion", uv.MouseMotionEvent{X: 5, Y: 6}, interaction.PointerMove{X: 5, Y: 6}},
		{"release", uv.MouseReleaseEvent{X: 5, Y: 6}, interaction.PointerUp{}},
		{"wheel up", uv.MouseWheelEvent{Button: uv.MouseWheelUp}, interaction.Wheel{DeltaY: -wheelNotch}},
		{"wheel down", uv.MouseWheelEvent{Button: uv.MouseWheelDown}, interaction.Wheel{DeltaY: wheelNotch}},
		{"resize", uv.WindowSizeEvent{Width: 80, Height: 24}, interaction.Resize{Width: 80, Height: 24}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, ok := translate(tt.ev)
			if !ok {
				t.Fatal("event ignored")
			}
			if in.event != tt.want {
				t.Errorf("got %#v, want %#v", in.event, tt.want)
			}
		})
	}
}

func TestTranslateKeys(t *testing.T) {
	press := func(code rune, text string) uv.KeyPressEvent {
		return uv.KeyPressEvent{Code: code, Text: text}
	}

	if in, ok := translate(press(uv.KeyEscape, "")); !ok || !in.quit {
		t.Error("escape should quit")
	}
	if in, ok := translate(press(uv.KeyLeft, "")); !ok || in.event != (interaction.Key{Code: interaction.KeyLeft}) {
		t.Errorf("left arrow = %#v", in.event)
	}
	if in, ok := translate(press('r', "r")); !ok || in.event != (interaction.Key{Code: interaction.KeyReset}) {
		t.Errorf("r = %#v", in.event)
	}
	if in, ok := translate(press('x', "x")); !ok || !in.isCmd || in.command != viewer.ToggleWireframe {
		t.Errorf("x = %#v", in)
	}
	if _, ok := translate(press('z', "z")); ok {
		t.Error("unbound key should be ignored")
	}
}

func TestTranslateFocus(t *testing.T) {
	if in, ok := translate(uv.BlurEvent{}); !ok || !in.isCmd || in.command != viewer.Hide {
		t.Errorf("blur = %#v", in)
	}
	if in, ok := translate(uv.FocusEvent{}); !ok || !in.isCmd || in.command != viewer.Show {
		t.Errorf("focus = %#v", in)
	}
}

// missingAssets returns the default config pointed at an empty root, so the
// primary part fails and the fallback model is used.
func missingAssets(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Assets.Root = t.TempDir()
	return cfg
}

func TestLoadModelFallsBack(t *testing.T) {
	g, results, err := loadModel(context.Background(), missingAssets(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Fallback {
		t.Error("expected fallback group")
	}
	if len(results) != 2 || results[0].OK() || results[1].OK() {
		t.Errorf("unexpected results %+v", results)
	}

	out := renderInfo(g, results)
	for _, want := range []string{"body", "spiral", "failed", "fallback"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestLocalSources(t *testing.T) {
	cfg := config.Default()
	cfg.Assets.Root = "assets"
	cfg.Assets.Parts[1].Source = "https://cdn.test/spiral.stl"

	files := localSources(cfg)
	want := filepath.Join("assets", "3D", "notepad-libreta.STL")
	if len(files) != 1 || files[0] != want {
		t.Errorf("localSources = %v, want [%s]", files, want)
	}
}

func TestSnapshot(t *testing.T) {
	cfg := missingAssets(t)
	g, _, err := loadModel(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "frame.png")
	opts := snapshotOptions{output: out, cols: 40, rows: 12, yaw: 0.5, pitch: 2}
	if err := snapshot(cfg, g, opts); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	// 40 columns is the compact profile: pixel ratio 1, two pixels per row.
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 24 {
		t.Errorf("image = %dx%d, want 40x24", b.Dx(), b.Dy())
	}

	opts.cols = 0
	if err := snapshot(cfg, g, opts); err == nil {
		t.Error("expected error for empty canvas")
	}
}

func TestProgressLoggerThrottles(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	report := progressLogger(zap.New(core))

	report("body", 10, 1000)   // 1%
	report("body", 15, 1000)   // still 1%
	report("body", 20, 1000)   // 2%
	report("body", 500, -1)    // unknown size
	report("spiral", 0, 200)   // 0%, separate part
	report("body", 1000, 1000) // done
	report("body", 1000, 1000) // a reload finishing again

	entries := logs.FilterMessage("part progress").All()
	if len(entries) != 5 {
		t.Fatalf("logged %d progress entries, want 5", len(entries))
	}
	var percents []int64
	for _, e := range entries {
		percents = append(percents, e.ContextMap()["percent"].(int64))
	}
	want := []int64{1, 2, 0, 100, 100}
	for i := range want {
		if percents[i] != want[i] {
			t.Errorf("percents = %v, want %v", percents, want)
			break
		}
	}
	if part := entries[2].ContextMap()["part"]; part != "spiral" {
		t.Errorf("third entry part = %v, want spiral", part)
	}
}

func TestNewLoaderReportsProgress(t *testing.T) {
	cfg := missingAssets(t)
	if newLoader(cfg, zap.NewNop()).OnProgress == nil {
		t.Error("loader progress is not wired")
	}
}

func TestReloaderDropsSupersededLoad(t *testing.T) {
	type pending struct {
		ctx     context.Context
		deliver func(*scene.Group)
	}
	var started []pending
	var delivered []*scene.Group

	rl := &reloader{
		start: func(ctx context.Context, deliver func(*scene.Group)) error {
			started = append(started, pending{ctx, deliver})
			return nil
		},
		deliver: func(g *scene.Group) { delivered = append(delivered, g) },
	}

	ctx := context.Background()
	if err := rl.trigger(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rl.trigger(ctx); err != nil {
		t.Fatal(err)
	}
	if len(started) != 2 {
		t.Fatalf("started %d loads, want 2", len(started))
	}
	if started[0].ctx.Err() == nil {
		t.Error("first load was not canceled")
	}
	if started[1].ctx.Err() != nil {
		t.Error("current load is canceled")
	}

	newer, older := scene.Fallback(), scene.Fallback()
	started[1].deliver(newer)
	started[0].deliver(older)
	if len(delivered) != 1 || delivered[0] != newer {
		t.Errorf("delivered %d groups, want only the newer one", len(delivered))
	}
}

func TestReloaderEndToEnd(t *testing.T) {
	cfg := missingAssets(t)
	groups := make(chan *scene.Group, 2)
	rl := newReloader(newLoader(cfg, zap.NewNop()), cfg, zap.NewNop(), func(g *scene.Group) { groups <- g })

	if err := rl.trigger(context.Background()); err != nil {
		t.Fatal(err)
	}
	select {
	case g := <-groups:
		if !g.Fallback {
			t.Error("missing assets should yield the fallback")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no group delivered")
	}
}
