// Package config loads the viewer configuration: the parts to show, view
// and viewport settings, input sensitivities and logging.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taigrr/showcase/pkg/interaction"
	"github.com/taigrr/showcase/pkg/loader"
	"github.com/taigrr/showcase/pkg/models"
	"github.com/taigrr/showcase/pkg/scene"
	"github.com/taigrr/showcase/pkg/viewport"
)

// ErrNoAssets is returned by Validate when no parts are configured.
var ErrNoAssets = errors.New("no model parts configured")

// Config holds all viewer settings.
type Config struct {
	Assets   AssetsConfig       `yaml:"assets"`
	View     ViewConfig         `yaml:"view"`
	Viewport viewport.Config    `yaml:"viewport"`
	Input    interaction.Config `yaml:"input"`
	Logging  LoggingConfig      `yaml:"logging"`
}

// AssetsConfig describes the model and where its parts come from.
type AssetsConfig struct {
	Name string `yaml:"name"`
	Root string `yaml:"root"` // base directory for relative sources

	Parts []PartConfig `yaml:"parts"`

	Side      string  `yaml:"side"`      // primary face secondaries sit against
	Clearance float64 `yaml:"clearance"` // gap in primary units

	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`

	// Watch reloads the model when a local part file changes.
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// PartConfig is one mesh part.
type PartConfig struct {
	Name    string  `yaml:"name"`
	Source  string  `yaml:"source"` // path under Root, or http(s) URL
	Role    string  `yaml:"role"`   // primary or secondary
	Color   string  `yaml:"color"`  // hex
	Opacity float64 `yaml:"opacity"`
}

// ViewConfig holds render loop settings.
type ViewConfig struct {
	FPS        int     `yaml:"fps"`
	Wireframe  bool    `yaml:"wireframe"`
	HUD        bool    `yaml:"hud"`
	AutoRotate float64 `yaml:"auto_rotate"` // yaw radians per frame while idle
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the stock notebook configuration.
func Default() *Config {
	return &Config{
		Assets: AssetsConfig{
			Name: "notebook",
			Root: ".",
			Parts: []PartConfig{
				{Name: "body", Source: "3D/notepad-libreta.STL", Role: "primary", Color: "#ffffff", Opacity: 1},
				{Name: "spiral", Source: "3D/notepad-resorte.STL", Role: "secondary", Color: "#444444", Opacity: 1},
			},
			Side:        scene.SideNegX.String(),
			Clearance:   scene.DefaultClearance,
			Concurrency: 4,
			Timeout:     30 * time.Second,
			Debounce:    250 * time.Millisecond,
		},
		View: ViewConfig{
			FPS:        60,
			HUD:        true,
			AutoRotate: 0.003,
		},
		Viewport: viewport.DefaultConfig(),
		Input:    interaction.DefaultConfig(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if len(c.Assets.Parts) == 0 {
		errs = append(errs, ErrNoAssets)
	}
	primaries := 0
	for i, p := range c.Assets.Parts {
		if p.Source == "" {
			fail("parts[%d]: source is required", i)
		}
		role, err := parseRole(p.Role)
		if err != nil {
			fail("parts[%d]: %w", i, err)
		} else if role == loader.RolePrimary {
			primaries++
		}
		if _, err := models.NewMaterial(p.Name, p.Color, p.Opacity); err != nil {
			fail("parts[%d]: %w", i, err)
		}
		if p.Opacity < 0 || p.Opacity > 1 {
			fail("parts[%d]: opacity must be in [0, 1], got %g", i, p.Opacity)
		}
	}
	if len(c.Assets.Parts) > 0 && primaries != 1 {
		fail("exactly one primary part is required, found %d", primaries)
	}
	if _, err := scene.ParseSide(c.Assets.Side); err != nil {
		fail("assets.side: %w", err)
	}
	if c.Assets.Clearance < 0 {
		fail("assets.clearance must not be negative")
	}
	if c.Assets.Concurrency < 0 {
		fail("assets.concurrency must not be negative")
	}
	if c.Assets.Timeout <= 0 {
		fail("assets.timeout must be positive, got %s", c.Assets.Timeout)
	}
	if c.Assets.Debounce < 0 {
		fail("assets.debounce must not be negative")
	}

	if c.View.FPS < 1 || c.View.FPS > 240 {
		fail("view.fps must be between 1 and 240, got %d", c.View.FPS)
	}

	for _, p := range []viewport.Profile{c.Viewport.Full, c.Viewport.Compact} {
		if p.FOV <= 0 || p.FOV >= 180 {
			fail("viewport profile fov must be in (0, 180), got %g", p.FOV)
		}
		if p.Smoothing <= 0 || p.Smoothing > 1 {
			fail("viewport profile smoothing must be in (0, 1], got %g", p.Smoothing)
		}
		if p.TargetSize <= 0 {
			fail("viewport profile target_size must be positive")
		}
		if p.PixelRatioCap < 1 {
			fail("viewport profile pixel_ratio_cap must be at least 1")
		}
	}
	if c.Viewport.PixelRatio < 1 {
		fail("viewport.pixel_ratio must be at least 1, got %g", c.Viewport.PixelRatio)
	}

	in := c.Input
	if in.MinDistance <= 0 || in.MinDistance >= in.MaxDistance {
		fail("input distance range [%g, %g] is invalid", in.MinDistance, in.MaxDistance)
	}
	if in.MaxTilt < 0 {
		fail("input.max_tilt must not be negative")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		fail("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	return errors.Join(errs...)
}

func parseRole(s string) (loader.Role, error) {
	switch strings.ToLower(s) {
	case "primary", "":
		return loader.RolePrimary, nil
	case "secondary":
		return loader.RoleSecondary, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Requests converts the configured parts into loader requests.
func (c *Config) Requests() ([]loader.Request, error) {
	reqs := make([]loader.Request, 0, len(c.Assets.Parts))
	for _, p := range c.Assets.Parts {
		role, err := parseRole(p.Role)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", p.Name, err)
		}
		mat, err := models.NewMaterial(p.Name, p.Color, p.Opacity)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", p.Name, err)
		}
		reqs = append(reqs, loader.Request{
			Name:     p.Name,
			Source:   p.Source,
			Role:     role,
			Material: mat,
		})
	}
	return reqs, nil
}

// Assembler returns the composite assembler for the given target size.
func (c *Config) Assembler(targetSize float64) (*scene.Assembler, error) {
	side, err := scene.ParseSide(c.Assets.Side)
	if err != nil {
		return nil, err
	}
	asm := scene.NewAssembler()
	asm.Side = side
	asm.Clearance = c.Assets.Clearance
	if targetSize > 0 {
		asm.TargetSize = targetSize
	}
	return asm, nil
}
