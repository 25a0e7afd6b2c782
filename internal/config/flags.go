package config

import (
	"github.com/spf13/pflag"
)

// Flags are the command line overrides. They win over the config file.
type Flags struct {
	ConfigPath string
	Root       string
	FPS        int
	Wireframe  bool
	HUD        bool
	Watch      bool
	Side       string
	PixelRatio float64
	LogLevel   string
	LogFile    string
	Debug      bool
}

// Register adds the flags to fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to config file")
	fs.StringVar(&f.Root, "root", "", "base directory for relative part sources")
	fs.IntVar(&f.FPS, "fps", 0, "target frames per second")
	fs.BoolVarP(&f.Wireframe, "wireframe", "w", false, "render in wireframe mode")
	fs.BoolVar(&f.HUD, "hud", true, "show the HUD overlay")
	fs.BoolVar(&f.Watch, "watch", false, "reload the model when part files change")
	fs.StringVar(&f.Side, "side", "", "primary face the secondary parts sit against (-x, +y, ...)")
	fs.Float64Var(&f.PixelRatio, "pixel-ratio", 0, "supersampling factor, capped by the device profile")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "write logs to this file")
	fs.BoolVar(&f.Debug, "debug", false, "debug logging")
}

// Apply copies every flag the user set on fs into cfg.
func (f *Flags) Apply(cfg *Config, fs *pflag.FlagSet) {
	if fs.Changed("root") {
		cfg.Assets.Root = f.Root
	}
	if fs.Changed("fps") {
		cfg.View.FPS = f.FPS
	}
	if fs.Changed("wireframe") {
		cfg.View.Wireframe = f.Wireframe
	}
	if fs.Changed("hud") {
		cfg.View.HUD = f.HUD
	}
	if fs.Changed("watch") {
		cfg.Assets.Watch = f.Watch
	}
	if fs.Changed("side") {
		cfg.Assets.Side = f.Side
	}
	if fs.Changed("pixel-ratio") {
		cfg.Viewport.PixelRatio = f.PixelRatio
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = f.LogLevel
	}
	if fs.Changed("log-file") {
		cfg.Logging.File = f.LogFile
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
}

// Resolve loads the config file named by the flags, applies the overrides
// and validates the result.
func (f *Flags) Resolve(fs *pflag.FlagSet) (*Config, string, error) {
	cfg, path, err := Load(f.ConfigPath)
	if err != nil {
		return nil, "", err
	}
	f.Apply(cfg, fs)
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
