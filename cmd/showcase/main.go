// showcase - Terminal 3D Product Viewer
// Shows a multi-part product model (by default a spiral notebook) in the
// terminal with full 3D rendering.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	Arrows/WASD - Rotate in steps
//	+/-         - Zoom in/out
//	R           - Reset view
//	X           - Toggle wireframe
//	?           - Toggle HUD overlay
//	Esc/Q       - Quit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/showcase/internal/config"
	"github.com/taigrr/showcase/internal/logger"
)

var version = "dev"

var flags config.Flags

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, rootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "showcase",
		Short: "Terminal 3D product viewer",
		Long: `showcase - Terminal 3D Product Viewer

Loads the configured model parts, assembles them and shows the result
in the terminal. If the main part cannot be loaded a built-in notebook
model is shown instead.

Controls:
  Mouse drag   - Rotate model
  Scroll, +/-  - Zoom in/out
  Arrows/WASD  - Rotate in steps
  R            - Reset view
  X            - Toggle wireframe
  ?            - Toggle HUD overlay
  Esc/Q        - Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd)
		},
	}
	flags.Register(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "view",
			Short: "Open the interactive viewer (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runView(cmd)
			},
		},
		infoCmd(),
		snapshotCmd(),
		configCmd(),
	)
	return root
}

// initConsoleLogging sets up logging for the headless commands.
func initConsoleLogging(cfg *config.Config) error {
	err := logger.InitWithOptions(logger.Options{
		Level:   cfg.Logging.Level,
		Console: os.Stderr,
		File:    fileConfig(cfg),
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	return nil
}

func fileConfig(cfg *config.Config) logger.FileConfig {
	if cfg.Logging.File == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(cfg.Logging.File)
}
