package main

import (
	"context"
	"fmt"
	"os"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/showcase/internal/config"
	"github.com/taigrr/showcase/internal/logger"
	"github.com/taigrr/showcase/internal/watcher"
	"github.com/taigrr/showcase/pkg/interaction"
	"github.com/taigrr/showcase/pkg/scene"
	"github.com/taigrr/showcase/pkg/viewer"
	"github.com/taigrr/showcase/pkg/viewport"
)

func runView(cmd *cobra.Command) error {
	cfg, cfgPath, err := flags.Resolve(cmd.Flags())
	if err != nil {
		return err
	}

	// The viewer owns the terminal, so logs go to the file only.
	if err := logger.InitWithOptions(logger.Options{
		Level: cfg.Logging.Level,
		File:  fileConfig(cfg),
	}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync()
	log := logger.Named("view")
	log.Info("starting viewer",
		zap.String("config", cfgPath),
		zap.String("root", cfg.Assets.Root),
		zap.Int("parts", len(cfg.Assets.Parts)),
		zap.Int("fps", cfg.View.FPS),
	)

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		log.Error("terminal size unavailable", zap.Error(err))
		return fmt.Errorf("get terminal size: %w", err)
	}

	vp, err := viewport.New(cfg.Viewport, cfg.View.FPS, width, height)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		log.Error("terminal failed to start", zap.Error(err))
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	fmt.Fprint(os.Stdout, mouseOn)

	defer func() {
		fmt.Fprint(os.Stdout, mouseOff)
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	scr := &screen{term: term}
	loop := viewer.New(vp, cfg.Input, scr, viewer.Options{
		FPS:        cfg.View.FPS,
		AutoRotate: cfg.View.AutoRotate,
		Wireframe:  cfg.View.Wireframe,
		HUD:        cfg.View.HUD,
		Name:       cfg.Assets.Name,
	}, logger.Named("viewer"))

	events := make(chan interaction.Event, 64)
	groups := make(chan *scene.Group, 1)
	go pumpEvents(ctx, term, scr, events, loop.Commands(), cancel)

	deliver := func(g *scene.Group) {
		log.Info("model ready", zap.String("model", describe(g)))
		select {
		case groups <- g:
		case <-ctx.Done():
		}
	}

	rl := newReloader(newLoader(cfg, logger.Named("loader")), cfg, log, deliver)
	if err := rl.trigger(ctx); err != nil {
		return err
	}

	if cfg.Assets.Watch {
		if err := watchAssets(ctx, cfg, rl, log); err != nil {
			log.Warn("asset watching disabled", zap.Error(err))
		}
	}

	return loop.Run(ctx, events, groups)
}

// watchAssets reloads the whole model whenever a local part file changes.
func watchAssets(ctx context.Context, cfg *config.Config, rl *reloader, log *zap.Logger) error {
	files := localSources(cfg)
	if len(files) == 0 {
		return nil
	}

	w, err := watcher.New(cfg.Assets.Debounce, logger.Named("watcher"))
	if err != nil {
		return err
	}
	if err := w.Add(files...); err != nil {
		_ = w.Close()
		return err
	}

	go func() {
		defer w.Close()
		w.Run(ctx, func(path string) {
			log.Info("part changed, reloading", zap.String("path", path))
			if err := rl.trigger(ctx); err != nil {
				log.Error("reload failed", zap.Error(err))
			}
		})
	}()
	log.Info("watching parts", zap.Int("files", w.Files()))
	return nil
}
