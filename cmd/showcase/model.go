package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/taigrr/showcase/internal/config"
	"github.com/taigrr/showcase/pkg/loader"
	"github.com/taigrr/showcase/pkg/scene"
)

func newLoader(cfg *config.Config, log *zap.Logger) *loader.Loader {
	ld := loader.New(os.DirFS(cfg.Assets.Root), log)
	ld.Concurrency = cfg.Assets.Concurrency
	ld.OnProgress = progressLogger(log)
	return ld
}

// progressLogger logs part reads at debug level each time the whole
// percentage moves. Reads of unknown size are not reported.
func progressLogger(log *zap.Logger) loader.ProgressFunc {
	var mu sync.Mutex
	last := make(map[string]int64)
	return func(name string, loaded, total int64) {
		if total <= 0 {
			return
		}
		pct := loaded * 100 / total

		mu.Lock()
		prev, seen := last[name]
		if seen && prev == pct {
			mu.Unlock()
			return
		}
		if pct >= 100 {
			// A later reload of the same part starts over.
			delete(last, name)
		} else {
			last[name] = pct
		}
		mu.Unlock()

		log.Debug("part progress",
			zap.String("part", name),
			zap.Int64("loaded", loaded),
			zap.Int64("total", total),
			zap.Int64("percent", pct),
		)
	}
}

// startLoad loads every configured part in the background and passes the
// assembled group, or the fallback, to deliver.
func startLoad(ctx context.Context, ld *loader.Loader, cfg *config.Config, log *zap.Logger, deliver func(*scene.Group)) (*loader.Session, error) {
	reqs, err := cfg.Requests()
	if err != nil {
		return nil, err
	}
	asm, err := cfg.Assembler(0)
	if err != nil {
		return nil, err
	}

	lctx, cancel := context.WithTimeout(ctx, cfg.Assets.Timeout)
	return ld.Load(lctx, reqs, func(results []loader.Result) {
		cancel()
		deliver(loader.BuildGroup(cfg.Assets.Name, results, asm, log))
	}), nil
}

// reloader keeps at most one load in flight. Each trigger cancels the
// previous load, and a superseded load never reaches deliver.
type reloader struct {
	start   func(ctx context.Context, deliver func(*scene.Group)) error
	deliver func(*scene.Group)

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func newReloader(ld *loader.Loader, cfg *config.Config, log *zap.Logger, deliver func(*scene.Group)) *reloader {
	return &reloader{
		start: func(ctx context.Context, d func(*scene.Group)) error {
			_, err := startLoad(ctx, ld, cfg, log, d)
			return err
		},
		deliver: deliver,
	}
}

func (r *reloader) trigger(ctx context.Context) error {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	lctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	return r.start(lctx, func(g *scene.Group) {
		// Held across deliver so a stale group cannot land after a newer one.
		r.mu.Lock()
		defer r.mu.Unlock()
		if gen != r.gen {
			return
		}
		r.deliver(g)
	})
}

// loadModel loads and assembles the model, waiting for every part.
func loadModel(ctx context.Context, cfg *config.Config, log *zap.Logger) (*scene.Group, []loader.Result, error) {
	var group *scene.Group
	s, err := startLoad(ctx, newLoader(cfg, log), cfg, log, func(g *scene.Group) { group = g })
	if err != nil {
		return nil, nil, err
	}
	<-s.Done()
	return group, s.Results(), nil
}

// localSources returns the file paths of parts read from the asset root.
func localSources(cfg *config.Config) []string {
	var files []string
	for _, p := range cfg.Assets.Parts {
		if loader.IsRemote(p.Source) {
			continue
		}
		files = append(files, filepath.Join(cfg.Assets.Root, filepath.FromSlash(p.Source)))
	}
	return files
}

func describe(g *scene.Group) string {
	if g.Fallback {
		return fmt.Sprintf("%s (fallback, %d parts)", g.Name, len(g.Parts))
	}
	return fmt.Sprintf("%s (%d parts)", g.Name, len(g.Parts))
}
