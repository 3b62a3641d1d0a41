package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gearbox/pkg/cache"
	"github.com/matzehuels/gearbox/pkg/canvas"
	"github.com/matzehuels/gearbox/pkg/config"
	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/render/topology"
	"github.com/matzehuels/gearbox/pkg/script"
	"github.com/matzehuels/gearbox/pkg/store"
)

// Runner executes pipeline runs against one configuration.
//
// The Runner holds no per-run state: every Execute builds a fresh
// controller, so one Runner may be used for any number of runs.
type Runner struct {
	Config config.Config
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil
// logger uses the default logger.
func NewRunner(cfg config.Config, c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Config: cfg, Cache: c, Keyer: cache.NewDefaultKeyer(), Logger: logger}
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// NewController builds an empty controller configured by cfg.
func NewController(cfg config.Config, logger *log.Logger) *canvas.Controller {
	st := store.New(store.WithLinkage(cfg.Linkage), store.WithLogger(logger))
	return canvas.New(
		canvas.WithStore(st),
		canvas.WithSnap(cfg.Snap),
		canvas.WithViewport(cfg.Viewport),
		canvas.WithLogger(logger),
	)
}

// Execute runs the complete load → replay → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	s := opts.Script
	if s == nil {
		var err error
		if s, err = script.Load(opts.ScriptPath); err != nil {
			return nil, err
		}
	}

	opts.progress(fmt.Sprintf("Replaying %d events...", len(s.Events)))
	result, _, err := r.Replay(ctx, s)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	if err := r.render(ctx, result, opts); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"view", opts.View,
		"formats", opts.Formats,
		"items", result.Stats.Items,
		"cached", result.Stats.CacheHits,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// render fills result.Artifacts, serving each format from the cache when
// an artifact for the same scene, configuration and options is stored.
// Cache failures are logged and never fail the run.
func (r *Runner) render(ctx context.Context, result *Result, opts Options) error {
	scene := cache.HashJSON(result.Script, r.Config)
	result.Artifacts = make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(scene, cache.ArtifactKeyOpts{
			View:     opts.View,
			Format:   format,
			Scale:    opts.Scale,
			Detailed: opts.Detailed,
			All:      opts.All,
		})

		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if hit {
			r.Logger.Debug("artifact from cache", "format", format, "size", len(data))
			result.Artifacts[format] = data
			result.Stats.CacheHits++
			continue
		}

		opts.progress(fmt.Sprintf("Rendering %s %s...", opts.View, format))
		data, err = renderFormat(ctx, result, opts, format)
		if err != nil {
			return err
		}
		result.Artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
		}
	}
	return nil
}

// Replay plays s into a new controller and returns the result without
// artifacts, along with the controller for further interaction.
func (r *Runner) Replay(ctx context.Context, s *script.Script) (*Result, *canvas.Controller, error) {
	if s == nil {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "script is required")
	}
	c := NewController(r.Config, r.Logger)

	start := time.Now()
	res, err := script.NewPlayer(c, r.Logger).Play(ctx, s)
	if err != nil {
		return nil, nil, err
	}

	frame := c.Frame()
	result := &Result{
		Script:   s,
		Frame:    frame,
		Topology: topology.Build(frame.Items, r.Config.Linkage),
		Aliases:  res.Aliases,
		Stats: Stats{
			Events:     len(s.Events),
			Applied:    res.Applied,
			Items:      len(frame.Items),
			ReplayTime: time.Since(start),
		},
	}
	r.Logger.Info("replayed script",
		"name", s.Name,
		"events", result.Stats.Applied,
		"items", result.Stats.Items,
		"duration", result.Stats.ReplayTime)
	return result, c, nil
}
