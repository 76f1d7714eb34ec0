package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/assembly"
	"github.com/rigport/rigport/pkg/cache"
	"github.com/rigport/rigport/pkg/host"
)

// Runner executes the pipeline with artifact caching. It keeps no per-run
// state, so one Runner can serve concurrent runs on separate hosts.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long stored artifacts live. Zero means cache.ArtifactTTL.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses DefaultKeyer, and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, TTL: cache.ArtifactTTL}
}

// Execute runs the job for payload on h and renders its artifacts.
//
// When the job fails, Execute returns a Result holding the partial report
// and no artifacts, together with the job's error.
func (r *Runner) Execute(ctx context.Context, payload *asset.Payload, h host.Host, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	start := time.Now()
	job := assembly.New(payload, h, assembly.Options{ID: opts.JobID, Groups: opts.Groups, Logger: logger})
	report, err := job.Run(ctx)
	result := &Result{Report: report}
	result.Stats.AssembleTime = time.Since(start)
	if err != nil {
		return result, err
	}

	start = time.Now()
	for _, g := range report.Merged() {
		artifacts, err := r.RenderHierarchy(ctx, g.Name, g.Merge, opts)
		if err != nil {
			return result, err
		}
		result.Artifacts = append(result.Artifacts, artifacts...)
	}

	if mats := job.Materials().All(); opts.Swatch && len(mats) > 0 {
		a, err := r.RenderSwatch(ctx, mats, opts)
		if err != nil {
			return result, err
		}
		result.Artifacts = append(result.Artifacts, a)
	}
	result.Stats.RenderTime = time.Since(start)

	for _, a := range result.Artifacts {
		if a.Cached {
			result.Stats.CacheHits++
		}
	}
	logger.Info("rendered artifacts",
		"artifacts", len(result.Artifacts),
		"cached", result.Stats.CacheHits,
		"duration", result.Stats.RenderTime.Round(time.Millisecond))
	return result, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
