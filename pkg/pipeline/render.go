package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rigport/rigport/pkg/assembly"
	"github.com/rigport/rigport/pkg/cache"
	"github.com/rigport/rigport/pkg/material"
	"github.com/rigport/rigport/pkg/observability"
	"github.com/rigport/rigport/pkg/render"
	"github.com/rigport/rigport/pkg/render/nodelink"
	"github.com/rigport/rigport/pkg/render/swatch"
	"github.com/rigport/rigport/pkg/skeleton"
)

// RenderHierarchy renders a merged group's master hierarchy in every
// requested format. Bones the merge re-parented are highlighted.
func (r *Runner) RenderHierarchy(ctx context.Context, group string, mr *assembly.MergeReport, opts Options) ([]Artifact, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if mr == nil || mr.Hierarchy == nil {
		return nil, fmt.Errorf("group %s has no master hierarchy", group)
	}
	nl := nodelink.Options{Title: group, Detailed: opts.Detailed}
	for _, link := range mr.Plan.Reparent {
		nl.Highlight = append(nl.Highlight, link.Bone)
	}
	return r.renderTree(ctx, group, mr.Hierarchy, nl, opts)
}

// RenderTree renders any hierarchy, such as a rig collapsed outside a job.
func (r *Runner) RenderTree(ctx context.Context, name string, h *skeleton.Hierarchy, plan skeleton.MergePlan, opts Options) ([]Artifact, error) {
	return r.RenderHierarchy(ctx, name, &assembly.MergeReport{Hierarchy: h, Plan: plan}, opts)
}

func (r *Runner) renderTree(ctx context.Context, group string, h *skeleton.Hierarchy, nl nodelink.Options, opts Options) ([]Artifact, error) {
	content, err := json.Marshal(struct {
		Bones *skeleton.Hierarchy
		View  nodelink.Options
	}{h, nl})
	if err != nil {
		return nil, fmt.Errorf("hash hierarchy: %w", err)
	}
	contentHash := cache.Hash(content)

	formats := make([]string, len(opts.Formats))
	for i, f := range opts.Formats {
		formats[i] = string(f)
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	var out []Artifact
	for _, f := range opts.Formats {
		key := r.Keyer.ArtifactKey(contentHash, cache.ArtifactKeyOpts{Kind: KindHierarchy, Format: string(f)})
		data, cached, err := r.cached(ctx, key, opts.Refresh, func() ([]byte, error) {
			return nodelink.Render(ctx, h, f, nl)
		})
		if err != nil {
			hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
			return nil, fmt.Errorf("render %s %s: %w", group, f, err)
		}
		out = append(out, Artifact{Group: group, Kind: KindHierarchy, Format: f, Data: data, Cached: cached})
	}
	hooks.OnRenderComplete(ctx, formats, time.Since(start), nil)
	return out, nil
}

// RenderSwatch paints the swatch sheet of resolved materials.
func (r *Runner) RenderSwatch(ctx context.Context, mats []*material.Resolved, opts Options) (Artifact, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Artifact{}, err
	}
	content, err := json.Marshal(mats)
	if err != nil {
		return Artifact{}, fmt.Errorf("hash materials: %w", err)
	}
	key := r.Keyer.ArtifactKey(cache.Hash(content), cache.ArtifactKeyOpts{
		Kind:   KindSwatch,
		Format: string(render.FormatWebP),
		Size:   opts.SwatchTile,
	})

	formats := []string{string(render.FormatWebP)}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()
	data, cached, err := r.cached(ctx, key, opts.Refresh, func() ([]byte, error) {
		var buf bytes.Buffer
		if err := swatch.Encode(&buf, mats, swatch.Options{Tile: opts.SwatchTile}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return Artifact{}, fmt.Errorf("render swatch: %w", err)
	}
	return Artifact{Kind: KindSwatch, Format: render.FormatWebP, Data: data, Cached: cached}, nil
}

// cached returns the entry under key, or produces and stores it. Cache
// failures are logged and otherwise ignored.
func (r *Runner) cached(ctx context.Context, key string, refresh bool, produce func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()
	if !refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("artifact cache read failed", "err", err)
		}
		if hit {
			hooks.OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	data, err := produce()
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		r.Logger.Warn("artifact cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.ArtifactTTL
}
