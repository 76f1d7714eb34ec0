package assembly

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/host"
	"github.com/rigport/rigport/pkg/material"
	"github.com/rigport/rigport/pkg/observability"
)

// targetFunc picks the slots an override rebinds.
type targetFunc func([]material.Slot, asset.MaterialBinding) []int

// applyMaterial resolves b and binds it at slot. A cache hit reuses the
// host material created for the first occurrence of the hash.
func (j *Job) applyMaterial(ctx context.Context, logger *log.Logger, group string, mesh host.Handle, slot int, b asset.MaterialBinding, meta asset.Meta) error {
	res, hit := j.resolver.Resolve(b, meta)
	hooks := observability.Cache()
	if hit {
		hooks.OnCacheHit(ctx, "material")
		if mat, ok := j.bound[res.Hash]; ok {
			logger.Debug("reusing material", "slot", slot, "material", res.Name, "hash", res.Hash)
			if err := j.host.AssignMaterial(ctx, mesh, slot, mat); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "assign material %s", res.Name)
			}
			return nil
		}
	} else if res.Hash != "" {
		hooks.OnCacheMiss(ctx, "material")
	}

	mat, err := j.host.BindMaterial(ctx, mesh, slot, res.Name)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "bind material %s", res.Name)
	}

	images := make(map[string]host.Handle, len(res.Params.Textures))
	for _, tb := range res.Params.Textures {
		img, ok, err := j.host.LoadImage(ctx, tb.Path)
		if err != nil {
			j.warn(group, tb.Path, errors.Wrap(errors.ErrCodePartLoadFailure, err, "texture %s of %s", tb.Slot, res.Name))
			logger.Warn("texture failed to load", "slot", tb.Slot, "path", tb.Path, "err", err)
			continue
		}
		if !ok {
			logger.Debug("texture not found", "slot", tb.Slot, "path", tb.Path)
			continue
		}
		images[tb.Slot] = img
	}

	if err := j.host.ApplyShaderParameters(ctx, mat, res.Params, images); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "apply shader parameters to %s", res.Name)
	}
	if res.Hash != "" {
		j.bound[res.Hash] = mat
		hooks.OnCacheSet(ctx, "material", len(res.Params.Textures))
	}
	logger.Debug("bound material", "slot", slot, "material", res.Name, "hash", res.Hash, "textures", len(images))
	return nil
}

// applyOverrides rebinds the slots each override targets and returns how
// many slots were rebound.
func (j *Job) applyOverrides(ctx context.Context, logger *log.Logger, group string, mesh host.Handle, overrides []asset.MaterialBinding, meta asset.Meta, targets targetFunc) (int, error) {
	if len(overrides) == 0 {
		return 0, nil
	}
	n := 0
	for _, ov := range overrides {
		// Earlier overrides may have renamed slots.
		slots, err := j.host.MaterialSlots(ctx, mesh)
		if err != nil {
			return n, errors.Wrap(errors.ErrCodeInternal, err, "material slots")
		}
		idx := targets(slots, ov)
		if len(idx) == 0 {
			logger.Debug("override matched no slot", "slot", ov.Slot, "swap", ov.MaterialNameToSwap, "material", ov.Name)
			continue
		}
		for _, i := range idx {
			if err := j.applyMaterial(ctx, logger, group, mesh, i, ov, meta); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
