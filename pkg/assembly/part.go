package assembly

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/host"
	"github.com/rigport/rigport/pkg/material"
	"github.com/rigport/rigport/pkg/observability"
)

// MorphValue is the weight set on a head's morph shape keys.
const MorphValue = 1.0

// importPart loads one part and applies its materials, overrides and morph.
// A load failure is returned as PART_LOAD_FAILURE; any other error is fatal.
func (j *Job) importPart(ctx context.Context, logger *log.Logger, g asset.Group, parts []asset.Part, p asset.Part) (lp loadedPart, pr PartReport, err error) {
	pr = PartReport{Kind: p.Type, Path: p.Path, Status: PartFailed}
	hooks := observability.Assembly()
	hooks.OnPartStart(ctx, p.Type, p.Path)
	start := time.Now()
	defer func() {
		if err != nil {
			pr.Error = errors.UserMessage(err)
		}
		hooks.OnPartComplete(ctx, p.Type, p.Path, time.Since(start), err)
	}()

	if err := errors.ValidateAssetPath(p.Path); err != nil {
		return lp, pr, errors.Wrap(errors.ErrCodePartLoadFailure, err, "%s part %q", p.Type, p.Path)
	}

	skel, mesh, err := j.host.LoadMesh(ctx, p.Path)
	if err != nil {
		return lp, pr, loadError(p, err)
	}
	pr.Status = PartLoaded
	lp = loadedPart{part: p, skel: skel, mesh: mesh}
	logger = logger.With("part", p.Path)

	meta := asset.GatherMeta(parts, asset.ContextKeys(p.Type)...)

	if p.Type == asset.KindHead {
		pr.Morph, err = j.applyMorph(ctx, logger, mesh, meta)
		if err != nil {
			return lp, pr, err
		}
	}

	slots, err := j.host.MaterialSlots(ctx, mesh)
	if err != nil {
		return lp, pr, errors.Wrap(errors.ErrCodeInternal, err, "material slots of %s", p.Path)
	}
	pr.Slots = len(slots)

	for _, b := range p.Materials {
		if b.Slot < 0 || b.Slot >= len(slots) {
			logger.Debug("material slot out of range", "slot", b.Slot, "slots", len(slots), "material", b.Name)
			continue
		}
		if err := j.applyMaterial(ctx, logger, g.Name, mesh, b.Slot, b, meta); err != nil {
			return lp, pr, err
		}
	}

	// Part overrides resolve against the materials bound above.
	n, err := j.applyOverrides(ctx, logger, g.Name, mesh, p.OverrideMaterials, meta, material.SlotOverrideTargets)
	if err != nil {
		return lp, pr, err
	}
	pr.Overrides += n

	n, err = j.applyOverrides(ctx, logger, g.Name, mesh, g.OverrideMaterials, meta, material.VariantOverrideTargets)
	if err != nil {
		return lp, pr, err
	}
	pr.Overrides += n

	logger.Debug("imported part", "slots", pr.Slots, "overrides", pr.Overrides)
	return lp, pr, nil
}

func loadError(p asset.Part, err error) error {
	switch {
	case stderrors.Is(err, host.ErrNotFound):
		return errors.Wrap(errors.ErrCodePartLoadFailure, err, "%s part %s not found", p.Type, p.Path)
	case stderrors.Is(err, host.ErrDecode):
		return errors.Wrap(errors.ErrCodePartLoadFailure, err, "%s part %s could not be read", p.Type, p.Path)
	}
	return errors.Wrap(errors.ErrCodePartLoadFailure, err, "load %s part %s", p.Type, p.Path)
}

// applyMorph sets every shape key named by MorphNames[HatType] to
// MorphValue. It returns the morph name, or "" on a lookup miss.
func (j *Job) applyMorph(ctx context.Context, logger *log.Logger, mesh host.Handle, meta asset.Meta) (string, error) {
	name, ok := meta.MorphName()
	if !ok {
		logger.Debug("no morph for head", "has_hat_type", meta.Has(asset.MetaHatType))
		return "", nil
	}
	keys, err := j.host.ShapeKeys(ctx, mesh)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "shape keys")
	}
	matched := false
	for _, key := range keys {
		if !asset.SameName(key, name) {
			continue
		}
		if err := j.host.SetShapeKey(ctx, mesh, key, MorphValue); err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "set shape key %s", key)
		}
		matched = true
	}
	if !matched {
		logger.Debug("morph shape key not found", "morph", name)
		return "", nil
	}
	return name, nil
}
