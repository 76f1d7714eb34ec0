package material

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/rigport/rigport/pkg/asset"
)

// BaseInputs are shader inputs set from job options on every material.
type BaseInputs struct {
	AmbientOcclusion float64
	Cavity           float64
	Subsurface       float64
}

// BaseInputsFrom extracts the base inputs from job options.
func BaseInputsFrom(opts asset.Options) BaseInputs {
	return BaseInputs{
		AmbientOcclusion: opts.AmbientOcclusion,
		Cavity:           opts.Cavity,
		Subsurface:       opts.Subsurface,
	}
}

// Resolved is a synthesized material.
type Resolved struct {
	Name   string             `json:"name"`
	Hash   asset.MaterialHash `json:"hash"`
	Params ParameterSet       `json:"params"`
}

// Miss is a parameter that had no shader mapping.
type Miss struct {
	Kind string
	Name string
}

// Synthesize builds the parameter set for a descriptor. Parameters are
// applied in declaration order (textures, scalars, vectors, switches) and
// the skin colour from meta is applied last so it wins over any declared
// vector. Unmapped parameters are returned as misses.
func Synthesize(d asset.MaterialDescriptor, meta asset.Meta, base BaseInputs) (ParameterSet, []Miss) {
	p := newParameterSet()
	var misses []Miss

	p.Scalars[SlotAO] = base.AmbientOcclusion
	p.Scalars[SlotCavity] = base.Cavity
	p.Scalars[SlotSubsurface] = base.Subsurface

	for _, tex := range d.Textures {
		if tex.Name == TextureSRM {
			p.Switches[SwitchSwizzleRoughnessToGreen] = true
		}
		slot, ok := TextureSlot(tex.Name)
		if !ok {
			misses = append(misses, Miss{Kind: "texture", Name: tex.Name})
			continue
		}
		cs := ColorSpaceNonColor
		if tex.SRGB {
			cs = ColorSpaceSRGB
		}
		p.setTexture(TextureBinding{
			Slot:       slot,
			Path:       tex.Value,
			ColorSpace: cs,
			Location:   textureLocations[slot],
		})
	}

	for _, s := range d.Scalars {
		slot, ok := ScalarSlot(s.Name)
		if !ok {
			misses = append(misses, Miss{Kind: "scalar", Name: s.Name})
			continue
		}
		p.Scalars[slot] = s.Value
	}

	for _, v := range d.Vectors {
		vs, ok := vectorSlots[v.Name]
		if !ok {
			misses = append(misses, Miss{Kind: "vector", Name: v.Name})
			continue
		}
		p.Colors[vs.color] = v.Value.Opaque()
		if vs.alpha != "" {
			p.Scalars[vs.alpha] = v.Value.A
		}
	}

	for _, s := range d.Switches {
		slot, ok := SwitchSlot(s.Name)
		if !ok {
			misses = append(misses, Miss{Kind: "switch", Name: s.Name})
			continue
		}
		p.Switches[slot] = s.Value
	}

	if skin := meta.SkinColor; skin != nil && skin.A != 0 {
		p.Colors[SlotSkinColor] = skin.Opaque()
		p.Scalars[SlotSkinBoost] = skin.A
	}

	return p, misses
}

// Stats counts resolver activity within one job.
type Stats struct {
	Hits       int `json:"hits"`
	Syntheses  int `json:"syntheses"`
	Unmapped   int `json:"unmapped"`
	Uncachable int `json:"uncachable"`
}

// Resolver resolves material bindings through a job-scoped cache.
// It is not safe for concurrent use; a job is single-threaded.
type Resolver struct {
	cache  *Cache
	base   BaseInputs
	logger *log.Logger
	stats  Stats
}

// NewResolver creates a resolver backed by cache. A nil logger discards.
func NewResolver(cache *Cache, base BaseInputs, logger *log.Logger) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{cache: cache, base: base, logger: logger}
}

// Resolve returns the resolved material for a binding and whether it came
// from the cache. A cached value is returned as is, even if meta differs
// from the context it was first synthesized with. Descriptors without a
// hash cannot be keyed and are synthesized on every call.
func (r *Resolver) Resolve(b asset.MaterialBinding, meta asset.Meta) (*Resolved, bool) {
	if cached, ok := r.cache.Get(b.Hash); ok {
		r.stats.Hits++
		return cached, true
	}

	params, misses := Synthesize(b.MaterialDescriptor, meta, r.base)
	r.stats.Syntheses++
	for _, m := range misses {
		r.stats.Unmapped++
		r.logger.Debug("unmapped material parameter", "material", b.Name, "kind", m.Kind, "name", m.Name)
	}

	res := &Resolved{Name: b.Name, Hash: b.Hash, Params: params}
	if b.Hash == "" {
		r.stats.Uncachable++
		r.logger.Debug("material has no hash, not cached", "material", b.Name)
		return res, false
	}
	r.cache.Put(res)
	return res, false
}

// Stats returns counters accumulated since the resolver was created.
func (r *Resolver) Stats() Stats { return r.stats }

// Cache returns the cache the resolver writes to.
func (r *Resolver) Cache() *Cache { return r.cache }
