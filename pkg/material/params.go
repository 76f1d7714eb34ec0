package material

import (
	"slices"

	"github.com/rigport/rigport/pkg/asset"
)

// TextureBinding binds an image asset to a texture input.
type TextureBinding struct {
	Slot       string     `json:"slot"`
	Path       string     `json:"path"`
	ColorSpace ColorSpace `json:"color_space"`
	Location   Location   `json:"location"`
}

// ParameterSet is a fully populated set of shader inputs, ready for a host
// to apply.
type ParameterSet struct {
	Textures []TextureBinding       `json:"textures,omitempty"`
	Scalars  map[string]float64     `json:"scalars,omitempty"`
	Colors   map[string]asset.Color `json:"colors,omitempty"`
	Switches map[string]bool        `json:"switches,omitempty"`
}

func newParameterSet() ParameterSet {
	return ParameterSet{
		Scalars:  make(map[string]float64),
		Colors:   make(map[string]asset.Color),
		Switches: make(map[string]bool),
	}
}

// setTexture binds a slot, replacing an earlier binding of the same slot.
func (p *ParameterSet) setTexture(tb TextureBinding) {
	for i := range p.Textures {
		if p.Textures[i].Slot == tb.Slot {
			p.Textures[i] = tb
			return
		}
	}
	p.Textures = append(p.Textures, tb)
	slices.SortStableFunc(p.Textures, func(a, b TextureBinding) int {
		return slices.Index(textureOrder, a.Slot) - slices.Index(textureOrder, b.Slot)
	})
}

// Texture returns the binding of a texture input.
func (p ParameterSet) Texture(slot string) (TextureBinding, bool) {
	for _, tb := range p.Textures {
		if tb.Slot == slot {
			return tb, true
		}
	}
	return TextureBinding{}, false
}
