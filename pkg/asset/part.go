package asset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
)

// Well-known part kinds. Kind is an open tag; exporters may emit others.
const (
	KindBody = "Body"
	KindHead = "Head"
	KindHat  = "Hat"
	KindFace = "Face"
)

// Part is one exported mesh and skeleton unit.
type Part struct {
	Type              string            `json:"Type"`
	Path              string            `json:"Path"`
	Meta              Meta              `json:"Meta"`
	Materials         []MaterialBinding `json:"Materials"`
	OverrideMaterials []MaterialBinding `json:"OverrideMaterials,omitempty"`
}

// MaterialBinding binds a material descriptor to a mesh slot.
//
// The descriptor fields are flattened into the binding on the wire.
// MaterialNameToSwap is only set on group-level variant overrides.
type MaterialBinding struct {
	Slot               int    `json:"Slot"`
	MaterialNameToSwap string `json:"MaterialNameToSwap,omitempty"`
	MaterialDescriptor
}

// MaterialDescriptor describes one material by its parameters.
// Two descriptors with the same Hash render identically.
type MaterialDescriptor struct {
	Name     string         `json:"Name"`
	Hash     MaterialHash   `json:"Hash"`
	Textures []TextureParam `json:"Textures,omitempty"`
	Scalars  []ScalarParam  `json:"Scalars,omitempty"`
	Vectors  []VectorParam  `json:"Vectors,omitempty"`
	Switches []SwitchParam  `json:"Switches,omitempty"`
}

// TextureParam names a texture asset. SRGB selects colour-managed sampling.
type TextureParam struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
	SRGB  bool   `json:"sRGB"`
}

// ScalarParam is a named float parameter.
type ScalarParam struct {
	Name  string  `json:"Name"`
	Value float64 `json:"Value"`
}

// VectorParam is a named RGBA parameter.
type VectorParam struct {
	Name  string `json:"Name"`
	Value Color  `json:"Value"`
}

// SwitchParam is a named boolean parameter.
type SwitchParam struct {
	Name  string `json:"Name"`
	Value bool   `json:"Value"`
}

// Color is a linear RGBA colour.
type Color struct {
	R float64 `json:"R"`
	G float64 `json:"G"`
	B float64 `json:"B"`
	A float64 `json:"A"`
}

// Opaque returns c with alpha forced to 1.
func (c Color) Opaque() Color {
	c.A = 1
	return c
}

// MaterialHash is the content-addressing key of a material.
//
// Exporters write it either as a string or as a signed integer hash code.
// Integers are normalised to the lowercase hex of their absolute value so
// both spellings of the same hash compare equal.
type MaterialHash string

// UnmarshalJSON accepts a JSON string or integer.
func (h *MaterialHash) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*h = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*h = MaterialHash(s)
		return nil
	}
	n, ok := new(big.Int).SetString(string(data), 10)
	if !ok {
		return fmt.Errorf("material hash: invalid number %s", data)
	}
	*h = HashCode(n)
	return nil
}

// HashCode formats an integer hash code the way exporters key materials.
func HashCode(n *big.Int) MaterialHash {
	return MaterialHash(new(big.Int).Abs(n).Text(16))
}
