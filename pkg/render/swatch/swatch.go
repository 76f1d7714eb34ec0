// Package swatch paints resolved materials into a contact sheet.
//
// Every material becomes one square tile split into four quadrants:
//
//	+-------+-------+
//	| base  | rough |
//	+-------+-------+
//	|  AO   | swizz |
//	+-------+-------+
//
// base is the skin colour when the material has one and otherwise a colour
// derived from the material hash, rough is the mean of the roughness range
// as grey, AO is the ambient occlusion strength as grey, and swizz is white
// when roughness is read from the green channel. Tiles are laid out in
// rows, in cache order, and the sheet is encoded as lossless WebP.
package swatch

import (
	"hash/fnv"
	"image"
	"image/color"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/material"
)

// Defaults.
const (
	DefaultTile    = 32
	DefaultColumns = 8
)

// Options configures the sheet.
type Options struct {
	Tile    int // tile edge in pixels
	Columns int // tiles per row
}

func (o Options) withDefaults() Options {
	if o.Tile <= 0 {
		o.Tile = DefaultTile
	}
	if o.Columns <= 0 {
		o.Columns = DefaultColumns
	}
	return o
}

// Image paints the sheet.
func Image(mats []*material.Resolved, opts Options) (*image.NRGBA, error) {
	if len(mats) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no materials to paint")
	}
	opts = opts.withDefaults()
	cols := min(opts.Columns, len(mats))
	rows := (len(mats) + cols - 1) / cols
	sheet := image.NewNRGBA(image.Rect(0, 0, cols*opts.Tile, rows*opts.Tile))

	for i, m := range mats {
		x, y := (i%cols)*opts.Tile, (i/cols)*opts.Tile
		dst := image.Rect(x, y, x+opts.Tile, y+opts.Tile)
		src := quadrants(m)
		draw.NearestNeighbor.Scale(sheet, dst, src, src.Bounds(), draw.Src, nil)
	}
	return sheet, nil
}

// Encode paints the sheet and writes it as WebP.
func Encode(w io.Writer, mats []*material.Resolved, opts Options) error {
	img, err := Image(mats, opts)
	if err != nil {
		return err
	}
	return nativewebp.Encode(w, img, nil)
}

// quadrants returns the 2x2 source image of one tile.
func quadrants(m *material.Resolved) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, baseColor(m))
	img.SetNRGBA(1, 0, grey((m.Params.Scalars[material.SlotRoughnessMin]+m.Params.Scalars[material.SlotRoughnessMax])/2))
	img.SetNRGBA(0, 1, grey(m.Params.Scalars[material.SlotAO]))
	if m.Params.Switches[material.SwitchSwizzleRoughnessToGreen] {
		img.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 255})
	} else {
		img.SetNRGBA(1, 1, color.NRGBA{0, 0, 0, 255})
	}
	return img
}

func baseColor(m *material.Resolved) color.NRGBA {
	if c, ok := m.Params.Colors[material.SlotSkinColor]; ok {
		return color.NRGBA{channel(c.R), channel(c.G), channel(c.B), 255}
	}
	h := fnv.New32a()
	h.Write([]byte(m.Hash))
	h.Write([]byte(m.Name))
	sum := h.Sum32()
	return color.NRGBA{uint8(sum >> 16), uint8(sum >> 8), uint8(sum), 255}
}

func grey(v float64) color.NRGBA {
	c := channel(v)
	return color.NRGBA{c, c, c, 255}
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
