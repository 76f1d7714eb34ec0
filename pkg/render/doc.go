// Package render turns job results into files.
//
// The [nodelink] subpackage draws a skeleton hierarchy as a Graphviz
// node-link diagram (DOT, SVG, PNG) or dumps it as JSON. The [swatch]
// subpackage paints the job's resolved materials into a WebP contact sheet.
// This package holds the shared [Format] vocabulary.
//
// [nodelink]: github.com/rigport/rigport/pkg/render/nodelink
// [swatch]: github.com/rigport/rigport/pkg/render/swatch
package render
