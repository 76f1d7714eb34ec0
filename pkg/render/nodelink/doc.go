// Package nodelink renders skeleton hierarchies as node-link diagrams.
//
// # Usage
//
// Convert a hierarchy to DOT, then render it with Graphviz:
//
//	dot := nodelink.ToDOT(h, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// [Render] dispatches on a [render.Format] and also covers JSON, which is
// the hierarchy's own bone-list encoding.
//
// # Layout
//
// Bones are drawn top to bottom from the roots, as rounded boxes. Bones
// listed in [Options.Highlight] (typically the ones a merge re-parented)
// are filled to stand out.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz, so
// no external tools are needed.
package nodelink
