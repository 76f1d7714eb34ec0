package nodelink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/render"
	"github.com/rigport/rigport/pkg/skeleton"
)

// Options configures diagram generation.
type Options struct {
	// Title is drawn above the diagram when set.
	Title string

	// Detailed adds depth and child count to each label.
	Detailed bool

	// Highlight lists bones to fill with the accent colour.
	Highlight []string
}

// ToDOT converts a hierarchy to Graphviz DOT.
func ToDOT(h *skeleton.Hierarchy, opts Options) string {
	highlight := make(map[string]bool, len(opts.Highlight))
	for _, name := range opts.Highlight {
		highlight[name] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph skeleton {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=28;\n", opts.Title)
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	h.Walk(func(b skeleton.Bone, depth int) bool {
		attrs := []string{fmt.Sprintf("label=%q", label(h, b, depth, opts.Detailed))}
		if highlight[b.Name] {
			attrs = append(attrs, "fillcolor=\"#ffd78a\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", b.Name, strings.Join(attrs, ", "))
		return true
	})

	buf.WriteString("\n")
	h.Walk(func(b skeleton.Bone, _ int) bool {
		if b.Parent != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", b.Parent, b.Name)
		}
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

func label(h *skeleton.Hierarchy, b skeleton.Bone, depth int, detailed bool) string {
	if !detailed {
		return b.Name
	}
	return fmt.Sprintf("%s\ndepth: %d\nchildren: %d", b.Name, depth, len(h.Children(b.Name)))
}

// RenderSVG renders DOT to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Render produces one artifact of h in the given format.
func Render(ctx context.Context, h *skeleton.Hierarchy, format render.Format, opts Options) ([]byte, error) {
	switch format {
	case render.FormatDOT:
		return []byte(ToDOT(h, opts)), nil
	case render.FormatSVG:
		return RenderSVG(ctx, ToDOT(h, opts))
	case render.FormatPNG:
		return RenderPNG(ctx, ToDOT(h, opts))
	case render.FormatJSON:
		return json.MarshalIndent(h, "", "  ")
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "hierarchy cannot be rendered as %s", format)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg tag with one whose
// viewBox starts at the origin, so the diagram scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
