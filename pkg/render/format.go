package render

import (
	"slices"
	"strings"

	"github.com/rigport/rigport/pkg/errors"
)

// Format is an artifact file format.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
	FormatWebP Format = "webp"
)

// HierarchyFormats are the formats a skeleton hierarchy renders to.
var HierarchyFormats = []Format{FormatDOT, FormatSVG, FormatPNG, FormatJSON}

// DefaultFormats are rendered when none are requested.
var DefaultFormats = []Format{FormatSVG, FormatJSON}

var contentTypes = map[Format]string{
	FormatDOT:  "text/vnd.graphviz",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
	FormatWebP: "image/webp",
}

// Ext returns the file extension, with the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type.
func (f Format) ContentType() string { return contentTypes[f] }

// ParseFormats parses hierarchy formats from a list whose elements may
// themselves be comma-separated. Duplicates are dropped. An empty list
// yields DefaultFormats.
func ParseFormats(list []string) ([]Format, error) {
	var out []Format
	for _, item := range list {
		for _, s := range strings.Split(item, ",") {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			f := Format(s)
			if !slices.Contains(HierarchyFormats, f) {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want dot, svg, png or json)", s)
			}
			if !slices.Contains(out, f) {
				out = append(out, f)
			}
		}
	}
	if len(out) == 0 {
		return slices.Clone(DefaultFormats), nil
	}
	return out, nil
}
