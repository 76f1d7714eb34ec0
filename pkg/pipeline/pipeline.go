// Package pipeline runs an import job and renders its artifacts.
//
// It is the single entry point shared by the CLI and the API server, so
// both apply the same defaults and the same artifact caching.
//
// # Stages
//
//  1. Assemble: run the [assembly.Job] against a host.
//  2. Render: for every group whose merge completed, render the master
//     hierarchy in each requested format, then paint a swatch sheet of
//     the job's resolved materials.
//
// Artifacts are cached under a key derived from a hash of the content
// they were rendered from and the render options, so a re-import of an
// unchanged outfit reuses the earlier files.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, payload, host, pipeline.Options{
//	    Formats: []render.Format{render.FormatSVG},
//	    Swatch:  true,
//	})
//	for _, a := range result.Artifacts {
//	    os.WriteFile(a.Name(), a.Data, 0o644)
//	}
package pipeline

import (
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/rigport/rigport/pkg/assembly"
	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/render"
	"github.com/rigport/rigport/pkg/render/swatch"
)

// Artifact kinds.
const (
	KindHierarchy = "hierarchy"
	KindSwatch    = "swatch"
)

// Options configures one pipeline run.
type Options struct {
	// Groups restricts the job to the named groups.
	Groups []string `json:"groups,omitempty"`

	// Formats are the hierarchy formats to render. Empty means
	// render.DefaultFormats.
	Formats []render.Format `json:"formats,omitempty"`

	// Detailed adds depth and child counts to diagram labels.
	Detailed bool `json:"detailed,omitempty"`

	// Swatch renders the material swatch sheet.
	Swatch bool `json:"swatch,omitempty"`

	// SwatchTile is the swatch tile edge in pixels.
	SwatchTile int `json:"swatch_tile,omitempty"`

	// Refresh skips artifact cache reads. Fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// JobID names the job. Empty means a random UUID.
	JobID string `json:"-"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(render.DefaultFormats)
	}
	for _, f := range o.Formats {
		if !slices.Contains(render.HierarchyFormats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "unsupported hierarchy format %q", f)
		}
	}
	if o.SwatchTile < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "swatch tile must be positive, got %d", o.SwatchTile)
	}
	if o.SwatchTile == 0 {
		o.SwatchTile = swatch.DefaultTile
	}
	return nil
}

// Artifact is one rendered file.
type Artifact struct {
	Group  string        `json:"group,omitempty"`
	Kind   string        `json:"kind"`
	Format render.Format `json:"format"`
	Data   []byte        `json:"-"`
	Cached bool          `json:"cached"`
}

// Name returns a file name for the artifact: "<group>.skeleton.<ext>" for
// hierarchies and "materials.<ext>" for the swatch sheet.
func (a Artifact) Name() string {
	if a.Kind == KindSwatch {
		return "materials" + a.Format.Ext()
	}
	return fileStem(a.Group) + ".skeleton" + a.Format.Ext()
}

// fileStem makes a group name safe to use as a file name. Separators,
// reserved characters and control characters become underscores, and
// leading or trailing dots and spaces are trimmed.
func fileStem(name string) string {
	stem := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, name)
	stem = strings.Trim(stem, ". ")
	if stem == "" {
		return "group"
	}
	return stem
}

// Result is the outcome of a pipeline run.
type Result struct {
	Report    *assembly.Report `json:"report"`
	Artifacts []Artifact       `json:"artifacts,omitempty"`
	Stats     Stats            `json:"stats"`
}

// Stats records pipeline timings.
type Stats struct {
	AssembleTime time.Duration `json:"assemble_time"`
	RenderTime   time.Duration `json:"render_time"`
	CacheHits    int           `json:"cache_hits"`
}

// Artifact returns the first artifact of the given group and format.
func (r *Result) Artifact(group string, format render.Format) (Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Group == group && a.Format == format {
			return a, true
		}
	}
	return Artifact{}, false
}
