package asset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rigport/rigport/pkg/errors"
)

// ExportKindOutfit is the group export kind whose skeletons may be merged.
const ExportKindOutfit = "Outfit"

// MeshExportType selects the on-disk mesh format the extractor wrote.
type MeshExportType int

const (
	// MeshUEFormat meshes are stored as .uemodel files.
	MeshUEFormat MeshExportType = iota
	// MeshActorX meshes are stored as .pskx or .psk files.
	MeshActorX
)

// String returns the export type name.
func (t MeshExportType) String() string {
	switch t {
	case MeshUEFormat:
		return "UEFormat"
	case MeshActorX:
		return "ActorX"
	}
	return fmt.Sprintf("MeshExportType(%d)", int(t))
}

// Valid reports whether t is a known export type.
func (t MeshExportType) Valid() bool {
	return t == MeshUEFormat || t == MeshActorX
}

// ParseMeshExportType parses an export type name or index.
func ParseMeshExportType(s string) (MeshExportType, error) {
	switch s {
	case "UEFormat", "uemodel", "0":
		return MeshUEFormat, nil
	case "ActorX", "psk", "1":
		return MeshActorX, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown mesh export type %q", s)
}

// Options are the job options supplied with a payload.
//
// Only MergeSkeletons changes the assembly control flow. The rest are passed
// through to host object creation.
type Options struct {
	MergeSkeletons   bool           `json:"MergeSkeletons"`
	ImportCollection bool           `json:"ImportCollection"`
	AmbientOcclusion float64        `json:"AmbientOcclusion"`
	Cavity           float64        `json:"Cavity"`
	Subsurface       float64        `json:"Subsurface"`
	MeshExportType   MeshExportType `json:"MeshExportType"`
}

// Payload is one export request: every group in it is assembled by a single job.
type Payload struct {
	AssetsFolder string  `json:"AssetsFolder"`
	Options      Options `json:"Options"`
	Data         []Group `json:"Data"`
}

// Group is one logical asset (a character outfit, a backpack, ...).
type Group struct {
	Name              string            `json:"Name"`
	Type              string            `json:"Type"`
	Meshes            []Part            `json:"Meshes"`
	OverrideMeshes    []Part            `json:"OverrideMeshes,omitempty"`
	OverrideMaterials []MaterialBinding `json:"OverrideMaterials,omitempty"`
}

// PartsToImport returns the parts a group actually imports.
//
// The list starts with OverrideMeshes. Each part of Meshes is then appended
// unless a part of the same kind is already in the list, so an override
// replaces the default part of its kind and later defaults of a kind that
// was just appended are dropped.
func (g Group) PartsToImport() []Part {
	parts := make([]Part, 0, len(g.OverrideMeshes)+len(g.Meshes))
	parts = append(parts, g.OverrideMeshes...)
	for _, mesh := range g.Meshes {
		if !hasKind(parts, mesh.Type) {
			parts = append(parts, mesh)
		}
	}
	return parts
}

func hasKind(parts []Part, kind string) bool {
	for _, p := range parts {
		if p.Type == kind {
			return true
		}
	}
	return false
}

// MergesSkeletons reports whether this group's skeletons are merged under opts.
func (g Group) MergesSkeletons(opts Options) bool {
	return g.Type == ExportKindOutfit && opts.MergeSkeletons
}

// Validate checks structural requirements that the job relies on. Part
// paths and group names are not checked here: a bad part path fails only
// that part when the job loads it.
func (p *Payload) Validate() error {
	if !p.Options.MeshExportType.Valid() {
		return errors.New(errors.ErrCodeInvalidPayload, "unknown mesh export type %d", int(p.Options.MeshExportType))
	}
	return nil
}

// Decode reads a JSON payload from r and validates it.
func Decode(r io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode payload")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and validates a JSON payload file.
func Load(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "payload %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
