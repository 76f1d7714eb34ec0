package assembly

import (
	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/skeleton"
)

// Part roles in a preview.
const (
	RoleMerge   = "merge"
	RoleAttach  = "attach"
	RoleImport  = "import"
	RoleSkipped = "skipped"
)

// Preview is what a job would do with a payload, computed without a host.
type Preview struct {
	Groups []GroupPreview `json:"groups"`
}

// GroupPreview describes one group of a preview.
type GroupPreview struct {
	Name      string        `json:"name"`
	Type      string        `json:"type"`
	Merges    bool          `json:"merges"`
	Primary   string        `json:"primary,omitempty"`
	Parts     []PartPreview `json:"parts"`
	Overrides int           `json:"overrides,omitempty"`
}

// PartPreview describes one part of a group preview.
type PartPreview struct {
	Kind      string `json:"kind"`
	Path      string `json:"path"`
	Role      string `json:"role"`
	Socket    string `json:"socket,omitempty"`
	Materials int    `json:"materials"`
	Error     string `json:"error,omitempty"`
}

// Inspect classifies every group of p.
//
// Parts a group imports are marked merge or attach when the group merges
// skeletons and import otherwise. Default meshes displaced by an override
// of the same kind are listed as skipped.
func Inspect(p *asset.Payload) Preview {
	var out Preview
	for _, g := range p.Data {
		out.Groups = append(out.Groups, inspectGroup(g, p.Options))
	}
	return out
}

func inspectGroup(g asset.Group, opts asset.Options) GroupPreview {
	gp := GroupPreview{
		Name:      g.Name,
		Type:      g.Type,
		Merges:    g.MergesSkeletons(opts),
		Overrides: len(g.OverrideMaterials),
	}

	parts := g.PartsToImport()
	imported := make(map[string]int)
	for _, p := range parts {
		imported[p.Path]++
	}

	if gp.Merges {
		merge, attach := asset.Classify(parts)
		if len(merge) > 0 {
			kinds := make([]string, len(merge))
			for i, p := range merge {
				kinds[i] = p.Type
			}
			gp.Primary = merge[skeleton.PrimaryIndex(kinds)].Path
		}
		for _, p := range merge {
			gp.Parts = append(gp.Parts, partPreview(p, RoleMerge))
		}
		for _, p := range attach {
			pp := partPreview(p, RoleAttach)
			if d, err := skeleton.Attach(p.Path, p.Meta); err != nil {
				pp.Error = err.Error()
			} else {
				pp.Socket = d.ParentSocketName
			}
			gp.Parts = append(gp.Parts, pp)
		}
	} else {
		for _, p := range parts {
			gp.Parts = append(gp.Parts, partPreview(p, RoleImport))
		}
	}

	for _, p := range g.Meshes {
		if imported[p.Path] > 0 {
			imported[p.Path]--
			continue
		}
		gp.Parts = append(gp.Parts, partPreview(p, RoleSkipped))
	}
	return gp
}

func partPreview(p asset.Part, role string) PartPreview {
	return PartPreview{Kind: p.Type, Path: p.Path, Role: role, Materials: len(p.Materials)}
}
