package skeleton

import (
	"errors"
	"fmt"

	"github.com/rigport/rigport/pkg/asset"
)

// Stage is the progress of one merge through its single pass.
type Stage int

const (
	StageUnprocessed Stage = iota
	StageUnioned
	StageDeduplicated
	StageReparented
	StageDone
)

var stageNames = [...]string{"unprocessed", "unioned", "deduplicated", "reparented", "done"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// MarshalText encodes the stage name.
func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ParentLink records that Bone should be parented to Parent.
type ParentLink struct {
	Bone   string `json:"bone"`
	Parent string `json:"parent"`
}

// MergePlan is the set of host operations that collapses a unioned skeleton.
type MergePlan struct {
	// Links is the canonical parent map, in first-seen order.
	Links []ParentLink `json:"links"`
	// Remove lists raw bone names carrying the duplicate suffix.
	Remove []string `json:"remove"`
	// Reparent lists the links whose two bones both survive removal.
	Reparent []ParentLink `json:"reparent"`
	// Dropped lists links skipped because a bone was removed or because
	// applying them would create a cycle.
	Dropped []ParentLink `json:"dropped,omitempty"`
}

// CanonicalParents builds the canonical parent map of a bone list. Each
// parented bone contributes canonical(bone) → canonical(parent); when
// several copies of a bone disagree the last one wins, but the link keeps
// the position of the first copy. Links that canonicalize to a self-loop
// are omitted.
func CanonicalParents(bones []Bone) []ParentLink {
	index := make(map[string]int)
	var links []ParentLink
	for _, b := range bones {
		if b.Parent == "" {
			continue
		}
		link := ParentLink{Bone: Canonical(b.Name), Parent: Canonical(b.Parent)}
		if link.Bone == link.Parent {
			continue
		}
		if i, ok := index[link.Bone]; ok {
			links[i] = link
			continue
		}
		index[link.Bone] = len(links)
		links = append(links, link)
	}
	return links
}

// PlanMerge computes the collapse of a unioned skeleton and returns the plan
// together with the resulting master hierarchy.
func PlanMerge(bones []Bone) (MergePlan, *Hierarchy, error) {
	h, err := FromBones(bones)
	if err != nil {
		return MergePlan{}, nil, fmt.Errorf("build hierarchy: %w", err)
	}

	plan := MergePlan{Links: CanonicalParents(bones)}

	for _, b := range bones {
		if IsDuplicate(b.Name) {
			plan.Remove = append(plan.Remove, b.Name)
		}
	}
	h.Remove(plan.Remove...)

	for _, link := range plan.Links {
		if !h.Has(link.Bone) || !h.Has(link.Parent) {
			plan.Dropped = append(plan.Dropped, link)
			continue
		}
		if err := h.SetParent(link.Bone, link.Parent); err != nil {
			if errors.Is(err, ErrCycle) {
				plan.Dropped = append(plan.Dropped, link)
				continue
			}
			return MergePlan{}, nil, err
		}
		plan.Reparent = append(plan.Reparent, link)
	}

	return plan, h, nil
}

// PrimaryIndex returns the index of the first Body part, or 0 when there is
// none. The union result takes the identity of this part.
func PrimaryIndex(kinds []string) int {
	for i, k := range kinds {
		if k == asset.KindBody {
			return i
		}
	}
	return 0
}

// UnionOrder returns the order in which parts of the given kinds are passed
// to a host union: the primary part first, then the rest in their original
// relative order.
func UnionOrder(kinds []string) []int {
	if len(kinds) == 0 {
		return nil
	}
	primary := PrimaryIndex(kinds)
	order := make([]int, 0, len(kinds))
	order = append(order, primary)
	for i := range kinds {
		if i != primary {
			order = append(order, i)
		}
	}
	return order
}
