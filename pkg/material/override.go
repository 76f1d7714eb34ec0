package material

import (
	"github.com/rigport/rigport/pkg/asset"
)

// Slot describes one material slot of a mesh as the host reports it.
type Slot struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	MaterialName string `json:"material"`
}

// SlotOverrideTargets returns the slot indices a part-level override
// rebinds. The material currently bound at override.Slot names the target,
// and every slot whose material has that name (case-insensitively) matches.
// An out-of-range slot matches nothing.
func SlotOverrideTargets(slots []Slot, override asset.MaterialBinding) []int {
	if override.Slot < 0 || override.Slot >= len(slots) {
		return nil
	}
	target := asset.Fold(slots[override.Slot].MaterialName)
	var out []int
	for _, s := range slots {
		if asset.Fold(s.MaterialName) == target {
			out = append(out, s.Index)
		}
	}
	return out
}

// VariantOverrideTargets returns the slot indices a group-level variant
// override rebinds: every slot whose own name matches
// override.MaterialNameToSwap case-insensitively.
func VariantOverrideTargets(slots []Slot, override asset.MaterialBinding) []int {
	if override.MaterialNameToSwap == "" {
		return nil
	}
	target := asset.Fold(override.MaterialNameToSwap)
	var out []int
	for _, s := range slots {
		if asset.Fold(s.Name) == target {
			out = append(out, s.Index)
		}
	}
	return out
}
