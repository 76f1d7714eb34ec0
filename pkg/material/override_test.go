package material

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rigport/rigport/pkg/asset"
)

func slots(names ...string) []Slot {
	out := make([]Slot, len(names))
	for i, n := range names {
		out[i] = Slot{Index: i, Name: n, MaterialName: n}
	}
	return out
}

func TestSlotOverrideTargets(t *testing.T) {
	mesh := slots("M_Body", "M_Hands", "m_body", "M_Eyes")

	tests := []struct {
		name string
		slot int
		want []int
	}{
		{"matches every slot sharing the material", 0, []int{0, 2}},
		{"single match", 1, []int{1}},
		{"out of range", 4, nil},
		{"negative", -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := asset.MaterialBinding{Slot: tt.slot}
			if diff := cmp.Diff(tt.want, SlotOverrideTargets(mesh, o)); diff != "" {
				t.Errorf("targets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSlotOverrideTargetsUsesMaterialName(t *testing.T) {
	mesh := []Slot{
		{Index: 0, Name: "Slot0", MaterialName: "M_Skin"},
		{Index: 1, Name: "Slot1", MaterialName: "M_Cloth"},
		{Index: 2, Name: "Slot2", MaterialName: "M_SKIN"},
	}
	got := SlotOverrideTargets(mesh, asset.MaterialBinding{Slot: 2})
	if diff := cmp.Diff([]int{0, 2}, got); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestVariantOverrideTargets(t *testing.T) {
	mesh := []Slot{
		{Index: 0, Name: "MI_Body", MaterialName: "unrelated"},
		{Index: 1, Name: "MI_Hair", MaterialName: "MI_Body"},
		{Index: 2, Name: "mi_body", MaterialName: "x"},
	}

	got := VariantOverrideTargets(mesh, asset.MaterialBinding{MaterialNameToSwap: "MI_BODY"})
	if diff := cmp.Diff([]int{0, 2}, got); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}

	if got := VariantOverrideTargets(mesh, asset.MaterialBinding{}); got != nil {
		t.Errorf("empty MaterialNameToSwap matched %v", got)
	}
	if got := VariantOverrideTargets(mesh, asset.MaterialBinding{MaterialNameToSwap: "MI_Cape"}); got != nil {
		t.Errorf("no match expected, got %v", got)
	}
}
