package skeleton

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustHierarchy(t *testing.T, bones ...Bone) *Hierarchy {
	t.Helper()
	h, err := FromBones(bones)
	if err != nil {
		t.Fatalf("FromBones: %v", err)
	}
	return h
}

func TestFromBones(t *testing.T) {
	h := mustHierarchy(t,
		Bone{Name: "spine", Parent: "pelvis"},
		Bone{Name: "pelvis", Parent: "root"},
		Bone{Name: "root"},
	)

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	if diff := cmp.Diff([]string{"root"}, h.Roots()); diff != "" {
		t.Errorf("Roots mismatch (-want +got):\n%s", diff)
	}
	if got := h.Depth("spine"); got != 2 {
		t.Errorf("Depth(spine) = %d, want 2", got)
	}
	if got := h.Depth("missing"); got != -1 {
		t.Errorf("Depth(missing) = %d, want -1", got)
	}
	if !h.IsAncestor("root", "spine") {
		t.Error("root should be an ancestor of spine")
	}
}

func TestFromBonesErrors(t *testing.T) {
	tests := []struct {
		name  string
		bones []Bone
		want  error
	}{
		{"empty name", []Bone{{Name: ""}}, ErrInvalidBoneName},
		{"duplicate", []Bone{{Name: "a"}, {Name: "a"}}, ErrDuplicateBone},
		{"unknown parent", []Bone{{Name: "a", Parent: "ghost"}}, ErrUnknownBone},
		{"cycle", []Bone{{Name: "a", Parent: "b"}, {Name: "b", Parent: "a"}}, ErrCycle},
		{"self parent", []Bone{{Name: "a", Parent: "a"}}, ErrCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBones(tt.bones)
			if !errors.Is(err, tt.want) {
				t.Errorf("FromBones() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSetParent(t *testing.T) {
	h := mustHierarchy(t,
		Bone{Name: "root"},
		Bone{Name: "a", Parent: "root"},
		Bone{Name: "b", Parent: "a"},
	)

	if err := h.SetParent("root", "b"); !errors.Is(err, ErrCycle) {
		t.Errorf("SetParent(root, b) error = %v, want ErrCycle", err)
	}
	if b, _ := h.Bone("root"); !b.IsRoot() {
		t.Error("rejected SetParent must leave hierarchy unchanged")
	}

	if err := h.SetParent("b", "root"); err != nil {
		t.Fatalf("SetParent(b, root): %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, h.Children("root")); diff != "" {
		t.Errorf("Children(root) mismatch (-want +got):\n%s", diff)
	}
	if got := h.Children("a"); len(got) != 0 {
		t.Errorf("Children(a) = %v, want none", got)
	}

	if err := h.SetParent("a", ""); err != nil {
		t.Fatalf("SetParent(a, \"\"): %v", err)
	}
	if diff := cmp.Diff([]string{"root", "a"}, h.Roots()); diff != "" {
		t.Errorf("Roots mismatch (-want +got):\n%s", diff)
	}

	if err := h.SetParent("ghost", "root"); !errors.Is(err, ErrUnknownBone) {
		t.Errorf("SetParent(ghost) error = %v, want ErrUnknownBone", err)
	}
}

func TestRemoveSplicesChildren(t *testing.T) {
	h := mustHierarchy(t,
		Bone{Name: "root"},
		Bone{Name: "mid", Parent: "root"},
		Bone{Name: "leaf1", Parent: "mid"},
		Bone{Name: "leaf2", Parent: "mid"},
	)

	h.Remove("mid", "not-there")

	want := []Bone{
		{Name: "root"},
		{Name: "leaf1", Parent: "root"},
		{Name: "leaf2", Parent: "root"},
	}
	if diff := cmp.Diff(want, h.Bones()); diff != "" {
		t.Errorf("Bones mismatch (-want +got):\n%s", diff)
	}

	h.Remove("root")
	if diff := cmp.Diff([]string{"leaf1", "leaf2"}, h.Roots()); diff != "" {
		t.Errorf("Roots after removing root mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk(t *testing.T) {
	h := mustHierarchy(t,
		Bone{Name: "root"},
		Bone{Name: "spine", Parent: "root"},
		Bone{Name: "head", Parent: "spine"},
		Bone{Name: "thigh", Parent: "root"},
	)

	var got []string
	h.Walk(func(b Bone, depth int) bool {
		got = append(got, b.Name)
		return true
	})
	if diff := cmp.Diff([]string{"root", "spine", "head", "thigh"}, got); diff != "" {
		t.Errorf("Walk order mismatch (-want +got):\n%s", diff)
	}

	got = nil
	h.Walk(func(b Bone, depth int) bool {
		got = append(got, b.Name)
		return b.Name != "spine"
	})
	if diff := cmp.Diff([]string{"root", "spine"}, got); diff != "" {
		t.Errorf("Walk stop mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	h := mustHierarchy(t, Bone{Name: "root"}, Bone{Name: "a", Parent: "root"})
	c := h.Clone()
	c.Remove("a")
	if !h.Has("a") {
		t.Error("Remove on clone affected original")
	}
	if len(h.Children("root")) != 1 {
		t.Error("clone shares children slices with original")
	}
}

func TestHierarchyJSON(t *testing.T) {
	h := mustHierarchy(t, Bone{Name: "root"}, Bone{Name: "spine", Parent: "root"})
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `[{"name":"root"},{"name":"spine","parent":"root"}]` {
		t.Errorf("Marshal = %s", data)
	}

	var back Hierarchy
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(h.Bones(), back.Bones()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
