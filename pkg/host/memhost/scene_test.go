package memhost

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rigport/rigport/pkg/host"
	"github.com/rigport/rigport/pkg/material"
	"github.com/rigport/rigport/pkg/skeleton"
)

func bodyRig() Rig {
	return Rig{
		Bones: []skeleton.Bone{
			{Name: "root"},
			{Name: "pelvis", Parent: "root"},
			{Name: "spine", Parent: "pelvis"},
			{Name: "head", Parent: "spine"},
		},
		Materials: []string{"M_Body", "M_Skin"},
	}
}

func headRig() Rig {
	return Rig{
		Bones: []skeleton.Bone{
			{Name: "root"},
			{Name: "head", Parent: "root"},
			{Name: "jaw", Parent: "head"},
		},
		Materials: []string{"M_Head"},
		ShapeKeys: []string{"Basis", "Cap"},
	}
}

func TestObjectName(t *testing.T) {
	tests := map[string]string{
		"/Game/Body/SK_Body.SK_Body": "SK_Body",
		"/Game/Body/SK_Body":         "SK_Body",
		"plain":                      "plain",
	}
	for in, want := range tests {
		if got := ObjectName(in); got != want {
			t.Errorf("ObjectName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadMeshNotFound(t *testing.T) {
	s := New()
	_, _, err := s.LoadMesh(context.Background(), "/Game/Missing.Missing")
	if !errors.Is(err, host.ErrNotFound) {
		t.Errorf("LoadMesh() error = %v, want ErrNotFound", err)
	}
}

func TestLoadMeshDecodeError(t *testing.T) {
	s := New()
	s.AddMesh("/Game/Bad.Bad", Rig{Bones: []skeleton.Bone{{Name: "a"}, {Name: "a"}}})
	_, _, err := s.LoadMesh(context.Background(), "/Game/Bad.Bad")
	if !errors.Is(err, host.ErrDecode) {
		t.Errorf("LoadMesh() error = %v, want ErrDecode", err)
	}
}

func TestUnionRenamesCollisions(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.AddMesh("/Game/Body.Body", bodyRig())
	s.AddMesh("/Game/Head.Head", headRig())

	bodySkel, _, err := s.LoadMesh(ctx, "/Game/Body.Body")
	if err != nil {
		t.Fatal(err)
	}
	headSkel, _, err := s.LoadMesh(ctx, "/Game/Head.Head")
	if err != nil {
		t.Fatal(err)
	}

	merged, err := s.UnionSkeletons(ctx, []host.Handle{bodySkel, headSkel})
	if err != nil {
		t.Fatalf("UnionSkeletons: %v", err)
	}
	if merged != bodySkel {
		t.Errorf("union result = %s, want primary %s", merged, bodySkel)
	}
	if s.Skeletons() != 1 {
		t.Errorf("Skeletons() = %d, want 1 after union", s.Skeletons())
	}

	bones, err := s.EnumerateBones(ctx, merged)
	if err != nil {
		t.Fatal(err)
	}
	want := []skeleton.Bone{
		{Name: "root"},
		{Name: "pelvis", Parent: "root"},
		{Name: "spine", Parent: "pelvis"},
		{Name: "head", Parent: "spine"},
		{Name: "root.001"},
		{Name: "head.001", Parent: "root.001"},
		{Name: "jaw", Parent: "head.001"},
	}
	if diff := cmp.Diff(want, bones); diff != "" {
		t.Errorf("bones mismatch (-want +got):\n%s", diff)
	}
}

func TestUnionError(t *testing.T) {
	s := New()
	s.UnionErr = errors.New("boom")
	if _, err := s.UnionSkeletons(context.Background(), nil); err == nil {
		t.Error("UnionSkeletons() error = nil, want injected error")
	}
	if _, err := s.UnionMeshes(context.Background(), nil); err == nil {
		t.Error("UnionMeshes() error = nil, want injected error")
	}
}

func TestBindMaterial(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.AddMesh("/Game/Body.Body", bodyRig())
	_, mesh, err := s.LoadMesh(ctx, "/Game/Body.Body")
	if err != nil {
		t.Fatal(err)
	}
	before := s.SlotMaterials(mesh)

	reused, err := s.BindMaterial(ctx, mesh, 0, "m_body")
	if err != nil {
		t.Fatal(err)
	}
	if reused != before[0] {
		t.Errorf("BindMaterial with matching name = %s, want existing %s", reused, before[0])
	}

	created, err := s.BindMaterial(ctx, mesh, 1, "M_Skin_Variant")
	if err != nil {
		t.Fatal(err)
	}
	if created == before[1] {
		t.Error("BindMaterial with new name reused the old material")
	}
	slots, _ := s.MaterialSlots(ctx, mesh)
	if slots[1].Name != "M_Skin_Variant" {
		t.Errorf("slot 1 name = %q, want M_Skin_Variant", slots[1].Name)
	}

	if _, err := s.BindMaterial(ctx, mesh, 5, "x"); !errors.Is(err, host.ErrNotFound) {
		t.Errorf("BindMaterial out of range error = %v, want ErrNotFound", err)
	}
}

func TestApplyShaderParameters(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.AddMesh("/Game/Body.Body", bodyRig())
	s.AddImage("/Game/T/T_Body_D.T_Body_D")
	_, mesh, _ := s.LoadMesh(ctx, "/Game/Body.Body")
	mat, _ := s.BindMaterial(ctx, mesh, 0, "M_Body")

	img, ok, err := s.LoadImage(ctx, "/Game/T/T_Body_D.T_Body_D")
	if err != nil || !ok {
		t.Fatalf("LoadImage() = %v, %v", ok, err)
	}
	again, _, _ := s.LoadImage(ctx, "/Game/Other/T_Body_D.T_Body_D")
	if again != img {
		t.Error("images with the same object name should be shared")
	}
	if _, ok, _ := s.LoadImage(ctx, "/Game/T/T_Missing.T_Missing"); ok {
		t.Error("missing image reported as present")
	}

	params := material.ParameterSet{Scalars: map[string]float64{material.SlotAO: 1}}
	if err := s.ApplyShaderParameters(ctx, mat, params, map[string]host.Handle{material.SlotDiffuse: img}); err != nil {
		t.Fatalf("ApplyShaderParameters: %v", err)
	}
	m, _ := s.Material(mat)
	if m.Params == nil || m.Params.Scalars[material.SlotAO] != 1 {
		t.Errorf("params not stored: %+v", m.Params)
	}
	if m.Images[material.SlotDiffuse] != img {
		t.Errorf("diffuse image = %s, want %s", m.Images[material.SlotDiffuse], img)
	}
}

func TestRemoveBonesSplicesChildren(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.AddMesh("/Game/Body.Body", bodyRig())
	skel, _, _ := s.LoadMesh(ctx, "/Game/Body.Body")

	if err := s.RemoveBones(ctx, skel, []string{"spine"}); err != nil {
		t.Fatal(err)
	}
	bones, _ := s.EnumerateBones(ctx, skel)
	for _, b := range bones {
		if b.Name == "head" && b.Parent != "pelvis" {
			t.Errorf("head parent = %q, want pelvis", b.Parent)
		}
	}
}

func TestShapeKeysAndConstraints(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.AddMesh("/Game/Body.Body", bodyRig())
	s.AddMesh("/Game/Head.Head", headRig())
	bodySkel, _, _ := s.LoadMesh(ctx, "/Game/Body.Body")
	headSkel, headMesh, _ := s.LoadMesh(ctx, "/Game/Head.Head")

	if err := s.SetShapeKey(ctx, headMesh, "Cap", 1); err != nil {
		t.Fatal(err)
	}
	if got := s.ShapeKeyValue(headMesh, "Cap"); got != 1 {
		t.Errorf("Cap = %v, want 1", got)
	}
	if err := s.SetShapeKey(ctx, headMesh, "Helmet", 1); !errors.Is(err, host.ErrNotFound) {
		t.Errorf("SetShapeKey unknown key error = %v", err)
	}

	if err := s.CreateConstraint(ctx, headSkel, bodySkel, "head", skeleton.SocketRotation); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateConstraint(ctx, headSkel, bodySkel, "tail", skeleton.SocketRotation); err == nil {
		t.Error("constraint to a missing bone should fail")
	}
	if len(s.Constraints) != 1 || s.Constraints[0].Bone != "head" {
		t.Errorf("Constraints = %+v", s.Constraints)
	}

	_ = s.CreateCollection(ctx, "Outfit")
	_ = s.CreateCollection(ctx, "Outfit")
	if len(s.Collections) != 1 {
		t.Errorf("Collections = %v, want one entry", s.Collections)
	}
}
