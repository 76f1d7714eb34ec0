package material

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rigport/rigport/pkg/asset"
)

func binding(name string, hash asset.MaterialHash) asset.MaterialBinding {
	return asset.MaterialBinding{MaterialDescriptor: asset.MaterialDescriptor{Name: name, Hash: hash}}
}

func TestSynthesizeTextures(t *testing.T) {
	d := asset.MaterialDescriptor{
		Textures: []asset.TextureParam{
			{Name: "Normals", Value: "/Game/T/N.N"},
			{Name: "Diffuse", Value: "/Game/T/D.D", SRGB: true},
			{Name: "Emissive", Value: "/Game/T/E.E"},
			{Name: "Mask", Value: "/Game/T/Mask.Mask"},
			{Name: "M", Value: "/Game/T/M.M"},
		},
	}

	p, misses := Synthesize(d, asset.Meta{}, BaseInputs{})

	want := []TextureBinding{
		{Slot: SlotDiffuse, Path: "/Game/T/D.D", ColorSpace: ColorSpaceSRGB, Location: Location{-300, -75}},
		{Slot: SlotM, Path: "/Game/T/M.M", ColorSpace: ColorSpaceNonColor, Location: Location{-300, -120}},
		{Slot: SlotNormals, Path: "/Game/T/N.N", ColorSpace: ColorSpaceNonColor, Location: Location{-300, -315}},
	}
	if diff := cmp.Diff(want, p.Textures); diff != "" {
		t.Errorf("Textures mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Miss{{Kind: "texture", Name: "Emissive"}}, misses); diff != "" {
		t.Errorf("misses mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizeSRM(t *testing.T) {
	d := asset.MaterialDescriptor{
		Textures: []asset.TextureParam{{Name: "SRM", Value: "/Game/T/SRM.SRM"}},
	}
	p, _ := Synthesize(d, asset.Meta{}, BaseInputs{})

	tb, ok := p.Texture(SlotSpecularMasks)
	if !ok || tb.Path != "/Game/T/SRM.SRM" {
		t.Errorf("SpecularMasks = %+v, %v", tb, ok)
	}
	if !p.Switches[SwitchSwizzleRoughnessToGreen] {
		t.Error("SRM texture must set SwizzleRoughnessToGreen")
	}
}

func TestSynthesizeSpecularMasksDoesNotSwizzle(t *testing.T) {
	d := asset.MaterialDescriptor{
		Textures: []asset.TextureParam{{Name: "SpecularMasks", Value: "/Game/T/S.S"}},
	}
	p, _ := Synthesize(d, asset.Meta{}, BaseInputs{})
	if _, ok := p.Switches[SwitchSwizzleRoughnessToGreen]; ok {
		t.Error("SpecularMasks must not set the swizzle switch")
	}
}

func TestSynthesizeScalarsVectorsSwitches(t *testing.T) {
	d := asset.MaterialDescriptor{
		Scalars: []asset.ScalarParam{
			{Name: "RawRoughnessMin", Value: 0.1},
			{Name: "RoughnessMax", Value: 0.9},
			{Name: "Metallic", Value: 1},
		},
		Vectors: []asset.VectorParam{
			{Name: "Skin Boost Color And Exponent", Value: asset.Color{R: 0.2, G: 0.3, B: 0.4, A: 5}},
			{Name: "Tint", Value: asset.Color{R: 1}},
		},
		Switches: []asset.SwitchParam{
			{Name: "SwizzleRoughnessToGreen", Value: true},
			{Name: "UseEmissive", Value: true},
		},
	}

	p, misses := Synthesize(d, asset.Meta{}, BaseInputs{AmbientOcclusion: 0.5, Cavity: 0.25, Subsurface: 0.75})

	wantScalars := map[string]float64{
		SlotAO:           0.5,
		SlotCavity:       0.25,
		SlotSubsurface:   0.75,
		SlotRoughnessMin: 0.1,
		SlotRoughnessMax: 0.9,
		SlotSkinBoost:    5,
	}
	if diff := cmp.Diff(wantScalars, p.Scalars); diff != "" {
		t.Errorf("Scalars mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]asset.Color{SlotSkinColor: {R: 0.2, G: 0.3, B: 0.4, A: 1}}, p.Colors); diff != "" {
		t.Errorf("Colors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]bool{SwitchSwizzleRoughnessToGreen: true}, p.Switches); diff != "" {
		t.Errorf("Switches mismatch (-want +got):\n%s", diff)
	}
	if len(misses) != 3 {
		t.Errorf("misses = %v, want 3", misses)
	}
}

func TestSynthesizeDeclaredSwitchAfterSRM(t *testing.T) {
	d := asset.MaterialDescriptor{
		Textures: []asset.TextureParam{{Name: "SRM", Value: "/a.a"}},
		Switches: []asset.SwitchParam{{Name: "SwizzleRoughnessToGreen", Value: false}},
	}
	p, _ := Synthesize(d, asset.Meta{}, BaseInputs{})
	if p.Switches[SwitchSwizzleRoughnessToGreen] {
		t.Error("declared switch is applied after textures and should win")
	}
}

func TestSkinColorOverrideWins(t *testing.T) {
	vectors := [][]asset.VectorParam{
		nil,
		{{Name: "Skin Boost Color And Exponent", Value: asset.Color{R: 0.9, G: 0.9, B: 0.9, A: 9}}},
		{
			{Name: "Skin Boost Color And Exponent", Value: asset.Color{R: 0.1, A: 3}},
			{Name: "Other", Value: asset.Color{G: 1}},
		},
	}
	skin := asset.Color{R: 0.8, G: 0.6, B: 0.5, A: 0.4}

	for i, vs := range vectors {
		d := asset.MaterialDescriptor{Vectors: vs}
		p, _ := Synthesize(d, asset.Meta{SkinColor: &skin}, BaseInputs{})
		if got := p.Colors[SlotSkinColor]; got != skin.Opaque() {
			t.Errorf("case %d: Skin Color = %+v, want %+v", i, got, skin.Opaque())
		}
		if got := p.Scalars[SlotSkinBoost]; got != skin.A {
			t.Errorf("case %d: Skin Boost = %v, want %v", i, got, skin.A)
		}
	}
}

func TestSkinColorZeroAlphaIgnored(t *testing.T) {
	skin := asset.Color{R: 1, A: 0}
	d := asset.MaterialDescriptor{
		Vectors: []asset.VectorParam{{Name: "Skin Boost Color And Exponent", Value: asset.Color{B: 1, A: 2}}},
	}
	p, _ := Synthesize(d, asset.Meta{SkinColor: &skin}, BaseInputs{})
	if got := p.Colors[SlotSkinColor]; got != (asset.Color{B: 1, A: 1}) {
		t.Errorf("Skin Color = %+v, want declared vector", got)
	}
}

func TestResolveCachesByHash(t *testing.T) {
	r := NewResolver(NewCache(), BaseInputs{}, nil)

	first, hit := r.Resolve(binding("M_Body", "a1b2"), asset.Meta{})
	if hit {
		t.Error("first resolve should miss")
	}
	second, hit := r.Resolve(binding("M_Other", "a1b2"), asset.Meta{})
	if !hit {
		t.Error("second resolve should hit")
	}
	if first != second {
		t.Error("equal hashes must yield the same *Resolved")
	}
	if second.Name != "M_Body" {
		t.Errorf("cached Name = %q, want first material's name", second.Name)
	}
}

func TestResolveSynthesisCount(t *testing.T) {
	r := NewResolver(nil, BaseInputs{}, nil)
	hashes := []asset.MaterialHash{"a", "b", "a", "c", "b", "a", "c", "c"}
	for _, h := range hashes {
		r.Resolve(binding("M", h), asset.Meta{})
	}
	if got := r.Stats().Syntheses; got != 3 {
		t.Errorf("Syntheses = %d, want 3 distinct hashes", got)
	}
	if got := r.Stats().Hits; got != 5 {
		t.Errorf("Hits = %d, want 5", got)
	}
	if got := r.Cache().Len(); got != 3 {
		t.Errorf("cache Len = %d, want 3", got)
	}
}

func TestResolveEmptyHashNotCached(t *testing.T) {
	r := NewResolver(nil, BaseInputs{}, nil)
	a, _ := r.Resolve(binding("M_A", ""), asset.Meta{})
	b, hit := r.Resolve(binding("M_B", ""), asset.Meta{})
	if hit || a == b {
		t.Error("hashless materials must not share a cache entry")
	}
	if r.Stats().Uncachable != 2 {
		t.Errorf("Uncachable = %d, want 2", r.Stats().Uncachable)
	}
	if r.Cache().Len() != 0 {
		t.Errorf("cache Len = %d, want 0", r.Cache().Len())
	}
}

func TestResolveCachedIgnoresLaterMeta(t *testing.T) {
	r := NewResolver(nil, BaseInputs{}, nil)
	skin := asset.Color{R: 1, A: 1}

	plain, _ := r.Resolve(binding("M_Skin", "s"), asset.Meta{})
	again, _ := r.Resolve(binding("M_Skin", "s"), asset.Meta{SkinColor: &skin})
	if plain != again {
		t.Fatal("expected cache hit")
	}
	if _, ok := again.Params.Colors[SlotSkinColor]; ok {
		t.Error("cache hit must not re-apply meta")
	}
}

func TestCacheWriteOnce(t *testing.T) {
	c := NewCache()
	first := &Resolved{Name: "a", Hash: "h"}
	if !c.Put(first) {
		t.Fatal("first Put should store")
	}
	if c.Put(&Resolved{Name: "b", Hash: "h"}) {
		t.Error("second Put under same hash should be rejected")
	}
	got, _ := c.Get("h")
	if got != first {
		t.Error("entry was replaced")
	}
	if c.Put(&Resolved{Name: "x"}) || c.Put(nil) {
		t.Error("Put without hash should be rejected")
	}

	c.Put(&Resolved{Name: "c", Hash: "k"})
	all := c.All()
	if len(all) != 2 || all[0] != first || all[1].Name != "c" {
		t.Errorf("All() = %v", all)
	}

	c.Reset()
	if c.Len() != 0 || len(c.All()) != 0 {
		t.Error("Reset should empty the cache")
	}
	if _, ok := c.Get("h"); ok {
		t.Error("Get after Reset should miss")
	}
}
