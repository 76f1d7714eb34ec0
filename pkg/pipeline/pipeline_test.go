package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/cache"
	rperrors "github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/host/memhost"
	"github.com/rigport/rigport/pkg/render"
	"github.com/rigport/rigport/pkg/skeleton"
)

const (
	bodyPath = "/Game/SK_Body.SK_Body"
	headPath = "/Game/SK_Head.SK_Head"
)

func scene() *memhost.Scene {
	s := memhost.New()
	s.AddMesh(bodyPath, memhost.Rig{
		Bones:     []skeleton.Bone{{Name: "root"}, {Name: "spine", Parent: "root"}, {Name: "head", Parent: "spine"}},
		Materials: []string{"M_Body"},
	})
	s.AddMesh(headPath, memhost.Rig{
		Bones:     []skeleton.Bone{{Name: "root"}, {Name: "head", Parent: "root"}, {Name: "jaw", Parent: "head"}},
		Materials: []string{"M_Head"},
	})
	return s
}

func payload() *asset.Payload {
	return &asset.Payload{
		Options: asset.Options{MergeSkeletons: true},
		Data: []asset.Group{{
			Name: "Outfit",
			Type: asset.ExportKindOutfit,
			Meshes: []asset.Part{
				{Type: asset.KindBody, Path: bodyPath, Materials: []asset.MaterialBinding{{
					MaterialDescriptor: asset.MaterialDescriptor{Name: "M_Body", Hash: "aa"},
				}}},
				{Type: asset.KindHead, Path: headPath, Materials: []asset.MaterialBinding{{
					MaterialDescriptor: asset.MaterialDescriptor{Name: "M_Head", Hash: "bb"},
				}}},
			},
		}},
	}
}

func quietRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != len(render.DefaultFormats) {
		t.Errorf("Formats = %v, want defaults", opts.Formats)
	}
	if opts.SwatchTile == 0 {
		t.Error("SwatchTile should default")
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code rperrors.Code
	}{
		{"swatch format as hierarchy", Options{Formats: []render.Format{render.FormatWebP}}, rperrors.ErrCodeInvalidFormat},
		{"unknown format", Options{Formats: []render.Format{"pdf"}}, rperrors.ErrCodeInvalidFormat},
		{"negative tile", Options{SwatchTile: -1}, rperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !rperrors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := quietRunner(t, nil)
	opts := Options{Formats: []render.Format{render.FormatDOT, render.FormatJSON}, Swatch: true}
	res, err := r.Execute(context.Background(), payload(), scene(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Artifacts) != 3 {
		t.Fatalf("got %d artifacts, want dot, json and swatch", len(res.Artifacts))
	}

	dot, ok := res.Artifact("Outfit", render.FormatDOT)
	if !ok {
		t.Fatal("missing dot artifact")
	}
	if dot.Name() != "Outfit.skeleton.dot" {
		t.Errorf("Name() = %q", dot.Name())
	}
	if !strings.Contains(string(dot.Data), `"head" -> "jaw";`) {
		t.Errorf("merged hierarchy should parent jaw to head:\n%s", dot.Data)
	}

	js, _ := res.Artifact("Outfit", render.FormatJSON)
	var bones []skeleton.Bone
	if err := json.Unmarshal(js.Data, &bones); err != nil {
		t.Fatal(err)
	}
	if len(bones) != 4 {
		t.Errorf("master hierarchy has %d bones, want 4: %+v", len(bones), bones)
	}

	sw, ok := res.Artifact("", render.FormatWebP)
	if !ok || sw.Name() != "materials.webp" || len(sw.Data) == 0 {
		t.Errorf("swatch artifact = %+v", sw)
	}
}

func TestArtifactName(t *testing.T) {
	tests := []struct {
		group string
		want  string
	}{
		{"Outfit", "Outfit.skeleton.svg"},
		{"Renegade / Raider", "Renegade _ Raider.skeleton.svg"},
		{"../up", "_up.skeleton.svg"},
		{`C:\x`, "C__x.skeleton.svg"},
		{"", "group.skeleton.svg"},
		{"..", "group.skeleton.svg"},
	}
	for _, tt := range tests {
		a := Artifact{Group: tt.group, Kind: KindHierarchy, Format: render.FormatSVG}
		if got := a.Name(); got != tt.want {
			t.Errorf("Name() for group %q = %q, want %q", tt.group, got, tt.want)
		}
	}
}

func TestExecuteCachesArtifacts(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(t, fc)
	opts := Options{Formats: []render.Format{render.FormatDOT}, Swatch: true}

	first, err := r.Execute(context.Background(), payload(), scene(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Stats.CacheHits != 0 {
		t.Errorf("first run hits = %d, want 0", first.Stats.CacheHits)
	}

	second, err := r.Execute(context.Background(), payload(), scene(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.Stats.CacheHits != 2 {
		t.Errorf("second run hits = %d, want 2", second.Stats.CacheHits)
	}

	opts.Refresh = true
	third, _ := r.Execute(context.Background(), payload(), scene(), opts)
	if third.Stats.CacheHits != 0 {
		t.Errorf("refresh run hits = %d, want 0", third.Stats.CacheHits)
	}
}

func TestExecuteNoMergeNoHierarchy(t *testing.T) {
	p := payload()
	p.Options.MergeSkeletons = false
	res, err := quietRunner(t, nil).Execute(context.Background(), p, scene(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Artifacts) != 0 {
		t.Errorf("artifacts = %+v, want none without a merge or swatch", res.Artifacts)
	}
}

func TestExecuteUnionFailure(t *testing.T) {
	s := scene()
	s.UnionErr = errors.New("join failed")
	res, err := quietRunner(t, nil).Execute(context.Background(), payload(), s, Options{Swatch: true})
	if !rperrors.Is(err, rperrors.ErrCodeUnionFailure) {
		t.Fatalf("Execute() error = %v, want UNION_FAILURE", err)
	}
	if res == nil || res.Report == nil {
		t.Fatal("partial report missing")
	}
	if len(res.Artifacts) != 0 {
		t.Error("a failed job should not render artifacts")
	}
}

func TestRenderTree(t *testing.T) {
	bones := []skeleton.Bone{{Name: "root"}, {Name: "head", Parent: "root"}, {Name: "head.001"}, {Name: "jaw", Parent: "head.001"}}
	plan, h, err := skeleton.PlanMerge(bones)
	if err != nil {
		t.Fatal(err)
	}
	arts, err := quietRunner(t, nil).RenderTree(context.Background(), "rig", h, plan, Options{Formats: []render.Format{render.FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if len(arts) != 1 || !strings.Contains(string(arts[0].Data), `"jaw" [label="jaw", fillcolor=`) {
		t.Errorf("re-parented bone should be highlighted:\n%s", arts[0].Data)
	}
}

// ttlCache records the TTL of every Set.
type ttlCache struct {
	cache.NullCache
	ttls []time.Duration
}

func (c *ttlCache) Set(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
	c.ttls = append(c.ttls, ttl)
	return nil
}

func TestRunnerTTL(t *testing.T) {
	c := &ttlCache{}
	r := quietRunner(t, c)
	r.TTL = time.Hour
	if _, err := r.Execute(context.Background(), payload(), scene(), Options{Formats: []render.Format{render.FormatDOT}}); err != nil {
		t.Fatal(err)
	}
	if len(c.ttls) == 0 {
		t.Fatal("nothing was cached")
	}
	for _, ttl := range c.ttls {
		if ttl != time.Hour {
			t.Errorf("ttl = %v, want 1h", ttl)
		}
	}
}
