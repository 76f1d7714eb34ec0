package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/rigport/rigport/internal/config"
	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/host/memhost"
	"github.com/rigport/rigport/pkg/host/sandbox"
	"github.com/rigport/rigport/pkg/skeleton"
)

// fixture writes an assets folder holding a body and a head mesh plus a
// payload that merges them, and returns the payload path.
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	rigs := map[string]memhost.Rig{
		"SK_Body": {
			Bones:     []skeleton.Bone{{Name: "root"}, {Name: "spine", Parent: "root"}, {Name: "head", Parent: "spine"}},
			Materials: []string{"M_Body"},
		},
		"SK_Head": {
			Bones:     []skeleton.Bone{{Name: "root"}, {Name: "head", Parent: "root"}, {Name: "jaw", Parent: "head"}},
			Materials: []string{"M_Head"},
		},
	}
	for name, rig := range rigs {
		base := filepath.Join(root, "Game", name)
		writeTestFile(t, base+".uemodel", "mesh")
		data, err := json.Marshal(rig)
		if err != nil {
			t.Fatal(err)
		}
		writeTestFile(t, base+sandbox.RigSuffix, string(data))
	}

	p := asset.Payload{
		Options: asset.Options{MergeSkeletons: true},
		Data: []asset.Group{{
			Name: "Outfit",
			Type: asset.ExportKindOutfit,
			Meshes: []asset.Part{
				{Type: asset.KindBody, Path: "/Game/SK_Body.SK_Body", Materials: []asset.MaterialBinding{{
					MaterialDescriptor: asset.MaterialDescriptor{Name: "M_Body", Hash: "aa"},
				}}},
				{Type: asset.KindHead, Path: "/Game/SK_Head.SK_Head"},
			},
		}},
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, "outfit.json")
	writeTestFile(t, path, string(data))
	return path
}

// execute runs the root command with an empty config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "rigport.toml")
	writeTestFile(t, cfg, "[cache]\ndisabled = true\n")

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--config", cfg))
	err := root.Execute()
	return out.String(), err
}

func TestImportCommand(t *testing.T) {
	payload := fixture(t)
	out := filepath.Join(t.TempDir(), "out")

	if _, err := execute(t, "import", payload, "-o", out, "--format", "dot,json"); err != nil {
		t.Fatalf("import: %v", err)
	}

	dot, err := os.ReadFile(filepath.Join(out, "Outfit.skeleton.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), `"head" -> "jaw";`) {
		t.Errorf("dot output does not parent jaw to the body head:\n%s", dot)
	}
	for _, name := range []string{"Outfit.skeleton.json", "materials.webp", reportFile} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	var res struct {
		Report struct {
			Groups []struct {
				Name string `json:"name"`
			} `json:"groups"`
		} `json:"report"`
	}
	data, _ := os.ReadFile(filepath.Join(out, reportFile))
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Report.Groups) != 1 || res.Report.Groups[0].Name != "Outfit" {
		t.Errorf("report groups = %+v", res.Report.Groups)
	}
}

func TestImportNoMerge(t *testing.T) {
	payload := fixture(t)
	out := filepath.Join(t.TempDir(), "out")

	if _, err := execute(t, "import", payload, "-o", out, "--no-merge", "--swatch=false"); err != nil {
		t.Fatalf("import: %v", err)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != reportFile {
		t.Errorf("output = %v, want only the report", entries)
	}
}

func TestImportMissingPayload(t *testing.T) {
	_, err := execute(t, "import", filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("import error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestImportRejectsPickWithWatch(t *testing.T) {
	_, err := execute(t, "import", fixture(t), "--pick", "--watch")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestResolvePayloadPrecedence(t *testing.T) {
	off := false
	cfg := config.Default()
	cfg.Import.MergeSkeletons = &off
	cfg.Import.Assets = "/from/config"

	tests := []struct {
		name       string
		args       []string
		wantMerge  bool
		wantAssets string
	}{
		{"config wins over payload", nil, false, "/from/config"},
		{"flag wins over config", []string{"--merge", "--assets", "/from/flag"}, true, "/from/flag"},
		{"no-merge flag", []string{"--no-merge"}, false, "/from/config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, log.InfoLevel)
			cmd := c.importCommand()
			var opts importOpts
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			opts.merge, _ = cmd.Flags().GetBool("merge")
			opts.assets, _ = cmd.Flags().GetString("assets")

			p := &asset.Payload{AssetsFolder: "/from/payload", Options: asset.Options{MergeSkeletons: true}}
			if err := resolvePayload(p, cfg, cmd, &opts, "/in/payload.json"); err != nil {
				t.Fatal(err)
			}
			if p.Options.MergeSkeletons != tt.wantMerge {
				t.Errorf("MergeSkeletons = %v, want %v", p.Options.MergeSkeletons, tt.wantMerge)
			}
			if p.AssetsFolder != tt.wantAssets {
				t.Errorf("AssetsFolder = %q, want %q", p.AssetsFolder, tt.wantAssets)
			}
		})
	}
}

func TestResolvePayloadDefaultsAssetsToPayloadDir(t *testing.T) {
	cmd := New(io.Discard, log.InfoLevel).importCommand()
	p := &asset.Payload{}
	if err := resolvePayload(p, config.Default(), cmd, &importOpts{}, "/exports/outfit.json"); err != nil {
		t.Fatal(err)
	}
	if p.AssetsFolder != "/exports" {
		t.Errorf("AssetsFolder = %q, want /exports", p.AssetsFolder)
	}
}

func TestInspectCommand(t *testing.T) {
	out, err := execute(t, "inspect", fixture(t), "--json")
	if err != nil {
		t.Fatal(err)
	}
	var preview struct {
		Groups []struct {
			Merges  bool   `json:"merges"`
			Primary string `json:"primary"`
		} `json:"groups"`
	}
	if err := json.Unmarshal([]byte(out), &preview); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(preview.Groups) != 1 || !preview.Groups[0].Merges || preview.Groups[0].Primary != "/Game/SK_Body.SK_Body" {
		t.Errorf("preview = %+v", preview)
	}
}

func TestInspectCommandTable(t *testing.T) {
	out, err := execute(t, "inspect", fixture(t))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Outfit", "merge", "primary"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	rig := memhost.Rig{Bones: []skeleton.Bone{
		{Name: "root"},
		{Name: "head", Parent: "root"},
		{Name: "root.001"},
		{Name: "head.001", Parent: "root.001"},
		{Name: "jaw", Parent: "head.001"},
	}}
	data, _ := json.Marshal(rig)
	sidecar := filepath.Join(dir, "SK_Merged"+sandbox.RigSuffix)
	writeTestFile(t, sidecar, string(data))

	if _, err := execute(t, "render", sidecar, "-f", "dot"); err != nil {
		t.Fatal(err)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "SK_Merged.skeleton.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(dot), "head.001") {
		t.Errorf("duplicate bone survived:\n%s", dot)
	}
}

func TestRigName(t *testing.T) {
	if got := rigName("/a/SK_Body.rig.json"); got != "SK_Body" {
		t.Errorf("rigName() = %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "version:") {
		t.Errorf("version output = %q", out)
	}
}
