package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rigport/rigport/internal/config"
	"github.com/rigport/rigport/pkg/assembly"
	"github.com/rigport/rigport/pkg/pipeline"
	"github.com/rigport/rigport/pkg/render"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestResolveCacheDirPrefersConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = "/srv/rigport-cache"
	dir, err := resolveCacheDir(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/srv/rigport-cache" {
		t.Errorf("resolveCacheDir() = %q", dir)
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		payload string
		want    string
	}{
		{"explicit", "/out", "/in/payload.json", "/out"},
		{"next to payload", "", "/in/renegade.json", "/in/renegade.rigport"},
		{"relative payload", "", "renegade.json", "renegade.rigport"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputDir(tt.output, tt.payload); got != tt.want {
				t.Errorf("outputDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteResultKeepsFilesInDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	res := &pipeline.Result{
		Report: &assembly.Report{JobID: "job"},
		Artifacts: []pipeline.Artifact{
			{Group: "../Renegade / Raider", Kind: pipeline.KindHierarchy, Format: render.FormatDOT, Data: []byte("digraph {}")},
		},
	}
	files, err := writeResult(dir, res)
	if err != nil {
		t.Fatalf("writeResult() error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("wrote %d files, want artifact and report", len(files))
	}
	for _, f := range files {
		if filepath.Dir(f.Path) != dir {
			t.Errorf("%s written outside %s", f.Path, dir)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "_Renegade _ Raider.skeleton.dot")); err != nil {
		t.Error(err)
	}
}
