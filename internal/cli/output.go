package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rigport/rigport/pkg/pipeline"
)

// reportFile is the name of the report written next to the artifacts.
const reportFile = "report.json"

// outputDir returns output, or "<payload base>.rigport" next to the
// payload when output is empty.
func outputDir(output, payload string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(payload, filepath.Ext(payload)) + ".rigport"
}

// writtenFile is one file written by writeResult.
type writtenFile struct {
	Path   string
	Cached bool
}

// writeResult writes every artifact and the job report into dir.
func writeResult(dir string, res *pipeline.Result) ([]writtenFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var files []writtenFile
	for _, a := range res.Artifacts {
		path := filepath.Join(dir, a.Name())
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return files, fmt.Errorf("write %s: %w", a.Name(), err)
		}
		files = append(files, writtenFile{Path: path, Cached: a.Cached})
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return files, fmt.Errorf("encode report: %w", err)
	}
	path := filepath.Join(dir, reportFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return files, fmt.Errorf("write report: %w", err)
	}
	return append(files, writtenFile{Path: path}), nil
}
