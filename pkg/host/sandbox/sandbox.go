// Package sandbox is a file-backed dry-run [host.Host].
//
// A Host resolves engine asset paths under an assets folder the way the
// extractor lays files out, reads each mesh's rig sidecar, probes image
// headers, and replays every scene operation on an in-memory
// [memhost.Scene]. It lets a payload be validated and its merge planned
// without a DCC application.
package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ftrvxmtrx/tga"

	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/host"
	"github.com/rigport/rigport/pkg/host/memhost"
)

// RigSuffix is appended to a mesh file's base name to find its rig sidecar.
const RigSuffix = ".rig.json"

// imageDecoders are tried in order for every texture path.
var imageDecoders = []struct {
	ext    string
	config func(io.Reader) (image.Config, error)
}{
	{".png", png.DecodeConfig},
	{".tga", tga.DecodeConfig},
}

// Host resolves assets under Root and keeps the scene in memory.
type Host struct {
	*memhost.Scene

	root       string
	exportType asset.MeshExportType
	logger     *log.Logger
}

var _ host.Host = (*Host)(nil)

// New creates a sandbox host rooted at the assets folder root.
func New(root string, exportType asset.MeshExportType, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Host{
		Scene:      memhost.New(),
		root:       root,
		exportType: exportType,
		logger:     logger,
	}
}

// Root returns the assets folder.
func (h *Host) Root() string { return h.root }

// localBase maps "/Game/Dir/Name.Name" to "<root>/Game/Dir/Name". It
// reports false for a path that is invalid or resolves outside the root.
func (h *Host) localBase(path string) (string, bool) {
	if err := errors.ValidateAssetPath(path); err != nil {
		return "", false
	}
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, '/') {
		path = path[:i]
	}
	root := filepath.Clean(h.root)
	base := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	rel, err := filepath.Rel(root, base)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return base, true
}

// MeshExtensions returns the file extensions tried for a mesh, in order.
func MeshExtensions(t asset.MeshExportType) []string {
	if t == asset.MeshActorX {
		return []string{".pskx", ".psk"}
	}
	return []string{".uemodel"}
}

// ResolveMesh returns the mesh file for an asset path.
func (h *Host) ResolveMesh(path string) (string, error) {
	base, ok := h.localBase(path)
	if !ok {
		return "", fmt.Errorf("%w: %s is outside the assets folder", host.ErrNotFound, path)
	}
	for _, ext := range MeshExtensions(h.exportType) {
		file := base + ext
		if _, err := os.Stat(file); err == nil {
			return file, nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", host.ErrNotFound, path, h.exportType)
}

// ReadRig decodes a rig sidecar file.
func ReadRig(path string) (memhost.Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return memhost.Rig{}, fmt.Errorf("%w: %s", host.ErrNotFound, path)
		}
		return memhost.Rig{}, err
	}
	var rig memhost.Rig
	if err := json.Unmarshal(data, &rig); err != nil {
		return memhost.Rig{}, fmt.Errorf("%w: %s: %v", host.ErrDecode, path, err)
	}
	return rig, nil
}

// LoadMesh resolves the mesh file and its sidecar, registers the rig with
// the scene and loads it.
func (h *Host) LoadMesh(ctx context.Context, path string) (host.Handle, host.Handle, error) {
	file, err := h.ResolveMesh(path)
	if err != nil {
		return "", "", err
	}
	sidecar := strings.TrimSuffix(file, filepath.Ext(file)) + RigSuffix
	rig, err := ReadRig(sidecar)
	if err != nil {
		return "", "", fmt.Errorf("%w: rig for %s: %v", host.ErrDecode, path, err)
	}
	h.logger.Debug("loaded mesh", "path", path, "file", file, "bones", len(rig.Bones))
	h.Scene.AddMesh(path, rig)
	return h.Scene.LoadMesh(ctx, path)
}

// LoadImage resolves "<root>/<path>.png", then ".tga". A missing file, or
// a path outside the root, is absent; a file whose header does not decode
// is ErrDecode.
func (h *Host) LoadImage(ctx context.Context, path string) (host.Handle, bool, error) {
	base, ok := h.localBase(path)
	if !ok {
		h.logger.Debug("image path outside assets folder", "path", path)
		return "", false, nil
	}
	for _, dec := range imageDecoders {
		file := base + dec.ext
		f, err := os.Open(file)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", false, err
		}
		cfg, err := dec.config(f)
		f.Close()
		if err != nil {
			return "", false, fmt.Errorf("%w: %s: %v", host.ErrDecode, file, err)
		}
		h.logger.Debug("probed image", "path", path, "file", file, "width", cfg.Width, "height", cfg.Height)
		h.Scene.AddImage(path)
		return h.Scene.LoadImage(ctx, path)
	}
	return "", false, nil
}
