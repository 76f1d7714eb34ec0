// Package host defines the contract between rigport's assembly logic and the
// environment that owns the scene.
//
// The assembly job never touches scene objects directly. It asks a [Host]
// to load, union and mutate them through opaque [Handle] values and keeps
// all decisions (classification, material synthesis, merge planning) in
// host-independent packages.
package host

import (
	"context"
	"errors"

	"github.com/rigport/rigport/pkg/material"
	"github.com/rigport/rigport/pkg/skeleton"
)

// Handle is an opaque reference to a host-owned object.
type Handle string

var (
	// ErrNotFound is returned when an asset file does not exist.
	ErrNotFound = errors.New("asset not found")

	// ErrDecode is returned when an asset exists but cannot be read.
	ErrDecode = errors.New("asset could not be decoded")

	// ErrUnknownHandle is returned when a handle does not refer to a live
	// object of the expected kind.
	ErrUnknownHandle = errors.New("unknown handle")
)

// Loader loads assets from the host's storage.
type Loader interface {
	// LoadMesh imports the mesh at path and returns its skeleton and mesh.
	LoadMesh(ctx context.Context, path string) (skel, mesh Handle, err error)

	// LoadImage imports the image at path. ok is false when the image does
	// not exist, which is not an error.
	LoadImage(ctx context.Context, path string) (img Handle, ok bool, err error)
}

// Rigging unions and edits skeletons.
type Rigging interface {
	// UnionSkeletons joins skeletons into handles[0], which survives. The
	// other handles are consumed. Colliding bone names are disambiguated
	// with a ".NNN" suffix.
	UnionSkeletons(ctx context.Context, handles []Handle) (Handle, error)

	// UnionMeshes joins meshes into handles[0], which survives.
	UnionMeshes(ctx context.Context, handles []Handle) (Handle, error)

	EnumerateBones(ctx context.Context, skel Handle) ([]skeleton.Bone, error)
	SetBoneParent(ctx context.Context, skel Handle, bone, parent string) error
	RemoveBones(ctx context.Context, skel Handle, names []string) error

	// CreateConstraint keeps child's transform relative to bone of parent.
	CreateConstraint(ctx context.Context, child, parent Handle, bone string, rot skeleton.Euler) error
}

// Shading binds materials to mesh slots.
type Shading interface {
	MaterialSlots(ctx context.Context, mesh Handle) ([]material.Slot, error)

	// BindMaterial returns the material bound at slot if its name matches
	// name case-insensitively; otherwise it creates a material called name
	// and binds it.
	BindMaterial(ctx context.Context, mesh Handle, slot int, name string) (Handle, error)

	// AssignMaterial binds an existing material to slot.
	AssignMaterial(ctx context.Context, mesh Handle, slot int, mat Handle) error

	// ApplyShaderParameters writes a parameter set into a material.
	// images maps texture slots to loaded images; unmapped slots stay empty.
	ApplyShaderParameters(ctx context.Context, mat Handle, params material.ParameterSet, images map[string]Handle) error
}

// Scene covers the remaining object plumbing.
type Scene interface {
	CreateCollection(ctx context.Context, name string) error
	ShapeKeys(ctx context.Context, mesh Handle) ([]string, error)
	SetShapeKey(ctx context.Context, mesh Handle, key string, value float64) error
}

// Host is everything the assembly job needs from its environment.
type Host interface {
	Loader
	Rigging
	Shading
	Scene
}
