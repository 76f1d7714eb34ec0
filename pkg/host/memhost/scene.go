// Package memhost is an in-memory [host.Host].
//
// Scene keeps skeletons, meshes, materials and images as plain Go values and
// mimics the behaviour assembly depends on: unions rename colliding bones
// with ".NNN" suffixes, removing a bone hands its children to its parent,
// and BindMaterial reuses a slot's material when the names match.
//
// Meshes and images are registered up front with [Scene.AddMesh] and
// [Scene.AddImage]; loading anything else fails with [host.ErrNotFound] or
// reports the image as absent.
package memhost

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/host"
	"github.com/rigport/rigport/pkg/material"
	"github.com/rigport/rigport/pkg/skeleton"
)

// Rig is the content of one mesh file.
type Rig struct {
	Bones     []skeleton.Bone `json:"bones"`
	Materials []string        `json:"materials"`
	ShapeKeys []string        `json:"shape_keys,omitempty"`
}

// Constraint is a socket attachment created by CreateConstraint.
type Constraint struct {
	Child    host.Handle    `json:"child"`
	Parent   host.Handle    `json:"parent"`
	Bone     string         `json:"bone"`
	Rotation skeleton.Euler `json:"rotation"`
}

// Material is a material object.
type Material struct {
	Name   string                 `json:"name"`
	Params *material.ParameterSet `json:"params,omitempty"`
	Images map[string]host.Handle `json:"images,omitempty"`
}

type skeletonObject struct {
	name  string
	bones *skeleton.Hierarchy
}

type meshObject struct {
	name      string
	path      string
	slots     []host.Handle
	shapeKeys []string
	values    map[string]float64
}

type imageObject struct {
	name string
	path string
}

// Scene is an in-memory host. It is not safe for concurrent use.
type Scene struct {
	rigs   map[string]Rig
	files  map[string]bool
	next   int
	skels  map[host.Handle]*skeletonObject
	meshes map[host.Handle]*meshObject
	mats   map[host.Handle]*Material
	images map[host.Handle]*imageObject

	// Collections lists created collections in order.
	Collections []string
	// Constraints lists created constraints in order.
	Constraints []Constraint

	// UnionErr, when set, makes every union fail with it.
	UnionErr error
}

var _ host.Host = (*Scene)(nil)

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		rigs:   make(map[string]Rig),
		files:  make(map[string]bool),
		skels:  make(map[host.Handle]*skeletonObject),
		meshes: make(map[host.Handle]*meshObject),
		mats:   make(map[host.Handle]*Material),
		images: make(map[host.Handle]*imageObject),
	}
}

// AddMesh registers the rig LoadMesh returns for path.
func (s *Scene) AddMesh(path string, rig Rig) {
	s.rigs[path] = rig
}

// AddImage registers an image path so LoadImage finds it.
func (s *Scene) AddImage(path string) {
	s.files[path] = true
}

func (s *Scene) handle(kind, name string) host.Handle {
	s.next++
	return host.Handle(kind + ":" + strconv.Itoa(s.next) + ":" + name)
}

// ObjectName returns the object name exporters give an asset path: the text
// after the last dot, or the last path element when there is no dot.
func ObjectName(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// LoadMesh implements host.Loader.
func (s *Scene) LoadMesh(ctx context.Context, path string) (host.Handle, host.Handle, error) {
	rig, ok := s.rigs[path]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", host.ErrNotFound, path)
	}
	bones, err := skeleton.FromBones(rig.Bones)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", host.ErrDecode, path, err)
	}

	name := ObjectName(path)
	skel := s.handle("skeleton", name)
	s.skels[skel] = &skeletonObject{name: name, bones: bones}

	mesh := s.handle("mesh", name)
	m := &meshObject{name: name, path: path, shapeKeys: slices.Clone(rig.ShapeKeys), values: make(map[string]float64)}
	for _, matName := range rig.Materials {
		h := s.handle("material", matName)
		s.mats[h] = &Material{Name: matName}
		m.slots = append(m.slots, h)
	}
	s.meshes[mesh] = m
	return skel, mesh, nil
}

// LoadImage implements host.Loader. Images are shared by object name.
func (s *Scene) LoadImage(ctx context.Context, path string) (host.Handle, bool, error) {
	name := ObjectName(path)
	for h, img := range s.images {
		if img.name == name {
			return h, true, nil
		}
	}
	if !s.files[path] {
		return "", false, nil
	}
	h := s.handle("image", name)
	s.images[h] = &imageObject{name: name, path: path}
	return h, true, nil
}

func (s *Scene) skeleton(h host.Handle) (*skeletonObject, error) {
	obj, ok := s.skels[h]
	if !ok {
		return nil, fmt.Errorf("%w: skeleton %s", host.ErrUnknownHandle, h)
	}
	return obj, nil
}

func (s *Scene) mesh(h host.Handle) (*meshObject, error) {
	obj, ok := s.meshes[h]
	if !ok {
		return nil, fmt.Errorf("%w: mesh %s", host.ErrUnknownHandle, h)
	}
	return obj, nil
}

// UnionSkeletons implements host.Rigging.
func (s *Scene) UnionSkeletons(ctx context.Context, handles []host.Handle) (host.Handle, error) {
	if s.UnionErr != nil {
		return "", s.UnionErr
	}
	if len(handles) == 0 {
		return "", fmt.Errorf("%w: no skeletons to union", host.ErrUnknownHandle)
	}
	primary, err := s.skeleton(handles[0])
	if err != nil {
		return "", err
	}
	others := make([]*skeletonObject, 0, len(handles)-1)
	for _, h := range handles[1:] {
		obj, err := s.skeleton(h)
		if err != nil {
			return "", err
		}
		others = append(others, obj)
	}

	merged := primary.bones.Clone()
	for _, obj := range others {
		renamed := make(map[string]string)
		for _, b := range obj.bones.Bones() {
			renamed[b.Name] = uniqueName(merged, b.Name)
			if err := merged.AddBone(skeleton.Bone{Name: renamed[b.Name]}); err != nil {
				return "", err
			}
		}
		for _, b := range obj.bones.Bones() {
			if b.Parent == "" {
				continue
			}
			if err := merged.SetParent(renamed[b.Name], renamed[b.Parent]); err != nil {
				return "", err
			}
		}
	}

	primary.bones = merged
	for _, h := range handles[1:] {
		delete(s.skels, h)
	}
	return handles[0], nil
}

func uniqueName(h *skeleton.Hierarchy, name string) string {
	if !h.Has(name) {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%03d", name, i)
		if !h.Has(candidate) {
			return candidate
		}
	}
}

// UnionMeshes implements host.Rigging. Slots of joined meshes are appended
// unless the primary already holds the same material.
func (s *Scene) UnionMeshes(ctx context.Context, handles []host.Handle) (host.Handle, error) {
	if s.UnionErr != nil {
		return "", s.UnionErr
	}
	if len(handles) == 0 {
		return "", fmt.Errorf("%w: no meshes to union", host.ErrUnknownHandle)
	}
	primary, err := s.mesh(handles[0])
	if err != nil {
		return "", err
	}
	for _, h := range handles[1:] {
		obj, err := s.mesh(h)
		if err != nil {
			return "", err
		}
		for _, slot := range obj.slots {
			if !slices.Contains(primary.slots, slot) {
				primary.slots = append(primary.slots, slot)
			}
		}
		for _, key := range obj.shapeKeys {
			if !slices.Contains(primary.shapeKeys, key) {
				primary.shapeKeys = append(primary.shapeKeys, key)
				primary.values[key] = obj.values[key]
			}
		}
	}
	for _, h := range handles[1:] {
		delete(s.meshes, h)
	}
	return handles[0], nil
}

// EnumerateBones implements host.Rigging.
func (s *Scene) EnumerateBones(ctx context.Context, skel host.Handle) ([]skeleton.Bone, error) {
	obj, err := s.skeleton(skel)
	if err != nil {
		return nil, err
	}
	return obj.bones.Bones(), nil
}

// SetBoneParent implements host.Rigging.
func (s *Scene) SetBoneParent(ctx context.Context, skel host.Handle, bone, parent string) error {
	obj, err := s.skeleton(skel)
	if err != nil {
		return err
	}
	return obj.bones.SetParent(bone, parent)
}

// RemoveBones implements host.Rigging.
func (s *Scene) RemoveBones(ctx context.Context, skel host.Handle, names []string) error {
	obj, err := s.skeleton(skel)
	if err != nil {
		return err
	}
	obj.bones.Remove(names...)
	return nil
}

// CreateConstraint implements host.Rigging.
func (s *Scene) CreateConstraint(ctx context.Context, child, parent host.Handle, bone string, rot skeleton.Euler) error {
	if _, err := s.skeleton(child); err != nil {
		return err
	}
	obj, err := s.skeleton(parent)
	if err != nil {
		return err
	}
	if !obj.bones.Has(bone) {
		return fmt.Errorf("%w: bone %q on %s", host.ErrNotFound, bone, parent)
	}
	s.Constraints = append(s.Constraints, Constraint{Child: child, Parent: parent, Bone: bone, Rotation: rot})
	return nil
}

// MaterialSlots implements host.Shading. A slot is named after its material.
func (s *Scene) MaterialSlots(ctx context.Context, mesh host.Handle) ([]material.Slot, error) {
	obj, err := s.mesh(mesh)
	if err != nil {
		return nil, err
	}
	out := make([]material.Slot, len(obj.slots))
	for i, h := range obj.slots {
		name := s.mats[h].Name
		out[i] = material.Slot{Index: i, Name: name, MaterialName: name}
	}
	return out, nil
}

func (s *Scene) slot(mesh host.Handle, slot int) (*meshObject, error) {
	obj, err := s.mesh(mesh)
	if err != nil {
		return nil, err
	}
	if slot < 0 || slot >= len(obj.slots) {
		return nil, fmt.Errorf("%w: slot %d on %s", host.ErrNotFound, slot, mesh)
	}
	return obj, nil
}

// BindMaterial implements host.Shading.
func (s *Scene) BindMaterial(ctx context.Context, mesh host.Handle, slot int, name string) (host.Handle, error) {
	obj, err := s.slot(mesh, slot)
	if err != nil {
		return "", err
	}
	current := obj.slots[slot]
	if asset.SameName(s.mats[current].Name, name) {
		return current, nil
	}
	h := s.handle("material", name)
	s.mats[h] = &Material{Name: name}
	obj.slots[slot] = h
	return h, nil
}

// AssignMaterial implements host.Shading.
func (s *Scene) AssignMaterial(ctx context.Context, mesh host.Handle, slot int, mat host.Handle) error {
	obj, err := s.slot(mesh, slot)
	if err != nil {
		return err
	}
	if _, ok := s.mats[mat]; !ok {
		return fmt.Errorf("%w: material %s", host.ErrUnknownHandle, mat)
	}
	obj.slots[slot] = mat
	return nil
}

// ApplyShaderParameters implements host.Shading.
func (s *Scene) ApplyShaderParameters(ctx context.Context, mat host.Handle, params material.ParameterSet, images map[string]host.Handle) error {
	m, ok := s.mats[mat]
	if !ok {
		return fmt.Errorf("%w: material %s", host.ErrUnknownHandle, mat)
	}
	p := params
	m.Params = &p
	m.Images = make(map[string]host.Handle, len(images))
	for slot, img := range images {
		if _, ok := s.images[img]; !ok {
			return fmt.Errorf("%w: image %s", host.ErrUnknownHandle, img)
		}
		m.Images[slot] = img
	}
	return nil
}

// CreateCollection implements host.Scene. Creating an existing collection
// is a no-op.
func (s *Scene) CreateCollection(ctx context.Context, name string) error {
	if !slices.Contains(s.Collections, name) {
		s.Collections = append(s.Collections, name)
	}
	return nil
}

// ShapeKeys implements host.Scene.
func (s *Scene) ShapeKeys(ctx context.Context, mesh host.Handle) ([]string, error) {
	obj, err := s.mesh(mesh)
	if err != nil {
		return nil, err
	}
	return slices.Clone(obj.shapeKeys), nil
}

// SetShapeKey implements host.Scene.
func (s *Scene) SetShapeKey(ctx context.Context, mesh host.Handle, key string, value float64) error {
	obj, err := s.mesh(mesh)
	if err != nil {
		return err
	}
	if !slices.Contains(obj.shapeKeys, key) {
		return fmt.Errorf("%w: shape key %q on %s", host.ErrNotFound, key, mesh)
	}
	obj.values[key] = value
	return nil
}

// ShapeKeyValue returns the current value of a shape key.
func (s *Scene) ShapeKeyValue(mesh host.Handle, key string) float64 {
	if obj, ok := s.meshes[mesh]; ok {
		return obj.values[key]
	}
	return 0
}

// Material returns a material object.
func (s *Scene) Material(h host.Handle) (*Material, bool) {
	m, ok := s.mats[h]
	return m, ok
}

// SlotMaterials returns the material handle bound to each slot of a mesh.
func (s *Scene) SlotMaterials(mesh host.Handle) []host.Handle {
	if obj, ok := s.meshes[mesh]; ok {
		return slices.Clone(obj.slots)
	}
	return nil
}

// MeshByPath returns the live mesh loaded from path. After a union only
// the primary mesh is live.
func (s *Scene) MeshByPath(path string) (host.Handle, bool) {
	for h, m := range s.meshes {
		if m.path == path {
			return h, true
		}
	}
	return "", false
}

// Skeletons returns the number of live skeleton objects.
func (s *Scene) Skeletons() int { return len(s.skels) }

// Images returns the number of loaded images.
func (s *Scene) Images() int { return len(s.images) }
