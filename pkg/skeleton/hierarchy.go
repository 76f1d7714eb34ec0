package skeleton

import (
	"encoding/json"
	"errors"
	"slices"
)

var (
	// ErrInvalidBoneName is returned when adding a bone with an empty name.
	ErrInvalidBoneName = errors.New("bone name must not be empty")

	// ErrDuplicateBone is returned when adding a bone whose name is taken.
	ErrDuplicateBone = errors.New("duplicate bone name")

	// ErrUnknownBone is returned when a bone or parent is not in the hierarchy.
	ErrUnknownBone = errors.New("unknown bone")

	// ErrCycle is returned when a parent assignment would make a bone its
	// own ancestor.
	ErrCycle = errors.New("hierarchy contains a cycle")
)

// Bone is one joint of a skeleton. Parent is empty for roots.
type Bone struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// IsRoot reports whether the bone has no parent.
func (b Bone) IsRoot() bool { return b.Parent == "" }

// Hierarchy is a forest of bones keyed by name.
//
// Bones keep their insertion order, which is the order hosts enumerate them
// in. Hierarchy is not safe for concurrent use.
type Hierarchy struct {
	bones    map[string]*Bone
	order    []string
	children map[string][]string
}

// New creates an empty hierarchy.
func New() *Hierarchy {
	return &Hierarchy{
		bones:    make(map[string]*Bone),
		children: make(map[string][]string),
	}
}

// FromBones builds a hierarchy from an enumerated bone list. Parents may
// appear after their children; every named parent must be in the list.
func FromBones(bones []Bone) (*Hierarchy, error) {
	h := New()
	for _, b := range bones {
		if err := h.AddBone(Bone{Name: b.Name}); err != nil {
			return nil, err
		}
	}
	for _, b := range bones {
		if b.Parent == "" {
			continue
		}
		if err := h.SetParent(b.Name, b.Parent); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// AddBone inserts a bone. Its parent, if any, must already exist.
func (h *Hierarchy) AddBone(b Bone) error {
	if b.Name == "" {
		return ErrInvalidBoneName
	}
	if _, exists := h.bones[b.Name]; exists {
		return ErrDuplicateBone
	}
	if b.Parent != "" {
		if _, ok := h.bones[b.Parent]; !ok {
			return ErrUnknownBone
		}
	}
	bone := b
	h.bones[b.Name] = &bone
	h.order = append(h.order, b.Name)
	if b.Parent != "" {
		h.children[b.Parent] = append(h.children[b.Parent], b.Name)
	}
	return nil
}

// SetParent re-parents a bone. An empty parent makes the bone a root.
// Assignments that would create a cycle are rejected with ErrCycle and
// leave the hierarchy unchanged.
func (h *Hierarchy) SetParent(name, parent string) error {
	bone, ok := h.bones[name]
	if !ok {
		return ErrUnknownBone
	}
	if parent != "" {
		if _, ok := h.bones[parent]; !ok {
			return ErrUnknownBone
		}
		if parent == name || h.IsAncestor(name, parent) {
			return ErrCycle
		}
	}
	if bone.Parent == parent {
		return nil
	}
	if bone.Parent != "" {
		h.unlink(bone.Parent, name)
	}
	bone.Parent = parent
	if parent != "" {
		h.children[parent] = append(h.children[parent], name)
	}
	return nil
}

// IsAncestor reports whether ancestor is a strict ancestor of name.
func (h *Hierarchy) IsAncestor(ancestor, name string) bool {
	seen := make(map[string]bool)
	for cur := h.parentOf(name); cur != ""; cur = h.parentOf(cur) {
		if cur == ancestor {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
	}
	return false
}

func (h *Hierarchy) parentOf(name string) string {
	if b, ok := h.bones[name]; ok {
		return b.Parent
	}
	return ""
}

func (h *Hierarchy) unlink(parent, child string) {
	h.children[parent] = slices.DeleteFunc(h.children[parent], func(s string) bool { return s == child })
	if len(h.children[parent]) == 0 {
		delete(h.children, parent)
	}
}

// Remove deletes bones by name. Children of a removed bone are re-parented
// to the removed bone's own parent. Unknown names are ignored.
func (h *Hierarchy) Remove(names ...string) {
	for _, name := range names {
		bone, ok := h.bones[name]
		if !ok {
			continue
		}
		for _, child := range slices.Clone(h.children[name]) {
			h.bones[child].Parent = bone.Parent
			if bone.Parent != "" {
				h.children[bone.Parent] = append(h.children[bone.Parent], child)
			}
		}
		delete(h.children, name)
		if bone.Parent != "" {
			h.unlink(bone.Parent, name)
		}
		delete(h.bones, name)
		h.order = slices.DeleteFunc(h.order, func(s string) bool { return s == name })
	}
}

// Bone returns the named bone.
func (h *Hierarchy) Bone(name string) (Bone, bool) {
	b, ok := h.bones[name]
	if !ok {
		return Bone{}, false
	}
	return *b, true
}

// Has reports whether the named bone exists.
func (h *Hierarchy) Has(name string) bool {
	_, ok := h.bones[name]
	return ok
}

// Bones returns all bones in insertion order.
func (h *Hierarchy) Bones() []Bone {
	out := make([]Bone, 0, len(h.order))
	for _, name := range h.order {
		out = append(out, *h.bones[name])
	}
	return out
}

// Len returns the number of bones.
func (h *Hierarchy) Len() int { return len(h.order) }

// Children returns the direct children of a bone in insertion order.
func (h *Hierarchy) Children(name string) []string {
	return slices.Clone(h.children[name])
}

// Roots returns the names of parentless bones in insertion order.
func (h *Hierarchy) Roots() []string {
	var roots []string
	for _, name := range h.order {
		if h.bones[name].Parent == "" {
			roots = append(roots, name)
		}
	}
	return roots
}

// Depth returns the number of ancestors of a bone, or -1 if it is unknown.
func (h *Hierarchy) Depth(name string) int {
	if !h.Has(name) {
		return -1
	}
	depth := 0
	for cur := h.parentOf(name); cur != ""; cur = h.parentOf(cur) {
		depth++
	}
	return depth
}

// Walk visits bones depth-first from each root, parents before children.
// Returning false from fn stops the walk.
func (h *Hierarchy) Walk(fn func(b Bone, depth int) bool) {
	var visit func(name string, depth int) bool
	visit = func(name string, depth int) bool {
		if !fn(*h.bones[name], depth) {
			return false
		}
		for _, c := range h.children[name] {
			if !visit(c, depth+1) {
				return false
			}
		}
		return true
	}
	for _, r := range h.Roots() {
		if !visit(r, 0) {
			return
		}
	}
}

// Clone returns a deep copy.
func (h *Hierarchy) Clone() *Hierarchy {
	c := New()
	for _, name := range h.order {
		b := *h.bones[name]
		c.bones[name] = &b
	}
	c.order = slices.Clone(h.order)
	for k, v := range h.children {
		c.children[k] = slices.Clone(v)
	}
	return c
}

// MarshalJSON encodes the hierarchy as its bone list.
func (h *Hierarchy) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Bones())
}

// UnmarshalJSON decodes a bone list.
func (h *Hierarchy) UnmarshalJSON(data []byte) error {
	var bones []Bone
	if err := json.Unmarshal(data, &bones); err != nil {
		return err
	}
	built, err := FromBones(bones)
	if err != nil {
		return err
	}
	*h = *built
	return nil
}
