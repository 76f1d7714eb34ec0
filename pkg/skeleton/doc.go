// Package skeleton reconciles independently exported skeletons into one
// master hierarchy.
//
// Every part of a character is exported with its own copy of the shared
// bones. When a host unions those skeletons, colliding names are
// disambiguated with a ".NNN" suffix ("spine", "spine.001", ...).
// [Canonical] strips that suffix so all copies of a bone are recognised as
// the same bone.
//
// # Merging
//
// [PlanMerge] takes the bones of a unioned skeleton and works out how to
// collapse it:
//
//  1. Record canonical(bone) → canonical(parent) for every parented bone.
//  2. Remove every bone whose raw name carries the duplicate suffix.
//  3. Re-parent each surviving bone to its surviving canonical parent.
//
// The plan is plain data. Applying it to a host is the caller's job, which
// keeps this package free of host dependencies.
//
// # Attachments
//
// Parts that hang off a socket instead of merging are described by
// [AttachmentDirective] values built with [Attach].
package skeleton
