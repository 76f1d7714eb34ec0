// Package assembly runs an import job against a host.
//
// A [Job] walks the payload group by group. For every part it asks the host
// to load the mesh, resolves the part's materials through a job-scoped
// cache, applies part and variant overrides, and sets the head morph. For
// outfit groups with skeleton merging enabled it then unions the merge set,
// collapses duplicate bones according to [skeleton.PlanMerge], and
// constrains socket-attached parts to the master skeleton.
//
// All decisions come from packages asset, material and skeleton; this
// package only sequences them and applies the results through [host.Host].
//
// # Failure handling
//
// Lookup misses and missing sockets are logged and skipped. A part that
// fails to load is recorded in the [Report] and the job continues without
// it. A union failure stops the job: Run returns the report built so far
// together with an UNION_FAILURE error. Nothing is retried.
package assembly
