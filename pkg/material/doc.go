// Package material maps exporter material parameters onto the fixed input
// surface of the character shader.
//
// Exporters describe a material as open lists of named textures, scalars,
// vectors and switches. The shader only understands a small set of inputs,
// so each list is routed through a fixed table and names without a mapping
// are ignored.
//
// A [Resolver] caches resolved materials by content hash for the lifetime
// of one job, so a material shared by several parts is synthesized once and
// every binding of it receives the same [*Resolved] value.
//
//	cache := material.NewCache()
//	r := material.NewResolver(cache, material.BaseInputsFrom(opts), logger)
//	res, hit := r.Resolve(binding, meta)
//
// Override matching ([SlotOverrideTargets], [VariantOverrideTargets]) decides
// which mesh slots an override rebinds; applying it is left to the caller.
package material
