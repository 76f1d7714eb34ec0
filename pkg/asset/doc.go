// Package asset defines the declarative payload rigport assembles characters
// from.
//
// An extractor exports a composite asset as a list of groups. Each group
// names an export kind (for example "Outfit") and lists the mesh parts that
// make it up. Every [Part] carries a kind tag, an asset path, its material
// bindings and a small metadata record describing how it attaches to the
// rest of the character.
//
// # Metadata
//
// Exporters attach arbitrary keys to a part. rigport reads the handful it
// understands into the closed [Meta] type, where every field is optional and
// presence is explicit. Unknown keys are ignored.
//
// # Classification
//
// [Classify] splits parts into the merge set (skeletons unioned into one
// master hierarchy) and the attach set (parts constrained to a named socket
// on the master):
//
//	merge, attach := asset.Classify(group.PartsToImport())
package asset
