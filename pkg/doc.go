// Package pkg provides the core libraries for rigport character assembly.
//
// # Overview
//
// rigport turns the payload an asset extractor writes into an assembled
// character: parts are imported, their materials bound and de-duplicated,
// and the skeletons of an outfit merged into one master hierarchy. The
// decision logic is pure; everything that touches a scene goes through the
// [host] contract.
//
// # Architecture
//
//	payload.json
//	     ↓
//	[asset]      decode, validate, classify parts
//	     ↓
//	[assembly]   run the job against a [host.Host]
//	     ├── [material]  resolve shader parameters, job-scoped cache
//	     └── [skeleton]  canonical names, merge plan, attachments
//	     ↓
//	[pipeline]   render artifacts ([render/nodelink], [render/swatch]),
//	             cached through [cache]
//
// # Hosts
//
//   - [host/memhost]: in-memory scene used by tests and as the base of
//     the sandbox host.
//   - [host/sandbox]: resolves meshes, rig sidecars and textures under an
//     assets folder for dry runs, the CLI and the API server.
//
// # Supporting packages
//
//   - [errors]: coded errors shared by the job, CLI and API.
//   - [observability]: hook interfaces for jobs, rendering, cache and HTTP.
//   - [buildinfo]: version metadata injected at build time.
package pkg
