// Package preset stores named layout requests.
//
// A [Preset] pairs a unique name with a [pipeline.Options] value, so a
// carousel configuration can be saved once and rendered later from the CLI
// (`carousel preset show`) or the HTTP API (`GET /v1/presets/{name}/layout`).
//
// # Backends
//
// The [Store] interface has four implementations:
//   - sqlite: a local database file, the CLI default
//   - file: one JSON document per preset in a directory
//   - mongo: a shared collection for multi-instance deployments
//   - memory: process-local storage for tests and ephemeral servers
//
// [Open] selects one from a [config.PresetConfig] and wraps it so every
// operation is reported to the observability store hooks.
//
// # Naming
//
// Names are validated with [errors.ValidatePresetName]. Saving an existing
// name replaces its description and options but keeps its ID and creation
// time. Looking up or deleting a missing name fails with
// PRESET_NOT_FOUND.
package preset
