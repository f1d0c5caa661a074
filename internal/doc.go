// Package internal contains the core implementation packages for facet.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the facet library and CLI.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - compiler: compile cache, template validation, and dispatch generation
//   - config: configuration management with validation
//   - discovery: sidecar template and render-method discovery
//   - errors: template error aggregation and collection
//   - handlers: template handler registry and built-in handlers
//   - i18n: per-component translation backends
//   - preview: development preview server with live reload
//   - registry: component registry and event broadcasting
//   - renderer: the host-facing render entry point
//   - slots: content-slot resolution
//   - watcher: file system monitoring with debouncing
package internal
