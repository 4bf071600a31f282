// Package protocol defines the service-space types exchanged with the
// JSON language service: zero-based positions and ranges with UTF-16
// character offsets, document snapshots, diagnostics, and capability
// results. It also provides a Mapper for converting between byte offsets
// and positions.
//
// These types mirror the Language Server Protocol shapes the service
// speaks; the editor-facing representations live in the editor package
// and are translated by the bridge package.
package protocol
